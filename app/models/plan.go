package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// DOMAIN_OPTION_PLAN_NAME marks the custom-domain add-on fee. It is a
	// data convention matched by name, not a separate entity type; reports
	// may exclude it from totals and counts.
	DOMAIN_OPTION_PLAN_NAME = "独自ドメインオプション利用料"

	// UNKNOWN_PLAN_NAME buckets contracts whose plan reference could not
	// be resolved.
	UNKNOWN_PLAN_NAME = "不明"
)

// Plan is a subscription tier. PriceYearly is the authoritative stored
// price; PriceMonthly is informational and not forced to PriceYearly/12.
// Plans are edited in-app but created externally.
type Plan struct {
	ID             string    `gorm:"primaryKey;type:char(36)" json:"id"`
	Name           string    `gorm:"uniqueIndex;type:varchar(255)" json:"name" validate:"required,max=255"`
	PriceMonthly   int64     `gorm:"not null;default:0" json:"price_monthly" validate:"gte=0"`
	PriceYearly    int64     `gorm:"not null;default:0" json:"price_yearly" validate:"gte=0"`
	DurationMonths int       `gorm:"not null;default:12" json:"duration_months" validate:"gt=0"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Plan model
func (Plan) TableName() string {
	return "plans"
}

// BeforeCreate assigns a UUID primary key before inserting a new plan.
func (p *Plan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

func (p *Plan) Validate() error {
	v := validator.New()

	return v.Struct(p)
}
