package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CONTRACT_STATUS_ACTIVE  = "active"
	CONTRACT_STATUS_PENDING = "pending"
	CONTRACT_STATUS_EXPIRED = "expired"
)

// ContractStatusOptions lists the selectable contract statuses.
var ContractStatusOptions = []string{
	CONTRACT_STATUS_ACTIVE,
	CONTRACT_STATUS_PENDING,
	CONTRACT_STATUS_EXPIRED,
}

// Contract binds a client to a plan over a closed date range
// [StartDate, EndDate]. Price is the annual amount agreed at signing and
// may differ from the plan's current yearly price. Status is authoritative
// display state and independent of the date-overlap computation used by
// the monthly reports.
type Contract struct {
	ID            string    `gorm:"primaryKey;type:char(36)" json:"id"`
	ClientID      string    `gorm:"type:char(36);index;not null" json:"client_id" validate:"required"`
	Client        *Client   `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	PlanID        string    `gorm:"type:char(36);index;not null" json:"plan_id" validate:"required"`
	Plan          *Plan     `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	Price         int64     `gorm:"not null;default:0" json:"price" validate:"gte=0"`
	StartDate     time.Time `gorm:"type:date;index;not null" json:"start_date"`
	EndDate       time.Time `gorm:"type:date;not null" json:"end_date"`
	AutoRenew     bool      `gorm:"type:tinyint(1);default:0" json:"auto_renew"`
	Status        string    `gorm:"type:varchar(50);default:'active'" json:"status" validate:"oneof=active pending expired"`
	ContactName   string    `gorm:"type:varchar(255)" json:"contact_name" validate:"max=255"`
	ContactEmail  string    `gorm:"type:varchar(200)" json:"contact_email" validate:"omitempty,email,max=200"`
	PaymentMethod string    `gorm:"type:varchar(50);default:'invoice'" json:"payment_method" validate:"oneof=invoice stripe"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Contract model
func (Contract) TableName() string {
	return "contracts"
}

// BeforeCreate assigns a UUID primary key before inserting a new contract.
func (ct *Contract) BeforeCreate(tx *gorm.DB) error {
	if ct.ID == "" {
		ct.ID = uuid.New().String()
	}
	return nil
}

func (ct *Contract) Validate() error {
	v := validator.New()

	return v.Struct(ct)
}

// PlanName returns the resolved plan name or the unknown sentinel when the
// plan reference is missing.
func (ct *Contract) PlanName() string {
	if ct.Plan == nil || ct.Plan.Name == "" {
		return UNKNOWN_PLAN_NAME
	}
	return ct.Plan.Name
}

// ClientName returns the resolved client name, empty when unloaded.
func (ct *Contract) ClientName() string {
	if ct.Client == nil {
		return ""
	}
	return ct.Client.Name
}
