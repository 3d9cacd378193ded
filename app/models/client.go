package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PAYMENT_METHOD_INVOICE = "invoice"
	PAYMENT_METHOD_STRIPE  = "stripe"
)

// LegalTypeOptions lists the corporate forms selectable on the client form.
var LegalTypeOptions = []string{
	"株式会社",
	"有限会社",
	"合同会社",
	"一般社団法人",
	"財団法人",
	"その他",
}

// LegalPositionOptions: whether the legal type prefixes or suffixes the name.
var LegalPositionOptions = []string{"前株", "後株"}

// Client represents a customer company of the subscription business.
type Client struct {
	ID                  string    `gorm:"primaryKey;type:char(36)" json:"id"`
	Name                string    `gorm:"type:varchar(255);index" json:"name" validate:"required,max=255"`
	LegalType           string    `gorm:"type:varchar(50)" json:"legal_type" validate:"required"`
	LegalPosition       string    `gorm:"type:varchar(50)" json:"legal_position" validate:"required,oneof=前株 後株"`
	Department          string    `gorm:"type:varchar(255);default:null" json:"department" validate:"max=255"`
	DefaultContactName  string    `gorm:"type:varchar(255)" json:"default_contact_name" validate:"max=255"`
	DefaultContactEmail string    `gorm:"type:varchar(200)" json:"default_contact_email" validate:"omitempty,email,max=200"`
	PaymentMethod       string    `gorm:"type:varchar(50);default:'invoice'" json:"payment_method" validate:"oneof=invoice stripe"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// FirstContractDate is derived (MIN(start_date) over the client's
	// contracts) and filled by the repository, never stored.
	FirstContractDate *time.Time `gorm:"-" json:"first_contract_date"`
}

// TableName specifies the table name for the Client model
func (Client) TableName() string {
	return "clients"
}

// BeforeCreate assigns a UUID primary key before inserting a new client.
func (cl *Client) BeforeCreate(tx *gorm.DB) error {
	if cl.ID == "" {
		cl.ID = uuid.New().String()
	}
	return nil
}

func (cl *Client) Validate() error {
	v := validator.New()

	return v.Struct(cl)
}
