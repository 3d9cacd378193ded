package repository

import (
	"time"

	"github.com/contractdesk/contractdesk/app/models"
	"gorm.io/gorm"
)

// ClientRepository defines the interface for client-related database operations
type ClientRepository interface {
	Create(client *models.Client) error
	GetByID(id string) (*models.Client, error)
	GetAll() ([]models.Client, error)
	GetAllWithFirstContractDate() ([]models.Client, error)
	Update(client *models.Client) error
	Count() (int64, error)
}

// PlanRepository defines the interface for plan-related database operations
type PlanRepository interface {
	GetByID(id string) (*models.Plan, error)
	GetByName(name string) (*models.Plan, error)
	GetAll() ([]models.Plan, error)
	Update(plan *models.Plan) error
	Count() (int64, error)
}

// ContractFilter narrows a contract listing. Zero values mean "no
// restriction"; the date bounds apply to the contract start date.
type ContractFilter struct {
	ClientID      string
	PlanID        string
	Status        string
	StartDateFrom *time.Time
	StartDateTo   *time.Time
}

// ContractRepository defines the interface for contract-related database operations
type ContractRepository interface {
	Create(contract *models.Contract) error
	GetByID(id string) (*models.Contract, error)
	GetAll(filter ContractFilter) ([]models.Contract, error)
	GetByPlanName(planName string) ([]models.Contract, error)
	Update(contract *models.Contract) error
	Count() (int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	Client   ClientRepository
	Plan     PlanRepository
	Contract ContractRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Client:   NewClientRepository(db),
		Plan:     NewPlanRepository(db),
		Contract: NewContractRepository(db),
	}
}
