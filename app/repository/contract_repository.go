package repository

import (
	"github.com/contractdesk/contractdesk/app/models"
	"gorm.io/gorm"
)

// contractRepository implements the ContractRepository interface
type contractRepository struct {
	db *gorm.DB
}

// NewContractRepository creates a new contract repository instance
func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepository{db: db}
}

// Create creates a new contract in the database
func (r *contractRepository) Create(contract *models.Contract) error {
	return r.db.Create(contract).Error
}

// GetByID retrieves a contract with its client and plan by ID
func (r *contractRepository) GetByID(id string) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.Preload("Client").Preload("Plan").First(&contract, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// GetAll retrieves contracts matching the filter, joined with their client
// and plan, ordered by start date.
func (r *contractRepository) GetAll(filter ContractFilter) ([]models.Contract, error) {
	q := r.db.Preload("Client").Preload("Plan").Order("start_date")

	if filter.ClientID != "" {
		q = q.Where("client_id = ?", filter.ClientID)
	}
	if filter.PlanID != "" {
		q = q.Where("plan_id = ?", filter.PlanID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.StartDateFrom != nil {
		q = q.Where("start_date >= ?", filter.StartDateFrom)
	}
	if filter.StartDateTo != nil {
		q = q.Where("start_date <= ?", filter.StartDateTo)
	}

	var contracts []models.Contract
	err := q.Find(&contracts).Error
	return contracts, err
}

// GetByPlanName retrieves the contracts of the named plan ordered by start
// date, joined with client and plan.
func (r *contractRepository) GetByPlanName(planName string) ([]models.Contract, error) {
	var contracts []models.Contract
	err := r.db.Preload("Client").Preload("Plan").
		Joins("JOIN plans ON plans.id = contracts.plan_id").
		Where("plans.name = ?", planName).
		Order("contracts.start_date").
		Find(&contracts).Error
	return contracts, err
}

// Update updates an existing contract in the database
func (r *contractRepository) Update(contract *models.Contract) error {
	return r.db.Save(contract).Error
}

// Count returns the total number of contracts
func (r *contractRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Contract{}).Count(&count).Error
	return count, err
}
