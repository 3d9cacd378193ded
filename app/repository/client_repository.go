package repository

import (
	"time"

	"github.com/contractdesk/contractdesk/app/models"
	"gorm.io/gorm"
)

// clientRepository implements the ClientRepository interface
type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository instance
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

// Create creates a new client in the database
func (r *clientRepository) Create(client *models.Client) error {
	return r.db.Create(client).Error
}

// GetByID retrieves a client by its ID
func (r *clientRepository) GetByID(id string) (*models.Client, error) {
	var client models.Client
	err := r.db.First(&client, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// GetAll retrieves all clients ordered by name
func (r *clientRepository) GetAll() ([]models.Client, error) {
	var clients []models.Client
	err := r.db.Order("name").Find(&clients).Error
	return clients, err
}

// GetAllWithFirstContractDate retrieves all clients and fills the derived
// FirstContractDate attribute (MIN(start_date) over each client's
// contracts; nil when the client has none).
func (r *clientRepository) GetAllWithFirstContractDate() ([]models.Client, error) {
	clients, err := r.GetAll()
	if err != nil {
		return nil, err
	}

	type firstDateRow struct {
		ClientID  string
		FirstDate time.Time
	}
	var rows []firstDateRow
	err = r.db.Model(&models.Contract{}).
		Select("client_id, MIN(start_date) AS first_date").
		Group("client_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	firstDates := make(map[string]time.Time, len(rows))
	for _, row := range rows {
		firstDates[row.ClientID] = row.FirstDate
	}

	for i := range clients {
		if d, ok := firstDates[clients[i].ID]; ok {
			date := d
			clients[i].FirstContractDate = &date
		}
	}
	return clients, nil
}

// Update updates an existing client in the database
func (r *clientRepository) Update(client *models.Client) error {
	return r.db.Save(client).Error
}

// Count returns the total number of clients
func (r *clientRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Client{}).Count(&count).Error
	return count, err
}
