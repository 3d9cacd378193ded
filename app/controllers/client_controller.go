package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/contractdesk/contractdesk/app/models"
	"github.com/contractdesk/contractdesk/app/repository"
	"github.com/contractdesk/contractdesk/internal/pkg/format"
	"github.com/contractdesk/contractdesk/internal/pkg/sortfilter"
)

// ClientController handles client-related HTTP requests using repository pattern
type ClientController struct {
	clientRepo repository.ClientRepository
}

// NewClientController creates a new client controller with repository
func NewClientController(clientRepo repository.ClientRepository) *ClientController {
	return &ClientController{
		clientRepo: clientRepo,
	}
}

// ClientForm carries the editable client fields for create and update.
type ClientForm struct {
	Name                string `json:"name"`
	LegalType           string `json:"legal_type"`
	LegalPosition       string `json:"legal_position"`
	Department          string `json:"department"`
	DefaultContactName  string `json:"default_contact_name"`
	DefaultContactEmail string `json:"default_contact_email"`
	PaymentMethod       string `json:"payment_method"`
}

func (f *ClientForm) apply(client *models.Client) {
	client.Name = f.Name
	client.LegalType = f.LegalType
	client.LegalPosition = f.LegalPosition
	client.Department = f.Department
	client.DefaultContactName = f.DefaultContactName
	client.DefaultContactEmail = f.DefaultContactEmail
	client.PaymentMethod = f.PaymentMethod
}

// clientRow is one client list entry with its derived/display fields.
type clientRow struct {
	models.Client
	DisplayName                string `json:"display_name"`
	FirstContractDateFormatted string `json:"first_contract_date_formatted"`
}

// HandleListClients returns all clients with the derived first contract
// date. Supports keyword filtering and sorting by name or
// first_contract_date.
func (cc *ClientController) HandleListClients(c *fiber.Ctx) error {
	clients, err := cc.clientRepo.GetAllWithFirstContractDate()
	if err != nil {
		return dataSourceError(c, err)
	}

	clients = sortfilter.FilterByKeyword(clients, c.Query("keyword"), func(cl models.Client) []string {
		return []string{cl.Name, cl.Department, cl.DefaultContactName, cl.DefaultContactEmail}
	})

	order := sortfilter.ParseOrder(c.Query("order"))
	switch c.Query("sort") {
	case "first_contract_date":
		clients = sortfilter.SortBy(clients, func(cl models.Client) sortfilter.Value {
			return sortfilter.NullDate(cl.FirstContractDate)
		}, order)
	default:
		clients = sortfilter.SortBy(clients, func(cl models.Client) sortfilter.Value {
			return sortfilter.String(cl.Name)
		}, order)
	}

	rows := make([]clientRow, len(clients))
	for i, cl := range clients {
		rows[i] = clientRow{
			Client:                     cl,
			DisplayName:                format.ClientName(cl.Name, cl.Department),
			FirstContractDateFormatted: format.Date(cl.FirstContractDate),
		}
	}

	return c.JSON(fiber.Map{
		"clients": rows,
		"count":   len(rows),
	})
}

// HandleGetClient returns a single client by ID.
func (cc *ClientController) HandleGetClient(c *fiber.Ctx) error {
	client, err := cc.clientRepo.GetByID(c.Params("id"))
	if err != nil {
		return repoError(c, err, "Client not found")
	}
	return c.JSON(client)
}

// HandleCreateClient validates and stores a new client.
func (cc *ClientController) HandleCreateClient(c *fiber.Ctx) error {
	var form ClientForm
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, "Invalid request body")
	}

	client := &models.Client{}
	form.apply(client)
	if client.PaymentMethod == "" {
		client.PaymentMethod = models.PAYMENT_METHOD_INVOICE
	}
	if err := client.Validate(); err != nil {
		return validationFailed(c, err.Error())
	}

	if err := cc.clientRepo.Create(client); err != nil {
		return dataSourceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

// HandleUpdateClient validates and updates an existing client.
func (cc *ClientController) HandleUpdateClient(c *fiber.Ctx) error {
	client, err := cc.clientRepo.GetByID(c.Params("id"))
	if err != nil {
		return repoError(c, err, "Client not found")
	}

	var form ClientForm
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, "Invalid request body")
	}

	form.apply(client)
	if err := client.Validate(); err != nil {
		return validationFailed(c, err.Error())
	}

	if err := cc.clientRepo.Update(client); err != nil {
		return dataSourceError(c, err)
	}
	return c.JSON(client)
}
