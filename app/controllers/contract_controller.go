package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/contractdesk/contractdesk/app/models"
	"github.com/contractdesk/contractdesk/app/repository"
	"github.com/contractdesk/contractdesk/internal/pkg/format"
	"github.com/contractdesk/contractdesk/internal/pkg/interval"
	"github.com/contractdesk/contractdesk/internal/pkg/sortfilter"
)

// ContractController handles contract-related HTTP requests using repository pattern
type ContractController struct {
	contractRepo repository.ContractRepository
	clientRepo   repository.ClientRepository
	planRepo     repository.PlanRepository
}

// NewContractController creates a new contract controller with repositories
func NewContractController(contractRepo repository.ContractRepository, clientRepo repository.ClientRepository, planRepo repository.PlanRepository) *ContractController {
	return &ContractController{
		contractRepo: contractRepo,
		clientRepo:   clientRepo,
		planRepo:     planRepo,
	}
}

// ContractForm carries the editable contract fields. Dates travel as
// zero-padded YYYY-MM-DD strings.
type ContractForm struct {
	ClientID      string `json:"client_id"`
	PlanID        string `json:"plan_id"`
	Price         int64  `json:"price"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	AutoRenew     bool   `json:"auto_renew"`
	Status        string `json:"status"`
	ContactName   string `json:"contact_name"`
	ContactEmail  string `json:"contact_email"`
	PaymentMethod string `json:"payment_method"`
}

// contractRow is one contract list entry with its display fields.
type contractRow struct {
	models.Contract
	ClientDisplayName string `json:"client_display_name"`
	PlanLabel         string `json:"plan_label"`
	Period            string `json:"period"`
}

func newContractRow(ct models.Contract) contractRow {
	department := ""
	if ct.Client != nil {
		department = ct.Client.Department
	}
	return contractRow{
		Contract:          ct,
		ClientDisplayName: format.ClientName(ct.ClientName(), department),
		PlanLabel:         format.PlanWithPrice(ct.PlanName(), ct.Price),
		Period:            format.ContractPeriod(ct.StartDate, ct.EndDate),
	}
}

// contractSortKey resolves a sort query value to a typed accessor.
// Unknown values fall back to the start date, the screen's default.
func contractSortKey(field string) func(models.Contract) sortfilter.Value {
	switch field {
	case "client.name":
		return func(ct models.Contract) sortfilter.Value { return sortfilter.String(ct.ClientName()) }
	case "plan.name":
		return func(ct models.Contract) sortfilter.Value { return sortfilter.String(ct.PlanName()) }
	case "price":
		return func(ct models.Contract) sortfilter.Value { return sortfilter.Number(float64(ct.Price)) }
	case "status":
		return func(ct models.Contract) sortfilter.Value { return sortfilter.String(ct.Status) }
	default:
		return func(ct models.Contract) sortfilter.Value { return sortfilter.Date(ct.StartDate) }
	}
}

func contractSearchFields(ct models.Contract) []string {
	return []string{ct.ClientName(), ct.PlanName(), ct.ContactName, ct.ContactEmail}
}

// HandleListContracts returns contracts joined with client and plan.
// Equality filters run against the store; keyword and sorting run over
// the fetched set.
func (cc *ContractController) HandleListContracts(c *fiber.Ctx) error {
	filter := repository.ContractFilter{
		ClientID: c.Query("client_id"),
		PlanID:   c.Query("plan_id"),
		Status:   c.Query("status"),
	}
	if from := c.Query("start_date_from"); from != "" {
		t, err := parseDate(from)
		if err != nil {
			return badRequest(c, "start_date_from must be YYYY-MM-DD")
		}
		filter.StartDateFrom = &t
	}
	if to := c.Query("start_date_to"); to != "" {
		t, err := parseDate(to)
		if err != nil {
			return badRequest(c, "start_date_to must be YYYY-MM-DD")
		}
		filter.StartDateTo = &t
	}

	contracts, err := cc.contractRepo.GetAll(filter)
	if err != nil {
		return dataSourceError(c, err)
	}

	contracts = sortfilter.FilterByKeyword(contracts, c.Query("keyword"), contractSearchFields)

	order := sortfilter.ParseOrder(c.Query("order", "desc"))
	contracts = sortfilter.SortBy(contracts, contractSortKey(c.Query("sort", "start_date")), order)

	rows := make([]contractRow, len(contracts))
	for i, ct := range contracts {
		rows[i] = newContractRow(ct)
	}

	// total across the listed set, without the domain option add-on
	exclude := map[string]bool{models.DOMAIN_OPTION_PLAN_NAME: true}
	totalAnnual := interval.TotalAnnualValue(contracts, exclude)

	return c.JSON(fiber.Map{
		"contracts":               rows,
		"count":                   len(rows),
		"total_annual":            totalAnnual,
		"total_monthly":           interval.MonthlyEquivalent(totalAnnual),
		"total_monthly_formatted": format.Yen(interval.MonthlyEquivalent(totalAnnual)),
	})
}

// HandleGetContract returns a single contract by ID.
func (cc *ContractController) HandleGetContract(c *fiber.Ctx) error {
	contract, err := cc.contractRepo.GetByID(c.Params("id"))
	if err != nil {
		return repoError(c, err, "Contract not found")
	}
	return c.JSON(newContractRow(*contract))
}

// buildContract validates the form and assembles the contract fields.
// Relational requirements are checked before any write is attempted.
// When ok is false a response has already been written and the handler
// must return err as-is.
func (cc *ContractController) buildContract(c *fiber.Ctx, form *ContractForm, contract *models.Contract) (ok bool, err error) {
	if form.ClientID == "" || form.PlanID == "" {
		return false, validationFailed(c, "client_id and plan_id are required")
	}
	if _, err := cc.clientRepo.GetByID(form.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, validationFailed(c, "client_id references an unknown client")
		}
		return false, dataSourceError(c, err)
	}
	if _, err := cc.planRepo.GetByID(form.PlanID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, validationFailed(c, "plan_id references an unknown plan")
		}
		return false, dataSourceError(c, err)
	}

	start, err := parseDate(form.StartDate)
	if err != nil {
		return false, badRequest(c, "start_date must be YYYY-MM-DD")
	}
	end, err := parseDate(form.EndDate)
	if err != nil {
		return false, badRequest(c, "end_date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return false, validationFailed(c, "end_date must not precede start_date")
	}

	contract.ClientID = form.ClientID
	contract.PlanID = form.PlanID
	contract.Price = form.Price
	contract.StartDate = start
	contract.EndDate = end
	contract.AutoRenew = form.AutoRenew
	contract.Status = form.Status
	contract.ContactName = form.ContactName
	contract.ContactEmail = form.ContactEmail
	contract.PaymentMethod = form.PaymentMethod
	if contract.Status == "" {
		contract.Status = models.CONTRACT_STATUS_ACTIVE
	}
	if contract.PaymentMethod == "" {
		contract.PaymentMethod = models.PAYMENT_METHOD_INVOICE
	}

	if err := contract.Validate(); err != nil {
		return false, validationFailed(c, err.Error())
	}
	return true, nil
}

// HandleCreateContract validates and stores a new contract.
func (cc *ContractController) HandleCreateContract(c *fiber.Ctx) error {
	var form ContractForm
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, "Invalid request body")
	}

	contract := &models.Contract{}
	if ok, err := cc.buildContract(c, &form, contract); !ok {
		return err
	}

	if err := cc.contractRepo.Create(contract); err != nil {
		return dataSourceError(c, err)
	}

	created, err := cc.contractRepo.GetByID(contract.ID)
	if err != nil {
		return dataSourceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newContractRow(*created))
}

// HandleUpdateContract validates and updates an existing contract.
func (cc *ContractController) HandleUpdateContract(c *fiber.Ctx) error {
	contract, err := cc.contractRepo.GetByID(c.Params("id"))
	if err != nil {
		return repoError(c, err, "Contract not found")
	}

	var form ContractForm
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if ok, err := cc.buildContract(c, &form, contract); !ok {
		return err
	}

	if err := cc.contractRepo.Update(contract); err != nil {
		return dataSourceError(c, err)
	}

	updated, err := cc.contractRepo.GetByID(contract.ID)
	if err != nil {
		return dataSourceError(c, err)
	}
	return c.JSON(newContractRow(*updated))
}
