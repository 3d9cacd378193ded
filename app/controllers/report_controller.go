package controllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/contractdesk/contractdesk/app/models"
	"github.com/contractdesk/contractdesk/app/repository"
	"github.com/contractdesk/contractdesk/internal/pkg/format"
	"github.com/contractdesk/contractdesk/internal/pkg/interval"
	"github.com/contractdesk/contractdesk/internal/pkg/sortfilter"
	"github.com/contractdesk/contractdesk/internal/pkg/statistics"
)

// ReportController serves the monthly aggregate views: the active
// contract list for a reference month and the custom-domain option
// report.
type ReportController struct {
	contractRepo repository.ContractRepository
	planRepo     repository.PlanRepository
}

// NewReportController creates a new report controller with repositories
func NewReportController(contractRepo repository.ContractRepository, planRepo repository.PlanRepository) *ReportController {
	return &ReportController{
		contractRepo: contractRepo,
		planRepo:     planRepo,
	}
}

// activeContractRow is one row of the active list with its display fields.
type activeContractRow struct {
	models.Contract
	ClientDisplayName string `json:"client_display_name"`
	PlanLabel         string `json:"plan_label"`
	MonthlyPrice      int64  `json:"monthly_price"`
	Period            string `json:"period"`
	EndsInMonth       bool   `json:"ends_in_month"`
}

// parseExcludePlans splits the comma-separated exclude_plans query value.
func parseExcludePlans(c *fiber.Ctx) map[string]bool {
	exclude := map[string]bool{}
	for _, name := range strings.Split(c.Query("exclude_plans"), ",") {
		if name = strings.TrimSpace(name); name != "" {
			exclude[name] = true
		}
	}
	return exclude
}

// HandleActiveContracts returns every contract whose interval intersects
// the requested month, with per-plan counts and aggregate totals. The
// month defaults to the current one. The payload echoes the month so a
// client racing rapid selector changes can discard stale responses.
func (rc *ReportController) HandleActiveContracts(c *fiber.Ctx) error {
	var ym interval.YearMonth
	if monthParam := c.Query("month"); monthParam != "" {
		parsed, err := interval.ParseYearMonth(monthParam)
		if err != nil {
			return badRequest(c, "month must be YYYY-MM")
		}
		ym = parsed
	} else {
		now := time.Now()
		ym = interval.YearMonth{Year: now.Year(), Month: now.Month()}
	}

	contracts, err := rc.contractRepo.GetAll(repository.ContractFilter{})
	if err != nil {
		return dataSourceError(c, err)
	}
	plans, err := rc.planRepo.GetAll()
	if err != nil {
		return dataSourceError(c, err)
	}

	active := interval.FilterActive(contracts, ym)

	exclude := parseExcludePlans(c)
	listed := active
	if len(exclude) > 0 {
		listed = make([]models.Contract, 0, len(active))
		for _, ct := range active {
			if !exclude[ct.PlanName()] {
				listed = append(listed, ct)
			}
		}
	}

	order := sortfilter.ParseOrder(c.Query("order"))
	listed = sortfilter.SortBy(listed, activeSortKey(c.Query("sort", "client.name")), order)

	rows := make([]activeContractRow, len(listed))
	for i, ct := range listed {
		department := ""
		if ct.Client != nil {
			department = ct.Client.Department
		}
		rows[i] = activeContractRow{
			Contract:          ct,
			ClientDisplayName: format.ClientName(ct.ClientName(), department),
			PlanLabel:         format.PlanWithPrice(ct.PlanName(), ct.Price),
			MonthlyPrice:      interval.MonthlyEquivalent(ct.Price),
			Period:            format.ContractPeriod(ct.StartDate, ct.EndDate),
			EndsInMonth:       interval.EndsInMonth(ct, ym),
		}
	}

	allPlanNames := make([]string, len(plans))
	for i, p := range plans {
		allPlanNames[i] = p.Name
	}

	totalAnnual := interval.TotalAnnualValue(active, exclude)
	totalMonthly := interval.MonthlyEquivalent(totalAnnual)

	return c.JSON(fiber.Map{
		"month":                   ym.String(),
		"contracts":               rows,
		"count":                   len(rows),
		"total_annual":            totalAnnual,
		"total_monthly":           totalMonthly,
		"total_monthly_formatted": format.Yen(totalMonthly),
		"plan_counts":             interval.CountsByPlan(active, allPlanNames, exclude),
	})
}

// activeSortKey resolves the active list's sort query value to a typed
// accessor; unknown values fall back to the client name, the screen's
// default column.
func activeSortKey(field string) func(models.Contract) sortfilter.Value {
	switch field {
	case "plan.name":
		return func(ct models.Contract) sortfilter.Value { return sortfilter.String(ct.PlanName()) }
	case "price":
		return func(ct models.Contract) sortfilter.Value { return sortfilter.Number(float64(ct.Price)) }
	case "start_date":
		return func(ct models.Contract) sortfilter.Value { return sortfilter.Date(ct.StartDate) }
	default:
		return func(ct models.Contract) sortfilter.Value { return sortfilter.String(ct.ClientName()) }
	}
}

// domainOptionRow is one row of the domain option report detail tables.
type domainOptionRow struct {
	ID                string `json:"id"`
	ClientDisplayName string `json:"client_display_name"`
	Period            string `json:"period"`
	Status            string `json:"status"`
	StatusLabel       string `json:"status_label"`
	ContactName       string `json:"contact_name"`
	ContactEmail      string `json:"contact_email"`
}

// domainOptionMonthGroup aggregates one calendar start month.
type domainOptionMonthGroup struct {
	Month       string            `json:"month"`
	ActiveCount int               `json:"active_count"`
	Contracts   []domainOptionRow `json:"contracts"`
}

var statusLabels = map[string]string{
	models.CONTRACT_STATUS_ACTIVE:  "有効",
	models.CONTRACT_STATUS_PENDING: "準備中",
	models.CONTRACT_STATUS_EXPIRED: "期限切れ",
}

func statusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return "無効"
}

// HandleDomainOptions returns the custom-domain option contracts grouped
// by the calendar month of their start date, January through December.
// The count shown per month covers contracts with status "active"; the
// detail rows list every contract in that month.
func (rc *ReportController) HandleDomainOptions(c *fiber.Ctx) error {
	contracts, err := rc.contractRepo.GetByPlanName(models.DOMAIN_OPTION_PLAN_NAME)
	if err != nil {
		return dataSourceError(c, err)
	}

	all := interval.StartMonthGroups(contracts, false)
	active := interval.StartMonthGroups(contracts, true)

	order := sortfilter.ParseOrder(c.Query("order"))
	key := domainOptionSortKey(c.Query("sort", "client.name"))

	groups := make([]domainOptionMonthGroup, 12)
	for m := 0; m < 12; m++ {
		sorted := sortfilter.SortBy(all[m], key, order)
		rows := make([]domainOptionRow, len(sorted))
		for i, ct := range sorted {
			department := ""
			if ct.Client != nil {
				department = ct.Client.Department
			}
			rows[i] = domainOptionRow{
				ID:                ct.ID,
				ClientDisplayName: format.ClientName(ct.ClientName(), department),
				Period:            format.ContractPeriod(ct.StartDate, ct.EndDate),
				Status:            ct.Status,
				StatusLabel:       statusLabel(ct.Status),
				ContactName:       ct.ContactName,
				ContactEmail:      ct.ContactEmail,
			}
		}
		groups[m] = domainOptionMonthGroup{
			Month:       fmt.Sprintf("%d月", m+1),
			ActiveCount: len(active[m]),
			Contracts:   rows,
		}
	}

	return c.JSON(fiber.Map{
		"plan":          models.DOMAIN_OPTION_PLAN_NAME,
		"current_month": fmt.Sprintf("%d月", int(time.Now().Month())),
		"months":        groups,
		"count":         len(contracts),
	})
}

func domainOptionSortKey(field string) func(models.Contract) sortfilter.Value {
	switch field {
	case "start_date":
		return func(ct models.Contract) sortfilter.Value { return sortfilter.Date(ct.StartDate) }
	default:
		return func(ct models.Contract) sortfilter.Value { return sortfilter.String(ct.ClientName()) }
	}
}

// HandleSummary returns the cached dashboard aggregates.
func (rc *ReportController) HandleSummary(c *fiber.Ctx) error {
	statistics.UpdateCacheIfNeeded()
	return c.JSON(statistics.GetStatisticsData())
}
