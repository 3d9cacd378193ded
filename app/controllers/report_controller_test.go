package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/contractdesk/contractdesk/app/models"
	"github.com/contractdesk/contractdesk/app/repository"
)

// ---- stub repositories ----

type stubContractRepo struct {
	contracts []models.Contract
	created   []models.Contract
	err       error
}

func (s *stubContractRepo) Create(contract *models.Contract) error {
	if s.err != nil {
		return s.err
	}
	if contract.ID == "" {
		contract.ID = "contract-created"
	}
	s.created = append(s.created, *contract)
	s.contracts = append(s.contracts, *contract)
	return nil
}

func (s *stubContractRepo) GetByID(id string) (*models.Contract, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.contracts {
		if s.contracts[i].ID == id {
			ct := s.contracts[i]
			return &ct, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubContractRepo) GetAll(filter repository.ContractFilter) ([]models.Contract, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.Contract, 0, len(s.contracts))
	for _, ct := range s.contracts {
		if filter.Status != "" && ct.Status != filter.Status {
			continue
		}
		if filter.ClientID != "" && ct.ClientID != filter.ClientID {
			continue
		}
		if filter.PlanID != "" && ct.PlanID != filter.PlanID {
			continue
		}
		out = append(out, ct)
	}
	return out, nil
}

func (s *stubContractRepo) GetByPlanName(planName string) ([]models.Contract, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.Contract, 0)
	for _, ct := range s.contracts {
		if ct.PlanName() == planName {
			out = append(out, ct)
		}
	}
	return out, nil
}

func (s *stubContractRepo) Update(contract *models.Contract) error { return s.err }

func (s *stubContractRepo) Count() (int64, error) { return int64(len(s.contracts)), s.err }

type stubPlanRepo struct {
	plans []models.Plan
	err   error
}

func (s *stubPlanRepo) GetByID(id string) (*models.Plan, error) {
	for i := range s.plans {
		if s.plans[i].ID == id {
			p := s.plans[i]
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPlanRepo) GetByName(name string) (*models.Plan, error) {
	for i := range s.plans {
		if s.plans[i].Name == name {
			p := s.plans[i]
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPlanRepo) GetAll() ([]models.Plan, error) { return s.plans, s.err }

func (s *stubPlanRepo) Update(plan *models.Plan) error { return s.err }

func (s *stubPlanRepo) Count() (int64, error) { return int64(len(s.plans)), s.err }

type stubClientRepo struct {
	clients []models.Client
	err     error
}

func (s *stubClientRepo) Create(client *models.Client) error { return s.err }

func (s *stubClientRepo) GetByID(id string) (*models.Client, error) {
	for i := range s.clients {
		if s.clients[i].ID == id {
			cl := s.clients[i]
			return &cl, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubClientRepo) GetAll() ([]models.Client, error) { return s.clients, s.err }

func (s *stubClientRepo) GetAllWithFirstContractDate() ([]models.Client, error) {
	return s.clients, s.err
}

func (s *stubClientRepo) Update(client *models.Client) error { return s.err }

func (s *stubClientRepo) Count() (int64, error) { return int64(len(s.clients)), s.err }

// ---- fixtures ----

func testDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func reportFixtures(t *testing.T) (*stubContractRepo, *stubPlanRepo) {
	t.Helper()

	clientA := &models.Client{ID: "client-a", Name: "株式会社あおぞら", Department: "情報システム部"}
	clientB := &models.Client{ID: "client-b", Name: "さくら商事"}

	standard := &models.Plan{ID: "plan-std", Name: "スタンダード", PriceYearly: 1200000}
	light := &models.Plan{ID: "plan-light", Name: "ライト", PriceYearly: 600000}
	domain := &models.Plan{ID: "plan-domain", Name: models.DOMAIN_OPTION_PLAN_NAME, PriceYearly: 50000}

	contracts := []models.Contract{
		{
			ID: "ct-1", ClientID: clientA.ID, Client: clientA, PlanID: standard.ID, Plan: standard,
			Price: 1200000, StartDate: testDate(t, "2024-01-15"), EndDate: testDate(t, "2024-12-31"),
			Status: models.CONTRACT_STATUS_ACTIVE,
		},
		{
			ID: "ct-2", ClientID: clientB.ID, Client: clientB, PlanID: light.ID, Plan: light,
			Price: 600000, StartDate: testDate(t, "2024-06-01"), EndDate: testDate(t, "2024-06-30"),
			Status: models.CONTRACT_STATUS_ACTIVE,
		},
		{
			ID: "ct-3", ClientID: clientB.ID, Client: clientB, PlanID: domain.ID, Plan: domain,
			Price: 50000, StartDate: testDate(t, "2024-06-10"), EndDate: testDate(t, "2025-06-09"),
			Status: models.CONTRACT_STATUS_EXPIRED,
		},
	}

	return &stubContractRepo{contracts: contracts},
		&stubPlanRepo{plans: []models.Plan{*standard, *light, *domain}}
}

func newReportApp(contractRepo *stubContractRepo, planRepo *stubPlanRepo) *fiber.App {
	app := fiber.New()
	rc := NewReportController(contractRepo, planRepo)
	app.Get("/reports/active", rc.HandleActiveContracts)
	app.Get("/reports/domain-options", rc.HandleDomainOptions)
	return app
}

func doJSON(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload))
	return resp.StatusCode, payload
}

// ---- tests ----

func TestHandleActiveContracts_June(t *testing.T) {
	app := newReportApp(reportFixtures(t))

	status, payload := doJSON(t, app, httptest.NewRequest(http.MethodGet,
		"/reports/active?month=2024-06&exclude_plans="+models.DOMAIN_OPTION_PLAN_NAME, nil))
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, "2024-06", payload["month"])
	assert.EqualValues(t, 2, payload["count"])
	// 1200000 + 600000, domain option excluded, divided by 12
	assert.EqualValues(t, 1800000, payload["total_annual"])
	assert.EqualValues(t, 150000, payload["total_monthly"])
	assert.Equal(t, "¥150,000", payload["total_monthly_formatted"])

	counts := payload["plan_counts"].([]any)
	require.Len(t, counts, 2) // excluded plan omitted entirely
	first := counts[0].(map[string]any)
	second := counts[1].(map[string]any)
	assert.Equal(t, "スタンダード", first["plan_name"])
	assert.EqualValues(t, 1, first["count"])
	assert.Equal(t, "ライト", second["plan_name"])
	assert.EqualValues(t, 1, second["count"])

	rows := payload["contracts"].([]any)
	require.Len(t, rows, 2)
	// default sort: client name ascending, さくら before 株式会社あおぞら is
	// not assumed here; check fields instead of order-sensitive values
	for _, raw := range rows {
		row := raw.(map[string]any)
		switch row["id"] {
		case "ct-1":
			assert.Equal(t, "株式会社あおぞら（情報システム部）", row["client_display_name"])
			assert.Equal(t, "スタンダード（100,000円/月）", row["plan_label"])
			assert.Equal(t, "24/01〜24/12", row["period"])
			assert.Equal(t, false, row["ends_in_month"])
		case "ct-2":
			assert.Equal(t, "さくら商事", row["client_display_name"])
			assert.Equal(t, "24/06〜24/06", row["period"])
			assert.Equal(t, true, row["ends_in_month"])
		default:
			t.Fatalf("unexpected contract in active list: %v", row["id"])
		}
	}
}

func TestHandleActiveContracts_July(t *testing.T) {
	app := newReportApp(reportFixtures(t))

	status, payload := doJSON(t, app, httptest.NewRequest(http.MethodGet,
		"/reports/active?month=2024-07", nil))
	require.Equal(t, http.StatusOK, status)

	// ct-2 ended June 30; ct-1 and the domain option still run
	assert.EqualValues(t, 2, payload["count"])
	rows := payload["contracts"].([]any)
	for _, raw := range rows {
		row := raw.(map[string]any)
		assert.NotEqual(t, "ct-2", row["id"])
	}
}

func TestHandleActiveContracts_StatusIgnored(t *testing.T) {
	// ct-3 has status "expired" but its interval covers June; the month
	// overlap rule, not the status field, decides membership
	app := newReportApp(reportFixtures(t))

	status, payload := doJSON(t, app, httptest.NewRequest(http.MethodGet,
		"/reports/active?month=2024-06", nil))
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 3, payload["count"])
}

func TestHandleActiveContracts_InvalidMonth(t *testing.T) {
	app := newReportApp(reportFixtures(t))

	for _, month := range []string{"2024-13", "notamonth", "2024/06"} {
		status, payload := doJSON(t, app, httptest.NewRequest(http.MethodGet,
			"/reports/active?month="+month, nil))
		assert.Equal(t, http.StatusBadRequest, status, month)
		assert.Equal(t, "bad_request", payload["error"])
	}
}

func TestHandleActiveContracts_DataSourceError(t *testing.T) {
	contractRepo, planRepo := reportFixtures(t)
	contractRepo.err = assert.AnError
	app := newReportApp(contractRepo, planRepo)

	status, payload := doJSON(t, app, httptest.NewRequest(http.MethodGet,
		"/reports/active?month=2024-06", nil))
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "datasource_error", payload["error"])
}

func TestHandleDomainOptions(t *testing.T) {
	app := newReportApp(reportFixtures(t))

	status, payload := doJSON(t, app, httptest.NewRequest(http.MethodGet,
		"/reports/domain-options", nil))
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, models.DOMAIN_OPTION_PLAN_NAME, payload["plan"])
	assert.EqualValues(t, 1, payload["count"])

	months := payload["months"].([]any)
	require.Len(t, months, 12)

	june := months[5].(map[string]any)
	assert.Equal(t, "6月", june["month"])
	// the only domain option contract starts in June but is expired, so
	// it appears in the detail rows while the active count stays 0
	assert.EqualValues(t, 0, june["active_count"])
	rows := june["contracts"].([]any)
	require.Len(t, rows, 1)
	row := rows[0].(map[string]any)
	assert.Equal(t, "さくら商事", row["client_display_name"])
	assert.Equal(t, "期限切れ", row["status_label"])
}
