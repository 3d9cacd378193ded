package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contractdesk/contractdesk/app/models"
)

func newContractApp(t *testing.T) (*fiber.App, *stubContractRepo) {
	t.Helper()

	contractRepo, planRepo := reportFixtures(t)
	clientRepo := &stubClientRepo{clients: []models.Client{
		{ID: "client-a", Name: "株式会社あおぞら", Department: "情報システム部"},
		{ID: "client-b", Name: "さくら商事"},
	}}

	app := fiber.New()
	cc := NewContractController(contractRepo, clientRepo, planRepo)
	app.Get("/contracts", cc.HandleListContracts)
	app.Get("/contracts/:id", cc.HandleGetContract)
	app.Post("/contracts", cc.HandleCreateContract)
	app.Put("/contracts/:id", cc.HandleUpdateContract)
	return app, contractRepo
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHandleListContracts(t *testing.T) {
	app, _ := newContractApp(t)

	status, payload := doJSON(t, app, httptest.NewRequest(http.MethodGet, "/contracts", nil))
	require.Equal(t, http.StatusOK, status)

	assert.EqualValues(t, 3, payload["count"])
	// the domain option add-on stays out of the revenue totals
	assert.EqualValues(t, 1800000, payload["total_annual"])
	assert.EqualValues(t, 150000, payload["total_monthly"])

	// default ordering is start_date descending
	rows := payload["contracts"].([]any)
	require.Len(t, rows, 3)
	assert.Equal(t, "ct-3", rows[0].(map[string]any)["id"])
	assert.Equal(t, "ct-2", rows[1].(map[string]any)["id"])
	assert.Equal(t, "ct-1", rows[2].(map[string]any)["id"])
}

func TestHandleListContracts_Keyword(t *testing.T) {
	app, _ := newContractApp(t)

	status, payload := doJSON(t, app, httptest.NewRequest(http.MethodGet,
		"/contracts?keyword="+url.QueryEscape("さくら"), nil))
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, payload["count"])
}

func TestHandleListContracts_StatusFilter(t *testing.T) {
	app, _ := newContractApp(t)

	status, payload := doJSON(t, app, httptest.NewRequest(http.MethodGet,
		"/contracts?status="+models.CONTRACT_STATUS_EXPIRED, nil))
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, payload["count"])
}

func TestHandleListContracts_BadDateFilter(t *testing.T) {
	app, _ := newContractApp(t)

	status, payload := doJSON(t, app, httptest.NewRequest(http.MethodGet,
		"/contracts?start_date_from=June+1st", nil))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "bad_request", payload["error"])
}

func TestHandleGetContract_NotFound(t *testing.T) {
	app, _ := newContractApp(t)

	status, payload := doJSON(t, app, httptest.NewRequest(http.MethodGet, "/contracts/nope", nil))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", payload["error"])
}

func TestHandleCreateContract(t *testing.T) {
	app, contractRepo := newContractApp(t)

	status, payload := doJSON(t, app, jsonRequest(http.MethodPost, "/contracts", `{
		"client_id": "client-a",
		"plan_id": "plan-std",
		"price": 1200000,
		"start_date": "2025-04-01",
		"end_date": "2026-03-31"
	}`))
	require.Equal(t, http.StatusCreated, status)

	assert.NotEmpty(t, payload["id"])
	// omitted fields take the documented defaults
	assert.Equal(t, models.CONTRACT_STATUS_ACTIVE, payload["status"])
	assert.Equal(t, models.PAYMENT_METHOD_INVOICE, payload["payment_method"])
	require.Len(t, contractRepo.created, 1)
	assert.Equal(t, "client-a", contractRepo.created[0].ClientID)
}

func TestHandleCreateContract_MissingReferences(t *testing.T) {
	app, contractRepo := newContractApp(t)

	// no client_id at all, then a dangling one; neither may reach the store
	for _, body := range []string{
		`{"plan_id": "plan-std", "start_date": "2025-04-01", "end_date": "2026-03-31"}`,
		`{"client_id": "ghost", "plan_id": "plan-std", "start_date": "2025-04-01", "end_date": "2026-03-31"}`,
	} {
		status, payload := doJSON(t, app, jsonRequest(http.MethodPost, "/contracts", body))
		assert.Equal(t, http.StatusUnprocessableEntity, status)
		assert.Equal(t, "validation_failed", payload["error"])
	}
	assert.Empty(t, contractRepo.created)
}

func TestHandleCreateContract_BadDates(t *testing.T) {
	app, contractRepo := newContractApp(t)

	status, payload := doJSON(t, app, jsonRequest(http.MethodPost, "/contracts",
		`{"client_id": "client-a", "plan_id": "plan-std", "start_date": "2025/04/01", "end_date": "2026-03-31"}`))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "bad_request", payload["error"])

	status, payload = doJSON(t, app, jsonRequest(http.MethodPost, "/contracts",
		`{"client_id": "client-a", "plan_id": "plan-std", "start_date": "2026-03-31", "end_date": "2025-04-01"}`))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "validation_failed", payload["error"])

	assert.Empty(t, contractRepo.created)
}

func TestHandleUpdateContract(t *testing.T) {
	app, _ := newContractApp(t)

	status, payload := doJSON(t, app, jsonRequest(http.MethodPut, "/contracts/ct-1", `{
		"client_id": "client-a",
		"plan_id": "plan-std",
		"price": 1320000,
		"start_date": "2024-01-15",
		"end_date": "2025-12-31",
		"status": "pending"
	}`))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ct-1", payload["id"])
}
