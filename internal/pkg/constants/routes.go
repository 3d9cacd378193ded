package constants

// API route constants
const (
	APIRoute   = "/api"
	APIv1Route = "/v1"

	ClientsRoute       = "/clients"
	PlansRoute         = "/plans"
	ContractsRoute     = "/contracts"
	ReportsRoute       = "/reports"
	ActiveReportRoute  = "/active"
	DomainOptionsRoute = "/domain-options"
	SummaryRoute       = "/summary"
)
