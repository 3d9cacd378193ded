package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/contractdesk/contractdesk/app/controllers"
	"github.com/contractdesk/contractdesk/app/repository"
	"github.com/contractdesk/contractdesk/internal/pkg/constants"
	"github.com/contractdesk/contractdesk/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group(constants.APIRoute, limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	repos := repository.GetGlobalRepositories()
	clientController := controllers.NewClientController(repos.Client)
	planController := controllers.NewPlanController(repos.Plan)
	contractController := controllers.NewContractController(repos.Contract, repos.Client, repos.Plan)
	reportController := controllers.NewReportController(repos.Contract, repos.Plan)

	v1 := api.Group(constants.APIv1Route)
	adminToken := middleware.AdminTokenMiddleware()

	clients := v1.Group(constants.ClientsRoute)
	clients.Get("/", clientController.HandleListClients)
	clients.Get("/:id", clientController.HandleGetClient)
	clients.Post("/", adminToken, clientController.HandleCreateClient)
	clients.Put("/:id", adminToken, clientController.HandleUpdateClient)

	plans := v1.Group(constants.PlansRoute)
	plans.Get("/", planController.HandleListPlans)
	plans.Put("/:id", adminToken, planController.HandleUpdatePlan)

	contracts := v1.Group(constants.ContractsRoute)
	contracts.Get("/", contractController.HandleListContracts)
	contracts.Get("/:id", contractController.HandleGetContract)
	contracts.Post("/", adminToken, contractController.HandleCreateContract)
	contracts.Put("/:id", adminToken, contractController.HandleUpdateContract)

	reports := v1.Group(constants.ReportsRoute)
	reports.Get(constants.ActiveReportRoute, reportController.HandleActiveContracts)
	reports.Get(constants.DomainOptionsRoute, reportController.HandleDomainOptions)
	reports.Get(constants.SummaryRoute, reportController.HandleSummary)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
