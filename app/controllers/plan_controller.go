package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/contractdesk/contractdesk/app/models"
	"github.com/contractdesk/contractdesk/app/repository"
	"github.com/contractdesk/contractdesk/internal/pkg/format"
)

// PlanController handles plan-related HTTP requests using repository pattern
type PlanController struct {
	planRepo repository.PlanRepository
}

// NewPlanController creates a new plan controller with repository
func NewPlanController(planRepo repository.PlanRepository) *PlanController {
	return &PlanController{
		planRepo: planRepo,
	}
}

// PlanForm carries the editable plan fields. Plans are created outside
// the app; only updates are exposed here.
type PlanForm struct {
	Name           string `json:"name"`
	PriceMonthly   int64  `json:"price_monthly"`
	PriceYearly    int64  `json:"price_yearly"`
	DurationMonths int    `json:"duration_months"`
}

// planRow is one plan list entry with its display label.
type planRow struct {
	models.Plan
	Label string `json:"label"`
}

// HandleListPlans returns all plans ordered by yearly price.
func (pc *PlanController) HandleListPlans(c *fiber.Ctx) error {
	plans, err := pc.planRepo.GetAll()
	if err != nil {
		return dataSourceError(c, err)
	}

	rows := make([]planRow, len(plans))
	for i, p := range plans {
		rows[i] = planRow{
			Plan:  p,
			Label: format.PlanWithPrice(p.Name, p.PriceYearly),
		}
	}

	return c.JSON(fiber.Map{
		"plans": rows,
		"count": len(rows),
	})
}

// HandleUpdatePlan validates and updates an existing plan.
func (pc *PlanController) HandleUpdatePlan(c *fiber.Ctx) error {
	plan, err := pc.planRepo.GetByID(c.Params("id"))
	if err != nil {
		return repoError(c, err, "Plan not found")
	}

	var form PlanForm
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, "Invalid request body")
	}

	plan.Name = form.Name
	plan.PriceMonthly = form.PriceMonthly
	plan.PriceYearly = form.PriceYearly
	plan.DurationMonths = form.DurationMonths
	if err := plan.Validate(); err != nil {
		return validationFailed(c, err.Error())
	}

	if err := pc.planRepo.Update(plan); err != nil {
		return dataSourceError(c, err)
	}
	return c.JSON(plan)
}
