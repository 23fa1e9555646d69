package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PostFox/internal/pkg/entitlements"
)

// EntitlementController exposes plan, feature and quota checks.
type EntitlementController struct {
	svc *entitlements.Service
}

func NewEntitlementController(svc *entitlements.Service) *EntitlementController {
	return &EntitlementController{svc: svc}
}

// HandleGetPlan returns the current plan snapshot.
func (ctl *EntitlementController) HandleGetPlan(c *fiber.Ctx) error {
	return c.JSON(ctl.svc.PlanSnapshot())
}

// HandleRefresh forces a network sync of entitlement and usage.
func (ctl *EntitlementController) HandleRefresh(c *fiber.Ctx) error {
	return c.JSON(ctl.svc.Refresh(c.UserContext()))
}

// HandleListFeatures returns the catalog with plan-level access per feature.
func (ctl *EntitlementController) HandleListFeatures(c *fiber.Ctx) error {
	all := ctl.svc.Evaluator().Features().All()
	out := make([]fiber.Map, 0, len(all))
	for _, f := range all {
		out = append(out, featureResponse(ctl.svc, f))
	}
	return c.JSON(fiber.Map{"features": out})
}

// HandleGetFeature returns one catalog entry with its limit for the current plan.
func (ctl *EntitlementController) HandleGetFeature(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	f, ok := ctl.svc.Evaluator().Features().Get(id)
	if !ok {
		return notFound(c, "Feature not found")
	}
	return c.JSON(featureResponse(ctl.svc, f))
}

// HandleCheckAccess evaluates a feature against plan and usage.
func (ctl *EntitlementController) HandleCheckAccess(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	return writeAccess(c, ctl.svc, id, ctl.svc.CheckAccess(id))
}

// HandleCanCreateArticle checks the article storage quota.
func (ctl *EntitlementController) HandleCanCreateArticle(c *fiber.Ctx) error {
	return writeAccess(c, ctl.svc, entitlements.FeatureUnlimitedArticles, ctl.svc.CanCreateArticle())
}

func featureResponse(svc *entitlements.Service, f entitlements.Feature) fiber.Map {
	return fiber.Map{
		"id":            f.ID,
		"display_name":  f.DisplayName,
		"description":   f.Description,
		"plans":         f.Plans,
		"pro_exclusive": f.ProExclusive(),
		"enabled":       svc.HasFeature(f.ID),
		"limit":         svc.LimitFor(f.ID),
	}
}
