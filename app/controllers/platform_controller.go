package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PostFox/internal/pkg/entitlements"
)

// PlatformController exposes the publishing platform registry.
type PlatformController struct {
	svc *entitlements.Service
}

func NewPlatformController(svc *entitlements.Service) *PlatformController {
	return &PlatformController{svc: svc}
}

// HandleListPlatforms returns every registered platform with its availability.
func (ctl *PlatformController) HandleListPlatforms(c *fiber.Ctx) error {
	all := ctl.svc.Platforms()
	out := make([]fiber.Map, 0, len(all))
	for _, p := range all {
		out = append(out, fiber.Map{
			"id":            p.ID,
			"name":          p.Name,
			"required_plan": p.RequiredPlan,
			"feature_id":    p.FeatureID,
			"availability":  ctl.svc.IsPlatformAvailable(p.ID),
		})
	}
	return c.JSON(fiber.Map{"platforms": out})
}

// HandlePlatformAvailability decides whether one platform may be used.
func (ctl *PlatformController) HandlePlatformAvailability(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	res := ctl.svc.IsPlatformAvailable(id)

	body := fiber.Map{"platform": id, "availability": res}
	switch {
	case res.Available:
		return c.JSON(body)
	case res.Reason == entitlements.ReasonUnknownPlatform:
		body["error"] = "not_found"
		body["message"] = res.Reason
		return c.Status(fiber.StatusNotFound).JSON(body)
	case res.PromptID != "":
		body["error"] = "upgrade_required"
		body["message"] = res.Reason
		body["prompt"] = ctl.svc.UpgradePrompt(res.PromptID)
		return c.Status(StatusUpgradeRequired).JSON(body)
	default:
		body["error"] = "forbidden"
		body["message"] = res.Reason
		return c.Status(fiber.StatusForbidden).JSON(body)
	}
}
