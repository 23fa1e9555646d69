package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PostFox/app/repository"
	"github.com/ManuelReschke/PostFox/internal/pkg/entitlements"
)

// PromptController serves upgrade prompts and records their display.
type PromptController struct {
	svc   *entitlements.Service
	stats repository.PromptStatRepository
}

// NewPromptController creates the controller. stats may be nil when no
// database is configured.
func NewPromptController(svc *entitlements.Service, stats repository.PromptStatRepository) *PromptController {
	return &PromptController{svc: svc, stats: stats}
}

// HandleGetPrompt returns the prompt with the given id or the default prompt.
func (ctl *PromptController) HandleGetPrompt(c *fiber.Ctx) error {
	return c.JSON(ctl.svc.UpgradePrompt(strings.TrimSpace(c.Params("id"))))
}

// HandleNotifyPrompt emits the prompt on the event bus.
func (ctl *PromptController) HandleNotifyPrompt(c *fiber.Ctx) error {
	ev := ctl.svc.NotifyUpgradePrompt(c.UserContext(), strings.TrimSpace(c.Params("id")))
	return c.Status(fiber.StatusAccepted).JSON(ev)
}

// HandlePromptStats returns flushed impression counts.
func (ctl *PromptController) HandlePromptStats(c *fiber.Ctx) error {
	if ctl.stats == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "service_unavailable", "Prompt statistics require a database")
	}
	stats, err := ctl.stats.List()
	if err != nil {
		log.Errorf("[PromptController] Failed to load prompt stats: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load prompt statistics")
	}
	return c.JSON(fiber.Map{"stats": stats})
}
