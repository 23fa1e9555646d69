package apiv1

import (
	"github.com/gofiber/fiber/v2"
)

// Pong defines model for Pong.
type Pong struct {
	Ping string `json:"ping"`
}

// ServerInterface represents all server handlers of public/docs/v1/openapi.yml.
type ServerInterface interface {
	// (GET /ping)
	GetPing(c *fiber.Ctx) error
	// (GET /plan)
	GetPlan(c *fiber.Ctx) error
	// (POST /refresh)
	PostRefresh(c *fiber.Ctx) error
	// (GET /features)
	ListFeatures(c *fiber.Ctx) error
	// (GET /features/{id})
	GetFeature(c *fiber.Ctx, id string) error
	// (GET /features/{id}/access)
	GetFeatureAccess(c *fiber.Ctx, id string) error
	// (GET /articles/can-create)
	GetCanCreateArticle(c *fiber.Ctx) error
	// (GET /platforms)
	ListPlatforms(c *fiber.Ctx) error
	// (GET /platforms/{id}/availability)
	GetPlatformAvailability(c *fiber.Ctx, id string) error
	// (GET /prompts/stats)
	GetPromptStats(c *fiber.Ctx) error
	// (GET /prompts/{id})
	GetPrompt(c *fiber.Ctx, id string) error
	// (POST /prompts/{id}/notify)
	PostPromptNotify(c *fiber.Ctx, id string) error
}

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) withID(next func(c *fiber.Ctx, id string) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "id missing"})
		}
		return next(c, id)
	}
}

// RegisterHandlers mounts every ServerInterface route on router.
func RegisterHandlers(router fiber.Router, si ServerInterface) {
	w := &ServerInterfaceWrapper{Handler: si}

	router.Get("/ping", si.GetPing)
	router.Get("/plan", si.GetPlan)
	router.Post("/refresh", si.PostRefresh)
	router.Get("/features", si.ListFeatures)
	router.Get("/features/:id", w.withID(si.GetFeature))
	router.Get("/features/:id/access", w.withID(si.GetFeatureAccess))
	router.Get("/articles/can-create", si.GetCanCreateArticle)
	router.Get("/platforms", si.ListPlatforms)
	router.Get("/platforms/:id/availability", w.withID(si.GetPlatformAvailability))
	// must precede /prompts/:id
	router.Get("/prompts/stats", si.GetPromptStats)
	router.Get("/prompts/:id", w.withID(si.GetPrompt))
	router.Post("/prompts/:id/notify", w.withID(si.PostPromptNotify))
}
