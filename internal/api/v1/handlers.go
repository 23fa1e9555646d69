package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PostFox/app/controllers"
	"github.com/ManuelReschke/PostFox/app/repository"
	"github.com/ManuelReschke/PostFox/internal/pkg/entitlements"
)

// APIServer implements the ServerInterface
type APIServer struct {
	entitlements *controllers.EntitlementController
	platforms    *controllers.PlatformController
	prompts      *controllers.PromptController
}

// NewAPIServer creates a new API server instance. stats may be nil.
func NewAPIServer(svc *entitlements.Service, stats repository.PromptStatRepository) *APIServer {
	return &APIServer{
		entitlements: controllers.NewEntitlementController(svc),
		platforms:    controllers.NewPlatformController(svc),
		prompts:      controllers.NewPromptController(svc, stats),
	}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

func (s *APIServer) GetPlan(c *fiber.Ctx) error {
	return s.entitlements.HandleGetPlan(c)
}

func (s *APIServer) PostRefresh(c *fiber.Ctx) error {
	return s.entitlements.HandleRefresh(c)
}

func (s *APIServer) ListFeatures(c *fiber.Ctx) error {
	return s.entitlements.HandleListFeatures(c)
}

// GetFeature reads the id from route params; the wrapper already validated it.
func (s *APIServer) GetFeature(c *fiber.Ctx, id string) error {
	return s.entitlements.HandleGetFeature(c)
}

func (s *APIServer) GetFeatureAccess(c *fiber.Ctx, id string) error {
	return s.entitlements.HandleCheckAccess(c)
}

func (s *APIServer) GetCanCreateArticle(c *fiber.Ctx) error {
	return s.entitlements.HandleCanCreateArticle(c)
}

func (s *APIServer) ListPlatforms(c *fiber.Ctx) error {
	return s.platforms.HandleListPlatforms(c)
}

func (s *APIServer) GetPlatformAvailability(c *fiber.Ctx, id string) error {
	return s.platforms.HandlePlatformAvailability(c)
}

func (s *APIServer) GetPromptStats(c *fiber.Ctx) error {
	return s.prompts.HandlePromptStats(c)
}

func (s *APIServer) GetPrompt(c *fiber.Ctx, id string) error {
	return s.prompts.HandleGetPrompt(c)
}

// PostPromptNotify emits an upgrade prompt event; delivery is fire-and-forget.
func (s *APIServer) PostPromptNotify(c *fiber.Ctx, id string) error {
	return s.prompts.HandleNotifyPrompt(c)
}
