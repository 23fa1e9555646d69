package router

import (
	"github.com/gofiber/fiber/v2"

	apiv1 "github.com/ManuelReschke/PostFox/internal/api/v1"
	"github.com/ManuelReschke/PostFox/internal/pkg/constants"
)

type ApiRouter struct {
	server  apiv1.ServerInterface
	limiter fiber.Handler
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	handlers := []fiber.Handler{}
	if h.limiter != nil {
		handlers = append(handlers, h.limiter)
	}
	api := app.Group(constants.APIRoute, handlers...)
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// API v1 routes
	v1 := api.Group(constants.APIV1Route)
	apiv1.RegisterHandlers(v1, h.server)
}

// NewApiRouter mounts server under /api/v1. limiter may be nil.
func NewApiRouter(server apiv1.ServerInterface, limiter fiber.Handler) *ApiRouter {
	return &ApiRouter{server: server, limiter: limiter}
}
