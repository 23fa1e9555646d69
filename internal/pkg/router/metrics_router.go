package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ManuelReschke/PostFox/internal/pkg/constants"
)

// MetricsRouter serves the fiber monitor page and the Prometheus exposition.
type MetricsRouter struct {
	gatherer prometheus.Gatherer
}

func (h MetricsRouter) InstallRouter(app *fiber.App) {
	app.Get(constants.MetricsRoute, monitor.New(monitor.Config{Title: "PostFox Metrics"}))
	app.Get(constants.PrometheusRoute, adaptor.HTTPHandler(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
}

// NewMetricsRouter exposes gatherer; nil selects the default registry.
func NewMetricsRouter(gatherer prometheus.Gatherer) *MetricsRouter {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &MetricsRouter{gatherer: gatherer}
}
