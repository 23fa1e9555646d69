package constants

// Static route constants
const (
	APIRoute        = "/api"
	APIV1Route      = "/v1"
	DocsRoute       = "/docs/api/"
	MetricsRoute    = "/metrics"
	PrometheusRoute = "/metrics/prometheus"
	// OpenAPI document relative to the project root
	OpenAPIPath = "public/docs/v1/openapi.yml"
)
