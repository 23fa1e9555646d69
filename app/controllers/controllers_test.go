package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PostFox/app/models"
	"github.com/ManuelReschke/PostFox/internal/pkg/backend"
	"github.com/ManuelReschke/PostFox/internal/pkg/entitlements"
	"github.com/ManuelReschke/PostFox/internal/pkg/events"
	"github.com/ManuelReschke/PostFox/internal/pkg/platforms"
)

type stubFetcher struct {
	ent      backend.Entitlement
	articles int
	images   int
}

func (s stubFetcher) GetEntitlement(context.Context) (*backend.Entitlement, error) {
	e := s.ent
	return &e, nil
}

func (s stubFetcher) GetArticlesCount(context.Context) (int, error) { return s.articles, nil }
func (s stubFetcher) GetImageUsage(context.Context) (int, error) { return s.images, nil }

type stubStats struct {
	rows []models.PromptStat
}

func (s stubStats) AddImpressions(map[string]int64) error { return nil }
func (s stubStats) List() ([]models.PromptStat, error) { return s.rows, nil }

func newTestApp(t *testing.T, f stubFetcher, bus events.Bus) *fiber.App {
	t.Helper()

	svc := entitlements.NewService(f, bus, platforms.NewStaticRegistry(platforms.DefaultPlatforms), entitlements.Options{
		InitDeadline: time.Second,
		FetchTimeout: time.Second,
	})
	svc.Init(context.Background())

	ent := NewEntitlementController(svc)
	plat := NewPlatformController(svc)
	prompts := NewPromptController(svc, stubStats{rows: []models.PromptStat{{PromptID: "go-pro", Impressions: 3}}})

	app := fiber.New()
	app.Get("/plan", ent.HandleGetPlan)
	app.Post("/refresh", ent.HandleRefresh)
	app.Get("/features", ent.HandleListFeatures)
	app.Get("/features/:id", ent.HandleGetFeature)
	app.Get("/features/:id/access", ent.HandleCheckAccess)
	app.Get("/articles/can-create", ent.HandleCanCreateArticle)
	app.Get("/platforms", plat.HandleListPlatforms)
	app.Get("/platforms/:id/availability", plat.HandlePlatformAvailability)
	app.Get("/prompts/stats", prompts.HandlePromptStats)
	app.Get("/prompts/:id", prompts.HandleGetPrompt)
	app.Post("/prompts/:id/notify", prompts.HandleNotifyPrompt)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return resp.StatusCode, body
}

func TestHandleGetPlan(t *testing.T) {
	expires := time.Now().Add(3*24*time.Hour - time.Minute)
	app := newTestApp(t, stubFetcher{
		ent:      backend.Entitlement{Plan: "pro", ExpiresAt: &expires, IsPro: true},
		articles: 8,
		images:   2,
	}, nil)

	status, body := doJSON(t, app, fiber.MethodGet, "/plan")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "pro", body["plan"])
	assert.Equal(t, true, body["is_pro"])
	assert.Equal(t, float64(8), body["total_articles"])
	assert.Equal(t, float64(3), body["remaining_days"])
}

func TestHandleCheckAccess(t *testing.T) {
	app := newTestApp(t, stubFetcher{ent: backend.Entitlement{Plan: "free"}, articles: 5}, nil)

	status, body := doJSON(t, app, fiber.MethodGet, "/features/unlimited-articles/access")
	assert.Equal(t, StatusUpgradeRequired, status)
	assert.Equal(t, "upgrade_required", body["error"])
	prompt, ok := body["prompt"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, entitlements.PromptArticleLimit, prompt["id"])

	status, body = doJSON(t, app, fiber.MethodGet, "/features/teleportation/access")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "not_found", body["error"])

	status, body = doJSON(t, app, fiber.MethodGet, "/features/cloud-images/access")
	assert.Equal(t, fiber.StatusOK, status)
	access := body["access"].(map[string]interface{})
	assert.Equal(t, true, access["granted"])
}

func TestHandleCanCreateArticle(t *testing.T) {
	app := newTestApp(t, stubFetcher{ent: backend.Entitlement{Plan: "free"}, articles: 4}, nil)

	status, _ := doJSON(t, app, fiber.MethodGet, "/articles/can-create")
	assert.Equal(t, fiber.StatusOK, status)

	app = newTestApp(t, stubFetcher{ent: backend.Entitlement{Plan: "free"}, articles: 5}, nil)
	status, _ = doJSON(t, app, fiber.MethodGet, "/articles/can-create")
	assert.Equal(t, StatusUpgradeRequired, status)
}

func TestHandleFeatures(t *testing.T) {
	app := newTestApp(t, stubFetcher{ent: backend.Entitlement{Plan: "free"}}, nil)

	status, body := doJSON(t, app, fiber.MethodGet, "/features/unlimited-articles")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(5), body["limit"])
	assert.Equal(t, true, body["enabled"])

	status, _ = doJSON(t, app, fiber.MethodGet, "/features/nope")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = doJSON(t, app, fiber.MethodGet, "/features")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["features"], len(entitlements.DefaultFeatures))
}

func TestHandlePlatforms(t *testing.T) {
	app := newTestApp(t, stubFetcher{ent: backend.Entitlement{Plan: "free", IsExpired: true}}, nil)

	status, _ := doJSON(t, app, fiber.MethodGet, "/platforms/wechat/availability")
	assert.Equal(t, fiber.StatusOK, status)

	status, body := doJSON(t, app, fiber.MethodGet, "/platforms/zhihu/availability")
	assert.Equal(t, StatusUpgradeRequired, status)
	assert.Equal(t, entitlements.PromptMultiPlatform, body["prompt"].(map[string]interface{})["id"])

	status, _ = doJSON(t, app, fiber.MethodGet, "/platforms/myspace/availability")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = doJSON(t, app, fiber.MethodGet, "/platforms")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["platforms"], len(platforms.DefaultPlatforms))
}

func TestHandlePrompts(t *testing.T) {
	var emitted []string
	bus := events.BusFunc(func(_ context.Context, name string, _ interface{}) { emitted = append(emitted, name) })
	app := newTestApp(t, stubFetcher{ent: backend.Entitlement{Plan: "free"}}, bus)

	status, body := doJSON(t, app, fiber.MethodGet, "/prompts/unknown-prompt")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, entitlements.DefaultPromptID, body["id"])

	status, body = doJSON(t, app, fiber.MethodPost, "/prompts/pro-themes/notify")
	assert.Equal(t, fiber.StatusAccepted, status)
	assert.Equal(t, entitlements.PromptThemes, body["prompt"].(map[string]interface{})["id"])
	assert.Equal(t, []string{events.UpgradePromptShow}, emitted)

	status, body = doJSON(t, app, fiber.MethodGet, "/prompts/stats")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["stats"], 1)
}

func TestHandleRefresh(t *testing.T) {
	app := newTestApp(t, stubFetcher{ent: backend.Entitlement{Plan: "pro", IsPro: true}, articles: 1}, nil)

	status, body := doJSON(t, app, fiber.MethodPost, "/refresh")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "pro", body["plan"])
	assert.Equal(t, false, body["is_loading"])
}

func TestClientIP(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(ClientIP(c)) })

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "cloudflare", headers: map[string]string{"CF-Connecting-IP": "203.0.113.7"}, want: "203.0.113.7"},
		{name: "forwarded", headers: map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.1"}, want: "198.51.100.1"},
		{name: "direct", headers: nil, want: "0.0.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			raw, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.want, string(raw))
		})
	}
}
