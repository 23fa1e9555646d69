package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PostFox/internal/pkg/entitlements"
)

// StatusUpgradeRequired is returned for denials that carry an upgrade prompt.
const StatusUpgradeRequired = fiber.StatusPaymentRequired

func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": code, "message": message})
}

func notFound(c *fiber.Ctx, message string) error {
	return jsonError(c, fiber.StatusNotFound, "not_found", message)
}

// writeAccess answers an access verdict: 200 when granted, 404 for unknown
// features, 402 with the resolved prompt when an upgrade would help and 403
// otherwise.
func writeAccess(c *fiber.Ctx, svc *entitlements.Service, featureID string, res entitlements.AccessResult) error {
	body := fiber.Map{
		"feature": featureID,
		"access":  res,
	}
	switch {
	case res.Granted:
		return c.JSON(body)
	case res.Reason == entitlements.ReasonFeatureNotFound:
		body["error"] = "not_found"
		body["message"] = res.Reason
		return c.Status(fiber.StatusNotFound).JSON(body)
	case res.PromptID != "":
		body["error"] = "upgrade_required"
		body["message"] = res.Reason
		body["prompt"] = svc.UpgradePrompt(res.PromptID)
		return c.Status(StatusUpgradeRequired).JSON(body)
	default:
		body["error"] = "forbidden"
		body["message"] = res.Reason
		return c.Status(fiber.StatusForbidden).JSON(body)
	}
}

// ClientIP determines the client address considering Cloudflare and proxy
// headers. IPv4-mapped IPv6 addresses are reported as IPv4.
func ClientIP(c *fiber.Ctx) string {
	if cfIP := strings.TrimSpace(c.Get("CF-Connecting-IP")); cfIP != "" {
		return cfIP
	}

	// X-Forwarded-For can contain a list of IPs - the first one is the original client IP
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}

	ipAddr := c.IP()
	if strings.HasPrefix(ipAddr, "::ffff:") && strings.Contains(ipAddr, ".") {
		return strings.TrimPrefix(ipAddr, "::ffff:")
	}
	return ipAddr
}
