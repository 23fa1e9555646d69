package entitlements

import "github.com/ManuelReschke/PostFox/internal/pkg/platforms"

// BaselinePlatformID is the default publishing target, free for everyone.
const BaselinePlatformID = "wechat"

const (
	ReasonUnknownPlatform  = "unknown platform"
	ReasonOpenPlatform     = "no plan required"
	ReasonBaselinePlatform = "baseline platform"
)

// PlatformAvailability is the verdict for a publishing platform.
type PlatformAvailability struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason"`
	PromptID  string `json:"prompt_id,omitempty"`
}

// PlatformGate maps registry entries onto feature checks.
type PlatformGate struct {
	registry platforms.Registry
	check    func(featureID string) AccessResult
}

// NewPlatformGate creates a gate over registry that evaluates gated
// platforms with check.
func NewPlatformGate(registry platforms.Registry, check func(featureID string) AccessResult) *PlatformGate {
	return &PlatformGate{registry: registry, check: check}
}

// IsAvailable decides whether platformID may be used.
func (g *PlatformGate) IsAvailable(platformID string) PlatformAvailability {
	if g.registry == nil {
		return PlatformAvailability{Reason: ReasonUnknownPlatform}
	}
	p, ok := g.registry.Lookup(platformID)
	if !ok {
		return PlatformAvailability{Reason: ReasonUnknownPlatform}
	}
	if p.Open() {
		return PlatformAvailability{Available: true, Reason: ReasonOpenPlatform}
	}
	if p.ID == BaselinePlatformID {
		return PlatformAvailability{Available: true, Reason: ReasonBaselinePlatform}
	}

	res := g.check(p.FeatureID)
	return PlatformAvailability{
		Available: res.Granted,
		Reason:    res.Reason,
		PromptID:  res.PromptID,
	}
}

// IsPlatformAvailable checks platformID against the current state.
func (s *Service) IsPlatformAvailable(platformID string) PlatformAvailability {
	return NewPlatformGate(s.platforms, s.CheckAccess).IsAvailable(platformID)
}

// Platforms lists the registry in order.
func (s *Service) Platforms() []platforms.Platform {
	if s.platforms == nil {
		return nil
	}
	return s.platforms.All()
}
