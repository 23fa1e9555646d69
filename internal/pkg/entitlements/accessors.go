package entitlements

import (
	"context"
	"math"
	"time"

	"github.com/ManuelReschke/PostFox/internal/pkg/events"
)

// PlanSnapshot is a read-only view of plan and usage for presentation.
type PlanSnapshot struct {
	Plan              Plan       `json:"plan"`
	ExpiresAt         *time.Time `json:"expires_at"`
	IsPro             bool       `json:"is_pro"`
	IsExpired         bool       `json:"is_expired"`
	IsLoading         bool       `json:"is_loading"`
	TotalArticles     int        `json:"total_articles"`
	MonthlyImagesUsed int        `json:"monthly_images_used"`
	RemainingDays     int        `json:"remaining_days"`
}

// UpgradePromptEvent is the payload of events.UpgradePromptShow.
type UpgradePromptEvent struct {
	Prompt   UpgradePrompt `json:"prompt"`
	Snapshot PlanSnapshot  `json:"snapshot"`
}

// PromptID returns the id of the advertised prompt.
func (e UpgradePromptEvent) PromptID() string {
	return e.Prompt.ID
}

// HasFeature reports plan-level access to featureID.
func (s *Service) HasFeature(featureID string) bool {
	ent, _ := s.snapshot()
	return s.eval.HasFeature(featureID, ent)
}

// LimitFor returns the numeric limit of featureID for the current plan.
func (s *Service) LimitFor(featureID string) int {
	ent, _ := s.snapshot()
	return s.eval.LimitFor(featureID, ent)
}

// CheckAccess evaluates featureID against the current state.
func (s *Service) CheckAccess(featureID string) AccessResult {
	ent, usage := s.snapshot()
	return s.eval.CheckAccess(featureID, ent, usage)
}

// CanCreateArticle checks the article storage quota.
func (s *Service) CanCreateArticle() AccessResult {
	return s.CheckAccess(FeatureUnlimitedArticles)
}

// RemainingDays is the number of started days until expiry, never negative.
func (s *Service) RemainingDays() int {
	ent, _ := s.snapshot()
	return remainingDays(ent.ExpiresAt, s.now())
}

func remainingDays(expiresAt *time.Time, now time.Time) int {
	if expiresAt == nil {
		return 0
	}
	left := expiresAt.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Hours() / 24))
}

// PlanSnapshot merges entitlement, usage and remaining days.
func (s *Service) PlanSnapshot() PlanSnapshot {
	ent, usage := s.snapshot()
	return PlanSnapshot{
		Plan:              ent.Plan,
		ExpiresAt:         ent.ExpiresAt,
		IsPro:             ent.IsPro,
		IsExpired:         ent.IsExpired,
		IsLoading:         ent.IsLoading || usage.IsLoading,
		TotalArticles:     usage.TotalArticles,
		MonthlyImagesUsed: usage.MonthlyImagesUsed,
		RemainingDays:     remainingDays(ent.ExpiresAt, s.now()),
	}
}

// UpgradePrompt returns the prompt with id, or the default prompt.
func (s *Service) UpgradePrompt(id string) UpgradePrompt {
	return s.eval.Prompts().Resolve(id)
}

// NotifyUpgradePrompt resolves promptID and emits it with the current plan
// snapshot on the event bus. Delivery is not confirmed.
func (s *Service) NotifyUpgradePrompt(ctx context.Context, promptID string) UpgradePromptEvent {
	ev := UpgradePromptEvent{
		Prompt:   s.UpgradePrompt(promptID),
		Snapshot: s.PlanSnapshot(),
	}
	s.metrics.RecordPrompt(ev.Prompt.ID)
	s.bus.Emit(ctx, events.UpgradePromptShow, ev)
	return ev
}
