package entitlements

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func freeState() EntitlementState {
	return EntitlementState{Plan: PlanFree}
}

func proState() EntitlementState {
	return EntitlementState{Plan: PlanPro, IsPro: true}
}

func TestCheckAccessUnknownFeature(t *testing.T) {
	e := NewDefaultEvaluator()

	for _, ent := range []EntitlementState{freeState(), proState()} {
		res := e.CheckAccess("teleportation", ent, UsageState{})
		assert.False(t, res.Granted)
		assert.Equal(t, ReasonFeatureNotFound, res.Reason)
		assert.Empty(t, res.PromptID)
		assert.False(t, e.HasFeature("teleportation", ent))
		assert.Zero(t, e.LimitFor("teleportation", ent))
	}
}

func TestCheckAccessProIgnoresUsage(t *testing.T) {
	e := NewDefaultEvaluator()
	usage := UsageState{TotalArticles: 10_000, MonthlyImagesUsed: 10_000}

	for _, f := range e.Features().All() {
		res := e.CheckAccess(f.ID, proState(), usage)
		assert.True(t, res.Granted, "feature %s", f.ID)
		assert.Equal(t, ReasonProPlan, res.Reason)
	}
}

func TestCheckAccessArticleLimit(t *testing.T) {
	e := NewDefaultEvaluator()

	tests := []struct {
		name     string
		articles int
		granted  bool
		promptID string
	}{
		{name: "empty", articles: 0, granted: true},
		{name: "below limit", articles: 4, granted: true},
		{name: "at limit", articles: 5, granted: false, promptID: PromptArticleLimit},
		{name: "over limit", articles: 9, granted: false, promptID: PromptArticleLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.CheckAccess(FeatureUnlimitedArticles, freeState(), UsageState{TotalArticles: tt.articles})
			assert.Equal(t, tt.granted, res.Granted)
			assert.Equal(t, tt.promptID, res.PromptID)
		})
	}
}

func TestCheckAccessOverageReasonEmbedsCounts(t *testing.T) {
	e := NewDefaultEvaluator()

	res := e.CheckAccess(FeatureCloudImages, freeState(), UsageState{MonthlyImagesUsed: 23, TotalArticles: 0})
	assert.False(t, res.Granted)
	assert.Equal(t, PromptImageLimit, res.PromptID)
	assert.Contains(t, res.Reason, "23")
	assert.Contains(t, res.Reason, "20")
}

func TestCheckAccessUsesFeatureSpecificCounter(t *testing.T) {
	e := NewDefaultEvaluator()

	// a maxed image counter must not block articles
	res := e.CheckAccess(FeatureUnlimitedArticles, freeState(), UsageState{TotalArticles: 1, MonthlyImagesUsed: 999})
	assert.True(t, res.Granted)
}

func TestCheckAccessPaidFeature(t *testing.T) {
	e := NewDefaultEvaluator()

	tests := []struct {
		feature  string
		promptID string
	}{
		{feature: FeatureCustomThemes, promptID: PromptThemes},
		{feature: FeatureMultiPlatformSync, promptID: PromptMultiPlatform},
		{feature: FeatureScheduledPublish, promptID: PromptMultiPlatform},
		{feature: FeatureAIAssist, promptID: PromptAIAssist},
		{feature: FeaturePrioritySupport, promptID: PromptGoPro},
	}

	for _, tt := range tests {
		res := e.CheckAccess(tt.feature, freeState(), UsageState{})
		assert.False(t, res.Granted, tt.feature)
		assert.Equal(t, ReasonRequiresPaid, res.Reason, tt.feature)
		assert.Equal(t, tt.promptID, res.PromptID, tt.feature)
	}
}

func TestCheckAccessPaidFeatureWithoutPromptUsesDefault(t *testing.T) {
	features := NewFeatureCatalog(Feature{ID: "secret", Plans: []Plan{PlanPro}})
	prompts := NewPromptCatalog("fallback",
		UpgradePrompt{ID: "other", FeatureIDs: []string{"something-else"}},
		UpgradePrompt{ID: "fallback"},
	)
	e := NewEvaluator(features, prompts, nil)

	res := e.CheckAccess("secret", freeState(), UsageState{})
	assert.False(t, res.Granted)
	assert.Equal(t, "fallback", res.PromptID)
}

func TestCheckAccessFreeLimitWithoutMeterIsGranted(t *testing.T) {
	features := NewFeatureCatalog(Feature{
		ID:     "exports",
		Plans:  []Plan{PlanFree, PlanPro},
		Limits: map[Plan]int{PlanFree: 1},
	})
	e := NewEvaluator(features, NewPromptCatalog(DefaultPromptID, DefaultPrompts...), nil)

	res := e.CheckAccess("exports", freeState(), UsageState{TotalArticles: 100})
	assert.True(t, res.Granted)
	assert.Equal(t, ReasonFreePlan, res.Reason)
}

func TestNewEvaluatorCopiesMeters(t *testing.T) {
	meters := map[string]Meter{}
	for id, m := range DefaultMeters {
		meters[id] = m
	}
	e := NewEvaluator(
		NewFeatureCatalog(DefaultFeatures...),
		NewPromptCatalog(DefaultPromptID, DefaultPrompts...),
		meters,
	)

	delete(meters, FeatureUnlimitedArticles)

	res := e.CheckAccess(FeatureUnlimitedArticles, freeState(), UsageState{TotalArticles: 9})
	assert.False(t, res.Granted)
	assert.Equal(t, PromptArticleLimit, res.PromptID)
}

func TestHasFeatureTrustsProFlag(t *testing.T) {
	e := NewDefaultEvaluator()

	// plan says pro but the backend flags the subscription as not pro
	lapsed := EntitlementState{Plan: PlanPro, IsPro: false, IsExpired: true}
	assert.False(t, e.HasFeature(FeatureCustomThemes, lapsed))
	assert.True(t, e.HasFeature(FeatureUnlimitedArticles, lapsed))

	assert.True(t, e.HasFeature(FeatureCustomThemes, proState()))
	assert.True(t, e.HasFeature(FeatureUnlimitedArticles, freeState()))
}

func TestLimitFor(t *testing.T) {
	e := NewDefaultEvaluator()

	assert.Equal(t, 5, e.LimitFor(FeatureUnlimitedArticles, freeState()))
	assert.Equal(t, Unlimited, e.LimitFor(FeatureUnlimitedArticles, proState()))
	assert.Equal(t, 0, e.LimitFor(FeatureCustomThemes, proState()))
	assert.Equal(t, 0, e.LimitFor(FeatureAIAssist, freeState()))
	assert.Equal(t, 200, e.LimitFor(FeatureAIAssist, proState()))
}

func TestCheckAccessDoesNotMutateInputs(t *testing.T) {
	e := NewDefaultEvaluator()
	ent := freeState()
	usage := UsageState{TotalArticles: 5}

	first := e.CheckAccess(FeatureUnlimitedArticles, ent, usage)
	second := e.CheckAccess(FeatureUnlimitedArticles, ent, usage)

	assert.Equal(t, first, second)
	assert.Equal(t, freeState(), ent)
	assert.Equal(t, 5, usage.TotalArticles)
}
