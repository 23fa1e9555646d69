package entitlements

import "fmt"

const (
	ReasonFeatureNotFound = "feature not found"
	ReasonRequiresPaid    = "requires paid plan"
	ReasonProPlan         = "included in pro plan"
	ReasonFreePlan        = "included in free plan"
	ReasonWithinLimit     = "within free plan limit"
)

// AccessResult is the verdict for a single feature check.
type AccessResult struct {
	Granted  bool   `json:"granted"`
	Reason   string `json:"reason"`
	PromptID string `json:"prompt_id,omitempty"`
}

// Meter associates a metered feature with the usage counter it is checked
// against and the prompt shown when the counter reaches the limit.
type Meter struct {
	Counter  func(UsageState) int
	PromptID string
}

// DefaultMeters is the feature -> usage counter table. Adding a metered
// feature only needs an entry here and a free-plan limit in the catalog.
var DefaultMeters = map[string]Meter{
	FeatureUnlimitedArticles: {
		Counter:  func(u UsageState) int { return u.TotalArticles },
		PromptID: PromptArticleLimit,
	},
	FeatureCloudImages: {
		Counter:  func(u UsageState) int { return u.MonthlyImagesUsed },
		PromptID: PromptImageLimit,
	},
}

// Evaluator decides feature access from catalogs and a state snapshot.
// It performs no I/O and never mutates its inputs.
type Evaluator struct {
	features *FeatureCatalog
	prompts  *PromptCatalog
	meters   map[string]Meter
}

// NewEvaluator creates an evaluator. A nil meters table disables usage limits.
// The table is copied; later changes to meters do not affect the evaluator.
func NewEvaluator(features *FeatureCatalog, prompts *PromptCatalog, meters map[string]Meter) *Evaluator {
	copied := make(map[string]Meter, len(meters))
	for id, m := range meters {
		copied[id] = m
	}
	return &Evaluator{features: features, prompts: prompts, meters: copied}
}

// NewDefaultEvaluator wires the product catalogs and meter table.
func NewDefaultEvaluator() *Evaluator {
	return NewEvaluator(
		NewFeatureCatalog(DefaultFeatures...),
		NewPromptCatalog(DefaultPromptID, DefaultPrompts...),
		DefaultMeters,
	)
}

// Features exposes the feature catalog.
func (e *Evaluator) Features() *FeatureCatalog {
	return e.features
}

// Prompts exposes the prompt catalog.
func (e *Evaluator) Prompts() *PromptCatalog {
	return e.prompts
}

// HasFeature reports plan-level availability, ignoring usage limits.
func (e *Evaluator) HasFeature(featureID string, ent EntitlementState) bool {
	f, ok := e.features.Get(featureID)
	if !ok {
		return false
	}
	if f.ProExclusive() {
		return ent.IsPro
	}
	return f.Includes(ent.Plan)
}

// LimitFor returns the limit configured for the current plan, or 0.
func (e *Evaluator) LimitFor(featureID string, ent EntitlementState) int {
	f, ok := e.features.Get(featureID)
	if !ok {
		return 0
	}
	return f.Limit(ent.Plan)
}

// CheckAccess evaluates, in order: unknown feature, pro override, free-tier
// availability with its usage cap, and finally the paid-plan denial.
func (e *Evaluator) CheckAccess(featureID string, ent EntitlementState, usage UsageState) AccessResult {
	f, ok := e.features.Get(featureID)
	if !ok {
		return AccessResult{Reason: ReasonFeatureNotFound}
	}

	// Pro users are not metered.
	if ent.IsPro {
		return AccessResult{Granted: true, Reason: ReasonProPlan}
	}

	if f.Includes(PlanFree) {
		limit := f.Limit(PlanFree)
		if limit <= 0 {
			return AccessResult{Granted: true, Reason: ReasonFreePlan}
		}
		meter, metered := e.meters[featureID]
		if !metered || meter.Counter == nil {
			return AccessResult{Granted: true, Reason: ReasonFreePlan}
		}
		used := meter.Counter(usage)
		if used >= limit {
			return AccessResult{
				Reason:   fmt.Sprintf("%s limit reached (%d/%d)", f.DisplayName, used, limit),
				PromptID: meter.PromptID,
			}
		}
		return AccessResult{Granted: true, Reason: ReasonWithinLimit}
	}

	return AccessResult{
		Reason:   ReasonRequiresPaid,
		PromptID: e.prompts.ForFeature(featureID),
	}
}
