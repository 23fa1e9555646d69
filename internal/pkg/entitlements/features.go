package entitlements

const (
	FeatureUnlimitedArticles = "unlimited-articles"
	FeatureCloudImages       = "cloud-images"
	FeatureCustomThemes      = "custom-themes"
	FeatureMultiPlatformSync = "multi-platform-sync"
	FeatureAIAssist          = "ai-assist"
	FeatureScheduledPublish  = "scheduled-publish"
	FeatureRemoveBranding    = "remove-branding"
	FeaturePrioritySupport   = "priority-support"
)

// Unlimited marks a plan limit without a numeric cap.
const Unlimited = -1

// Feature is a named capability gated by plan membership and optionally a
// per-plan numeric limit. A limit of 0 or a missing entry means the feature
// is a binary gate for that plan.
type Feature struct {
	ID          string       `json:"id"`
	DisplayName string       `json:"display_name"`
	Description string       `json:"description"`
	Plans       []Plan       `json:"plans"`
	Limits      map[Plan]int `json:"limits,omitempty"`
}

// Includes reports whether plan is in the feature's plan set.
func (f Feature) Includes(plan Plan) bool {
	for _, p := range f.Plans {
		if p == plan {
			return true
		}
	}
	return false
}

// ProExclusive is true when the free tier cannot use the feature at all.
func (f Feature) ProExclusive() bool {
	return !f.Includes(PlanFree)
}

// Limit returns the configured limit for plan, 0 when none is configured.
func (f Feature) Limit(plan Plan) int {
	if f.Limits == nil {
		return 0
	}
	return f.Limits[plan]
}

// FeatureCatalog is the static registry of features, in declaration order.
type FeatureCatalog struct {
	order []string
	byID  map[string]Feature
}

// NewFeatureCatalog indexes features by id. Later duplicates replace earlier
// ones but keep the original position.
func NewFeatureCatalog(features ...Feature) *FeatureCatalog {
	c := &FeatureCatalog{byID: make(map[string]Feature, len(features))}
	for _, f := range features {
		if _, ok := c.byID[f.ID]; !ok {
			c.order = append(c.order, f.ID)
		}
		c.byID[f.ID] = f
	}
	return c
}

// Get looks up a feature by id.
func (c *FeatureCatalog) Get(id string) (Feature, bool) {
	if c == nil {
		return Feature{}, false
	}
	f, ok := c.byID[id]
	return f, ok
}

// All returns every feature in declaration order.
func (c *FeatureCatalog) All() []Feature {
	if c == nil {
		return nil
	}
	out := make([]Feature, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// DefaultFeatures is the product feature table.
var DefaultFeatures = []Feature{
	{
		ID:          FeatureUnlimitedArticles,
		DisplayName: "Unlimited articles",
		Description: "Store as many articles in the cloud as you like.",
		Plans:       []Plan{PlanFree, PlanPro},
		Limits:      map[Plan]int{PlanFree: 5, PlanPro: Unlimited},
	},
	{
		ID:          FeatureCloudImages,
		DisplayName: "Cloud image hosting",
		Description: "Upload pasted images to the image CDN automatically.",
		Plans:       []Plan{PlanFree, PlanPro},
		Limits:      map[Plan]int{PlanFree: 20, PlanPro: Unlimited},
	},
	{
		ID:          FeatureCustomThemes,
		DisplayName: "Custom themes",
		Description: "Design your own article themes and code highlighting styles.",
		Plans:       []Plan{PlanPro},
	},
	{
		ID:          FeatureMultiPlatformSync,
		DisplayName: "Multi-platform publishing",
		Description: "Publish one article to every connected platform at once.",
		Plans:       []Plan{PlanPro},
	},
	{
		ID:          FeatureAIAssist,
		DisplayName: "AI writing assistant",
		Description: "Generate titles, summaries and polish paragraphs.",
		Plans:       []Plan{PlanPro},
		Limits:      map[Plan]int{PlanPro: 200},
	},
	{
		ID:          FeatureScheduledPublish,
		DisplayName: "Scheduled publishing",
		Description: "Queue articles to go live at a chosen time.",
		Plans:       []Plan{PlanPro},
	},
	{
		ID:          FeatureRemoveBranding,
		DisplayName: "Remove branding",
		Description: "Drop the \"made with PostFox\" footer from exported articles.",
		Plans:       []Plan{PlanPro},
	},
	{
		ID:          FeaturePrioritySupport,
		DisplayName: "Priority support",
		Description: "Get answers from the team within one business day.",
		Plans:       []Plan{PlanPro},
	},
}
