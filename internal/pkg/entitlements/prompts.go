package entitlements

// PromptStyle is how the client should present an upgrade prompt.
type PromptStyle string

const (
	StyleCard    PromptStyle = "card"
	StyleModal   PromptStyle = "modal"
	StyleInline  PromptStyle = "inline"
	StyleTooltip PromptStyle = "tooltip"
)

const (
	PromptArticleLimit  = "article-limit"
	PromptImageLimit    = "image-limit"
	PromptThemes        = "pro-themes"
	PromptMultiPlatform = "multi-platform"
	PromptAIAssist      = "ai-assist"
	PromptGoPro         = "go-pro"

	// DefaultPromptID is used whenever a lookup misses.
	DefaultPromptID = PromptGoPro
)

// UpgradePrompt describes why and how to upsell when access is denied.
type UpgradePrompt struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	FeatureIDs  []string    `json:"feature_ids"`
	CTAText     string      `json:"cta_text"`
	Style       PromptStyle `json:"style"`
}

// Advertises reports whether the prompt lists featureID.
func (p UpgradePrompt) Advertises(featureID string) bool {
	for _, id := range p.FeatureIDs {
		if id == featureID {
			return true
		}
	}
	return false
}

// PromptCatalog is the static registry of upgrade prompts. Declaration order
// matters: the first prompt advertising a feature wins.
type PromptCatalog struct {
	prompts   []UpgradePrompt
	byID      map[string]int
	defaultID string
}

// NewPromptCatalog builds a catalog. defaultID should name one of prompts;
// if it does not, the first prompt acts as the default.
func NewPromptCatalog(defaultID string, prompts ...UpgradePrompt) *PromptCatalog {
	c := &PromptCatalog{
		prompts:   append([]UpgradePrompt(nil), prompts...),
		byID:      make(map[string]int, len(prompts)),
		defaultID: defaultID,
	}
	for i, p := range c.prompts {
		if _, ok := c.byID[p.ID]; !ok {
			c.byID[p.ID] = i
		}
	}
	if _, ok := c.byID[defaultID]; !ok && len(c.prompts) > 0 {
		c.defaultID = c.prompts[0].ID
	}
	return c
}

// DefaultID is the fallback prompt id.
func (c *PromptCatalog) DefaultID() string {
	if c == nil {
		return DefaultPromptID
	}
	return c.defaultID
}

// Lookup returns the prompt with the given id, if any.
func (c *PromptCatalog) Lookup(id string) (UpgradePrompt, bool) {
	if c == nil {
		return UpgradePrompt{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return UpgradePrompt{}, false
	}
	return c.prompts[i], true
}

// Resolve returns the prompt for id or the default prompt.
func (c *PromptCatalog) Resolve(id string) UpgradePrompt {
	if p, ok := c.Lookup(id); ok {
		return p
	}
	if p, ok := c.Lookup(c.DefaultID()); ok {
		return p
	}
	return fallbackPrompt
}

// ForFeature returns the id of the first prompt advertising featureID, or the
// default id.
func (c *PromptCatalog) ForFeature(featureID string) string {
	if c != nil {
		for _, p := range c.prompts {
			if p.Advertises(featureID) {
				return p.ID
			}
		}
	}
	return c.DefaultID()
}

// All returns the prompts in declaration order.
func (c *PromptCatalog) All() []UpgradePrompt {
	if c == nil {
		return nil
	}
	return append([]UpgradePrompt(nil), c.prompts...)
}

// used only when a catalog has no prompts at all
var fallbackPrompt = UpgradePrompt{
	ID:          DefaultPromptID,
	Title:       "Upgrade to Pro",
	Description: "Unlock every PostFox feature.",
	CTAText:     "Upgrade",
	Style:       StyleCard,
}

// DefaultPrompts is the product prompt table.
var DefaultPrompts = []UpgradePrompt{
	{
		ID:          PromptArticleLimit,
		Title:       "You've reached the free article limit",
		Description: "Free accounts can keep 5 articles in the cloud. Upgrade to store as many as you want.",
		FeatureIDs:  []string{FeatureUnlimitedArticles},
		CTAText:     "Unlock unlimited articles",
		Style:       StyleModal,
	},
	{
		ID:          PromptImageLimit,
		Title:       "Monthly image quota used up",
		Description: "Pro includes unlimited cloud image hosting for every article.",
		FeatureIDs:  []string{FeatureCloudImages},
		CTAText:     "Get unlimited images",
		Style:       StyleModal,
	},
	{
		ID:          PromptThemes,
		Title:       "Make it yours",
		Description: "Create custom themes and code styles for your articles.",
		FeatureIDs:  []string{FeatureCustomThemes},
		CTAText:     "Try custom themes",
		Style:       StyleCard,
	},
	{
		ID:          PromptMultiPlatform,
		Title:       "Publish everywhere at once",
		Description: "Send one article to all connected platforms and schedule it ahead of time.",
		FeatureIDs:  []string{FeatureMultiPlatformSync, FeatureScheduledPublish},
		CTAText:     "Publish everywhere",
		Style:       StyleInline,
	},
	{
		ID:          PromptAIAssist,
		Title:       "Write faster with AI",
		Description: "Titles, summaries and rewrites generated right in the editor.",
		FeatureIDs:  []string{FeatureAIAssist},
		CTAText:     "Enable AI assist",
		Style:       StyleTooltip,
	},
	{
		ID:          PromptGoPro,
		Title:       "Upgrade to Pro",
		Description: "Unlimited articles and images, custom themes, multi-platform publishing and more.",
		FeatureIDs: []string{
			FeatureUnlimitedArticles,
			FeatureCloudImages,
			FeatureCustomThemes,
			FeatureMultiPlatformSync,
			FeatureAIAssist,
			FeatureScheduledPublish,
			FeatureRemoveBranding,
			FeaturePrioritySupport,
		},
		CTAText: "Upgrade now",
		Style:   StyleCard,
	},
}
