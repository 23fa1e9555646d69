package platforms

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"
)

// Platform is a publishing target. RequiredPlan and FeatureID are optional;
// an entry with neither is available to everyone.
type Platform struct {
	ID           string `json:"id" validate:"required,max=64"`
	Name         string `json:"name" validate:"required,max=128"`
	RequiredPlan string `json:"required_plan,omitempty" validate:"omitempty,oneof=free pro"`
	FeatureID    string `json:"feature_id,omitempty" validate:"omitempty,max=64"`
}

// Open reports whether the entry declares no plan and no feature gate.
func (p Platform) Open() bool {
	return p.RequiredPlan == "" && p.FeatureID == ""
}

// Registry is the ordered set of platforms known to the client.
type Registry interface {
	Lookup(id string) (Platform, bool)
	All() []Platform
}

// StaticRegistry is an immutable in-memory registry.
type StaticRegistry struct {
	entries []Platform
	byID    map[string]int
}

var validate = validator.New()

// NewStaticRegistry validates and indexes entries, keeping their order.
// Invalid and duplicate entries are skipped with a warning.
func NewStaticRegistry(entries []Platform) *StaticRegistry {
	r := &StaticRegistry{byID: make(map[string]int, len(entries))}
	for _, e := range entries {
		e.ID = strings.TrimSpace(e.ID)
		e.RequiredPlan = strings.ToLower(strings.TrimSpace(e.RequiredPlan))
		e.FeatureID = strings.TrimSpace(e.FeatureID)

		if err := validate.Struct(e); err != nil {
			log.Warnf("[Platforms] Skipping invalid platform %q: %v", e.ID, err)
			continue
		}
		if _, dup := r.byID[e.ID]; dup {
			log.Warnf("[Platforms] Skipping duplicate platform %q", e.ID)
			continue
		}
		if e.RequiredPlan != "" && e.FeatureID == "" {
			log.Warnf("[Platforms] Platform %q requires plan %q but names no feature; it will always be denied", e.ID, e.RequiredPlan)
		}
		r.byID[e.ID] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	return r
}

// Lookup finds a platform by id.
func (r *StaticRegistry) Lookup(id string) (Platform, bool) {
	if r == nil {
		return Platform{}, false
	}
	i, ok := r.byID[id]
	if !ok {
		return Platform{}, false
	}
	return r.entries[i], true
}

// All returns the platforms in registry order.
func (r *StaticRegistry) All() []Platform {
	if r == nil {
		return nil
	}
	return append([]Platform(nil), r.entries...)
}

// Len is the number of registered platforms.
func (r *StaticRegistry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// DefaultPlatforms ships with the client and is used when no registry is
// configured in the database.
var DefaultPlatforms = []Platform{
	{ID: "wechat", Name: "WeChat Official Account"},
	{ID: "zhihu", Name: "Zhihu", RequiredPlan: "pro", FeatureID: "multi-platform-sync"},
	{ID: "juejin", Name: "Juejin", RequiredPlan: "pro", FeatureID: "multi-platform-sync"},
	{ID: "csdn", Name: "CSDN", RequiredPlan: "pro", FeatureID: "multi-platform-sync"},
	{ID: "medium", Name: "Medium", RequiredPlan: "pro", FeatureID: "multi-platform-sync"},
	{ID: "markdown", Name: "Markdown export"},
}
