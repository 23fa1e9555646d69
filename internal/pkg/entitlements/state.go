package entitlements

import "time"

// EntitlementState is the resolved plan of the current user. IsPro and
// IsExpired are copied from the backend as-is and never recomputed locally.
type EntitlementState struct {
	Plan      Plan       `json:"plan"`
	ExpiresAt *time.Time `json:"expires_at"`
	IsPro     bool       `json:"is_pro"`
	IsExpired bool       `json:"is_expired"`
	IsLoading bool       `json:"is_loading"`
}

// UsageState holds the consumption counters compared against feature limits.
type UsageState struct {
	TotalArticles     int  `json:"total_articles"`
	MonthlyImagesUsed int  `json:"monthly_images_used"`
	IsLoading         bool `json:"is_loading"`
}

// SyncCache decides whether a repeated entitlement sync may skip the network.
type SyncCache struct {
	LastSync time.Time
	TTL      time.Duration
}

// Fresh reports whether a sync at now may reuse the cached state.
func (c SyncCache) Fresh(now time.Time) bool {
	if c.LastSync.IsZero() {
		return false
	}
	return now.Sub(c.LastSync) < c.TTL
}

func initialEntitlement() EntitlementState {
	return EntitlementState{Plan: PlanFree, IsLoading: true}
}

func initialUsage() UsageState {
	return UsageState{IsLoading: true}
}

// FallbackEntitlement is the fail-closed state used when sync fails.
func FallbackEntitlement() EntitlementState {
	return EntitlementState{Plan: PlanFree}
}

// FallbackUsage is the zero usage used when sync fails.
func FallbackUsage() UsageState {
	return UsageState{}
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func (s EntitlementState) clone() EntitlementState {
	s.ExpiresAt = cloneTime(s.ExpiresAt)
	return s
}
