package models

import (
	"errors"
	"strings"
	"time"
)

// Plan is a tenant's subscription tier.
type Plan string

const (
	PlanFree       Plan = "free"
	PlanEssentials Plan = "essentials"
	PlanGrowth     Plan = "growth"
)

func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanEssentials, PlanGrowth:
		return true
	}
	return false
}

// Tenant is a business or location served by the platform.
type Tenant struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Subdomain *string        `json:"subdomain"`
	Plan      Plan           `json:"plan"`
	Settings  map[string]any `json:"settings"`
	IsActive  bool           `json:"isActive"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// TenantInput is the body of POST /tenants.
type TenantInput struct {
	Name      string         `json:"name"`
	Subdomain *string        `json:"subdomain,omitempty"`
	Plan      Plan           `json:"plan"`
	Settings  map[string]any `json:"settings,omitempty"`
}

// TenantPatch is the partial body of PUT /tenants/{id}.
type TenantPatch struct {
	Name      *string        `json:"name,omitempty"`
	Subdomain *string        `json:"subdomain,omitempty"`
	Plan      *Plan          `json:"plan,omitempty"`
	Settings  map[string]any `json:"settings,omitempty"`
	IsActive  *bool          `json:"isActive,omitempty"`
}

var ErrIncorrectSetting = errors.New("setting must be name=value")

// SettingsFromPairs turns "name=value" lines into a settings map. The name
// ends at the first "=", so values may contain "=". Values are kept as
// strings; the backend stores settings as opaque JSON.
func SettingsFromPairs(pairs []string) (map[string]any, error) {
	settings := make(map[string]any, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, ErrIncorrectSetting
		}
		settings[name] = strings.TrimSpace(value)
	}
	return settings, nil
}

// Clone returns a copy that shares no mutable state with t.
func (t *Tenant) Clone() *Tenant {
	if t == nil {
		return nil
	}
	c := *t
	if t.Subdomain != nil {
		sd := *t.Subdomain
		c.Subdomain = &sd
	}
	c.Settings = cloneSettings(t.Settings)
	return &c
}

// cloneSettings copies the nested maps and slices that JSON decoding
// produces; other values are immutable.
func cloneSettings(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = cloneValue(v)
	}
	return c
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return cloneSettings(v)
	case []any:
		c := make([]any, len(v))
		for i, e := range v {
			c[i] = cloneValue(e)
		}
		return c
	default:
		return v
	}
}
