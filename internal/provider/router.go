package provider

import (
	"strings"
	"sync"
)

const (
	PressureTilt     = 0.45
	PressureExposure = 2
)

// Router picks the model for each decision from the primary and fallbacks,
// restricted to what the server reports as available.
type Router struct {
	mu        sync.RWMutex
	primary   string
	fallbacks []string
	available map[string]bool
	overrides map[string]string
}

func NewRouter(primary string, fallbacks []string) *Router {
	return &Router{
		primary:   primary,
		fallbacks: append([]string(nil), fallbacks...),
		available: map[string]bool{},
		overrides: map[string]string{},
	}
}

// SetAvailable primes routing with the server's model list. An empty list
// means every candidate is considered routable.
func (r *Router) SetAvailable(models []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.available = make(map[string]bool, len(models))
	for _, m := range models {
		r.available[m] = true
	}
}

// SetOverrides pins models per player id. Keys match case-insensitively.
func (r *Router) SetOverrides(overrides map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides = make(map[string]string, len(overrides))
	for k, v := range overrides {
		k = strings.ToUpper(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		if k != "" && v != "" {
			r.overrides[k] = v
		}
	}
}

func (r *Router) routable() []string {
	candidates := append([]string{r.primary}, r.fallbacks...)
	out := make([]string, 0, len(candidates))
	for _, m := range candidates {
		if m == "" {
			continue
		}
		if len(r.available) == 0 || r.available[m] {
			out = append(out, m)
		}
	}
	return out
}

// PickActionModel prefers a 24b model under pressure, then a 14b model, then
// the first routable candidate.
func (r *Router) PickActionModel(playerID string, tilt float64, exposure int) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if m, ok := r.overrides[strings.ToUpper(playerID)]; ok {
		return m
	}
	routable := r.routable()
	if len(routable) == 0 {
		return r.primary
	}
	if tilt >= PressureTilt || exposure >= PressureExposure {
		for _, m := range routable {
			if strings.Contains(strings.ToLower(m), "24b") {
				return m
			}
		}
	}
	for _, m := range routable {
		if strings.Contains(strings.ToLower(m), "14b") {
			return m
		}
	}
	return routable[0]
}
