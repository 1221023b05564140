package provider

import (
	"fmt"
	"math"
	"sort"
	"sync"
)

const (
	tokenWindow     = 200
	minContext      = 2048.0
	maxOutputTokens = 768.0
	minOutputTokens = 128.0
)

type tokenSample struct {
	playerID string
	model    string
	usage    Usage
}

type TokenStats struct {
	Calls                   int     `json:"calls"`
	AvgPrompt               float64 `json:"avg_prompt"`
	AvgCompletion           float64 `json:"avg_completion"`
	AvgTotal                float64 `json:"avg_total"`
	P95Total                float64 `json:"p95_total"`
	RequiredContextCapacity float64 `json:"required_context_capacity"`
}

// TokenMonitor keeps a sliding window of provider usage samples.
type TokenMonitor struct {
	mu      sync.Mutex
	samples []tokenSample
}

func NewTokenMonitor() *TokenMonitor {
	return &TokenMonitor{samples: make([]tokenSample, 0, tokenWindow)}
}

func (m *TokenMonitor) Record(playerID, model string, u Usage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.samples) == tokenWindow {
		copy(m.samples, m.samples[1:])
		m.samples = m.samples[:tokenWindow-1]
	}
	m.samples = append(m.samples, tokenSample{playerID: playerID, model: model, usage: u})
}

func (m *TokenMonitor) Stats() TokenStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return statsOf(m.samples)
}

func (m *TokenMonitor) StatsByModel() map[string]TokenStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	grouped := map[string][]tokenSample{}
	for _, s := range m.samples {
		grouped[s.model] = append(grouped[s.model], s)
	}
	out := make(map[string]TokenStats, len(grouped))
	for model, items := range grouped {
		out[model] = statsOf(items)
	}
	return out
}

// ContextWarning reports when the required capacity exceeds or crowds the window.
func (m *TokenMonitor) ContextWarning(window int) string {
	required := m.Stats().RequiredContextCapacity
	if required > float64(window) {
		return fmt.Sprintf("required_context_capacity=%.0f exceeds model_context_window=%d. Reduce prompt size, summary depth, or switch to a larger-context model.", required, window)
	}
	utilization := required / math.Max(1, float64(window))
	if utilization > 0.8 {
		return fmt.Sprintf("context utilization high (%.0f%%); consider reducing retained memory or lowering max output tokens.", utilization*100)
	}
	return ""
}

func (m *TokenMonitor) RecommendedMaxOutputTokens(window int) int {
	required := m.Stats().RequiredContextCapacity
	headroom := math.Max(minOutputTokens, float64(window)-required)
	return int(math.Min(maxOutputTokens, math.Max(minOutputTokens, headroom*0.45)))
}

func statsOf(samples []tokenSample) TokenStats {
	if len(samples) == 0 {
		return TokenStats{RequiredContextCapacity: minContext}
	}
	var prompt, completion, total float64
	totals := make([]float64, 0, len(samples))
	for _, s := range samples {
		prompt += float64(s.usage.PromptTokens)
		completion += float64(s.usage.CompletionTokens)
		total += float64(s.usage.TotalTokens)
		totals = append(totals, float64(s.usage.TotalTokens))
	}
	n := float64(len(samples))
	p95 := p95(totals)
	return TokenStats{
		Calls:                   len(samples),
		AvgPrompt:               prompt / n,
		AvgCompletion:           completion / n,
		AvgTotal:                total / n,
		P95Total:                p95,
		RequiredContextCapacity: math.Max(minContext, p95*1.35+512),
	}
}

// p95 interpolates linearly at 0.95*(n-1) over the sorted values.
func p95(values []float64) float64 {
	if len(values) == 1 {
		return values[0]
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	pos := 0.95 * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
