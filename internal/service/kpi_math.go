package service

import (
	"math"

	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
)

// round1 rounds to one decimal place, the display precision of every
// percentage in KPI payloads.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// pct returns numerator/denominator*100 rounded to one decimal. A zero or
// negative denominator yields 0, never NaN or Inf.
func pct(numerator, denominator float64) float64 {
	if denominator <= 0 {
		return 0
	}
	return round1(numerator / denominator * 100)
}

// achievement returns value/target*100 rounded to one decimal, or nil when
// no meaningful target exists. Unclamped: over-performance reads over 100.
func achievement(value float64, target *float64) *float64 {
	if target == nil || *target <= 0 {
		return nil
	}
	a := round1(value / *target * 100)
	return &a
}

// targetFor looks up a slug's brand-wide target in the batched target map,
// returning nil when absent so achievement stays null rather than 0.
func targetFor(targets map[domain.KpiSlug]float64, slug domain.KpiSlug) *float64 {
	if t, ok := targets[slug]; ok {
		return &t
	}
	return nil
}
