package perf

import "github.com/gosight/gosight/tracer/internal/model"

// threshold holds the upper bounds of the good and needs-improvement bands.
type threshold struct {
	good float64
	poor float64
}

// Standard web-vitals bands. Times are in milliseconds, CLS is unitless.
var thresholds = map[model.MetricName]threshold{
	model.MetricLCP:  {good: 2500, poor: 4000},
	model.MetricFID:  {good: 100, poor: 300},
	model.MetricFCP:  {good: 1800, poor: 3000},
	model.MetricTTFB: {good: 800, poor: 1800},
	model.MetricCLS:  {good: 0.1, poor: 0.25},
	model.MetricINP:  {good: 200, poor: 500},
}

// Rate grades value for the named metric. Unknown metrics rate as good.
func Rate(name model.MetricName, value float64) model.Rating {
	th, ok := thresholds[name]
	if !ok {
		return model.RatingGood
	}
	switch {
	case value > th.poor:
		return model.RatingPoor
	case value > th.good:
		return model.RatingNeedsImprovement
	default:
		return model.RatingGood
	}
}
