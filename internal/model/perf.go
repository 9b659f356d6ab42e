package model

// Rating is the qualitative grade of a vitals metric.
type Rating string

const (
	RatingGood             Rating = "good"
	RatingNeedsImprovement Rating = "needs-improvement"
	RatingPoor             Rating = "poor"
)

// Severity maps a rating onto the data severity scale.
func (r Rating) Severity() Severity {
	switch r {
	case RatingPoor:
		return SeverityError
	case RatingNeedsImprovement:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// MetricName identifies one of the six tracked vitals.
type MetricName string

const (
	MetricLCP  MetricName = "LCP"
	MetricFID  MetricName = "FID"
	MetricFCP  MetricName = "FCP"
	MetricTTFB MetricName = "TTFB"
	MetricCLS  MetricName = "CLS"
	MetricINP  MetricName = "INP"
)

// Metrics lists the tracked vitals in record order.
var Metrics = []MetricName{MetricLCP, MetricFID, MetricFCP, MetricTTFB, MetricCLS, MetricINP}

// Vital is one measured metric with its rating.
type Vital struct {
	Value  float64 `json:"value"`
	Rating Rating  `json:"rating"`
}

// PerfRecord accumulates the vitals of one page session. Any metric may be
// missing; a nil field means the metric was never reported.
type PerfRecord struct {
	ID   string `json:"id"`
	LCP  *Vital `json:"LCP,omitempty"`
	FID  *Vital `json:"FID,omitempty"`
	FCP  *Vital `json:"FCP,omitempty"`
	TTFB *Vital `json:"TTFB,omitempty"`
	CLS  *Vital `json:"CLS,omitempty"`
	INP  *Vital `json:"INP,omitempty"`
}

// Field returns a pointer to the slot holding the named metric, or nil when
// the name is not tracked.
func (p *PerfRecord) Field(name MetricName) **Vital {
	switch name {
	case MetricLCP:
		return &p.LCP
	case MetricFID:
		return &p.FID
	case MetricFCP:
		return &p.FCP
	case MetricTTFB:
		return &p.TTFB
	case MetricCLS:
		return &p.CLS
	case MetricINP:
		return &p.INP
	}
	return nil
}

// Clone returns a deep copy.
func (p PerfRecord) Clone() PerfRecord {
	out := PerfRecord{ID: p.ID}
	for _, name := range Metrics {
		if v := *p.Field(name); v != nil {
			cp := *v
			*out.Field(name) = &cp
		}
	}
	return out
}

// WorstSeverity returns the most severe rating among the populated metrics.
// An empty record grades as Info.
func (p *PerfRecord) WorstSeverity() Severity {
	worst := SeverityInfo
	for _, name := range Metrics {
		if v := *p.Field(name); v != nil {
			if s := v.Rating.Severity(); s > worst {
				worst = s
			}
		}
	}
	return worst
}
