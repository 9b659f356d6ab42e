package classify

import (
	"fmt"
	"math"

	"github.com/gosight/gosight/tracer/internal/hashing"
	"github.com/gosight/gosight/tracer/internal/model"
)

// Resource timing thresholds in milliseconds. Loads at or under the noise
// floor are not recorded.
const (
	NoiseFloorMs = 1000
	SlowMs       = 1500
)

// ResourceTiming is one resource timing entry from the host.
type ResourceTiming struct {
	EntryType     string  `json:"entryType"`
	Name          string  `json:"name"`
	InitiatorType string  `json:"initiatorType"`
	Duration      float64 `json:"duration"`
}

// TimingSeverity grades a load duration. ok is false when the duration is at
// or below the noise floor.
func TimingSeverity(duration float64) (model.Severity, bool) {
	switch {
	case duration <= NoiseFloorMs:
		return model.SeverityInfo, false
	case duration <= SlowMs:
		return model.SeverityWarning, true
	default:
		return model.SeverityError, true
	}
}

// Timing converts a slow resource entry into a resource-defect record.
// Entries that are not of type "resource" or load fast enough are skipped.
func Timing(entry ResourceTiming, now int64) (*model.ResourceData, bool) {
	if entry.EntryType != "resource" {
		return nil, false
	}
	level, ok := TimingSeverity(entry.Duration)
	if !ok {
		return nil, false
	}
	return &model.ResourceData{
		BaseData: model.BaseData{
			DataID:  hashing.ResourceTiming(entry.EntryType, entry.Name),
			Name:    fmt.Sprintf("%s-duration-%s", entry.EntryType, entry.InitiatorType),
			Level:   level,
			Message: fmt.Sprintf("duration:%d", int64(math.Round(entry.Duration))),
			Time:    now,
			Type:    model.DataTypePerf,
		},
		URL: entry.Name,
	}, true
}
