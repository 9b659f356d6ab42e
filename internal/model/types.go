package model

import (
	"fmt"
	"strings"
)

// Severity is the level attached to breadcrumbs and captured data.
// Values are ordered: a larger value is more severe.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityNormal
	SeverityInfo
	SeverityWarning
	SeverityError
	SeverityCritical
)

var severityNames = map[Severity]string{
	SeverityDebug:    "debug",
	SeverityNormal:   "normal",
	SeverityInfo:     "info",
	SeverityWarning:  "warning",
	SeverityError:    "error",
	SeverityCritical: "critical",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeverity converts a name ("warning", "warn", "error", ...) to a Severity.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return SeverityDebug, nil
	case "normal":
		return SeverityNormal, nil
	case "info", "":
		return SeverityInfo, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	case "critical":
		return SeverityCritical, nil
	}
	return SeverityDebug, fmt.Errorf("unknown severity %q", name)
}

// BreadcrumbType says which kind of action a breadcrumb records.
type BreadcrumbType string

const (
	BreadcrumbFetch     BreadcrumbType = "fetch"
	BreadcrumbClick     BreadcrumbType = "click"
	BreadcrumbCodeError BreadcrumbType = "code-error"
	BreadcrumbResource  BreadcrumbType = "resource"
	BreadcrumbCustomLog BreadcrumbType = "custom-log"
)

// BreadcrumbCategory groups breadcrumbs for display.
type BreadcrumbCategory string

const (
	CategoryHTTP      BreadcrumbCategory = "http"
	CategoryUser      BreadcrumbCategory = "user"
	CategoryException BreadcrumbCategory = "exception"
	CategoryDebug     BreadcrumbCategory = "debug"
)

// DataType is the tag carried by every captured TraceData.
type DataType string

const (
	DataTypeHTTP       DataType = "http"
	DataTypeJavaScript DataType = "javascript"
	DataTypePromise    DataType = "promise"
	DataTypeResource   DataType = "resource"
	DataTypeLog        DataType = "log"
	DataTypePageView   DataType = "pageview"
	DataTypePerf       DataType = "perf"
)

// TraceType is the outbound record type.
type TraceType string

const (
	TraceTypeConsole    TraceType = "console"
	TraceTypePerf       TraceType = "perf"
	TraceTypeHTTP       TraceType = "http"
	TraceTypeJavaScript TraceType = "javascript"
	TraceTypePromise    TraceType = "promise"
	TraceTypeResource   TraceType = "resource"
	TraceTypeLog        TraceType = "log"
	TraceTypePageView   TraceType = "pageview"
)

// TraceLevel is the outbound record level.
type TraceLevel string

const (
	LevelError TraceLevel = "error"
	LevelWarn  TraceLevel = "warn"
	LevelInfo  TraceLevel = "info"
	LevelDebug TraceLevel = "debug"
)

// LevelOf maps a data severity to the record level.
func LevelOf(s Severity) TraceLevel {
	switch {
	case s >= SeverityError:
		return LevelError
	case s == SeverityWarning:
		return LevelWarn
	case s >= SeverityNormal:
		return LevelInfo
	default:
		return LevelDebug
	}
}

// EffectiveType is the network connection class reported by the host.
type EffectiveType string

const (
	EffectiveSlow2G  EffectiveType = "slow-2g"
	Effective2G      EffectiveType = "2g"
	Effective3G      EffectiveType = "3g"
	Effective4G      EffectiveType = "4g"
	EffectiveUnknown EffectiveType = "unknown"
)

// ParseEffectiveType normalizes a host supplied connection class.
// Anything unrecognised becomes EffectiveUnknown.
func ParseEffectiveType(s string) EffectiveType {
	switch t := EffectiveType(strings.ToLower(strings.TrimSpace(s))); t {
	case EffectiveSlow2G, Effective2G, Effective3G, Effective4G:
		return t
	}
	return EffectiveUnknown
}
