package builder

import "github.com/gosight/gosight/tracer/internal/model"

// Classify decides a record's type and level from its payload. It is total:
// a nil payload, a typed nil, or a perf record without a session id falls
// back to console/debug with neither data nor perf set.
func Classify(payload model.Payload) (model.TraceType, model.TraceLevel, model.TraceData, *model.PerfRecord) {
	switch p := payload.(type) {
	case *model.FetchData:
		if p != nil {
			return model.TraceTypeHTTP, model.LevelOf(p.Level), p, nil
		}
	case *model.CodeErrorData:
		if p != nil {
			return model.TraceTypeJavaScript, model.LevelOf(p.Level), p, nil
		}
	case *model.PromiseData:
		if p != nil {
			return model.TraceTypePromise, model.LevelOf(p.Level), p, nil
		}
	case *model.ResourceData:
		if p != nil {
			return model.TraceTypeResource, model.LevelOf(p.Level), p, nil
		}
	case *model.LogData:
		if p != nil {
			return model.TraceTypeLog, model.LevelOf(p.Level), p, nil
		}
	case *model.PageViewData:
		if p != nil {
			return model.TraceTypePageView, model.LevelOf(p.Level), p, nil
		}
	case *model.PerfRecord:
		if p != nil && p.ID != "" {
			snap := p.Clone()
			return model.TraceTypePerf, model.LevelOf(snap.WorstSeverity()), nil, &snap
		}
	}
	return model.TraceTypeConsole, model.LevelDebug, nil, nil
}
