package builder

import (
	"testing"
	"time"

	"github.com/gosight/gosight/tracer/internal/env"
	"github.com/gosight/gosight/tracer/internal/model"
)

func fixedClock() time.Time { return time.UnixMilli(1700000000000) }

func fetchPayload(requestID string) *model.FetchData {
	return &model.FetchData{
		BaseData: model.BaseData{
			DataID: 7,
			Name:   "fetch-response-info",
			Level:  model.SeverityInfo,
			Type:   model.DataTypeHTTP,
		},
		RequestID: requestID,
		Method:    "GET",
		URL:       "/api/orders",
		Status:    200,
	}
}

func TestTraceIDCorrelation(t *testing.T) {
	b := New(env.NewState(""), WithClock(fixedClock))

	rec := b.Build(fetchPayload("abc-123"), true, Context{})
	if rec.TraceID != "abc-123" {
		t.Errorf("correlated trace id = %q, want abc-123", rec.TraceID)
	}

	rec = b.Build(fetchPayload("abc-123"), false, Context{})
	if rec.TraceID == "abc-123" || rec.TraceID == "" {
		t.Errorf("uncorrelated trace id = %q, want a fresh id", rec.TraceID)
	}
}

func TestTraceIDFreshWithoutUpstream(t *testing.T) {
	n := 0
	b := New(env.NewState(""), WithIDGenerator(func() string {
		n++
		return "generated"
	}))
	rec := b.Build(fetchPayload(""), true, Context{})
	if rec.TraceID != "generated" || n != 1 {
		t.Errorf("trace id = %q after %d generations", rec.TraceID, n)
	}

	log := &model.LogData{BaseData: model.BaseData{Level: model.SeverityInfo}}
	if rec := b.Build(log, true, Context{}); rec.TraceID != "generated" {
		t.Errorf("non-fetch payload must not correlate, got %q", rec.TraceID)
	}
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name      string
		payload   model.Payload
		wantType  model.TraceType
		wantLevel model.TraceLevel
		wantData  bool
		wantPerf  bool
	}{
		{"fetch", fetchPayload(""), model.TraceTypeHTTP, model.LevelInfo, true, false},
		{"code error", &model.CodeErrorData{BaseData: model.BaseData{Level: model.SeverityError}}, model.TraceTypeJavaScript, model.LevelError, true, false},
		{"promise", &model.PromiseData{BaseData: model.BaseData{Level: model.SeverityError}}, model.TraceTypePromise, model.LevelError, true, false},
		{"resource", &model.ResourceData{BaseData: model.BaseData{Level: model.SeverityWarning}}, model.TraceTypeResource, model.LevelWarn, true, false},
		{"critical fetch", &model.FetchData{BaseData: model.BaseData{Level: model.SeverityCritical}}, model.TraceTypeHTTP, model.LevelError, true, false},
		{"log", &model.LogData{BaseData: model.BaseData{Level: model.SeverityWarning}}, model.TraceTypeLog, model.LevelWarn, true, false},
		{"page view", &model.PageViewData{BaseData: model.BaseData{Level: model.SeverityInfo}}, model.TraceTypePageView, model.LevelInfo, true, false},
		{"perf", &model.PerfRecord{ID: "s1"}, model.TraceTypePerf, model.LevelInfo, false, true},
		{"perf without id", &model.PerfRecord{}, model.TraceTypeConsole, model.LevelDebug, false, false},
		{"nil", nil, model.TraceTypeConsole, model.LevelDebug, false, false},
		{"typed nil", (*model.FetchData)(nil), model.TraceTypeConsole, model.LevelDebug, false, false},
	}

	b := New(env.NewState(""))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := b.Build(tt.payload, false, Context{})
			if rec.Type != tt.wantType {
				t.Errorf("type = %s, want %s", rec.Type, tt.wantType)
			}
			if rec.Level != tt.wantLevel {
				t.Errorf("level = %s, want %s", rec.Level, tt.wantLevel)
			}
			if (rec.Data != nil) != tt.wantData {
				t.Errorf("data present = %v, want %v", rec.Data != nil, tt.wantData)
			}
			if (rec.Perf != nil) != tt.wantPerf {
				t.Errorf("perf present = %v, want %v", rec.Perf != nil, tt.wantPerf)
			}
		})
	}
}

func TestPerfLevelFromWorstRating(t *testing.T) {
	b := New(env.NewState(""))
	tests := []struct {
		name string
		perf model.PerfRecord
		want model.TraceLevel
	}{
		{"all good", model.PerfRecord{ID: "s", LCP: &model.Vital{Rating: model.RatingGood}}, model.LevelInfo},
		{"one needs improvement", model.PerfRecord{
			ID:  "s",
			LCP: &model.Vital{Rating: model.RatingGood},
			FID: &model.Vital{Rating: model.RatingNeedsImprovement},
		}, model.LevelWarn},
		{"poor beats needs improvement", model.PerfRecord{
			ID:   "s",
			CLS:  &model.Vital{Rating: model.RatingNeedsImprovement},
			TTFB: &model.Vital{Rating: model.RatingPoor},
		}, model.LevelError},
	}
	for _, tt := range tests {
		perf := tt.perf
		if got := b.Build(&perf, false, Context{}).Level; got != tt.want {
			t.Errorf("%s: level = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestPerfIsSnapshotted(t *testing.T) {
	b := New(env.NewState(""))
	perf := &model.PerfRecord{ID: "s", LCP: &model.Vital{Value: 1000, Rating: model.RatingGood}}
	rec := b.Build(perf, false, Context{})
	perf.LCP.Value = 9999
	if rec.Perf.LCP.Value != 1000 {
		t.Errorf("record aliases the live perf record")
	}
}

func TestConnectionReadAtBuildTime(t *testing.T) {
	state := env.NewState("https://shop.example/")
	b := New(state)

	first := b.Build(nil, false, Context{})
	state.SetOnline(false)
	state.SetEffectiveType(model.Effective2G)
	state.SetURL("https://shop.example/cart")
	second := b.Build(nil, false, Context{})

	if !first.Connection.Online || first.URL != "https://shop.example/" {
		t.Errorf("first record = %+v / %s", first.Connection, first.URL)
	}
	if second.Connection.Online || second.Connection.EffectiveType != model.Effective2G {
		t.Errorf("second record connection = %+v", second.Connection)
	}
	if second.URL != "https://shop.example/cart" {
		t.Errorf("second record url = %s", second.URL)
	}
}

func TestContextCopiedIntoRecord(t *testing.T) {
	b := New(env.NewState(""), WithClock(fixedClock))
	ctx := Context{
		AppID:       "shop",
		PageID:      "page-1",
		PageRoute:   "/cart",
		UserAgent:   model.UserAgent{Raw: "ua"},
		UserInfo:    model.UserInfo{FingerprintID: "fp", UserID: "u1"},
		Breadcrumbs: []model.Breadcrumb{{Name: "click"}},
		Resources:   []model.ResourceData{{URL: "https://cdn/a.png"}},
	}
	rec := b.Build(&model.LogData{}, false, ctx)

	if rec.AppID != "shop" || rec.PageID != "page-1" || rec.PageRoute != "/cart" {
		t.Errorf("page context not copied: %+v", rec)
	}
	if rec.UserInfo.FingerprintID != "fp" || rec.UserInfo.UserID != "u1" {
		t.Errorf("user info = %+v", rec.UserInfo)
	}
	if len(rec.Breadcrumbs) != 1 || len(rec.Resources) != 1 {
		t.Errorf("breadcrumbs=%d resources=%d", len(rec.Breadcrumbs), len(rec.Resources))
	}
	if rec.CreatedAt != 1700000000000 || rec.UpdatedAt != rec.CreatedAt {
		t.Errorf("timestamps = %d/%d", rec.CreatedAt, rec.UpdatedAt)
	}
}

func TestEmptyBreadcrumbsEncodeAsList(t *testing.T) {
	rec := New(env.NewState("")).Build(nil, false, Context{})
	if rec.Breadcrumbs == nil {
		t.Error("breadcrumbs should be an empty list, not nil")
	}
}
