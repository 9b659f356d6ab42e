package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("app_id: shop\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.MaxBreadcrumb != 10 {
		t.Errorf("max_breadcrumb = %d, want 10", cfg.MaxBreadcrumb)
	}
	if cfg.MaxResources != 100 {
		t.Errorf("max_resources = %d, want 100", cfg.MaxResources)
	}
	if cfg.SendInterval != time.Second {
		t.Errorf("send_interval = %s, want 1s", cfg.SendInterval)
	}
	if !cfg.BreadcrumbEnabled {
		t.Error("breadcrumb_enabled should default to true")
	}
	if cfg.ClickWatch || cfg.ResourceWatch || cfg.PerfWatch {
		t.Error("watchers should default to off")
	}
	if cfg.Transport.Kind != KindLog {
		t.Errorf("transport kind = %q, want log", cfg.Transport.Kind)
	}
}

func TestParseDSNSelectsHTTP(t *testing.T) {
	cfg, err := Parse([]byte("app_id: shop\ndsn: http://collector.local/v1/traces\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Transport.Kind != KindHTTP {
		t.Errorf("transport kind = %q, want http", cfg.Transport.Kind)
	}
}

func TestParseExpandsEnv(t *testing.T) {
	t.Setenv("TRACER_APP_ID", "billing")
	t.Setenv("TRACER_BROKER", "kafka:9092")

	yml := `
app_id: ${TRACER_APP_ID}
send_interval: 250ms
breadcrumb_enabled: false
transport:
  kind: kafka
  kafka:
    brokers: ["${TRACER_BROKER}"]
`
	cfg, err := Parse([]byte(yml))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.AppID != "billing" {
		t.Errorf("app_id = %q", cfg.AppID)
	}
	if cfg.SendInterval != 250*time.Millisecond {
		t.Errorf("send_interval = %s", cfg.SendInterval)
	}
	if cfg.BreadcrumbEnabled {
		t.Error("explicit breadcrumb_enabled: false was overridden")
	}
	if len(cfg.Transport.Kafka.Brokers) != 1 || cfg.Transport.Kafka.Brokers[0] != "kafka:9092" {
		t.Errorf("brokers = %v", cfg.Transport.Kafka.Brokers)
	}
	if cfg.Transport.Kafka.Topic != "trace-records" {
		t.Errorf("topic = %q", cfg.Transport.Kafka.Topic)
	}
}

func TestParseRequiresAppID(t *testing.T) {
	_, err := Parse([]byte("debug: true\n"))
	if !errors.Is(err, ErrMissingAppID) {
		t.Fatalf("err = %v, want ErrMissingAppID", err)
	}
}

func TestValidateTransport(t *testing.T) {
	tests := []struct {
		name string
		yml  string
	}{
		{"http without dsn", "app_id: a\ntransport: {kind: http}\n"},
		{"kafka without brokers", "app_id: a\ntransport: {kind: kafka}\n"},
		{"redis without addr", "app_id: a\ntransport: {kind: redis}\n"},
		{"clickhouse without addr", "app_id: a\ntransport: {kind: clickhouse}\n"},
		{"unknown kind", "app_id: a\ntransport: {kind: carrier-pigeon}\n"},
		{"negative ring", "app_id: a\nmax_breadcrumb: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracer.yaml")
	if err := os.WriteFile(path, []byte("app_id: shop\nmax_breadcrumb: 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxBreadcrumb != 3 {
		t.Errorf("max_breadcrumb = %d, want 3", cfg.MaxBreadcrumb)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.MaxBreadcrumb != 10 || cfg.Transport.Kind != KindLog || !cfg.BreadcrumbEnabled {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}
