package useragent

import (
	"strings"
	"testing"
)

func TestParseDesktopChrome(t *testing.T) {
	raw := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	got := Parse(raw)
	if got.Raw != raw {
		t.Errorf("raw not preserved")
	}
	if got.Browser != "Chrome" {
		t.Errorf("browser = %q, want Chrome", got.Browser)
	}
	if !strings.HasPrefix(got.BrowserVersion, "120") {
		t.Errorf("version = %q, want 120.x", got.BrowserVersion)
	}
	if got.DeviceType != "desktop" {
		t.Errorf("device = %q, want desktop", got.DeviceType)
	}
}

func TestParseMobile(t *testing.T) {
	got := Parse("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")
	if got.DeviceType != "mobile" {
		t.Errorf("device = %q, want mobile", got.DeviceType)
	}
}

func TestParseEmpty(t *testing.T) {
	got := Parse("")
	if got.Browser != "" || got.DeviceType != "" {
		t.Errorf("empty UA produced %+v", got)
	}
}
