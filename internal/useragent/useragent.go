// Package useragent turns the host's user agent string into the browser
// block carried by every trace record.
package useragent

import (
	"github.com/mssola/useragent"

	"github.com/gosight/gosight/tracer/internal/model"
)

// Parse extracts browser, OS and device class from raw.
// An empty string yields a record with only Raw set.
func Parse(raw string) model.UserAgent {
	out := model.UserAgent{Raw: raw}
	if raw == "" {
		return out
	}

	ua := useragent.New(raw)
	out.Browser, out.BrowserVersion = ua.Browser()
	out.OS = ua.OS()
	out.Platform = ua.Platform()
	out.DeviceType = deviceType(ua)
	return out
}

func deviceType(ua *useragent.UserAgent) string {
	if ua.Mobile() {
		return "mobile"
	}
	if ua.Bot() {
		return "bot"
	}
	return "desktop"
}
