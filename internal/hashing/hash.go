// Package hashing computes the dedup keys attached to captured events.
//
// The hash is the 32-bit string hash used by the browser SDK
// (h = h*31 + unit over UTF-16 code units, wrapping), so keys computed
// here match keys computed in the page for the same fields.
package hashing

import (
	"strconv"
	"strings"
	"unicode/utf16"
)

// String hashes s.
func String(s string) int32 {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(unit)
	}
	return h
}

// ScriptError keys a script error by event type and stack trace.
func ScriptError(eventType, stack string) int32 {
	return String(eventType + "-" + stack)
}

// ResourceError keys a failed resource load by tag, message and url.
func ResourceError(tag, message, url string) int32 {
	return String(tag + "-" + message + url)
}

// ResourceTiming keys a slow resource entry by entry type and resource name.
func ResourceTiming(entryType, name string) int32 {
	return String(entryType + "-" + name)
}

// Fetch keys an HTTP call by url, method and response status.
func Fetch(url, method string, status int, statusText string) int32 {
	return String(strings.Join([]string{url, method, strconv.Itoa(status), statusText}, "-"))
}

// Log keys a custom log by message and tag.
func Log(message, tag string) int32 {
	return String(message + "|" + tag)
}

// PageView keys a page view by route.
func PageView(route string) int32 {
	return String("pageview-" + route)
}
