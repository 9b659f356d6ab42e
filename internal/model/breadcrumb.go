package model

// Breadcrumb is one recorded user or system action.
// Breadcrumbs are values; once pushed they are never modified.
type Breadcrumb struct {
	Name     string             `json:"name"`
	Level    Severity           `json:"level"`
	Type     BreadcrumbType     `json:"type"`
	Category BreadcrumbCategory `json:"category"`
	Time     int64              `json:"time"`
	Message  string             `json:"message,omitempty"`
	Request  *RequestInfo       `json:"request,omitempty"`
	Response *ResponseInfo      `json:"response,omitempty"`
	Stack    string             `json:"stack,omitempty"`
}

// RequestInfo describes an outgoing HTTP call in a fetch breadcrumb.
type RequestInfo struct {
	Method  string                 `json:"method"`
	URL     string                 `json:"url"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// ResponseInfo describes the HTTP status seen by a fetch breadcrumb.
type ResponseInfo struct {
	Status     int    `json:"status"`
	StatusText string `json:"statusText"`
}
