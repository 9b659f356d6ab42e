// Package classify turns raw runtime error events and resource timing
// samples into captured data and breadcrumbs.
package classify

import (
	"strings"

	"github.com/gosight/gosight/tracer/internal/hashing"
	"github.com/gosight/gosight/tracer/internal/model"
)

// EventTypePromiseRejection is the event type given to normalized
// unhandled rejections.
const EventTypePromiseRejection = "promiseRejection"

// ErrorEvent is a runtime error reported by the host.
type ErrorEvent struct {
	Type    string       `json:"type"`
	Message string       `json:"message"`
	Error   *ScriptError `json:"error,omitempty"`
	Target  *Element     `json:"target,omitempty"`
}

// ScriptError is the thrown value attached to an ErrorEvent.
type ScriptError struct {
	Name  string `json:"name"`
	Stack string `json:"stack"`
}

// Element describes the DOM node an error event was dispatched on.
type Element struct {
	TagName   string `json:"tagName"`
	Src       string `json:"src,omitempty"`
	Href      string `json:"href,omitempty"`
	OuterHTML string `json:"outerHTML,omitempty"`
}

var resourceTags = map[string]bool{
	"img":    true,
	"script": true,
	"link":   true,
	"audio":  true,
	"video":  true,
	"source": true,
	"iframe": true,
}

// IsResourceTarget reports whether el loads an external resource.
func IsResourceTarget(el *Element) bool {
	return el != nil && resourceTags[strings.ToLower(el.TagName)]
}

// Outcome is the result of classifying one error event.
type Outcome struct {
	Data       model.TraceData
	Breadcrumb model.Breadcrumb
	// Resource is set when the event was a failed resource load. The
	// collector keeps it in the resource-defect list.
	Resource *model.ResourceData
}

// Error classifies event as a script error or a resource error. now is the
// capture time in epoch milliseconds.
func Error(event ErrorEvent, now int64) Outcome {
	if IsResourceTarget(event.Target) {
		return resourceError(event, now)
	}
	return scriptError(event, now)
}

func scriptError(event ErrorEvent, now int64) Outcome {
	var name, stack string
	if event.Error != nil {
		name, stack = event.Error.Name, event.Error.Stack
	}
	if name == "" {
		name = "Error"
	}

	base := model.BaseData{
		DataID:  hashing.ScriptError(event.Type, stack),
		Name:    "script-error",
		Level:   model.SeverityError,
		Message: event.Message,
		Time:    now,
		Type:    model.DataTypeJavaScript,
	}

	var data model.TraceData
	if event.Type == EventTypePromiseRejection {
		base.Name = "promise-rejection"
		base.Type = model.DataTypePromise
		data = &model.PromiseData{BaseData: base, Stack: stack}
	} else {
		data = &model.CodeErrorData{BaseData: base, Stack: stack}
	}

	return Outcome{
		Data: data,
		Breadcrumb: model.Breadcrumb{
			Name:     name,
			Type:     model.BreadcrumbCodeError,
			Category: model.CategoryException,
			Level:    model.SeverityError,
			Message:  event.Message,
			Stack:    stack,
			Time:     now,
		},
	}
}

func resourceError(event ErrorEvent, now int64) Outcome {
	target := event.Target
	url := target.Src
	if url == "" {
		url = target.Href
	}

	data := &model.ResourceData{
		BaseData: model.BaseData{
			DataID:  hashing.ResourceError(strings.ToLower(target.TagName), event.Message, url),
			Name:    "resource-load-error",
			Level:   model.SeverityWarning,
			Message: target.OuterHTML,
			Time:    now,
			Type:    model.DataTypeResource,
		},
		URL: url,
	}
	resource := *data

	return Outcome{
		Data:     data,
		Resource: &resource,
		Breadcrumb: model.Breadcrumb{
			Name:     data.Name,
			Type:     model.BreadcrumbResource,
			Category: model.CategoryException,
			Level:    model.SeverityWarning,
			Message:  event.Message,
			Time:     now,
		},
	}
}

// Rejection normalizes an unhandled promise rejection into the script error
// shape so it goes through the same classifier. name is the rejected value's
// error name when it was an Error, and may be empty.
func Rejection(name, reason, stack string) ErrorEvent {
	if name == "" {
		name = "UnhandledRejection"
	}
	return ErrorEvent{
		Type:    EventTypePromiseRejection,
		Message: reason,
		Error:   &ScriptError{Name: name, Stack: stack},
	}
}
