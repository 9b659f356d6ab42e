package model

// BaseData holds the fields shared by every captured event.
// DataID is a deterministic hash of the event's identifying fields. It lets
// the backend recognise repeats; the collector never enforces uniqueness.
type BaseData struct {
	DataID  int32    `json:"dataId"`
	Name    string   `json:"name"`
	Level   Severity `json:"level"`
	Message string   `json:"message"`
	Time    int64    `json:"time"`
	Type    DataType `json:"type"`
}

// Payload is anything a trace record can be built from: a TraceData variant
// or a *PerfRecord.
type Payload interface {
	payload()
}

// TraceData is one captured event. The set of implementations is closed:
// FetchData, CodeErrorData, PromiseData, ResourceData, LogData and
// PageViewData. Consumers switch on the concrete type.
type TraceData interface {
	Payload
	Base() BaseData
}

// FetchData is an HTTP call observed by the network instrumentation.
type FetchData struct {
	BaseData
	RequestID   string      `json:"requestId,omitempty"`
	ElapsedTime int64       `json:"elapsedTime"`
	Method      string      `json:"method"`
	HTTPType    string      `json:"httpType"`
	URL         string      `json:"url"`
	Body        string      `json:"body,omitempty"`
	Status      int         `json:"status"`
	Response    interface{} `json:"response,omitempty"`
}

// CodeErrorData is an uncaught script error.
type CodeErrorData struct {
	BaseData
	Stack string `json:"stack"`
}

// PromiseData is an unhandled promise rejection, normalized to the script
// error shape.
type PromiseData struct {
	BaseData
	Stack string `json:"stack"`
}

// ResourceData is a failed or slow resource load.
type ResourceData struct {
	BaseData
	URL string `json:"url,omitempty"`
}

// LogData is a custom log written through the collector API.
type LogData struct {
	BaseData
	Tag string `json:"tag,omitempty"`
}

// PageViewData records a route change.
type PageViewData struct {
	BaseData
	Route string `json:"route"`
}

func (d *FetchData) Base() BaseData     { return d.BaseData }
func (d *CodeErrorData) Base() BaseData { return d.BaseData }
func (d *PromiseData) Base() BaseData   { return d.BaseData }
func (d *ResourceData) Base() BaseData  { return d.BaseData }
func (d *LogData) Base() BaseData       { return d.BaseData }
func (d *PageViewData) Base() BaseData  { return d.BaseData }

func (*FetchData) payload()     {}
func (*CodeErrorData) payload() {}
func (*PromiseData) payload()   {}
func (*ResourceData) payload()  {}
func (*LogData) payload()       {}
func (*PageViewData) payload()  {}
func (*PerfRecord) payload()    {}
