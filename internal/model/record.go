package model

// Connection is the network state at the moment a record was built.
type Connection struct {
	Online        bool          `json:"online"`
	EffectiveType EffectiveType `json:"effectiveType"`
}

// UserAgent is the parsed browser identity of the host.
type UserAgent struct {
	Raw            string `json:"raw"`
	Browser        string `json:"browser,omitempty"`
	BrowserVersion string `json:"browserVersion,omitempty"`
	OS             string `json:"os,omitempty"`
	Platform       string `json:"platform,omitempty"`
	DeviceType     string `json:"deviceType,omitempty"`
}

// UserInfo identifies the device and the signed in user.
type UserInfo struct {
	FingerprintID string `json:"fpId"`
	UserID        string `json:"userId,omitempty"`
	UserName      string `json:"userName,omitempty"`
	Token         string `json:"token,omitempty"`
	ServerID      string `json:"serverId,omitempty"`
}

// TraceRecord is the unit delivered to the backend. It owns copies of
// everything it references; nothing in it aliases collector state.
type TraceRecord struct {
	TraceID     string         `json:"traceId"`
	Type        TraceType      `json:"type"`
	Level       TraceLevel     `json:"level"`
	CreatedAt   int64          `json:"createdAt"`
	UpdatedAt   int64          `json:"updatedAt"`
	Data        TraceData      `json:"data,omitempty"`
	Perf        *PerfRecord    `json:"perf,omitempty"`
	Breadcrumbs []Breadcrumb   `json:"breadcrumbs"`
	Resources   []ResourceData `json:"resources,omitempty"`
	UA          UserAgent      `json:"ua"`
	Connection  Connection     `json:"connection"`
	AppID       string         `json:"appId"`
	PageID      string         `json:"pid"`
	PageRoute   string         `json:"pageRoute"`
	URL         string         `json:"url"`
	UserInfo    UserInfo       `json:"userInfo"`
}

// DataID returns the dedup key of the record's data payload, or 0 when the
// record carries no data.
func (r *TraceRecord) DataID() int32 {
	if r.Data == nil {
		return 0
	}
	return r.Data.Base().DataID
}
