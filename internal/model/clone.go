package model

// Clone returns a deep copy of r. Mutating the copy never reaches r.
func (r TraceRecord) Clone() TraceRecord {
	out := r
	out.Data = CloneData(r.Data)
	if r.Perf != nil {
		p := r.Perf.Clone()
		out.Perf = &p
	}
	if r.Breadcrumbs != nil {
		out.Breadcrumbs = make([]Breadcrumb, len(r.Breadcrumbs))
		for i, b := range r.Breadcrumbs {
			out.Breadcrumbs[i] = b.Clone()
		}
	}
	if r.Resources != nil {
		out.Resources = append([]ResourceData(nil), r.Resources...)
	}
	return out
}

// Clone returns a deep copy of b.
func (b Breadcrumb) Clone() Breadcrumb {
	out := b
	if b.Request != nil {
		req := *b.Request
		req.Options = CloneMap(b.Request.Options)
		out.Request = &req
	}
	if b.Response != nil {
		res := *b.Response
		out.Response = &res
	}
	return out
}

// CloneData returns a fresh copy of d with the same concrete type.
func CloneData(d TraceData) TraceData {
	switch v := d.(type) {
	case *FetchData:
		if v == nil {
			return v
		}
		cp := *v
		cp.Response = CloneValue(v.Response)
		return &cp
	case *CodeErrorData:
		if v == nil {
			return v
		}
		cp := *v
		return &cp
	case *PromiseData:
		if v == nil {
			return v
		}
		cp := *v
		return &cp
	case *ResourceData:
		if v == nil {
			return v
		}
		cp := *v
		return &cp
	case *LogData:
		if v == nil {
			return v
		}
		cp := *v
		return &cp
	case *PageViewData:
		if v == nil {
			return v
		}
		cp := *v
		return &cp
	}
	return d
}

// CloneMap deep-copies a decoded JSON object. A nil map stays nil.
func CloneMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies the maps and slices of a decoded JSON value.
// Scalars are returned as is.
func CloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return CloneMap(t)
	case []interface{}:
		if t == nil {
			return t
		}
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = CloneValue(e)
		}
		return out
	}
	return v
}
