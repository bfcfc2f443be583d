package geometry

import (
	"bytes"
	"encoding/json"
	"math"
)

// ParseGeometry accepts a Rect, a JSON string, raw JSON bytes, or a decoded
// JSON object and returns the rectangle it describes. Anything it cannot make
// sense of yields DefaultRect so a broken stall stays visible and stable.
func ParseGeometry(raw any) Rect {
	switch v := raw.(type) {
	case Rect:
		return sanitize(v)
	case *Rect:
		if v == nil {
			return DefaultRect
		}
		return sanitize(*v)
	case string:
		return parseBytes([]byte(v))
	case []byte:
		return parseBytes(v)
	case json.RawMessage:
		return ParseRaw(v)
	case map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return DefaultRect
		}
		return parseBytes(b)
	default:
		return DefaultRect
	}
}

// ParseRaw decodes geometry as it arrives on the wire: either a JSON object or
// a JSON string holding a serialized object.
func ParseRaw(raw json.RawMessage) Rect {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return DefaultRect
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return DefaultRect
		}
		return parseBytes([]byte(s))
	}
	return parseBytes(trimmed)
}

// StringifyRaw returns the geometry in its persisted string form. A JSON
// string is returned verbatim; an object is compacted.
func StringifyRaw(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
		return string(trimmed)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed)
	}
	return buf.String()
}

// Stringify serializes r the way stalls persist geometry.
func Stringify(r Rect) string {
	b, err := json.Marshal(r)
	if err != nil {
		return ""
	}
	return string(b)
}

func parseBytes(b []byte) Rect {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		return DefaultRect
	}
	var r Rect
	if err := json.Unmarshal(b, &r); err != nil {
		return DefaultRect
	}
	return sanitize(r)
}

func sanitize(r Rect) Rect {
	for _, f := range []float64{r.X, r.Y, r.W, r.H} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return DefaultRect
		}
	}
	if r.W < 0 || r.H < 0 {
		return DefaultRect
	}
	return r
}
