package evaluator

import "strings"

// Bundle wraps the untyped, client-submitted browser-environment JSON
// document and exposes dotted-path accessors so every rule in signal.go can
// read a deeply nested optional field without repeating type assertions.
type Bundle map[string]interface{}

// get walks a dotted path ("screen.width") through nested maps, returning
// (nil, false) the moment any segment is missing or not itself a map.
func (b Bundle) get(path string) (interface{}, bool) {
	segs := strings.Split(path, ".")
	var cur interface{} = map[string]interface{}(b)
	for _, seg := range segs {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		v, ok := m[seg]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// getString returns the string at path, or def if absent or not a string.
func (b Bundle) getString(path, def string) string {
	v, ok := b.get(path)
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	return s
}

// getNumber returns the float64 at path, or def if absent or not a number.
// JSON numbers decode to float64 via encoding/json, matching the client's
// wire format (booleans are handled separately by getBool).
func (b Bundle) getNumber(path string, def float64) float64 {
	v, ok := b.get(path)
	if !ok {
		return def
	}
	f, ok := v.(float64)
	if !ok {
		return def
	}
	return f
}

// getBool returns the bool at path, or def if absent or not a bool.
func (b Bundle) getBool(path string, def bool) bool {
	v, ok := b.get(path)
	if !ok {
		return def
	}
	bv, ok := v.(bool)
	if !ok {
		return def
	}
	return bv
}

// NavigatorUserAgent returns navigator.userAgent, or "" if absent. Exported
// for callers outside the package that need the raw UA string for purposes
// the evaluator itself doesn't care about (e.g. allowlist annotation).
func (b Bundle) NavigatorUserAgent() string {
	return b.getString("navigator.userAgent", "")
}

// has reports whether path resolves to anything at all (presence check,
// regardless of type or zero-value).
func (b Bundle) has(path string) bool {
	_, ok := b.get(path)
	return ok
}

// getArrayLen returns the length of a genuine JSON array at path, or -1 if
// the field is absent or not an array. Only navigator.languages and
// webgl.extensions are sent as real arrays; fonts/plugins/mediaDevices
// counts arrive pre-counted as numbers and use getNumber instead.
func (b Bundle) getArrayLen(path string) int {
	v, ok := b.get(path)
	if !ok {
		return -1
	}
	arr, ok := v.([]interface{})
	if !ok {
		return -1
	}
	return len(arr)
}
