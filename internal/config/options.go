// Package config holds the small configuration primitives shared across the
// ingestion pipeline: a loosely-typed Options bag with typed getters, and the
// plan-tier upload limits.
package config

import "strings"

// Options is a loosely-typed option bag used by parsing components.
//
// Callers read values through the typed getters below; every getter takes a
// default that is returned when the key is missing or has the wrong type.
// This keeps option plumbing tolerant of partially-filled configs.
type Options map[string]any

// Bool returns the boolean option for key, or def when absent/mistyped.
func (o Options) Bool(key string, def bool) bool {
	if o == nil {
		return def
	}
	if v, ok := o[key].(bool); ok {
		return v
	}
	return def
}

// Int returns the integer option for key, or def when absent/mistyped.
// float64 values are accepted to tolerate JSON-decoded option maps.
func (o Options) Int(key string, def int) int {
	if o == nil {
		return def
	}
	switch v := o[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// Rune returns the first rune of a string option, or a rune option directly.
// Returns def when absent or empty.
func (o Options) Rune(key string, def rune) rune {
	if o == nil {
		return def
	}
	switch v := o[key].(type) {
	case rune:
		if v != 0 {
			return v
		}
	case string:
		for _, r := range v {
			return r
		}
	}
	return def
}

// String returns the string option for key, or def when absent/mistyped.
func (o Options) String(key string, def string) string {
	if o == nil {
		return def
	}
	if v, ok := o[key].(string); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

// StringMap returns a map[string]string option. JSON-decoded maps of
// map[string]any are converted; non-string values are skipped.
func (o Options) StringMap(key string) map[string]string {
	if o == nil {
		return nil
	}
	switch v := o[key].(type) {
	case map[string]string:
		return v
	case map[string]any:
		out := make(map[string]string, len(v))
		for k, raw := range v {
			if s, ok := raw.(string); ok {
				out[k] = s
			}
		}
		return out
	default:
		return nil
	}
}

// Any returns the raw option value for key, or nil.
func (o Options) Any(key string) any {
	if o == nil {
		return nil
	}
	return o[key]
}
