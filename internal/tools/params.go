package tools

import (
	"encoding/json"
	"math"
	"strings"
)

// Args are the raw arguments of a tool call as decoded from JSON
type Args map[string]any

func (a Args) present(name string) bool {
	v, ok := a[name]
	return ok && v != nil
}

// String returns an optional string argument, "" when absent
func (a Args) String(name string) (string, error) {
	if !a.present(name) {
		return "", nil
	}
	s, ok := a[name].(string)
	if !ok {
		return "", argError("%s must be a string", name)
	}
	return s, nil
}

// RequiredString returns a string argument that must be present and non-empty
func (a Args) RequiredString(name string) (string, error) {
	if !a.present(name) {
		return "", argError("%s is required", name)
	}
	s, err := a.String(name)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(s) == "" {
		return "", argError("%s must not be empty", name)
	}
	return s, nil
}

// Enum returns a string argument restricted to values. An absent optional
// argument yields "".
func (a Args) Enum(name string, required bool, values ...string) (string, error) {
	if !a.present(name) {
		if required {
			return "", argError("%s is required", name)
		}
		return "", nil
	}
	s, err := a.String(name)
	if err != nil {
		return "", err
	}
	for _, v := range values {
		if s == v {
			return s, nil
		}
	}
	return "", argError("%s must be one of: %s", name, strings.Join(values, ", "))
}

// Int returns an integer argument within [lo, hi], or def when absent
func (a Args) Int(name string, def, lo, hi int) (int, error) {
	if !a.present(name) {
		return def, nil
	}
	v, err := a.OptionalInt(name, lo, hi)
	if err != nil {
		return 0, err
	}
	return *v, nil
}

// OptionalInt returns an integer argument within [lo, hi], or nil when absent
func (a Args) OptionalInt(name string, lo, hi int) (*int, error) {
	if !a.present(name) {
		return nil, nil
	}
	f, ok := toFloat(a[name])
	if !ok {
		return nil, argError("%s must be a number", name)
	}
	if f != math.Trunc(f) {
		return nil, argError("%s must be an integer", name)
	}
	if f < float64(lo) || f > float64(hi) {
		return nil, argError("%s must be between %d and %d", name, lo, hi)
	}
	v := int(f)
	return &v, nil
}

// Float returns a numeric argument within [lo, hi], or nil when absent.
// Use math.Inf for an open bound.
func (a Args) Float(name string, lo, hi float64) (*float64, error) {
	if !a.present(name) {
		return nil, nil
	}
	f, ok := toFloat(a[name])
	if !ok || math.IsNaN(f) {
		return nil, argError("%s must be a number", name)
	}
	if f < lo || f > hi {
		return nil, argError("%s must be between %g and %g", name, lo, hi)
	}
	return &f, nil
}

// Bool returns a boolean argument, or def when absent
func (a Args) Bool(name string, def bool) (bool, error) {
	if !a.present(name) {
		return def, nil
	}
	b, ok := a[name].(bool)
	if !ok {
		return false, argError("%s must be a boolean", name)
	}
	return b, nil
}

// StringList returns an optional array of strings with at most maxItems
// entries, nil when absent.
func (a Args) StringList(name string, maxItems int) ([]string, error) {
	if !a.present(name) {
		return nil, nil
	}
	list, ok := toStrings(a[name])
	if !ok {
		return nil, argError("%s must be an array of strings", name)
	}
	if len(list) > maxItems {
		return nil, argError("%s must contain at most %d items", name, maxItems)
	}
	return list, nil
}

// RequiredStringList returns an array of strings with between 1 and maxItems entries
func (a Args) RequiredStringList(name string, maxItems int) ([]string, error) {
	if !a.present(name) {
		return nil, argError("%s is required", name)
	}
	list, err := a.StringList(name, maxItems)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, argError("%s must contain at least 1 item", name)
	}
	return list, nil
}

// StringOrList accepts either a single string or an array of strings. It
// reports whether a single string was given.
func (a Args) StringOrList(name string, maxItems int) ([]string, bool, error) {
	if !a.present(name) {
		return nil, false, argError("%s is required", name)
	}
	if s, ok := a[name].(string); ok {
		if strings.TrimSpace(s) == "" {
			return nil, false, argError("%s must not be empty", name)
		}
		return []string{s}, true, nil
	}
	list, ok := toStrings(a[name])
	if !ok {
		return nil, false, argError("%s must be a string or an array of strings", name)
	}
	if len(list) == 0 {
		return nil, false, argError("%s must contain at least 1 item", name)
	}
	if len(list) > maxItems {
		return nil, false, argError("%s must contain at most %d items", name, maxItems)
	}
	return list, false, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func toStrings(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
