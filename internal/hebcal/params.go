package hebcal

import (
	"fmt"
	"strconv"
)

// Params maps hebcal wire-parameter codes to their query-string values.
type Params map[string]string

func (p Params) clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// defaultParams is the baseline every endpoint starts from.
func defaultParams() Params {
	return Params{"cfg": "json", "v": "1"}
}

func allowSet(keys ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// mergeParams overlays extra onto base after checking every extra key against
// the endpoint allow-list. allowKey, when non-nil, admits dynamically named
// keys (the yahrzeit numbered fields).
func mergeParams(base, extra Params, allowed map[string]struct{}, allowKey func(string) bool) (Params, error) {
	merged := base.clone()
	for k, v := range extra {
		if _, ok := allowed[k]; !ok && (allowKey == nil || !allowKey(k)) {
			return nil, &ValidationError{
				Field:   k,
				Message: fmt.Sprintf("parameter %q is not allowed for this endpoint", k),
			}
		}
		merged[k] = v
	}
	return merged, nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func formatInt(n int) string {
	return strconv.Itoa(n)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
