package gamepad

import "strings"

// DefaultProxyMarkers are lower-case substrings of product names under
// which the event backend re-exposes a controller already reachable
// through a slot. "ig_" covers the IG_ prefix common to such entries.
// The list is a best-effort heuristic, not an identity check; it can both
// over- and under-filter.
var DefaultProxyMarkers = []string{"xinput", "(xbox", "ig_"}

// ProxyFilter builds a predicate reporting whether a product name contains
// any of the given markers, compared case-insensitively.
func ProxyFilter(markers ...string) func(name string) bool {
	lowered := make([]string, len(markers))
	for i, m := range markers {
		lowered[i] = strings.ToLower(m)
	}
	return func(name string) bool {
		name = strings.ToLower(name)
		for _, m := range lowered {
			if strings.Contains(name, m) {
				return true
			}
		}
		return false
	}
}

// DefaultProxyFilter applies DefaultProxyMarkers.
var DefaultProxyFilter = ProxyFilter(DefaultProxyMarkers...)
