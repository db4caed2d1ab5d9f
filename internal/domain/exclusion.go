package domain

import (
	"strings"
)

// ExclusionSet is a case-insensitive set of host names to drop before
// evaluation. It is always built as the union of the global list and a
// group-specific list; a host excluded globally cannot be re-included per
// group.
type ExclusionSet map[string]struct{}

// NewExclusionSet builds an ExclusionSet from one or more name lists
func NewExclusionSet(lists ...[]string) ExclusionSet {
	set := make(ExclusionSet)
	for _, list := range lists {
		for _, name := range list {
			name = strings.ToLower(strings.TrimSpace(name))
			if name != "" {
				set[name] = struct{}{}
			}
		}
	}
	return set
}

// Contains reports whether any of the given names is excluded
func (e ExclusionSet) Contains(names ...string) bool {
	for _, name := range names {
		if _, ok := e[strings.ToLower(name)]; ok {
			return true
		}
	}
	return false
}

// Excludes reports whether the host matches the set by display name or
// technical name
func (e ExclusionSet) Excludes(h Host) bool {
	return e.Contains(h.DisplayName, h.TechnicalName)
}
