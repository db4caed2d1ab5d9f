package domain

import (
	"testing"
)

func TestNewExclusionSet_Union(t *testing.T) {
	global := []string{"shared-host", "Global-Only"}
	group := []string{"group-only", "shared-host"}

	set := NewExclusionSet(global, group)

	if len(set) != 3 {
		t.Errorf("expected union of 3 distinct names, got %d", len(set))
	}
	for _, name := range []string{"shared-host", "global-only", "group-only"} {
		if !set.Contains(name) {
			t.Errorf("expected %q to be excluded", name)
		}
	}
}

func TestExclusionSet_CaseInsensitive(t *testing.T) {
	set := NewExclusionSet([]string{"Router-01"})

	if !set.Contains("router-01") {
		t.Error("expected lowercase lookup to match")
	}
	if !set.Contains("ROUTER-01") {
		t.Error("expected uppercase lookup to match")
	}
}

func TestExclusionSet_Excludes(t *testing.T) {
	set := NewExclusionSet([]string{"edge-fw", "Branch Router"})

	tests := []struct {
		name     string
		host     Host
		expected bool
	}{
		{"matches technical name", Host{TechnicalName: "EDGE-FW", DisplayName: "Edge Firewall"}, true},
		{"matches display name", Host{TechnicalName: "rtr-br-01", DisplayName: "branch router"}, true},
		{"no match", Host{TechnicalName: "core-sw", DisplayName: "Core Switch"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := set.Excludes(tt.host); got != tt.expected {
				t.Errorf("Excludes(%+v) = %v, want %v", tt.host, got, tt.expected)
			}
		})
	}
}

func TestNewExclusionSet_IgnoresBlankEntries(t *testing.T) {
	set := NewExclusionSet([]string{"", "  ", "real-host"})

	if len(set) != 1 {
		t.Errorf("expected blank entries dropped, got %d entries", len(set))
	}
	if set.Contains("") {
		t.Error("expected empty name not to match")
	}
}
