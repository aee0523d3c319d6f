package version

import (
	"strings"
	"testing"
)

func TestShort(t *testing.T) {
	tests := []struct {
		name     string
		info     Info
		expected string
	}{
		{"no vcs", Info{Version: "dev"}, "dev"},
		{"clean", Info{Version: "1.2.0", VCSRevision: "0123456789abcdef"}, "1.2.0+01234567"},
		{"modified", Info{Version: "1.2.0", VCSRevision: "abc", VCSModified: true}, "1.2.0+abc-dirty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.Short(); got != tt.expected {
				t.Errorf("Short() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestString(t *testing.T) {
	s := Info{Version: "1.0.0", BuildTime: "2024-06-15", GoVersion: "go1.25.0"}.String()
	for _, want := range []string{"cashpulse 1.0.0", "built 2024-06-15", "go1.25.0"} {
		if !strings.Contains(s, want) {
			t.Errorf("Expected %q in %q", want, s)
		}
	}
	if Get().Version != Version {
		t.Error("Expected Get to report the linked version")
	}
}
