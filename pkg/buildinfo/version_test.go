package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestUserAgent(t *testing.T) {
	old := Version
	defer func() { Version = old }()

	Version = "v1.2.3"
	if got := UserAgent(); got != "wikimap/v1.2.3 (+"+Homepage+")" {
		t.Errorf("UserAgent() = %q", got)
	}
}

func TestFill(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2025-01-02T03:04:05Z"},
		},
	}

	tests := []struct {
		name string
		in   Info
		want Info
	}{
		{"unstamped", Info{"dev", "none", "unknown"}, Info{"v0.4.0", "abc123", "2025-01-02T03:04:05Z"}},
		{"stamped wins", Info{"v1.0.0", "fff", "today"}, Info{"v1.0.0", "fff", "today"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.fill(bi); got != tt.want {
				t.Errorf("fill() = %+v, want %+v", got, tt.want)
			}
		})
	}

	devel := &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}
	if got := (Info{"dev", "none", "unknown"}).fill(devel); got.Version != "dev" {
		t.Errorf("(devel) build version = %q, want dev", got.Version)
	}
}

func TestTemplate(t *testing.T) {
	s := Template()
	for _, want := range []string{"{{.Name}}", "commit:", "built:"} {
		if !strings.Contains(s, want) {
			t.Errorf("Template() missing %q: %s", want, s)
		}
	}
}
