package main

import (
	"path/filepath"
	"runtime/debug"
	"testing"
)

// TestResolveVersion_PreferLdflags verifies that ldflags version takes precedence
func TestResolveVersion_PreferLdflags(t *testing.T) {
	result := resolveVersion("v1.2.3", &debug.BuildInfo{
		Main: debug.Module{Version: "v0.0.0"},
	})

	if result != "v1.2.3" {
		t.Errorf("should prefer ldflags version, got: %s", result)
	}
}

// TestResolveVersion_FallbackToBuildInfo verifies that build info is used when ldflags is "dev",
// which is what go install github.com/hillcountry/sentinel/cmd/sentinel@v1.2.3 produces.
func TestResolveVersion_FallbackToBuildInfo(t *testing.T) {
	result := resolveVersion("dev", &debug.BuildInfo{
		Main: debug.Module{Version: "v1.2.3"},
	})

	if result != "v1.2.3" {
		t.Errorf("should use build info version when ldflags is 'dev', got: %s", result)
	}
}

// TestResolveVersion_IgnoreDevel verifies that "(devel)" is treated as "dev"
func TestResolveVersion_IgnoreDevel(t *testing.T) {
	result := resolveVersion("dev", &debug.BuildInfo{
		Main: debug.Module{Version: "(devel)"},
	})

	if result != "dev" {
		t.Errorf("should return 'dev' when build info is '(devel)', got: %s", result)
	}
}

// TestResolveVersion_NilBuildInfo handles nil build info gracefully
func TestResolveVersion_NilBuildInfo(t *testing.T) {
	result := resolveVersion("dev", nil)

	if result != "dev" {
		t.Errorf("should return 'dev' when build info is nil, got: %s", result)
	}
}

func TestBasePathFor_CountsDirectoryDepth(t *testing.T) {
	root := t.TempDir()
	cases := map[string]string{
		"index.html":              "",
		"profiles/a.html":         "../",
		"articles/archive/b.html": "../../",
	}

	for rel, want := range cases {
		if got := basePathFor(root, filepath.Join(root, filepath.FromSlash(rel))); got != want {
			t.Errorf("basePathFor(%q) = %q, want %q", rel, got, want)
		}
	}
	if got := basePathFor(root, "/elsewhere/page.html"); got != "" {
		t.Errorf("page outside the root should get no prefix, got %q", got)
	}
}
