package render

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const page = `<!DOCTYPE html><html><head><title>Home</title></head><body><main><div id="candidate-feed"><p>Loading…</p></div></main></body></html>`

func TestAC710_StringSink_KeepsLastRender(t *testing.T) {
	var s StringSink
	_ = s.Render("<p>one</p>")
	_ = s.Render("<p>two</p>")

	if s.String() != "<p>two</p>" {
		t.Errorf("sink should hold the latest markup, got %q", s.String())
	}
}

func TestAC711_ElementSink_ReplacesTargetChildren(t *testing.T) {
	sink, err := NewElementSink(strings.NewReader(page), "candidate-feed")
	if err != nil {
		t.Fatalf("page should parse, got: %v", err)
	}

	if err := sink.Render(`<article class="feed-entry">A</article>`); err != nil {
		t.Fatalf("render should succeed, got: %v", err)
	}
	var out strings.Builder
	if _, err := sink.WriteTo(&out); err != nil {
		t.Fatalf("write should succeed, got: %v", err)
	}

	if !strings.Contains(out.String(), `<div id="candidate-feed"><article class="feed-entry">A</article></div>`) {
		t.Errorf("target should hold only the new markup, got:\n%s", out.String())
	}
	if strings.Contains(out.String(), "Loading") {
		t.Error("previous content should be replaced")
	}
}

func TestAC712_ElementSink_MissingTarget(t *testing.T) {
	_, err := NewElementSink(strings.NewReader(page), "policy-feed")

	if !errors.Is(err, ErrElementNotFound) {
		t.Errorf("missing target should be reported, got: %v", err)
	}
}

func TestAC713_InjectFile_RewritesPage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	if err := os.WriteFile(path, []byte(page), 0644); err != nil {
		t.Fatal(err)
	}

	if err := InjectFile(path, "candidate-feed", "<p>Fresh</p>"); err != nil {
		t.Fatalf("inject should succeed, got: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `<div id="candidate-feed"><p>Fresh</p></div>`) {
		t.Errorf("page should contain the injected markup, got:\n%s", data)
	}
	if !strings.Contains(string(data), "<title>Home</title>") {
		t.Error("rest of the page should be kept")
	}
}
