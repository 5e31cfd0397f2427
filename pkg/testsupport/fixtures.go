package testsupport

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-vkgen/internal/registry/parser"
	"github.com/goliatone/go-vkgen/pkg/registry"
)

// Fixture names served from the embedded testdata directory.
const (
	FixtureRegistry = "vk.xml"
	FixtureVideo    = "video.xml"
)

//go:embed testdata/*.xml
var fixtures embed.FS

// Fixtures exposes the embedded registry fixtures, rooted at testdata/.
func Fixtures() embed.FS {
	return fixtures
}

// FixtureBytes returns the raw contents of an embedded fixture.
func FixtureBytes(t *testing.T, name string) []byte {
	t.Helper()

	data, err := fixtures.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return data
}

// FixtureDocument wraps an embedded fixture in a registry Document.
func FixtureDocument(t *testing.T, name string) registry.Document {
	t.Helper()

	doc, err := registry.NewDocument(registry.SourceFromFS(name), FixtureBytes(t, name))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return doc
}

// ParseFixture parses an embedded fixture for the vulkan API.
func ParseFixture(t *testing.T, name string) *registry.Registry {
	t.Helper()
	return ParseDocument(t, FixtureDocument(t, name))
}

// ParseDocument parses doc with the default parser options.
func ParseDocument(t *testing.T, doc registry.Document) *registry.Registry {
	t.Helper()

	reg, err := parser.New(registry.NewParserOptions()).Parse(Context(), doc)
	if err != nil {
		t.Fatalf("parse %s: %v", doc.Location(), err)
	}
	return reg
}

// ParseString parses an inline registry snippet. Snippets are wrapped in a
// <registry> root when they do not carry one.
func ParseString(t *testing.T, xml string) *registry.Registry {
	t.Helper()

	if !bytes.Contains([]byte(xml), []byte("<registry")) {
		xml = "<registry>" + xml + "</registry>"
	}
	doc, err := registry.NewDocument(registry.SourceFromFS("inline.xml"), []byte(xml))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return ParseDocument(t, doc)
}

// LoadDocument reads a registry file from disk. Testing helpers fail the test
// on error to keep contract tests concise.
func LoadDocument(t *testing.T, path string) registry.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T, for
// callers wiring fixtures in setup functions.
func LoadDocumentFromPath(path string) (registry.Document, error) {
	if path == "" {
		return registry.Document{}, errors.New("testsupport: document path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return registry.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := registry.NewDocument(registry.SourceFromFile(path), data)
	if err != nil {
		return registry.Document{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return doc, nil
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
