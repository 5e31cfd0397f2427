package vkgen_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	vkgen "github.com/goliatone/go-vkgen"
	"github.com/goliatone/go-vkgen/pkg/dlang"
	"github.com/goliatone/go-vkgen/pkg/orchestrator"
	"github.com/goliatone/go-vkgen/pkg/registry"
	"github.com/goliatone/go-vkgen/pkg/testsupport"
)

func TestEmbeddedTemplates(t *testing.T) {
	for _, name := range []string{dlang.FilePackage, dlang.FileTypes, dlang.FileVideo} {
		if _, err := fs.Stat(vkgen.EmbeddedTemplates(), name+".tpl"); err != nil {
			t.Fatalf("template %s: %v", name, err)
		}
	}
}

func TestGenerateDir(t *testing.T) {
	dir := t.TempDir()
	loader := vkgen.NewLoader(registry.WithFileSystem(testsupport.Fixtures()))

	files, err := vkgen.GenerateDir(testsupport.Context(),
		registry.SourceFromFS("testdata/"+testsupport.FixtureRegistry), dir,
		orchestrator.WithLoader(loader),
		orchestrator.WithParser(vkgen.NewParser(registry.WithAPIName(registry.DefaultAPIName))),
	)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(files) != 6 {
		t.Fatalf("expected 6 modules, got %v", files.Names())
	}
	if _, err := os.Stat(filepath.Join(dir, dlang.FileDispatchDevice)); err != nil {
		t.Fatalf("dispatch module not written: %v", err)
	}
}

func TestGenerateFromDocument(t *testing.T) {
	doc := testsupport.LoadDocument(t, filepath.Join("pkg", "testsupport", "testdata", testsupport.FixtureRegistry))

	files, err := vkgen.GenerateFromDocument(testsupport.Context(), doc, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, ok := files.Get(dlang.FileTypes); !ok {
		t.Fatalf("types module missing from %v", files.Names())
	}
}
