package orchestrator_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	internalLoader "github.com/goliatone/go-vkgen/internal/registry/loader"
	"github.com/goliatone/go-vkgen/pkg/dlang"
	"github.com/goliatone/go-vkgen/pkg/orchestrator"
	"github.com/goliatone/go-vkgen/pkg/registry"
	"github.com/goliatone/go-vkgen/pkg/render"
	"github.com/goliatone/go-vkgen/pkg/testsupport"
)

func fixtureLoader() registry.Loader {
	return internalLoader.New(registry.NewLoaderOptions(
		registry.WithFileSystem(testsupport.Fixtures()),
	))
}

func TestOrchestrator_GenerateWritesFiles(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "source", "erupted")
	orch := orchestrator.New(orchestrator.WithLoader(fixtureLoader()))

	files, err := orch.Generate(testsupport.Context(), orchestrator.Request{
		Source:      registry.SourceFromFS("testdata/" + testsupport.FixtureRegistry),
		VideoSource: registry.SourceFromFS("testdata/" + testsupport.FixtureVideo),
		OutputDir:   dir,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	want := []string{
		dlang.FilePackage,
		dlang.FileTypes,
		dlang.FileFunctions,
		dlang.FileDispatchDevice,
		dlang.FilePlatformExtensions,
		dlang.FileLibLoader,
		dlang.FileVideo,
	}
	if diff := cmp.Diff(want, files.Names()); diff != "" {
		t.Fatalf("file names mismatch (-want +got):\n%s", diff)
	}

	for _, name := range want {
		written, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		content, _ := files.Get(name)
		if string(written) != string(content) {
			t.Fatalf("%s on disk differs from returned content", name)
		}
	}
}

func TestOrchestrator_GenerateFromDocument(t *testing.T) {
	t.Parallel()

	doc := testsupport.FixtureDocument(t, testsupport.FixtureRegistry)
	orch := orchestrator.New(
		orchestrator.WithGeneratorOptions(dlang.WithPackagePrefix("bindings.vk")),
	)

	files, err := orch.Generate(testsupport.Context(), orchestrator.Request{Document: &doc})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, ok := files.Get(dlang.FileVideo); ok {
		t.Fatalf("video module generated without a video registry")
	}
	content, ok := files.Get(dlang.FilePackage)
	if !ok {
		t.Fatalf("missing %s", dlang.FilePackage)
	}
	if !strings.Contains(string(content), "bindings.vk.functions") {
		t.Fatalf("package prefix not applied:\n%s", content)
	}
}

func TestOrchestrator_GenerateFromDocsCheckout(t *testing.T) {
	t.Parallel()

	checkout := t.TempDir()
	xmlDir := filepath.Join(checkout, "xml")
	if err := os.MkdirAll(xmlDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(xmlDir, "vk.xml"), testsupport.FixtureBytes(t, testsupport.FixtureRegistry), 0o644); err != nil {
		t.Fatalf("write registry: %v", err)
	}

	files, err := orchestrator.New().Generate(testsupport.Context(), orchestrator.Request{
		Source:      registry.SourceFromDocs(checkout, registry.RegistryFile),
		VideoSource: registry.SourceFromDocs(checkout, registry.VideoFile),
	})
	if err != nil {
		t.Fatalf("generate without video.xml: %v", err)
	}
	if _, ok := files.Get(dlang.FileVideo); ok {
		t.Fatalf("video module generated from a missing video.xml")
	}

	if err := os.WriteFile(filepath.Join(xmlDir, "video.xml"), testsupport.FixtureBytes(t, testsupport.FixtureVideo), 0o644); err != nil {
		t.Fatalf("write video: %v", err)
	}
	files, err = orchestrator.New().Generate(testsupport.Context(), orchestrator.Request{
		Source:      registry.SourceFromDocs(checkout, registry.RegistryFile),
		VideoSource: registry.SourceFromDocs(checkout, registry.VideoFile),
	})
	if err != nil {
		t.Fatalf("generate with video.xml: %v", err)
	}
	if _, ok := files.Get(dlang.FileVideo); !ok {
		t.Fatalf("expected %s", dlang.FileVideo)
	}

	_, err = orchestrator.New().Generate(testsupport.Context(), orchestrator.Request{
		Source:      registry.SourceFromDocs(checkout, registry.RegistryFile),
		VideoSource: registry.SourceFromFile(filepath.Join(checkout, "video-missing.xml")),
	})
	if err == nil || !strings.Contains(err.Error(), "load video registry") {
		t.Fatalf("explicit video paths stay required, got %v", err)
	}
}

func TestOrchestrator_GenerateWalkOptions(t *testing.T) {
	t.Parallel()

	doc := testsupport.FixtureDocument(t, testsupport.FixtureRegistry)
	orch := orchestrator.New()

	files, err := orch.Generate(testsupport.Context(), orchestrator.Request{
		Document: &doc,
		Walk: []registry.WalkOption{
			registry.WithRemoveExtensions(regexp.MustCompile(`^VK_KHR_swapchain$`)),
		},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	content, _ := files.Get(dlang.FileFunctions)
	if strings.Contains(string(content), "vkCreateSwapchainKHR") {
		t.Fatalf("removed extension still emitted")
	}
}

func TestOrchestrator_GenerateErrors(t *testing.T) {
	t.Parallel()

	doc := testsupport.FixtureDocument(t, testsupport.FixtureRegistry)

	tests := []struct {
		name string
		orch *orchestrator.Orchestrator
		req  orchestrator.Request
		want string
	}{
		{
			name: "missing source",
			orch: orchestrator.New(),
			req:  orchestrator.Request{},
			want: "registry source or document is required",
		},
		{
			name: "unknown generator",
			orch: orchestrator.New(),
			req:  orchestrator.Request{Document: &doc, Generator: "rust"},
			want: `generator "rust"`,
		},
		{
			name: "load failure",
			orch: orchestrator.New(orchestrator.WithLoader(fixtureLoader())),
			req:  orchestrator.Request{Source: registry.SourceFromFS("testdata/missing.xml")},
			want: "load registry",
		},
		{
			name: "video load failure",
			orch: orchestrator.New(orchestrator.WithLoader(fixtureLoader())),
			req: orchestrator.Request{
				Document:    &doc,
				VideoSource: registry.SourceFromFS("testdata/missing.xml"),
			},
			want: "load video registry",
		},
		{
			name: "empty registry",
			orch: orchestrator.New(orchestrator.WithRegistry(render.NewRegistry())),
			req:  orchestrator.Request{Document: &doc},
			want: "no generators registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.orch.Generate(testsupport.Context(), tt.req)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestOrchestrator_GenerateCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := testsupport.FixtureDocument(t, testsupport.FixtureRegistry)
	_, err := orchestrator.New().Generate(ctx, orchestrator.Request{Document: &doc})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

type stubGenerator struct {
	name string
	got  render.Request
}

func (s *stubGenerator) Name() string { return s.name }

func (s *stubGenerator) Generate(_ context.Context, req render.Request) (render.Files, error) {
	s.got = req
	var files render.Files
	files.Add(s.name+".txt", []byte(s.name))
	return files, nil
}

func TestOrchestrator_GeneratorSelection(t *testing.T) {
	t.Parallel()

	doc := testsupport.FixtureDocument(t, testsupport.FixtureRegistry)
	alpha := &stubGenerator{name: "alpha"}
	beta := &stubGenerator{name: "beta"}

	generators := render.NewRegistry()
	generators.MustRegister(beta)
	generators.MustRegister(alpha)

	orch := orchestrator.New(orchestrator.WithRegistry(generators))

	files, err := orch.Generate(testsupport.Context(), orchestrator.Request{Document: &doc})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if diff := cmp.Diff([]string{"alpha.txt"}, files.Names()); diff != "" {
		t.Fatalf("fallback generator mismatch (-want +got):\n%s", diff)
	}
	if alpha.got.Registry == nil {
		t.Fatalf("generator did not receive the parsed registry")
	}
	if alpha.got.Walk.DefaultExtensions != registry.DefaultExtensionClass {
		t.Fatalf("walk defaults not applied: %+v", alpha.got.Walk)
	}

	orch = orchestrator.New(
		orchestrator.WithRegistry(generators),
		orchestrator.WithDefaultGenerator("beta"),
	)
	files, err = orch.Generate(testsupport.Context(), orchestrator.Request{Document: &doc})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if diff := cmp.Diff([]string{"beta.txt"}, files.Names()); diff != "" {
		t.Fatalf("default generator mismatch (-want +got):\n%s", diff)
	}
}
