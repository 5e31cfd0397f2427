package registry

import "testing"

func TestParseSource(t *testing.T) {
	tests := []struct {
		raw      string
		kind     SourceKind
		location string
	}{
		{"https://raw.githubusercontent.com/KhronosGroup/Vulkan-Docs/main/xml/vk.xml", SourceKindURL, "https://raw.githubusercontent.com/KhronosGroup/Vulkan-Docs/main/xml/vk.xml"},
		{" xml/../xml/vk.xml ", SourceKindFile, "xml/vk.xml"},
		{"/opt/Vulkan-Docs/xml/video.xml", SourceKindFile, "/opt/Vulkan-Docs/xml/video.xml"},
	}
	for _, tt := range tests {
		src, err := ParseSource(tt.raw)
		if err != nil {
			t.Fatalf("ParseSource(%q): %v", tt.raw, err)
		}
		if src.Kind() != tt.kind || src.Location() != tt.location {
			t.Fatalf("ParseSource(%q) = (%s, %s), want (%s, %s)", tt.raw, src.Kind(), src.Location(), tt.kind, tt.location)
		}
	}

	for _, raw := range []string{"", "   ", "https://exa mple.com/vk.xml"} {
		if _, err := ParseSource(raw); err == nil {
			t.Fatalf("ParseSource(%q) expected error", raw)
		}
	}
}

func TestSourceFromURLPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for empty URL")
		}
	}()
	SourceFromURL("")
}

func TestSourceFromDocs(t *testing.T) {
	src := SourceFromDocs("/opt/Vulkan-Docs/", VideoFile)
	if src.Kind() != SourceKindDocs {
		t.Fatalf("kind = %s", src.Kind())
	}
	if want := "/opt/Vulkan-Docs/xml/video.xml"; src.Location() != want {
		t.Fatalf("location = %q, want %q", src.Location(), want)
	}
	if dir, ok := DocsCheckout(src); !ok || dir != "/opt/Vulkan-Docs" {
		t.Fatalf("DocsCheckout = %q, %v", dir, ok)
	}
	if _, ok := DocsCheckout(SourceFromFile("vk.xml")); ok {
		t.Fatalf("file sources have no checkout")
	}
}
