package registry

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Registry file names. DefaultRegistryPath is read when neither a registry
// nor a Vulkan-Docs checkout is given.
const (
	RegistryFile        = "vk.xml"
	VideoFile           = "video.xml"
	DocsXMLDir          = "xml"
	DefaultRegistryPath = RegistryFile
)

// location is the Source implementation shared by every loader modality.
// Docs sources keep the checkout and the file name apart.
type location struct {
	kind SourceKind
	path string
	file string
}

func (l location) Kind() SourceKind { return l.kind }

func (l location) Location() string {
	if l.kind == SourceKindDocs {
		return filepath.Join(l.path, DocsXMLDir, l.file)
	}
	return l.path
}

// SourceFromDocs returns a Source for file (RegistryFile or VideoFile) in the
// xml directory of a Vulkan-Docs checkout.
func SourceFromDocs(dir, file string) Source {
	return location{kind: SourceKindDocs, path: filepath.Clean(dir), file: file}
}

// DocsCheckout returns the checkout directory of a docs source.
func DocsCheckout(src Source) (string, bool) {
	l, ok := src.(location)
	if !ok || l.kind != SourceKindDocs {
		return "", false
	}
	return l.path, true
}

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return location{kind: SourceKindFile, path: filepath.Clean(path)}
}

// SourceFromFS returns a Source identifying a resource inside an fs.FS.
func SourceFromFS(name string) Source {
	return location{kind: SourceKindFS, path: name}
}

// SourceFromURL returns a Source for an HTTP or HTTPS registry. It panics on
// an invalid URL; use ParseSource for user input.
func SourceFromURL(raw string) Source {
	src, err := urlSource(raw)
	if err != nil {
		panic(err)
	}
	return src
}

// ParseSource interprets command line input: http and https URLs become URL
// sources, anything else a file path.
func ParseSource(raw string) (Source, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, errors.New("registry: empty source")
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return urlSource(trimmed)
	}
	return SourceFromFile(trimmed), nil
}

func urlSource(raw string) (Source, error) {
	if raw == "" {
		return nil, errors.New("registry: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return nil, fmt.Errorf("registry: invalid URL %q: %w", raw, err)
	}
	return location{kind: SourceKindURL, path: raw}, nil
}
