// Package loader reads Vulkan registry documents. Local files, Vulkan-Docs
// checkouts, fs.FS entries and HTTP URLs are supported, and every payload
// must carry a <registry> root element.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/goliatone/go-vkgen/internal/ctxlog"
	"github.com/goliatone/go-vkgen/pkg/registry"
)

// Loader implements registry.Loader. Construction helpers live in the
// top-level vkgen package.
type Loader struct {
	files  fs.FS
	client *http.Client
}

var _ registry.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options registry.LoaderOptions) registry.Loader {
	return &Loader{
		files:  options.FileSystem,
		client: httpClient(options),
	}
}

// httpClient returns nil when remote registries are disabled. Injected
// clients are copied so the request timeout never leaks back to the caller.
func httpClient(options registry.LoaderOptions) *http.Client {
	if options.HTTPClient == nil {
		if !options.AllowHTTPFallback {
			return nil
		}
		return &http.Client{Timeout: options.RequestTimeout}
	}
	client := *options.HTTPClient
	if client.Timeout == 0 {
		client.Timeout = options.RequestTimeout
	}
	return &client
}

// Load reads the document behind src and checks that it is a registry.
func (l *Loader) Load(ctx context.Context, src registry.Source) (registry.Document, error) {
	if src == nil {
		return registry.Document{}, errors.New("registry loader: source is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return registry.Document{}, err
	}

	data, err := l.read(ctx, src)
	if err != nil {
		return registry.Document{}, err
	}
	if err := checkRoot(data); err != nil {
		return registry.Document{}, fmt.Errorf("registry loader: %s: %w", src.Location(), err)
	}

	ctxlog.FromContext(ctx).Debug("registry loader: loaded document",
		"kind", string(src.Kind()),
		"location", src.Location(),
		"bytes", len(data),
	)
	return registry.NewDocument(src, data)
}

func (l *Loader) read(ctx context.Context, src registry.Source) ([]byte, error) {
	switch src.Kind() {
	case registry.SourceKindFile:
		return readFile(src.Location())
	case registry.SourceKindDocs:
		return readDocs(src)
	case registry.SourceKindFS:
		return readFS(l.files, src.Location())
	case registry.SourceKindURL:
		return fetch(ctx, l.client, src.Location())
	}
	return nil, fmt.Errorf("registry loader: unsupported source kind %q", src.Kind())
}
