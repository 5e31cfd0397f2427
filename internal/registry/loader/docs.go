package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goliatone/go-vkgen/pkg/registry"
)

// readDocs reads a registry file from the xml directory of a Vulkan-Docs
// checkout. A missing file wraps fs.ErrNotExist so callers can treat
// video.xml as optional.
func readDocs(src registry.Source) ([]byte, error) {
	dir, ok := registry.DocsCheckout(src)
	if !ok {
		return nil, fmt.Errorf("registry loader: %s is not a docs source", src.Location())
	}
	xmlDir := filepath.Join(dir, registry.DocsXMLDir)
	if info, err := os.Stat(xmlDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("registry loader: %s is not a Vulkan-Docs checkout: missing %s directory", dir, registry.DocsXMLDir)
	}

	data, err := os.ReadFile(src.Location())
	if err != nil {
		return nil, fmt.Errorf("registry loader: %w", err)
	}
	return data, nil
}
