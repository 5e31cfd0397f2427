package loader

import (
	"errors"
	"fmt"
	"os"

	"github.com/goliatone/go-vkgen/pkg/registry"
)

// readFile reads a registry from disk. A directory is refused: checkouts go
// through docs sources.
func readFile(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("registry loader: file path is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("registry loader: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("registry loader: %s is a directory, expected a %s file", path, registry.RegistryFile)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry loader: %w", err)
	}
	return data, nil
}
