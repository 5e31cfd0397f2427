package loader

import (
	"errors"
	"fmt"
	"io/fs"
)

func readFS(files fs.FS, name string) ([]byte, error) {
	if files == nil {
		return nil, errors.New("registry loader: filesystem is not configured")
	}
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("registry loader: invalid fs path %q", name)
	}
	data, err := fs.ReadFile(files, name)
	if err != nil {
		return nil, fmt.Errorf("registry loader: %w", err)
	}
	return data, nil
}
