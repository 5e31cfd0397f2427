package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File is one generated output file. Name is a slash separated path relative
// to the output directory.
type File struct {
	Name    string
	Content []byte
}

// Files is an ordered set of generated files.
type Files []File

// Add appends a file, replacing an existing entry with the same name.
func (f *Files) Add(name string, content []byte) {
	for i := range *f {
		if (*f)[i].Name == name {
			(*f)[i].Content = content
			return
		}
	}
	*f = append(*f, File{Name: name, Content: content})
}

// Get returns the content of the named file.
func (f Files) Get(name string) ([]byte, bool) {
	for _, file := range f {
		if file.Name == name {
			return file.Content, true
		}
	}
	return nil, false
}

// Names lists file names in generation order.
func (f Files) Names() []string {
	names := make([]string, 0, len(f))
	for _, file := range f {
		names = append(names, file.Name)
	}
	return names
}

// WriteDir writes every file below dir. The directory is created when
// missing; an existing directory is reused.
func (f Files) WriteDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New("render: output directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("render: create output directory: %w", err)
	}
	for _, file := range f {
		if file.Name == "" || filepath.IsAbs(file.Name) || strings.Contains(file.Name, "..") {
			return fmt.Errorf("render: invalid output file name %q", file.Name)
		}
		target := filepath.Join(dir, filepath.FromSlash(file.Name))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("render: create directory for %s: %w", file.Name, err)
		}
		if err := os.WriteFile(target, file.Content, 0o644); err != nil {
			return fmt.Errorf("render: write %s: %w", file.Name, err)
		}
	}
	return nil
}
