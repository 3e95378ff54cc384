package reflection

import (
	"fmt"
	"io/fs"

	"github.com/goccy/go-yaml"
)

// LoadText reads an embedded text resource from fsys. The error wraps the
// underlying fs error, so errors.Is(err, fs.ErrNotExist) works.
func LoadText(fsys fs.FS, name string) (string, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", newError("load_resource", name, fmt.Sprintf("cannot read resource: %v", err), err)
	}
	return string(data), nil
}

// MustLoadText is LoadText for resources that must exist, typically loaded
// at init time from an embedded filesystem. It panics on error.
func MustLoadText(fsys fs.FS, name string) string {
	text, err := LoadText(fsys, name)
	if err != nil {
		panic(err)
	}
	return text
}

// LoadYAML reads an embedded YAML resource from fsys and decodes it into out
func LoadYAML(fsys fs.FS, name string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return newError("load_resource", name, fmt.Sprintf("cannot read resource: %v", err), err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return newError("load_resource", name, fmt.Sprintf("cannot decode YAML: %v", err), err)
	}
	return nil
}
