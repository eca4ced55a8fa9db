package shapes

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
)

//go:embed *.yaml
var ShapesFS embed.FS

// Load reads a definition document from disk, falling back to the documents
// embedded in the binary.
func Load(name string) ([]byte, error) {
	if data, err := os.ReadFile(name); err == nil {
		return data, nil
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	return ShapesFS.ReadFile(cleanShapePath(name))
}

func cleanShapePath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "shapes/"); ok {
		return after
	}
	return s
}
