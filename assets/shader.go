package assets

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// LoadShader reads a precompiled shader blob. A missing file is reported as
// an error satisfying errors.Is(err, fs.ErrNotExist); the caller decides
// whether that is fatal.
func LoadShader(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "load shader")
	}
	return data, nil
}

// LoadShaderSource reads a text shader, such as GLSL, from dir.
func LoadShaderSource(dir, name string) (string, error) {
	data, err := LoadShader(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
