package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/statebind/internal/ir"
)

// LoadState reads application state from a JSON or YAML file.
// The format is chosen by extension; the document must be an object.
// Floats are rejected like everywhere else in the value model.
func LoadState(path string) (ir.Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}

	var value ir.Value
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		value, err = ir.ParseJSON(data)
		if err != nil {
			return nil, fmt.Errorf("parse state %s: %w", path, err)
		}
	case ".yaml", ".yml":
		value, err = parseYAMLState(data)
		if err != nil {
			return nil, fmt.Errorf("parse state %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported state file extension %q (want .json, .yaml or .yml)", ext)
	}

	obj, ok := value.(ir.Object)
	if !ok {
		return nil, fmt.Errorf("state %s: expected object, got %s", path, ir.Kind(value))
	}
	return obj, nil
}

func parseYAMLState(data []byte) (ir.Value, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return ir.FromGo(raw)
}
