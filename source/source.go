// Package source decodes order documents (JSON or YAML) into the parameter
// maps accepted by the spoke client.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ErrNotObject is returned when a document's root is not a mapping.
var ErrNotObject = errors.New("source: document root is not an object")

// JSON decodes a JSON object. Numbers are kept as json.Number so integer
// identifiers are not rounded through float64.
func JSON(data []byte) (map[string]any, error) {
	return JSONReader(bytes.NewReader(data))
}

// JSONReader decodes a JSON object from r.
func JSONReader(r io.Reader) (map[string]any, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("source: decode json: %w", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return m, nil
}

// YAML decodes the first document of a YAML stream.
func YAML(data []byte) (map[string]any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var node any
	if err := dec.Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNotObject
		}
		return nil, fmt.Errorf("source: decode yaml: %w", err)
	}
	m := yamlAnyToStringMap(node)
	if m == nil {
		return nil, ErrNotObject
	}
	return m, nil
}

// File reads path and decodes it by extension (.json, .yaml, .yml). "-" reads
// JSON or YAML from stdin.
func File(path string) (map[string]any, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON(data)
	case ".yaml", ".yml":
		return YAML(data)
	}
	// YAML is a superset of JSON, but JSON decoding keeps json.Number.
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return JSON(data)
	}
	return YAML(data)
}

// yamlAnyToStringMap converts YAML-decoded values (which may contain map[any]any)
// into JSON-like map[string]any recursively. Non-map roots return nil.
func yamlAnyToStringMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = yamlNormalizeValue(vv)
		}
		return out
	default:
		return nil
	}
}

func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any, map[any]any:
		return yamlAnyToStringMap(t)
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}
