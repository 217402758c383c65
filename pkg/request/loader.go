// Package request builds raw skill requests from the places a user can
// express them: JSON or YAML files, command-line flags and existing SKILL.md
// files. It performs no validation; requests stay in their loose shape so the
// generator can report every problem precisely.
package request

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/jingkaihe/skillgen/pkg/types/skill"
)

// Format is a request file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the encoding from a file extension. Anything that is
// not .json is read as YAML, which also accepts JSON documents.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// LoadFile reads one or more requests from a file. A file may hold a single
// request object or a list of them.
func LoadFile(path string) ([]skill.RawRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read request file %s", path)
	}

	requests, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}
	return requests, nil
}

// Parse decodes requests from data.
func Parse(data []byte, format Format) ([]skill.RawRequest, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("request document is empty")
	}

	var doc any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(err, "invalid JSON")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(err, "invalid YAML")
		}
	default:
		return nil, errors.Errorf("unsupported request format %q", format)
	}

	switch v := doc.(type) {
	case map[string]any:
		return []skill.RawRequest{skill.RawRequest(v)}, nil
	case []any:
		out := make([]skill.RawRequest, 0, len(v))
		for i, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, errors.Errorf("request %d is not an object", i)
			}
			out = append(out, skill.RawRequest(m))
		}
		if len(out) == 0 {
			return nil, errors.New("request list is empty")
		}
		return out, nil
	default:
		return nil, errors.Errorf("expected a request object or a list of requests, got %T", doc)
	}
}

// Marshal encodes a request in the given format, for example to save an
// imported SKILL.md as a request file.
func Marshal(raw skill.RawRequest, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(raw, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode request as JSON")
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(map[string]any(raw)); err != nil {
			return nil, errors.Wrap(err, "failed to encode request as YAML")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "failed to encode request as YAML")
		}
		return buf.Bytes(), nil
	default:
		return nil, errors.Errorf("unsupported request format %q", format)
	}
}
