package docs

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// Path describes the operations of one route template. Keys beginning with
// "/" are nested paths: they are appended to the parent path and inherit its
// tags.
type Path struct {
	Tags   []string
	Get    *Method
	Post   *Method
	Put    *Method
	Patch  *Method
	Delete *Method
	Nested map[string]Path
}

type Paths = map[string]Path

// Methods returns the defined operations keyed by lower-case HTTP method.
func (p *Path) Methods() map[string]*Method {
	out := make(map[string]*Method, 5)
	for name, m := range map[string]*Method{
		"get":    p.Get,
		"post":   p.Post,
		"put":    p.Put,
		"patch":  p.Patch,
		"delete": p.Delete,
	} {
		if m != nil {
			out[name] = m
		}
	}
	return out
}

func (p *Path) HasAnyMethod() bool {
	return p.Get != nil || p.Post != nil || p.Put != nil || p.Patch != nil || p.Delete != nil
}

// UnmarshalYAML implements BytesUnmarshaler for goccy/go-yaml
func (p *Path) UnmarshalYAML(data []byte) error {
	var raw map[string]yaml.RawMessage
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}

	decodeMethod := func(key string, value yaml.RawMessage) (*Method, error) {
		var m Method
		if err := yaml.Unmarshal(value, &m); err != nil {
			return nil, fmt.Errorf("%v: %w", key, err)
		}
		return &m, nil
	}

	for key, value := range raw {
		var err error

		switch key {
		case "tags":
			err = yaml.Unmarshal(value, &p.Tags)
		case "get":
			p.Get, err = decodeMethod(key, value)
		case "post":
			p.Post, err = decodeMethod(key, value)
		case "put":
			p.Put, err = decodeMethod(key, value)
		case "patch":
			p.Patch, err = decodeMethod(key, value)
		case "delete":
			p.Delete, err = decodeMethod(key, value)
		default:
			if !strings.HasPrefix(key, "/") {
				return fmt.Errorf("unknown path key %q", key)
			}
			var nested Path
			if err := yaml.Unmarshal(value, &nested); err != nil {
				return fmt.Errorf("%v: %w", key, err)
			}
			if p.Nested == nil {
				p.Nested = make(map[string]Path)
			}
			p.Nested[key] = nested
		}

		if err != nil {
			return err
		}
	}

	return nil
}
