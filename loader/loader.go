// Package loader reads an API document from disk and runs it through
// validation and compilation.
package loader

import (
	"os"

	"github.com/goccy/go-yaml"
	"github.com/masnyjimmy/rentdocs/compilation"
	"github.com/masnyjimmy/rentdocs/docs"
	"github.com/masnyjimmy/rentdocs/validation"
)

// Load reads, validates and compiles the document at path.
func Load(path string) (*compilation.Document, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, &OpError{
			Op:   "loader.load",
			Kind: KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	return Parse(path, bytes)
}

// Parse validates and compiles bytes; name is only used in errors.
func Parse(name string, bytes []byte) (*compilation.Document, error) {
	if err := validation.ValidateBytes(bytes); err != nil {
		return nil, &OpError{
			Op:   "loader.validate",
			Kind: KindInvalidDocument,
			Path: name,
			Err:  err,
		}
	}

	var document docs.Document
	if err := yaml.Unmarshal(bytes, &document); err != nil {
		return nil, &OpError{
			Op:   "loader.parse",
			Kind: KindInvalidDocument,
			Path: name,
			Err:  err,
		}
	}

	out, err := compilation.CompileDocument(&document)
	if err != nil {
		return nil, &OpError{
			Op:   "loader.compile",
			Kind: KindCompile,
			Path: name,
			Err:  err,
		}
	}

	return out, nil
}
