// Package catalog embeds the dress rental API document and exposes it
// compiled, both as a Go value and as JSON/YAML bytes.
package catalog

import (
	_ "embed"
	"sync"

	"github.com/masnyjimmy/rentdocs/compilation"
	"github.com/masnyjimmy/rentdocs/loader"
)

//go:embed api.yaml
var source []byte

// SourceName is the name reported for the embedded document.
const SourceName = "catalog/api.yaml"

type compiled struct {
	doc  *compilation.Document
	json []byte
	yaml []byte
}

var load = sync.OnceValues(func() (*compiled, error) {
	doc, err := loader.Parse(SourceName, source)
	if err != nil {
		return nil, err
	}

	jsonBytes, err := compilation.MarshalJSON(doc)
	if err != nil {
		return nil, err
	}

	yamlBytes, err := compilation.MarshalYAML(doc)
	if err != nil {
		return nil, err
	}

	return &compiled{doc: doc, json: jsonBytes, yaml: yamlBytes}, nil
})

// Source returns the authoring document.
func Source() []byte {
	return source
}

// Document returns the compiled document. It is built once and shared:
// callers must not modify it.
func Document() (*compilation.Document, error) {
	c, err := load()
	if err != nil {
		return nil, err
	}
	return c.doc, nil
}

// JSON returns the compiled document as indented JSON.
func JSON() ([]byte, error) {
	c, err := load()
	if err != nil {
		return nil, err
	}
	return c.json, nil
}

// YAML returns the compiled document as YAML.
func YAML() ([]byte, error) {
	c, err := load()
	if err != nil {
		return nil, err
	}
	return c.yaml, nil
}
