package cmd

import (
	"github.com/masnyjimmy/rentdocs/catalog"
	"github.com/masnyjimmy/rentdocs/compilation"
	"github.com/masnyjimmy/rentdocs/loader"
)

// readDocument compiles input, or the embedded catalog when input is empty.
func readDocument(input string) (*compilation.Document, error) {
	if input == "" {
		return catalog.Document()
	}
	return loader.Load(input)
}

func sourceName(input string) string {
	if input == "" {
		return catalog.SourceName
	}
	return input
}
