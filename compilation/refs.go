package compilation

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// WalkSchemas calls fn for every schema of the document: component schemas,
// parameters, request bodies and responses, nested schemas included.
func WalkSchemas(doc *Document, fn func(SchemaOrRef)) {
	walkContent := func(content map[string]MediaType) {
		for _, media := range content {
			media.Schema.Walk(fn)
		}
	}

	for _, schema := range doc.Components.Schemas {
		NewSchemaDef(schema).Walk(fn)
	}

	for _, p := range doc.Paths {
		for _, method := range Methods {
			op := p.Operation(method)
			if op == nil {
				continue
			}
			for _, param := range op.Parameters {
				param.Schema.Walk(fn)
			}
			if op.RequestBody != nil {
				walkContent(op.RequestBody.Content)
			}
			for _, response := range op.Responses {
				walkContent(response.Content)
			}
		}
	}
}

// CheckRefs fails if any "$ref" of the document does not point at a
// declared component schema.
func CheckRefs(doc *Document) error {
	missing := make(map[string]struct{})

	WalkSchemas(doc, func(s SchemaOrRef) {
		ref, ok := s.GetRef()
		if !ok {
			return
		}
		name, local := strings.CutPrefix(ref, componentSchemaPrefix)
		if !local {
			missing[ref] = struct{}{}
			return
		}
		if _, ok := doc.Components.Schemas[name]; !ok {
			missing[name] = struct{}{}
		}
	})

	if len(missing) == 0 {
		return nil
	}

	return fmt.Errorf("%w: %v", ErrUnresolvedRef, strings.Join(slices.Sorted(maps.Keys(missing)), ", "))
}
