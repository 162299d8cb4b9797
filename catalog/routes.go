package catalog

import (
	"maps"
	"slices"
	"strings"

	"github.com/masnyjimmy/rentdocs/compilation"
)

// Route is one documented operation.
type Route struct {
	Method      string   `json:"method"`
	Path        string   `json:"path"`
	OperationID string   `json:"operationId"`
	Summary     string   `json:"summary,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Statuses    []string `json:"statuses"`
	Public      bool     `json:"public"`
}

func (r Route) String() string {
	return r.Method + " " + r.Path
}

func methodRank(method string) int {
	return slices.Index(compilation.Methods, strings.ToLower(method))
}

func compareRoutes(a, b Route) int {
	if c := strings.Compare(a.Path, b.Path); c != 0 {
		return c
	}
	return methodRank(a.Method) - methodRank(b.Method)
}

// Routes lists the operations of doc ordered by path, then by method in
// the order get, post, put, patch, delete.
func Routes(doc *compilation.Document) []Route {
	out := make([]Route, 0)

	for p, item := range doc.Paths {
		for _, method := range compilation.Methods {
			op := item.Operation(method)
			if op == nil {
				continue
			}

			public := op.IsPublic()
			if op.Security == nil {
				public = len(doc.Security) == 0
			}

			out = append(out, Route{
				Method:      strings.ToUpper(method),
				Path:        p,
				OperationID: op.OperationId,
				Summary:     op.Summary,
				Tags:        op.Tags,
				Statuses:    slices.Sorted(maps.Keys(op.Responses)),
				Public:      public,
			})
		}
	}

	slices.SortFunc(out, compareRoutes)
	return out
}
