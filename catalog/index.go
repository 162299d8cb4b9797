package catalog

import (
	"slices"
	"strings"

	"github.com/google/btree"
)

const indexDegree = 8

// Index keeps routes ordered by path and method for lookups and prefix
// scans.
type Index struct {
	tree *btree.BTreeG[Route]
}

func routeLess(a, b Route) bool {
	return compareRoutes(a, b) < 0
}

func NewIndex(routes []Route) *Index {
	tree := btree.NewG(indexDegree, routeLess)
	for _, r := range routes {
		tree.ReplaceOrInsert(r)
	}
	return &Index{tree: tree}
}

func (i *Index) Len() int {
	return i.tree.Len()
}

// Lookup finds the route of a method and path template.
func (i *Index) Lookup(method, path string) (Route, bool) {
	return i.tree.Get(Route{Method: strings.ToUpper(method), Path: path})
}

// All returns every route in order.
func (i *Index) All() []Route {
	out := make([]Route, 0, i.tree.Len())
	i.tree.Ascend(func(r Route) bool {
		out = append(out, r)
		return true
	})
	return out
}

// WithPrefix returns the routes whose path starts with prefix.
func (i *Index) WithPrefix(prefix string) []Route {
	out := make([]Route, 0)
	i.tree.AscendGreaterOrEqual(Route{Path: prefix, Method: "GET"}, func(r Route) bool {
		if !strings.HasPrefix(r.Path, prefix) {
			return false
		}
		out = append(out, r)
		return true
	})
	return out
}

// WithTag returns the routes carrying tag.
func (i *Index) WithTag(tag string) []Route {
	out := make([]Route, 0)
	i.tree.Ascend(func(r Route) bool {
		if slices.Contains(r.Tags, tag) {
			out = append(out, r)
		}
		return true
	})
	return out
}
