// Package callfilter implements the apitrace dump/stats "--only"
// function-name allowlist.
package callfilter

import (
	mapset "github.com/deckarep/golang-set"

	"github.com/mysticbob/apitrace/trace"
)

// Filter accepts or rejects a Call by its function name.
type Filter struct {
	names mapset.Set
}

// New builds a Filter from a list of function names. An empty list
// accepts every call.
func New(names []string) *Filter {
	s := mapset.NewSet()
	for _, n := range names {
		s.Add(n)
	}
	return &Filter{names: s}
}

// Allow reports whether call passes the filter.
func (f *Filter) Allow(call *trace.Call) bool {
	if f == nil || f.names.Cardinality() == 0 {
		return true
	}
	return f.names.Contains(call.Name())
}
