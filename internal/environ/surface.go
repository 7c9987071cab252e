package environ

import (
	"log/slog"
	"slices"
	"strings"
)

// Filters the host environment through an allow-list.
type Surface struct {
	rules []Rule // Checked in order; the first match admits a variable.
}

// Creates a surface with the given rules.
func New(rules []Rule) *Surface {
	return &Surface{rules: slices.Clone(rules)}
}

// Reports whether a host variable name passes the allow-list.
func (s *Surface) Allowed(name string) bool {
	for _, r := range s.rules {
		if r.Match(name) {
			return true
		}
	}
	return false
}

// Builds the variable set for a task invocation.
//
// Host entries are "NAME=VALUE" strings as returned by [os.Environ]. Those
// whose name passes the allow-list are added in name order; entries without
// "=" are ignored. The overrides are added after them in the given order,
// replacing any host value of the same name.
func (s *Surface) Build(host []string, overrides ...Var) *Vars {
	var admitted []Var
	for _, entry := range host {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || name == "" {
			continue
		}
		if s.Allowed(name) {
			admitted = append(admitted, Var{Name: name, Value: value})
		}
	}
	slices.SortStableFunc(admitted, func(a, b Var) int {
		return strings.Compare(a.Name, b.Name)
	})

	vars := NewVars()
	for _, v := range admitted {
		vars.Set(v.Name, v.Value)
	}
	for _, v := range overrides {
		vars.Set(v.Name, v.Value)
	}

	slog.Debug("built task environment", "host", len(admitted), "overrides", len(overrides), "total", vars.Len())

	return vars
}
