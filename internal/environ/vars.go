package environ

import (
	"iter"
	"slices"
)

// Single variable assignment.
type Var struct {
	Name  string
	Value string
}

// Insertion-ordered set of variables.
//
// Setting a name that is already present moves it to the end, so the last
// assignment is both the value and the position that win.
type Vars struct {
	names  []string
	values map[string]string
}

// Creates an empty set.
func NewVars() *Vars {
	return &Vars{values: make(map[string]string)}
}

// Assigns a variable and moves it to the end of the order.
func (v *Vars) Set(name, value string) {
	if _, ok := v.values[name]; ok {
		v.names = slices.DeleteFunc(v.names, func(n string) bool { return n == name })
	}
	v.names = append(v.names, name)
	v.values[name] = value
}

// Returns the value of a variable and whether it is set.
func (v *Vars) Lookup(name string) (string, bool) {
	value, ok := v.values[name]
	return value, ok
}

// Returns the number of variables.
func (v *Vars) Len() int {
	return len(v.names)
}

// Iterates over the variables in order.
func (v *Vars) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, n := range v.names {
			if !yield(n, v.values[n]) {
				return
			}
		}
	}
}

// Returns the variable names in order.
func (v *Vars) Names() []string {
	return slices.Clone(v.names)
}

// Returns "NAME=VALUE" entries in order.
func (v *Vars) Environ() []string {
	out := make([]string, 0, len(v.names))
	for n, value := range v.All() {
		out = append(out, n+"="+value)
	}
	return out
}
