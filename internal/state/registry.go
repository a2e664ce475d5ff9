package state

import (
	"fmt"
	"reflect"
	"sort"
)

// registration is one entry of the factory table.
type registration struct {
	factory Factory
	typ     reflect.Type
}

// registry maps state names to factories. Like the Manager that owns
// it, it is not safe for concurrent use.
type registry struct {
	entries map[string]registration
}

func newRegistry() *registry {
	return &registry{entries: make(map[string]registration)}
}

// add stores f under the name of the state it builds. f is called once
// here and the instance is dropped after its name and concrete type are
// read. Adding the same type again is a no-op.
func (r *registry) add(f Factory) (string, error) {
	if f == nil {
		return "", fmt.Errorf("state: nil factory")
	}

	s := f()
	if s == nil {
		return "", fmt.Errorf("state: factory returned nil")
	}
	name := NameOf(s)
	typ := reflect.TypeOf(s)

	if prev, exists := r.entries[name]; exists {
		if prev.typ == typ {
			return name, nil
		}
		return name, fmt.Errorf("%w: %q is %v, not %v", ErrDuplicateState, name, prev.typ, typ)
	}

	r.entries[name] = registration{factory: f, typ: typ}
	return name, nil
}

// lookup returns the factory registered under name.
func (r *registry) lookup(name string) (Factory, bool) {
	e, ok := r.entries[name]
	return e.factory, ok
}

// snapshot returns a copy of the table.
func (r *registry) snapshot() map[string]Factory {
	out := make(map[string]Factory, len(r.entries))
	for name, e := range r.entries {
		out[name] = e.factory
	}
	return out
}

// names returns the registered names, sorted.
func (r *registry) names() []string {
	out := make([]string, 0, len(r.entries))
	for name := range r.entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
