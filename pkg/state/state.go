package state

import (
	"reflect"
	"sort"
	"unsafe"
)

// Patch is a partial state update.
type Patch map[string]any

// State is an immutable snapshot of an element's state.
// The zero State is empty.
type State struct {
	values     map[string]any
	generation uint64
	settled    bool
}

// FromPatch builds an unsettled State from p. Mostly useful in tests and
// for handlers that want to evaluate a hypothetical state.
func FromPatch(p Patch) State {
	values := make(map[string]any, len(p))
	for k, v := range p {
		values[k] = v
	}
	return State{values: values}
}

// Get returns the value stored under key, or nil.
func (s State) Get(key string) any {
	return s.values[key]
}

// Has reports whether key is present.
func (s State) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Len returns the number of keys.
func (s State) Len() int {
	return len(s.values)
}

// Keys returns the state keys in sorted order.
func (s State) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map returns a copy of the state as a map.
func (s State) Map() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Generation counts committed changes. It starts at 1 once a store
// has settled its initial state.
func (s State) Generation() uint64 {
	return s.generation
}

// Settled reports whether this snapshot came out of a completed fixpoint.
func (s State) Settled() bool {
	return s.settled
}

// with returns a new state with p merged in, and the keys whose values changed.
func (s State) with(p Patch) (State, []string) {
	var changed []string
	for k, v := range p {
		old, ok := s.values[k]
		if !ok || !Equal(old, v) {
			changed = append(changed, k)
		}
	}
	if len(changed) == 0 {
		return s, nil
	}
	values := make(map[string]any, len(s.values)+len(changed))
	for k, v := range s.values {
		values[k] = v
	}
	for _, k := range changed {
		values[k] = p[k]
	}
	sort.Strings(changed)
	return State{values: values, generation: s.generation}, changed
}

// Diff returns, in sorted order, the keys whose values differ between a and b.
// A key present in only one of the states counts as changed.
func Diff(a, b State) []string {
	var changed []string
	for k, av := range a.values {
		bv, ok := b.values[k]
		if !ok || !Equal(av, bv) {
			changed = append(changed, k)
		}
	}
	for k := range b.values {
		if _, ok := a.values[k]; !ok {
			changed = append(changed, k)
		}
	}
	sort.Strings(changed)
	return changed
}

// Equal compares two state values. Values of comparable dynamic type are
// compared with ==; funcs are equal when they are the same func value;
// maps, slices and other non-comparable values fall back to
// reflect.DeepEqual.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Kind() == reflect.Func {
		return funcValue(a) == funcValue(b)
	}
	if ta.Comparable() {
		if eq, ok := compare(a, b); ok {
			return eq
		}
	}
	return reflect.DeepEqual(a, b)
}

// funcValue returns the func value held by v. A func is stored directly in
// an interface's data word, so two closures of the same literal differ here
// even though they share a code pointer.
func funcValue(v any) unsafe.Pointer {
	return (*[2]unsafe.Pointer)(unsafe.Pointer(&v))[1]
}

// compare runs a == b, reporting ok=false when the comparison panics
// (a comparable struct type holding a non-comparable interface value).
func compare(a, b any) (eq, ok bool) {
	defer func() {
		if recover() != nil {
			eq, ok = false, false
		}
	}()
	return a == b, true
}
