package ir

import "slices"

// Selector maps the current state to a partial props slice.
type Selector func(state Object) (Object, error)

// SelectorTable is a two-level lookup: namespace -> selector name -> Selector.
type SelectorTable map[string]map[string]Selector

// Lookup returns the selector registered as namespace.name.
// A missing namespace or name is reported through ok, never a panic.
func (t SelectorTable) Lookup(namespace, name string) (Selector, bool) {
	ns, ok := t[namespace]
	if !ok {
		return nil, false
	}
	sel, ok := ns[name]
	if !ok || sel == nil {
		return nil, false
	}
	return sel, true
}

// Add registers sel under namespace.name, replacing any previous entry.
func (t SelectorTable) Add(namespace, name string, sel Selector) {
	ns, ok := t[namespace]
	if !ok {
		ns = make(map[string]Selector)
		t[namespace] = ns
	}
	ns[name] = sel
}

// Refs lists every registered "namespace.name" in sorted order.
func (t SelectorTable) Refs() []string {
	var refs []string
	for ns, sels := range t {
		for name := range sels {
			refs = append(refs, ns+"."+name)
		}
	}
	slices.Sort(refs)
	return refs
}

// SelectorSpec is a declarative projection selector: each output field is
// read from a dotted path into state.
type SelectorSpec struct {
	Namespace string            `json:"namespace"`
	Name      string            `json:"name"`
	Fields    map[string]string `json:"fields"` // output field -> state path
}

// Props is the value handed to a view: merged state slices plus the
// bound actions supplied by the caller.
type Props struct {
	Values  Object
	Actions ActionTable
}
