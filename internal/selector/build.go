package selector

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/roach88/statebind/internal/ir"
)

// identRegex matches a declared namespace or selector name.
var identRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_-]*$`)

// Build turns declarative specs into a selector table.
//
// Each selector copies the value at every declared state path into its
// output field. A path missing from state makes the selector fail; the
// injector isolates that failure to the one key.
func Build(specs []ir.SelectorSpec) (ir.SelectorTable, error) {
	table := make(ir.SelectorTable)
	for _, spec := range specs {
		ref := spec.Namespace + "." + spec.Name
		if _, err := ParseKey(ref); err != nil {
			return nil, fmt.Errorf("build selector: %w", err)
		}
		if !identRegex.MatchString(spec.Namespace) || !identRegex.MatchString(spec.Name) {
			return nil, fmt.Errorf("build selector: invalid selector name %q", ref)
		}
		if _, exists := table.Lookup(spec.Namespace, spec.Name); exists {
			return nil, fmt.Errorf("build selector: duplicate selector %q", ref)
		}
		if len(spec.Fields) == 0 {
			return nil, fmt.Errorf("build selector %q: at least one field is required", ref)
		}
		for out, path := range spec.Fields {
			if out == "" || path == "" {
				return nil, fmt.Errorf("build selector %q: field %q has empty name or path", ref, out)
			}
		}
		table.Add(spec.Namespace, spec.Name, projection(ref, spec.Fields))
	}
	return table, nil
}

func projection(ref string, fields map[string]string) ir.Selector {
	outs := make([]string, 0, len(fields))
	paths := make(map[string]string, len(fields))
	for out, path := range fields {
		outs = append(outs, out)
		paths[out] = path
	}
	slices.Sort(outs)

	return func(state ir.Object) (ir.Object, error) {
		result := make(ir.Object, len(outs))
		for _, out := range outs {
			v, ok := state.Path(paths[out])
			if !ok {
				return nil, fmt.Errorf("selector %s: state path %q not found", ref, paths[out])
			}
			result[out] = v
		}
		return result, nil
	}
}
