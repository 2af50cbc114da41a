package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/statebind/internal/ir"
)

// CompileSelectors parses the top-level `selector` struct into specs,
// ordered by namespace then name as declared.
func CompileSelectors(v cue.Value) ([]ir.SelectorSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	var specs []ir.SelectorSpec

	nsIter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for nsIter.Next() {
		namespace := nsIter.Label()

		selIter, err := nsIter.Value().Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}

		for selIter.Next() {
			spec, err := compileSelector(namespace, selIter.Label(), selIter.Value())
			if err != nil {
				return nil, err
			}
			specs = append(specs, spec)
		}
	}

	return specs, nil
}

func compileSelector(namespace, name string, v cue.Value) (ir.SelectorSpec, error) {
	spec := ir.SelectorSpec{
		Namespace: namespace,
		Name:      name,
		Fields:    make(map[string]string),
	}

	fieldsVal := v.LookupPath(cue.ParsePath("fields"))
	if !fieldsVal.Exists() {
		return spec, &CompileError{
			Field:   fmt.Sprintf("selector.%s.%s.fields", namespace, name),
			Message: "selector fields are required",
			Pos:     v.Pos(),
		}
	}

	iter, err := fieldsVal.Fields()
	if err != nil {
		return spec, formatCUEError(err)
	}

	for iter.Next() {
		path, err := iter.Value().String()
		if err != nil {
			return spec, &CompileError{
				Field:   fmt.Sprintf("selector.%s.%s.fields.%s", namespace, name, iter.Label()),
				Message: "state path must be a string",
				Pos:     iter.Value().Pos(),
			}
		}
		spec.Fields[iter.Label()] = path
	}

	return spec, nil
}
