package actions

import (
	"fmt"
	"slices"

	"github.com/roach88/statebind/internal/ir"
)

// Generate derives an action creator for every action in def.
//
// The definition is validated first and all problems are reported in a
// single *DefinitionError. Generate has no side effects and returns an
// equivalent map for equal definitions.
func Generate(def ir.ActionDef) (ir.ActionCreators, error) {
	if errs := def.Validate(); len(errs) > 0 {
		return nil, &DefinitionError{Def: def.Name, Errors: errs}
	}

	creators := make(ir.ActionCreators, len(def.Actions))
	for _, sig := range def.Actions {
		creators[sig.Name] = newCreator(def.Name, sig)
	}
	return creators, nil
}

// newCreator maps positional values onto the declared arg names.
// The signature is copied so later edits to the definition cannot
// change an already generated creator.
func newCreator(defName string, sig ir.ActionSig) ir.ActionCreator {
	ref := ir.NewActionRef(defName, sig.Name)
	args := slices.Clone(sig.Args)

	return func(values ...ir.Value) (ir.Action, error) {
		if len(values) != len(args) {
			return ir.Action{}, &ArgError{
				Ref:     ref,
				Message: fmt.Sprintf("expected %d args, got %d", len(args), len(values)),
			}
		}

		payload := make(ir.Object, len(args))
		for i, arg := range args {
			if kind := ir.Kind(values[i]); kind != arg.Type {
				return ir.Action{}, &ArgError{
					Ref:     ref,
					Arg:     arg.Name,
					Message: fmt.Sprintf("expected %s, got %s", arg.Type, kind),
				}
			}
			if at, ok := nestedNull(values[i], arg.Name); ok {
				return ir.Action{}, &ArgError{
					Ref:     ref,
					Arg:     arg.Name,
					Message: fmt.Sprintf("null is not allowed at %s", at),
				}
			}
			payload[arg.Name] = values[i]
		}

		return ir.Action{Type: ref, Payload: payload}, nil
	}
}

// nestedNull reports the path of the first null inside a list or object.
// Payloads are journaled as canonical JSON, which has no null.
func nestedNull(v ir.Value, path string) (string, bool) {
	switch x := v.(type) {
	case nil, ir.Null:
		return path, true
	case ir.List:
		for i, item := range x {
			if at, ok := nestedNull(item, fmt.Sprintf("%s[%d]", path, i)); ok {
				return at, true
			}
		}
	case ir.Object:
		for _, key := range x.SortedKeys() {
			if at, ok := nestedNull(x[key], path+"."+key); ok {
				return at, true
			}
		}
	}
	return "", false
}
