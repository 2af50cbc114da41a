package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/statebind/internal/ir"
)

// CompileDefinition parses a CUE value into an ActionDef.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the definition struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`def: cart: { ... }`)
//	def, err := CompileDefinition(v.LookupPath(cue.ParsePath("def.cart")))
//
// The definition name defaults to the struct label.
func CompileDefinition(v cue.Value) (*ir.ActionDef, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	def := &ir.ActionDef{}

	labels := v.Path().Selectors()
	if len(labels) > 0 {
		def.Name = labels[len(labels)-1].String()
	}

	nameVal := v.LookupPath(cue.ParsePath("name"))
	if nameVal.Exists() {
		name, err := nameVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		def.Name = name
	}

	// Parse purpose (required)
	purposeVal := v.LookupPath(cue.ParsePath("purpose"))
	if !purposeVal.Exists() {
		return nil, &CompileError{
			Field:   "purpose",
			Message: "purpose is required",
			Pos:     v.Pos(),
		}
	}
	purpose, err := purposeVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	def.Purpose = purpose

	def.Actions, err = parseActions(v)
	if err != nil {
		return nil, err
	}
	if len(def.Actions) == 0 {
		return nil, &CompileError{
			Field:   "action",
			Message: "at least one action is required",
			Pos:     v.Pos(),
		}
	}

	return def, nil
}

// parseActions extracts action signatures in declaration order.
func parseActions(v cue.Value) ([]ir.ActionSig, error) {
	var actions []ir.ActionSig

	actionVal := v.LookupPath(cue.ParsePath("action"))
	if !actionVal.Exists() {
		return actions, nil
	}

	iter, err := actionVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		action := ir.ActionSig{Name: iter.Label()}

		argsVal := iter.Value().LookupPath(cue.ParsePath("args"))
		if argsVal.Exists() {
			argsIter, err := argsVal.Fields()
			if err != nil {
				return nil, formatCUEError(err)
			}

			for argsIter.Next() {
				argType, err := extractTypeName(argsIter.Value())
				if err != nil {
					return nil, err
				}
				action.Args = append(action.Args, ir.NamedArg{
					Name: argsIter.Label(),
					Type: argType,
				})
			}
		}

		actions = append(actions, action)
	}

	return actions, nil
}

// extractTypeName converts CUE type to IR type string.
// Floats are forbidden.
func extractTypeName(v cue.Value) (string, error) {
	switch v.IncompleteKind() {
	case cue.StringKind:
		return "string", nil
	case cue.IntKind:
		return "int", nil
	case cue.BoolKind:
		return "bool", nil
	case cue.ListKind:
		return "array", nil
	case cue.StructKind:
		return "object", nil
	case cue.FloatKind, cue.NumberKind:
		return "", &CompileError{
			Field:   "type",
			Message: "float types are forbidden - use int instead",
			Pos:     v.Pos(),
		}
	default:
		return "", &CompileError{
			Field:   "type",
			Message: fmt.Sprintf("unsupported type kind: %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}
