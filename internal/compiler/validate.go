package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/statebind/internal/ir"
)

// Validation error codes (E100-E199)
const (
	// General validation errors (E100)
	ErrUnsupportedIRType = "E100" // unsupported IR type for validation

	// ActionDef errors (E101-E109)
	ErrDefPurposeEmpty    = "E101" // purpose is required
	ErrDefNoActions       = "E102" // at least one action required
	ErrDefNameEmpty       = "E103" // definition or action name missing
	ErrInvalidFieldType   = "E104" // invalid type string
	ErrDuplicateName      = "E105" // duplicate action/arg name
	ErrFloatTypeForbidden = "E106" // float types not allowed
	ErrInvalidName        = "E107" // name not usable in an action ref

	// SelectorSpec errors (E120-E129)
	ErrInvalidSelectorRef = "E120" // namespace.name is not a valid selector key
	ErrSelectorNoFields   = "E121" // at least one field required
	ErrInvalidStatePath   = "E122" // empty or malformed state path
	ErrDuplicateSelector  = "E123" // duplicate namespace.name
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate validates compiled IR against schema rules.
// Returns all errors found (does not fail-fast).
// Supports ActionDef, SelectorSpec and []SelectorSpec.
func Validate(v any) []ValidationError {
	switch x := v.(type) {
	case *ir.ActionDef:
		return validateActionDef(x)
	case ir.ActionDef:
		return validateActionDef(&x)
	case *ir.SelectorSpec:
		return validateSelectorSpec(x)
	case ir.SelectorSpec:
		return validateSelectorSpec(&x)
	case []ir.SelectorSpec:
		return validateSelectorSpecs(x)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported IR type: %T", v),
			Code:    ErrUnsupportedIRType,
		}}
	}
}

// identPattern matches definition, action and arg names.
var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func validateActionDef(def *ir.ActionDef) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(def.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "definition name is required",
			Code:    ErrDefNameEmpty,
		})
	} else if !identPattern.MatchString(def.Name) {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("invalid definition name %q", def.Name),
			Code:    ErrInvalidName,
		})
	}

	// E101: purpose is required
	if strings.TrimSpace(def.Purpose) == "" {
		errs = append(errs, ValidationError{
			Field:   "purpose",
			Message: "purpose is required and must be non-empty",
			Code:    ErrDefPurposeEmpty,
		})
	}

	// E102: at least one action required
	if len(def.Actions) == 0 {
		errs = append(errs, ValidationError{
			Field:   "actions",
			Message: "at least one action is required",
			Code:    ErrDefNoActions,
		})
	}

	actionNames := make(map[string]bool)
	for i, action := range def.Actions {
		field := fmt.Sprintf("actions[%d].name", i)
		switch {
		case action.Name == "":
			errs = append(errs, ValidationError{Field: field, Message: "action name is required", Code: ErrDefNameEmpty})
		case !identPattern.MatchString(action.Name):
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("invalid action name %q", action.Name), Code: ErrInvalidName})
		case actionNames[action.Name]:
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("duplicate action name: %q", action.Name), Code: ErrDuplicateName})
		}
		actionNames[action.Name] = true

		argNames := make(map[string]bool)
		for j, arg := range action.Args {
			if argNames[arg.Name] {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("actions[%d].args[%d].name", i, j),
					Message: fmt.Sprintf("duplicate arg name: %q", arg.Name),
					Code:    ErrDuplicateName,
				})
			}
			argNames[arg.Name] = true

			errs = append(errs, validateFieldType(arg.Type, fmt.Sprintf("actions[%d].args[%d].type", i, j), arg.Name)...)
		}
	}

	return errs
}

// validateFieldType validates a type string, returning errors for invalid types and floats.
func validateFieldType(fieldType, fieldPath, fieldName string) []ValidationError {
	// E106: float forbidden, reported instead of the generic E104
	if isFloatType(fieldType) {
		return []ValidationError{{
			Field:   fieldPath,
			Message: fmt.Sprintf("float type forbidden for field %q, use int instead", fieldName),
			Code:    ErrFloatTypeForbidden,
		}}
	}

	// E104: check for valid type
	if !ir.ValidTypes[fieldType] {
		return []ValidationError{{
			Field:   fieldPath,
			Message: fmt.Sprintf("invalid type %q for field %q", fieldType, fieldName),
			Code:    ErrInvalidFieldType,
		}}
	}

	return nil
}

// isFloatType checks if a type string represents a float type.
func isFloatType(t string) bool {
	floatTypes := map[string]bool{
		"float":   true,
		"float32": true,
		"float64": true,
		"number":  true,
		"double":  true,
	}
	return floatTypes[t]
}

// selectorSegmentPattern matches one segment of a selector key.
var selectorSegmentPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_-]*$`)

// statePathPattern matches a dotted path of one or more segments.
var statePathPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+(\.[a-zA-Z0-9_-]+)*$`)

func validateSelectorSpec(spec *ir.SelectorSpec) []ValidationError {
	var errs []ValidationError
	ref := spec.Namespace + "." + spec.Name

	// E120: namespace.name must be a valid X.Y key
	if !selectorSegmentPattern.MatchString(spec.Namespace) || !selectorSegmentPattern.MatchString(spec.Name) {
		errs = append(errs, ValidationError{
			Field:   "selector",
			Message: fmt.Sprintf("invalid selector key %q, expected format \"namespace.name\"", ref),
			Code:    ErrInvalidSelectorRef,
		})
	}

	// E121: at least one field
	if len(spec.Fields) == 0 {
		errs = append(errs, ValidationError{
			Field:   fmt.Sprintf("selector.%s.fields", ref),
			Message: "at least one field is required",
			Code:    ErrSelectorNoFields,
		})
	}

	// E122: each path must be a dotted path
	for _, out := range sortedKeys(spec.Fields) {
		path := spec.Fields[out]
		if out == "" || !statePathPattern.MatchString(path) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("selector.%s.fields.%s", ref, out),
				Message: fmt.Sprintf("invalid state path %q", path),
				Code:    ErrInvalidStatePath,
			})
		}
	}

	return errs
}

func validateSelectorSpecs(specs []ir.SelectorSpec) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool)
	for i := range specs {
		errs = append(errs, validateSelectorSpec(&specs[i])...)

		// E123: duplicate namespace.name
		ref := specs[i].Namespace + "." + specs[i].Name
		if seen[ref] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("selector.%s", ref),
				Message: fmt.Sprintf("duplicate selector %q", ref),
				Code:    ErrDuplicateSelector,
			})
		}
		seen[ref] = true
	}
	return errs
}
