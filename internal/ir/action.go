package ir

import (
	"fmt"
	"slices"
	"strings"
)

// ValidTypes defines the allowed type strings for action args.
// NO "float" - floats are forbidden.
var ValidTypes = map[string]bool{
	"string": true,
	"int":    true,
	"bool":   true,
	"array":  true,
	"object": true,
}

// ActionDef is a declarative action definition: a named group of action
// signatures from which action creators are generated.
type ActionDef struct {
	Name    string      `json:"name"`
	Purpose string      `json:"purpose,omitempty"`
	Actions []ActionSig `json:"actions"`
}

// ActionSig describes one action: its name and ordered, typed arguments.
// Arg order defines the positional order accepted by the action creator.
type ActionSig struct {
	Name string     `json:"name"`
	Args []NamedArg `json:"args"`
}

// NamedArg represents a named argument with type.
type NamedArg struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ValidationError represents a validation error with field path and message.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the definition against schema rules.
// Returns all errors (not fail-fast).
func (d *ActionDef) Validate() []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "definition name is required"})
	}
	if len(d.Actions) == 0 {
		errs = append(errs, ValidationError{Field: "actions", Message: "at least one action is required"})
	}

	seen := make(map[string]bool)
	for i, a := range d.Actions {
		if a.Name == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("actions[%d].name", i),
				Message: "action name is required",
			})
		}
		if seen[a.Name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("actions[%d].name", i),
				Message: fmt.Sprintf("duplicate action name: %q", a.Name),
			})
		}
		seen[a.Name] = true

		seenArgs := make(map[string]bool)
		for j, arg := range a.Args {
			if seenArgs[arg.Name] {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("actions[%d].args[%d].name", i, j),
					Message: fmt.Sprintf("duplicate arg name: %q", arg.Name),
				})
			}
			seenArgs[arg.Name] = true
			if !ValidTypes[arg.Type] {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("actions[%d].args[%d].type", i, j),
					Message: fmt.Sprintf("invalid type %q for arg %q, must be one of: string, int, bool, array, object", arg.Type, arg.Name),
				})
			}
		}
	}

	return errs
}

// ActionRef is a typed reference to a defined action.
// Format: "Def.action".
type ActionRef string

// NewActionRef joins a definition name and an action name.
func NewActionRef(def, action string) ActionRef {
	return ActionRef(def + "." + action)
}

// Action is the object an action creator builds and a store receives.
type Action struct {
	Type    ActionRef `json:"type"`
	Payload Object    `json:"payload"`
}

// ActionCreator builds an Action from positional arguments. Pure.
type ActionCreator func(args ...Value) (Action, error)

// ActionCreators maps action name to its creator.
type ActionCreators map[string]ActionCreator

// BoundAction builds an Action and immediately dispatches it.
type BoundAction func(args ...Value) error

// ActionGroup maps action name to its bound action.
type ActionGroup map[string]BoundAction

// Names returns the group's action names in sorted order.
func (g ActionGroup) Names() []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ActionTable maps definition key to its bound action group.
type ActionTable map[string]ActionGroup

// Keys returns the table's definition keys in sorted order.
func (t ActionTable) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Lookup returns the bound action for key and name.
func (t ActionTable) Lookup(key, name string) (BoundAction, bool) {
	group, ok := t[key]
	if !ok {
		return nil, false
	}
	fn, ok := group[name]
	return fn, ok
}
