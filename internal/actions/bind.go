package actions

import (
	"errors"
	"fmt"

	"github.com/roach88/statebind/internal/ir"
)

// Store is the part of the application store the bound actions need.
// Whatever else the store offers is passed through opaquely as
// BindContext.Store.
type Store interface {
	Dispatch(action ir.Action) error
}

// DispatchFunc sends an action to the store.
type DispatchFunc func(action ir.Action) error

// Params carries caller-supplied context into binding.
//
// Params never override the fixed BindContext fields. An entry named
// "actionCreators", "def", "dispatch", "store" or "key" is shadowed by the
// corresponding field; Lookup always returns the fixed value.
type Params map[string]any

// Fixed context names, resolved before Params.
const (
	ParamActionCreators = "actionCreators"
	ParamDef            = "def"
	ParamDispatch       = "dispatch"
	ParamStore          = "store"
	ParamKey            = "key"
)

// BindContext is everything Bind receives for one definition.
type BindContext struct {
	ActionCreators ir.ActionCreators
	Def            ir.ActionDef
	Dispatch       DispatchFunc
	Store          Store
	Key            string
	Params         Params
}

// Lookup resolves a context value by name. Fixed fields win over Params.
func (c BindContext) Lookup(name string) (any, bool) {
	switch name {
	case ParamActionCreators:
		return c.ActionCreators, true
	case ParamDef:
		return c.Def, true
	case ParamDispatch:
		return c.Dispatch, true
	case ParamStore:
		return c.Store, true
	case ParamKey:
		return c.Key, true
	}
	v, ok := c.Params[name]
	return v, ok
}

// Bind wraps every creator in ctx.ActionCreators. Calling a bound action
// builds the action and dispatches it; that is its only effect.
//
// Inputs are read through Lookup, so a Params entry can never replace
// the dispatch function or the creators.
func Bind(ctx BindContext) (ir.ActionGroup, error) {
	v, _ := ctx.Lookup(ParamDispatch)
	dispatch, _ := v.(DispatchFunc)
	if dispatch == nil {
		return nil, errors.New("bind: dispatch is required")
	}
	v, _ = ctx.Lookup(ParamKey)
	key, _ := v.(string)
	v, _ = ctx.Lookup(ParamActionCreators)
	creators, _ := v.(ir.ActionCreators)
	if creators == nil {
		return nil, fmt.Errorf("bind %q: action creators are required", key)
	}

	group := make(ir.ActionGroup, len(creators))
	for name, create := range creators {
		if create == nil {
			return nil, fmt.Errorf("bind %q: action creator %q is nil", key, name)
		}
		group[name] = bindOne(create, dispatch)
	}
	return group, nil
}

func bindOne(create ir.ActionCreator, dispatch DispatchFunc) ir.BoundAction {
	return func(args ...ir.Value) error {
		action, err := create(args...)
		if err != nil {
			return err
		}
		return dispatch(action)
	}
}
