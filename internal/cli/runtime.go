package cli

import (
	"errors"
	"fmt"

	"github.com/roach88/statebind/internal/actions"
	"github.com/roach88/statebind/internal/ir"
	"github.com/roach88/statebind/internal/registry"
	"github.com/roach88/statebind/internal/selector"
)

// runtime is the registry state a command works against: bound actions
// and the selector table, both registered.
type runtime struct {
	registry  *registry.Registry
	selectors ir.SelectorTable
	actions   ir.ActionTable
}

// buildRuntime registers selectors and binds every loaded definition to st.
func buildRuntime(result *LoadResult, st actions.Store) (*runtime, error) {
	reg := registry.New()

	selectors, err := selector.Build(result.Selectors)
	if err != nil {
		return nil, err
	}
	reg.SetSelectors(selectors)

	table, err := actions.GetActions(reg, result.Defs, st, nil)
	if err != nil {
		return nil, err
	}

	return &runtime{registry: reg, selectors: selectors, actions: table}, nil
}

// errNoDispatch is returned by actions bound for resolve, which only
// lists actions and never calls them.
var errNoDispatch = errors.New("resolve does not dispatch actions")

type noDispatchStore struct{}

func (noDispatchStore) Dispatch(action ir.Action) error {
	return fmt.Errorf("%s: %w", action.Type, errNoDispatch)
}
