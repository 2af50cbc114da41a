package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/statebind/internal/ir"
)

func TestCompileSelectors(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		selector: {
			cart: summary: fields: {
				total: "cart.total"
				count: "cart.count"
			}
			cart: items: fields: list: "cart.items"
			user: name: fields: userName: "user.profile.name"
		}
	`)
	require.NoError(t, v.Err())

	specs, err := CompileSelectors(v.LookupPath(cue.ParsePath("selector")))
	require.NoError(t, err)

	assert.Equal(t, []ir.SelectorSpec{
		{Namespace: "cart", Name: "summary", Fields: map[string]string{"total": "cart.total", "count": "cart.count"}},
		{Namespace: "cart", Name: "items", Fields: map[string]string{"list": "cart.items"}},
		{Namespace: "user", Name: "name", Fields: map[string]string{"userName": "user.profile.name"}},
	}, specs)
}

func TestCompileSelectorsMissingFields(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		selector: cart: total: {}
	`)
	require.NoError(t, v.Err())

	_, err := CompileSelectors(v.LookupPath(cue.ParsePath("selector")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "selector.cart.total.fields")
	assert.Contains(t, err.Error(), "selector fields are required")
}

func TestCompileSelectorsNonStringPath(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		selector: cart: total: fields: total: 3
	`)
	require.NoError(t, v.Err())

	_, err := CompileSelectors(v.LookupPath(cue.ParsePath("selector")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state path must be a string")
}

func TestCompileSelectorsNotAStruct(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`selector: "nope"`)
	require.NoError(t, v.Err())

	_, err := CompileSelectors(v.LookupPath(cue.ParsePath("selector")))
	require.Error(t, err)
}
