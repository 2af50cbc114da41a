package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/statebind/internal/ir"
)

func compileDef(t *testing.T, src, path string) (*ir.ActionDef, error) {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	require.NoError(t, v.Err())
	return CompileDefinition(v.LookupPath(cue.ParsePath(path)))
}

func TestCompileDefinitionBasic(t *testing.T) {
	def, err := compileDef(t, `
		def: cart: {
			name:    "Cart"
			purpose: "Manages shopping cart"

			action: addItem: args: {
				item_id:  string
				quantity: int
			}
			action: clear: {}
		}
	`, "def.cart")
	require.NoError(t, err)

	assert.Equal(t, "Cart", def.Name)
	assert.Equal(t, "Manages shopping cart", def.Purpose)
	require.Len(t, def.Actions, 2)
	assert.Equal(t, "addItem", def.Actions[0].Name)
	assert.Equal(t, []ir.NamedArg{
		{Name: "item_id", Type: "string"},
		{Name: "quantity", Type: "int"},
	}, def.Actions[0].Args)
	assert.Equal(t, "clear", def.Actions[1].Name)
	assert.Empty(t, def.Actions[1].Args)
}

func TestCompileDefinitionNameDefaultsToLabel(t *testing.T) {
	def, err := compileDef(t, `
		def: User: {
			purpose: "User profile"
			action: rename: args: name: string
		}
	`, "def.User")
	require.NoError(t, err)
	assert.Equal(t, "User", def.Name)
}

func TestCompileDefinitionPreservesArgOrder(t *testing.T) {
	def, err := compileDef(t, `
		def: Order: {
			purpose: "Orders"
			action: place: args: {
				zeta:  string
				alpha: int
				mid:   bool
				list:  [...string]
				obj:   {...}
			}
		}
	`, "def.Order")
	require.NoError(t, err)

	var names, types []string
	for _, arg := range def.Actions[0].Args {
		names = append(names, arg.Name)
		types = append(types, arg.Type)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid", "list", "obj"}, names)
	assert.Equal(t, []string{"string", "int", "bool", "array", "object"}, types)
}

func TestCompileDefinitionMissingPurpose(t *testing.T) {
	_, err := compileDef(t, `
		def: Bad: {
			action: foo: {}
		}
	`, "def.Bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "purpose")
	assert.Contains(t, err.Error(), "required")

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "purpose", compileErr.Field)
}

func TestCompileDefinitionMissingActions(t *testing.T) {
	_, err := compileDef(t, `
		def: Empty: {
			purpose: "Does nothing"
		}
	`, "def.Empty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one action is required")
}

func TestCompileDefinitionFloatForbidden(t *testing.T) {
	testCases := []struct {
		name string
		typ  string
	}{
		{"float", "float"},
		{"number", "number"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := compileDef(t, `
				def: Price: {
					purpose: "Prices"
					action: set: args: amount: `+tc.typ+`
				}
			`, "def.Price")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "float types are forbidden")
		})
	}
}

func TestCompileDefinitionNonStringPurpose(t *testing.T) {
	_, err := compileDef(t, `
		def: Bad: {
			purpose: 42
			action: foo: {}
		}
	`, "def.Bad")
	require.Error(t, err)
}

func TestCompileDefinitionErrorValue(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`x: 1 & 2`)
	_, err := CompileDefinition(v.LookupPath(cue.ParsePath("x")))
	require.Error(t, err)
}

func TestCompileErrorFormat(t *testing.T) {
	err := &CompileError{Field: "purpose", Message: "purpose is required"}
	assert.Equal(t, "purpose: purpose is required", err.Error())
}
