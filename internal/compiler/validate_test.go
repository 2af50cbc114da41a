package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/statebind/internal/ir"
)

// =============================================================================
// ActionDef Validation Tests
// =============================================================================

func validDef() *ir.ActionDef {
	return &ir.ActionDef{
		Name:    "Cart",
		Purpose: "Manages shopping cart",
		Actions: []ir.ActionSig{
			{Name: "addItem", Args: []ir.NamedArg{{Name: "item_id", Type: "string"}}},
		},
	}
}

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidateActionDefValid(t *testing.T) {
	errs := Validate(validDef())
	assert.Empty(t, errs, "valid definition should have no errors")
}

func TestValidateActionDefByValue(t *testing.T) {
	errs := Validate(*validDef())
	assert.Empty(t, errs)
}

func TestValidateActionDefMissingPurpose(t *testing.T) {
	def := validDef()
	def.Purpose = "  "

	errs := Validate(def)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrDefPurposeEmpty, errs[0].Code)
	assert.Equal(t, "purpose", errs[0].Field)
}

func TestValidateActionDefNoActions(t *testing.T) {
	def := validDef()
	def.Actions = nil

	errs := Validate(def)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrDefNoActions, errs[0].Code)
}

func TestValidateActionDefNames(t *testing.T) {
	testCases := []struct {
		name     string
		mutate   func(d *ir.ActionDef)
		wantCode string
		wantPath string
	}{
		{"empty def name", func(d *ir.ActionDef) { d.Name = "" }, ErrDefNameEmpty, "name"},
		{"dotted def name", func(d *ir.ActionDef) { d.Name = "Cart.v2" }, ErrInvalidName, "name"},
		{"empty action name", func(d *ir.ActionDef) { d.Actions[0].Name = "" }, ErrDefNameEmpty, "actions[0].name"},
		{"invalid action name", func(d *ir.ActionDef) { d.Actions[0].Name = "add item" }, ErrInvalidName, "actions[0].name"},
		{
			"duplicate action",
			func(d *ir.ActionDef) { d.Actions = append(d.Actions, ir.ActionSig{Name: "addItem"}) },
			ErrDuplicateName, "actions[1].name",
		},
		{
			"duplicate arg",
			func(d *ir.ActionDef) {
				d.Actions[0].Args = append(d.Actions[0].Args, ir.NamedArg{Name: "item_id", Type: "int"})
			},
			ErrDuplicateName, "actions[0].args[1].name",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			def := validDef()
			tc.mutate(def)

			errs := Validate(def)
			require.Len(t, errs, 1)
			assert.Equal(t, tc.wantCode, errs[0].Code)
			assert.Equal(t, tc.wantPath, errs[0].Field)
		})
	}
}

func TestValidateActionDefArgTypes(t *testing.T) {
	testCases := []struct {
		typ      string
		wantCode string
	}{
		{"string", ""},
		{"int", ""},
		{"bool", ""},
		{"array", ""},
		{"object", ""},
		{"float", ErrFloatTypeForbidden},
		{"float64", ErrFloatTypeForbidden},
		{"number", ErrFloatTypeForbidden},
		{"date", ErrInvalidFieldType},
		{"", ErrInvalidFieldType},
	}

	for _, tc := range testCases {
		t.Run(tc.typ, func(t *testing.T) {
			def := validDef()
			def.Actions[0].Args[0].Type = tc.typ

			errs := Validate(def)
			if tc.wantCode == "" {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Equal(t, tc.wantCode, errs[0].Code)
			assert.Equal(t, "actions[0].args[0].type", errs[0].Field)
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	def := &ir.ActionDef{
		Name: "",
		Actions: []ir.ActionSig{
			{Name: "a", Args: []ir.NamedArg{{Name: "x", Type: "float"}}},
			{Name: "a"},
		},
	}

	errs := Validate(def)
	assert.Equal(t, []string{
		ErrDefNameEmpty,
		ErrDefPurposeEmpty,
		ErrFloatTypeForbidden,
		ErrDuplicateName,
	}, codes(errs))
}

// =============================================================================
// SelectorSpec Validation Tests
// =============================================================================

func TestValidateSelectorSpecValid(t *testing.T) {
	spec := ir.SelectorSpec{Namespace: "cart", Name: "summary", Fields: map[string]string{
		"total": "cart.total",
		"first": "cart.items",
	}}
	assert.Empty(t, Validate(spec))
	assert.Empty(t, Validate(&spec))
}

func TestValidateSelectorSpecErrors(t *testing.T) {
	testCases := []struct {
		name      string
		spec      ir.SelectorSpec
		wantCodes []string
	}{
		{
			name:      "dotted namespace",
			spec:      ir.SelectorSpec{Namespace: "a.b", Name: "c", Fields: map[string]string{"x": "a"}},
			wantCodes: []string{ErrInvalidSelectorRef},
		},
		{
			name:      "empty name",
			spec:      ir.SelectorSpec{Namespace: "cart", Fields: map[string]string{"x": "a"}},
			wantCodes: []string{ErrInvalidSelectorRef},
		},
		{
			name:      "no fields",
			spec:      ir.SelectorSpec{Namespace: "cart", Name: "total"},
			wantCodes: []string{ErrSelectorNoFields},
		},
		{
			name: "bad paths",
			spec: ir.SelectorSpec{Namespace: "cart", Name: "total", Fields: map[string]string{
				"a": "",
				"b": "cart..total",
				"c": ".total",
			}},
			wantCodes: []string{ErrInvalidStatePath, ErrInvalidStatePath, ErrInvalidStatePath},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantCodes, codes(Validate(tc.spec)))
		})
	}
}

func TestValidateSelectorSpecsDuplicate(t *testing.T) {
	specs := []ir.SelectorSpec{
		{Namespace: "cart", Name: "total", Fields: map[string]string{"t": "cart.total"}},
		{Namespace: "cart", Name: "count", Fields: map[string]string{"c": "cart.count"}},
		{Namespace: "cart", Name: "total", Fields: map[string]string{"t": "cart.total"}},
	}

	errs := Validate(specs)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrDuplicateSelector, errs[0].Code)
	assert.Equal(t, "selector.cart.total", errs[0].Field)
}

func TestValidateUnsupportedType(t *testing.T) {
	errs := Validate("not IR")
	require.Len(t, errs, 1)
	assert.Equal(t, ErrUnsupportedIRType, errs[0].Code)
	assert.Contains(t, errs[0].Message, "string")
}

func TestValidationErrorFormat(t *testing.T) {
	err := ValidationError{Field: "purpose", Message: "purpose is required", Code: ErrDefPurposeEmpty}
	assert.Equal(t, "[E101] purpose: purpose is required", err.Error())
}

func TestValidationErrorFormatWithLine(t *testing.T) {
	err := ValidationError{Field: "purpose", Message: "purpose is required", Code: ErrDefPurposeEmpty, Line: 7}
	assert.Equal(t, "[E101] line 7: purpose: purpose is required", err.Error())
}

func TestIsFloatType(t *testing.T) {
	for _, typ := range []string{"float", "float32", "float64", "number", "double"} {
		assert.True(t, isFloatType(typ), typ)
	}
	for _, typ := range []string{"int", "string", ""} {
		assert.False(t, isFloatType(typ), typ)
	}
}
