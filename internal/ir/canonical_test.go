package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical(t *testing.T) {
	testCases := []struct {
		name string
		in   Value
		want string
	}{
		{"string", String("hello"), `"hello"`},
		{"int", Int(-42), `-42`},
		{"bool", Bool(true), `true`},
		{"empty object", Object{}, `{}`},
		{"sorted keys", Object{"b": Int(1), "a": Int(2)}, `{"a":2,"b":1}`},
		{"nested", Object{"l": List{Int(1), Object{"k": String("v")}}}, `{"l":[1,{"k":"v"}]}`},
		{"no html escaping", String("<a&b>"), `"<a&b>"`},
		{"control chars", String("a\nb\u0001"), `"a\nb\u0001"`},
		{"quote and backslash", String(`"\`), `"\"\\"`},
		{"line separator kept literal", String("\u2028"), "\"\u2028\""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MarshalCanonical(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(got))
		})
	}
}

func TestMarshalCanonicalNFC(t *testing.T) {
	// "e" + combining acute accent normalizes to U+00E9.
	got, err := MarshalCanonical(String("e\u0301"))
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(got))
}

func TestMarshalCanonicalRejectsNull(t *testing.T) {
	_, err := MarshalCanonical(Object{"a": Null{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "null is forbidden")
}
