package jsonval

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Object(t *testing.T) {
	v, err := Parse(`{"a": "x", "b": [1,2,3]}`)
	require.NoError(t, err)

	obj, ok := v.(*Object)
	require.True(t, ok, "expected object, got %T", v)
	assert.Equal(t, []string{"a", "b"}, obj.Keys())

	a, ok := obj.Get("a")
	require.True(t, ok)
	assert.Equal(t, "x", a.(Scalar).Text())

	b, ok := obj.Get("b")
	require.True(t, ok)
	require.Len(t, b.(Array), 3)
}

func TestParse_KeyOrderPreserved(t *testing.T) {
	v, err := Parse(`{"zulu": 1, "alpha": 2, "mike": 3}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"zulu", "alpha", "mike"}, v.(*Object).Keys())
}

func TestParse_Scalars(t *testing.T) {
	tests := []struct {
		input string
		kind  Kind
		text  string
	}{
		{`"hello"`, KindString, "hello"},
		{`42`, KindNumber, "42"},
		{`3.14`, KindNumber, "3.14"},
		{`true`, KindBool, "true"},
		{`false`, KindBool, "false"},
		{`null`, KindNull, "null"},
	}
	for _, tt := range tests {
		v, err := Parse(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		s, ok := v.(Scalar)
		require.True(t, ok, "input %q: expected scalar, got %T", tt.input, v)
		assert.Equal(t, tt.kind, s.Kind(), "input %q", tt.input)
		assert.Equal(t, tt.text, s.Text(), "input %q", tt.input)
	}
}

func TestParse_CommaFallback(t *testing.T) {
	v, err := Parse("tag1, tag2, tag3")
	require.NoError(t, err)

	arr, ok := v.(Array)
	require.True(t, ok, "expected array, got %T", v)
	require.Len(t, arr, 3)
	assert.Equal(t, "tag1", arr[0].(Scalar).Text())
	assert.Equal(t, "tag2", arr[1].(Scalar).Text())
	assert.Equal(t, "tag3", arr[2].(Scalar).Text())
}

func TestParse_CommaFallback_TwoSegments(t *testing.T) {
	v, err := Parse("not json, but text")
	require.NoError(t, err)

	arr, ok := v.(Array)
	require.True(t, ok)
	require.Len(t, arr, 2)
	assert.Equal(t, "not json", arr[0].(Scalar).Text())
	assert.Equal(t, "but text", arr[1].(Scalar).Text())
}

func TestParse_CommaFallback_DropsEmptySegments(t *testing.T) {
	v, err := Parse("a, , b,")
	require.NoError(t, err)
	require.Len(t, v.(Array), 2)
}

func TestParse_Blank(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t"} {
		v, err := Parse(input)
		assert.NoError(t, err, "input %q", input)
		assert.Nil(t, v, "input %q", input)
	}
}

func TestParse_InvalidFormat(t *testing.T) {
	v, err := Parse("not json and no comma")
	assert.Nil(t, v)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestParse_TrailingData(t *testing.T) {
	// Two JSON values in a row is not one stored value, but the text
	// contains no comma either, so it fails outright.
	_, err := Parse(`{"a":1} {"b":2}`)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestSerialize_RoundTrip(t *testing.T) {
	inputs := []string{
		`{"a": "x", "b": [1,2,3]}`,
		`[1, 2.5, "three", null, true]`,
		`{"nested": {"deep": [{"k": "v"}]}}`,
		`"bare string"`,
		`42`,
	}
	for _, input := range inputs {
		v, err := Parse(input)
		require.NoError(t, err, "input %q", input)

		out := Serialize(v)
		var got, want any
		require.NoError(t, json.Unmarshal([]byte(out), &got), "input %q", input)
		require.NoError(t, json.Unmarshal([]byte(input), &want), "input %q", input)
		assert.Equal(t, want, got, "round trip for %q", input)
	}
}

func TestSerialize_PrettyPrint(t *testing.T) {
	v, err := Parse(`{"a": "y", "b": [1,2,3]}`)
	require.NoError(t, err)

	want := "{\n  \"a\": \"y\",\n  \"b\": [\n    1,\n    2,\n    3\n  ]\n}"
	assert.Equal(t, want, Serialize(v))
}

func TestSerialize_BareScalarKeepsQuotes(t *testing.T) {
	assert.Equal(t, `"hello"`, Serialize(StringScalar("hello")))
	assert.Equal(t, `42`, Serialize(NumberScalar(json.Number("42"))))
}

func TestSerialize_Nil(t *testing.T) {
	assert.Equal(t, "", Serialize(nil))
}

func TestSerialize_FormatsCommaList(t *testing.T) {
	v, err := Parse("tag1, tag2, tag3")
	require.NoError(t, err)
	assert.Equal(t, "[\n  \"tag1\",\n  \"tag2\",\n  \"tag3\"\n]", Serialize(v))
}

func TestParse_NumberPrecisionPreserved(t *testing.T) {
	// json.Number keeps the source text, so big integers survive.
	v, err := Parse(`{"id": 9007199254740993}`)
	require.NoError(t, err)
	id, _ := v.(*Object).Get("id")
	assert.Equal(t, "9007199254740993", id.(Scalar).Text())
	assert.Contains(t, Serialize(v), "9007199254740993")
}
