package jsonval

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, text string) Value {
	t.Helper()
	v, err := Parse(text)
	require.NoError(t, err)
	return v
}

func TestApplyEdit_ObjectKey(t *testing.T) {
	root := mustParse(t, `{"a": "x", "b": [1,2,3]}`)

	next, err := ApplyEdit(root, "a", StringScalar("y"))
	require.NoError(t, err)

	want := "{\n  \"a\": \"y\",\n  \"b\": [\n    1,\n    2,\n    3\n  ]\n}"
	assert.Equal(t, want, Serialize(next))

	// Original tree untouched.
	a, _ := root.(*Object).Get("a")
	assert.Equal(t, "x", a.(Scalar).Text())
}

func TestApplyEdit_ArrayIndex(t *testing.T) {
	root := mustParse(t, `["a","b","c"]`)

	next, err := ApplyEdit(root, "[1]", StringScalar("Z"))
	require.NoError(t, err)

	arr := next.(Array)
	assert.Equal(t, "a", arr[0].(Scalar).Text())
	assert.Equal(t, "Z", arr[1].(Scalar).Text())
	assert.Equal(t, "c", arr[2].(Scalar).Text())

	assert.Equal(t, "b", root.(Array)[1].(Scalar).Text())
}

func TestApplyEdit_NestedPath(t *testing.T) {
	root := mustParse(t, `{"items": [{"name": "first"}, {"name": "second"}]}`)

	next, err := ApplyEdit(root, "items[1].name", StringScalar("renamed"))
	require.NoError(t, err)

	items, _ := next.(*Object).Get("items")
	name, _ := items.(Array)[1].(*Object).Get("name")
	assert.Equal(t, "renamed", name.(Scalar).Text())
}

func TestApplyEdit_RootScalar(t *testing.T) {
	root := mustParse(t, `"old"`)

	next, err := ApplyEdit(root, RootPath, StringScalar("new"))
	require.NoError(t, err)
	assert.Equal(t, `"new"`, Serialize(next))
}

func TestApplyEdit_NumberLeaf(t *testing.T) {
	root := mustParse(t, `{"count": 1}`)

	next, err := ApplyEdit(root, "count", NumberScalar(json.Number("99")))
	require.NoError(t, err)
	c, _ := next.(*Object).Get("count")
	assert.Equal(t, KindNumber, c.(Scalar).Kind())
	assert.Equal(t, "99", c.(Scalar).Text())
}

func TestApplyEdit_OutOfRangeIndexIsNoOp(t *testing.T) {
	root := mustParse(t, `["a","b"]`)

	next, err := ApplyEdit(root, "[5]", StringScalar("x"))
	require.Error(t, err)
	var pre *PathResolutionError
	assert.ErrorAs(t, err, &pre)

	// The pre-edit tree comes back unchanged; indices are never
	// auto-extended.
	assert.Equal(t, Serialize(root), Serialize(next))
	assert.Len(t, next.(Array), 2)
}

func TestApplyEdit_UnknownKeyIsNoOp(t *testing.T) {
	root := mustParse(t, `{"a": 1}`)

	next, err := ApplyEdit(root, "missing", StringScalar("x"))
	require.Error(t, err)
	assert.Equal(t, 1, next.(*Object).Len(), "key count must not change")
}

func TestApplyEdit_ShapeMismatchIsNoOp(t *testing.T) {
	root := mustParse(t, `{"a": "scalar"}`)

	// Descending into a scalar as if it were an array.
	next, err := ApplyEdit(root, "a[0]", StringScalar("x"))
	require.Error(t, err)
	var pre *PathResolutionError
	require.ErrorAs(t, err, &pre)
	assert.Equal(t, Serialize(root), Serialize(next))
}

func TestApplyEdit_MalformedPathIsNoOp(t *testing.T) {
	root := mustParse(t, `{"a": 1}`)

	next, err := ApplyEdit(root, "a..b", StringScalar("x"))
	require.Error(t, err)
	assert.Equal(t, Serialize(root), Serialize(next))
}

func TestApplyEdit_PreservesOrder(t *testing.T) {
	root := mustParse(t, `{"z": 1, "a": 2, "m": 3}`)

	next, err := ApplyEdit(root, "a", NumberScalar(json.Number("20")))
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "m"}, next.(*Object).Keys())
}

func TestLookup(t *testing.T) {
	root := mustParse(t, `{"items": [{"name": "first"}]}`)

	v, err := Lookup(root, "items[0].name")
	require.NoError(t, err)
	assert.Equal(t, "first", v.(Scalar).Text())

	v, err = Lookup(root, RootPath)
	require.NoError(t, err)
	assert.Equal(t, KindObject, v.Kind())

	_, err = Lookup(root, "items[3]")
	var pre *PathResolutionError
	assert.ErrorAs(t, err, &pre)
}
