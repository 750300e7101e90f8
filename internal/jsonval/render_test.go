package jsonval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPreview_Empty(t *testing.T) {
	n := BuildPreview(nil, true)
	assert.Equal(t, PreviewEmpty, n.Kind)
}

func TestBuildPreview_BareScalar(t *testing.T) {
	n := BuildPreview(StringScalar("hello"), true)
	assert.Equal(t, PreviewLeaf, n.Kind)
	assert.Equal(t, "hello", n.Text)
	assert.True(t, n.Editable)
	assert.Equal(t, RootPath, n.Path)
}

func TestBuildPreview_InlineDisabled(t *testing.T) {
	n := BuildPreview(mustParse(t, `["a","b"]`), false)
	for _, child := range n.Children {
		assert.False(t, child.Editable)
		assert.Empty(t, child.Path)
	}
}

func TestBuildPreview_LeafPaths(t *testing.T) {
	n := BuildPreview(mustParse(t, `{"a": "x", "items": ["p", "q"]}`), true)
	require.Equal(t, PreviewObject, n.Kind)
	require.Len(t, n.Children, 2)

	assert.Equal(t, "a", n.Children[0].Path)
	assert.True(t, n.Children[0].Editable)

	items := n.Children[1]
	require.Equal(t, PreviewArray, items.Kind)
	require.Len(t, items.Children, 2)
	assert.Equal(t, "items[0]", items.Children[0].Path)
	assert.Equal(t, "items[1]", items.Children[1].Path)
}

func TestBuildPreview_ArrayCap(t *testing.T) {
	n := BuildPreview(mustParse(t, `[1,2,3,4,5,6,7,8]`), true)
	require.Equal(t, PreviewArray, n.Kind)
	assert.Len(t, n.Children, 5)
	assert.Equal(t, 3, n.Hidden)
	assert.Equal(t, "+3 more", HiddenLabel(n))
}

func TestBuildPreview_ObjectCap(t *testing.T) {
	n := BuildPreview(mustParse(t, `{"a":1,"b":2,"c":3,"d":4,"e":5,"f":6,"g":7,"h":8,"i":9,"j":10}`), true)
	require.Equal(t, PreviewObject, n.Kind)
	assert.Len(t, n.Children, 8)
	assert.Equal(t, 2, n.Hidden)
}

func TestBuildPreview_BooleanLeafNotEditable(t *testing.T) {
	n := BuildPreview(mustParse(t, `{"flag": true, "note": "x"}`), true)
	assert.False(t, n.Children[0].Editable, "bool leaves edit through full-text mode only")
	assert.True(t, n.Children[1].Editable)
}

func TestBuildPreview_DepthFallback(t *testing.T) {
	// Array of objects renders one extra structural level; the array inside
	// those objects collapses to compact JSON text.
	n := BuildPreview(mustParse(t, `[{"name": "a", "tags": ["x", "y"]}]`), true)
	require.Equal(t, PreviewArray, n.Kind)

	elem := n.Children[0]
	require.Equal(t, PreviewObject, elem.Kind)
	require.Len(t, elem.Children, 2)

	assert.Equal(t, PreviewLeaf, elem.Children[0].Kind)
	assert.Equal(t, "[0].name", elem.Children[0].Path)

	tags := elem.Children[1]
	assert.Equal(t, PreviewText, tags.Kind)
	assert.Equal(t, `["x","y"]`, tags.Text)
}

func TestBuildPreview_ObjectWithArrayMember(t *testing.T) {
	n := BuildPreview(mustParse(t, `{"patterns": [{"q": "top sellers"}]}`), true)
	patterns := n.Children[0]
	require.Equal(t, PreviewArray, patterns.Kind)
	// Third container level collapses.
	assert.Equal(t, PreviewText, patterns.Children[0].Kind)
	assert.Equal(t, `{"q":"top sellers"}`, patterns.Children[0].Text)
}
