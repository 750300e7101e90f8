package jsonval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath_Forms(t *testing.T) {
	tests := []struct {
		path string
		want []Segment
	}{
		{"key", []Segment{{Kind: SegmentKey, Key: "key"}}},
		{"[0]", []Segment{{Kind: SegmentIndex, Index: 0}}},
		{"key[2]", []Segment{
			{Kind: SegmentKey, Key: "key"},
			{Kind: SegmentIndex, Index: 2},
		}},
		{"[1].name", []Segment{
			{Kind: SegmentIndex, Index: 1},
			{Kind: SegmentKey, Key: "name"},
		}},
		{"a.b[2].c", []Segment{
			{Kind: SegmentKey, Key: "a"},
			{Kind: SegmentKey, Key: "b"},
			{Kind: SegmentIndex, Index: 2},
			{Kind: SegmentKey, Key: "c"},
		}},
		{"key with spaces", []Segment{{Kind: SegmentKey, Key: "key with spaces"}}},
		{"[10][3]", []Segment{
			{Kind: SegmentIndex, Index: 10},
			{Kind: SegmentIndex, Index: 3},
		}},
	}
	for _, tt := range tests {
		segs, err := ParsePath(tt.path)
		require.NoError(t, err, "path %q", tt.path)
		assert.Equal(t, tt.want, segs, "path %q", tt.path)
	}
}

func TestParsePath_Errors(t *testing.T) {
	bad := []string{
		"",
		".key",
		"[",
		"[abc]",
		"[-1]",
		"[1",
		"a..b",
		"a.[0]",
		"a]b",
	}
	for _, path := range bad {
		_, err := ParsePath(path)
		require.Error(t, err, "path %q should not parse", path)
		var pe *PathError
		assert.ErrorAs(t, err, &pe, "path %q", path)
	}
}

func TestParsePath_ErrorPosition(t *testing.T) {
	_, err := ParsePath("ok[x]")
	var pe *PathError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 3, pe.Pos)
}

func TestJoinHelpers(t *testing.T) {
	assert.Equal(t, "a", JoinKey("", "a"))
	assert.Equal(t, "a.b", JoinKey("a", "b"))
	assert.Equal(t, "[2]", JoinIndex("", 2))
	assert.Equal(t, "a.b[4]", JoinIndex("a.b", 4))

	// Built paths parse back through the tokenizer.
	segs, err := ParsePath(JoinKey(JoinIndex("items", 1), "name"))
	require.NoError(t, err)
	assert.Len(t, segs, 3)
}
