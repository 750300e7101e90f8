package jsonval

import (
	"encoding/json"
	"strconv"
)

// Presentation caps for the read-mode preview. These bound what is shown,
// never what is stored.
const (
	maxPreviewItems = 5 // array elements before "+N more"
	maxPreviewKeys  = 8 // object members before "+N more"

	// Containers nested deeper than this render as compact JSON text
	// instead of structure.
	maxPreviewDepth = 2
)

// PreviewKind identifies the shape of a preview node.
type PreviewKind int

const (
	PreviewEmpty PreviewKind = iota
	PreviewLeaf
	PreviewArray
	PreviewObject
	PreviewText // deep container collapsed to single-line JSON
)

// MarshalJSON emits the kind as a string for wire consumers.
func (k PreviewKind) MarshalJSON() ([]byte, error) {
	switch k {
	case PreviewLeaf:
		return json.Marshal("leaf")
	case PreviewArray:
		return json.Marshal("array")
	case PreviewObject:
		return json.Marshal("object")
	case PreviewText:
		return json.Marshal("text")
	default:
		return json.Marshal("empty")
	}
}

// PreviewNode is one node of the read-mode rendering of a value. Leaf nodes
// carry the edit path a client uses to begin an inline edit.
type PreviewNode struct {
	Kind     PreviewKind   `json:"kind"`
	Key      string        `json:"key,omitempty"`  // member name within a parent object
	Path     string        `json:"path,omitempty"` // edit path, set on editable leaves
	Text     string        `json:"text,omitempty"` // leaf display text or collapsed JSON
	Editable bool          `json:"editable,omitempty"`
	Children []PreviewNode `json:"children,omitempty"`
	Hidden   int           `json:"hidden,omitempty"` // elements elided by the presentation caps
}

// BuildPreview renders a value as a bounded preview tree. Arrays show at
// most five elements and objects at most eight members, each with a hidden
// count; structure is rendered two container levels deep before falling back
// to compact JSON text. String and number leaves are marked editable when
// allowInline is set.
func BuildPreview(v Value, allowInline bool) PreviewNode {
	if v == nil {
		return PreviewNode{Kind: PreviewEmpty}
	}
	if s, ok := v.(Scalar); ok {
		// A bare scalar edits through the reserved root path.
		return leafNode("", RootPath, s, allowInline)
	}
	return buildNode("", "", v, 0, allowInline)
}

func buildNode(key, path string, v Value, depth int, allowInline bool) PreviewNode {
	switch t := v.(type) {
	case Scalar:
		return leafNode(key, path, t, allowInline)
	case Array:
		if depth >= maxPreviewDepth {
			return PreviewNode{Kind: PreviewText, Key: key, Text: Compact(t)}
		}
		n := PreviewNode{Kind: PreviewArray, Key: key}
		shown := len(t)
		if shown > maxPreviewItems {
			shown = maxPreviewItems
			n.Hidden = len(t) - maxPreviewItems
		}
		for i := 0; i < shown; i++ {
			n.Children = append(n.Children, buildNode("", JoinIndex(path, i), t[i], depth+1, allowInline))
		}
		return n
	case *Object:
		if depth >= maxPreviewDepth {
			return PreviewNode{Kind: PreviewText, Key: key, Text: Compact(t)}
		}
		n := PreviewNode{Kind: PreviewObject, Key: key}
		keys := t.Keys()
		shown := len(keys)
		if shown > maxPreviewKeys {
			shown = maxPreviewKeys
			n.Hidden = len(keys) - maxPreviewKeys
		}
		for _, k := range keys[:shown] {
			child, _ := t.Get(k)
			n.Children = append(n.Children, buildNode(k, JoinKey(path, k), child, depth+1, allowInline))
		}
		return n
	default:
		return PreviewNode{Kind: PreviewText, Key: key, Text: Compact(v)}
	}
}

func leafNode(key, path string, s Scalar, allowInline bool) PreviewNode {
	editable := allowInline && (s.Kind() == KindString || s.Kind() == KindNumber)
	n := PreviewNode{Kind: PreviewLeaf, Key: key, Text: s.Text(), Editable: editable}
	if editable {
		n.Path = path
	}
	return n
}

// HiddenLabel formats the overflow suffix for a preview node, e.g. "+3 more".
func HiddenLabel(n PreviewNode) string {
	if n.Hidden <= 0 {
		return ""
	}
	return "+" + strconv.Itoa(n.Hidden) + " more"
}
