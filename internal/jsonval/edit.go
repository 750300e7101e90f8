package jsonval

import "fmt"

// PathResolutionError reports an edit path that could not be located in the
// current tree (stale path, wrong shape, index out of range). ApplyEdit
// returns the original tree alongside it so the failed edit is a no-op.
type PathResolutionError struct {
	Path   string
	Reason string
}

func (e *PathResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve path %q: %s", e.Path, e.Reason)
}

// ApplyEdit replaces the leaf at path with a new scalar, returning a new
// tree; the input tree is never mutated.
//
// The reserved path "value" replaces the entire structure (used when the
// stored value is itself a bare scalar). Edits only ever overwrite existing
// leaves: unknown keys are rejected rather than inserted, and indices past
// the end of an array are rejected rather than auto-extended, so array
// length and object key count are invariant under ApplyEdit.
//
// On failure the original tree is returned unchanged with a
// *PathResolutionError — fail-safe, because a dropped inline edit is
// recoverable and corrupted metadata is not.
func ApplyEdit(root Value, path string, leaf Scalar) (Value, error) {
	if path == RootPath {
		return leaf, nil
	}

	segs, err := ParsePath(path)
	if err != nil {
		return root, &PathResolutionError{Path: path, Reason: err.Error()}
	}
	if root == nil {
		return root, &PathResolutionError{Path: path, Reason: "no value to edit"}
	}

	next := root.Clone()
	cur := next
	for _, seg := range segs[:len(segs)-1] {
		child, err := descend(cur, seg)
		if err != nil {
			return root, &PathResolutionError{Path: path, Reason: err.Error()}
		}
		cur = child
	}

	last := segs[len(segs)-1]
	switch last.Kind {
	case SegmentKey:
		obj, ok := cur.(*Object)
		if !ok {
			return root, &PathResolutionError{Path: path, Reason: fmt.Sprintf("segment %q: value is %s, not object", last, cur.Kind())}
		}
		if !obj.Replace(last.Key, leaf) {
			return root, &PathResolutionError{Path: path, Reason: fmt.Sprintf("key %q not present", last.Key)}
		}
	case SegmentIndex:
		arr, ok := cur.(Array)
		if !ok {
			return root, &PathResolutionError{Path: path, Reason: fmt.Sprintf("segment %q: value is %s, not array", last, cur.Kind())}
		}
		if last.Index >= len(arr) {
			return root, &PathResolutionError{Path: path, Reason: fmt.Sprintf("index %d out of range (len %d)", last.Index, len(arr))}
		}
		arr[last.Index] = leaf
	}
	return next, nil
}

// Lookup resolves a path against a tree without modifying it. The reserved
// path "value" returns the root.
func Lookup(root Value, path string) (Value, error) {
	if path == RootPath {
		if root == nil {
			return nil, &PathResolutionError{Path: path, Reason: "no value"}
		}
		return root, nil
	}
	segs, err := ParsePath(path)
	if err != nil {
		return nil, &PathResolutionError{Path: path, Reason: err.Error()}
	}
	cur := root
	for _, seg := range segs {
		if cur == nil {
			return nil, &PathResolutionError{Path: path, Reason: "no value"}
		}
		child, err := descend(cur, seg)
		if err != nil {
			return nil, &PathResolutionError{Path: path, Reason: err.Error()}
		}
		cur = child
	}
	return cur, nil
}

// descend resolves one segment against a container value.
func descend(v Value, seg Segment) (Value, error) {
	switch seg.Kind {
	case SegmentKey:
		obj, ok := v.(*Object)
		if !ok {
			return nil, fmt.Errorf("segment %q: value is %s, not object", seg, v.Kind())
		}
		child, ok := obj.Get(seg.Key)
		if !ok {
			return nil, fmt.Errorf("key %q not present", seg.Key)
		}
		return child, nil
	case SegmentIndex:
		arr, ok := v.(Array)
		if !ok {
			return nil, fmt.Errorf("segment %q: value is %s, not array", seg, v.Kind())
		}
		if seg.Index >= len(arr) {
			return nil, fmt.Errorf("index %d out of range (len %d)", seg.Index, len(arr))
		}
		return arr[seg.Index], nil
	default:
		return nil, fmt.Errorf("unknown segment kind %d", seg.Kind)
	}
}
