package jsonval

import (
	"fmt"
	"strconv"
)

// RootPath is the reserved path meaning "the root scalar itself", used when
// a stored value is a bare scalar rather than a container.
const RootPath = "value"

// SegmentKind distinguishes object-key from array-index path segments.
type SegmentKind int

const (
	SegmentKey SegmentKind = iota
	SegmentIndex
)

// Segment is one step of an edit path.
type Segment struct {
	Kind  SegmentKind
	Key   string // set when Kind == SegmentKey
	Index int    // set when Kind == SegmentIndex
}

func (s Segment) String() string {
	if s.Kind == SegmentIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return s.Key
}

// PathError is a structured error from the path tokenizer with position
// information.
type PathError struct {
	Path    string
	Pos     int // byte offset into the path string
	Message string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("path %q pos %d: %s", e.Path, e.Pos, e.Message)
}

// ParsePath tokenizes an edit path into segments. The grammar covers the
// forms produced by the preview renderer: a leading bare key, `.key` member
// access, and `[n]` index access, in any combination (`key`, `[0]`,
// `key[2].prop`, `[1].name`). Keys run until the next '.' or '['; indices
// are unsigned decimal integers.
func ParsePath(path string) ([]Segment, error) {
	if path == "" {
		return nil, &PathError{Path: path, Pos: 0, Message: "empty path"}
	}

	var segs []Segment
	pos := 0
	for pos < len(path) {
		switch path[pos] {
		case '[':
			end := pos + 1
			for end < len(path) && path[end] != ']' {
				end++
			}
			if end >= len(path) {
				return nil, &PathError{Path: path, Pos: pos, Message: "unterminated index"}
			}
			idx, err := strconv.Atoi(path[pos+1 : end])
			if err != nil || idx < 0 {
				return nil, &PathError{Path: path, Pos: pos + 1, Message: "index is not an unsigned integer"}
			}
			segs = append(segs, Segment{Kind: SegmentIndex, Index: idx})
			pos = end + 1
		case '.':
			if len(segs) == 0 {
				return nil, &PathError{Path: path, Pos: pos, Message: "path cannot start with '.'"}
			}
			pos++
			if pos >= len(path) || path[pos] == '.' || path[pos] == '[' {
				return nil, &PathError{Path: path, Pos: pos, Message: "expected key after '.'"}
			}
			key, next := scanKey(path, pos)
			segs = append(segs, Segment{Kind: SegmentKey, Key: key})
			pos = next
		default:
			// A bare key is only valid as the first segment; later keys
			// must be introduced by '.'.
			if len(segs) > 0 {
				return nil, &PathError{Path: path, Pos: pos, Message: "expected '.' or '[' between segments"}
			}
			key, next := scanKey(path, pos)
			segs = append(segs, Segment{Kind: SegmentKey, Key: key})
			pos = next
		}
	}
	return segs, nil
}

// scanKey reads a key starting at pos, stopping at '.' or '['.
func scanKey(path string, pos int) (string, int) {
	end := pos
	for end < len(path) && path[end] != '.' && path[end] != '[' {
		end++
	}
	return path[pos:end], end
}

// JoinKey appends an object-key segment to a path. The first segment of a
// path is a bare key with no leading dot.
func JoinKey(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

// JoinIndex appends an array-index segment to a path.
func JoinIndex(parent string, i int) string {
	return parent + "[" + strconv.Itoa(i) + "]"
}
