package jsonval

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInvalidFormat reports stored text that is neither valid JSON nor a
// comma-separated list.
var ErrInvalidFormat = errors.New("invalid format")

// ParseError carries the byte offset of a JSON syntax failure.
type ParseError struct {
	Message string
	Offset  int64
}

func (e *ParseError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("offset %d: %s", e.Offset, e.Message)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error { return ErrInvalidFormat }

// Parse interprets stored field text as a typed value.
//
// Strict JSON is attempted first. Text that is not JSON but contains a comma
// is split into an array of trimmed string segments (empty segments dropped) —
// the legacy storage format for tag-style fields. Blank input parses to
// (nil, nil); any other unparseable input returns an error wrapping
// ErrInvalidFormat.
func Parse(text string) (Value, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}

	v, jsonErr := parseJSON(trimmed)
	if jsonErr == nil {
		return v, nil
	}

	if strings.Contains(trimmed, ",") {
		parts := strings.Split(trimmed, ",")
		out := make(Array, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			out = append(out, StringScalar(p))
		}
		return out, nil
	}

	return nil, jsonErr
}

// parseJSON decodes exactly one JSON value, preserving object key order and
// number source text.
func parseJSON(text string) (Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, asParseError(err)
	}
	// Reject trailing content after the first value.
	if _, err := dec.Token(); err != io.EOF {
		return nil, &ParseError{Message: "trailing data after JSON value", Offset: dec.InputOffset()}
	}
	return v, nil
}

// decodeValue consumes one value from the token stream.
func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeFromToken(dec, tok)
}

func decodeFromToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, &ParseError{Message: "object key is not a string", Offset: dec.InputOffset()}
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return obj, nil
		case '[':
			var arr Array
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			if arr == nil {
				arr = Array{}
			}
			return arr, nil
		default:
			return nil, &ParseError{Message: fmt.Sprintf("unexpected delimiter %q", t.String()), Offset: dec.InputOffset()}
		}
	case string:
		return StringScalar(t), nil
	case json.Number:
		return NumberScalar(t), nil
	case bool:
		return BoolScalar(t), nil
	case nil:
		return NullScalar(), nil
	default:
		return nil, &ParseError{Message: "unexpected token", Offset: dec.InputOffset()}
	}
}

// asParseError normalizes decoder failures into *ParseError.
func asParseError(err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe
	}
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return &ParseError{Message: syn.Error(), Offset: syn.Offset}
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &ParseError{Message: "unexpected end of input"}
	}
	return &ParseError{Message: err.Error()}
}
