// Package editor implements the field-editing state machine used by the
// admin surfaces: a read-mode preview, a full-text edit mode over the raw
// stored value, and an inline edit mode scoped to a single leaf path.
package editor

import (
	"errors"

	"go.uber.org/zap"

	"github.com/uridolan77/reportaing-admin/internal/jsonval"
)

// Mode is the editor's current state.
type Mode int

const (
	ModeRead Mode = iota
	ModeFull
	ModeInline
)

func (m Mode) String() string {
	switch m {
	case ModeFull:
		return "full"
	case ModeInline:
		return "inline"
	default:
		return "read"
	}
}

// Options mirror the capability flags the owning form passes in.
type Options struct {
	Placeholder     string
	AllowArrays     bool
	AllowObjects    bool
	AllowInlineEdit bool
	Disabled        bool
}

// EditSession tracks the single in-flight inline edit. At most one session
// exists per editor; beginning a new inline edit cancels the prior one.
type EditSession struct {
	Path  string
	Draft string
}

// Editor holds the transient editing state for one stored field value. It
// performs no I/O: the committed value arrives via New/SetValue and leaves
// through the onChange callback, exactly once per successful commit.
type Editor struct {
	opts     Options
	log      *zap.Logger
	onChange func(string)

	committed string
	parsed    jsonval.Value
	parseErr  error

	mode    Mode
	draft   string // full-edit draft
	session *EditSession
	message string // inline validation text, cleared on transition
}

// New creates an editor over a stored value. onChange may be nil; logger
// defaults to a no-op.
func New(value string, opts Options, onChange func(string), log *zap.Logger) *Editor {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Editor{opts: opts, log: log, onChange: onChange}
	e.setCommitted(value)
	return e
}

// setCommitted stores the value and re-derives the parsed tree.
func (e *Editor) setCommitted(value string) {
	e.committed = value
	e.parsed, e.parseErr = jsonval.Parse(value)
}

// SetValue replaces the committed value from outside (a prop update in the
// original surface). Any in-flight inline session is dropped since its path
// may no longer resolve.
func (e *Editor) SetValue(value string) {
	e.setCommitted(value)
	e.session = nil
	if e.mode == ModeInline {
		e.mode = ModeRead
	}
}

// Value returns the committed stored value.
func (e *Editor) Value() string { return e.committed }

// Mode returns the current editor mode.
func (e *Editor) Mode() Mode { return e.mode }

// Options returns the capability flags.
func (e *Editor) Options() Options { return e.opts }

// Draft returns the full-edit draft text.
func (e *Editor) Draft() string { return e.draft }

// Session returns the in-flight inline edit, or nil.
func (e *Editor) Session() *EditSession { return e.session }

// Message returns the current inline validation text, or "".
func (e *Editor) Message() string { return e.message }

// Preview renders the committed value for read mode.
func (e *Editor) Preview() jsonval.PreviewNode {
	return jsonval.BuildPreview(e.parsed, e.opts.AllowInlineEdit && !e.opts.Disabled)
}

// ── Full-text editing ───────────────────────────────────────────────────────

// BeginFullEdit enters full-text mode with the committed value as the draft.
// A no-op when the editor is disabled. Cancels any inline session.
func (e *Editor) BeginFullEdit() {
	if e.opts.Disabled {
		return
	}
	e.session = nil
	e.draft = e.committed
	e.message = ""
	e.mode = ModeFull
}

// SetDraft replaces the full-edit draft. Never commits.
func (e *Editor) SetDraft(text string) {
	if e.mode != ModeFull {
		return
	}
	e.draft = text
	e.message = ""
}

// Format re-parses the draft and pretty-prints it in place without
// committing. Invalid drafts surface a validation message and are left
// untouched so no user input is lost.
func (e *Editor) Format() {
	if e.mode != ModeFull {
		return
	}
	v, err := jsonval.Parse(e.draft)
	if err != nil {
		e.message = msgInvalidJSON
		return
	}
	if v == nil {
		return
	}
	e.draft = jsonval.Serialize(v)
	e.message = ""
}

// Save validates the draft and commits it. On validation failure the editor
// stays in full-edit mode with the draft intact and a message set; onChange
// is not called.
func (e *Editor) Save() error {
	if e.mode != ModeFull {
		return nil
	}
	if err := e.validateDraft(e.draft); err != nil {
		e.message = messageFor(err)
		return err
	}
	e.commit(e.draft)
	return nil
}

// validateDraft applies the parse and type-constraint checks from the
// options. A blank draft is always valid (it clears the field).
func (e *Editor) validateDraft(text string) error {
	v, err := jsonval.Parse(text)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	switch v.Kind() {
	case jsonval.KindArray:
		if !e.opts.AllowArrays {
			return &TypeConstraintError{Kind: jsonval.KindArray}
		}
	case jsonval.KindObject:
		if !e.opts.AllowObjects {
			return &TypeConstraintError{Kind: jsonval.KindObject}
		}
	}
	return nil
}

// Cancel discards the current draft or inline session and returns to read
// mode. The committed value is untouched.
func (e *Editor) Cancel() {
	e.draft = ""
	e.session = nil
	e.message = ""
	e.mode = ModeRead
}

// ── Inline editing ──────────────────────────────────────────────────────────

// BeginInlineEdit starts an inline session for the leaf at path, seeding the
// session draft with the leaf's current text. Requires the inline capability
// flag; an unresolvable path is logged and ignored.
func (e *Editor) BeginInlineEdit(path string) {
	if !e.opts.AllowInlineEdit || e.opts.Disabled {
		return
	}
	cur, err := jsonval.Lookup(e.parsed, path)
	if err != nil {
		e.log.Warn("inline edit on unresolvable path", zap.String("path", path), zap.Error(err))
		return
	}
	leaf, ok := cur.(jsonval.Scalar)
	if !ok {
		e.log.Warn("inline edit on non-leaf path", zap.String("path", path), zap.String("kind", cur.Kind().String()))
		return
	}
	e.message = ""
	e.session = &EditSession{Path: path, Draft: leaf.Text()}
	e.mode = ModeInline
}

// SetInlineDraft replaces the inline session draft.
func (e *Editor) SetInlineDraft(text string) {
	if e.session == nil {
		return
	}
	e.session.Draft = text
}

// ConfirmInline applies the inline session through the path resolver and
// commits the re-serialized value. Path failures are fail-safe: the edit is
// dropped, the tree is unchanged, and no commit happens.
func (e *Editor) ConfirmInline() error {
	if e.mode != ModeInline || e.session == nil {
		return nil
	}
	sess := *e.session
	leaf := scalarForDraft(e.parsed, sess.Path, sess.Draft)

	next, err := jsonval.ApplyEdit(e.parsed, sess.Path, leaf)
	if err != nil {
		e.log.Warn("inline edit dropped", zap.String("path", sess.Path), zap.Error(err))
		e.session = nil
		e.mode = ModeRead
		return err
	}
	e.session = nil
	e.commit(jsonval.Serialize(next))
	return nil
}

// commit stores a new value, fires onChange, and returns to read mode.
func (e *Editor) commit(value string) {
	e.setCommitted(value)
	e.draft = ""
	e.message = ""
	e.mode = ModeRead
	if e.onChange != nil {
		e.onChange(value)
	}
}

// scalarForDraft converts an inline draft into a scalar. The draft keeps the
// leaf's numeric type when the prior leaf was a number and the text still
// reads as one; everything else is committed as a string.
func scalarForDraft(root jsonval.Value, path, draft string) jsonval.Scalar {
	prior, err := jsonval.Lookup(root, path)
	if err == nil {
		if s, ok := prior.(jsonval.Scalar); ok && s.Kind() == jsonval.KindNumber {
			if n, ok := numberText(draft); ok {
				return jsonval.NumberScalar(n)
			}
		}
	}
	return jsonval.StringScalar(draft)
}

// messageFor maps a validation error to its inline display text.
func messageFor(err error) string {
	var tce *TypeConstraintError
	if errors.As(err, &tce) {
		return tce.Message()
	}
	return msgInvalidJSON
}
