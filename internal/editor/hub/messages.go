package hub

import (
	"encoding/json"

	"github.com/uridolan77/reportaing-admin/internal/jsonval"
	"github.com/uridolan77/reportaing-admin/internal/metadata"
)

// ── Client → Server messages ────────────────────────────────────────────────

// ClientMessage is the envelope for all client-to-server WebSocket messages.
type ClientMessage struct {
	Type string          `json:"type"` // "open", "begin_full", "draft", "format", "save", "begin_inline", "inline_draft", "confirm_inline", "cancel", "ping"
	ID   string          `json:"id"`   // Client-assigned request ID
	Data json.RawMessage `json:"data,omitempty"`
}

// OpenData is the payload for "open" messages: which field to edit.
type OpenData struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Field      string `json:"field"`
}

// DraftData is the payload for "draft" and "inline_draft" messages.
type DraftData struct {
	Text string `json:"text"`
}

// BeginInlineData is the payload for "begin_inline" messages.
type BeginInlineData struct {
	Path string `json:"path"`
}

// ── Server → Client messages ────────────────────────────────────────────────

// ServerMessage is the envelope for all server-to-client WebSocket messages.
type ServerMessage struct {
	Type      string `json:"type"`                 // "session", "state", "committed", "error", "pong"
	RequestID string `json:"request_id,omitempty"` // Echoes client ID
	Data      any    `json:"data,omitempty"`
}

// SessionData announces a newly opened editing session.
type SessionData struct {
	SessionID string             `json:"session_id"`
	Spec      metadata.FieldSpec `json:"spec"`
	State     StateData          `json:"state"`
}

// InlineState mirrors the in-flight inline edit for the client.
type InlineState struct {
	Path  string `json:"path"`
	Draft string `json:"draft"`
}

// StateData is the full editor state pushed after every transition.
type StateData struct {
	Mode    string              `json:"mode"` // "read", "full", "inline"
	Value   string              `json:"value"`
	Draft   string              `json:"draft,omitempty"`
	Inline  *InlineState        `json:"inline,omitempty"`
	Message string              `json:"message,omitempty"`
	Preview jsonval.PreviewNode `json:"preview"`
}

// CommittedData reports a successful commit and the stored value.
type CommittedData struct {
	Value string `json:"value"`
}

// ErrorData carries an error message.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
