package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"

	"github.com/uridolan77/reportaing-admin/internal/editor"
	"github.com/uridolan77/reportaing-admin/internal/metadata"
)

// Handler manages WebSocket connections for interactive field editing.
type Handler struct {
	sessions *Manager
	svc      *metadata.Service
	log      *zap.Logger
}

// NewHandler creates a WebSocket editing handler.
func NewHandler(sessions *Manager, svc *metadata.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{sessions: sessions, svc: svc, log: log}
}

// ServeHTTP upgrades to WebSocket and runs the message loop. A connection
// edits one field at a time; "open" switches the active session.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Warn("websocket accept failed", zap.Error(err))
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	actor := r.URL.Query().Get("actor")
	if actor == "" {
		actor = "admin-ui"
	}

	var sess *Session
	defer func() {
		if sess != nil {
			h.sessions.Remove(sess.ID)
		}
	}()

	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if status := websocket.CloseStatus(err); status != -1 {
				h.log.Debug("editor connection closed", zap.Int("status", int(status)))
			}
			return
		}

		if msg.Type == "ping" {
			h.send(ctx, conn, ServerMessage{Type: "pong", RequestID: msg.ID})
			continue
		}
		if msg.Type == "open" {
			if next := h.handleOpen(ctx, conn, msg); next != nil {
				if sess != nil {
					h.sessions.Remove(sess.ID)
				}
				sess = next
			}
			continue
		}
		if sess == nil {
			h.sendError(ctx, conn, msg.ID, "no_session", "open a field before editing")
			continue
		}
		sess.Touch()

		switch msg.Type {
		case "begin_full":
			sess.Editor.BeginFullEdit()
			h.sendState(ctx, conn, msg.ID, sess)
		case "draft":
			var data DraftData
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				h.sendError(ctx, conn, msg.ID, "invalid_data", "invalid draft data")
				continue
			}
			sess.Editor.SetDraft(data.Text)
			h.sendState(ctx, conn, msg.ID, sess)
		case "format":
			sess.Editor.Format()
			h.sendState(ctx, conn, msg.ID, sess)
		case "save":
			h.handleSave(ctx, conn, msg, sess, actor)
		case "begin_inline":
			var data BeginInlineData
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				h.sendError(ctx, conn, msg.ID, "invalid_data", "invalid inline data")
				continue
			}
			sess.Editor.BeginInlineEdit(data.Path)
			if sess.Editor.Session() == nil {
				h.sendError(ctx, conn, msg.ID, "bad_path",
					fmt.Sprintf("path %q is not an editable leaf", data.Path))
				continue
			}
			h.sendState(ctx, conn, msg.ID, sess)
		case "inline_draft":
			var data DraftData
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				h.sendError(ctx, conn, msg.ID, "invalid_data", "invalid draft data")
				continue
			}
			sess.Editor.SetInlineDraft(data.Text)
			h.sendState(ctx, conn, msg.ID, sess)
		case "confirm_inline":
			h.handleConfirmInline(ctx, conn, msg, sess, actor)
		case "cancel":
			sess.Editor.Cancel()
			h.sendState(ctx, conn, msg.ID, sess)
		default:
			h.sendError(ctx, conn, msg.ID, "unknown_type",
				fmt.Sprintf("unknown message type: %s", msg.Type))
		}
	}
}

// handleOpen loads the field and starts a fresh session over it.
func (h *Handler) handleOpen(ctx context.Context, conn *websocket.Conn, msg ClientMessage) *Session {
	var data OpenData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		h.sendError(ctx, conn, msg.ID, "invalid_data", "invalid open data")
		return nil
	}

	value, spec, err := h.svc.FieldState(ctx, data.EntityType, data.EntityID, data.Field)
	if err != nil {
		code := "open_failed"
		switch {
		case errors.Is(err, metadata.ErrNotFound):
			code = "not_found"
		case errors.Is(err, metadata.ErrUnknownEntity), errors.Is(err, metadata.ErrUnknownField):
			code = "unknown_field"
		}
		h.sendError(ctx, conn, msg.ID, code, err.Error())
		return nil
	}

	ed := editor.New(value, spec.EditorOptions(), nil, h.log)
	sess := h.sessions.Create(data.EntityType, data.EntityID, data.Field, ed)
	h.send(ctx, conn, ServerMessage{
		Type:      "session",
		RequestID: msg.ID,
		Data: SessionData{
			SessionID: sess.ID,
			Spec:      spec,
			State:     stateOf(sess),
		},
	})
	return sess
}

// handleSave validates the draft locally, persists through the metadata
// service, and pushes the committed value. Validation failures keep the
// draft and full-edit mode intact.
func (h *Handler) handleSave(ctx context.Context, conn *websocket.Conn, msg ClientMessage, sess *Session, actor string) {
	draft := sess.Editor.Draft()
	if err := sess.Editor.Save(); err != nil {
		h.sendError(ctx, conn, msg.ID, "validation", editor.MessageFor(err))
		h.sendState(ctx, conn, msg.ID, sess)
		return
	}

	committed, err := h.svc.EditField(ctx, metadata.EditFieldRequest{
		EntityType: sess.EntityType,
		EntityID:   sess.EntityID,
		Field:      sess.Field,
		Value:      draft,
		Actor:      actor,
	})
	if err != nil {
		h.log.Error("save failed after local validation", zap.Error(err))
		h.sendError(ctx, conn, msg.ID, "save_failed", err.Error())
		return
	}
	sess.Editor.SetValue(committed)
	h.send(ctx, conn, ServerMessage{Type: "committed", RequestID: msg.ID, Data: CommittedData{Value: committed}})
	h.sendState(ctx, conn, msg.ID, sess)
}

// handleConfirmInline applies the inline edit through the path resolver and
// persists the re-serialized value. A stale path drops the edit without
// touching the stored value.
func (h *Handler) handleConfirmInline(ctx context.Context, conn *websocket.Conn, msg ClientMessage, sess *Session, actor string) {
	es := sess.Editor.Session()
	if es == nil {
		h.sendError(ctx, conn, msg.ID, "no_inline_session", "no inline edit in progress")
		return
	}
	path, draft := es.Path, es.Draft

	if err := sess.Editor.ConfirmInline(); err != nil {
		h.sendError(ctx, conn, msg.ID, "bad_path", err.Error())
		h.sendState(ctx, conn, msg.ID, sess)
		return
	}

	committed, err := h.svc.EditField(ctx, metadata.EditFieldRequest{
		EntityType: sess.EntityType,
		EntityID:   sess.EntityID,
		Field:      sess.Field,
		Inline:     true,
		Path:       path,
		Value:      draft,
		Actor:      actor,
	})
	if err != nil {
		h.log.Error("inline commit failed after local apply", zap.Error(err))
		h.sendError(ctx, conn, msg.ID, "save_failed", err.Error())
		return
	}
	sess.Editor.SetValue(committed)
	h.send(ctx, conn, ServerMessage{Type: "committed", RequestID: msg.ID, Data: CommittedData{Value: committed}})
	h.sendState(ctx, conn, msg.ID, sess)
}

func stateOf(sess *Session) StateData {
	ed := sess.Editor
	state := StateData{
		Mode:    ed.Mode().String(),
		Value:   ed.Value(),
		Draft:   ed.Draft(),
		Message: ed.Message(),
		Preview: ed.Preview(),
	}
	if es := ed.Session(); es != nil {
		state.Inline = &InlineState{Path: es.Path, Draft: es.Draft}
	}
	return state
}

func (h *Handler) sendState(ctx context.Context, conn *websocket.Conn, requestID string, sess *Session) {
	h.send(ctx, conn, ServerMessage{Type: "state", RequestID: requestID, Data: stateOf(sess)})
}

func (h *Handler) send(ctx context.Context, conn *websocket.Conn, msg ServerMessage) {
	if err := wsjson.Write(ctx, conn, msg); err != nil {
		h.log.Warn("websocket write failed", zap.Error(err))
	}
}

func (h *Handler) sendError(ctx context.Context, conn *websocket.Conn, requestID, code, message string) {
	h.send(ctx, conn, ServerMessage{
		Type:      "error",
		RequestID: requestID,
		Data:      ErrorData{Code: code, Message: message},
	})
}
