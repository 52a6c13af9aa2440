package chat

import (
	"errors"
	"net/http"
	"strings"

	"github.com/wolfman30/rivertown-concierge/internal/intent"
	"github.com/wolfman30/rivertown-concierge/internal/session"
	"golang.org/x/net/websocket"
)

var errOriginNotAllowed = errors.New("chat: websocket origin not allowed")

// InboundFrame is what the widget sends.
type InboundFrame struct {
	Type string `json:"type"` // "message", "callback", "ping"
	Text string `json:"text"`
}

// OutboundFrame is what the widget receives.
type OutboundFrame struct {
	Type      string            `json:"type"` // "session", "history", "typing", "message", "pong", "error"
	SessionID string            `json:"session_id,omitempty"`
	Intent    intent.Intent     `json:"intent,omitempty"`
	Response  *intent.Response  `json:"response,omitempty"`
	Messages  []session.Message `json:"messages,omitempty"`
	Text      string            `json:"text,omitempty"`
}

// HandleWebSocket upgrades to a websocket carrying the same turns as the
// HTTP endpoints.
// GET /v1/sessions/{sessionID}/ws
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	websocket.Server{
		Handshake: h.checkOrigin,
		Handler: func(conn *websocket.Conn) {
			h.serveWS(conn, r, id)
		},
	}.ServeHTTP(w, r)
}

// checkOrigin admits clients without an Origin header, same-host pages and
// origins on the allowlist. Browsers do not apply CORS to the upgrade, so
// this is the only cross-site check a websocket gets.
func (h *Handler) checkOrigin(cfg *websocket.Config, r *http.Request) error {
	origin, err := websocket.Origin(cfg, r)
	if err != nil {
		return err
	}
	cfg.Origin = origin
	if origin == nil || strings.EqualFold(origin.Host, r.Host) {
		return nil
	}
	if h.allowOrigin != nil && h.allowOrigin(origin.Scheme+"://"+origin.Host) {
		return nil
	}
	h.logger.Warn("chat: websocket origin rejected", "origin", origin.String())
	return errOriginNotAllowed
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request, id string) {
	ctx := r.Context()
	sess, err := h.service.History(ctx, id)
	if err != nil {
		text := "internal error"
		if errors.Is(err, session.ErrSessionNotFound) {
			text = "session not found"
		}
		_ = websocket.JSON.Send(conn, OutboundFrame{Type: "error", Text: text})
		return
	}

	_ = websocket.JSON.Send(conn, OutboundFrame{Type: "session", SessionID: id})
	if len(sess.Messages) > 0 {
		_ = websocket.JSON.Send(conn, OutboundFrame{Type: "history", SessionID: id, Messages: sess.Messages})
	}
	h.logger.Info("chat: websocket opened", "session_id", id)

	for {
		var frame InboundFrame
		if err := websocket.JSON.Receive(conn, &frame); err != nil {
			h.logger.Debug("chat: websocket closed", "session_id", id, "error", err)
			return
		}

		var reply Reply
		switch frame.Type {
		case "ping":
			_ = websocket.JSON.Send(conn, OutboundFrame{Type: "pong"})
			continue
		case "message":
			if strings.TrimSpace(frame.Text) == "" {
				continue
			}
			_ = websocket.JSON.Send(conn, OutboundFrame{Type: "typing"})
			reply, err = h.service.Send(ctx, id, frame.Text)
		case "callback":
			_ = websocket.JSON.Send(conn, OutboundFrame{Type: "typing"})
			reply, err = h.service.Callback(ctx, id, frame.Text)
		default:
			continue
		}

		if err != nil {
			h.logger.Error("chat: websocket turn failed", "session_id", id, "error", err)
			_ = websocket.JSON.Send(conn, OutboundFrame{Type: "error", Text: "Sorry, something went wrong. Please try again."})
			continue
		}
		resp := reply.Response
		if err := websocket.JSON.Send(conn, OutboundFrame{Type: "message", SessionID: id, Intent: reply.Intent, Response: &resp}); err != nil {
			return
		}
	}
}
