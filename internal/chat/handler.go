package chat

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	httpmiddleware "github.com/wolfman30/rivertown-concierge/internal/http/middleware"
	"github.com/wolfman30/rivertown-concierge/internal/session"
	"github.com/wolfman30/rivertown-concierge/pkg/logging"
)

const maxBodyBytes = 16 << 10

// Handler exposes the chat service over HTTP and websockets.
type Handler struct {
	service     *Service
	logger      *logging.Logger
	allowOrigin func(origin string) bool
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if service == nil {
		panic("chat: service cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// AllowOrigins sets the cross-site origins permitted to open a websocket.
func (h *Handler) AllowOrigins(origins []string) *Handler {
	h.allowOrigin = httpmiddleware.OriginMatcher(origins)
	return h
}

// Routes mounts the session endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", h.StartSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Delete("/", h.EndSession)
			r.Get("/messages", h.ListMessages)
			r.Post("/messages", h.PostMessage)
			r.Post("/callback", h.PostCallback)
			r.Post("/reset", h.ResetSession)
			r.Get("/ws", h.HandleWebSocket)
		})
	})
}

// StartSession opens a new conversation.
// POST /v1/sessions
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Start(r.Context())
	if err != nil {
		h.logger.Error("chat: start session failed", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// GET /v1/sessions/{sessionID}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.History(r.Context(), sessionID(r))
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// GET /v1/sessions/{sessionID}/messages
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.History(r.Context(), sessionID(r))
	if err != nil {
		h.serviceError(w, err)
		return
	}
	messages := sess.Messages
	if messages == nil {
		messages = []session.Message{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sess.ID,
		"messages":   messages,
	})
}

// PostMessage routes one utterance.
// POST /v1/sessions/{sessionID}/messages {"text": "..."}
func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	reply, err := h.service.Send(r.Context(), sessionID(r), req.Text)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

// PostCallback places a call-back to the supplied number.
// POST /v1/sessions/{sessionID}/callback {"phone": "..."}
func (h *Handler) PostCallback(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := decodeBody(r, &req); err != nil || strings.TrimSpace(req.Phone) == "" {
		jsonError(w, "phone is required", http.StatusBadRequest)
		return
	}

	reply, err := h.service.Callback(r.Context(), sessionID(r), req.Phone)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

// POST /v1/sessions/{sessionID}/reset
func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Reset(r.Context(), sessionID(r))
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// DELETE /v1/sessions/{sessionID}
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	if err := h.service.End(r.Context(), sessionID(r)); err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		jsonError(w, "session not found", http.StatusNotFound)
	case errors.Is(err, ErrEmptyMessage):
		jsonError(w, "text is required", http.StatusBadRequest)
	default:
		h.logger.Error("chat: request failed", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}

func sessionID(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "sessionID"))
}

func decodeBody(r *http.Request, dst any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
