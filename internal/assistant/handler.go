package assistant

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"golang.org/x/net/websocket"

	"github.com/wolfman30/ward-portal/internal/http/respond"
	"github.com/wolfman30/ward-portal/internal/locale"
	"github.com/wolfman30/ward-portal/pkg/logging"
)

// Handler exposes chat sessions over HTTP and a WebSocket.
type Handler struct {
	manager *Manager
	logger  *logging.Logger
}

// NewHandler creates a chat handler.
func NewHandler(manager *Manager, logger *logging.Logger) *Handler {
	if manager == nil {
		panic("assistant: manager required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{manager: manager, logger: logger}
}

// Routes mounts the chat endpoints under /api/chat.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/suggestions", h.Suggestions)
	r.Get("/ws", h.HandleWebSocket)
	r.Post("/sessions", h.CreateSession)
	r.Get("/sessions/{id}", h.GetSession)
	r.Post("/sessions/{id}/messages", h.SendMessage)
	r.Post("/sessions/{id}/reset", h.ResetSession)
	r.Put("/sessions/{id}/language", h.SetLanguage)
	r.Delete("/sessions/{id}", h.CloseSession)
	return r
}

type sessionResponse struct {
	Snapshot
	Thinking string `json:"thinking,omitempty"`
}

func view(s *Session) sessionResponse {
	snap := s.Snapshot()
	resp := sessionResponse{Snapshot: snap}
	if snap.State == StateAwaitingResponse {
		resp.Thinking = locale.Strings(snap.Lang).Thinking
	}
	return resp
}

// Suggestions handles GET /api/chat/suggestions?lang=
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	lang := locale.Parse(r.URL.Query().Get("lang"))
	respond.JSON(w, http.StatusOK, map[string]any{"suggestions": locale.Strings(lang).Suggestions})
}

type langRequest struct {
	Lang string `json:"lang"`
}

// CreateSession handles POST /api/chat/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req langRequest
	if r.ContentLength != 0 {
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	s, err := h.manager.Create(r.Context(), locale.Parse(req.Lang))
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, view(s))
}

// GetSession handles GET /api/chat/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.manager.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, view(s))
}

type messageRequest struct {
	Text string `json:"text"`
}

type messageResponse struct {
	Reply   Message         `json:"reply"`
	Session sessionResponse `json:"session"`
}

// SendMessage handles POST /api/chat/sessions/{id}/messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	id := chi.URLParam(r, "id")
	reply, err := h.manager.Send(r.Context(), id, req.Text)
	if err != nil {
		h.writeError(w, err)
		return
	}
	s, err := h.manager.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, messageResponse{Reply: reply, Session: view(s)})
}

// ResetSession handles POST /api/chat/sessions/{id}/reset
func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.manager.Reset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, view(s))
}

// SetLanguage handles PUT /api/chat/sessions/{id}/language
func (h *Handler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var req langRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	s, err := h.manager.SetLanguage(r.Context(), chi.URLParam(r, "id"), locale.Parse(req.Lang))
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, view(s))
}

// CloseSession handles DELETE /api/chat/sessions/{id}
func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Close(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrEmptyInput):
		respond.FieldError(w, "text", err.Error())
	case errors.Is(err, ErrBusy), errors.Is(err, ErrSessionReset):
		respond.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrSessionClosed):
		respond.Error(w, http.StatusGone, err.Error())
	default:
		h.logger.Error("chat request failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}

// InboundFrame is what a socket client sends.
type InboundFrame struct {
	Type string `json:"type"` // "message", "reset", "language", "ping"
	Text string `json:"text,omitempty"`
	Lang string `json:"lang,omitempty"`
}

// OutboundFrame is what the socket sends back.
type OutboundFrame struct {
	Type      string    `json:"type"` // "session", "thinking", "message", "reset", "error", "pong"
	SessionID string    `json:"session_id,omitempty"`
	Text      string    `json:"text,omitempty"`
	Message   *Message  `json:"message,omitempty"`
	Messages  []Message `json:"messages,omitempty"`
}

// HandleWebSocket handles GET /api/chat/ws?session=&lang=. Without a session
// id the socket creates one and closing the connection closes it, canceling
// any in-flight request. A socket attached to an existing session leaves it
// open on disconnect.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Server{Handler: func(conn *websocket.Conn) { h.serveWS(conn, r) }}.ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var writeMu sync.Mutex
	send := func(frame OutboundFrame) {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = websocket.JSON.Send(conn, frame)
	}

	lang := locale.Parse(r.URL.Query().Get("lang"))
	var (
		s   *Session
		err error
	)
	attached := r.URL.Query().Get("session")
	if attached != "" {
		s, err = h.manager.Get(ctx, attached)
	} else {
		s, err = h.manager.Create(ctx, lang)
	}
	if err != nil {
		send(OutboundFrame{Type: "error", Text: err.Error()})
		return
	}
	id := s.ID()
	if attached == "" {
		defer func() {
			if err := h.manager.Close(context.Background(), id); err != nil {
				h.logger.Warn("chat socket: failed to close session", "session_id", id, "error", err)
			}
		}()
	}

	send(OutboundFrame{Type: "session", SessionID: id, Messages: s.Snapshot().Messages})
	h.logger.Info("chat socket opened", "session_id", id)

	var inflight sync.WaitGroup
	defer inflight.Wait()
	for {
		var frame InboundFrame
		if err := websocket.JSON.Receive(conn, &frame); err != nil {
			h.logger.Debug("chat socket closed", "session_id", id, "error", err)
			if attached == "" {
				// Cancel before waiting so a pending reply is dropped, not sent.
				s.Close()
				cancel()
			}
			return
		}

		switch frame.Type {
		case "ping":
			send(OutboundFrame{Type: "pong"})
		case "reset":
			if _, err := h.manager.Reset(ctx, id); err != nil {
				send(OutboundFrame{Type: "error", Text: err.Error()})
				continue
			}
			send(OutboundFrame{Type: "reset", Messages: s.Snapshot().Messages})
		case "language":
			if _, err := h.manager.SetLanguage(ctx, id, locale.Parse(frame.Lang)); err != nil {
				send(OutboundFrame{Type: "error", Text: err.Error()})
			}
		case "message":
			text := strings.TrimSpace(frame.Text)
			if text == "" {
				continue
			}
			if s.Snapshot().State == StateAwaitingResponse {
				send(OutboundFrame{Type: "error", Text: ErrBusy.Error()})
				continue
			}
			send(OutboundFrame{Type: "thinking", Text: locale.Strings(s.Snapshot().Lang).Thinking})
			inflight.Add(1)
			go func() {
				defer inflight.Done()
				reply, err := h.manager.Send(ctx, id, text)
				if err != nil {
					if !errors.Is(err, ErrSessionReset) && !errors.Is(err, ErrSessionClosed) {
						send(OutboundFrame{Type: "error", Text: err.Error()})
					}
					return
				}
				send(OutboundFrame{Type: "message", Message: &reply})
			}()
		}
	}
}
