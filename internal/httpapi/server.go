package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/config"
	"github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/gateway"
	"github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/memory"
	"github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/observability"
	"github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/protocol"
)

type Server struct {
	cfg      config.Config
	gateway  *gateway.Gateway
	stages   *observability.StageWindow
	upgrader websocket.Upgrader
}

func New(cfg config.Config, gw *gateway.Gateway, stages *observability.StageWindow) *Server {
	return &Server{
		cfg:     cfg,
		gateway: gw,
		stages:  stages,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Default: only allow browser websocket connections from the
				// same origin, so other sites cannot drive a user's session
				// if the service is ever exposed beyond localhost.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/v1/travel/plan", s.handlePlan)
	r.Get("/v1/travel/session/{id}", s.handleGetSession)
	r.Delete("/v1/travel/session/{id}", s.handleDeleteSession)
	r.Get("/v1/travel/ws", s.handleChatWS)
	r.Post("/v1/security/validate-input", s.handleValidateInput)
	r.Post("/v1/security/validate-output", s.handleValidateOutput)
	r.Get("/v1/perf/latency", s.handlePerfLatency)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":             "ok",
		"guardrails_enabled": s.cfg.GuardrailsEnabled,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":             "ready",
		"guardrails_enabled": s.cfg.GuardrailsEnabled,
	})
}

type planRequest struct {
	UserInput string `json:"user_input"`
	SessionID string `json:"session_id,omitempty"`
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.UserInput) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "user_input is required")
		return
	}

	res := s.gateway.ProcessTurn(r.Context(), req.SessionID, req.UserInput)
	respondJSON(w, http.StatusOK, res)
}

type sessionInfoResponse struct {
	memory.Record
	TrustScore float64 `json:"trust_score"`
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		respondError(w, http.StatusBadRequest, "invalid_session_id", "missing session id")
		return
	}

	rec, trustScore := s.gateway.SessionInfo(r.Context(), id)
	rec.SessionID = id
	respondJSON(w, http.StatusOK, sessionInfoResponse{Record: rec, TrustScore: trustScore})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		respondError(w, http.StatusBadRequest, "invalid_session_id", "missing session id")
		return
	}

	s.gateway.EndSession(r.Context(), id)
	respondJSON(w, http.StatusOK, map[string]string{
		"status":     "deleted",
		"session_id": id,
	})
}

type validateInputRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleValidateInput(w http.ResponseWriter, r *http.Request) {
	var req validateInputRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, s.gateway.ValidateInput(r.Context(), req.Text))
}

type validateOutputRequest struct {
	Response string `json:"response"`
}

func (s *Server) handleValidateOutput(w http.ResponseWriter, r *http.Request) {
	var req validateOutputRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, s.gateway.ValidateOutput(r.Context(), req.Response))
}

func (s *Server) handlePerfLatency(w http.ResponseWriter, _ *http.Request) {
	if s.stages == nil {
		respondJSON(w, http.StatusOK, observability.StageSnapshot{Stages: []observability.StageStats{}})
		return
	}
	respondJSON(w, http.StatusOK, s.stages.Snapshot())
}

// handleChatWS runs the conversational pipeline over a websocket. Turns are
// processed one at a time per connection; replies are written from the read
// goroutine so websocket writes stay single-threaded.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		return nil
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))

		parsed, err := protocol.ParseClientMessage(data)
		if err != nil {
			s.writeWS(conn, protocol.ErrorEvent{
				Type:   protocol.TypeErrorEvent,
				Code:   "invalid_client_message",
				Detail: err.Error(),
			})
			continue
		}

		switch msg := parsed.(type) {
		case protocol.ClientTurn:
			res := s.gateway.ProcessTurn(r.Context(), msg.SessionID, msg.UserInput)
			s.writeWS(conn, protocol.AssistantReply{
				Type:              protocol.TypeAssistantReply,
				SessionID:         res.SessionID,
				Success:           res.Success,
				Response:          res.Response,
				Intent:            res.Intent,
				ConversationState: res.ConversationState,
				TrustScore:        res.TrustScore,
			})
		case protocol.ClientControl:
			if msg.Action == "end_session" {
				s.gateway.EndSession(r.Context(), msg.SessionID)
				s.writeWS(conn, protocol.SystemEvent{
					Type:      protocol.TypeSystemEvent,
					SessionID: msg.SessionID,
					Code:      "session_ended",
				})
				continue
			}
			s.writeWS(conn, protocol.ErrorEvent{
				Type:      protocol.TypeErrorEvent,
				SessionID: msg.SessionID,
				Code:      "unsupported_action",
				Detail:    msg.Action,
			})
		}
	}
}

func (s *Server) writeWS(conn *websocket.Conn, msg any) {
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	_ = conn.WriteJSON(msg)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
