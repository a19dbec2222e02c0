package server

import (
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/hlog"

	"github.com/hyperifyio/sanji/internal/chatbot"
)

//go:embed static/index.html
var indexHTML []byte

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message *string `json:"message"`
}

// ChatResponse is the body returned by POST /chat.
type ChatResponse struct {
	Response string `json:"response"`
}

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Query *string `json:"query"`
}

// AskResponse is the body returned by POST /ask.
type AskResponse struct {
	Response string   `json:"response"`
	Sources  []string `json:"sources"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Message == nil {
		writeError(w, r, http.StatusBadRequest, "message is required")
		return
	}
	reply, status, err := s.chat(r, *req.Message)
	if err != nil {
		writeError(w, r, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{Response: reply})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Query == nil {
		writeError(w, r, http.StatusBadRequest, "query is required")
		return
	}
	if s.opts.Ask == nil {
		writeError(w, r, http.StatusServiceUnavailable, "ask pipeline not configured")
		return
	}
	res := s.opts.Ask.Run(r.Context(), *req.Query)
	writeJSON(w, http.StatusOK, askResponse(res.Answer, res.Sources))
}

// chat runs the responder and maps its failure to an HTTP status.
func (s *Server) chat(r *http.Request, msg string) (string, int, error) {
	if s.opts.Chat == nil {
		return "", http.StatusServiceUnavailable, errors.New("chat responder not configured")
	}
	reply, err := s.opts.Chat.Respond(r.Context(), msg)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("chat reply failed")
		if errors.Is(err, chatbot.ErrNotTrained) {
			return "", http.StatusServiceUnavailable, err
		}
		return "", http.StatusInternalServerError, errors.New("chat reply failed")
	}
	s.opts.Metrics.ChatReplied(s.opts.ResponderName)
	return reply, http.StatusOK, nil
}

func askResponse(answer string, sources []string) AskResponse {
	if sources == nil {
		sources = []string{}
	}
	return AskResponse{Response: answer, Sources: sources}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: strings.TrimSpace(msg), RequestID: RequestID(r.Context())})
}
