package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"
)

// Message is one websocket frame in either direction. Clients send types
// "chat", "ask" and "ping"; the server answers with "response", "answer",
// "pong" or "error".
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type wsChatPayload struct {
	Message string `json:"message"`
}

type wsAskPayload struct {
	Query string `json:"query"`
}

// wsConn serializes writes to one websocket.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) send(typ string, payload any) error {
	msg := Message{Type: typ}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		msg.Payload = b
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	logger := hlog.FromRequest(r)
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	c := &wsConn{conn: conn}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			logger.Debug().Err(err).Msg("websocket closed")
			return
		}

		switch msg.Type {
		case "ping":
			_ = c.send("pong", nil)
		case "chat":
			var p wsChatPayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				_ = c.send("error", errorResponse{Error: "invalid chat payload"})
				continue
			}
			reply, _, err := s.chat(r.WithContext(ctx), p.Message)
			if err != nil {
				_ = c.send("error", errorResponse{Error: err.Error()})
				continue
			}
			_ = c.send("response", ChatResponse{Response: reply})
		case "ask":
			var p wsAskPayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				_ = c.send("error", errorResponse{Error: "invalid ask payload"})
				continue
			}
			if s.opts.Ask == nil {
				_ = c.send("error", errorResponse{Error: "ask pipeline not configured"})
				continue
			}
			// answered asynchronously so pings and chat stay responsive
			wg.Add(1)
			go func(query string) {
				defer wg.Done()
				res := s.opts.Ask.Run(ctx, query)
				_ = c.send("answer", askResponse(res.Answer, res.Sources))
			}(p.Query)
		default:
			_ = c.send("error", errorResponse{Error: "unknown message type"})
		}
	}
}
