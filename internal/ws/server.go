package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
	"github.com/go-logr/logr"

	"github.com/samdwyer/bspwalk/internal/navgraph"
)

// Server accepts websocket clients, greets them with the layout and forwards
// their Select messages to the agent loop.
type Server struct {
	hub        *Hub
	layout     []byte
	nodes      int
	selections chan<- navgraph.NodeID
	feed       *AgentFeed
	log        logr.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithAgentFeed sends the feed's latest snapshot to each client right after
// the layout, so new clients see the agent before it next moves.
func WithAgentFeed(feed *AgentFeed) ServerOption {
	return func(s *Server) { s.feed = feed }
}

// NewServer creates a server for layout. Selections are sent on selections,
// which the agent loop must drain.
func NewServer(hub *Hub, layout Layout, selections chan<- navgraph.NodeID, logger logr.Logger, opts ...ServerOption) (*Server, error) {
	data, err := Encode(TypeLayout, layout)
	if err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	s := &Server{
		hub:        hub,
		layout:     data,
		nodes:      len(layout.Nodes),
		selections: selections,
		log:        logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ServeHTTP upgrades the request and serves the client until it disconnects.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		s.log.Error(err, "websocket accept failed", "remote", r.RemoteAddr)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx := r.Context()
	if err := conn.Write(ctx, websocket.MessageText, s.layout); err != nil {
		return
	}
	if s.feed != nil {
		if last := s.feed.Last(); last != nil {
			if err := conn.Write(ctx, websocket.MessageText, last); err != nil {
				return
			}
		}
	}

	s.hub.Add(conn)
	defer s.hub.Remove(conn)
	s.log.V(1).Info("client connected", "remote", r.RemoteAddr, "clients", s.hub.Len())

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			s.log.V(1).Info("client disconnected", "remote", r.RemoteAddr)
			return
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}
		switch env.Type {
		case TypeSelect:
			var req Select
			if err := json.Unmarshal(env.Payload, &req); err != nil {
				continue
			}
			if req.Node < 0 || req.Node >= s.nodes {
				s.reply(ctx, conn, TypeError, ErrorMessage{Message: fmt.Sprintf("unknown node %d", req.Node)})
				continue
			}
			select {
			case s.selections <- navgraph.NodeID(req.Node):
			case <-ctx.Done():
				return
			}
		}
	}
}

func (s *Server) reply(ctx context.Context, conn *websocket.Conn, typ string, payload any) {
	data, err := Encode(typ, payload)
	if err != nil {
		return
	}
	_ = conn.Write(ctx, websocket.MessageText, data)
}
