// Package httpserver exposes the protocol engine over HTTP and WebSocket
// in addition to the primary stdio transport.
package httpserver

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/mcpline/mcpline/mcp"
	"github.com/mcpline/mcpline/pkg/config"
	"github.com/mcpline/mcpline/server"
)

// Server adapts the engine's per-request dispatch to HTTP. Unlike the
// stdio transport it serves requests concurrently; the registry is
// read-only by then so this is safe.
type Server struct {
	engine   *server.Engine
	token    string
	router   *chi.Mux
	upgrader websocket.Upgrader
	logger   *log.Logger
}

// New wires the routes. An empty token leaves the API open.
func New(engine *server.Engine, token string) *Server {
	s := &Server{
		engine: engine,
		token:  token,
		router: chi.NewRouter(),
		upgrader: websocket.Upgrader{
			// The bearer token, not the Origin header, gates this endpoint.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: log.New(os.Stderr, "httpserver: ", log.LstdFlags),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(config.DefaultHTTPTimeout))

	s.router.Get("/health", s.handleHealth)

	s.router.Route("/mcp", func(r chi.Router) {
		r.Use(s.auth)
		r.Post("/rpc", s.handleRPC)
		r.Get("/tools", s.handleListTools)
		r.Post("/call", s.handleCall)
		r.Get("/ws", s.handleWS)
	})

	return s
}

// Router exposes the root HTTP handler for the server.
func (s *Server) Router() http.Handler { return s.router }

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token == "" {
			next.ServeHTTP(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+s.token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRPC accepts one JSON-RPC envelope per request body and answers
// with one envelope, or 204 for notifications.
func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	var req mcp.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	resp := s.engine.Dispatch(r.Context(), &req)
	if resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.ListTools())
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	var params mcp.ToolCallParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if params.Arguments == nil {
		params.Arguments = map[string]any{}
	}

	result, err := s.engine.CallTool(r.Context(), params.Name, params.Arguments)
	if err != nil {
		status := http.StatusInternalServerError
		var notFound *server.ToolNotFoundError
		if errors.As(err, &notFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleWS carries the line protocol over WebSocket frames: one request
// per frame, one response frame per answered request. The same framing
// discipline applies; malformed frames are dropped, notifications stay
// silent.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var req mcp.Request
		if err := json.Unmarshal(data, &req); err != nil {
			continue
		}

		resp := s.engine.Dispatch(r.Context(), &req)
		if resp == nil {
			continue
		}
		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Printf("websocket write failed: %v", err)
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
