package web

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"
)

// Server exposes the catalog and insight operations over HTTP. Handlers run
// on net/http's per-request goroutines, so a slow inference call never
// blocks unrelated requests.
type Server struct {
	addr   string
	server *http.Server
}

func NewServer(addr string, h *Handlers) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.HandleFunc("GET /api/letters", h.handleListLetters)
	mux.HandleFunc("POST /api/letters/refresh", h.handleRefresh)
	mux.HandleFunc("GET /api/letters/{id}", h.handleLetterDetail)
	mux.HandleFunc("POST /api/insights", h.handleInsight)
	mux.HandleFunc("GET /api/questions/{id}", h.handleQuestionHistory)
	mux.HandleFunc("DELETE /api/questions/{id}/{entry}", h.handleDeleteQuestion)
	mux.HandleFunc("GET /api/cache/stats", h.handleCacheStats)
	mux.HandleFunc("POST /api/cache/clear", h.handleCacheClear)

	return &Server{
		addr: addr,
		server: &http.Server{
			Addr:        addr,
			Handler:     mux,
			ReadTimeout: 15 * time.Second,
			// Insight calls are network-bound and can take a while.
			WriteTimeout: 180 * time.Second,
		},
	}
}

// Start begins serving HTTP in the background. Call Shutdown to stop.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("web: failed to listen on %s: %w", s.addr, err)
	}
	go func() {
		log.Printf("Serving on %s", s.addr)
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
