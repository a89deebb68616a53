package a2a

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const (
	maxRequestSizeBytes = 1 << 20
	shutdownTimeout     = 5 * time.Second
)

// MessageHandler answers the message carried by a message/send request. The
// returned value becomes result.message of the reply.
type MessageHandler interface {
	HandleMessage(ctx context.Context, message json.RawMessage) (any, error)
}

type MessageHandlerFunc func(ctx context.Context, message json.RawMessage) (any, error)

func (f MessageHandlerFunc) HandleMessage(ctx context.Context, message json.RawMessage) (any, error) {
	return f(ctx, message)
}

type ServerConfig struct {
	Addr      string `split_words:"true"`
	PublicURL string `split_words:"true"`
}

type mount struct {
	pattern string
	handler http.Handler
}

type Server struct {
	card    AgentCard
	handler MessageHandler
	mounts  []mount
	mux     chi.Router
}

type ServerOption func(*Server)

// WithMount serves an extra handler next to the A2A routes.
func WithMount(pattern string, h http.Handler) ServerOption {
	return func(s *Server) {
		if pattern != "" && h != nil {
			s.mounts = append(s.mounts, mount{pattern: pattern, handler: h})
		}
	}
}

// NewCard builds the card an agent serves. publicURL is the externally
// reachable base of the agent; when empty callers fall back to their own base.
func NewCard(id, name, description, version, publicURL string) AgentCard {
	card := AgentCard{
		ID:          id,
		Name:        name,
		Description: description,
		Version:     version,
		Methods:     []string{MethodSend},
	}
	if base := strings.TrimRight(strings.TrimSpace(publicURL), "/"); base != "" {
		card.RPC.URL = base + RPCPath
	}
	return card
}

func NewServer(card AgentCard, handler MessageHandler, opts ...ServerOption) (*Server, error) {
	if handler == nil {
		return nil, errors.New("message handler is required")
	}
	if strings.TrimSpace(card.ID) == "" {
		return nil, errors.New("agent card id is required")
	}
	if len(card.Methods) == 0 {
		card.Methods = []string{MethodSend}
	}

	s := &Server{card: card, handler: handler}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.mux = s.routes()
	return s, nil
}

func (s *Server) Card() AgentCard {
	return s.card
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("agent", s.card.ID).Str("addr", addr).Msg("a2a server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", s.card.ID, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info().Str("agent", s.card.ID).Msg("a2a server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown %s: %w", s.card.ID, err)
		}
		return nil
	}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get(CardPath, s.handleCard)
	r.Post(RPCPath, s.handleRPC)
	r.Get(HealthPath, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "agent": s.card.ID})
	})
	r.Handle(MetricsPath, promhttp.Handler())
	for _, m := range s.mounts {
		r.Handle(m.pattern, m.handler)
	}
	return r
}

func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	card := s.card
	if card.RPC.URL == "" {
		card.RPC.URL = requestBaseURL(r) + RPCPath
	}
	writeJSON(w, http.StatusOK, card)
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestSizeBytes)).Decode(&req); err != nil {
		serverRequests.WithLabelValues(s.card.ID, "parse_error").Inc()
		writeRPCError(w, http.StatusBadRequest, nil, CodeParseError, "Parse error")
		return
	}
	if req.Method != MethodSend {
		serverRequests.WithLabelValues(s.card.ID, "unsupported_method").Inc()
		writeRPCError(w, http.StatusBadRequest, req.ID, CodeMethodNotFound, "Unsupported method")
		return
	}

	logger := log.With().
		Str("agent", s.card.ID).
		Interface("rpc_id", req.ID).
		Str("request_id", middleware.GetReqID(r.Context())).
		Logger()

	result, err := s.handler.HandleMessage(r.Context(), req.Params.Message)
	if err != nil {
		serverRequests.WithLabelValues(s.card.ID, "error").Inc()
		logger.Warn().Err(err).Msg("message handler failed")
		writeRPCError(w, http.StatusInternalServerError, req.ID, CodeHandlerError, err.Error())
		return
	}

	raw, err := json.Marshal(result)
	if err != nil {
		serverRequests.WithLabelValues(s.card.ID, "error").Inc()
		logger.Error().Err(err).Msg("encode handler result")
		writeRPCError(w, http.StatusInternalServerError, req.ID, CodeInternalError, "encode result")
		return
	}

	serverRequests.WithLabelValues(s.card.ID, "ok").Inc()
	logger.Debug().Msg("message handled")
	writeJSON(w, http.StatusOK, Response{
		JSONRPC: JSONRPCVersion,
		ID:      req.ID,
		Result:  &ResponseResult{Message: raw},
	})
}

func writeRPCError(w http.ResponseWriter, status int, id any, code int, message string) {
	writeJSON(w, status, Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error:   &RPCError{Code: code, Message: message},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write json response")
	}
}

func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
