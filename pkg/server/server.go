package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/statechannels/native-utils/pkg/config"
	"github.com/statechannels/native-utils/pkg/nitro"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

/*
Server exposes the channel utilities as JSON over HTTP.

All operation endpoints accept POST with a camelCase JSON body:
  POST /channel/id              { channel }                  -> { result }
  POST /outcome/encode          { state }                    -> { result }
  POST /outcome/hash            { state }                    -> { result }
  POST /state/app-part-hash     { state }                    -> { result }
  POST /state/hash              { state }                    -> { result }
  POST /message/hash            { message }                  -> { result }
  POST /state/sign              { state, privateKey }        -> { hash, signature }
  POST /state/recover           { state, signature }         -> { result }
  POST /signature/verify        { hash, address, signature } -> { valid }
  POST /transition/validate     { from, to }                 -> { status }
  POST /transition/peer-update  { from, to, signature }      -> { status }
  GET  /health                                               -> { status }

/state/sign is only registered when signing is enabled in the config.

Status codes:
  400 malformed input, with one entry per offending field
  405 wrong method
  413 body larger than the configured limit
  422 cryptographic failure or broken transition rule
  429 rate limited
*/

const requestIDHeader = "X-Request-Id"

// Server handles HTTP requests for the channel utilities
type Server struct {
	utils      *nitro.Utils
	logger     *zap.Logger
	limiter    *rate.Limiter
	httpServer *http.Server
}

// NewServer creates a new server instance
func NewServer(cfg *config.ServerConfig, utils *nitro.Utils, l *zap.Logger) *Server {
	s := &Server{
		utils:  utils,
		logger: l,
	}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}

	mux := http.NewServeMux()

	// Hashing endpoints
	mux.HandleFunc("/channel/id", s.handleChannelID)
	mux.HandleFunc("/outcome/encode", s.handleEncodeOutcome)
	mux.HandleFunc("/outcome/hash", s.handleHashOutcome)
	mux.HandleFunc("/state/app-part-hash", s.handleHashAppPart)
	mux.HandleFunc("/state/hash", s.handleHashState)
	mux.HandleFunc("/message/hash", s.handleHashMessage)

	// Signature endpoints
	if cfg.EnableSigning {
		mux.HandleFunc("/state/sign", s.handleSignState)
	}
	mux.HandleFunc("/state/recover", s.handleRecoverAddress)
	mux.HandleFunc("/signature/verify", s.handleVerifySignature)

	// Transition endpoints
	mux.HandleFunc("/transition/validate", s.handleValidateTransition)
	mux.HandleFunc("/transition/peer-update", s.handleValidatePeerUpdate)

	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: s.withRequestID(s.withRateLimit(s.withBodyLimit(mux))),
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	go func() {
		s.logger.Sugar().Infow("Starting HTTP server", "port", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			s.logger.Sugar().Errorw("HTTP server error", "error", err)
		}
	}()
	return nil
}

// Stop stops the HTTP server
func (s *Server) Stop() error {
	return s.httpServer.Close()
}

// GetHandler returns the HTTP handler (for testing)
func (s *Server) GetHandler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, requestID)
		s.logger.Sugar().Debugw("Handling request", "request_id", requestID, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && r.URL.Path != "/health" && !s.limiter.Allow() {
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withBodyLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBytes)
		next.ServeHTTP(w, r)
	})
}
