// Package server exposes the calculation engine over HTTP. Routes, status
// codes, and response envelopes follow the calculator API: 200 with a result
// field on success, 409 with an errorMessage field on calculation failures,
// 400 for malformed requests and bad logger parameters.
// Implements: prd006-calculator-api (R1-R9); rel01.0-uc003-calculation-history.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"

	"gopkg.in/tomb.v2"

	"github.com/mesh-intelligence/abacus/internal/logging"
	"github.com/mesh-intelligence/abacus/internal/tape"
	"github.com/mesh-intelligence/abacus/pkg/calc"
	"github.com/mesh-intelligence/abacus/pkg/types"
)

// Server serves the calculator API over one listener. The serve goroutine is
// tomb-managed so shutdown can distinguish a requested stop from a crash.
type Server struct {
	cfg    types.Config
	engine *calc.Calculator
	store  *tape.Dual
	logs   *logging.Registry

	// requests numbers incoming requests starting at 1.
	requests atomic.Uint64

	addr string
	http *http.Server
	tomb tomb.Tomb
}

// New builds a server around the engine, the dual tape, and the logger
// registry. Call Start to begin serving.
func New(cfg types.Config, engine *calc.Calculator, store *tape.Dual, logs *logging.Registry) *Server {
	s := &Server{
		cfg:    cfg,
		engine: engine,
		store:  store,
		logs:   logs,
	}
	s.http = &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: s.routes(),
	}
	return s
}

// routes builds the mux. Method patterns keep dispatch in the mux; the
// middleware numbers every request before it reaches a handler.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /calculator/health", s.handleHealth)
	mux.HandleFunc("POST /calculator/independent/calculate", s.handleIndependentCalculate)
	mux.HandleFunc("GET /calculator/stack/size", s.handleStackSize)
	mux.HandleFunc("PUT /calculator/stack/arguments", s.handleStackPush)
	mux.HandleFunc("GET /calculator/stack/operate", s.handleStackOperate)
	mux.HandleFunc("DELETE /calculator/stack/arguments", s.handleStackDelete)
	mux.HandleFunc("GET /calculator/history", s.handleHistory)
	mux.HandleFunc("GET /logs/level", s.handleGetLogLevel)
	mux.HandleFunc("PUT /logs/level", s.handleSetLogLevel)

	return s.numbered(mux)
}

// Start binds the listen address and begins serving in a managed goroutine.
// It returns once the listener is bound, so the port is open when it does.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("binding %s: %w", s.cfg.ListenAddr, err)
	}
	s.addr = ln.Addr().String()

	s.tomb.Go(func() error {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	})

	s.logs.Logger(logging.RequestLogger).Info(fmt.Sprintf("Listening on %s", s.addr))
	return nil
}

// Addr returns the bound address. Only valid after Start.
func (s *Server) Addr() string {
	return s.addr
}

// Dying is closed when the serve goroutine terminates on its own, for
// example when the listener fails.
func (s *Server) Dying() <-chan struct{} {
	return s.tomb.Dying()
}

// Stop drains in-flight requests within ctx's deadline, then reaps the serve
// goroutine.
func (s *Server) Stop(ctx context.Context) error {
	err := s.http.Shutdown(ctx)

	s.tomb.Kill(nil)
	if werr := s.tomb.Wait(); werr != nil && !errors.Is(werr, tomb.ErrDying) && err == nil {
		err = werr
	}
	return err
}
