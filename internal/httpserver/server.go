// Package httpserver exposes a decoded trace over HTTP: a JSON/NDJSON
// call listing and an SVG timeline, with graceful shutdown on SIGINT/
// SIGTERM.
package httpserver

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/mysticbob/apitrace/internal/render"
	"github.com/mysticbob/apitrace/trace"
)

// Server serves an already-decoded list of calls.
type Server struct {
	Calls []*trace.Call
	// Colors is the default timeline palette, overridable per request
	// via the ?colors= and ?color-rule= query parameters.
	Colors render.Colors

	server *http.Server
	ctx    context.Context
	cancel context.CancelFunc
}

// New builds a Server bound to addr. An empty addr picks an available
// local port. colors supplies the timeline's default palette size and
// coloring rule.
func New(addr string, calls []*trace.Call, colors render.Colors) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		Calls:  calls,
		Colors: colors,
		ctx:    ctx,
		cancel: cancel,
	}
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router(),
	}
	return s
}

// Run listens and serves until ctx is canceled or a termination signal
// arrives, whichever comes first. It reports the bound address to
// addrCh as soon as the listener is up.
func (s *Server) Run(ctx context.Context, addrCh chan<- string) error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	s.server.Addr = listener.Addr().String()
	if addrCh != nil {
		addrCh <- s.server.Addr
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sig)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		select {
		case <-sig:
		case <-gctx.Done():
		}
		return s.server.Shutdown(context.Background())
	})
	g.Go(func() error {
		err := s.server.Serve(listener)
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	})
	return g.Wait()
}

// Addr returns the address the server is (or will be) bound to.
func (s *Server) Addr() string { return s.server.Addr }

func (s *Server) router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/calls", s.handleCalls).Methods(http.MethodGet)
	api.HandleFunc("/calls.ndjson", s.handleCallsNDJSON).Methods(http.MethodGet)
	api.HandleFunc("/timeline.svg", s.handleTimelineSVG).Methods(http.MethodGet)
	return r
}
