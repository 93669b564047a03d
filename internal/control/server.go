package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"panelshell/internal/panel"
	"panelshell/internal/ui/textutil"
)

// DefaultAddr is where the server listens when none is configured.
const DefaultAddr = "127.0.0.1:7878"

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// Server accepts panel commands over HTTP.
type Server struct {
	addr  string
	sink  Sink
	board *Board
	log   zerolog.Logger
	srv   *http.Server
}

// NewServer creates a server for addr. board answers status queries
// and decides which panel names are known.
func NewServer(addr string, sink Sink, board *Board, log zerolog.Logger) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	s := &Server{
		addr:  addr,
		sink:  sink,
		board: board,
		log:   log.With().Str("component", "control").Logger(),
	}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /panels", s.handleCommand)
	mux.HandleFunc("GET /panels", s.handleStatus)
	return mux
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.addr }

// Serve listens until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("control listen %s: %w", s.addr, err)
	}
	s.log.Info().Str("addr", ln.Addr().String()).Msg("control server listening")

	errc := make(chan error, 1)
	go func() { errc <- s.srv.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("control shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(RequestIDHeader, id)

	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		s.reply(w, http.StatusBadRequest, Response{ID: id, Error: "invalid json: " + err.Error()})
		return
	}
	action, err := ParseAction(string(req.Action))
	if err != nil {
		s.reply(w, http.StatusBadRequest, Response{ID: id, Error: err.Error()})
		return
	}
	if req.Panel == "" {
		s.reply(w, http.StatusBadRequest, Response{ID: id, Error: "panel is required"})
		return
	}
	if !s.board.Known(req.Panel) {
		msg := fmt.Sprintf("unknown panel %q", req.Panel) + textutil.DidYouMean(req.Panel, s.board.Status().Panels)
		s.reply(w, http.StatusNotFound, Response{ID: id, Error: msg})
		return
	}

	reason := panel.ReasonRemote
	if req.Reason != "" {
		reason = panel.ParseReason(req.Reason)
	}
	if reason == panel.ReasonSuppress || reason == panel.ReasonUnsuppress {
		s.reply(w, http.StatusBadRequest, Response{ID: id, Error: fmt.Sprintf("reason %q is reserved for the panel manager", req.Reason)})
		return
	}
	cmd := Command{ID: id, Panel: req.Panel, Action: action, Reason: reason}
	s.log.Debug().
		Str("request_id", id).
		Str("panel", cmd.Panel).
		Str("action", string(cmd.Action)).
		Stringer("reason", cmd.Reason).
		Msg("control command")
	s.sink.Dispatch(cmd)
	s.reply(w, http.StatusAccepted, Response{ID: id, Accepted: true})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.reply(w, http.StatusOK, s.board.Status())
}

func (s *Server) reply(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Warn().Err(err).Msg("writing control response")
	}
}
