package ryys

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
)

// DefaultShutdownTimeout bounds how long in-flight requests may take once the serving context is done.
const DefaultShutdownTimeout = 10 * time.Second

// Server is the dispatcher: it builds a [Request] per inbound message, runs the root handler and commits
// the resulting [Response] through its emitter.
type Server struct {
	handler         Handler
	cfg             RequestConfig
	shutdownTimeout time.Duration
}

// ServerOption configures a [Server].
type ServerOption func(*Server)

// WithLogger sets the logger for failures that are not sent to the client.
func WithLogger(l Logger) ServerOption {
	return func(s *Server) { s.cfg.Logger = l }
}

// WithBodyParserOptions sets the limits for the body accessors.
func WithBodyParserOptions(o BodyParserOptions) ServerOption {
	return func(s *Server) { s.cfg.BodyParser = o }
}

// WithCollaborators replaces the byte-level helpers used by body accessors and emitters.
func WithCollaborators(c Collaborators) ServerOption {
	return func(s *Server) { s.cfg.Collaborators = c }
}

// WithShutdownTimeout bounds graceful shutdown in [Server.Serve].
func WithShutdownTimeout(d time.Duration) ServerOption {
	return func(s *Server) { s.shutdownTimeout = d }
}

// NewServer inits a dispatcher for the root handler h. The root handler is usually the chain built by
// [Default] or a [ServeMux].
func NewServer(h Handler, opts ...ServerOption) *Server {
	s := &Server{handler: h, shutdownTimeout: DefaultShutdownTimeout}
	for _, opt := range opts {
		opt(s)
	}

	if s.cfg.Logger == nil {
		s.cfg.Logger = NewStdLogger(log.Default())
	}

	s.cfg.BodyParser = s.cfg.BodyParser.withDefaults()
	s.cfg.Collaborators = s.cfg.Collaborators.withDefaults()

	return s
}

// Default wraps router with the standard chain: error interception outermost, then cookie parsing.
func Default(router Handler, logs Logger) Handler {
	return Chain(router, Intercept(logs), ParseCookies)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := NewRequest(r, s.cfg)
	if err != nil {
		s.cfg.Logger.LogUnhandledError(err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	res, err := s.handler.Handle(req)
	if err == nil && res == nil {
		err = ErrNilResponse
	}

	if err != nil {
		// if all fails we don't want the client to end up with a white screen so
		// we render a bare 500.
		s.cfg.Logger.LogUnhandledError(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	s.commit(r.Context(), w, res)
}

func (s *Server) commit(ctx context.Context, w http.ResponseWriter, res *Response) {
	emitter := res.Emitter()
	if emitter == nil {
		emitter = emptyEmitter{res}
	}

	if se, ok := emitter.(sniffingEmitter); ok {
		se.useSniffer(s.cfg.Collaborators.Sniffer)
	}

	tw := &trackingWriter{ResponseWriter: w}
	if err := emitter.Emit(ctx, tw); err != nil {
		s.cfg.Logger.LogEmitError(err)

		// Once the status line is out there is nothing left to recover.
		if !tw.wroteHeader {
			clear(w.Header())
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
}

// ListenAndServe binds the TCP port on all interfaces and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return errors.Wrapf(err, "ryys: failed to listen on port %d", port)
	}

	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	s.cfg.Logger.LogListening(ln.Addr().String())

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "ryys: server stopped")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "ryys: failed to shut down")
		}

		return nil
	}
}
