package ryys

import (
	"log"
	"net/http"
	"sync"

	"github.com/samber/lo"
)

// ServeMux wires a route table, the default middleware and user middleware into a single
// http.Handler. Routes are matched in registration order.
type ServeMux struct {
	logs        Logger
	opts        []ServerOption
	routes      []Route
	middlewares []Middleware

	routed  bool
	serving bool
	once    sync.Once
	server  *Server
}

// NewServeMux creates a new ServeMux with default settings.
func NewServeMux() *ServeMux {
	return NewServeMuxWith(NewStdLogger(log.Default()))
}

// NewServeMuxWith creates a ServeMux with custom settings. The logger is shared by the error interceptor
// and the dispatcher.
func NewServeMuxWith(logger Logger, opts ...ServerOption) *ServeMux {
	return &ServeMux{
		logs: logger,
		opts: append([]ServerOption{WithLogger(logger)}, opts...),
	}
}

// Use allows providing of middleware. It runs after error interception and cookie parsing, in the
// order given, for every request including those that match no route. It must be called before any
// route is registered.
func (m *ServeMux) Use(mw ...Middleware) {
	m.ensureNotServing("Use")
	m.ensureNoUseAfterRoute()
	m.middlewares = append(m.middlewares, mw...)
}

// Route registers handler for the pattern.
func (m *ServeMux) Route(pattern string, handler Handler) {
	m.ensureNotServing("Route")
	m.routes = append(m.routes, NewRouter(Route{Pattern: pattern, Handler: handler}).routes...)
	m.routed = true
}

// RouteFunc registers a function for the pattern.
func (m *ServeMux) RouteFunc(pattern string, handler HandlerFunc) {
	m.Route(pattern, handler)
}

// Routes returns the registered patterns in match order.
func (m *ServeMux) Routes() []string {
	return lo.Map(m.routes, func(r Route, _ int) string { return r.Pattern })
}

// Handler builds the root handler: intercept, cookies, user middleware, router.
func (m *ServeMux) Handler() Handler {
	return Chain(NewRouter(m.routes...), append([]Middleware{Intercept(m.logs), ParseCookies}, m.middlewares...)...)
}

// ServeHTTP makes the server mux implement the http.Handler interface. The route table is frozen on the
// first request.
func (m *ServeMux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.once.Do(func() {
		m.serving = true
		m.server = NewServer(m.Handler(), m.opts...)
	})

	m.server.ServeHTTP(w, r)
}

func (m *ServeMux) ensureNoUseAfterRoute() {
	if m.routed {
		panic("ryys: cannot call Use() after calling Route")
	}
}

func (m *ServeMux) ensureNotServing(method string) {
	if m.serving {
		panic("ryys: cannot call " + method + "() after the mux started serving")
	}
}
