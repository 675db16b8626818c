package ryys

import (
	"fmt"
	"maps"
	"regexp"
	"sync"

	"github.com/cockroachdb/errors"
)

// Route pairs a pattern with the handler it dispatches to. The pattern is a regular expression that
// continues exactly where the enclosing routers' matches left off; named groups become attributes.
type Route struct {
	Pattern string
	Handler Handler
}

// Router resolves a request path against its routes in order, first match wins. A [Router] can be
// used as the handler of another router's route: it then only sees the part of the path past all of
// its ancestors' matches.
type Router struct {
	routes []Route
	cache  *sync.Map // composite source -> *regexp.Regexp
}

// NewRouter inits a router. It panics when a pattern does not compile on its own, just like registering an
// invalid route would.
func NewRouter(routes ...Route) *Router {
	for _, rt := range routes {
		if _, err := regexp.Compile(rt.Pattern); err != nil {
			panic(fmt.Sprintf("ryys: invalid route pattern %q: %v", rt.Pattern, err))
		}

		if rt.Handler == nil {
			panic(fmt.Sprintf("ryys: nil handler for route pattern %q", rt.Pattern))
		}
	}

	return &Router{routes: routes, cache: &sync.Map{}}
}

// Routes returns the route table in match order.
func (rt *Router) Routes() []Route { return rt.routes }

// Handle implements [Handler]. It fails with a [NotFound] error when no route matches, without touching the
// request.
func (rt *Router) Handle(r *Request) (*Response, error) {
	prev := r.Attribute(PreviousRegexAttribute, "^")
	path := r.Path()

	for _, route := range rt.routes {
		composite := prev + route.Pattern

		re, err := rt.compile(composite)
		if err != nil {
			return nil, err
		}

		loc := re.FindStringSubmatchIndex(path)
		if loc == nil {
			continue
		}

		attrs := maps.Clone(r.attributes)
		if attrs == nil {
			attrs = make(map[string]string, len(re.SubexpNames()))
		}

		for i, name := range re.SubexpNames() {
			if name == "" || loc[2*i] < 0 {
				continue
			}

			attrs[name] = path[loc[2*i]:loc[2*i+1]]
		}

		attrs[PreviousRegexAttribute] = composite
		r.SetAttributes(attrs)

		return route.Handler.Handle(r)
	}

	return nil, NotFound("")
}

func (rt *Router) compile(composite string) (*regexp.Regexp, error) {
	if re, ok := rt.cache.Load(composite); ok {
		return re.(*regexp.Regexp), nil
	}

	re, err := regexp.Compile(composite)
	if err != nil {
		return nil, errors.Wrapf(err, "ryys: invalid composite route pattern %q", composite)
	}

	rt.cache.Store(composite, re)
	return re, nil
}
