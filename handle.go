package ryys

import (
	"github.com/cockroachdb/errors"
)

// ErrNilResponse is returned when a handler returns neither a response nor an error.
var ErrNilResponse = errors.New("ryys: handler returned nil response")

// Handler turns a request into a logical response. Failures are returned instead of written so
// that the outermost [Intercept] middleware can decide what the client gets to see.
type Handler interface {
	Handle(r *Request) (*Response, error)
}

// HandlerFunc allow casting a function to implement [Handler].
type HandlerFunc func(*Request) (*Response, error)

// Handle implements the [Handler] interface.
func (f HandlerFunc) Handle(r *Request) (*Response, error) {
	return f(r)
}
