package ryys

// Middleware for cross-cutting concerns. It receives the next handler and returns the handler that
// runs in front of it.
type Middleware func(next Handler) Handler

// Chain takes the inner handler h and wraps it with middleware. The order is that of the Gorilla and Chi router.
// That is: the middleware provided first is called first and is the "outer" most wrapping, the middleware provided
// last will be the "inner most" wrapping (closest to the handler).
func Chain(h Handler, m ...Middleware) Handler {
	if len(m) < 1 {
		return h
	}

	wrapped := h
	for i := len(m) - 1; i >= 0; i-- {
		wrapped = m[i](wrapped)
	}

	return wrapped
}
