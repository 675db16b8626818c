package ryys

import (
	"net/http"
	"runtime/debug"

	"github.com/cockroachdb/errors"
)

// Intercept returns the outermost middleware. Public errors from the rest of the chain are answered
// verbatim as text, everything else (including panics) is logged and answered with a bare 500. It is the
// only place where internal failures are turned into client-safe output.
func Intercept(logs Logger) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(r *Request) (res *Response, err error) {
			defer func() {
				if e := recover(); e != nil {
					logs.LogUnhandledError(errors.Newf("panic: %v\n%s", e, debug.Stack()))
					res, err = NewResponse(http.StatusInternalServerError), nil
				}
			}()

			res, err = next.Handle(r)
			if err == nil {
				if res == nil {
					logs.LogUnhandledError(ErrNilResponse)
					return NewResponse(http.StatusInternalServerError), nil
				}
				return res, nil
			}

			if pubErr, ok := AsError(err); ok && pubErr.Code().valid() {
				return NewResponse(int(pubErr.Code())).Text(pubErr.Render()), nil
			}

			logs.LogUnhandledError(err)
			return NewResponse(http.StatusInternalServerError), nil
		})
	}
}
