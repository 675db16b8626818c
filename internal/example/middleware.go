// Package example implements example middleware in an outside package.
package example

import (
	"log/slog"

	"github.com/ryys-dev/ryys"
)

const storeKey = "example.slog"

// Middleware provides an example for middleware that hands a logger to the handlers behind it.
func Middleware(logs *slog.Logger) ryys.Middleware {
	return func(n ryys.Handler) ryys.Handler {
		return ryys.HandlerFunc(func(r *ryys.Request) (*ryys.Response, error) {
			r.Set(storeKey, logs.With(slog.String("method", r.Method())))

			return n.Handle(r)
		})
	}
}

// Log returns the logger stored by [Middleware], or nil.
func Log(r *ryys.Request) *slog.Logger {
	v, _ := ryys.StoreValue[*slog.Logger](r, storeKey)

	return v
}
