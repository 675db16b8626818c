// Package ryysapptest provides test helpers for ryysapp applications.
//
// It constructs the identical DI graph as [ryysapp.NewApp] but uses
// [fxtest.App] which fails the test immediately on DI errors.
//
// Example:
//
//	ryysapptest.SetBaseEnv(t, 18081)
//	app := ryysapptest.New[TestEnv](t, routing)
//	app.RequireStart()
//	t.Cleanup(app.RequireStop)
package ryysapptest

import (
	"testing"

	"github.com/ryys-dev/ryys/ryysapp"
	"go.uber.org/fx/fxtest"
)

// App embeds *fxtest.App for testing ryysapp applications.
type App struct {
	*fxtest.App
}

// New creates a test app with the same DI graph as [ryysapp.NewApp].
func New[E ryysapp.Environment](t testing.TB, routing any, opts ...ryysapp.Option) *App {
	return &App{App: fxtest.New(t, ryysapp.FxOptions[E](routing, opts...)...)}
}
