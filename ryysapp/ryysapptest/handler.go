package ryysapptest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ryys-dev/ryys"
)

// CallHandler dispatches req to handler behind the default chain (error interception and cookie
// parsing) and returns the recorded response. Failures are logged to the test.
func CallHandler(tb testing.TB, handler ryys.Handler, req *http.Request, opts ...ryys.ServerOption) *httptest.ResponseRecorder {
	tb.Helper()

	logs := ryys.NewTestLogger(tb)
	srv := ryys.NewServer(ryys.Default(handler, logs), append([]ryys.ServerOption{ryys.WithLogger(logs)}, opts...)...)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	return rec
}
