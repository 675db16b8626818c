package ryys_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/ryys-dev/ryys"
	"github.com/stretchr/testify/require"
)

func intercepted(t *testing.T, h ryys.HandlerFunc) (*ryys.Response, *ryys.TestLogger) {
	t.Helper()

	logs := ryys.NewTestLogger(t)
	res, err := ryys.Chain(h, ryys.Intercept(logs)).Handle(newRequest(t, httptest.NewRequest(http.MethodGet, "/", nil)))
	require.NoError(t, err)
	require.NotNil(t, res)

	return res, logs
}

func TestInterceptPassesResponses(t *testing.T) {
	want := ryys.NewResponse(http.StatusAccepted).Text("ok")
	res, logs := intercepted(t, func(*ryys.Request) (*ryys.Response, error) { return want, nil })

	require.Same(t, want, res)
	require.Zero(t, logs.NumLogUnhandledError)
}

func TestInterceptRendersPublicErrors(t *testing.T) {
	res, logs := intercepted(t, func(*ryys.Request) (*ryys.Response, error) {
		return nil, errors.Wrap(ryys.NewError(ryys.CodeBadRequest, "bad input").Wrap(errors.New("secret detail")), "ctx")
	})

	require.Equal(t, http.StatusBadRequest, res.Code())
	require.Equal(t, "PublicError: bad input", res.Body())
	require.Equal(t, "text/plain", res.Header().Get("Content-Type"))
	require.Zero(t, logs.NumLogUnhandledError)
}

func TestInterceptHidesInternalErrors(t *testing.T) {
	res, logs := intercepted(t, func(*ryys.Request) (*ryys.Response, error) {
		return nil, errors.New("db password is hunter2")
	})

	require.Equal(t, http.StatusInternalServerError, res.Code())
	require.Nil(t, res.Body())
	require.Empty(t, res.Header())
	require.EqualValues(t, 1, logs.NumLogUnhandledError)
}

func TestInterceptTreatsUnknownCodeAsInternal(t *testing.T) {
	res, logs := intercepted(t, func(*ryys.Request) (*ryys.Response, error) {
		return nil, ryys.NewError(ryys.CodeUnknown, "weird")
	})

	require.Equal(t, http.StatusInternalServerError, res.Code())
	require.Nil(t, res.Body())
	require.EqualValues(t, 1, logs.NumLogUnhandledError)
}

func TestInterceptTreatsOutOfRangeCodeAsInternal(t *testing.T) {
	for _, code := range []ryys.Code{42, 1000} {
		res, logs := intercepted(t, func(*ryys.Request) (*ryys.Response, error) {
			return nil, ryys.NewError(code, "odd")
		})

		require.Equal(t, http.StatusInternalServerError, res.Code())
		require.Nil(t, res.Body())
		require.EqualValues(t, 1, logs.NumLogUnhandledError)
	}
}

func TestInterceptRecoversPanics(t *testing.T) {
	res, logs := intercepted(t, func(*ryys.Request) (*ryys.Response, error) {
		panic("some panic")
	})

	require.Equal(t, http.StatusInternalServerError, res.Code())
	require.EqualValues(t, 1, logs.NumLogUnhandledError)
}

func TestInterceptNilResponse(t *testing.T) {
	res, logs := intercepted(t, func(*ryys.Request) (*ryys.Response, error) { return nil, nil })

	require.Equal(t, http.StatusInternalServerError, res.Code())
	require.EqualValues(t, 1, logs.NumLogUnhandledError)
}
