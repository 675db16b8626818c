package ryys_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/ryys-dev/ryys"
	"github.com/stretchr/testify/require"
)

func TestErrorCode(t *testing.T) {
	err1 := ryys.NewError(ryys.CodeBadRequest, "foo")
	require.Equal(t, ryys.Code(400), err1.Code())
	require.Equal(t, ryys.CodeBadRequest, ryys.CodeOf(err1))
	require.Equal(t, "PublicError: foo (Bad Request)", err1.Error())

	require.Equal(t, ryys.CodeUnknown, ryys.CodeOf(errors.New("bar")))
	require.Equal(t, ryys.CodeUnknown, ryys.CodeOf(ryys.NewError(42, "not a status")))
	require.Equal(t, "PublicError: rab (Unknown)", ryys.NewError(900, "rab").Error())
}

func TestErrorRender(t *testing.T) {
	require.Equal(t, "PublicError: bad input", ryys.NewError(ryys.CodeBadRequest, "bad input").Render())
	require.Equal(t, "PublicError", ryys.NewError(ryys.CodeInternalServerError, "").Render())
	require.Equal(t, "NotFoundError", ryys.NotFound("").Render())
	require.Equal(t, "NotFoundError: no such user", ryys.NotFound("no such user").Render())
	require.Equal(t, "PublicError: item 42 is gone", ryys.Errorf(ryys.CodeGone, "item %d is gone", 42).Render())
}

func TestErrorWrap(t *testing.T) {
	cause := errors.New("disk on fire")
	base := ryys.NewError(ryys.CodeBadRequest, "nope")
	wrapped := base.Wrap(cause)

	require.NoError(t, base.Unwrap())
	require.ErrorIs(t, wrapped, cause)
	require.Equal(t, "PublicError: nope", wrapped.Render())
	require.Contains(t, wrapped.Error(), "disk on fire")

	outer := errors.Wrap(wrapped, "while handling")
	pubErr, ok := ryys.AsError(outer)
	require.True(t, ok)
	require.Equal(t, ryys.CodeBadRequest, pubErr.Code())
	require.Equal(t, "nope", pubErr.Message())
	require.Equal(t, ryys.PublicErrorName, pubErr.Name())
}
