package ryys

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
)

// Code mirrors the http status codes. Public errors carry one so the interceptor can answer with it.
type Code int

const (
	CodeUnknown                      Code = 0
	CodeBadRequest                   Code = http.StatusBadRequest                   // RFC 9110, 15.5.1
	CodeUnauthorized                 Code = http.StatusUnauthorized                 // RFC 9110, 15.5.2
	CodePaymentRequired              Code = http.StatusPaymentRequired              // RFC 9110, 15.5.3
	CodeForbidden                    Code = http.StatusForbidden                    // RFC 9110, 15.5.4
	CodeNotFound                     Code = http.StatusNotFound                     // RFC 9110, 15.5.5
	CodeMethodNotAllowed             Code = http.StatusMethodNotAllowed             // RFC 9110, 15.5.6
	CodeNotAcceptable                Code = http.StatusNotAcceptable                // RFC 9110, 15.5.7
	CodeProxyAuthRequired            Code = http.StatusProxyAuthRequired            // RFC 9110, 15.5.8
	CodeRequestTimeout               Code = http.StatusRequestTimeout               // RFC 9110, 15.5.9
	CodeConflict                     Code = http.StatusConflict                     // RFC 9110, 15.5.10
	CodeGone                         Code = http.StatusGone                         // RFC 9110, 15.5.11
	CodeLengthRequired               Code = http.StatusLengthRequired               // RFC 9110, 15.5.12
	CodePreconditionFailed           Code = http.StatusPreconditionFailed           // RFC 9110, 15.5.13
	CodeRequestEntityTooLarge        Code = http.StatusRequestEntityTooLarge        // RFC 9110, 15.5.14
	CodeRequestURITooLong            Code = http.StatusRequestURITooLong            // RFC 9110, 15.5.15
	CodeUnsupportedMediaType         Code = http.StatusUnsupportedMediaType         // RFC 9110, 15.5.16
	CodeRequestedRangeNotSatisfiable Code = http.StatusRequestedRangeNotSatisfiable // RFC 9110, 15.5.17
	CodeExpectationFailed            Code = http.StatusExpectationFailed            // RFC 9110, 15.5.18
	CodeTeapot                       Code = http.StatusTeapot                       // RFC 9110, 15.5.19 (Unused)
	CodeMisdirectedRequest           Code = http.StatusMisdirectedRequest           // RFC 9110, 15.5.20
	CodeUnprocessableEntity          Code = http.StatusUnprocessableEntity          // RFC 9110, 15.5.21
	CodeLocked                       Code = http.StatusLocked                       // RFC 4918, 11.3
	CodeFailedDependency             Code = http.StatusFailedDependency             // RFC 4918, 11.4
	CodeTooEarly                     Code = http.StatusTooEarly                     // RFC 8470, 5.2.
	CodeUpgradeRequired              Code = http.StatusUpgradeRequired              // RFC 9110, 15.5.22
	CodePreconditionRequired         Code = http.StatusPreconditionRequired         // RFC 6585, 3
	CodeTooManyRequests              Code = http.StatusTooManyRequests              // RFC 6585, 4
	CodeRequestHeaderFieldsTooLarge  Code = http.StatusRequestHeaderFieldsTooLarge  // RFC 6585, 5
	CodeUnavailableForLegalReasons   Code = http.StatusUnavailableForLegalReasons   // RFC 7725, 3

	CodeInternalServerError           Code = http.StatusInternalServerError           // RFC 9110, 15.6.1
	CodeNotImplemented                Code = http.StatusNotImplemented                // RFC 9110, 15.6.2
	CodeBadGateway                    Code = http.StatusBadGateway                    // RFC 9110, 15.6.3
	CodeServiceUnavailable            Code = http.StatusServiceUnavailable            // RFC 9110, 15.6.4
	CodeGatewayTimeout                Code = http.StatusGatewayTimeout                // RFC 9110, 15.6.5
	CodeHTTPVersionNotSupported       Code = http.StatusHTTPVersionNotSupported       // RFC 9110, 15.6.6
	CodeVariantAlsoNegotiates         Code = http.StatusVariantAlsoNegotiates         // RFC 2295, 8.1
	CodeInsufficientStorage           Code = http.StatusInsufficientStorage           // RFC 4918, 11.5
	CodeLoopDetected                  Code = http.StatusLoopDetected                  // RFC 5842, 7.2
	CodeNotExtended                   Code = http.StatusNotExtended                   // RFC 2774, 7
	CodeNetworkAuthenticationRequired Code = http.StatusNetworkAuthenticationRequired // RFC 6585, 6
)

// valid reports whether c can go on a status line. Anything else is answered like [CodeUnknown].
func (c Code) valid() bool { return c >= 100 && c <= 999 }

// Names used when rendering public errors.
const (
	PublicErrorName   = "PublicError"
	NotFoundErrorName = "NotFoundError"
)

// Error is a client-safe failure. Its code and message are rendered verbatim by the
// [Intercept] middleware, so never put internal detail in the message. The optional
// cause is kept for logging and errors.Is/As but is never written to the wire.
type Error struct {
	code  Code
	name  string
	msg   string
	cause error
}

// NewError inits a new public error given the code and an optional message.
func NewError(c Code, msg string) *Error {
	return &Error{code: c, name: PublicErrorName, msg: msg}
}

// Errorf is like [NewError] but formats the message.
func Errorf(c Code, format string, args ...any) *Error {
	return NewError(c, fmt.Sprintf(format, args...))
}

// NotFound returns the status-fixed 404 error used by the router.
func NotFound(msg string) *Error {
	return &Error{code: CodeNotFound, name: NotFoundErrorName, msg: msg}
}

// Wrap returns a copy of e that records cause as the underlying error.
func (e *Error) Wrap(cause error) *Error {
	cpy := *e
	cpy.cause = cause

	return &cpy
}

func (e *Error) Code() Code      { return e.code }
func (e *Error) Name() string    { return e.name }
func (e *Error) Message() string { return e.msg }
func (e *Error) Unwrap() error   { return e.cause }

// Render returns the client-facing text: "<Name>: <message>", omitting empty parts.
func (e *Error) Render() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{e.name, e.msg} {
		if p != "" {
			parts = append(parts, p)
		}
	}

	return strings.Join(parts, ": ")
}

func (e *Error) Error() string {
	status := http.StatusText(int(e.Code()))
	if status == "" {
		status = "Unknown"
	}

	if e.cause == nil {
		return fmt.Sprintf("%s (%s)", e.Render(), status)
	}

	return fmt.Sprintf("%s (%s): %v", e.Render(), status, e.cause)
}

// CodeOf returns the error's status code if it is or wraps an [*Error] with a usable code and
// [CodeUnknown] otherwise.
func CodeOf(err error) Code {
	if pubErr, ok := AsError(err); ok && pubErr.Code().valid() {
		return pubErr.Code()
	}
	return CodeUnknown
}

// AsError uses errors.As to unwrap any error and look for a public *Error.
func AsError(err error) (*Error, bool) {
	var pubErr *Error
	ok := errors.As(err, &pubErr)
	return pubErr, ok
}
