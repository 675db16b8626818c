package ryysapp

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/ryys-dev/ryys"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestIDHeader is read from inbound requests and echoed on every response.
const RequestIDHeader = "X-Request-Id"

const (
	storeKeyLogger    = "ryysapp.logger"
	storeKeyRequestID = "ryysapp.requestID"
)

// NewLogger creates a zap logger configured from the environment.
// Uses JSON encoding with ISO8601 timestamps, RYYS_LOG_LEVEL controls the level.
func NewLogger(env Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(env.logLevel())
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

type zapLogger struct{ *zap.Logger }

func (l zapLogger) LogUnhandledError(err error) {
	l.Logger.Error("unhandled error in request handler", zap.Error(err))
}

func (l zapLogger) LogEmitError(err error) {
	l.Logger.Error("error while emitting response", zap.Error(err))
}

func (l zapLogger) LogBodyParseError(err error) {
	l.Logger.Error("error parsing request body", zap.Error(err))
}

func (l zapLogger) LogListening(addr string) {
	l.Logger.Info("server listening", zap.String("addr", addr))
}

// NewRyysLogger adapts a zap logger to the pipeline's [ryys.Logger].
func NewRyysLogger(l *zap.Logger) ryys.Logger {
	return zapLogger{l.Named("ryys")}
}

// withRequestID makes sure every inbound request carries an id and echoes it on the response before the
// pipeline runs, so it also reaches responses the interceptor builds from errors.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(RequestIDHeader, id)
		}

		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// WithRequestLogger stores a request-scoped logger and request id on every request and writes one access
// log line per request. The id is set on successful responses; mounted through [NewServer] it is echoed on
// error responses as well.
func WithRequestLogger(logs *zap.Logger) ryys.Middleware {
	return func(next ryys.Handler) ryys.Handler {
		return ryys.HandlerFunc(func(r *ryys.Request) (*ryys.Response, error) {
			start := time.Now()

			id := r.Header().Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}

			rlogs := logs.With(append([]zap.Field{zap.String("request_id", id)}, traceFields(r)...)...)
			r.Set(storeKeyRequestID, id)
			r.Set(storeKeyLogger, rlogs)

			res, err := next.Handle(r)
			if res != nil {
				res.Header().Set(RequestIDHeader, id)
			}

			rlogs.Info("request",
				zap.String("method", r.Method()),
				zap.String("path", r.Path()),
				zap.Int("status", statusOf(res, err)),
				zap.Duration("duration", time.Since(start)))

			return res, err
		})
	}
}

// statusOf predicts the status the interceptor will answer with.
func statusOf(res *ryys.Response, err error) int {
	switch {
	case err == nil && res != nil:
		return res.Code()
	case ryys.CodeOf(err) != ryys.CodeUnknown:
		return int(ryys.CodeOf(err))
	default:
		return 500
	}
}

// Log returns the request-scoped, trace-correlated logger.
func Log(r *ryys.Request) *zap.Logger {
	l, ok := ryys.StoreValue[*zap.Logger](r, storeKeyLogger)
	if !ok {
		panic("ryysapp: logger not found in request; is the WithRequestLogger middleware configured?")
	}
	return l
}

// RequestID returns the id assigned by [WithRequestLogger], or "".
func RequestID(r *ryys.Request) string {
	id, _ := ryys.StoreValue[string](r, storeKeyRequestID)
	return id
}

// Span returns the current trace span of the request.
func Span(r *ryys.Request) trace.Span {
	return trace.SpanFromContext(r.Context())
}

// traceFields extracts trace_id and span_id for log correlation.
func traceFields(r *ryys.Request) []zap.Field {
	sc := Span(r).SpanContext()
	if !sc.IsValid() {
		return nil
	}
	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}
