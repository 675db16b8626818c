package ryysapp

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ryys-dev/ryys"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ServerConfig holds optional configuration for the HTTP server.
type ServerConfig struct {
	HealthHandler ryys.HandlerFunc
}

// ServerParams holds the dependencies for creating an HTTP server.
type ServerParams struct {
	fx.In

	Env        Environment
	Mux        *ryys.ServeMux
	Logger     *zap.Logger
	TracerProv trace.TracerProvider
	Propagator propagation.TextMapPropagator
}

// NewMux creates the app's mux, logging through zap and limiting bodies as configured.
func NewMux(env Environment, logger *zap.Logger) *ryys.ServeMux {
	return ryys.NewServeMuxWith(NewRyysLogger(logger),
		ryys.WithBodyParserOptions(env.bodyParser()))
}

// NewServer creates an HTTP server with all middleware and the health route configured. The health
// route is registered first so application routes cannot shadow it.
func NewServer(params ServerParams, cfg ServerConfig) *http.Server {
	params.Mux.Use(WithRequestLogger(params.Logger))

	healthPath := params.Env.healthPath()
	healthHandler := cfg.HealthHandler
	if healthHandler == nil {
		healthHandler = defaultHealthHandler
	}
	params.Mux.Route(regexp.QuoteMeta(healthPath)+"$", healthHandler)

	// Health probes are not traced to avoid noisy orphan traces.
	handler := withTracing(params.TracerProv, params.Propagator, params.Env.serviceName(), healthPath)(
		withRequestID(params.Mux))

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", params.Env.port()),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// startServerHook registers lifecycle hooks for the HTTP server.
func startServerHook(lc fx.Lifecycle, server *http.Server, env Environment, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", server.Addr)
			if err != nil {
				return errors.Wrapf(err, "failed to listen on %s", server.Addr)
			}

			logger.Info("server listening", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping server")

			ctx, cancel := context.WithTimeout(ctx, env.shutdownTimeout())
			defer cancel()
			return server.Shutdown(ctx)
		},
	})
}

func defaultHealthHandler(*ryys.Request) (*ryys.Response, error) {
	return ryys.NewResponse(http.StatusOK).Text("OK"), nil
}
