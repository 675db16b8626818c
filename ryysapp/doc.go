// Package ryysapp assembles a runnable service around a [ryys.ServeMux].
//
// # Overview
//
// [NewApp] builds an fx application that provides:
//
//   - the environment, parsed from RYYS_* variables into your type embedding [BaseEnvironment]
//   - a zap logger, also used for the pipeline's own failures
//   - an OpenTelemetry tracer provider and propagator (stdout, xrayudp or none)
//   - a [ryys.ServeMux] with request ids, access logs and a health route
//   - an S3 backed [Uploads] store for multipart files
//   - a [Runtime] handing out the environment, the uploads and a traced outbound HTTP client
//
// A minimal app:
//
//	type Env struct {
//	    ryysapp.BaseEnvironment
//	}
//
//	func main() {
//	    ryysapp.NewApp[Env](func(m *ryys.ServeMux, rt *ryysapp.Runtime[Env]) {
//	        m.RouteFunc(`/hello/(?<name>\w+)$`, func(r *ryys.Request) (*ryys.Response, error) {
//	            ryysapp.Log(r).Info("greeting")
//	            return ryys.NewResponse().Text("hello " + r.Attribute("name")), nil
//	        })
//	    }).Run()
//	}
//
// # Environment
//
//   - RYYS_PORT (required): port to listen on
//   - RYYS_SERVICE_NAME (required): service name in traces
//   - RYYS_HEALTH_PATH: health route, default /health
//   - RYYS_LOG_LEVEL: debug, info, warn or error, default info
//   - RYYS_OTEL_EXPORTER: stdout, xrayudp or none, default stdout
//   - RYYS_BODY_LIMIT_BYTES, RYYS_MAX_FILES, RYYS_MAX_FILE_SIZE_BYTES: body limits
//   - RYYS_UPLOAD_BUCKET: S3 bucket for [Uploads], disabled when empty
//   - RYYS_SHUTDOWN_TIMEOUT: graceful shutdown bound, default 10s
//
// # Request scope
//
// [Log] returns a logger carrying the request id and, when traced, the trace and span ids. [RequestID]
// returns the id alone; it is taken from the X-Request-Id header or generated.
package ryysapp
