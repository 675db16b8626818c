package ryysapptest

import (
	"strconv"
	"testing"
)

// Env provides a chainable builder for setting [ryysapp.BaseEnvironment] env vars
// via t.Setenv. Create one with [SetBaseEnv].
type Env struct {
	t testing.TB
}

// SetBaseEnv sets all [ryysapp.BaseEnvironment] env vars to test defaults.
// Port is required because each test must use a unique port to avoid collisions.
//
// Defaults:
//   - RYYS_SERVICE_NAME: "test"
//   - RYYS_HEALTH_PATH: "/health"
//   - RYYS_OTEL_EXPORTER: "none"
//   - RYYS_UPLOAD_BUCKET: ""
//   - AWS_REGION: "us-east-1"
//   - AWS_ACCESS_KEY_ID: "test"
//   - AWS_SECRET_ACCESS_KEY: "test"
//
// Use the returned [Env] to override individual values:
//
//	ryysapptest.SetBaseEnv(t, 18085).HealthPath("/ready").BodyLimitBytes(16)
func SetBaseEnv(t testing.TB, port int) *Env {
	t.Helper()
	t.Setenv("RYYS_PORT", strconv.Itoa(port))
	t.Setenv("RYYS_SERVICE_NAME", "test")
	t.Setenv("RYYS_HEALTH_PATH", "/health")
	t.Setenv("RYYS_OTEL_EXPORTER", "none")
	t.Setenv("RYYS_UPLOAD_BUCKET", "")
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	return &Env{t: t}
}

// ServiceName overrides RYYS_SERVICE_NAME.
func (e *Env) ServiceName(name string) *Env {
	e.t.Helper()
	e.t.Setenv("RYYS_SERVICE_NAME", name)
	return e
}

// HealthPath overrides RYYS_HEALTH_PATH.
func (e *Env) HealthPath(path string) *Env {
	e.t.Helper()
	e.t.Setenv("RYYS_HEALTH_PATH", path)
	return e
}

// BodyLimitBytes overrides RYYS_BODY_LIMIT_BYTES.
func (e *Env) BodyLimitBytes(n int64) *Env {
	e.t.Helper()
	e.t.Setenv("RYYS_BODY_LIMIT_BYTES", strconv.FormatInt(n, 10))
	return e
}

// UploadBucket overrides RYYS_UPLOAD_BUCKET.
func (e *Env) UploadBucket(bucket string) *Env {
	e.t.Helper()
	e.t.Setenv("RYYS_UPLOAD_BUCKET", bucket)
	return e
}
