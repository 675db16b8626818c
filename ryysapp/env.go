package ryysapp

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"github.com/ryys-dev/ryys"
	"go.uber.org/zap/zapcore"
)

// Environment defines the interface that all environment configurations must implement.
// Embed BaseEnvironment in your struct to satisfy this interface.
type Environment interface {
	port() int
	serviceName() string
	healthPath() string
	logLevel() zapcore.Level
	otelExporter() string
	bodyParser() ryys.BodyParserOptions
	uploadBucket() string
	shutdownTimeout() time.Duration
}

// BaseEnvironment contains the environment variables every app reads.
// Embed this in your custom environment struct.
type BaseEnvironment struct {
	Port             int           `env:"RYYS_PORT,required"`
	ServiceName      string        `env:"RYYS_SERVICE_NAME,required"`
	HealthPath       string        `env:"RYYS_HEALTH_PATH" envDefault:"/health"`
	LogLevel         zapcore.Level `env:"RYYS_LOG_LEVEL" envDefault:"info"`
	OtelExporter     string        `env:"RYYS_OTEL_EXPORTER" envDefault:"stdout"`
	BodyLimitBytes   int64         `env:"RYYS_BODY_LIMIT_BYTES" envDefault:"1048576"`
	MaxFiles         int           `env:"RYYS_MAX_FILES" envDefault:"10"`
	MaxFileSizeBytes int64         `env:"RYYS_MAX_FILE_SIZE_BYTES" envDefault:"5242880"`
	// UploadBucket is the S3 bucket [Uploads] writes to. Uploads are disabled when empty.
	UploadBucket    string        `env:"RYYS_UPLOAD_BUCKET"`
	ShutdownTimeout time.Duration `env:"RYYS_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func (e BaseEnvironment) port() int                      { return e.Port }
func (e BaseEnvironment) serviceName() string            { return e.ServiceName }
func (e BaseEnvironment) healthPath() string             { return e.HealthPath }
func (e BaseEnvironment) logLevel() zapcore.Level        { return e.LogLevel }
func (e BaseEnvironment) otelExporter() string           { return e.OtelExporter }
func (e BaseEnvironment) uploadBucket() string           { return e.UploadBucket }
func (e BaseEnvironment) shutdownTimeout() time.Duration { return e.ShutdownTimeout }

func (e BaseEnvironment) bodyParser() ryys.BodyParserOptions {
	return ryys.BodyParserOptions{
		BodyLimitBytes:   e.BodyLimitBytes,
		MaxFiles:         e.MaxFiles,
		MaxFileSizeBytes: e.MaxFileSizeBytes,
	}
}

var _ Environment = BaseEnvironment{}

// ParseEnv parses environment variables into the given Environment type.
func ParseEnv[E Environment]() func() (E, error) {
	return func() (e E, err error) {
		if err := env.Parse(&e); err != nil {
			return e, errors.Wrap(err, "failed to parse environment")
		}
		return e, nil
	}
}
