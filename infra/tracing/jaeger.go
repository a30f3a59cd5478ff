package tracing

import (
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	"github.com/uber/jaeger-client-go"
	"github.com/uber/jaeger-client-go/config"
	jprom "github.com/uber/jaeger-lib/metrics/prometheus"
)

// InitGlobalTracer configures the global tracer from JAEGER_* environment variables.
// Tracing stays a no-op unless JAEGER_AGENT_HOST or JAEGER_ENDPOINT is set.
func InitGlobalTracer(serviceName string) (io.Closer, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = serviceName
	}
	if cfg.Reporter == nil || (cfg.Reporter.LocalAgentHostPort == "" && cfg.Reporter.CollectorEndpoint == "") {
		cfg.Disabled = true
	}

	tracer, closer, err := cfg.NewTracer(
		config.Logger(jaeger.StdLogger),
		config.Metrics(jprom.New()),
	)
	if err != nil {
		return nil, err
	}
	opentracing.SetGlobalTracer(tracer)
	logrus.WithField("disabled", cfg.Disabled).Info("tracer initialized")
	return closer, nil
}
