package tracing

import (
	"io"

	"fieldflow/common"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	jaegerprom "github.com/uber/jaeger-lib/metrics/prometheus"
)

// Bootstrap builds the jaeger tracer from JAEGER_* environment variables and
// installs it as the opentracing global. The returned closer flushes pending
// spans on shutdown.
func Bootstrap() io.Closer {
	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		logrus.Warnf("tracing disabled: %v", err)
		return nil
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = common.GetServiceName()
	}

	tracer, closer, err := cfg.NewTracer(
		jaegercfg.Logger(jaeger.StdLogger),
		jaegercfg.Metrics(jaegerprom.New()),
	)
	if err != nil {
		logrus.Warnf("tracing disabled: %v", err)
		return nil
	}

	opentracing.SetGlobalTracer(tracer)
	return closer
}
