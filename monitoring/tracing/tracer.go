// Package tracing sets up the opencensus Jaeger exporter of the node.
package tracing

import (
	"contrib.go.opencensus.io/exporter/jaeger"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

var log = logrus.WithField("prefix", "tracing")

// Setup creates and initializes a new tracing configuration. With tracing
// disabled every span is dropped.
func Setup(serviceName, processName, endpoint string, sampleFraction float64, enable bool) error {
	if !enable {
		trace.ApplyConfig(trace.Config{DefaultSampler: trace.NeverSample()})
		return nil
	}
	if serviceName == "" {
		return errors.New("tracing service name cannot be empty")
	}

	trace.ApplyConfig(trace.Config{
		DefaultSampler:          trace.ProbabilitySampler(sampleFraction),
		MaxMessageEventsPerSpan: 500,
	})

	log.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"fraction": sampleFraction,
	}).Info("Starting Jaeger exporter")
	exporter, err := jaeger.NewExporter(jaeger.Options{
		CollectorEndpoint: endpoint,
		Process: jaeger.Process{
			ServiceName: serviceName,
			Tags: []jaeger.Tag{
				jaeger.StringTag("process_name", processName),
			},
		},
	})
	if err != nil {
		return errors.Wrap(err, "could not create jaeger exporter")
	}
	trace.RegisterExporter(exporter)
	return nil
}
