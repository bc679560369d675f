package metrics

import (
	"fmt"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/rs/zerolog/log"
)

const (
	DefaultStatsdAddr = "127.0.0.1:8125"
	statsdNamespace   = "gorepower_simulator."
	statsdScope       = "default"
)

// Client noops until Configure connects it to an agent.
var Client statsd.ClientInterface = &statsd.NoOpClient{}
var runtimeGlobalTags = make([]string, 0)

// Configure points Client at the datadog agent on addr. An empty addr or a
// failed connection leaves metrics as noops.
func Configure(addr string) {
	if addr == "" {
		Client = &statsd.NoOpClient{}
		return
	}
	c, err := statsd.New(addr)
	if err != nil {
		Client = &statsd.NoOpClient{}
		log.Info().Err(err).Msg("failed connecting to datadog agent => metrics will noop")
		return
	}
	Client = c
	c.Namespace = statsdNamespace
	c.Tags = []string{fmt.Sprintf("scope:%s", statsdScope)}
	log.Info().Str("addr", addr).Msg("successfully connected to datadog agent")
}

func AddGlobalTags(tags []string) {
	runtimeGlobalTags = append(runtimeGlobalTags, tags...)
}

func withGlobalTags(tags []string) []string {
	out := make([]string, 0, len(runtimeGlobalTags)+len(tags))
	out = append(out, runtimeGlobalTags...)
	return append(out, tags...)
}

func Count(name string, value int64, tags []string) error {
	return Client.Count(name, value, withGlobalTags(tags), 1.0 /* rate */)
}

func Distribution(name string, value float64, tags []string) error {
	return Client.Distribution(name, value, withGlobalTags(tags), 1.0 /* rate */)
}

func Gauge(name string, value float64, tags []string) error {
	return Client.Gauge(name, value, withGlobalTags(tags), 1.0 /* rate */)
}

func Incr(name string, tags []string) error {
	return Client.Incr(name, withGlobalTags(tags), 1.0 /* rate */)
}

func BenchmarkMethod(startTime time.Time, methodName string, tags []string) {
	elapsed := time.Since(startTime)
	metricName := fmt.Sprintf("%s.elapsed_ns", methodName)
	Distribution(metricName, float64(elapsed.Nanoseconds()), tags)
}
