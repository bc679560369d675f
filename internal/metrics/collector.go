package metrics

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// TickCollector exposes per-tick power tracking state to Prometheus.
type TickCollector struct {
	gatherer prometheus.Gatherer

	ManagedEntities prometheus.Gauge
	ActiveEntities  prometheus.Gauge
	InUseThisTick   prometheus.Gauge
	TotalAllocation prometheus.Gauge
	LastTick        prometheus.Gauge

	Rescans     *prometheus.CounterVec
	DeadSkipped prometheus.Counter
}

// NewTickCollector registers the collector's metrics against reg, defaulting
// to the global Prometheus registry when nil. Registering twice against the
// same registry reuses the existing metrics.
func NewTickCollector(reg prometheus.Registerer) (*TickCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &TickCollector{gatherer: gatherer}
	var err error
	gauges := []struct {
		dst  *prometheus.Gauge
		name string
		help string
	}{
		{&c.ManagedEntities, "gorepower_managed_entities", "Entities in the managed population."},
		{&c.ActiveEntities, "gorepower_active_entities", "Managed entities written at their active level on the last tick."},
		{&c.InUseThisTick, "gorepower_in_use_entities", "Entities marked as used during the last tick."},
		{&c.TotalAllocation, "gorepower_total_allocation", "Sum of allocation levels written on the last tick."},
		{&c.LastTick, "gorepower_last_tick", "Id of the last processed tick."},
	}
	for _, g := range gauges {
		*g.dst, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{Name: g.name, Help: g.help}), g.name)
		if err != nil {
			return nil, err
		}
	}

	c.Rescans, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gorepower_rescans_total",
		Help: "Discovery rescans, labeled by trigger.",
	}, []string{"trigger"}), "gorepower_rescans_total")
	if err != nil {
		return nil, err
	}

	c.DeadSkipped, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gorepower_dead_entities_skipped_total",
		Help: "Allocation writes skipped because the entity was no longer alive.",
	}), "gorepower_dead_entities_skipped_total")
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *TickCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func (c *TickCollector) SetTickCounts(tick int64, managed, active, inUse int, totalAllocation float64) {
	if c == nil {
		return
	}
	c.LastTick.Set(float64(tick))
	c.ManagedEntities.Set(float64(managed))
	c.ActiveEntities.Set(float64(active))
	c.InUseThisTick.Set(float64(inUse))
	c.TotalAllocation.Set(totalAllocation)
}

func (c *TickCollector) IncRescan(trigger string) {
	if c == nil {
		return
	}
	c.Rescans.WithLabelValues(trigger).Inc()
}

func (c *TickCollector) AddDeadSkipped(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.DeadSkipped.Add(float64(n))
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, errors.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, errors.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, errors.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
