// Package metrics exports container observations to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/danpasecinic/thimble"
)

// Collector counts bindings and provider calls. Wire it into a Config with
// Options and expose it with Register.
type Collector struct {
	resolves *prometheus.CounterVec
	duration *prometheus.HistogramVec
	bindings prometheus.Counter
}

func New(namespace string) *Collector {
	return &Collector{
		resolves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "thimble",
				Name:      "resolutions_total",
				Help:      "Provider calls by component and result.",
			},
			[]string{"component", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "thimble",
				Name:      "resolution_duration_seconds",
				Help:      "Time spent in provider calls, dependencies included.",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"component"},
		),
		bindings: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "thimble",
				Name:      "bindings_total",
				Help:      "Component identities bound.",
			},
		),
	}
}

func (c *Collector) Options() []thimble.Option {
	return []thimble.Option{
		thimble.WithResolveObserver(c.ObserveResolve),
		thimble.WithBindObserver(c.ObserveBind),
	}
}

func (c *Collector) ObserveResolve(component thimble.Component, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}

	key := component.String()
	c.resolves.WithLabelValues(key, result).Inc()
	c.duration.WithLabelValues(key).Observe(d.Seconds())
}

func (c *Collector) ObserveBind(thimble.Component) {
	c.bindings.Inc()
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.resolves.Describe(ch)
	c.duration.Describe(ch)
	c.bindings.Describe(ch)
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.resolves.Collect(ch)
	c.duration.Collect(ch)
	c.bindings.Collect(ch)
}

// Register adds the collector to r, prometheus.DefaultRegisterer when nil.
func (c *Collector) Register(r prometheus.Registerer) error {
	if r == nil {
		r = prometheus.DefaultRegisterer
	}
	return r.Register(c)
}
