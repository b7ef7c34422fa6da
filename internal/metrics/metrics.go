// Package metrics exposes Prometheus counters for served checkbox groups.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/pthm/checkgroup"
)

// Collector counts component actions and the events they raised.
type Collector struct {
	registry *prometheus.Registry
	actions  *prometheus.CounterVec
	events   *prometheus.CounterVec
}

// New creates a collector backed by its own Prometheus registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkgroup_actions_total",
				Help: "Total number of handled group actions",
			},
			[]string{"group", "action", "valid"},
		),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkgroup_events_total",
				Help: "Total number of group events announced to clients",
			},
			[]string{"group"},
		),
	}
	c.registry.MustRegister(c.actions, c.events)
	return c
}

// Observe records one action. It matches checkgroup.Registry.OnAction.
func (c *Collector) Observe(r checkgroup.ActionReport) {
	c.actions.WithLabelValues(r.Group, r.Action, strconv.FormatBool(r.Valid)).Inc()
	if r.Events > 0 {
		c.events.WithLabelValues(r.Group).Add(float64(r.Events))
	}
}

// Gatherer returns the underlying registry.
func (c *Collector) Gatherer() prometheus.Gatherer { return c.registry }

// Handler serves the collected metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
