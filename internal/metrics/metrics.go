// Package metrics exposes Prometheus counters for page views and scroll sessions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all scrollfolio metrics on a private Prometheus registry.
type Registry struct {
	reg *prometheus.Registry

	PageViews          *prometheus.CounterVec
	ScrollSessions     prometheus.Gauge
	SectionActivations *prometheus.CounterVec
	Navigations        *prometheus.CounterVec
	ScrollMessages     *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		PageViews: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scrollfolio_page_views_total",
				Help: "Page views by path, excluding static assets and DNT visitors",
			},
			[]string{"path"},
		),
		ScrollSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "scrollfolio_scroll_sessions",
				Help: "Number of open scroll websocket sessions",
			},
		),
		SectionActivations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scrollfolio_section_activations_total",
				Help: "Times a section became the active section",
			},
			[]string{"section"},
		),
		Navigations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scrollfolio_navigations_total",
				Help: "Navigation clicks by target and whether the target existed",
			},
			[]string{"section", "result"},
		),
		ScrollMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scrollfolio_scroll_messages_total",
				Help: "Websocket messages received by type",
			},
			[]string{"type"},
		),
	}
	r.reg.MustRegister(
		r.PageViews,
		r.ScrollSessions,
		r.SectionActivations,
		r.Navigations,
		r.ScrollMessages,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
