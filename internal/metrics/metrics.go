package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Reactions       *prometheus.CounterVec
	Comments        prometheus.Counter
	Subscriptions   *prometheus.CounterVec
	PostViews       prometheus.Counter
}

// New builds the collectors on a private registry so that tests can create
// as many instances as they like.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blog_http_requests_total",
				Help: "Total number of HTTP requests by route and status class",
			},
			[]string{"route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "blog_http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		Reactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blog_reactions_total",
				Help: "Total number of reactions set, by type",
			},
			[]string{"type"},
		),
		Comments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blog_comments_total",
			Help: "Total number of comments submitted",
		}),
		Subscriptions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blog_newsletter_subscriptions_total",
				Help: "Total number of newsletter subscribe calls, by outcome",
			},
			[]string{"result"},
		),
		PostViews: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blog_post_views_total",
			Help: "Total number of post detail views",
		}),
	}

	m.registry.MustRegister(
		m.Requests,
		m.RequestDuration,
		m.Reactions,
		m.Comments,
		m.Subscriptions,
		m.PostViews,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StatusClass turns 404 into "4xx".
func StatusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
