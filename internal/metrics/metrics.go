// Package metrics collects and exposes Prometheus metrics for the API.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns its registry so tests can run collectors side by side
// without duplicate registration panics.
type Collector struct {
	registry *prometheus.Registry

	requestsTotal *prometheus.CounterVec
	blogViews     prometheus.Counter
	blogsCreated  prometheus.Counter
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogapi_requests_total",
			Help: "Total HTTP requests served, by method and status code.",
		}, []string{"method", "status"}),
		blogViews: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blogapi_blog_views_total",
			Help: "Total successful single-blog views (read_count increments).",
		}),
		blogsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blogapi_blogs_created_total",
			Help: "Total blogs created.",
		}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.requestsTotal,
		c.blogViews,
		c.blogsCreated,
	)

	return c
}

func (c *Collector) RecordRequest(method string, status int) {
	c.requestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

func (c *Collector) RecordBlogView() {
	c.blogViews.Inc()
}

func (c *Collector) RecordBlogCreated() {
	c.blogsCreated.Inc()
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
