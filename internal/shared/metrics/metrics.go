package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what services report domain events through. Nil-safe use goes
// through Noop.
type Recorder interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
	Login(result string)
	Upload(flow, stage string)
	Payment(event string)
	EligibilityCheck(eligible bool)
}

// Collector holds the prometheus series for the API.
type Collector struct {
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	logins      *prometheus.CounterVec
	uploads     *prometheus.CounterVec
	payments    *prometheus.CounterVec
	eligibility *prometheus.CounterVec
}

// NewCollector creates the series and registers them on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Login attempts by result",
		}, []string{"result"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uploads_total",
			Help: "Upload coordination steps by flow and stage",
		}, []string{"flow", "stage"}),
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Payment lifecycle events",
		}, []string{"event"}),
		eligibility: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eligibility_checks_total",
			Help: "Eligibility evaluations by outcome",
		}, []string{"eligible"}),
	}
	reg.MustRegister(c.requests, c.duration, c.logins, c.uploads, c.payments, c.eligibility)
	return c
}

func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (c *Collector) Login(result string) {
	c.logins.WithLabelValues(result).Inc()
}

func (c *Collector) Upload(flow, stage string) {
	c.uploads.WithLabelValues(flow, stage).Inc()
}

func (c *Collector) Payment(event string) {
	c.payments.WithLabelValues(event).Inc()
}

func (c *Collector) EligibilityCheck(eligible bool) {
	c.eligibility.WithLabelValues(strconv.FormatBool(eligible)).Inc()
}

// Handler exposes gatherer in Prometheus text format.
func Handler(gatherer prometheus.Gatherer) gin.HandlerFunc {
	h := promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

// Noop discards everything.
type Noop struct{}

func (Noop) ObserveRequest(string, string, int, time.Duration) {}
func (Noop) Login(string)                                      {}
func (Noop) Upload(string, string)                             {}
func (Noop) Payment(string)                                    {}
func (Noop) EligibilityCheck(bool)                             {}
