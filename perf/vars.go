package perf

import (
	"expvar"
	"net/http"

	"github.com/encodeous/metric"
)

var (
	DispatchLatency   = metric.NewHistogram("1m1s")
	MessagesProcessed = metric.NewCounter("10s1s")
	UpdatesSent       = metric.NewCounter("10s1s")
	FailedDeliveries  = metric.NewCounter("10s1s")
	EventsApplied     = metric.NewCounter("10s1s")
)

func init() {
	http.Handle("/debug/metrics", metric.Handler(metric.Exposed))
	expvar.Publish("orbmesh:MessagesProcessed/s", MessagesProcessed)
	expvar.Publish("orbmesh:UpdatesSent/s", UpdatesSent)
	expvar.Publish("orbmesh:FailedDeliveries/s", FailedDeliveries)
	expvar.Publish("orbmesh:EventsApplied/s", EventsApplied)
	expvar.Publish("orbmesh:DispatchLatency (µs)", DispatchLatency)
}
