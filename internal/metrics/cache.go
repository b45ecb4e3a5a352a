package metrics

import "github.com/prometheus/client_golang/prometheus"

// CacheRequestsTotal counts read-through cache lookups by result.
var CacheRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "cinedex",
		Name:      "cache_requests_total",
		Help:      "Query cache hits and misses",
	},
	[]string{"resource", "result"}, // result: "hit" / "miss" / "error"
)

var cacheMetricsRegistered bool

// RegisterCacheMetrics registers query cache metrics. Must be called once from main.
func RegisterCacheMetrics() {
	if cacheMetricsRegistered {
		return
	}
	prometheus.MustRegister(CacheRequestsTotal)
	cacheMetricsRegistered = true
}
