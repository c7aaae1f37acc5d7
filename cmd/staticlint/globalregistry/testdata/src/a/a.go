package a

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var g = prometheus.NewGauge(prometheus.GaugeOpts{Name: "a"})

func global() {
	prometheus.MustRegister(g)        // want `prometheus.MustRegister uses the global Prometheus registry`
	_ = prometheus.Register(g)        // want `prometheus.Register uses the global Prometheus registry`
	prometheus.Unregister(g)          // want `prometheus.Unregister uses the global Prometheus registry`
	_ = prometheus.DefaultGatherer    // want `prometheus.DefaultGatherer uses the global Prometheus registry`
	r := prometheus.DefaultRegisterer // want `prometheus.DefaultRegisterer uses the global Prometheus registry`
	_ = r
	_ = promauto.NewGauge(prometheus.GaugeOpts{Name: "b"}) // want `promauto.NewGauge uses the global Prometheus registry`
	_ = promhttp.Handler()                                 // want `promhttp.Handler uses the global Prometheus registry`
}
