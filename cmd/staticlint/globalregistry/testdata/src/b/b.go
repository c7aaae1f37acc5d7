package b

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func private() {
	reg := prometheus.NewRegistry()
	g := prometheus.NewGauge(prometheus.GaugeOpts{Name: "a"})
	reg.MustRegister(g)
	_ = reg.Register(g)
	reg.Unregister(g)
	_ = promauto.With(reg).NewGauge(prometheus.GaugeOpts{Name: "b"})
	_ = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
