package promauto

import "github.com/prometheus/client_golang/prometheus"

type Factory struct{ r prometheus.Registerer }

func With(r prometheus.Registerer) Factory { return Factory{r: r} }

func (f Factory) NewGauge(o prometheus.GaugeOpts) *prometheus.Gauge { return prometheus.NewGauge(o) }

func NewGauge(o prometheus.GaugeOpts) *prometheus.Gauge { return prometheus.NewGauge(o) }
