// Package gauges publishes accepted measurements as labeled Prometheus gauges.
package gauges

import (
	"context"
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vshulcz/rtl433-exporter/internal/domain"
	"github.com/vshulcz/rtl433-exporter/internal/ports"
)

// Label names shared by both gauge families.
const (
	LabelDeviceID = "device_id"
	LabelModel    = "model"
)

// Registry owns a private Prometheus registry and the two gauge families.
// GaugeVec cells are updated atomically, so scrapes may run concurrently
// with the single writer.
type Registry struct {
	reg         *prometheus.Registry
	temperature *prometheus.GaugeVec
	humidity    *prometheus.GaugeVec
	basename    string
}

var _ ports.MeasurementSink = (*Registry)(nil)

// Option tweaks the registry at construction time.
type Option func(*Registry) error

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(r *Registry) error {
		return r.Register(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
}

// WithCollector registers an extra collector next to the gauge families.
func WithCollector(c prometheus.Collector) Option {
	return func(r *Registry) error {
		return r.Register(c)
	}
}

// New builds `<basename>_temperature` and `<basename>_humidity`.
func New(basename string, opts ...Option) (*Registry, error) {
	labels := []string{LabelDeviceID, LabelModel}
	r := &Registry{
		reg:      prometheus.NewRegistry(),
		basename: basename,
		temperature: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: basename + "_temperature",
			Help: "Temperature C",
		}, labels),
		humidity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: basename + "_humidity",
			Help: "Humidity Percent",
		}, labels),
	}
	if err := r.Register(r.temperature, r.humidity); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds collectors to the private registry.
func (r *Registry) Register(cs ...prometheus.Collector) error {
	for _, c := range cs {
		if err := r.reg.Register(c); err != nil {
			return fmt.Errorf("register collector: %w", err)
		}
	}
	return nil
}

// Apply overwrites the cells labeled (device_id, model) for every reported value.
func (r *Registry) Apply(_ context.Context, m domain.Measurement) {
	if !m.HasValues() {
		return
	}
	id := strconv.FormatInt(m.DeviceID, 10)
	if m.Temperature != nil {
		r.temperature.WithLabelValues(id, m.Model).Set(*m.Temperature)
	}
	if m.Humidity != nil {
		r.humidity.WithLabelValues(id, m.Model).Set(*m.Humidity)
	}
}

// Gatherer exposes the registry to the HTTP layer.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// Basename returns the prefix used for the gauge family names.
func (r *Registry) Basename() string { return r.basename }

// Temperature returns the temperature family.
func (r *Registry) Temperature() *prometheus.GaugeVec { return r.temperature }

// Humidity returns the humidity family.
func (r *Registry) Humidity() *prometheus.GaugeVec { return r.humidity }
