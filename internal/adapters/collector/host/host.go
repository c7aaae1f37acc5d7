// Package host implements a Prometheus collector that samples host CPU/RAM usage on scrape.
package host

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"
)

const sampleTimeout = 2 * time.Second

// Sampler reads one host statistic in percent.
type Sampler func(ctx context.Context) (float64, error)

// Collector exports `<basename>_host_cpu_percent` and `<basename>_host_memory_used_percent`.
type Collector struct {
	cpuDesc *prometheus.Desc
	memDesc *prometheus.Desc
	cpu     Sampler
	mem     Sampler
	logger  *zap.Logger
}

var _ prometheus.Collector = (*Collector)(nil)

// New creates a Collector backed by gopsutil.
func New(basename string, logger *zap.Logger) *Collector {
	return NewWithSamplers(basename, logger, CPUPercent, MemoryUsedPercent)
}

// NewWithSamplers creates a Collector with custom samplers.
func NewWithSamplers(basename string, logger *zap.Logger, cpuFn, memFn Sampler) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		cpuDesc: prometheus.NewDesc(basename+"_host_cpu_percent", "Host CPU utilization percent", nil, nil),
		memDesc: prometheus.NewDesc(basename+"_host_memory_used_percent", "Host memory used percent", nil, nil),
		cpu:     cpuFn,
		mem:     memFn,
		logger:  logger,
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.cpuDesc
	ch <- c.memDesc
}

// Collect samples both statistics; a failing sampler only drops its own gauge.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), sampleTimeout)
	defer cancel()

	c.emit(ctx, ch, c.cpuDesc, c.cpu, "cpu")
	c.emit(ctx, ch, c.memDesc, c.mem, "memory")
}

func (c *Collector) emit(ctx context.Context, ch chan<- prometheus.Metric, desc *prometheus.Desc, fn Sampler, what string) {
	if fn == nil {
		return
	}
	v, err := fn(ctx)
	if err != nil {
		c.logger.Warn("host sample failed", zap.String("stat", what), zap.Error(err))
		return
	}
	ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, v)
}

// CPUPercent returns overall CPU usage since the previous call.
func CPUPercent(ctx context.Context) (float64, error) {
	pcts, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, err
	}
	if len(pcts) == 0 {
		return 0, nil
	}
	return pcts[0], nil
}

// MemoryUsedPercent returns the share of used virtual memory.
func MemoryUsedPercent(ctx context.Context) (float64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return vm.UsedPercent, nil
}
