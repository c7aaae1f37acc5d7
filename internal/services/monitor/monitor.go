// Package monitor runs the read-parse-publish loop over an rtl_433 JSON stream.
package monitor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/vshulcz/rtl433-exporter/internal/domain"
	"github.com/vshulcz/rtl433-exporter/internal/ports"
)

// State of the loop.
type State int32

const (
	Idle State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "idle"
	}
}

// Stats counts lines by outcome.
type Stats struct {
	Lines    int64
	Accepted int64
	Rejected int64
}

// Monitor reads one line at a time and applies accepted measurements to sinks in read order.
type Monitor struct {
	parser ports.ReadingParser
	logger *zap.Logger
	sinks  []ports.MeasurementSink
	strict bool

	state    atomic.Int32
	lines    atomic.Int64
	accepted atomic.Int64
	rejected atomic.Int64
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithStrictValues makes an invalid temperature/humidity value stop the loop.
func WithStrictValues(strict bool) Option {
	return func(m *Monitor) { m.strict = strict }
}

// WithLogger sets the logger for accepted measurements.
func WithLogger(l *zap.Logger) Option {
	return func(m *Monitor) {
		if l != nil {
			m.logger = l
		}
	}
}

func New(parser ports.ReadingParser, sinks []ports.MeasurementSink, opts ...Option) *Monitor {
	m := &Monitor{
		parser: parser,
		sinks:  sinks,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run consumes r until end of stream. It returns nil at EOF, the read error
// otherwise, or the rejection that stopped a strict loop. Cancelling ctx is
// observed between lines only; a blocked read is not interrupted.
func (m *Monitor) Run(ctx context.Context, r io.Reader) error {
	m.state.Store(int32(Running))
	defer m.state.Store(int32(Stopped))

	br := bufio.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, readErr := br.ReadString('\n')
		if line != "" {
			if err := m.handle(ctx, line); err != nil {
				return err
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				m.logger.Info("input stream ended", zap.Int64("lines", m.lines.Load()))
				return nil
			}
			return fmt.Errorf("read input: %w", readErr)
		}
	}
}

func (m *Monitor) handle(ctx context.Context, line string) error {
	m.lines.Add(1)
	meas, err := m.parser.Parse(line)
	if err != nil {
		m.rejected.Add(1)
		if m.strict && errors.Is(err, domain.ErrInvalidValue) {
			return err
		}
		return nil
	}
	m.accepted.Add(1)

	m.logger.Info("received measurement",
		zap.Int64("device_id", meas.DeviceID),
		zap.String("model", meas.Model),
		zap.Float64p("temperature", meas.Temperature),
		zap.Float64p("humidity", meas.Humidity),
	)
	for _, s := range m.sinks {
		s.Apply(ctx, meas)
	}
	return nil
}

// State reports where the loop is.
func (m *Monitor) State() State { return State(m.state.Load()) }

// Stats returns line counters; safe to call while Run is active.
func (m *Monitor) Stats() Stats {
	return Stats{
		Lines:    m.lines.Load(),
		Accepted: m.accepted.Load(),
		Rejected: m.rejected.Load(),
	}
}
