package ports

import (
	"context"

	"github.com/vshulcz/rtl433-exporter/internal/domain"
)

// MeasurementSink consumes accepted measurements in read order.
type MeasurementSink interface {
	Apply(ctx context.Context, m domain.Measurement)
}

// ReadingParser turns one raw input line into a Measurement or a rejection.
type ReadingParser interface {
	Parse(line string) (domain.Measurement, error)
}
