package ports

import (
	"context"

	"github.com/vshulcz/rtl433-exporter/internal/domain"
)

// DeviceRepo keeps the last known state of every device that was accepted.
type DeviceRepo interface {
	MeasurementSink
	Get(ctx context.Context, id int64, model string) (domain.Device, error)
	Snapshot(ctx context.Context) ([]domain.Device, error)
}
