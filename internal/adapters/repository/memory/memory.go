// Package memory implements an in-memory device repository.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/vshulcz/rtl433-exporter/internal/domain"
	"github.com/vshulcz/rtl433-exporter/internal/ports"
)

type deviceKey struct {
	model string
	id    int64
}

// Repo keeps the last known state per (device_id, model) with coarse-grained RW locking.
type Repo struct {
	devices map[deviceKey]domain.Device
	now     func() time.Time
	mu      sync.RWMutex
}

var _ ports.DeviceRepo = (*Repo)(nil)

// New returns an empty repository using the wall clock.
func New() *Repo {
	return NewWithClock(time.Now)
}

// NewWithClock returns an empty repository stamping readings with now().
func NewWithClock(now func() time.Time) *Repo {
	return &Repo{
		devices: make(map[deviceKey]domain.Device),
		now:     now,
	}
}

// Apply records the measurement; values that were not reported keep their previous state.
func (r *Repo) Apply(_ context.Context, m domain.Measurement) {
	at := r.now()
	k := deviceKey{id: m.DeviceID, model: m.Model}

	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.devices[k]
	d.DeviceID = m.DeviceID
	d.Model = m.Model
	d.LastSeen = at
	d.Readings++
	if m.Temperature != nil {
		d.Temperature = m.Temperature
	}
	if m.Humidity != nil {
		d.Humidity = m.Humidity
	}
	r.devices[k] = clone(d)
}

// Get returns the device state or domain.ErrNotFound.
func (r *Repo) Get(_ context.Context, id int64, model string) (domain.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.devices[deviceKey{id: id, model: model}]
	if !ok {
		return domain.Device{}, domain.ErrNotFound
	}
	return clone(d), nil
}

// Snapshot copies every device ordered by id then model.
func (r *Repo) Snapshot(_ context.Context) ([]domain.Device, error) {
	r.mu.RLock()
	out := make([]domain.Device, 0, len(r.devices))
	for _, d := range r.devices {
		out = append(out, clone(d))
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b domain.Device) int {
		return cmp.Or(cmp.Compare(a.DeviceID, b.DeviceID), cmp.Compare(a.Model, b.Model))
	})
	return out, nil
}

func clone(d domain.Device) domain.Device {
	if d.Temperature != nil {
		v := *d.Temperature
		d.Temperature = &v
	}
	if d.Humidity != nil {
		v := *d.Humidity
		d.Humidity = &v
	}
	return d
}
