package domain

import (
	"slices"
	"time"
)

// Measurement is one accepted sensor reading.
// Temperature and Humidity are nil when the reading did not report them.
type Measurement struct {
	Temperature *float64
	Humidity    *float64
	Model       string
	DeviceID    int64
}

// HasValues reports whether the reading carries anything to publish.
func (m Measurement) HasValues() bool {
	return m.Temperature != nil || m.Humidity != nil
}

// Device is the last known state of a sensor seen on the input stream.
type Device struct {
	LastSeen    time.Time
	Temperature *float64
	Humidity    *float64
	Model       string
	DeviceID    int64
	Readings    int64
}

// AllowList is the immutable set of device ids permitted to publish.
// The zero value accepts nothing.
type AllowList struct {
	ids map[int64]struct{}
}

// NewAllowList builds an allow-list; duplicate ids collapse.
func NewAllowList(ids ...int64) AllowList {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return AllowList{ids: set}
}

// Contains reports whether id is allowed.
func (a AllowList) Contains(id int64) bool {
	_, ok := a.ids[id]
	return ok
}

// Len returns the number of distinct ids.
func (a AllowList) Len() int { return len(a.ids) }

// IDs returns the allowed ids in ascending order.
func (a AllowList) IDs() []int64 {
	out := make([]int64, 0, len(a.ids))
	for id := range a.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
