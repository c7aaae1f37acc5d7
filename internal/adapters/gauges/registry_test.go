package gauges

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vshulcz/rtl433-exporter/internal/domain"
)

func fp(v float64) *float64 { return &v }

func newRegistry(t *testing.T, opts ...Option) *Registry {
	t.Helper()
	r, err := New("rtl433_weather_probe", opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestApply(t *testing.T) {
	ctx := context.Background()

	t.Run("temperature only", func(t *testing.T) {
		r := newRegistry(t)
		r.Apply(ctx, domain.Measurement{DeviceID: 5, Model: "X", Temperature: fp(21.5)})

		if got := testutil.ToFloat64(r.Temperature().WithLabelValues("5", "X")); got != 21.5 {
			t.Errorf("temperature = %v, want 21.5", got)
		}
		if n := testutil.CollectAndCount(r.Humidity()); n != 0 {
			t.Errorf("humidity cells = %d, want 0", n)
		}
	})

	t.Run("both values update exactly two cells", func(t *testing.T) {
		r := newRegistry(t)
		r.Apply(ctx, domain.Measurement{DeviceID: 5, Model: "X", Temperature: fp(20), Humidity: fp(45)})

		if n := testutil.CollectAndCount(r.Temperature()) + testutil.CollectAndCount(r.Humidity()); n != 2 {
			t.Errorf("cells = %d, want 2", n)
		}
		if got := testutil.ToFloat64(r.Humidity().WithLabelValues("5", "X")); got != 45 {
			t.Errorf("humidity = %v, want 45", got)
		}
	})

	t.Run("no values touches nothing", func(t *testing.T) {
		r := newRegistry(t)
		r.Apply(ctx, domain.Measurement{DeviceID: 5, Model: "X"})

		if n := testutil.CollectAndCount(r.Temperature()) + testutil.CollectAndCount(r.Humidity()); n != 0 {
			t.Errorf("cells = %d, want 0", n)
		}
	})

	t.Run("last write wins", func(t *testing.T) {
		r := newRegistry(t)
		r.Apply(ctx, domain.Measurement{DeviceID: 5, Model: "X", Humidity: fp(40)})
		r.Apply(ctx, domain.Measurement{DeviceID: 5, Model: "X", Humidity: fp(55)})

		if got := testutil.ToFloat64(r.Humidity().WithLabelValues("5", "X")); got != 55 {
			t.Errorf("humidity = %v, want 55", got)
		}
		if n := testutil.CollectAndCount(r.Humidity()); n != 1 {
			t.Errorf("humidity cells = %d, want 1", n)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		once, twice := newRegistry(t), newRegistry(t)
		m := domain.Measurement{DeviceID: 9, Model: "Y", Temperature: fp(-2.5), Humidity: fp(80)}
		once.Apply(ctx, m)
		twice.Apply(ctx, m)
		twice.Apply(ctx, m)

		for _, vec := range []func(*Registry) *prometheus.GaugeVec{(*Registry).Temperature, (*Registry).Humidity} {
			if a, b := testutil.CollectAndCount(vec(once)), testutil.CollectAndCount(vec(twice)); a != b || a != 1 {
				t.Errorf("cells once=%d twice=%d, want 1", a, b)
			}
			a := testutil.ToFloat64(vec(once).WithLabelValues("9", "Y"))
			b := testutil.ToFloat64(vec(twice).WithLabelValues("9", "Y"))
			if a != b {
				t.Errorf("values once=%v twice=%v", a, b)
			}
		}
	})

	t.Run("label pairs are independent", func(t *testing.T) {
		r := newRegistry(t)
		r.Apply(ctx, domain.Measurement{DeviceID: 5, Model: "X", Temperature: fp(1)})
		r.Apply(ctx, domain.Measurement{DeviceID: 5, Model: "Z", Temperature: fp(2)})
		r.Apply(ctx, domain.Measurement{DeviceID: -6, Model: "X", Temperature: fp(3)})

		if n := testutil.CollectAndCount(r.Temperature()); n != 3 {
			t.Errorf("temperature cells = %d, want 3", n)
		}
		if got := testutil.ToFloat64(r.Temperature().WithLabelValues("-6", "X")); got != 3 {
			t.Errorf("temperature(-6, X) = %v, want 3", got)
		}
	})
}

func TestExposition(t *testing.T) {
	r := newRegistry(t)
	r.Apply(context.Background(), domain.Measurement{DeviceID: 5, Model: "X", Temperature: fp(21.5), Humidity: fp(40)})

	const want = `
# HELP rtl433_weather_probe_humidity Humidity Percent
# TYPE rtl433_weather_probe_humidity gauge
rtl433_weather_probe_humidity{device_id="5",model="X"} 40
# HELP rtl433_weather_probe_temperature Temperature C
# TYPE rtl433_weather_probe_temperature gauge
rtl433_weather_probe_temperature{device_id="5",model="X"} 21.5
`
	if err := testutil.GatherAndCompare(r.Gatherer(), strings.NewReader(want),
		"rtl433_weather_probe_temperature", "rtl433_weather_probe_humidity"); err != nil {
		t.Fatal(err)
	}
	if r.Basename() != "rtl433_weather_probe" {
		t.Errorf("Basename = %q", r.Basename())
	}
}

func TestNew_Options(t *testing.T) {
	t.Run("runtime collectors", func(t *testing.T) {
		r := newRegistry(t, WithRuntimeCollectors())
		mfs, err := r.Gatherer().Gather()
		if err != nil {
			t.Fatalf("gather: %v", err)
		}
		found := false
		for _, mf := range mfs {
			if mf.GetName() == "go_goroutines" {
				found = true
			}
		}
		if !found {
			t.Error("go_goroutines not exported")
		}
	})

	t.Run("no runtime collectors by default", func(t *testing.T) {
		r := newRegistry(t)
		mfs, err := r.Gatherer().Gather()
		if err != nil {
			t.Fatalf("gather: %v", err)
		}
		if len(mfs) != 0 {
			t.Errorf("families before any reading = %d, want 0", len(mfs))
		}
	})

	t.Run("duplicate collector fails", func(t *testing.T) {
		dup := prometheus.NewGauge(prometheus.GaugeOpts{Name: "rtl433_weather_probe_temperature", Help: "dup"})
		if _, err := New("rtl433_weather_probe", WithCollector(dup)); err == nil {
			t.Fatal("expected duplicate registration error")
		}
	})

	t.Run("registries are isolated", func(t *testing.T) {
		a, b := newRegistry(t), newRegistry(t)
		a.Apply(context.Background(), domain.Measurement{DeviceID: 1, Model: "X", Humidity: fp(10)})
		if n := testutil.CollectAndCount(b.Humidity()); n != 0 {
			t.Errorf("second registry saw %d cells", n)
		}
	})
}

func TestConcurrentScrape(t *testing.T) {
	r := newRegistry(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					if _, err := r.Gatherer().Gather(); err != nil {
						t.Errorf("gather: %v", err)
						return
					}
				}
			}
		}()
	}

	for i := range 500 {
		r.Apply(ctx, domain.Measurement{DeviceID: int64(i % 7), Model: "X", Temperature: fp(float64(i))})
	}
	close(stop)
	wg.Wait()

	if got := testutil.ToFloat64(r.Temperature().WithLabelValues("2", "X")); got != 499 {
		t.Errorf("temperature(2, X) = %v, want 499", got)
	}
}
