package alloc

import (
	"errors"
	"math"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsOpts names the collectors published by a Metrics allocator.
type MetricsOpts struct {
	Namespace   string
	Subsystem   string
	ConstLabels prometheus.Labels
}

// Metrics decorates an allocator with Prometheus collectors:
//
//	<ns>_<sub>_allocations_total     blocks handed out
//	<ns>_<sub>_deallocations_total   blocks returned
//	<ns>_<sub>_grow_in_place_total   successful in-place growths
//	<ns>_<sub>_inuse_elements        elements currently handed out
type Metrics[T any] struct {
	upstream Allocator[T]

	allocations   prometheus.Counter
	deallocations prometheus.Counter
	grownInPlace  prometheus.Counter
	inuse         prometheus.Gauge
}

var (
	_ Allocator[int]     = (*Metrics[int])(nil)
	_ InPlaceGrower[int] = (*Metrics[int])(nil)
	_ Bounded            = (*Metrics[int])(nil)
)

// NewMetrics wraps upstream and registers its collectors with reg.
// A nil reg leaves the collectors unregistered; re-registering identical
// collectors reuses the ones already registered.
func NewMetrics[T any](upstream Allocator[T], reg prometheus.Registerer, opts MetricsOpts) (*Metrics[T], error) {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Subsystem:   opts.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: opts.ConstLabels,
		})
	}

	m := &Metrics[T]{
		upstream:      upstream,
		allocations:   counter("allocations_total", "Number of blocks handed out."),
		deallocations: counter("deallocations_total", "Number of blocks returned."),
		grownInPlace:  counter("grow_in_place_total", "Number of blocks grown without moving."),
		inuse: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   opts.Namespace,
			Subsystem:   opts.Subsystem,
			Name:        "inuse_elements",
			Help:        "Number of elements currently handed out.",
			ConstLabels: opts.ConstLabels,
		}),
	}

	if reg == nil {
		return m, nil
	}

	var err error
	if m.allocations, err = registerOrReuse(reg, m.allocations); err != nil {
		return nil, err
	}
	if m.deallocations, err = registerOrReuse(reg, m.deallocations); err != nil {
		return nil, err
	}
	if m.grownInPlace, err = registerOrReuse(reg, m.grownInPlace); err != nil {
		return nil, err
	}
	if m.inuse, err = registerOrReuse(reg, m.inuse); err != nil {
		return nil, err
	}
	return m, nil
}

func registerOrReuse[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	return c, err
}

// Allocate forwards to the upstream allocator and records non-empty blocks.
func (m *Metrics[T]) Allocate(n int) ([]T, error) {
	mem, err := m.upstream.Allocate(n)
	if err != nil {
		return nil, err
	}
	if len(mem) > 0 {
		m.allocations.Inc()
		m.inuse.Add(float64(len(mem)))
	}
	return mem, nil
}

// Deallocate forwards to the upstream allocator and records non-empty blocks.
func (m *Metrics[T]) Deallocate(mem []T) {
	if len(mem) == 0 {
		return
	}
	m.deallocations.Inc()
	m.inuse.Sub(float64(len(mem)))
	m.upstream.Deallocate(mem)
}

// GrowInPlace forwards when the upstream allocator can grow in place.
func (m *Metrics[T]) GrowInPlace(mem []T, n int) ([]T, bool) {
	g, ok := m.upstream.(InPlaceGrower[T])
	if !ok {
		return nil, false
	}
	grown, ok := g.GrowInPlace(mem, n)
	if !ok {
		return nil, false
	}
	m.grownInPlace.Inc()
	m.inuse.Add(float64(len(grown) - len(mem)))
	return grown, true
}

// MaxElems reports the upstream bound, or math.MaxInt when it has none.
func (m *Metrics[T]) MaxElems() int {
	if b, ok := m.upstream.(Bounded); ok {
		return b.MaxElems()
	}
	return math.MaxInt
}
