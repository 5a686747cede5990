package ring

import (
	"math"
	"sync"
)

// Ring keeps the most recent samples of a series, overwriting the oldest one
// once capacity is reached. https://en.wikipedia.org/wiki/Circular_buffer
type Ring struct {
	mu      sync.Mutex
	samples []float64
	next    int
	full    bool
	total   uint64
}

func New(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{samples: make([]float64, capacity)}
}

func (r *Ring) Add(sample float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.samples[r.next] = sample
	r.next = (r.next + 1) % len(r.samples)
	if r.next == 0 {
		r.full = true
	}
	r.total++
}

// Len is the number of samples currently retained.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.full {
		return len(r.samples)
	}
	return r.next
}

// Total is the number of samples ever added.
func (r *Ring) Total() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

// Values returns the retained samples, oldest first.
func (r *Ring) Values() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.full {
		return append([]float64(nil), r.samples[:r.next]...)
	}
	out := make([]float64, 0, len(r.samples))
	out = append(out, r.samples[r.next:]...)
	return append(out, r.samples[:r.next]...)
}

type Summary struct {
	Count  int
	Avg    float64
	Min    float64
	Max    float64
	StdDev float64
}

// Summarize computes statistics over the retained samples. An empty ring
// yields a zero Summary.
func (r *Ring) Summarize() Summary {
	values := r.Values()
	if len(values) == 0 {
		return Summary{}
	}

	s := Summary{Count: len(values), Min: values[0], Max: values[0]}
	sum := 0.0
	for _, v := range values {
		sum += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	s.Avg = sum / float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += math.Pow(v-s.Avg, 2)
	}
	s.StdDev = math.Sqrt(variance / float64(len(values)))
	return s
}
