package store

import (
	"iter"

	"github.com/soroosh-tanzadeh/snapkv/contracts"
)

// Snapshot is an immutable copy of a Store's contents at one version.
// It is safe for concurrent use and lives independently of the Store.
type Snapshot[K any, V any] struct {
	data    contracts.Container[K, V]
	version uint64
}

func newSnapshot[K any, V any](data contracts.Container[K, V], version uint64) *Snapshot[K, V] {
	return &Snapshot[K, V]{
		data:    data,
		version: version,
	}
}

func (s *Snapshot[K, V]) Get(key K) (V, bool) {
	return s.data.Get(key)
}

func (s *Snapshot[K, V]) Contains(key K) bool {
	_, ok := s.data.Get(key)
	return ok
}

// Version is the store version the snapshot was taken at.
func (s *Snapshot[K, V]) Version() uint64 {
	return s.version
}

func (s *Snapshot[K, V]) Len() int {
	return s.data.Len()
}

func (s *Snapshot[K, V]) Empty() bool {
	return s.data.Len() == 0
}

// Range calls fn for every entry, in the container's iteration order, until fn returns false.
func (s *Snapshot[K, V]) Range(fn func(key K, value V) bool) {
	s.data.Range(fn)
}

// All returns an iterator over the entries. It can be ranged over any number of times.
func (s *Snapshot[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		s.data.Range(yield)
	}
}
