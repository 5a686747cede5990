package store

import (
	"cmp"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/soroosh-tanzadeh/snapkv/container"
	"github.com/soroosh-tanzadeh/snapkv/contracts"
	"github.com/soroosh-tanzadeh/snapkv/locker"
)

// Store is a thread-safe key-value map with a version counter that advances
// by one for every mutation. Reads and Snapshot take the lock in shared mode,
// Put and Delete take it exclusively, so a Snapshot always reflects the state
// between two consecutive mutations.
//
// A Store must not be copied after first use.
type Store[K any, V any] struct {
	id      string
	lock    *locker.FairLock
	data    contracts.Container[K, V]
	factory contracts.ContainerFactory[K, V]
	logger  log.FieldLogger

	// Guarded by lock; written only while it is held exclusively.
	version uint64
}

// New creates a Store backed by a Go map.
func New[K comparable, V any](opts ...Option) *Store[K, V] {
	return NewWithContainer(container.HashMapFactory[K, V](), opts...)
}

// NewOrdered creates a Store whose snapshots iterate in ascending order of compare.
func NewOrdered[K any, V any](compare func(a, b K) int, opts ...Option) *Store[K, V] {
	return NewWithContainer(container.SkipListFactory[K, V](compare), opts...)
}

// NewOrderedKeys is NewOrdered using the natural order of K.
func NewOrderedKeys[K cmp.Ordered, V any](opts ...Option) *Store[K, V] {
	return NewOrdered[K, V](cmp.Compare[K], opts...)
}

// NewWithContainer creates a Store on top of containers produced by factory.
// The factory is also used to build snapshot copies of containers that do not
// implement contracts.Cloner.
func NewWithContainer[K any, V any](factory contracts.ContainerFactory[K, V], opts ...Option) *Store[K, V] {
	if factory == nil {
		panic("store: NewWithContainer received a nil factory")
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if len(o.id) == 0 {
		o.id = uuid.NewString()
	}
	if o.logger == nil {
		o.logger = log.StandardLogger()
	}

	return &Store[K, V]{
		id:      o.id,
		lock:    locker.New(o.lockConfig),
		data:    factory(),
		factory: factory,
		logger:  o.logger.WithField("store", o.id),
	}
}

func (s *Store[K, V]) ID() string {
	return s.id
}

func (s *Store[K, V]) Get(key K) (V, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.data.Get(key)
}

// Put inserts key or overwrites its value and advances the version.
func (s *Store[K, V]) Put(key K, value V) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.data.Set(key, value)
	s.version++
}

// Delete removes key and reports whether it was present. The version only
// advances when an entry was removed.
func (s *Store[K, V]) Delete(key K) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	if !s.data.Delete(key) {
		return false
	}
	s.version++
	return true
}

// Snapshot returns an immutable copy of the current contents stamped with the
// current version. The copy does not reference the store.
func (s *Store[K, V]) Snapshot() *Snapshot[K, V] {
	snap := s.snapshot()

	s.logger.WithFields(log.Fields{
		"version": snap.version,
		"entries": snap.Len(),
	}).Debug("snapshot taken")

	return snap
}

func (s *Store[K, V]) snapshot() *Snapshot[K, V] {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return newSnapshot(s.copyData(), s.version)
}

// lock must be held.
func (s *Store[K, V]) copyData() contracts.Container[K, V] {
	if cloner, ok := s.data.(contracts.Cloner[K, V]); ok {
		return cloner.Clone()
	}

	dst := s.factory()
	s.data.Range(func(key K, value V) bool {
		dst.Set(key, value)
		return true
	})
	return dst
}

func (s *Store[K, V]) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.data.Len()
}

func (s *Store[K, V]) Empty() bool {
	return s.Len() == 0
}

func (s *Store[K, V]) Version() uint64 {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.version
}
