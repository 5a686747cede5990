// Package snapkv is an in-process key-value store that hands out immutable,
// version-stamped snapshots while writers keep mutating the live data.
//
// Access is arbitrated by a fair reader-writer lock (see package locker):
// waiting writers hold back new readers, and a releasing writer hands the
// lock to queued readers before the next writer, so neither side starves.
//
//	kv := snapkv.New[string, int]()
//	kv.Put("a", 1)
//	snap := kv.Snapshot() // unaffected by later writes
//	kv.Delete("a")
//	v, _ := snap.Get("a") // 1
package snapkv

import (
	"cmp"

	"github.com/soroosh-tanzadeh/snapkv/store"
)

type Option = store.Option

// New creates a store backed by a Go map.
func New[K comparable, V any](opts ...Option) *store.Store[K, V] {
	return store.New[K, V](opts...)
}

// NewOrdered creates a store whose snapshots iterate keys in ascending order.
func NewOrdered[K cmp.Ordered, V any](opts ...Option) *store.Store[K, V] {
	return store.NewOrderedKeys[K, V](opts...)
}
