package container

import (
	"maps"

	"github.com/soroosh-tanzadeh/snapkv/contracts"
)

var _ contracts.Container[string, int] = (*HashMap[string, int])(nil)
var _ contracts.Cloner[string, int] = (*HashMap[string, int])(nil)

// HashMap is a Container backed by a Go map. Iteration order is unspecified.
type HashMap[K comparable, V any] struct {
	data map[K]V
}

func NewHashMap[K comparable, V any]() *HashMap[K, V] {
	return &HashMap[K, V]{
		data: make(map[K]V),
	}
}

func HashMapFactory[K comparable, V any]() contracts.ContainerFactory[K, V] {
	return func() contracts.Container[K, V] {
		return NewHashMap[K, V]()
	}
}

func (m *HashMap[K, V]) Get(key K) (V, bool) {
	value, ok := m.data[key]
	return value, ok
}

func (m *HashMap[K, V]) Set(key K, value V) {
	m.data[key] = value
}

func (m *HashMap[K, V]) Delete(key K) bool {
	if _, ok := m.data[key]; !ok {
		return false
	}
	delete(m.data, key)
	return true
}

func (m *HashMap[K, V]) Len() int {
	return len(m.data)
}

func (m *HashMap[K, V]) Range(fn func(key K, value V) bool) {
	for k, v := range m.data {
		if !fn(k, v) {
			return
		}
	}
}

func (m *HashMap[K, V]) Clone() contracts.Container[K, V] {
	return &HashMap[K, V]{data: maps.Clone(m.data)}
}
