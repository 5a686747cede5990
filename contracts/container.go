package contracts

// Container is the map capability a store needs from its backing data structure.
// Implementations are not required to be safe for concurrent use; the store
// serializes access to them.
type Container[K any, V any] interface {
	Get(key K) (V, bool)
	// Set inserts key or overwrites its value.
	Set(key K, value V)
	// Delete removes key and reports whether it was present.
	Delete(key K) bool
	Len() int
	// Range calls fn for every entry until fn returns false.
	Range(fn func(key K, value V) bool)
}

// Cloner is implemented by containers that can copy themselves faster than
// re-inserting every entry.
type Cloner[K any, V any] interface {
	Clone() Container[K, V]
}

// ContainerFactory returns a new, empty container.
type ContainerFactory[K any, V any] func() Container[K, V]
