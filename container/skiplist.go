package container

import (
	"github.com/soroosh-tanzadeh/snapkv/contracts"
)

var _ contracts.Container[string, int] = (*SkipList[string, int])(nil)
var _ contracts.Cloner[string, int] = (*SkipList[string, int])(nil)

const (
	maxSkipListLevel = 16
	// A node is promoted one level with probability 1/4.
	skipListPromote = 0xFFFF / 4
)

// CompareFunc orders keys: negative when a < b, zero when equal, positive when a > b.
type CompareFunc[K any] func(a, b K) int

type skipListNode[K any, V any] struct {
	key     K
	value   V
	forward []*skipListNode[K, V]
}

// SkipList is a Container that keeps keys sorted by a caller-supplied comparator,
// so Range visits entries in ascending key order.
type SkipList[K any, V any] struct {
	head    *skipListNode[K, V]
	level   int
	count   int
	compare CompareFunc[K]
	rng     uint64
}

func NewSkipList[K any, V any](compare CompareFunc[K]) *SkipList[K, V] {
	if compare == nil {
		panic("container: NewSkipList received a nil comparator")
	}
	return &SkipList[K, V]{
		head:    &skipListNode[K, V]{forward: make([]*skipListNode[K, V], maxSkipListLevel)},
		compare: compare,
		rng:     1,
	}
}

func SkipListFactory[K any, V any](compare CompareFunc[K]) contracts.ContainerFactory[K, V] {
	return func() contracts.Container[K, V] {
		return NewSkipList[K, V](compare)
	}
}

// xorshift64
func (s *SkipList[K, V]) nextRandom() uint64 {
	s.rng ^= s.rng << 13
	s.rng ^= s.rng >> 7
	s.rng ^= s.rng << 17
	return s.rng
}

func (s *SkipList[K, V]) randomLevel() int {
	level := 0
	for level < maxSkipListLevel-1 && s.nextRandom()&0xFFFF < skipListPromote {
		level++
	}
	return level
}

// findPredecessors fills update with the rightmost node before key on every level
// and returns the first node whose key is not less than key.
func (s *SkipList[K, V]) findPredecessors(key K, update []*skipListNode[K, V]) *skipListNode[K, V] {
	current := s.head
	for i := s.level; i >= 0; i-- {
		for current.forward[i] != nil && s.compare(current.forward[i].key, key) < 0 {
			current = current.forward[i]
		}
		if update != nil {
			update[i] = current
		}
	}
	return current.forward[0]
}

func (s *SkipList[K, V]) Get(key K) (V, bool) {
	node := s.findPredecessors(key, nil)
	if node != nil && s.compare(node.key, key) == 0 {
		return node.value, true
	}
	var zero V
	return zero, false
}

func (s *SkipList[K, V]) Set(key K, value V) {
	update := make([]*skipListNode[K, V], maxSkipListLevel)
	node := s.findPredecessors(key, update)
	if node != nil && s.compare(node.key, key) == 0 {
		node.value = value
		return
	}

	level := s.randomLevel()
	if level > s.level {
		for i := s.level + 1; i <= level; i++ {
			update[i] = s.head
		}
		s.level = level
	}

	node = &skipListNode[K, V]{
		key:     key,
		value:   value,
		forward: make([]*skipListNode[K, V], level+1),
	}
	for i := 0; i <= level; i++ {
		node.forward[i] = update[i].forward[i]
		update[i].forward[i] = node
	}
	s.count++
}

func (s *SkipList[K, V]) Delete(key K) bool {
	update := make([]*skipListNode[K, V], maxSkipListLevel)
	node := s.findPredecessors(key, update)
	if node == nil || s.compare(node.key, key) != 0 {
		return false
	}

	for i := 0; i <= s.level; i++ {
		if update[i].forward[i] != node {
			break
		}
		update[i].forward[i] = node.forward[i]
	}
	for s.level > 0 && s.head.forward[s.level] == nil {
		s.level--
	}
	s.count--
	return true
}

func (s *SkipList[K, V]) Len() int {
	return s.count
}

func (s *SkipList[K, V]) Range(fn func(key K, value V) bool) {
	for node := s.head.forward[0]; node != nil; node = node.forward[0] {
		if !fn(node.key, node.value) {
			return
		}
	}
}

// Clone copies the list in key order. Appending at the tail avoids the search
// that Set would do for every entry.
func (s *SkipList[K, V]) Clone() contracts.Container[K, V] {
	clone := NewSkipList[K, V](s.compare)
	tails := make([]*skipListNode[K, V], maxSkipListLevel)
	for i := range tails {
		tails[i] = clone.head
	}

	s.Range(func(key K, value V) bool {
		level := clone.randomLevel()
		if level > clone.level {
			clone.level = level
		}
		node := &skipListNode[K, V]{
			key:     key,
			value:   value,
			forward: make([]*skipListNode[K, V], level+1),
		}
		for i := 0; i <= level; i++ {
			tails[i].forward[i] = node
			tails[i] = node
		}
		clone.count++
		return true
	})
	return clone
}
