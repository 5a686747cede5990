package contracts

import "sync"

// RWLocker is a reader-writer lock whose try variants never block.
type RWLocker interface {
	sync.Locker
	TryLock() bool

	RLock()
	TryRLock() bool
	RUnlock()
}
