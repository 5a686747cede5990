package locker

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/soroosh-tanzadeh/snapkv/contracts"
)

var _ contracts.RWLocker = (*FairLock)(nil)

// FairLock is a reader-writer lock that bounds starvation on both sides.
//
// A waiting writer stops new readers from being admitted, so a continuous
// stream of readers cannot hold a writer off forever. When a writer releases
// the lock while readers are queued, those readers get a turn before the next
// writer; the turn ends once every queued reader is in or once
// Config.MaxReadersBeforeWriter readers have been admitted since the last
// writer, whichever comes first.
//
// The try variants never wait and never join the fairness queue: TryRLock
// fails while any writer holds or waits for the lock, TryLock fails while
// anyone holds it or a reader turn is open.
//
// A FairLock must be created with New and must not be copied after first use.
type FairLock struct {
	mu         sync.Mutex
	readerCond *sync.Cond
	writerCond *sync.Cond

	// Mutated only while mu is held; atomic so Stats can read them without it.
	waitingWriters     atomic.Int64
	waitingReaders     atomic.Int64
	activeReaders      atomic.Int64
	consecutiveReaders atomic.Int64
	writerActive       atomic.Bool

	readerTurn bool

	readerAdmissions atomic.Uint64
	writerAdmissions atomic.Uint64

	cfg Config
}

func New(cfg Config) *FairLock {
	l := &FairLock{cfg: cfg.withDefaults()}
	l.readerCond = sync.NewCond(&l.mu)
	l.writerCond = sync.NewCond(&l.mu)
	return l
}

// RLock acquires shared access, blocking while a writer holds the lock or
// has priority over new readers.
func (l *FairLock) RLock() {
	start := l.startWait()

	l.mu.Lock()
	l.waitingReaders.Add(1)
	for !l.readerAdmissible() {
		l.readerCond.Wait()
	}
	l.waitingReaders.Add(-1)
	l.admitReader()
	l.mu.Unlock()

	l.observeWait("shared", start)
}

func (l *FairLock) TryRLock() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.writerActive.Load() || l.waitingWriters.Load() > 0 {
		return false
	}
	l.admitReader()
	return true
}

func (l *FairLock) RUnlock() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.activeReaders.Load() <= 0 {
		panic(contracts.ErrRUnlockOfUnlockedLock)
	}
	if l.activeReaders.Add(-1) == 0 {
		l.writerCond.Broadcast()
	}
}

// Lock acquires exclusive access. The caller is registered as a waiting
// writer before it blocks, which holds back readers that arrive afterwards.
//
// Calling Lock while the same goroutine holds shared access deadlocks.
func (l *FairLock) Lock() {
	start := l.startWait()

	l.mu.Lock()
	l.waitingWriters.Add(1)
	for l.writerActive.Load() || l.activeReaders.Load() > 0 || l.readerTurn {
		l.writerCond.Wait()
	}
	l.waitingWriters.Add(-1)
	l.admitWriter()
	l.mu.Unlock()

	l.observeWait("exclusive", start)
}

// TryLock acquires exclusive access only if nobody holds the lock. A failed
// attempt leaves no trace, in particular it does not count as a waiting writer.
func (l *FairLock) TryLock() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.writerActive.Load() || l.activeReaders.Load() > 0 || l.readerTurn {
		return false
	}
	l.admitWriter()
	return true
}

func (l *FairLock) Unlock() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.writerActive.Load() {
		panic(contracts.ErrUnlockOfUnlockedLock)
	}
	l.writerActive.Store(false)

	// Hand the lock to queued readers before the next writer.
	if l.waitingReaders.Load() > 0 {
		l.readerTurn = true
	}
	l.readerCond.Broadcast()
	l.writerCond.Broadcast()
}

// RLocker returns a sync.Locker that maps Lock and Unlock to RLock and RUnlock.
func (l *FairLock) RLocker() sync.Locker {
	return (*rlocker)(l)
}

type rlocker FairLock

func (r *rlocker) Lock()   { (*FairLock)(r).RLock() }
func (r *rlocker) Unlock() { (*FairLock)(r).RUnlock() }

// mu must be held.
func (l *FairLock) readerAdmissible() bool {
	if l.writerActive.Load() {
		return false
	}
	if l.waitingWriters.Load() == 0 {
		return true
	}
	return l.readerTurn && l.consecutiveReaders.Load() < int64(l.cfg.MaxReadersBeforeWriter)
}

// mu must be held.
func (l *FairLock) admitReader() {
	l.activeReaders.Add(1)
	admitted := l.consecutiveReaders.Add(1)
	l.readerAdmissions.Add(1)

	if l.readerTurn && (l.waitingReaders.Load() == 0 || admitted >= int64(l.cfg.MaxReadersBeforeWriter)) {
		l.readerTurn = false
	}
}

// mu must be held.
func (l *FairLock) admitWriter() {
	l.writerActive.Store(true)
	l.consecutiveReaders.Store(0)
	l.writerAdmissions.Add(1)
}

func (l *FairLock) startWait() time.Time {
	if l.cfg.SlowWaitThreshold <= 0 {
		return time.Time{}
	}
	return time.Now()
}

func (l *FairLock) observeWait(mode string, start time.Time) {
	if start.IsZero() {
		return
	}
	if wait := time.Since(start); wait > l.cfg.SlowWaitThreshold {
		l.cfg.Logger.WithField("mode", mode).WithField("wait", wait).Warn("slow lock admission")
	}
}
