package locker

type Stats struct {
	WaitingWriters     int64
	WaitingReaders     int64
	ActiveReaders      int64
	ConsecutiveReaders int64
	WriterActive       bool

	// Lifetime admission totals, including successful try acquisitions.
	ReaderAdmissions uint64
	WriterAdmissions uint64
}

// Stats reads the counters without taking the lock, so fields may come from
// slightly different instants.
func (l *FairLock) Stats() Stats {
	return Stats{
		WaitingWriters:     l.waitingWriters.Load(),
		WaitingReaders:     l.waitingReaders.Load(),
		ActiveReaders:      l.activeReaders.Load(),
		ConsecutiveReaders: l.consecutiveReaders.Load(),
		WriterActive:       l.writerActive.Load(),
		ReaderAdmissions:   l.readerAdmissions.Load(),
		WriterAdmissions:   l.writerAdmissions.Load(),
	}
}
