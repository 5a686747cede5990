package store

import "github.com/soroosh-tanzadeh/snapkv/locker"

type Stats struct {
	ID      string
	Version uint64
	Len     int
	Lock    locker.Stats
}

func (s *Store[K, V]) Stats() Stats {
	s.lock.RLock()
	version, size := s.version, s.data.Len()
	s.lock.RUnlock()

	return Stats{
		ID:      s.id,
		Version: version,
		Len:     size,
		Lock:    s.lock.Stats(),
	}
}
