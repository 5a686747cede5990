package workload

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/soroosh-tanzadeh/snapkv/store"
)

// Checksum hashes every entry of snap. Entries are combined with addition so
// the result does not depend on iteration order.
func Checksum(snap *store.Snapshot[string, int64]) uint64 {
	var sum uint64
	var buf [8]byte
	d := xxhash.New()

	for key, value := range snap.All() {
		d.Reset()
		_, _ = d.WriteString(key)
		binary.LittleEndian.PutUint64(buf[:], uint64(value))
		_, _ = d.Write(buf[:])
		sum += d.Sum64()
	}
	return sum ^ uint64(snap.Len())
}
