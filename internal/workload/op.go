package workload

import (
	"math/rand"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

type OpKind uint8

const (
	OpGet OpKind = iota
	OpPut
	OpDelete
	OpSnapshot
)

func (k OpKind) String() string {
	switch k {
	case OpGet:
		return "get"
	case OpPut:
		return "put"
	case OpDelete:
		return "delete"
	case OpSnapshot:
		return "snapshot"
	}
	return "unknown"
}

type Op struct {
	Kind  OpKind
	Key   string
	Value int64
}

// Generate builds a random operation log. The same Config always yields the same log.
func Generate(cfg Config) ([]Op, error) {
	cfg = cfg.withDefaults()
	if cfg.PutRatio < 0 || cfg.DeleteRatio < 0 || cfg.SnapshotRatio < 0 ||
		cfg.PutRatio+cfg.DeleteRatio+cfg.SnapshotRatio > 1 {
		return nil, ErrInvalidRatios
	}

	rnd := rand.New(rand.NewSource(cfg.Seed))

	keys := make([]string, cfg.Keys)
	for i := range keys {
		id, err := uuid.NewRandomFromReader(rnd)
		if err != nil {
			return nil, err
		}
		keys[i] = id.String()
	}

	ops := make([]Op, cfg.Ops)
	for i := range ops {
		key := keys[rnd.Intn(len(keys))]
		switch p := rnd.Float64(); {
		case p < cfg.PutRatio:
			ops[i] = Op{Kind: OpPut, Key: key, Value: rnd.Int63()}
		case p < cfg.PutRatio+cfg.DeleteRatio:
			ops[i] = Op{Kind: OpDelete, Key: key}
		case p < cfg.PutRatio+cfg.DeleteRatio+cfg.SnapshotRatio:
			ops[i] = Op{Kind: OpSnapshot}
		default:
			ops[i] = Op{Kind: OpGet, Key: key}
		}
	}
	return ops, nil
}

// Partition splits ops into n logs so that all operations on one key land in
// the same log, in their original order. Replaying the partitions
// concurrently therefore ends in the same state as replaying ops in order.
func Partition(ops []Op, n int) [][]Op {
	if n < 1 {
		n = 1
	}
	parts := make([][]Op, n)
	for i, op := range ops {
		idx := i % n
		if op.Kind != OpSnapshot {
			idx = int(xxhash.Sum64String(op.Key) % uint64(n))
		}
		parts[idx] = append(parts[idx], op)
	}
	return parts
}
