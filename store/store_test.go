package store

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/soroosh-tanzadeh/snapkv/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

type StoreTestSuite struct {
	suite.Suite
	store *Store[string, int]
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (t *StoreTestSuite) SetupTest() {
	t.store = New[string, int]()
}

func (t *StoreTestSuite) Test_EmptyStore() {
	t.Assert().True(t.store.Empty())
	t.Assert().Equal(0, t.store.Len())
	t.Assert().Equal(uint64(0), t.store.Version())
	t.Assert().NotEmpty(t.store.ID())
}

func (t *StoreTestSuite) Test_SnapshotSurvivesLaterMutations() {
	t.store.Put("a", 1)
	t.Assert().Equal(uint64(1), t.store.Version())
	t.store.Put("b", 2)
	t.Assert().Equal(uint64(2), t.store.Version())

	s1 := t.store.Snapshot()
	t.Assert().Equal(uint64(2), s1.Version())
	t.Assert().Equal(2, s1.Len())

	t.Assert().True(t.store.Delete("a"))
	t.Assert().Equal(uint64(3), t.store.Version())

	_, ok := t.store.Get("a")
	t.Assert().False(ok)

	v, ok := s1.Get("a")
	t.Assert().True(ok)
	t.Assert().Equal(1, v)
	v, _ = s1.Get("b")
	t.Assert().Equal(2, v)
	t.Assert().Equal(uint64(2), s1.Version())
}

func (t *StoreTestSuite) Test_DeleteMissingKeepsVersion() {
	t.Assert().False(t.store.Delete("missing"))
	t.Assert().Equal(uint64(0), t.store.Version())
}

func (t *StoreTestSuite) Test_PutOverwriteAdvancesVersion() {
	t.store.Put("k", 1)
	t.store.Put("k", 1)
	t.store.Put("k", 2)

	v, ok := t.store.Get("k")
	t.Assert().True(ok)
	t.Assert().Equal(2, v)
	t.Assert().Equal(1, t.store.Len())
	t.Assert().Equal(uint64(3), t.store.Version())
}

func (t *StoreTestSuite) Test_PutThenGetRoundTrip() {
	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("key-%d", i%10)
		t.store.Put(key, i)
		v, ok := t.store.Get(key)
		t.Require().True(ok)
		t.Require().Equal(i, v)
	}
}

func (t *StoreTestSuite) Test_SequentialOperationsMatchReferenceMap() {
	rnd := rand.New(rand.NewSource(42))
	reference := make(map[string]int)
	var version uint64

	for i := 0; i < 2000; i++ {
		key := fmt.Sprintf("k%d", rnd.Intn(50))
		switch rnd.Intn(3) {
		case 0:
			t.store.Put(key, i)
			reference[key] = i
			version++
		case 1:
			_, existed := reference[key]
			t.Require().Equal(existed, t.store.Delete(key))
			if existed {
				delete(reference, key)
				version++
			}
		default:
			want, wantOK := reference[key]
			got, ok := t.store.Get(key)
			t.Require().Equal(wantOK, ok)
			t.Require().Equal(want, got)
		}
	}

	t.Assert().Equal(version, t.store.Version())
	t.Assert().Equal(len(reference), t.store.Len())

	snap := t.store.Snapshot()
	got := make(map[string]int)
	for k, v := range snap.All() {
		got[k] = v
	}
	t.Assert().Equal(reference, got)
}

func (t *StoreTestSuite) Test_SnapshotIterationIsRestartable() {
	t.store.Put("x", 1)
	t.store.Put("y", 2)
	t.store.Put("z", 3)
	snap := t.store.Snapshot()

	first := make(map[string]int)
	for k, v := range snap.All() {
		first[k] = v
	}
	second := make(map[string]int)
	snap.Range(func(k string, v int) bool {
		second[k] = v
		return true
	})

	t.Assert().Equal(map[string]int{"x": 1, "y": 2, "z": 3}, first)
	t.Assert().Equal(first, second)
	t.Assert().True(snap.Contains("y"))
	t.Assert().False(snap.Contains("w"))
	t.Assert().False(snap.Empty())
}

func (t *StoreTestSuite) Test_SnapshotVersionNeverDecreases() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < 4; w++ {
		g.Go(func() error {
			for i := 0; i < 500 && ctx.Err() == nil; i++ {
				key := fmt.Sprintf("w%d-%d", w, i%20)
				if i%3 == 0 {
					t.store.Delete(key)
				} else {
					t.store.Put(key, i)
				}
			}
			return nil
		})
	}
	for r := 0; r < 4; r++ {
		g.Go(func() error {
			var last uint64
			for i := 0; i < 200; i++ {
				v := t.store.Snapshot().Version()
				if v < last {
					return fmt.Errorf("snapshot version went from %d to %d", last, v)
				}
				last = v
			}
			return nil
		})
	}
	t.Require().NoError(g.Wait())
}

// With insert-only traffic every mutation adds one entry, so a consistent
// snapshot has exactly as many entries as its version.
func (t *StoreTestSuite) Test_SnapshotIsConsistentCut() {
	const writers, perWriter = 8, 300
	done := atomic.Bool{}

	g, _ := errgroup.WithContext(context.Background())
	for w := 0; w < writers; w++ {
		g.Go(func() error {
			for i := 0; i < perWriter; i++ {
				t.store.Put(fmt.Sprintf("%d/%d", w, i), i)
			}
			return nil
		})
	}

	checker, _ := errgroup.WithContext(context.Background())
	for r := 0; r < 4; r++ {
		checker.Go(func() error {
			for !done.Load() {
				snap := t.store.Snapshot()
				if uint64(snap.Len()) != snap.Version() {
					return fmt.Errorf("snapshot at version %d has %d entries", snap.Version(), snap.Len())
				}
			}
			return nil
		})
	}

	t.Require().NoError(g.Wait())
	done.Store(true)
	t.Require().NoError(checker.Wait())

	t.Assert().Equal(writers*perWriter, t.store.Len())
	t.Assert().Equal(uint64(writers*perWriter), t.store.Version())
}

func (t *StoreTestSuite) Test_Stats() {
	t.store.Put("a", 1)
	t.store.Put("b", 2)
	t.store.Delete("a")

	stats := t.store.Stats()
	t.Assert().Equal(t.store.ID(), stats.ID)
	t.Assert().Equal(uint64(3), stats.Version)
	t.Assert().Equal(1, stats.Len)
	t.Assert().Equal(uint64(3), stats.Lock.WriterAdmissions)
	t.Assert().Zero(stats.Lock.ActiveReaders)
}

func TestNewOrderedKeys_SnapshotIteratesInOrder(t *testing.T) {
	s := NewOrderedKeys[int, string]()
	for _, k := range []int{5, 3, 9, 1, 7} {
		s.Put(k, fmt.Sprint(k))
	}
	s.Delete(9)

	var keys []int
	for k := range s.Snapshot().All() {
		keys = append(keys, k)
	}

	assert.Equal(t, []int{1, 3, 5, 7}, keys)
}

// sliceContainer does not implement contracts.Cloner, so snapshots go through Range.
type sliceContainer struct {
	keys   []string
	values []int
}

func (c *sliceContainer) index(key string) int {
	for i, k := range c.keys {
		if k == key {
			return i
		}
	}
	return -1
}

func (c *sliceContainer) Get(key string) (int, bool) {
	if i := c.index(key); i >= 0 {
		return c.values[i], true
	}
	return 0, false
}

func (c *sliceContainer) Set(key string, value int) {
	if i := c.index(key); i >= 0 {
		c.values[i] = value
		return
	}
	c.keys = append(c.keys, key)
	c.values = append(c.values, value)
}

func (c *sliceContainer) Delete(key string) bool {
	i := c.index(key)
	if i < 0 {
		return false
	}
	c.keys = append(c.keys[:i], c.keys[i+1:]...)
	c.values = append(c.values[:i], c.values[i+1:]...)
	return true
}

func (c *sliceContainer) Len() int { return len(c.keys) }

func (c *sliceContainer) Range(fn func(string, int) bool) {
	for i := range c.keys {
		if !fn(c.keys[i], c.values[i]) {
			return
		}
	}
}

func TestNewWithContainer_CopiesThroughFactory(t *testing.T) {
	created := 0
	s := NewWithContainer[string, int](func() contracts.Container[string, int] {
		created++
		return &sliceContainer{}
	})
	s.Put("a", 1)
	s.Put("b", 2)

	snap := s.Snapshot()
	s.Put("a", 10)
	s.Put("c", 3)

	// One container for the store, one for the snapshot copy.
	assert.Equal(t, 2, created)

	var got []string
	for k, v := range snap.All() {
		got = append(got, fmt.Sprintf("%s=%d", k, v))
	}
	assert.Equal(t, []string{"a=1", "b=2"}, got)
}

func TestNewWithContainer_PanicsOnNilFactory(t *testing.T) {
	assert.Panics(t, func() { NewWithContainer[string, int](nil) })
}

func TestSnapshot_LogsAtDebugLevel(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	s := New[string, int](WithLogger(logger), WithID("orders"))
	s.Put("a", 1)
	s.Snapshot()

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "snapshot taken", entry.Message)
	assert.Equal(t, "orders", entry.Data["store"])
	assert.Equal(t, uint64(1), entry.Data["version"])
	assert.Equal(t, 1, entry.Data["entries"])
}

func TestOptions(t *testing.T) {
	logger, _ := test.NewNullLogger()
	o := &options{}
	for _, opt := range []Option{
		WithID("id"),
		WithLogger(logger),
		WithMaxReadersBeforeWriter(7),
		WithSlowWaitThreshold(time.Second),
	} {
		opt(o)
	}

	assert.Equal(t, "id", o.id)
	assert.Equal(t, logger, o.logger)
	assert.Equal(t, logger, o.lockConfig.Logger)
	assert.Equal(t, 7, o.lockConfig.MaxReadersBeforeWriter)
	assert.Equal(t, time.Second, o.lockConfig.SlowWaitThreshold)
}
