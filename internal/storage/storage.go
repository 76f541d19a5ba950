package storage

import (
	"bytes"
	"sync"

	"go.uber.org/zap"

	"lsmkv/internal/cache"
	"lsmkv/internal/config"
	"lsmkv/internal/fileobj"
	"lsmkv/internal/iterators"
	"lsmkv/internal/lsmerrors"
	"lsmkv/internal/memtable"
	"lsmkv/internal/metrics"
	"lsmkv/internal/sstable"
)

// LsmStorage is the façade described by the core: a shared-immutable
// engine-state record behind a read-write lock, a dedicated flush mutex,
// the backing directory, and a shared block cache.
type LsmStorage struct {
	mu sync.RWMutex
	st *state

	flushMu sync.Mutex

	dir   string
	store fileobj.Store
	cache *cache.BlockCache
	cfg   *config.Config

	log     *zap.Logger
	metrics *metrics.Metrics
}

// Option customizes Open.
type Option func(*LsmStorage)

// WithLogger overrides the default production zap logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *LsmStorage) { s.log = log }
}

// WithStore overrides the default local-filesystem object store, e.g. with
// an S3-backed one.
func WithStore(store fileobj.Store) Option {
	return func(s *LsmStorage) { s.store = store }
}

// WithMetrics overrides the default (DefaultRegisterer-backed) metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *LsmStorage) { s.metrics = m }
}

// Open loads (or initializes) an LSM engine rooted at dir: its config, its
// block cache, and every existing SST discovered in the store, placed into
// L0 oldest-to-newest by sst_id.
func Open(dir string, opts ...Option) (*LsmStorage, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}

	s := &LsmStorage{
		st:  newState(),
		dir: dir,
		cfg: cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		log, err := zap.NewProduction()
		if err != nil {
			log = zap.NewNop()
		}
		s.log = log
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if s.store == nil {
		store, err := fileobj.NewLocalStore(dir)
		if err != nil {
			return nil, err
		}
		s.store = store
	}
	s.cache = cache.NewBlockCache(int(cfg.Cache.BlockCapacity))

	ids, err := s.store.List()
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		f, err := s.store.Open(id)
		if err != nil {
			return nil, err
		}
		sst, err := sstable.Open(id, f, s.cache)
		if err != nil {
			return nil, err
		}
		s.st.l0 = append(s.st.l0, sst)
		if id+1 > s.st.nextSSTID {
			s.st.nextSSTID = id + 1
		}
	}
	s.metrics.L0Tables.Set(float64(len(s.st.l0)))

	s.log.Info("lsmkv engine opened",
		zap.String("dir", dir),
		zap.Int("l0_tables", len(s.st.l0)),
		zap.Uint64("next_sst_id", s.st.nextSSTID),
	)
	return s, nil
}

// snapshot clones the current shared reference under a brief read lock and
// releases it immediately — the protocol every reader follows so its
// subsequent work is unaffected by concurrent topology changes (spec §5.1).
func (s *LsmStorage) snapshot() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st
}

// Put writes key->value, latest-write-wins, triggering a synchronous flush
// if the active memtable has crossed its configured size threshold. Empty
// keys and empty values are usage errors.
func (s *LsmStorage) Put(key, value []byte) error {
	if len(key) == 0 {
		return lsmerrors.ErrKeyEmpty
	}
	if len(value) == 0 {
		return lsmerrors.ErrValueEmpty
	}

	snap := s.snapshot()
	snap.active.Put(key, value)
	s.metrics.PutTotal.Inc()

	if snap.active.ApproxSize() >= s.cfg.Memtable.FlushThresholdBytes {
		return s.Sync()
	}
	return nil
}

// Delete inserts a tombstone for key. Empty keys are a usage error.
func (s *LsmStorage) Delete(key []byte) error {
	if len(key) == 0 {
		return lsmerrors.ErrKeyEmpty
	}

	snap := s.snapshot()
	snap.active.Delete(key)
	s.metrics.DeleteTotal.Inc()

	if snap.active.ApproxSize() >= s.cfg.Memtable.FlushThresholdBytes {
		return s.Sync()
	}
	return nil
}

// Get probes, in order, the active memtable, immutable memtables
// newest-first, then L0 SSTs newest-first. A tombstone (empty value) at
// the first hit means absent.
func (s *LsmStorage) Get(key []byte) ([]byte, bool, error) {
	if len(key) == 0 {
		return nil, false, lsmerrors.ErrKeyEmpty
	}
	s.metrics.GetTotal.Inc()

	snap := s.snapshot()

	if v, ok := snap.active.Get(key); ok {
		return s.resolveHit(v)
	}
	for i := len(snap.immutables) - 1; i >= 0; i-- {
		if v, ok := snap.immutables[i].Get(key); ok {
			return s.resolveHit(v)
		}
	}

	if len(snap.l0) == 0 {
		s.metrics.GetMisses.Inc()
		return nil, false, nil
	}

	sstIters := make([]iterators.StorageIterator, 0, len(snap.l0))
	for i := len(snap.l0) - 1; i >= 0; i-- {
		it, err := sstable.CreateAndSeekToKey(snap.l0[i], key)
		if err != nil {
			return nil, false, err
		}
		sstIters = append(sstIters, it)
	}
	merged := iterators.NewMergeIterator(sstIters)

	// Open question (a): verify the merged head actually equals the probe
	// key before treating it as present — the merge only guarantees the
	// smallest key >= probe across sources, not equality.
	if merged.IsValid() && bytes.Equal(merged.Key(), key) {
		return s.resolveHit(merged.Value())
	}
	s.metrics.GetMisses.Inc()
	return nil, false, nil
}

func (s *LsmStorage) resolveHit(value []byte) ([]byte, bool, error) {
	if len(value) == 0 {
		s.metrics.GetMisses.Inc()
		return nil, false, nil
	}
	s.metrics.GetHits.Inc()
	return append([]byte(nil), value...), true, nil
}

// Scan returns an ordered, fused cursor over every live entry with key in
// [lower, upper].
func (s *LsmStorage) Scan(lower, upper memtable.Bound) (*iterators.FusedIterator, error) {
	s.metrics.ScanTotal.Inc()
	snap := s.snapshot()

	memIters := []iterators.StorageIterator{snap.active.Scan(lower, upper)}
	for i := len(snap.immutables) - 1; i >= 0; i-- {
		memIters = append(memIters, snap.immutables[i].Scan(lower, upper))
	}
	memMerge := iterators.NewMergeIterator(memIters)

	sstIters := make([]iterators.StorageIterator, 0, len(snap.l0))
	for i := len(snap.l0) - 1; i >= 0; i-- {
		it, err := seekSSTToLower(snap.l0[i], lower)
		if err != nil {
			return nil, err
		}
		sstIters = append(sstIters, it)
	}
	sstMerge := iterators.NewMergeIterator(sstIters)

	two, err := iterators.NewTwoMergeIterator(memMerge, sstMerge)
	if err != nil {
		return nil, err
	}
	lsmIt, err := iterators.NewLsmIterator(two, upper)
	if err != nil {
		return nil, err
	}
	return iterators.NewFusedIterator(lsmIt), nil
}

// seekSSTToLower positions an SSTable iterator at the start of lower:
// Included seeks to the key, Excluded seeks to the key then advances once
// if the landed key equals the bound, Unbounded seeks to first.
func seekSSTToLower(sst *sstable.SSTable, lower memtable.Bound) (*sstable.Iterator, error) {
	switch lower.Kind {
	case memtable.Included:
		return sstable.CreateAndSeekToKey(sst, lower.Key)
	case memtable.Excluded:
		it, err := sstable.CreateAndSeekToKey(sst, lower.Key)
		if err != nil {
			return nil, err
		}
		if it.IsValid() && bytes.Equal(it.Key(), lower.Key) {
			if err := it.Next(); err != nil {
				return nil, err
			}
		}
		return it, nil
	default:
		return sstable.CreateAndSeekToFirst(sst)
	}
}
