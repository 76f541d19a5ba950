package storage

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lsmkv/internal/memtable"
	"lsmkv/internal/sstable"
)

// Sync serializes with any other concurrent Sync via the flush mutex,
// rotates the active memtable into the immutable list, builds an SST from
// it, and publishes the result into L0 — all without blocking concurrent
// writers, who keep writing into the freshly rotated active memtable
// (spec §5.3).
func (s *LsmStorage) Sync() error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	opID := uuid.New().String()
	start := time.Now()
	log := s.log.With(zap.String("flush_id", opID))

	flushed := s.rotate()
	if flushed.Len() == 0 {
		s.dropEmptyImmutable(flushed)
		log.Debug("sync skipped: active memtable empty")
		return nil
	}

	sstID := s.reserveSSTID()
	log.Info("flushing memtable", zap.Uint64("sst_id", sstID), zap.Int("entries", flushed.Len()))

	builder := sstable.NewBuilder(s.cfg.Block.TargetSize)
	flushed.Flush(func(key, value []byte) { builder.Add(key, value) })

	sst, err := builder.Build(sstID, s.store, s.cache)
	if err != nil {
		s.metrics.FlushErrors.Inc()
		log.Error("flush failed", zap.Error(err))
		return err
	}

	s.publish(flushed, sst)

	s.metrics.FlushTotal.Inc()
	s.metrics.FlushDuration.Observe(time.Since(start).Seconds())
	log.Info("flush complete", zap.Duration("took", time.Since(start)))
	return nil
}

// rotate swaps in a fresh empty active memtable and returns the one just
// retired, appending it to the immutable list (newest at the back).
func (s *LsmStorage) rotate() *memtable.MemTable {
	s.mu.Lock()
	defer s.mu.Unlock()

	flushed := s.st.active
	next := s.st.clone()
	next.active = memtable.New()
	next.immutables = append(next.immutables, flushed)
	s.st = next
	return flushed
}

// dropEmptyImmutable removes a just-rotated-but-empty memtable from the
// immutable list without allocating an SST id for it.
func (s *LsmStorage) dropEmptyImmutable(flushed *memtable.MemTable) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.st.clone()
	next.immutables = removeByIdentity(next.immutables, flushed)
	s.st = next
}

// reserveSSTID hands out the next sst_id without yet publishing it; the id
// is only durably claimed once publish succeeds.
func (s *LsmStorage) reserveSSTID() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.nextSSTID
}

// publish removes the flushed memtable from the immutable list by
// identity (not by popping an end as the original source did — see spec
// §9 open question (b)) and appends the new SST to L0.
func (s *LsmStorage) publish(flushed *memtable.MemTable, sst *sstable.SSTable) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.st.clone()
	next.immutables = removeByIdentity(next.immutables, flushed)
	next.l0 = append(next.l0, sst)
	next.nextSSTID = sst.ID + 1
	s.st = next
	s.metrics.L0Tables.Set(float64(len(next.l0)))
}

// removeByIdentity removes the first element of list that is the same
// *memtable.MemTable as target, preserving the order of the rest.
func removeByIdentity(list []*memtable.MemTable, target *memtable.MemTable) []*memtable.MemTable {
	for i, mt := range list {
		if mt == target {
			out := make([]*memtable.MemTable, 0, len(list)-1)
			out = append(out, list[:i]...)
			out = append(out, list[i+1:]...)
			return out
		}
	}
	return list
}
