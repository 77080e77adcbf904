package memstore

import (
	"context"
	"sync"

	"github.com/cognicore/kwmap/pkg/kwmap/store"
	"github.com/cognicore/kwmap/pkg/kwmap/taxonomy"
)

var _ store.Store = (*Store)(nil)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu      sync.RWMutex
	records map[taxonomy.Type][]taxonomy.FlatRecord
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{records: make(map[taxonomy.Type][]taxonomy.FlatRecord)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// WriteSnapshot implements store.Store.
func (s *Store) WriteSnapshot(ctx context.Context, index taxonomy.FlatIndex) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[taxonomy.Type][]taxonomy.FlatRecord, len(index))
	for t, list := range index {
		cp := make([]taxonomy.FlatRecord, len(list))
		for i, rec := range list {
			cp[i] = copyRecord(rec)
		}
		s.records[t] = cp
	}
	return nil
}

// Records implements store.Store.
func (s *Store) Records(ctx context.Context, t taxonomy.Type) ([]taxonomy.FlatRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.records[t]
	out := make([]taxonomy.FlatRecord, len(list))
	for i, rec := range list {
		out[i] = copyRecord(rec)
	}
	return out, nil
}

// Count implements store.Store.
func (s *Store) Count(ctx context.Context) (map[taxonomy.Type]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[taxonomy.Type]int, len(s.records))
	for t, list := range s.records {
		if len(list) > 0 {
			out[t] = len(list)
		}
	}
	return out, nil
}

func copyRecord(rec taxonomy.FlatRecord) taxonomy.FlatRecord {
	if rec.Keywords != nil {
		rec.Keywords = append([]string(nil), rec.Keywords...)
	}
	if rec.Metadata != nil {
		m := *rec.Metadata
		rec.Metadata = &m
	}
	return rec
}
