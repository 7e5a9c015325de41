package ledger

import (
	"sync"

	"github.com/harrisonrobin/spacereport/pkg/model"
)

// Store publishes ledger snapshots under concurrent batch arrival. Writers
// build a new snapshot from the current one and swap it in; readers always
// see a complete, immutable snapshot and never observe a merge in progress.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewStore returns a store holding an empty ledger.
func NewStore() *Store {
	return &Store{snap: Empty()}
}

// Add merges a batch into the ledger. Batches may arrive in any order, in
// parallel, or more than once; the resulting ledger is the same.
func (st *Store) Add(batch []model.TaskRecord) {
	st.mu.Lock()
	st.snap = st.snap.Merge(batch)
	st.mu.Unlock()
}

// Snapshot returns the current published snapshot.
func (st *Store) Snapshot() Snapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.snap
}
