package lockmanager

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

/*
Table level shared/exclusive locks.

Each table gets a weighted semaphore of capacity maxReaders. A shared lock
takes weight 1 and an exclusive lock takes the whole capacity, so any number
of shared holders coexist and an exclusive holder excludes everyone.
Acquisition honours context cancellation. semaphore.Weighted is FIFO, so a
waiting exclusive request is not starved by later shared ones.
*/

type Mode int

const (
	Shared Mode = iota
	Exclusive
)

func (m Mode) String() string {
	if m == Exclusive {
		return "X"
	}
	return "S"
}

const maxReaders = 1 << 20

func (m Mode) weight() int64 {
	if m == Exclusive {
		return maxReaders
	}
	return 1
}

type tableLock struct {
	sem  *semaphore.Weighted
	refs int // holders plus waiters
}

// TableLockManager hands out table locks by name.
type TableLockManager struct {
	mu     sync.Mutex
	tables map[string]*tableLock
}

func NewTableLockManager() *TableLockManager {
	return &TableLockManager{tables: make(map[string]*tableLock)}
}

func (lm *TableLockManager) ref(table string) *tableLock {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	tl, ok := lm.tables[table]
	if !ok {
		tl = &tableLock{sem: semaphore.NewWeighted(maxReaders)}
		lm.tables[table] = tl
	}
	tl.refs++
	return tl
}

func (lm *TableLockManager) unref(table string) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	tl, ok := lm.tables[table]
	if !ok {
		return
	}
	tl.refs--
	if tl.refs <= 0 {
		delete(lm.tables, table)
	}
}

// LockTable blocks until table is locked in mode or ctx is done.
func (lm *TableLockManager) LockTable(ctx context.Context, table string, mode Mode) error {
	tl := lm.ref(table)
	if err := tl.sem.Acquire(ctx, mode.weight()); err != nil {
		lm.unref(table)
		return fmt.Errorf("lock %s on table %s: %w", mode, table, err)
	}
	return nil
}

// TryLockTable locks without waiting and reports whether it succeeded.
func (lm *TableLockManager) TryLockTable(table string, mode Mode) bool {
	tl := lm.ref(table)
	if tl.sem.TryAcquire(mode.weight()) {
		return true
	}
	lm.unref(table)
	return false
}

// UnlockTable releases a lock taken with LockTable or TryLockTable.
func (lm *TableLockManager) UnlockTable(table string, mode Mode) {
	lm.mu.Lock()
	tl, ok := lm.tables[table]
	lm.mu.Unlock()
	if !ok {
		panic(fmt.Sprintf("lockmanager: unlock of unlocked table %s", table))
	}
	tl.sem.Release(mode.weight())
	lm.unref(table)
}

// Tracked returns the number of tables with holders or waiters.
func (lm *TableLockManager) Tracked() int {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return len(lm.tables)
}
