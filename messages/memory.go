package messages

import (
	"context"
	"sync"
)

type exchangeKey struct {
	requestID string
	code      string
}

// MemoryTable is an in-memory, threadsafe Table. Entries are copied on
// write and on read so callers never share mutable state with the table.
type MemoryTable struct {
	mu      sync.RWMutex
	entries map[exchangeKey]*Entry
}

var _ Table = (*MemoryTable)(nil)

// NewMemoryTable constructs an empty MemoryTable.
func NewMemoryTable() *MemoryTable {
	return &MemoryTable{entries: make(map[exchangeKey]*Entry)}
}

// HasMessageForExchange implements Table.
func (t *MemoryTable) HasMessageForExchange(ctx context.Context, requestID, code string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.entries[exchangeKey{requestID, code}]
	return ok
}

// GetMessageForExchange implements Table.
func (t *MemoryTable) GetMessageForExchange(ctx context.Context, requestID, code string) *Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	entry, ok := t.entries[exchangeKey{requestID, code}]
	if !ok {
		return nil
	}
	return NewEntry(entry.requestID, entry.code, entry.ids)
}

// AddMessage implements Table.
func (t *MemoryTable) AddMessage(ctx context.Context, entry *Entry) {
	if entry == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[exchangeKey{entry.requestID, entry.code}] = NewEntry(entry.requestID, entry.code, entry.ids)
}

// Count implements Table.
func (t *MemoryTable) Count(ctx context.Context) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
