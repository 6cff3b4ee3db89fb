// Package history keeps the in-memory record of generated mockups.
package history

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"teestudio/internal/domain"
)

// Cap bounds the list; adding beyond it evicts the oldest items.
const Cap = 20

// List is a bounded, most-recent-first collection of history items.
type List struct {
	mu    sync.RWMutex
	items []domain.HistoryItem
}

func NewList() *List { return &List{} }

// NewItem stamps an image and its option snapshot into a history item.
func NewItem(img domain.DesignFile, opts domain.MockupOptions) domain.HistoryItem {
	return domain.HistoryItem{
		ID:        uuid.NewString(),
		Image:     img,
		Options:   opts,
		CreatedAt: time.Now().UTC(),
	}
}

// Add prepends the items, preserving their given order at the head, then
// trims to Cap.
func (l *List) Add(items ...domain.HistoryItem) {
	if len(items) == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(append([]domain.HistoryItem{}, items...), l.items...)
	if len(l.items) > Cap {
		l.items = l.items[:Cap]
	}
}

// Items returns a copy of the list, most recent first.
func (l *List) Items() []domain.HistoryItem {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.HistoryItem, len(l.items))
	copy(out, l.items)
	return out
}

// Get looks up an item by id.
func (l *List) Get(id string) (domain.HistoryItem, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, item := range l.items {
		if item.ID == id {
			return item, true
		}
	}
	return domain.HistoryItem{}, false
}

// Len reports the current item count.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}
