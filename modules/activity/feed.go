package activity

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultFeedSize is the number of entries kept per owner when no size is configured.
const DefaultFeedSize = 20

// Kind identifies what happened to a task.
type Kind string

const (
	KindCreated   Kind = "created"
	KindUpdated   Kind = "updated"
	KindCompleted Kind = "completed"
	KindReopened  Kind = "reopened"
	KindDeleted   Kind = "deleted"
	KindCleared   Kind = "cleared"
)

// Entry is one line of an owner's activity feed.
type Entry struct {
	Kind   Kind      `json:"kind"`
	TaskID int64     `json:"task_id,omitempty"`
	Title  string    `json:"title,omitempty"`
	Count  int64     `json:"count,omitempty"`
	At     time.Time `json:"at"`
}

// Summary renders the entry as a short sentence for the task list page.
func (e Entry) Summary() string {
	switch e.Kind {
	case KindCreated:
		return fmt.Sprintf("Created \"%s\"", e.Title)
	case KindUpdated:
		return fmt.Sprintf("Edited \"%s\"", e.Title)
	case KindCompleted:
		return fmt.Sprintf("Completed \"%s\"", e.Title)
	case KindReopened:
		return fmt.Sprintf("Reopened \"%s\"", e.Title)
	case KindDeleted:
		return fmt.Sprintf("Deleted \"%s\"", e.Title)
	case KindCleared:
		if e.Count == 1 {
			return "Cleared 1 completed task"
		}
		return fmt.Sprintf("Cleared %d completed tasks", e.Count)
	}
	return string(e.Kind)
}

// Feed keeps the most recent entries per owner in memory, plus running
// totals per kind. It is safe for concurrent use.
type Feed struct {
	mu      sync.RWMutex
	size    int
	entries map[string][]Entry
	totals  map[Kind]int64
}

var _ ActivityPort = (*Feed)(nil)

// NewFeed creates a feed retaining size entries per owner.
func NewFeed(size int) *Feed {
	if size <= 0 {
		size = DefaultFeedSize
	}
	return &Feed{
		size:    size,
		entries: make(map[string][]Entry),
		totals:  make(map[Kind]int64),
	}
}

// Record appends an entry to the owner's feed, dropping the oldest entries
// beyond the configured size.
func (f *Feed) Record(ownerID string, e Entry) {
	if ownerID == "" {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	list := append(f.entries[ownerID], e)
	if len(list) > f.size {
		list = list[len(list)-f.size:]
	}
	f.entries[ownerID] = list
	f.totals[e.Kind]++
}

// Recent returns up to limit entries for the owner, newest first.
// A limit of zero or less returns the whole retained feed.
func (f *Feed) Recent(ownerID string, limit int) []Entry {
	f.mu.RLock()
	defer f.mu.RUnlock()

	list := f.entries[ownerID]
	if limit <= 0 || limit > len(list) {
		limit = len(list)
	}

	result := make([]Entry, 0, limit)
	for i := len(list) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, list[i])
	}
	return result
}

// RecentActivity implements ActivityPort.
func (f *Feed) RecentActivity(_ context.Context, ownerID string, limit int) ([]Entry, error) {
	return f.Recent(ownerID, limit), nil
}

// Totals returns a copy of the per-kind counters.
func (f *Feed) Totals() map[Kind]int64 {
	f.mu.RLock()
	defer f.mu.RUnlock()

	result := make(map[Kind]int64, len(f.totals))
	for k, v := range f.totals {
		result[k] = v
	}
	return result
}

// Owners returns how many owners currently have a feed.
func (f *Feed) Owners() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.entries)
}
