// Package livelist keeps an in-memory copy of a table slice current from row change events.
package livelist

import (
	"errors"
	"sync"

	"storehub-backend/internal/domain"
)

var (
	ErrNoID        = errors.New("row has no id")
	ErrUnknownType = errors.New("unknown change type")
)

// List applies change events idempotently. Existing entries keep their position.
type List[T any] struct {
	mu     sync.RWMutex
	items  []T
	id     func(T) string
	decode func([]byte) (T, error)
}

// New builds a list from a fetched snapshot. decode parses a row payload of a change event.
func New[T any](items []T, id func(T) string, decode func([]byte) (T, error)) *List[T] {
	l := &List[T]{id: id, decode: decode}
	l.Replace(items)
	return l
}

// Replace swaps in a freshly fetched snapshot.
func (l *List[T]) Replace(items []T) {
	cp := make([]T, len(items))
	copy(cp, items)
	l.mu.Lock()
	l.items = cp
	l.mu.Unlock()
}

func (l *List[T]) Snapshot() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	cp := make([]T, len(l.items))
	copy(cp, l.items)
	return cp
}

func (l *List[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Apply folds one change into the list and reports whether anything changed.
func (l *List[T]) Apply(evt domain.ChangeEvent) (bool, error) {
	switch evt.Type {
	case domain.ChangeInsert:
		row, err := l.parse(evt.New)
		if err != nil {
			return false, err
		}
		return l.Insert(row), nil
	case domain.ChangeUpdate:
		row, err := l.parse(evt.New)
		if err != nil {
			return false, err
		}
		return l.Upsert(row), nil
	case domain.ChangeDelete:
		row, err := l.parse(evt.Old)
		if err != nil {
			return false, err
		}
		return l.Remove(l.id(row)), nil
	}
	return false, ErrUnknownType
}

func (l *List[T]) parse(raw []byte) (T, error) {
	row, err := l.decode(raw)
	if err != nil {
		return row, err
	}
	if l.id(row) == "" {
		return row, ErrNoID
	}
	return row, nil
}

func (l *List[T]) indexOf(id string) int {
	for i, item := range l.items {
		if l.id(item) == id {
			return i
		}
	}
	return -1
}

// Insert appends row unless an entry with the same id is already present.
func (l *List[T]) Insert(row T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.indexOf(l.id(row)) >= 0 {
		return false
	}
	l.items = append(l.items, row)
	return true
}

// Upsert replaces the entry with the same id in place, or appends row.
func (l *List[T]) Upsert(row T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexOf(l.id(row)); i >= 0 {
		l.items[i] = row
		return true
	}
	l.items = append(l.items, row)
	return true
}

func (l *List[T]) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexOf(id)
	if i < 0 {
		return false
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	return true
}
