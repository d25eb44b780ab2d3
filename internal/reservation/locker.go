package reservation

import (
	"context"
	"fmt"
	"sync"
)

// SlotLocker serialises reservation writes per (table, date).
type SlotLocker interface {
	LockSlot(ctx context.Context, tableID int64, date, owner string) (bool, error)
	UnlockSlot(ctx context.Context, tableID int64, date, owner string) error
}

// LocalLocker is the in-process SlotLocker used when Redis is disabled.
// It only protects a single running instance.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]string
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[string]string)}
}

func (l *LocalLocker) LockSlot(_ context.Context, tableID int64, date, owner string) (bool, error) {
	key := fmt.Sprintf("%d:%s", tableID, date)
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, held := l.slots[key]; held {
		return false, nil
	}
	l.slots[key] = owner
	return true, nil
}

func (l *LocalLocker) UnlockSlot(_ context.Context, tableID int64, date, owner string) error {
	key := fmt.Sprintf("%d:%s", tableID, date)
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.slots[key] == owner {
		delete(l.slots, key)
	}
	return nil
}
