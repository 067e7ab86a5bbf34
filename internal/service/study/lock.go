package study

import (
	"sync"

	"github.com/google/uuid"
)

// studentLocks serializes mutations per student. Entries are reference
// counted and dropped once no caller holds or waits for them.
type studentLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*studentLock
}

type studentLock struct {
	mu   sync.Mutex
	refs int
}

func newStudentLocks() *studentLocks {
	return &studentLocks{locks: make(map[uuid.UUID]*studentLock)}
}

// lock blocks until the caller owns studentID and returns the release func.
func (l *studentLocks) lock(studentID uuid.UUID) (unlock func()) {
	l.mu.Lock()
	sl, ok := l.locks[studentID]
	if !ok {
		sl = &studentLock{}
		l.locks[studentID] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.mu.Lock()

	return func() {
		sl.mu.Unlock()

		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.locks, studentID)
		}
		l.mu.Unlock()
	}
}
