package bot

import "sync"

// userLocks выдает мьютекс на пользователя: обновления одного
// пользователя обрабатываются строго по одному, разные пользователи -
// параллельно.
type userLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[int64]*sync.Mutex)}
}

// acquire захватывает мьютекс пользователя и возвращает функцию
// освобождения.
func (l *userLocks) acquire(userID int64) func() {
	l.mu.Lock()
	lock, ok := l.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[userID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
