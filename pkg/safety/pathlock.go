package safety

import "sync"

// pathLocker serializes existence checks and execution per resolved absolute
// path, so concurrent sibling delegations cannot race a check against a
// write on the same target.
type pathLocker struct {
	mu    sync.Mutex
	locks map[string]*pathLock
}

type pathLock struct {
	mu   sync.Mutex
	refs int
}

func newPathLocker() *pathLocker {
	return &pathLocker{
		locks: make(map[string]*pathLock),
	}
}

// acquire blocks until the path is exclusively held and returns the release
// function. Locks are reference counted and removed when unused.
func (l *pathLocker) acquire(path string) func() {
	l.mu.Lock()
	lock, ok := l.locks[path]
	if !ok {
		lock = &pathLock{}
		l.locks[path] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			lock.mu.Unlock()

			l.mu.Lock()
			lock.refs--
			if lock.refs == 0 {
				delete(l.locks, path)
			}
			l.mu.Unlock()
		})
	}
}
