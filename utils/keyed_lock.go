package utils

import "sync"

// KeyedLock serializes operations that share a key, e.g. all reservation
// writes for one student. Entries are never removed; the key space is
// bounded by the number of students and accommodations.
type KeyedLock struct {
	locks sync.Map // key -> *sync.Mutex
}

func (l *KeyedLock) get(key string) *sync.Mutex {
	mu, _ := l.locks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (l *KeyedLock) Lock(key string) {
	l.get(key).Lock()
}

func (l *KeyedLock) Unlock(key string) {
	l.get(key).Unlock()
}
