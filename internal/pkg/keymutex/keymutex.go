// Package keymutex provides striped mutual exclusion keyed by int64 ids.
//
// The enrollment engine serializes operations per student: two selects by
// the same student must not interleave their credit-limit evaluation, while
// selects by different students stay independent. A fixed pool of mutexes
// indexed by key hash gives that without a lock per live key and without a
// global lock.
package keymutex

import "sync"

const defaultStripes = 128

// KeyMutex is a fixed set of mutex stripes addressed by key. Keys that hash
// to the same stripe contend with each other; that is harmless for
// correctness and rare enough with the default stripe count.
type KeyMutex struct {
	stripes []sync.Mutex
}

// New creates a KeyMutex with the given number of stripes. Values below one
// fall back to the default.
func New(stripes int) *KeyMutex {
	if stripes < 1 {
		stripes = defaultStripes
	}
	return &KeyMutex{stripes: make([]sync.Mutex, stripes)}
}

// Lock acquires the stripe for key.
func (m *KeyMutex) Lock(key int64) {
	m.stripes[m.index(key)].Lock()
}

// Unlock releases the stripe for key.
func (m *KeyMutex) Unlock(key int64) {
	m.stripes[m.index(key)].Unlock()
}

func (m *KeyMutex) index(key int64) int {
	// Fibonacci hashing spreads sequential ids across stripes.
	h := uint64(key) * 0x9E3779B97F4A7C15
	return int(h % uint64(len(m.stripes)))
}
