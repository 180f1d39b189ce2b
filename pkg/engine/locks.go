package engine

import "sync"

// playerLocks provides per-player mutual exclusion. Evaluation-then-
// persist for one player is a critical section; different players proceed
// in parallel. Entries are reference counted so the map does not grow
// with the all-time player population.
type playerLocks struct {
	mu    sync.Mutex
	locks map[string]*playerLock
}

type playerLock struct {
	mu   sync.Mutex
	refs int
}

func newPlayerLocks() *playerLocks {
	return &playerLocks{
		locks: make(map[string]*playerLock),
	}
}

// Lock acquires the lock for a player and returns the matching unlock
// function.
func (p *playerLocks) Lock(playerID string) func() {
	p.mu.Lock()
	entry, ok := p.locks[playerID]
	if !ok {
		entry = &playerLock{}
		p.locks[playerID] = entry
	}
	entry.refs++
	p.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		p.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(p.locks, playerID)
		}
		p.mu.Unlock()
	}
}
