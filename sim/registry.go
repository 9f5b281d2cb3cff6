package sim

import "sync"

// Registry owns the remote ship mirrors for one session, keyed by player
// ID, with explicit insert-on-join / remove-on-leave lifecycle. The relay
// read pump and the simulation tick touch it from different goroutines.
type Registry struct {
	mu      sync.RWMutex
	remotes map[string]*RemoteShip
	tun     Tuning
}

// NewRegistry creates an empty registry
func NewRegistry(tun Tuning) *Registry {
	return &Registry{
		remotes: make(map[string]*RemoteShip),
		tun:     tun,
	}
}

// Add inserts a mirror for a newly joined player and returns it. Adding an
// existing ID returns the existing mirror unchanged.
func (reg *Registry) Add(id, name string) *RemoteShip {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if r, ok := reg.remotes[id]; ok {
		return r
	}
	r := NewRemoteShip(id, name, reg.tun)
	reg.remotes[id] = r
	return r
}

// Get returns the mirror for id, or nil if the player is unknown
func (reg *Registry) Get(id string) *RemoteShip {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.remotes[id]
}

// Remove drops a mirror on player leave
func (reg *Registry) Remove(id string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.remotes, id)
}

// Len returns the number of tracked remote players
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.remotes)
}

// Snapshot returns the current mirrors in no particular order
func (reg *Registry) Snapshot() []*RemoteShip {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]*RemoteShip, 0, len(reg.remotes))
	for _, r := range reg.remotes {
		out = append(out, r)
	}
	return out
}

// Retain removes every mirror whose ID is not in keep, returning the IDs
// dropped. Used when a roster snapshot authoritatively lists who is here.
func (reg *Registry) Retain(keep map[string]bool) []string {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	var dropped []string
	for id := range reg.remotes {
		if !keep[id] {
			delete(reg.remotes, id)
			dropped = append(dropped, id)
		}
	}
	return dropped
}
