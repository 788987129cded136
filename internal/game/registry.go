package game

import (
	"sort"
	"sync"
)

// Registry owns every room of one family. All reads and writes go through
// its mutex, so a transition never observes another one half-applied.
// Rooms handed out are clones; mutate only inside Update or Upsert.
//
// Every accepted mutation bumps the room's version under the same lock, so
// versions order snapshots the way the mutations were applied.
type Registry[T any] struct {
	mu       sync.Mutex
	rooms    map[string]*T
	versions map[string]uint64
	clone    func(*T) *T
}

func NewRegistry[T any](clone func(*T) *T) *Registry[T] {
	return &Registry[T]{
		rooms:    make(map[string]*T),
		versions: make(map[string]uint64),
		clone:    clone,
	}
}

func (r *Registry[T]) Get(id string) (*T, bool) {
	room, _, ok := r.GetVersion(id)
	return room, ok
}

func (r *Registry[T]) GetVersion(id string) (*T, uint64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, 0, false
	}
	return r.clone(room), r.versions[id], true
}

// Update applies fn to an existing room and returns a snapshot taken
// before the lock is released, with the version it produced.
func (r *Registry[T]) Update(id string, fn func(room *T) error) (*T, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, 0, ErrRoomNotFound
	}
	if err := fn(room); err != nil {
		return nil, 0, err
	}
	r.versions[id]++
	return r.clone(room), r.versions[id], nil
}

// Upsert is Update for creating events. A room created here is discarded
// again when fn rejects the event.
func (r *Registry[T]) Upsert(id string, create func() (*T, error), fn func(room *T) error) (*T, uint64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	created := false
	if !ok {
		fresh, err := create()
		if err != nil {
			return nil, 0, false, err
		}
		room = fresh
		r.rooms[id] = room
		created = true
	}
	if err := fn(room); err != nil {
		if created {
			delete(r.rooms, id)
		}
		return nil, 0, false, err
	}
	r.versions[id]++
	return r.clone(room), r.versions[id], created, nil
}

func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}

// Each visits rooms in id order under the lock. fn must not retain room.
func (r *Registry[T]) Each(fn func(id string, room *T)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.rooms))
	for id := range r.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fn(id, r.rooms[id])
	}
}
