package core

// Registry maps room codes to live rooms. It is owned by the hub and
// only ever touched from the hub goroutine.
type Registry struct {
	rooms map[string]*Room
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// Create inserts a fresh room under the given code. Fails with
// ErrCodeInUse if the code is already taken.
func (g *Registry) Create(code string) (*Room, error) {
	if _, exists := g.rooms[code]; exists {
		return nil, ErrCodeInUse
	}
	room := NewRoom(code)
	g.rooms[code] = room
	return room, nil
}

// Get looks up a room by code with no side effects.
func (g *Registry) Get(code string) (*Room, bool) {
	room, ok := g.rooms[code]
	return room, ok
}

// Remove deletes a room. Removing an unknown code is a no-op.
func (g *Registry) Remove(code string) {
	delete(g.rooms, code)
}

// RoomsOf returns every room the given connection is a member of.
// By construction that is at most one, but disconnect cleanup sweeps
// all rooms defensively.
func (g *Registry) RoomsOf(id string) []*Room {
	var rooms []*Room
	for _, room := range g.rooms {
		if _, ok := room.Player(id); ok {
			rooms = append(rooms, room)
		}
	}
	return rooms
}

// Len returns the number of live rooms.
func (g *Registry) Len() int {
	return len(g.rooms)
}
