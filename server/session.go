package main

import (
	"sort"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

const maxRooms = 500

var ErrTooManyRooms = eris.New("too many active rooms")

// RoomManager matches peers into rooms. Rooms waiting for a second peer
// sit in a queue; a new peer takes the first waiting room that is not
// empty. It is owned by the hub goroutine.
type RoomManager struct {
	hub   *Hub
	queue []*Room
	rooms map[string]*Room
}

// NewRoomManager creates an empty manager
func NewRoomManager(hub *Hub) *RoomManager {
	return &RoomManager{
		hub:   hub,
		rooms: make(map[string]*Room),
	}
}

// Join seats c in a waiting room, opening a new one when none is left
func (rm *RoomManager) Join(c *Client) (*Room, error) {
	for len(rm.queue) > 0 {
		r := rm.queue[0]
		rm.queue = rm.queue[1:]
		if r.Empty() {
			delete(rm.rooms, r.ID)
			continue
		}
		r.add(c)
		return r, nil
	}

	if len(rm.rooms) >= maxRooms {
		return nil, ErrTooManyRooms
	}
	r := newRoom(uuid.NewString(), rm.hub)
	rm.rooms[r.ID] = r
	rm.queue = append(rm.queue, r)
	r.add(c)
	return r, nil
}

// Leave frees c's seat. A room that was full goes back to the queue; an
// empty room is dropped.
func (rm *RoomManager) Leave(c *Client) (r *Room, other *Client, promoted bool) {
	r = c.room
	if r == nil {
		return nil, nil, false
	}
	if r.Full() {
		rm.queue = append(rm.queue, r)
	}
	other, promoted = r.remove(c)
	r.reset()
	if r.Empty() {
		delete(rm.rooms, r.ID)
	}
	return r, other, promoted
}

// Get returns a room by ID
func (rm *RoomManager) Get(id string) *Room {
	return rm.rooms[id]
}

// Count returns the number of open rooms
func (rm *RoomManager) Count() int {
	return len(rm.rooms)
}

// List returns every open room, oldest first
func (rm *RoomManager) List() []RoomInfo {
	list := make([]RoomInfo, 0, len(rm.rooms))
	for _, r := range rm.rooms {
		list = append(list, r.Info())
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Created.Before(list[j].Created)
	})
	return list
}
