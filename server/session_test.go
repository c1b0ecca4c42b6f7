package main

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pongsync/protocol"
)

func newTestManager() *RoomManager {
	return NewRoomManager(&Hub{log: zerolog.Nop()})
}

func TestJoinPairsInOrder(t *testing.T) {
	rm := newTestManager()
	a, b, c := &Client{id: "a"}, &Client{id: "b"}, &Client{id: "c"}

	r1, err := rm.Join(a)
	require.NoError(t, err)
	r2, err := rm.Join(b)
	require.NoError(t, err)
	assert.Same(t, r1, r2)
	assert.True(t, r1.Full())
	assert.Equal(t, protocol.SideLeft, a.side)
	assert.Equal(t, protocol.SideRight, b.side)

	r3, err := rm.Join(c)
	require.NoError(t, err)
	assert.NotSame(t, r1, r3)
	assert.Equal(t, protocol.SideLeft, c.side)
	assert.Equal(t, 2, rm.Count())
}

func TestLeavePromotesAndRequeues(t *testing.T) {
	rm := newTestManager()
	a, b, c := &Client{id: "a"}, &Client{id: "b"}, &Client{id: "c"}
	r, _ := rm.Join(a)
	rm.Join(b)
	r.phase = PhasePlaying
	r.scores = [2]int{2, 1}

	left, other, promoted := rm.Leave(a)
	assert.Same(t, r, left)
	assert.Same(t, b, other)
	assert.True(t, promoted)
	assert.Equal(t, protocol.SideLeft, b.side)
	assert.Nil(t, a.room)
	assert.Equal(t, PhaseLobby, r.phase)
	assert.Equal(t, [2]int{}, r.scores)

	// the half-empty room is offered to the next peer
	r2, err := rm.Join(c)
	require.NoError(t, err)
	assert.Same(t, r, r2)
	assert.Equal(t, protocol.SideRight, c.side)
}

func TestLeaveGuestKeepsHost(t *testing.T) {
	rm := newTestManager()
	a, b := &Client{id: "a"}, &Client{id: "b"}
	rm.Join(a)
	rm.Join(b)

	_, other, promoted := rm.Leave(b)
	assert.Same(t, a, other)
	assert.False(t, promoted)
	assert.Equal(t, protocol.SideLeft, a.side)

	r, other, _ := rm.Leave(b)
	assert.Nil(t, r)
	assert.Nil(t, other)
}

func TestEmptyRoomsAreDropped(t *testing.T) {
	rm := newTestManager()
	a, b := &Client{id: "a"}, &Client{id: "b"}
	r, _ := rm.Join(a)
	rm.Leave(a)
	assert.Zero(t, rm.Count())
	assert.Nil(t, rm.Get(r.ID))

	// the stale queue entry is skipped
	r2, err := rm.Join(b)
	require.NoError(t, err)
	assert.NotEqual(t, r.ID, r2.ID)
	assert.Equal(t, 1, rm.Count())
	assert.Len(t, rm.List(), 1)
}

func TestRoomInfo(t *testing.T) {
	rm := newTestManager()
	r, _ := rm.Join(&Client{id: "a"})
	info := r.Info()
	assert.Equal(t, r.ID, info.ID)
	assert.Equal(t, 1, info.Players)
	assert.Equal(t, "lobby", info.Phase)
	assert.Equal(t, "round_over", PhaseRoundOver.String())
}
