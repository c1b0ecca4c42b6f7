package main

import "time"

// RoomInfo summarises a room for the /rooms listing. Names holds each
// side's token subject, empty for an open seat or an anonymous peer.
type RoomInfo struct {
	ID      string    `json:"id" msgpack:"id"`
	Players int       `json:"players" msgpack:"players"`
	Phase   string    `json:"phase" msgpack:"phase"`
	Score   [2]int    `json:"score" msgpack:"score"`
	Names   [2]string `json:"names" msgpack:"names"`
	Created time.Time `json:"created" msgpack:"created"`
}

// ErrorMsg is the body of a rejected HTTP request
type ErrorMsg struct {
	Msg string `json:"msg"`
}

type eventKind int

const (
	evRegister eventKind = iota
	evUnregister
	evMessage
	evTimer
	evList
)

type timerKind int

const (
	timerRoundStart timerKind = iota
	timerCountdown
	timerCollision
)

// hubEvent is everything the hub goroutine reacts to
type hubEvent struct {
	kind   eventKind
	client *Client
	msg    []byte
	room   *Room
	timer  timerKind
	gen    int
	reply  chan []RoomInfo
}
