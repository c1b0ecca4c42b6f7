package main

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"pongsync/game"
	"pongsync/protocol"
)

const (
	maxConnsPerIP = 5
	maxTotalConns = 1000
	eventBufSize  = 256
)

// Hub owns every client and room. Pumps and timers post events; Run
// applies them one at a time.
type Hub struct {
	clients map[*Client]bool
	events  chan hubEvent
	done    chan struct{}
	rooms   *RoomManager
	tuning  game.Tuning
	stats   *Stats
	log     zerolog.Logger

	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int
}

// NewHub creates a hub. stats may be nil.
func NewHub(t game.Tuning, stats *Stats, log zerolog.Logger) *Hub {
	h := &Hub{
		clients: make(map[*Client]bool),
		events:  make(chan hubEvent, eventBufSize),
		done:    make(chan struct{}),
		tuning:  t,
		stats:   stats,
		log:     log,
		ipConns: make(map[string]int),
	}
	h.rooms = NewRoomManager(h)
	return h
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= maxTotalConns {
		return false
	}
	if h.ipConns[ip] >= maxConnsPerIP {
		return false
	}
	return true
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}

// post hands ev to Run. It reports false once the hub has stopped.
func (h *Hub) post(ev hubEvent) bool {
	select {
	case h.events <- ev:
		return true
	case <-h.done:
		return false
	}
}

// Rooms asks the hub goroutine for the room listing
func (h *Hub) Rooms(ctx context.Context) ([]RoomInfo, error) {
	reply := make(chan []RoomInfo, 1)
	if !h.post(hubEvent{kind: evList, reply: reply}) {
		return nil, context.Canceled
	}
	select {
	case list := <-reply:
		return list, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Run processes events until ctx ends, then closes every connection
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for c := range h.clients {
				c.Close()
			}
			return
		case ev := <-h.events:
			h.handle(ev)
		}
	}
}

func (h *Hub) handle(ev hubEvent) {
	switch ev.kind {
	case evRegister:
		h.clients[ev.client] = true
		ev.client.dispatch = h.clientDispatcher(ev.client)
		h.stats.Incr(keyConnections)
		h.stats.Gauge(keyClients, len(h.clients))

	case evUnregister:
		c := ev.client
		if _, ok := h.clients[c]; !ok {
			return
		}
		h.leave(c)
		delete(h.clients, c)
		close(c.send)
		h.stats.Incr(keyDisconnections)
		h.stats.Gauge(keyClients, len(h.clients))

	case evMessage:
		c := ev.client
		if _, ok := h.clients[c]; !ok {
			return
		}
		h.stats.Incr(keyMessages)
		if err := c.dispatch.Dispatch(ev.msg); err != nil {
			h.stats.Incr(keyProtocolErrors)
			c.log.Warn().Err(err).Msg("protocol error, closing connection")
			c.Close()
		}

	case evTimer:
		ev.room.onTimer(ev.timer, ev.gen)

	case evList:
		ev.reply <- h.rooms.List()
	}
}

// clientDispatcher routes c's messages. Handlers run on the hub goroutine.
func (h *Hub) clientDispatcher(c *Client) *protocol.Dispatcher {
	d := protocol.NewDispatcher(protocol.ClientCodeName)
	d.Handle(protocol.CodeConnect, func([]byte) error {
		h.join(c)
		return nil
	})
	d.Handle(protocol.CodeMotion, func(msg []byte) error {
		m, err := protocol.DecodeMotion(msg)
		if err != nil {
			return err
		}
		if c.room != nil {
			c.room.onMotion(c, m)
		}
		return nil
	})
	d.Handle(protocol.CodeCollision, func(msg []byte) error {
		col, err := protocol.DecodeCollision(msg)
		if err != nil {
			return err
		}
		if c.room != nil {
			c.room.onCollision(c, col)
		}
		return nil
	})
	d.Handle(protocol.CodeDisconnect, func([]byte) error {
		h.leave(c)
		return nil
	})
	d.Handle(protocol.CodePlayAgain, func([]byte) error {
		if c.room != nil {
			c.room.onPlayAgain(c)
		}
		return nil
	})
	return d
}

// join seats c and starts the match when the room fills up
func (h *Hub) join(c *Client) {
	if c.room != nil {
		return
	}
	r, err := h.rooms.Join(c)
	if err != nil {
		c.log.Warn().Err(err).Msg("join refused")
		c.Close()
		return
	}
	h.stats.Gauge(keyRooms, h.rooms.Count())
	c.log.Info().Str("room", r.ID).Stringer("side", c.side).Msg("joined room")
	c.Send(protocol.Connected{Side: c.side}.Encode())

	if r.Full() {
		r.start()
	}
}

// leave frees c's seat and tells the remaining peer
func (h *Hub) leave(c *Client) {
	r, other, promoted := h.rooms.Leave(c)
	if r == nil {
		return
	}
	h.stats.Gauge(keyRooms, h.rooms.Count())
	c.log.Info().Str("room", r.ID).Msg("left room")
	if other == nil {
		return
	}
	other.Send(protocol.Signal(protocol.CodeOpDisconnect))
	if promoted {
		other.Send(protocol.Connected{Side: other.side}.Encode())
	}
}
