package game

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"pongsync/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufSize    = 64
	inboundBufSize = 256
)

var (
	ErrPeerClosed     = eris.New("peer connection closed")
	ErrSendBufferFull = eris.New("send buffer full")
)

// Peer is the network side of a client. The read pump only queues raw
// frames; the tick goroutine applies them through Drain so the Registry
// keeps a single writer.
type Peer struct {
	id       string
	conn     *websocket.Conn
	log      zerolog.Logger
	dispatch *protocol.Dispatcher
	// set on the tick goroutine once handlers are dropped
	discarded bool

	inbound chan []byte
	send    chan []byte
	done    chan struct{}
	once    sync.Once
}

// Dial connects to the relay. A non-empty token is sent as a bearer
// credential.
func Dial(ctx context.Context, url, token string, log zerolog.Logger) (*Peer, error) {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return nil, eris.Wrapf(err, "dial %s: %s", url, resp.Status)
		}
		return nil, eris.Wrapf(err, "dial %s", url)
	}
	return NewPeer(conn, log), nil
}

// NewPeer wraps an open connection
func NewPeer(conn *websocket.Conn, log zerolog.Logger) *Peer {
	id := uuid.NewString()
	return &Peer{
		id:       id,
		conn:     conn,
		log:      log.With().Str("conn", id).Logger(),
		dispatch: protocol.NewDispatcher(protocol.ServerCodeName),
		inbound:  make(chan []byte, inboundBufSize),
		send:     make(chan []byte, sendBufSize),
		done:     make(chan struct{}),
	}
}

// ID returns the connection id used in logs
func (p *Peer) ID() string { return p.id }

// Dispatcher returns the handler table applied by Drain
func (p *Peer) Dispatcher() *protocol.Dispatcher { return p.dispatch }

// Done is closed once the connection is gone
func (p *Peer) Done() <-chan struct{} { return p.done }

// Run announces the peer to the relay and pumps frames until the
// connection closes or ctx ends.
func (p *Peer) Run(ctx context.Context) error {
	if err := p.Send(protocol.Signal(protocol.CodeConnect)); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(p.readPump)
	g.Go(p.writePump)
	g.Go(func() error {
		select {
		case <-ctx.Done():
			p.Leave()
		case <-p.done:
		}
		return nil
	})
	return g.Wait()
}

// Send queues msg for the write pump without blocking
func (p *Peer) Send(msg []byte) error {
	select {
	case <-p.done:
		return ErrPeerClosed
	default:
	}
	select {
	case p.send <- msg:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Drain dispatches every queued frame. A protocol error closes the
// connection and is returned; the caller keeps running.
func (p *Peer) Drain() error {
	if p.discarded {
		return nil
	}
	for {
		select {
		case msg := <-p.inbound:
			if err := p.dispatch.Dispatch(msg); err != nil {
				p.log.Error().Err(err).Msg("protocol error, closing connection")
				p.discard()
				p.Close()
				return err
			}
		default:
			return nil
		}
	}
}

// Flush dispatches the frames that arrived before the connection closed,
// such as a final RESULT or OP_DISCONNECT, then drops every handler.
// Call it from the tick goroutine once Done is closed.
func (p *Peer) Flush() {
	if err := p.Drain(); err != nil {
		return
	}
	p.discard()
}

func (p *Peer) discard() {
	p.discarded = true
	p.dispatch.Close()
}

// Leave sends DISCONNECT as the last frame, then closes
func (p *Peer) Leave() {
	if err := p.Send(protocol.Signal(protocol.CodeDisconnect)); err != nil {
		p.Close()
	}
	// the write pump closes after the DISCONNECT frame
	select {
	case <-p.done:
	case <-time.After(writeWait):
		p.Close()
	}
}

// Close tears the connection down. Safe to call more than once. Frames
// already queued stay there for Flush.
func (p *Peer) Close() {
	p.once.Do(func() {
		close(p.done)
		_ = p.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		p.conn.Close()
	})
}

func (p *Peer) readPump() error {
	defer p.Close()

	p.conn.SetReadLimit(maxMessageSize)
	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		p.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, msg, err := p.conn.ReadMessage()
		if err != nil {
			select {
			case <-p.done:
				return nil
			default:
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return eris.Wrap(err, "read")
			}
			return nil
		}
		if msgType != websocket.BinaryMessage || len(msg) == 0 {
			p.log.Warn().Int("type", msgType).Msg("ignoring non-binary frame")
			continue
		}

		select {
		case p.inbound <- msg:
		case <-p.done:
			return nil
		}
	}
}

func (p *Peer) writePump() error {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		p.Close()
	}()

	for {
		select {
		case msg := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
				return eris.Wrap(err, "write")
			}
			if len(msg) == 1 && msg[0] == protocol.CodeDisconnect {
				return nil
			}

		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return eris.Wrap(err, "ping")
			}

		case <-p.done:
			return nil
		}
	}
}
