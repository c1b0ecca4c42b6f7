package protocol

import (
	"sync"

	"github.com/rotisserie/eris"
)

// Handler processes one inbound message, code byte included
type Handler func(msg []byte) error

// Dispatcher routes messages by their leading code byte
type Dispatcher struct {
	mu       sync.RWMutex
	name     func(byte) string
	handlers map[byte]Handler
}

// NewDispatcher creates an empty table. name renders codes in errors.
func NewDispatcher(name func(byte) string) *Dispatcher {
	if name == nil {
		name = func(byte) string { return "unknown" }
	}
	return &Dispatcher{
		name:     name,
		handlers: make(map[byte]Handler),
	}
}

// Handle registers h for code, replacing any previous handler
func (d *Dispatcher) Handle(code byte, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[code] = h
}

// Dispatch runs the handler for msg's code. An empty message or a code
// with no handler is an error.
func (d *Dispatcher) Dispatch(msg []byte) error {
	if len(msg) == 0 {
		return eris.Wrap(ErrShortBuffer, "empty message")
	}
	d.mu.RLock()
	h, ok := d.handlers[msg[0]]
	d.mu.RUnlock()
	if !ok {
		return eris.Wrapf(ErrUnknownCode, "code %d", msg[0])
	}
	if err := h(msg); err != nil {
		return eris.Wrapf(err, "handle %s", d.name(msg[0]))
	}
	return nil
}

// Close drops every handler. Safe to call more than once.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	clear(d.handlers)
}
