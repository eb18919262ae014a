// Package synapse is the runtime that generated clients and servers compile
// against. A client forwards each call as a named message over a Connection;
// a server registers one handler per message name on a Listener.
package synapse

import (
	"context"

	"github.com/google/uuid"
)

// Connection sends a named message and waits for its reply. request is the
// packed payload: nil, the single argument, or a Tuple. response is a pointer
// the reply is decoded into, or nil when the message has no return value.
type Connection interface {
	SendMessage(ctx context.Context, name string, request, response any) error
}

// Listener dispatches incoming messages to handlers registered by name.
// A handler has the shape
//
//	func(ctx context.Context, peer Peer, args...) (R, error)
//
// or the same without R.
type Listener interface {
	SetMessageHandler(name string, handler any)
}

// Peer identifies the sender of a message
type Peer struct {
	ID   uuid.UUID
	Addr string
}

// String returns the peer ID, followed by the address when known
func (p Peer) String() string {
	if p.Addr == "" {
		return p.ID.String()
	}
	return p.ID.String() + "@" + p.Addr
}

// Tuple is the payload of a message with two or more arguments, in
// declaration order
type Tuple []any

// Call sends a message whose reply is a T
func Call[T any](ctx context.Context, conn Connection, name string, request any) (T, error) {
	var out T
	if err := conn.SendMessage(ctx, name, request, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
