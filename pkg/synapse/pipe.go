package synapse

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// pipe is an in-process Connection. Payloads and replies still make a JSON
// round trip so behaviour matches a network transport.
type pipe struct {
	mux  *Mux
	peer Peer
}

// Pipe returns a Connection delivering messages straight to mux. Every pipe
// is a distinct peer.
func Pipe(mux *Mux) Connection {
	return &pipe{
		mux:  mux,
		peer: Peer{ID: uuid.New(), Addr: "pipe"},
	}
}

func (p *pipe) SendMessage(ctx context.Context, name string, request, response any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return badPayload(name, err)
	}

	result, err := p.mux.Dispatch(ctx, p.peer, name, payload)
	if err != nil {
		return &RemoteError{Message: err.Error(), cause: err}
	}
	if response == nil {
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, response)
}
