package synapse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/rpc/v2/json2"
)

// PeerHeader carries the caller's peer ID on HTTP requests
const PeerHeader = "X-Synapse-Peer"

// HTTPListener serves messages as JSON-RPC 2.0 calls over HTTP. The message
// name is the JSON-RPC method and the packed payload its params.
type HTTPListener struct {
	*Mux
	codec *json2.Codec
}

// NewHTTPListener creates a listener with an empty Mux
func NewHTTPListener() *HTTPListener {
	return &HTTPListener{Mux: NewMux(), codec: json2.NewCodec()}
}

// ServeHTTP implements http.Handler
func (l *HTTPListener) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "synapse: POST method required, received "+r.Method, http.StatusMethodNotAllowed)
		return
	}

	req := l.codec.NewRequest(r)
	name, err := req.Method()
	if err != nil {
		req.WriteError(w, http.StatusBadRequest, err)
		return
	}

	var params json.RawMessage
	if err := req.ReadRequest(&params); err != nil {
		req.WriteError(w, http.StatusBadRequest, err)
		return
	}

	result, err := l.Dispatch(r.Context(), peerOf(r), name, params)
	switch {
	case errors.Is(err, ErrUnknownMessage):
		req.WriteError(w, http.StatusBadRequest, &json2.Error{Code: json2.E_NO_METHOD, Message: err.Error()})
		return
	case errors.Is(err, ErrBadPayload):
		req.WriteError(w, http.StatusBadRequest, &json2.Error{Code: json2.E_BAD_PARAMS, Message: err.Error()})
		return
	case err != nil:
		req.WriteError(w, http.StatusInternalServerError, &json2.Error{Code: json2.E_SERVER, Message: err.Error()})
		return
	}

	// A JSON-RPC reply needs a result member even when there is no value
	if result == nil {
		result = struct{}{}
	}
	req.WriteResponse(w, result)
}

func peerOf(r *http.Request) Peer {
	id, err := uuid.Parse(r.Header.Get(PeerHeader))
	if err != nil {
		id = uuid.New()
	}
	return Peer{ID: id, Addr: r.RemoteAddr}
}

// HTTPConnection sends messages to an HTTPListener. Failed calls are not
// retried.
type HTTPConnection struct {
	url    string
	client *http.Client
	header http.Header
	peer   uuid.UUID
}

// HTTPOption configures an HTTPConnection
type HTTPOption func(*HTTPConnection)

// WithHTTPClient sets the client used for requests
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(c *HTTPConnection) {
		c.client = client
	}
}

// WithHeader adds a header to every request
func WithHeader(key, value string) HTTPOption {
	return func(c *HTTPConnection) {
		c.header.Add(key, value)
	}
}

// WithPeerID sets the peer ID sent with every request
func WithPeerID(id uuid.UUID) HTTPOption {
	return func(c *HTTPConnection) {
		c.peer = id
	}
}

// NewHTTPConnection creates a connection to the listener at url
func NewHTTPConnection(url string, opts ...HTTPOption) *HTTPConnection {
	c := &HTTPConnection{
		url:    url,
		client: http.DefaultClient,
		header: make(http.Header),
		peer:   uuid.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Peer returns the identity this connection presents
func (c *HTTPConnection) Peer() uuid.UUID {
	return c.peer
}

// SendMessage implements Connection
func (c *HTTPConnection) SendMessage(ctx context.Context, name string, request, response any) error {
	body, err := json2.EncodeClientRequest(name, request)
	if err != nil {
		return badPayload(name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	for key, values := range c.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(PeerHeader, c.peer.String())

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("synapse: %s returned %s", c.url, resp.Status)
	}

	if response == nil {
		response = new(json.RawMessage)
	}
	err = json2.DecodeClientResponse(resp.Body, response)
	var rpcErr *json2.Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, json2.ErrNullResult):
		// A nil value was returned; the reply keeps its zero value
		return nil
	case errors.As(err, &rpcErr):
		return remoteError(rpcErr)
	default:
		return fmt.Errorf("synapse: decode reply to %q: %w", name, err)
	}
}

// remoteError maps the codes an HTTPListener writes for dispatch failures
// back onto ErrUnknownMessage and ErrBadPayload, as Pipe reports them.
func remoteError(e *json2.Error) *RemoteError {
	remote := &RemoteError{Code: int(e.Code), Message: e.Message, Data: e.Data}
	switch e.Code {
	case json2.E_NO_METHOD:
		remote.cause = ErrUnknownMessage
	case json2.E_BAD_PARAMS:
		remote.cause = ErrBadPayload
	}
	return remote
}
