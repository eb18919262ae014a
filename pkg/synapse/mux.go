package synapse

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	peerType    = reflect.TypeOf(Peer{})
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// Mux is a Listener keeping one handler per message name. It is safe for
// concurrent use.
type Mux struct {
	mu       sync.RWMutex
	handlers map[string]*handler
}

type handler struct {
	fn      reflect.Value
	params  []reflect.Type
	returns bool
}

// NewMux creates an empty Mux
func NewMux() *Mux {
	return &Mux{handlers: make(map[string]*handler)}
}

// SetMessageHandler registers fn for name, replacing any earlier handler.
// It panics when fn does not have a handler shape.
func (m *Mux) SetMessageHandler(name string, fn any) {
	h, err := newHandler(fn)
	if err != nil {
		panic(fmt.Sprintf("synapse: handler for %q: %v", name, err))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[name] = h
}

// Messages returns the registered message names, sorted
func (m *Mux) Messages() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.handlers))
	for name := range m.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch decodes payload into the parameters of the handler for name and
// calls it. A zero-parameter handler ignores the payload, a one-parameter
// handler decodes it whole and any other decodes a JSON array element-wise.
func (m *Mux) Dispatch(ctx context.Context, peer Peer, name string, payload json.RawMessage) (any, error) {
	m.mu.RLock()
	h, ok := m.handlers[name]
	m.mu.RUnlock()
	if !ok {
		return nil, unknownMessage(name)
	}

	args, err := h.decode(payload)
	if err != nil {
		return nil, badPayload(name, err)
	}
	return h.call(ctx, peer, args)
}

func newHandler(fn any) (*handler, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil, fmt.Errorf("%T is not a function", fn)
	}
	t := v.Type()

	if t.IsVariadic() {
		return nil, fmt.Errorf("variadic handlers are not supported")
	}
	if t.NumIn() < 2 || t.In(0) != contextType || t.In(1) != peerType {
		return nil, fmt.Errorf("%s must take (context.Context, synapse.Peer, ...)", t)
	}
	switch {
	case t.NumOut() == 1 && t.Out(0) == errorType:
	case t.NumOut() == 2 && t.Out(1) == errorType:
	default:
		return nil, fmt.Errorf("%s must return error or (T, error)", t)
	}

	h := &handler{fn: v, returns: t.NumOut() == 2}
	for i := 2; i < t.NumIn(); i++ {
		h.params = append(h.params, t.In(i))
	}
	return h, nil
}

func (h *handler) decode(payload json.RawMessage) ([]reflect.Value, error) {
	args := make([]reflect.Value, len(h.params))
	for i, t := range h.params {
		args[i] = reflect.New(t)
	}

	switch {
	case len(h.params) == 0:
	case len(h.params) == 1:
		if !isNull(payload) {
			if err := json.Unmarshal(payload, args[0].Interface()); err != nil {
				return nil, err
			}
		}
	default:
		var parts []json.RawMessage
		if err := json.Unmarshal(payload, &parts); err != nil {
			return nil, err
		}
		if len(parts) != len(h.params) {
			return nil, fmt.Errorf("expected %d values, got %d", len(h.params), len(parts))
		}
		for i, part := range parts {
			if isNull(part) {
				continue
			}
			if err := json.Unmarshal(part, args[i].Interface()); err != nil {
				return nil, fmt.Errorf("value %d: %w", i, err)
			}
		}
	}

	for i := range args {
		args[i] = args[i].Elem()
	}
	return args, nil
}

// call invokes the handler. A NotImplementedError panic becomes the returned
// error; any other panic is not recovered.
func (h *handler) call(ctx context.Context, peer Peer, args []reflect.Value) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			ni, ok := r.(*NotImplementedError)
			if !ok {
				panic(r)
			}
			result, err = nil, ni
		}
	}()

	in := append([]reflect.Value{reflect.ValueOf(&ctx).Elem(), reflect.ValueOf(peer)}, args...)
	out := h.fn.Call(in)

	if e := out[len(out)-1]; !e.IsNil() {
		return nil, e.Interface().(error)
	}
	if h.returns {
		return out[0].Interface(), nil
	}
	return nil, nil
}

func isNull(payload json.RawMessage) bool {
	return len(payload) == 0 || string(payload) == "null"
}
