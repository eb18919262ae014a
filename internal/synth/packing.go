package synth

import "github.com/toyz/synapse/internal/models"

// PayloadKind is the shape of a request payload
type PayloadKind int

const (
	// PayloadNone carries nothing
	PayloadNone PayloadKind = iota
	// PayloadSingle carries one argument unwrapped
	PayloadSingle
	// PayloadTuple carries an ordered, unlabeled tuple of arguments
	PayloadTuple
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadSingle:
		return "single"
	case PayloadTuple:
		return "tuple"
	default:
		return "none"
	}
}

// Payload describes how a call's arguments travel. Args holds internal
// parameter names in declared order.
type Payload struct {
	Kind PayloadKind
	Args []string
}

// Pack applies the packing policy to a parameter list. The server side has
// no matching unpack step: its handlers take the parameters in this same
// order, and the transport unpacks on dispatch.
func Pack(params []models.ParameterSpec) Payload {
	switch len(params) {
	case 0:
		return Payload{Kind: PayloadNone}
	case 1:
		return Payload{Kind: PayloadSingle, Args: []string{params[0].InternalName}}
	default:
		args := make([]string, len(params))
		for i, p := range params {
			args[i] = p.InternalName
		}
		return Payload{Kind: PayloadTuple, Args: args}
	}
}
