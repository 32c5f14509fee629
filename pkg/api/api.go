// Package api defines the splitledger.v1 Connect services: their procedure
// names, request and response messages, handler constructors and typed
// clients.
//
// Messages are plain Go structs carried as JSON, so every handler and
// client is built with Codec. Amounts and percentages are decimal JSON
// numbers.
package api

import (
	"encoding/json"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
)

// Number is an exact decimal carried as a bare JSON number.
type Number struct {
	decimal.Decimal
}

// NewNumber wraps d.
func NewNumber(d decimal.Decimal) Number {
	return Number{Decimal: d}
}

// NumberPtr wraps d, or returns nil when d is nil.
func NumberPtr(d *decimal.Decimal) *Number {
	if d == nil {
		return nil
	}
	n := NewNumber(*d)
	return &n
}

func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.Decimal.String()), nil
}

func (n *Number) UnmarshalJSON(data []byte) error {
	return n.Decimal.UnmarshalJSON(data)
}

// Codec marshals messages as JSON. It replaces Connect's protobuf JSON
// codec, which only accepts generated messages.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string {
	return "json"
}

func (Codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}
