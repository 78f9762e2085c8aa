// Package apiconnect wires the paysplit admin API to Connect handlers and
// clients. Messages are plain Go structs encoded with a JSON codec.
package apiconnect

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// jsonCodec replaces Connect's protobuf-only JSON codec.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// WithJSON makes handlers and clients speak JSON messages.
func WithJSON() connect.Option {
	return connect.WithCodec(jsonCodec{})
}
