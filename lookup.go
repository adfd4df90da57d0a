package lookup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/tarmac-project/customer-lookup/connection"
	"github.com/tarmac-project/customer-lookup/customer"
)

// Config provides configuration options for a Function.
type Config struct {
	// Lookup runs the customer queries. Required.
	Lookup *customer.Lookup
}

// Invocation is the payload accepted by Handle.
type Invocation struct {
	// Inputs holds the lookup mapping, or that mapping encoded as a JSON string.
	Inputs json.RawMessage `json:"inputs"`

	// Connection describes the database to query.
	Connection json.RawMessage `json:"connection"`
}

// Function adapts a customer lookup to a bytes-in, bytes-out handler.
type Function struct {
	lookup *customer.Lookup
}

// New creates a Function.
func New(config Config) (*Function, error) {
	if config.Lookup == nil {
		return nil, ErrLookupNil
	}
	return &Function{lookup: config.Lookup}, nil
}

// Handle decodes an Invocation, runs the lookup and returns the records as a
// JSON array.
func (f *Function) Handle(payload []byte) ([]byte, error) {
	return f.HandleContext(context.Background(), payload)
}

// HandleContext is Handle with a caller-supplied context.
func (f *Function) HandleContext(ctx context.Context, payload []byte) ([]byte, error) {
	var inv Invocation
	if err := json.Unmarshal(payload, &inv); err != nil {
		return nil, errors.Join(ErrInvalidPayload, err)
	}
	if len(bytes.TrimSpace(inv.Inputs)) == 0 {
		return nil, errors.Join(ErrInvalidPayload, errors.New("missing inputs"))
	}

	conn, err := decodeConnection(inv.Connection)
	if err != nil {
		return nil, errors.Join(ErrInvalidPayload, err)
	}

	rs, err := f.lookup.Invoke(ctx, inv.Inputs, conn)
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(rs)
	if err != nil {
		return nil, errors.Join(ErrMarshalResponse, err)
	}
	return b, nil
}

// decodeConnection accepts either the configs/secrets layout or a flat
// object of string values.
func decodeConnection(raw json.RawMessage) (connection.Custom, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return connection.Custom{}, nil
	}

	var c connection.Custom
	if err := json.Unmarshal(raw, &c); err != nil {
		return connection.Custom{}, err
	}
	if connection.HasConnectionString(c) {
		return c, nil
	}

	var flat map[string]any
	if err := json.Unmarshal(raw, &flat); err != nil {
		return connection.Custom{}, err
	}
	configs := make(map[string]string, len(flat))
	for k, v := range flat {
		if s, ok := v.(string); ok {
			configs[k] = s
		}
	}
	return connection.Custom{Name: c.Name, Configs: configs}, nil
}
