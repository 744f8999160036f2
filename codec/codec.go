// Package codec serializes composed predicates for transport between
// processes. Payloads are MessagePack-encoded tagged expression trees framed
// with ZStandard compression.
package codec

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/hugr-lab/querykit-go/expr"
	"github.com/hugr-lab/querykit-go/internal/serialize"
)

// Codec encodes and decodes predicate wire payloads.
// Create once and reuse; Close when done.
type Codec struct {
	framer *serialize.Framer
}

// New creates a reusable predicate codec.
func New() (*Codec, error) {
	framer, err := serialize.NewFramer()
	if err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	return &Codec{framer: framer}, nil
}

// Close releases codec resources.
func (c *Codec) Close() error {
	return c.framer.Close()
}

// Marshal serializes a predicate into a compressed wire payload.
func (c *Codec) Marshal(p expr.Predicate) ([]byte, error) {
	body, err := toWire(p.Body)
	if err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}

	data, err := msgpack.Marshal(&wirePredicate{Param: p.Param, Body: body})
	if err != nil {
		return nil, fmt.Errorf("codec: failed to encode predicate: %w", err)
	}

	compressed, err := c.framer.Compress(data)
	if err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	return compressed, nil
}

// Unmarshal deserializes a compressed wire payload into a predicate.
//
// Error conditions:
//   - corrupt compression frame or MessagePack data
//   - unknown expression class or type (see UnknownExpressionError)
//   - malformed values (e.g. missing comparison operands)
func (c *Codec) Unmarshal(payload []byte) (expr.Predicate, error) {
	data, err := c.framer.Decompress(payload)
	if err != nil {
		return expr.Predicate{}, fmt.Errorf("codec: %w", err)
	}

	var raw wirePredicate
	if err := msgpack.Unmarshal(data, &raw); err != nil {
		return expr.Predicate{}, fmt.Errorf("codec: failed to decode predicate: %w", err)
	}
	if raw.Body == nil {
		return expr.Predicate{}, fmt.Errorf("codec: predicate has no body")
	}

	body, err := fromWire(raw.Body)
	if err != nil {
		return expr.Predicate{}, fmt.Errorf("codec: %w", err)
	}
	return expr.Predicate{Param: raw.Param, Body: body}, nil
}

// UnknownExpressionError indicates a wire payload carries an expression class
// this codec version does not know.
type UnknownExpressionError struct {
	Class string
}

func (e *UnknownExpressionError) Error() string {
	return "unknown expression class: " + e.Class
}
