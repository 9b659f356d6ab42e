// Package codec encodes trace records for the wire.
package codec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Codec serializes values for a transport.
type Codec interface {
	Marshal(v interface{}) ([]byte, error)
	ContentType() string
	Name() string
}

// JSON encodes with encoding/json.
type JSON struct{}

func (JSON) Marshal(v interface{}) ([]byte, error) { return json.Marshal(v) }
func (JSON) ContentType() string                   { return "application/json" }
func (JSON) Name() string                          { return "json" }

// CBOR encodes with deterministic CBOR. Struct fields keep their json tag
// names so both encodings carry the same keys.
type CBOR struct {
	mode cbor.EncMode
}

// NewCBOR builds a CBOR codec using Core Deterministic Encoding.
func NewCBOR() (*CBOR, error) {
	opts := cbor.CoreDetEncOptions()
	opts.TextMarshaler = cbor.TextMarshalerTextString
	mode, err := opts.EncMode()
	if err != nil {
		return nil, fmt.Errorf("codec: cbor encoder: %w", err)
	}
	return &CBOR{mode: mode}, nil
}

func (c *CBOR) Marshal(v interface{}) ([]byte, error) { return c.mode.Marshal(v) }
func (c *CBOR) ContentType() string                   { return "application/cbor" }
func (c *CBOR) Name() string                          { return "cbor" }

// New returns the codec registered under name. An empty name selects JSON.
func New(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "", "json":
		return JSON{}, nil
	case "cbor":
		return NewCBOR()
	}
	return nil, fmt.Errorf("codec: unknown codec %q", name)
}
