package cache

import (
	"bytes"
	"encoding/base64"
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec turns cached values into bytes for drivers that store bytes.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte) (any, error)
}

// JSONCodec encodes values as JSON. Numbers decode as float64.
type JSONCodec struct{}

func (JSONCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec) Decode(data []byte) (any, error) {
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MsgpackCodec encodes values with msgpack. Integers decode as int64 and
// uint64, maps as map[string]any.
type MsgpackCodec struct{}

func (MsgpackCodec) Encode(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (MsgpackCodec) Decode(data []byte) (any, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.UseLooseInterfaceDecoding(true)
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

type base64Codec struct {
	inner Codec
}

// Base64 wraps inner so encoded values are printable text.
func Base64(inner Codec) Codec {
	return base64Codec{inner: inner}
}

func (c base64Codec) Encode(v any) ([]byte, error) {
	raw, err := c.inner.Encode(v)
	if err != nil {
		return nil, err
	}
	out := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
	base64.StdEncoding.Encode(out, raw)
	return out, nil
}

func (c base64Codec) Decode(data []byte) (any, error) {
	raw := make([]byte, base64.StdEncoding.DecodedLen(len(data)))
	n, err := base64.StdEncoding.Decode(raw, data)
	if err != nil {
		return nil, err
	}
	return c.inner.Decode(raw[:n])
}
