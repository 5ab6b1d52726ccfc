package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// CodecName is the Connect codec name; it matches the application/json content type.
const CodecName = "json"

// charsetCodecName matches application/json; charset=utf-8.
const charsetCodecName = CodecName + "; charset=utf-8"

// JSONCodec marshals plain Go messages with encoding/json.
// It replaces Connect's built-in protojson codec, which only accepts proto messages.
type JSONCodec struct{}

var _ connect.Codec = JSONCodec{}

func (JSONCodec) Name() string { return CodecName }

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal rejects unknown fields so typos in requests surface as errors.
func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		// Connect GET requests and empty bodies carry no message.
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}

// charsetJSONCodec is JSONCodec registered under the charset content type.
type charsetJSONCodec struct{ JSONCodec }

func (charsetJSONCodec) Name() string { return charsetCodecName }
