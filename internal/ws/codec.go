package ws

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// Encoding is the wire format a client picked with ?enc=.
type Encoding string

const (
	EncodingJSON    Encoding = "json"
	EncodingMsgpack Encoding = "msgpack"
)

// ParseEncoding defaults to JSON for anything unrecognised.
func ParseEncoding(s string) Encoding {
	if s == string(EncodingMsgpack) {
		return EncodingMsgpack
	}
	return EncodingJSON
}

func (e Encoding) messageType() int {
	if e == EncodingMsgpack {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}

// Message types
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// InputData carries the fields any inbound message may use.
type InputData struct {
	Dir  int     `json:"dir" msgpack:"dir"`
	Y    float64 `json:"y" msgpack:"y"`
	Side string  `json:"side,omitempty" msgpack:"side,omitempty"`
	On   *bool   `json:"on,omitempty" msgpack:"on,omitempty"`
}

type binaryMessage struct {
	Type string    `msgpack:"type"`
	Data InputData `msgpack:"data"`
}

func encode(enc Encoding, v interface{}) ([]byte, error) {
	if enc == EncodingMsgpack {
		return msgpack.Marshal(v)
	}
	return json.Marshal(v)
}

// decodeMessage parses one inbound frame. Data may be absent.
func decodeMessage(enc Encoding, raw []byte) (string, InputData, error) {
	if enc == EncodingMsgpack {
		var m binaryMessage
		if err := msgpack.Unmarshal(raw, &m); err != nil {
			return "", InputData{}, fmt.Errorf("decode msgpack message: %w", err)
		}
		return m.Type, m.Data, nil
	}

	var m WSMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return "", InputData{}, fmt.Errorf("decode json message: %w", err)
	}
	var data InputData
	if len(m.Data) > 0 && string(m.Data) != "null" {
		if err := json.Unmarshal(m.Data, &data); err != nil {
			return m.Type, InputData{}, fmt.Errorf("decode %s data: %w", m.Type, err)
		}
	}
	return m.Type, data, nil
}

// encodedOnce encodes a message at most once per encoding for a broadcast.
type encodedOnce struct {
	msg  interface{}
	json []byte
	mp   []byte
}

func (e *encodedOnce) get(enc Encoding) ([]byte, error) {
	var err error
	if enc == EncodingMsgpack {
		if e.mp == nil {
			e.mp, err = encode(enc, e.msg)
		}
		return e.mp, err
	}
	if e.json == nil {
		e.json, err = encode(enc, e.msg)
	}
	return e.json, err
}
