package api

import (
	"bytes"
	"encoding/json"
)

// Shape extracts the array payload from a response body. The second result is
// false when the body does not have this shape.
type Shape func(body []byte) (json.RawMessage, bool)

// Envelope is the backend's standard response wrapper.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func isArray(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func decodeEnvelope(body []byte) (Envelope, bool) {
	var env Envelope
	if len(bytes.TrimSpace(body)) == 0 || json.Unmarshal(body, &env) != nil {
		return Envelope{}, false
	}
	return env, env.Success
}

// BareArray matches a body that is itself a JSON array.
func BareArray(body []byte) (json.RawMessage, bool) {
	if !isArray(body) {
		return nil, false
	}
	return body, true
}

// DataArray matches {success: true, data: [...]}.
func DataArray(body []byte) (json.RawMessage, bool) {
	env, ok := decodeEnvelope(body)
	if !ok || !isArray(env.Data) {
		return nil, false
	}
	return env.Data, true
}

// DataField matches {success: true, data: {<name>: [...]}}.
func DataField(name string) Shape {
	return func(body []byte) (json.RawMessage, bool) {
		env, ok := decodeEnvelope(body)
		if !ok {
			return nil, false
		}
		var fields map[string]json.RawMessage
		if json.Unmarshal(env.Data, &fields) != nil {
			return nil, false
		}
		raw, ok := fields[name]
		if !ok || !isArray(raw) {
			return nil, false
		}
		return raw, true
	}
}

// DecodeList tries shapes in order and returns the first payload that decodes
// into []T. It never panics on malformed input.
func DecodeList[T any](body []byte, shapes ...Shape) ([]T, bool) {
	for _, shape := range shapes {
		raw, ok := shape(body)
		if !ok {
			continue
		}
		var out []T
		if err := json.Unmarshal(raw, &out); err != nil {
			continue
		}
		if out == nil {
			out = []T{}
		}
		return out, true
	}
	return nil, false
}
