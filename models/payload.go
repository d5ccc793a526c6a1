// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Payload is a decoded JSON object as exchanged with the remote API.
type Payload map[string]any

// DecodePayload decodes a single JSON object. An empty body decodes to a nil
// Payload. Numbers are kept as [json.Number] so large numeric ids stay exact.
func DecodePayload(raw []byte) (Payload, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	var p Payload
	if err := unmarshalNumbers(raw, &p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return p, nil
}

// DecodePayloadList decodes a JSON array of objects, like [DecodePayload].
func DecodePayloadList(raw []byte) ([]Payload, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	var list []Payload
	if err := unmarshalNumbers(raw, &list); err != nil {
		return nil, fmt.Errorf("decode payload list: %w", err)
	}
	return list, nil
}

func unmarshalNumbers(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

// EncodePayload converts any JSON-serialisable value into a Payload.
func EncodePayload(v any) (Payload, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	p := Payload{}
	if err = json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return p, nil
}

// Decode unmarshals the payload into v.
func (p Payload) Decode(v any) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	if err = unmarshalNumbers(raw, v); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	return nil
}

// RemoteID returns the payload's "id" field.
func (p Payload) RemoteID() (RemoteID, bool) {
	return remoteIDFrom(p["id"])
}

// Version returns the payload's "version" field.
func (p Payload) Version() (int64, bool) {
	switch v := p["version"].(type) {
	case float64:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case int64:
		return v, true
	case int:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	}
	return 0, false
}

// Without returns a shallow copy of p without the given keys.
func (p Payload) Without(keys ...string) Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Clone returns a deep copy of p.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

// PayloadList converts a decoded JSON array (or a []Payload) into a list of
// payloads, skipping elements that are not objects.
func PayloadList(v any) []Payload {
	switch list := v.(type) {
	case []Payload:
		return list
	case []any:
		out := make([]Payload, 0, len(list))
		for _, item := range list {
			switch m := item.(type) {
			case Payload:
				out = append(out, m)
			case map[string]any:
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

func remoteIDFrom(v any) (RemoteID, bool) {
	switch id := v.(type) {
	case string:
		return RemoteID(id), id != ""
	case RemoteID:
		return id, id != ""
	case float64:
		return RemoteID(strconv.FormatFloat(id, 'f', -1, 64)), true
	case json.Number:
		return RemoteID(id.String()), true
	case int64:
		return RemoteID(strconv.FormatInt(id, 10)), true
	case int:
		return RemoteID(strconv.Itoa(id)), true
	}
	return "", false
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Payload:
		return t.Clone()
	case map[string]any:
		return map[string]any(Payload(t).Clone())
	case []Payload:
		out := make([]Payload, len(t))
		for i := range t {
			out[i] = t[i].Clone()
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	}
	return v
}
