package figma

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Collections is the variableCollections object of a payload, kept in document order.
type Collections []VariableCollection

// Variables is the variables object of a payload, kept in document order.
type Variables []Variable

// UnmarshalJSON decodes the id-keyed object preserving member order.
func (c *Collections) UnmarshalJSON(data []byte) error {
	var out Collections
	err := decodeOrderedObject(data, func(key string, raw json.RawMessage) error {
		var vc VariableCollection
		if err := json.Unmarshal(raw, &vc); err != nil {
			return fmt.Errorf("variableCollections[%q]: %w", key, err)
		}
		if vc.ID == "" {
			vc.ID = key
		}
		if vc.ID != key {
			return fmt.Errorf("variableCollections[%q]: id %q does not match its key", key, vc.ID)
		}
		out = append(out, vc)
		return nil
	})
	if err != nil {
		return err
	}
	*c = out
	return nil
}

// MarshalJSON encodes the collections as an id-keyed object in slice order.
func (c Collections) MarshalJSON() ([]byte, error) {
	return encodeOrderedObject(len(c), func(i int) (string, any) { return c[i].ID, c[i] })
}

// UnmarshalJSON decodes the id-keyed object preserving member order.
func (v *Variables) UnmarshalJSON(data []byte) error {
	var out Variables
	err := decodeOrderedObject(data, func(key string, raw json.RawMessage) error {
		var variable Variable
		if err := json.Unmarshal(raw, &variable); err != nil {
			return fmt.Errorf("variables[%q]: %w", key, err)
		}
		if variable.ID == "" {
			variable.ID = key
		}
		if variable.ID != key {
			return fmt.Errorf("variables[%q]: id %q does not match its key", key, variable.ID)
		}
		out = append(out, variable)
		return nil
	})
	if err != nil {
		return err
	}
	*v = out
	return nil
}

// MarshalJSON encodes the variables as an id-keyed object in slice order.
func (v Variables) MarshalJSON() ([]byte, error) {
	return encodeOrderedObject(len(v), func(i int) (string, any) { return v[i].ID, v[i] })
}

// decodeOrderedObject walks a JSON object and calls fn for each member in document order.
// A JSON null is treated as an empty object.
func decodeOrderedObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected a JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected an object key, got %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("%q: %w", key, err)
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}

	// Closing brace.
	_, err = dec.Token()
	return err
}

func encodeOrderedObject(n int, entry func(i int) (string, any)) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, value := entry(i)
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DecodePayload reads a variables export. It accepts either the bare payload
// ({"variableCollections": ..., "variables": ...}) or the REST envelope returned by
// GetLocalVariables ({"status": ..., "error": ..., "meta": {...}}).
func DecodePayload(r io.Reader) (*VariablesPayload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	var envelope struct {
		Status  int             `json:"status"`
		Error   bool            `json:"error"`
		Message string          `json:"message"`
		Meta    json.RawMessage `json:"meta"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse payload: %w", err)
	}
	if envelope.Error {
		return nil, fmt.Errorf("payload reports an API error (status %d): %s", envelope.Status, envelope.Message)
	}
	if len(envelope.Meta) > 0 {
		data = envelope.Meta
	}

	var payload VariablesPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse payload: %w", err)
	}
	return &payload, nil
}
