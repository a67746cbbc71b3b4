package figma

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Kind identifies the variant held by a RawValue.
type Kind uint8

// The closed set of value kinds. KindAlias is the only non-literal kind.
const (
	KindAlias Kind = iota + 1
	KindColor
	KindNumber
	KindString
	KindBoolean
)

func (k Kind) String() string {
	switch k {
	case KindAlias:
		return "alias"
	case KindColor:
		return "color"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ResolvedType returns the Figma resolvedType name a literal of this kind satisfies.
// It returns an empty string for KindAlias.
func (k Kind) ResolvedType() string {
	switch k {
	case KindColor:
		return ResolvedTypeColor
	case KindNumber:
		return ResolvedTypeFloat
	case KindString:
		return ResolvedTypeString
	case KindBoolean:
		return ResolvedTypeBoolean
	default:
		return ""
	}
}

// RawValue is a variable's value under one mode, as found in the payload.
// The set of implementations is closed: Alias, Color, Number, String and Boolean.
type RawValue interface {
	Kind() Kind
	rawValue()
}

// ResolvedValue is a RawValue with every alias indirection removed.
// Only the literal kinds (Color, Number, String, Boolean) implement it.
type ResolvedValue interface {
	RawValue
	resolvedValue()
}

// Alias references another variable by id. It is resolved transitively.
type Alias struct {
	ID string
}

// Number is a FLOAT variable value.
type Number float64

// String is a STRING variable value.
type String string

// Boolean is a BOOLEAN variable value.
type Boolean bool

func (Alias) Kind() Kind   { return KindAlias }
func (Color) Kind() Kind   { return KindColor }
func (Number) Kind() Kind  { return KindNumber }
func (String) Kind() Kind  { return KindString }
func (Boolean) Kind() Kind { return KindBoolean }

func (Alias) rawValue()   {}
func (Color) rawValue()   {}
func (Number) rawValue()  {}
func (String) rawValue()  {}
func (Boolean) rawValue() {}

func (Color) resolvedValue()   {}
func (Number) resolvedValue()  {}
func (String) resolvedValue()  {}
func (Boolean) resolvedValue() {}

const aliasType = "VARIABLE_ALIAS"

// MarshalJSON encodes the alias in the Figma wire shape {"type":"VARIABLE_ALIAS","id":...}.
func (a Alias) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	}{aliasType, a.ID})
}

// InRange reports whether every channel lies within [0, 1].
func (c Color) InRange() bool {
	for _, ch := range [...]float64{c.R, c.G, c.B, c.A} {
		if math.IsNaN(ch) || ch < 0 || ch > 1 {
			return false
		}
	}
	return true
}

// Hex converts the color (with 0-1 float channels) to hexadecimal format.
// Opaque colors render as #RRGGBB, translucent ones as #RRGGBBAA.
func (c Color) Hex() string {
	r := int(math.Round(c.R * 255))
	g := int(math.Round(c.G * 255))
	b := int(math.Round(c.B * 255))

	if c.A >= 1 {
		return fmt.Sprintf("#%02X%02X%02X", r, g, b)
	}
	a := int(math.Round(c.A * 255))
	return fmt.Sprintf("#%02X%02X%02X%02X", r, g, b, a)
}

// DecodeRawValue decodes one valuesByMode entry. The first structural match wins, tried in
// this fixed order: alias {id, type}, color {r, g, b[, a]}, string, number, boolean.
// A color without an alpha channel is treated as opaque.
func DecodeRawValue(data []byte) (RawValue, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, fmt.Errorf("empty variable value")
	}

	if alias, ok := decodeAlias(data); ok {
		return alias, nil
	}
	if color, ok := decodeColor(data); ok {
		return color, nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return String(s), nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		return Number(n), nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		return Boolean(b), nil
	}

	return nil, fmt.Errorf("unrecognized variable value %s", abbreviate(data))
}

// decodeAlias accepts any object carrying both an "id" and a non-null "type"; the type's
// value is not checked. Field names match case-insensitively, as with any encoding/json
// struct decode.
func decodeAlias(data []byte) (Alias, bool) {
	var shape struct {
		ID   *string `json:"id"`
		Type *string `json:"type"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return Alias{}, false
	}
	if shape.ID == nil || shape.Type == nil {
		return Alias{}, false
	}
	return Alias{ID: *shape.ID}, true
}

func decodeColor(data []byte) (Color, bool) {
	var shape struct {
		R *float64 `json:"r"`
		G *float64 `json:"g"`
		B *float64 `json:"b"`
		A *float64 `json:"a"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return Color{}, false
	}
	if shape.R == nil || shape.G == nil || shape.B == nil {
		return Color{}, false
	}
	c := Color{R: *shape.R, G: *shape.G, B: *shape.B, A: 1}
	if shape.A != nil {
		c.A = *shape.A
	}
	return c, true
}

func abbreviate(data []byte) string {
	const max = 64
	if len(data) > max {
		return string(data[:max]) + "..."
	}
	return string(data)
}

// ModeValues maps a mode id to the raw value recorded for that mode.
type ModeValues map[string]RawValue

// UnmarshalJSON decodes every entry with DecodeRawValue.
func (m *ModeValues) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("valuesByMode: %w", err)
	}
	if raw == nil {
		*m = nil
		return nil
	}

	values := make(ModeValues, len(raw))
	for modeID, entry := range raw {
		v, err := DecodeRawValue(entry)
		if err != nil {
			return fmt.Errorf("valuesByMode[%q]: %w", modeID, err)
		}
		values[modeID] = v
	}
	*m = values
	return nil
}
