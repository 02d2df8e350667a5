package settings

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/sceneimport/pkg/errors"
)

// Kind is the type tag of a [Value].
type Kind int

const (
	KindBool Kind = iota
	KindNumber
	KindString
	KindEnum
	KindColor
	KindPath
)

var kindNames = [...]string{"bool", "number", "string", "enum", "color", "path"}

// String returns the lower-case kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Color is a linear RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// Hex formats c as #rrggbbaa.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B), channel(c.A))
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// ParseColor parses #rgb, #rrggbb or #rrggbbaa.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 || !strings.HasPrefix(s, "#") {
		return Color{}, errors.New(errors.ErrCodeInvalidValue, "invalid color %q", s)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, errors.Wrap(errors.ErrCodeInvalidValue, err, "invalid color %q", s)
	}
	return Color{
		R: float64(n>>24&0xff) / 255,
		G: float64(n>>16&0xff) / 255,
		B: float64(n>>8&0xff) / 255,
		A: float64(n&0xff) / 255,
	}, nil
}

// Value is a tagged union over the closed set of option value kinds.
// The zero value is the bool false.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	c    Color
}

// Bool returns a bool value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Number returns a number value.
func Number(v float64) Value { return Value{kind: KindNumber, n: v} }

// String returns a free-form string value.
func String(v string) Value { return Value{kind: KindString, s: v} }

// Enum returns an enumerated string value. Membership is checked against
// the option's choices by [Option.Check], not here.
func Enum(v string) Value { return Value{kind: KindEnum, s: v} }

// Path returns a path-string value.
func Path(v string) Value { return Value{kind: KindPath, s: v} }

// RGBA returns a color value.
func RGBA(c Color) Value { return Value{kind: KindColor, c: c} }

// Kind returns the value's type tag.
func (v Value) Kind() Kind { return v.kind }

// AsBool returns the bool payload.
func (v Value) AsBool() bool { return v.b }

// AsNumber returns the number payload.
func (v Value) AsNumber() float64 { return v.n }

// AsText returns the payload of string, enum and path values.
func (v Value) AsText() string { return v.s }

// AsColor returns the color payload.
func (v Value) AsColor() Color { return v.c }

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.n == o.n
	case KindColor:
		return v.c == o.c
	default:
		return v.s == o.s
	}
}

// String formats the value for display.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'g', -1, 64)
	case KindColor:
		return v.c.Hex()
	default:
		return v.s
	}
}

// Raw returns the value as a plain Go value suitable for TOML or JSON:
// bool, float64 or string (colors as #rrggbbaa).
func (v Value) Raw() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindColor:
		return v.c.Hex()
	default:
		return v.s
	}
}

// FromRaw converts a decoded TOML/JSON value into a Value of the given kind.
// Integers are accepted for numbers.
func FromRaw(kind Kind, raw any) (Value, error) {
	switch kind {
	case KindBool:
		if b, ok := raw.(bool); ok {
			return Bool(b), nil
		}
	case KindNumber:
		switch n := raw.(type) {
		case float64:
			return Number(n), nil
		case float32:
			return Number(float64(n)), nil
		case int64:
			return Number(float64(n)), nil
		case int:
			return Number(float64(n)), nil
		}
	case KindColor:
		if s, ok := raw.(string); ok {
			c, err := ParseColor(s)
			if err != nil {
				return Value{}, err
			}
			return RGBA(c), nil
		}
	case KindString, KindEnum, KindPath:
		if s, ok := raw.(string); ok {
			return Value{kind: kind, s: s}, nil
		}
	}
	return Value{}, errors.New(errors.ErrCodeInvalidValue, "cannot use %v (%T) as %s", raw, raw, kind)
}

// Parse converts command-line text into a Value of the given kind.
func Parse(kind Kind, text string) (Value, error) {
	switch kind {
	case KindBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return Value{}, errors.Wrap(errors.ErrCodeInvalidValue, err, "invalid bool %q", text)
		}
		return Bool(b), nil
	case KindNumber:
		n, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, errors.Wrap(errors.ErrCodeInvalidValue, err, "invalid number %q", text)
		}
		return Number(n), nil
	case KindColor:
		c, err := ParseColor(text)
		if err != nil {
			return Value{}, err
		}
		return RGBA(c), nil
	}
	return FromRaw(kind, text)
}
