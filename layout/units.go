package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit-safe types and helpers for lengths and line-height.

// Unit represents the unit a length value was written in.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers such as factors or cell counts
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// String returns the DSL suffix for the unit, empty for UnitNone.
func (u Unit) String() string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// To converts the length to the target unit. Supported targets are UnitMM
// and UnitPT; unit-less values pass through unchanged.
func (l Length) To(target Unit) float64 {
	if l.Unit == target || l.Unit == UnitNone {
		return l.Value
	}
	var mm float64
	switch l.Unit {
	case UnitMM:
		mm = l.Value
	case UnitCM:
		mm = l.Value * 10
	case UnitIN:
		mm = l.Value * 25.4
	case UnitPT:
		mm = l.Value * PtToMm
	default:
		return l.Value
	}
	if target == UnitPT {
		return mm * MmToPt
	}
	return mm
}

func (l Length) ToMM() float64 { return l.To(UnitMM) }
func (l Length) ToPT() float64 { return l.To(UnitPT) }

// ParseRawLength parses a DSL length literal preserving its unit. Malformed
// input yields a zero unit-less length; the DSL lexer only emits parseable
// number literals, so callers see zero values for empty input only.
func ParseRawLength(value string) Length {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}
	}
	unit := UnitNone
	num := v
	for _, u := range []Unit{UnitMM, UnitCM, UnitIN, UnitPT} {
		if strings.HasSuffix(v, u.String()) {
			unit = u
			num = strings.TrimSpace(strings.TrimSuffix(v, u.String()))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}
	}
	return Length{Value: f, Unit: unit}
}

// LineHeightKind distinguishes factor-based from absolute line-height.
type LineHeightKind int

const (
	LineHeightFactor   LineHeightKind = iota // multiple of the font size
	LineHeightAbsolute                       // fixed length
)

// LineHeightSpec preserves the author's intent: a factor (1.4 or "1.4x")
// or an absolute length (18pt, 6mm).
type LineHeightSpec struct {
	Kind   LineHeightKind `json:"kind"`
	Factor float64        `json:"factor,omitempty"`
	Len    Length         `json:"len"`
}

// ParseLineHeight parses a line-height literal. Bare numbers and the "1.4x"
// form are factors; values carrying a length unit are absolute.
func ParseLineHeight(value string) (LineHeightSpec, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return LineHeightSpec{}, fmt.Errorf("行高不能为空")
	}
	if f, err := strconv.ParseFloat(strings.TrimSuffix(v, "x"), 64); err == nil {
		if f <= 0 {
			return LineHeightSpec{}, fmt.Errorf("行高倍数必须为正数，当前为 %g", f)
		}
		return LineHeightSpec{Kind: LineHeightFactor, Factor: f}, nil
	}
	if l := ParseRawLength(v); l.Unit != UnitNone && l.Value > 0 {
		return LineHeightSpec{Kind: LineHeightAbsolute, Len: l}, nil
	}
	return LineHeightSpec{}, fmt.Errorf("无法解析行高 %q", value)
}

// Resolve computes the absolute line height in the target unit for the given
// font size. Unset values fall back to a 1.4 factor.
func (s LineHeightSpec) Resolve(fontSize Length, target Unit) float64 {
	switch s.Kind {
	case LineHeightAbsolute:
		return s.Len.To(target)
	default:
		f := s.Factor
		if f <= 0 {
			f = 1.4
		}
		return fontSize.To(target) * f
	}
}
