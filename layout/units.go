package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit-safe lengths and the fixed conversion constants.

// Unit represents the unit a length was written in.
type Unit int

const (
	UnitNone Unit = iota // bare numbers, interpreted as points
	UnitPX               // design-grid pixels
	UnitPT               // points
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitEMU              // OOXML English Metric Units
)

// Conversion constants. One base pixel is 0.75pt (96 dpi grid on a 72 dpi page).
const (
	PxToPt   = 0.75
	PtToMm   = 0.352777
	MmToPt   = 1.0 / PtToMm
	PtPerIn  = 72.0
	EMUPerPt = 12700.0
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitPX:
		return "px"
	case UnitPT:
		return "pt"
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitEMU:
		return "emu"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// ToPT converts the length to points.
func (l Length) ToPT() float64 {
	switch l.Unit {
	case UnitPX:
		return l.Value * PxToPt
	case UnitMM:
		return l.Value * MmToPt
	case UnitCM:
		return l.Value * 10 * MmToPt
	case UnitIN:
		return l.Value * PtPerIn
	case UnitEMU:
		return l.Value / EMUPerPt
	default:
		return l.Value
	}
}

func (l Length) ToMM() float64 { return l.ToPT() * PtToMm }

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + UnitToString(l.Unit)
}

// ParseLength parses strings such as "720pt", "10in", "960px" or "254mm".
// A bare number is taken as points.
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("empty length")
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"emu", UnitEMU}, {"px", UnitPX}, {"pt", UnitPT}, {"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("invalid length %q: %w", value, err)
	}
	return Length{Value: f, Unit: unit}, nil
}
