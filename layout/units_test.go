package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		back := pt * PtToMm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt back=%g diff=%g", pt, back, diff)
		}
	}
}

func TestLengthToPT(t *testing.T) {
	cases := []struct {
		in   Length
		want float64
	}{
		{Length{Value: 960, Unit: UnitPX}, 720},
		{Length{Value: 10, Unit: UnitIN}, 720},
		{Length{Value: 12, Unit: UnitPT}, 12},
		{Length{Value: 12, Unit: UnitNone}, 12},
		{Length{Value: 12700, Unit: UnitEMU}, 1},
	}
	for _, tc := range cases {
		if got := tc.in.ToPT(); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("%s: expected %gpt, got %g", tc.in, tc.want, got)
		}
	}
}

func TestParseLength(t *testing.T) {
	cases := map[string]Length{
		"720pt":      {Value: 720, Unit: UnitPT},
		" 10in ":     {Value: 10, Unit: UnitIN},
		"1920px":     {Value: 1920, Unit: UnitPX},
		"254 mm":     {Value: 254, Unit: UnitMM},
		"405":        {Value: 405, Unit: UnitNone},
		"9144000emu": {Value: 9144000, Unit: UnitEMU},
	}
	for in, want := range cases {
		got, err := ParseLength(in)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: expected %+v, got %+v", in, want, got)
		}
	}
	for _, bad := range []string{"", "pt", "ten in"} {
		if _, err := ParseLength(bad); err == nil {
			t.Fatalf("%q should not parse", bad)
		}
	}
}
