package coords

import (
	"math"
	"testing"
)

func TestPointsConversion(t *testing.T) {
	if got := Mm(1).Points(); math.Abs(got-2.83465) > 1e-9 {
		t.Fatalf("1mm = %v points, want 2.83465", got)
	}
	// A4 width
	if got := Mm(210).Points(); math.Abs(got-595.2765) > 1e-6 {
		t.Fatalf("210mm = %v points, want 595.2765", got)
	}
}

func TestFromPointsRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 1, 12.5, 297, -4} {
		back := float64(FromPoints(Mm(v).Points()))
		if math.Abs(back-v) > 1e-9 {
			t.Errorf("round trip %v -> %v", v, back)
		}
	}
}

func TestArithmetic(t *testing.T) {
	a, b := Mm(10), Mm(4)
	if a+b != Mm(14) || a-b != Mm(6) {
		t.Fatalf("add/sub broken")
	}
	if a*2 != Mm(20) || a/2 != Mm(5) {
		t.Fatalf("scale broken")
	}
}
