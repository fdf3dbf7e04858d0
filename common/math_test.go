package common

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
)

func TestAngleDiff(t *testing.T) {
	cases := []struct {
		name string
		a, b float64
		want float64
	}{
		{"same", 1, 1, 0},
		{"quarter", 0, math.Pi / 2, math.Pi / 2},
		{"wraps", math.Pi - 0.1, -math.Pi + 0.1, 0.2},
		{"full_turn", 0, 2 * math.Pi, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := AngleDiff(c.a, c.b)
			if math.Abs(got-c.want) > 1e-9 {
				t.Fatalf("AngleDiff(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
			}
		})
	}
}

func TestDirection(t *testing.T) {
	if d := Direction(cp.Vector{}); d.X != 0 || d.Y != 0 {
		t.Fatalf("expected zero direction for zero vector, got %v", d)
	}
	d := Direction(cp.Vector{X: 3, Y: 4})
	if math.Abs(d.Length()-1) > 1e-9 {
		t.Fatalf("expected unit length, got %v", d.Length())
	}
}

func TestEaseBell(t *testing.T) {
	if EaseBell(0) > 1e-9 || EaseBell(1) > 1e-9 {
		t.Fatalf("bell must start and end at zero")
	}
	if math.Abs(EaseBell(0.5)-1) > 1e-9 {
		t.Fatalf("bell must peak at 1, got %v", EaseBell(0.5))
	}
}
