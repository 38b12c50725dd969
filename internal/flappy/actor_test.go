package flappy

import (
	"math"
	"testing"

	"github.com/vovakirdan/flappy-ledger/internal/config"
)

func TestActorIntegrate(t *testing.T) {
	p := config.DefaultFlappyConfig().Physics
	a := Actor{X: 100, Y: 300}

	a.integrate(p)
	if a.VY != p.Gravity || a.Y != 300+p.Gravity {
		t.Errorf("after one step actor = %+v", a)
	}
	if a.X != 100 {
		t.Errorf("X moved to %v", a.X)
	}
}

func TestActorVelocityIsLinearInTicks(t *testing.T) {
	p := config.DefaultFlappyConfig().Physics
	const v0 = -3.0
	a := Actor{Y: 0, VY: v0}

	// Long enough to pass any plausible terminal velocity.
	for n := 1; n <= 500; n++ {
		a.integrate(p)
		if want := v0 + float64(n)*p.Gravity; math.Abs(a.VY-want) > 1e-9 {
			t.Fatalf("VY after %d ticks = %v, expected %v", n, a.VY, want)
		}
	}
}

func TestActorRotation(t *testing.T) {
	p := config.DefaultFlappyConfig().Physics

	tests := []struct {
		vy   float64
		want float64
	}{
		{0, 0},
		{2, 0.2},
		{-3, -0.3},
		{20, p.MaxRotation},
		{-8, -p.MaxRotation},
	}

	for _, tt := range tests {
		got := Actor{VY: tt.vy}.Rotation(p)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Rotation(vy=%v) = %v, expected %v", tt.vy, got, tt.want)
		}
	}
}

func TestActorBox(t *testing.T) {
	b := Actor{X: 100, Y: 300}.Box(40)
	if b.Left() != 80 || b.Right() != 120 || b.Top() != 280 || b.Bottom() != 320 {
		t.Errorf("Box = %+v", b)
	}
}
