package engine

import "testing"

func TestNewFieldBounds(t *testing.T) {
	f := NewField(800, 600)

	if f.MinX != SidelineWidth+TokenRadius {
		t.Errorf("MinX = %.0f, want %.0f", f.MinX, SidelineWidth+TokenRadius)
	}
	if f.MaxX != 800-SidelineWidth-TokenRadius {
		t.Errorf("MaxX = %.0f, want %.0f", f.MaxX, 800-SidelineWidth-TokenRadius)
	}
	if f.MinY != TokenRadius || f.MaxY != 600-TokenRadius {
		t.Errorf("Y bounds = [%.0f, %.0f], want [%.0f, %.0f]", f.MinY, f.MaxY, float64(TokenRadius), 600-TokenRadius)
	}
	if f.Halfway != 300 {
		t.Errorf("Halfway = %.0f, want 300", f.Halfway)
	}
}

func TestClampForcesPointInBounds(t *testing.T) {
	f := NewField(800, 600)

	cases := []struct {
		in, want Vec2
	}{
		{Vec2{X: 400, Y: 300}, Vec2{X: 400, Y: 300}},           // already inside
		{Vec2{X: -100, Y: 300}, Vec2{X: f.MinX, Y: 300}},       // left of sideline
		{Vec2{X: 10000, Y: 300}, Vec2{X: f.MaxX, Y: 300}},      // right of sideline
		{Vec2{X: 400, Y: -50}, Vec2{X: 400, Y: f.MinY}},        // above field
		{Vec2{X: 400, Y: 9999}, Vec2{X: 400, Y: f.MaxY}},       // below field
		{Vec2{X: -1, Y: -1}, Vec2{X: f.MinX, Y: f.MinY}},       // corner
	}

	for _, c := range cases {
		got := f.Clamp(c.in)
		if !got.IsEqualTo(c.want) {
			t.Errorf("Clamp(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestAttackRowY(t *testing.T) {
	f := NewField(800, 600)

	if got := f.AttackRowY(1); got != 300+FrontRowOffset {
		t.Errorf("team 1 row y = %.0f, want %.0f", got, 300+FrontRowOffset)
	}
	if got := f.AttackRowY(2); got != 300-FrontRowOffset {
		t.Errorf("team 2 row y = %.0f, want %.0f", got, 300-FrontRowOffset)
	}
}

func TestHalfCenterY(t *testing.T) {
	f := NewField(800, 600)

	if got := f.HalfCenterY(1); got != 450 {
		t.Errorf("team 1 half center = %.0f, want 450", got)
	}
	if got := f.HalfCenterY(2); got != 150 {
		t.Errorf("team 2 half center = %.0f, want 150", got)
	}
}
