package engine

// Field describes the playable area derived from a canvas size. Team 1
// occupies the bottom half and attacks toward the top; team 2 the reverse.
// All functions are pure; a Field carries no mutable state.
type Field struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	MinX    float64 `json:"min_x"`
	MaxX    float64 `json:"max_x"`
	MinY    float64 `json:"min_y"`
	MaxY    float64 `json:"max_y"`
	Halfway float64 `json:"halfway"`
}

// NewField computes the field rectangle for a canvas size. The in-bounds
// play area excludes the sideline strips and a token-radius margin so a
// clamped token never overlaps the boundary.
func NewField(width, height float64) Field {
	return Field{
		Width:   width,
		Height:  height,
		MinX:    SidelineWidth + TokenRadius,
		MaxX:    width - SidelineWidth - TokenRadius,
		MinY:    TokenRadius,
		MaxY:    height - TokenRadius,
		Halfway: height / 2,
	}
}

// Clamp forces a point into the in-bounds play area.
func (f Field) Clamp(p Vec2) Vec2 {
	if p.X < f.MinX {
		p.X = f.MinX
	}
	if p.X > f.MaxX {
		p.X = f.MaxX
	}
	if p.Y < f.MinY {
		p.Y = f.MinY
	}
	if p.Y > f.MaxY {
		p.Y = f.MaxY
	}
	return p
}

// Center returns the middle of the canvas.
func (f Field) Center() Vec2 {
	return Vec2{X: f.Width / 2, Y: f.Height / 2}
}

// AttackRowY returns the y coordinate of a team's default front row, a fixed
// offset from the halfway line into the team's own half.
func (f Field) AttackRowY(team int) float64 {
	if team == 1 {
		return f.Halfway + FrontRowOffset
	}
	return f.Halfway - FrontRowOffset
}

// HalfCenterY returns the vertical center of a team's half, used as the
// anchor row for spawn layout.
func (f Field) HalfCenterY(team int) float64 {
	if team == 1 {
		return f.Halfway + (f.Height-f.Halfway)/2
	}
	return f.Halfway / 2
}

// attackDirection is +1 for team 1 (rows grow downward, away from halfway)
// and -1 for team 2.
func attackDirection(team int) float64 {
	if team == 1 {
		return 1
	}
	return -1
}
