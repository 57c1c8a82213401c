package engine

import "time"

// Field and token constants. These are fixed per engine instance and must
// match the frontend canvas renderer.
const (
	SidelineWidth = 40.0
	TokenRadius   = 15.0
	BallRadius    = 10.0

	// Hit-test radii for pointer-down selection.
	PlayerHitRadius = 20.0
	BallHitRadius   = 15.0

	MaxTeamSize = 20

	// Spawn grid: rows of 5 centered in the team's half.
	SpawnRowSize     = 5
	FormationSpacing = 40.0

	// Default formation: front row of 6 at a fixed offset from halfway,
	// substitutes in two columns inside the sideline strip.
	FrontRowSize   = 6
	FrontRowOffset = 60.0
	SubColumnGap   = 20.0

	// Offset applied to the ball when possession is reassigned after the
	// holder is removed from the field.
	PossessionOffset = 10.0

	// Playback advances at most once per base interval; the speed factor
	// divides into this (speed 0.1 -> one keyframe every ~167ms).
	BaseFrameInterval = time.Second / 60
)
