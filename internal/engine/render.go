package engine

// FrameSink receives an immutable snapshot after every mutating operation.
// Implementations must not call back into the engine. The production sink
// broadcasts board_state messages over WebSocket; tests use BufferSink.
type FrameSink interface {
	RenderBoard(s BoardSnapshot)
}

// PlayerView is a player as exposed to renderers.
type PlayerView struct {
	ID       string  `json:"id"`
	Team     int     `json:"team"`
	Number   int     `json:"number"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Selected bool    `json:"selected"`
	HasBall  bool    `json:"has_ball"`
}

// BoardSnapshot is the full render-ready state of a board session.
type BoardSnapshot struct {
	Players        []PlayerView      `json:"players"`
	Ball           BallState         `json:"ball"`
	BallSelected   bool              `json:"ball_selected"`
	Paths          map[string][]Vec2 `json:"paths,omitempty"`
	Recording      bool              `json:"recording"`
	TouchCount     int               `json:"touch_count"`
	KeyFrameCount  int               `json:"keyframe_count"`
	PlaybackActive bool              `json:"playback_active"`
	PlaybackCursor int               `json:"playback_cursor"`
}

// BufferSink retains the last snapshot and a render count. Used by tests and
// headless export flows.
type BufferSink struct {
	Last    BoardSnapshot
	Renders int
}

func (b *BufferSink) RenderBoard(s BoardSnapshot) {
	b.Last = s
	b.Renders++
}
