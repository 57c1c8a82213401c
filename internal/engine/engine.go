package engine

import (
	"sync"
	"time"
)

// Engine owns the mutable state of one board session: the roster, the ball,
// the drag state machine, the recorded timeline and the playback scheduler.
// It is the sole mutator of that state; renderers only ever see snapshots.
//
// Pointer events arrive from the WebSocket reader while the playback loop
// and the session expiry worker run on their own goroutines, so all state is
// guarded by a single RWMutex.
type Engine struct {
	mu    sync.RWMutex
	field Field

	players    []*Player // insertion order = spawn order
	spawnCount map[int]int
	ball       BallState

	selectedPlayer string
	isBallSelected bool

	draggingPlayer string
	isDraggingBall bool

	isRecording bool
	touchCount  int
	paths       map[string]*PlayerPath
	keyframes   []KeyFrame

	playKeyframes []KeyFrame
	cursor        int
	speed         float64
	playing       bool
	stopPlayback  chan struct{}
	lastAdvance   time.Time

	sink FrameSink
}

// NewEngine creates an engine for a canvas size. The ball starts loose at
// the center of the field.
func NewEngine(width, height float64) *Engine {
	f := NewField(width, height)
	center := f.Center()
	return &Engine{
		field:      f,
		spawnCount: map[int]int{1: 0, 2: 0},
		ball:       BallState{X: center.X, Y: center.Y},
		paths:      make(map[string]*PlayerPath),
		speed:      1,
	}
}

// SetSink installs the render sink. Passing nil disables redraws.
func (e *Engine) SetSink(s FrameSink) {
	e.mu.Lock()
	e.sink = s
	e.mu.Unlock()
}

// Field returns the field geometry.
func (e *Engine) Field() Field {
	return e.field
}

// findPlayer returns the player with the given wire key. Callers silently
// no-op on a miss: a stale id is an expected race between pointer input and
// roster changes, not an error.
func (e *Engine) findPlayer(key string) (*Player, bool) {
	for _, p := range e.players {
		if p.Key == key {
			return p, true
		}
	}
	return nil, false
}

// firstTeamPlayer returns the earliest-spawned player of a team still on the
// field, or nil.
func (e *Engine) firstTeamPlayer(team int) *Player {
	for _, p := range e.players {
		if p.Team == team {
			return p
		}
	}
	return nil
}

// nearestPlayerWithin returns the closest player to p within radius, or nil.
func (e *Engine) nearestPlayerWithin(p Vec2, radius float64) *Player {
	var best *Player
	bestDist := radius
	for _, pl := range e.players {
		if d := pl.Position.DistanceTo(p); d <= bestDist {
			best = pl
			bestDist = d
		}
	}
	return best
}

// ballRenderPos is the ball's effective position: the holder's position
// while possessed, the ball's own coordinates otherwise.
func (e *Engine) ballRenderPos() Vec2 {
	if e.ball.PossessedBy != "" {
		if holder, ok := e.findPlayer(e.ball.PossessedBy); ok {
			return holder.Position
		}
	}
	return Vec2{X: e.ball.X, Y: e.ball.Y}
}

// giveBallTo snaps the ball to a player and records possession.
func (e *Engine) giveBallTo(p *Player) {
	e.ball.PossessedBy = p.Key
	e.ball.X = p.Position.X
	e.ball.Y = p.Position.Y
}

// releaseBallAt drops possession and leaves the ball at a point.
func (e *Engine) releaseBallAt(p Vec2) {
	e.ball.PossessedBy = ""
	e.ball.X = p.X
	e.ball.Y = p.Y
}

// Snapshot returns a copy of the current render-ready state.
func (e *Engine) Snapshot() BoardSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() BoardSnapshot {
	players := make([]PlayerView, 0, len(e.players))
	for _, p := range e.players {
		players = append(players, PlayerView{
			ID:       p.Key,
			Team:     p.Team,
			Number:   p.Number,
			X:        p.Position.X,
			Y:        p.Position.Y,
			Selected: p.Key == e.selectedPlayer,
			HasBall:  p.Key == e.ball.PossessedBy,
		})
	}

	ball := e.ball
	pos := e.ballRenderPos()
	ball.X = pos.X
	ball.Y = pos.Y

	var paths map[string][]Vec2
	if len(e.paths) > 0 {
		paths = make(map[string][]Vec2, len(e.paths))
		for key, path := range e.paths {
			trail := make([]Vec2, len(path.Trail))
			copy(trail, path.Trail)
			paths[key] = trail
		}
	}

	return BoardSnapshot{
		Players:        players,
		Ball:           ball,
		BallSelected:   e.isBallSelected,
		Paths:          paths,
		Recording:      e.isRecording,
		TouchCount:     e.touchCount,
		KeyFrameCount:  len(e.keyframes),
		PlaybackActive: e.playing && e.cursor < len(e.playKeyframes),
		PlaybackCursor: e.cursor,
	}
}

// redrawLocked pushes a snapshot to the sink. Called after every mutating
// operation so the rendered frame never lags the model.
func (e *Engine) redrawLocked() {
	if e.sink == nil {
		return
	}
	e.sink.RenderBoard(e.snapshotLocked())
}
