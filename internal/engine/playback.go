package engine

import (
	"errors"
	"sort"
	"time"
)

// LoadPlay hydrates the board from a stored keyframe sequence: the roster is
// rebuilt from keyframe 0's position keys (team and number decoded from the
// id), the ball applied, and the playback cursor rewound to 0.
func (e *Engine) LoadPlay(keyframes []KeyFrame) error {
	if len(keyframes) == 0 {
		return errors.New("play has no keyframes")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopPlaybackLocked()

	e.playKeyframes = make([]KeyFrame, len(keyframes))
	for i, kf := range keyframes {
		e.playKeyframes[i] = kf
		e.playKeyframes[i].Positions = clonePositions(kf.Positions)
	}

	e.hydrateFromKeyFrameLocked(e.playKeyframes[0])
	e.cursor = 0
	e.lastAdvance = time.Time{}
	e.redrawLocked()
	return nil
}

// SetPlaybackSpeed sets the speed multiplier. Values below 1 are slow
// motion; non-positive values are ignored.
func (e *Engine) SetPlaybackSpeed(factor float64) {
	if factor <= 0 {
		return
	}
	e.mu.Lock()
	e.speed = factor
	e.mu.Unlock()
}

// PlaybackSpeed returns the current speed multiplier.
func (e *Engine) PlaybackSpeed() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.speed
}

// StartPlayback begins the frame loop. Idempotent: calling it while the loop
// is already running does not start a second loop.
func (e *Engine) StartPlayback() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.playing || len(e.playKeyframes) == 0 {
		return
	}

	e.playing = true
	e.lastAdvance = time.Time{}
	stop := make(chan struct{})
	e.stopPlayback = stop
	go e.runPlayback(stop)
}

// runPlayback is the per-frame callback loop. Each tick it asks stepPlayback
// whether enough wall-clock time has elapsed to advance; the loop exits when
// the sequence finishes or the engine is paused.
func (e *Engine) runPlayback(stop chan struct{}) {
	ticker := time.NewTicker(BaseFrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if done := e.stepPlayback(time.Now()); done {
				return
			}
		}
	}
}

// stepPlayback advances at most one keyframe. It applies keyframe[cursor]
// once the elapsed time since the last advance exceeds the base interval
// divided by the speed factor. Returns true when the loop should exit.
func (e *Engine) stepPlayback(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.playing {
		return true
	}
	if e.cursor >= len(e.playKeyframes) {
		e.playing = false
		return true
	}

	interval := time.Duration(float64(BaseFrameInterval) / e.speed)
	if !e.lastAdvance.IsZero() && now.Sub(e.lastAdvance) < interval {
		return false
	}

	e.applyKeyFrameLocked(e.playKeyframes[e.cursor])
	e.cursor++
	e.lastAdvance = now
	e.redrawLocked()

	if e.cursor >= len(e.playKeyframes) {
		e.playing = false
		return true
	}
	return false
}

// PausePlayback halts the loop without moving the cursor. Idempotent: a
// no-op when playback is not running.
func (e *Engine) PausePlayback() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopPlaybackLocked()
}

func (e *Engine) stopPlaybackLocked() {
	if !e.playing {
		return
	}
	e.playing = false
	if e.stopPlayback != nil {
		close(e.stopPlayback)
		e.stopPlayback = nil
	}
}

// ResetPlayback pauses and rewinds to keyframe 0, reapplying its state.
func (e *Engine) ResetPlayback() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopPlaybackLocked()
	e.cursor = 0
	e.lastAdvance = time.Time{}
	if len(e.playKeyframes) > 0 {
		e.applyKeyFrameLocked(e.playKeyframes[0])
	}
	e.redrawLocked()
}

// IsPlaybackActive reports true only while the loop is running and the
// cursor has not reached the end. This is the polled end-of-playback signal;
// there is no completion event.
func (e *Engine) IsPlaybackActive() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.playing && e.cursor < len(e.playKeyframes)
}

// PlaybackCursor returns the current keyframe index.
func (e *Engine) PlaybackCursor() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursor
}

// RenderFrame jumps to an arbitrary keyframe without touching the playback
// cursor or timer, for export flows. Index 0 fully rehydrates the roster;
// later indexes overlay positions and ball state onto the loaded entities.
func (e *Engine) RenderFrame(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if index < 0 || index >= len(e.playKeyframes) {
		return errors.New("frame index out of range")
	}

	if index == 0 {
		e.hydrateFromKeyFrameLocked(e.playKeyframes[0])
	} else {
		e.applyKeyFrameLocked(e.playKeyframes[index])
	}
	e.redrawLocked()
	return nil
}

// LoadedKeyFrameCount returns the length of the loaded play.
func (e *Engine) LoadedKeyFrameCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.playKeyframes)
}

// hydrateFromKeyFrameLocked rebuilds the roster from a keyframe's position
// keys. Players are ordered by team then spawn index so playback order is
// stable regardless of map iteration.
func (e *Engine) hydrateFromKeyFrameLocked(kf KeyFrame) {
	ids := make([]PlayerID, 0, len(kf.Positions))
	for key := range kf.Positions {
		if id, ok := ParsePlayerID(key); ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Team != ids[j].Team {
			return ids[i].Team < ids[j].Team
		}
		return ids[i].Index < ids[j].Index
	})

	e.players = e.players[:0]
	for _, id := range ids {
		key := id.String()
		e.players = append(e.players, &Player{
			ID:       id,
			Key:      key,
			Team:     id.Team,
			Number:   id.Index + 1,
			Position: kf.Positions[key],
		})
		if e.spawnCount[id.Team] <= id.Index {
			e.spawnCount[id.Team] = id.Index + 1
		}
	}

	e.selectedPlayer = ""
	e.isBallSelected = false
	e.draggingPlayer = ""
	e.isDraggingBall = false
	e.paths = make(map[string]*PlayerPath)

	e.ball = kf.Ball
	e.touchCount = kf.TouchCount
}

// applyKeyFrameLocked overlays a keyframe onto the loaded roster: known
// players move, unknown keys are ignored.
func (e *Engine) applyKeyFrameLocked(kf KeyFrame) {
	for key, pos := range kf.Positions {
		if p, ok := e.findPlayer(key); ok {
			p.Position = pos
		}
	}
	e.ball = kf.Ball
	e.touchCount = kf.TouchCount
}
