package engine

import "time"

// ToggleRecording flips the recording flag and returns the new state.
// Starting discards any previously recorded keyframes and pending paths;
// stopping discards uncommitted paths (drag intents are never auto-committed).
func (e *Engine) ToggleRecording() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.isRecording = !e.isRecording
	if e.isRecording {
		e.keyframes = nil
	}
	e.paths = make(map[string]*PlayerPath)

	e.redrawLocked()
	return e.isRecording
}

// IsRecording reports whether a recording session is active.
func (e *Engine) IsRecording() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.isRecording
}

// TakeSnapshot commits every pending drag path — each player jumps to their
// path's end position — then appends one keyframe of the resulting state.
// No-op unless recording. Returns true when a keyframe was captured.
func (e *Engine) TakeSnapshot() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isRecording {
		return false
	}

	for key, path := range e.paths {
		pl, ok := e.findPlayer(key)
		if !ok {
			continue
		}
		pl.Position = path.End
		if e.ball.PossessedBy == key {
			e.ball.X = path.End.X
			e.ball.Y = path.End.Y
		}
	}
	e.paths = make(map[string]*PlayerPath)

	e.captureKeyFrameLocked()
	e.redrawLocked()
	return true
}

// IncrementTouch bumps the touch counter and, while recording, appends a
// keyframe immediately — counter changes are capture-worthy events.
func (e *Engine) IncrementTouch() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.touchCount++
	if e.isRecording {
		e.captureKeyFrameLocked()
	}
	e.redrawLocked()
	return e.touchCount
}

// TouchCount returns the current touch counter.
func (e *Engine) TouchCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.touchCount
}

// RecordedKeyFrames returns a copy of the recorded sequence in append order,
// ready for hand-off to the persistence layer.
func (e *Engine) RecordedKeyFrames() []KeyFrame {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]KeyFrame, len(e.keyframes))
	for i, kf := range e.keyframes {
		out[i] = kf
		out[i].Positions = clonePositions(kf.Positions)
	}
	return out
}

// captureKeyFrameLocked appends one keyframe of the current state: every
// player's position, a deep copy of ball state and the touch counter,
// timestamped at capture time.
func (e *Engine) captureKeyFrameLocked() {
	positions := make(map[string]Vec2, len(e.players))
	for _, p := range e.players {
		positions[p.Key] = p.Position
	}

	ball := e.ball
	pos := e.ballRenderPos()
	ball.X = pos.X
	ball.Y = pos.Y

	e.keyframes = append(e.keyframes, KeyFrame{
		Timestamp:  time.Now().UnixMilli(),
		Positions:  positions,
		Ball:       ball,
		TouchCount: e.touchCount,
	})
}
