package engine

// Pointer-driven drag state machine. Three states: idle, dragging a player,
// dragging the ball. Callers feed canvas-pixel coordinates; device-pixel
// conversion is the caller's job.

// PointerDown starts a drag. The ball is hit-tested first — a possessing
// player covers the ball's hit circle at their own position — then players
// by nearest-within-PlayerHitRadius.
func (e *Engine) PointerDown(x, y float64) {
	p := NewVec2(x, y)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ballRenderPos().DistanceTo(p) <= BallHitRadius {
		e.isDraggingBall = true
		e.isBallSelected = true
		e.selectedPlayer = ""
		e.redrawLocked()
		return
	}

	if target := e.nearestPlayerWithin(p, PlayerHitRadius); target != nil {
		e.selectedPlayer = target.Key
		e.isBallSelected = false
		e.draggingPlayer = target.Key
		// Seed the pending path with the player's current position as both
		// start and end; the trail grows as the pointer moves.
		e.paths[target.Key] = &PlayerPath{
			Start: target.Position,
			End:   target.Position,
			Trail: []Vec2{target.Position},
		}
	}
	e.redrawLocked()
}

// PointerMove updates the active drag. Coordinates are clamped into the
// in-bounds play area before any use. Dragging the ball transiently releases
// possession so the ball is not snapped to a player mid-drag; dragging a
// possessing player mirrors the ball to follow them.
func (e *Engine) PointerMove(x, y float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.field.Clamp(NewVec2(x, y))

	if e.isDraggingBall {
		e.ball.PossessedBy = ""
		e.ball.X = p.X
		e.ball.Y = p.Y
		e.redrawLocked()
		return
	}

	if e.draggingPlayer == "" {
		return
	}
	pl, ok := e.findPlayer(e.draggingPlayer)
	if !ok {
		// Player removed mid-drag; drop the gesture.
		e.draggingPlayer = ""
		return
	}

	pl.Position = p
	if path, ok := e.paths[pl.Key]; ok {
		path.End = p
		path.Trail = append(path.Trail, p)
	}
	if e.ball.PossessedBy == pl.Key {
		e.ball.X = p.X
		e.ball.Y = p.Y
	}
	e.redrawLocked()
}

// PointerUp ends the active drag and returns the machine to idle.
//
// Releasing the ball runs a nearest-player test at the drop point: a team-1
// player takes possession (recording captures an immediate keyframe);
// otherwise possession reverts to the first team-1 player, or the ball
// recenters when team 1 is empty. Team 2 never gains possession this way.
//
// Releasing a player records the path's end but resets the token to its
// drag-start position: the drag is a preview, committed only by a snapshot.
func (e *Engine) PointerUp() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.isDraggingBall {
		e.isDraggingBall = false
		drop := Vec2{X: e.ball.X, Y: e.ball.Y}

		if target := e.nearestPlayerWithin(drop, PlayerHitRadius); target != nil && target.Team == 1 {
			e.giveBallTo(target)
			if e.isRecording {
				// Possession changes are capture-worthy on their own.
				e.captureKeyFrameLocked()
			}
		} else if first := e.firstTeamPlayer(1); first != nil {
			e.giveBallTo(first)
		} else {
			e.releaseBallAt(e.field.Center())
		}
		e.redrawLocked()
		return
	}

	if e.draggingPlayer != "" {
		if pl, ok := e.findPlayer(e.draggingPlayer); ok {
			if path, ok := e.paths[pl.Key]; ok {
				path.End = pl.Position
				pl.Position = path.Start
				if e.ball.PossessedBy == pl.Key {
					e.ball.X = path.Start.X
					e.ball.Y = path.Start.Y
				}
			}
		}
		e.draggingPlayer = ""
		e.redrawLocked()
	}
}

// PointerLeave is treated exactly like PointerUp.
func (e *Engine) PointerLeave() {
	e.PointerUp()
}

// SelectedPlayer returns the id of the selected player, or "".
func (e *Engine) SelectedPlayer() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.selectedPlayer
}

// SetPlayerNumber updates a player's display label. Silently no-ops on a
// stale id.
func (e *Engine) SetPlayerNumber(key string, number int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p, ok := e.findPlayer(key); ok {
		p.Number = number
		e.redrawLocked()
	}
}
