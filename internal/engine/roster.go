package engine

// SpawnTokens adds up to count players to a team, capped so the team never
// exceeds MaxTeamSize. New players are laid out in rows of five centered in
// the team's half. The very first player ever added to team 1 receives
// initial ball possession. Returns the number of players actually added.
func (e *Engine) SpawnTokens(team, count int) int {
	if team != 1 && team != 2 {
		return 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	existing := e.teamSize(team)
	if existing+count > MaxTeamSize {
		count = MaxTeamSize - existing
	}
	if count <= 0 {
		e.redrawLocked()
		return 0
	}

	for i := 0; i < count; i++ {
		idx := e.spawnCount[team]
		e.spawnCount[team]++

		id := PlayerID{Team: team, Index: idx}
		slot := existing + i
		row := slot / SpawnRowSize
		col := slot % SpawnRowSize

		pos := Vec2{
			X: e.field.Width/2 + float64(col-SpawnRowSize/2)*FormationSpacing,
			Y: e.field.HalfCenterY(team) + attackDirection(team)*float64(row)*FormationSpacing,
		}

		p := &Player{
			ID:       id,
			Key:      id.String(),
			Team:     team,
			Number:   idx + 1,
			Position: e.field.Clamp(pos),
		}
		e.players = append(e.players, p)

		// First token ever on team 1 starts with the ball.
		if team == 1 && idx == 0 {
			e.giveBallTo(p)
		}
	}

	e.redrawLocked()
	return count
}

// RemovePlayersFromTeam trims a team down to keepCount players, keeping the
// first keepCount by spawn order. A no-op when the team is already at or
// below keepCount. If the ball's holder is dropped, possession transfers to
// the first remaining team-1 player (ball offset slightly from them), or the
// ball is released and recentered when team 1 is empty.
func (e *Engine) RemovePlayersFromTeam(team, keepCount int) {
	if keepCount < 0 {
		keepCount = 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.teamSize(team) <= keepCount {
		return
	}

	kept := make([]*Player, 0, len(e.players))
	holderDropped := false
	seen := 0
	for _, p := range e.players {
		if p.Team != team {
			kept = append(kept, p)
			continue
		}
		if seen < keepCount {
			kept = append(kept, p)
			seen++
			continue
		}
		if p.Key == e.ball.PossessedBy {
			holderDropped = true
		}
		if p.Key == e.selectedPlayer {
			e.selectedPlayer = ""
		}
		if p.Key == e.draggingPlayer {
			e.draggingPlayer = ""
		}
		delete(e.paths, p.Key)
	}
	e.players = kept

	if holderDropped {
		if next := e.firstTeamPlayer(1); next != nil {
			e.ball.PossessedBy = next.Key
			e.ball.X = next.Position.X + PossessionOffset
			e.ball.Y = next.Position.Y + PossessionOffset
		} else {
			e.releaseBallAt(e.field.Center())
		}
	}

	e.redrawLocked()
}

// SetDefaultPositions moves a team into its canonical formation: the first
// six players in one evenly spaced row at a fixed offset from the halfway
// line, the rest stacked as two substitute columns in the sideline strip.
// Repositioning team 1 hands the ball to its third front-row player.
func (e *Engine) SetDefaultPositions(team int) {
	if team != 1 && team != 2 {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	teamPlayers := make([]*Player, 0, MaxTeamSize)
	for _, p := range e.players {
		if p.Team == team {
			teamPlayers = append(teamPlayers, p)
		}
	}

	playable := e.field.Width - 2*SidelineWidth
	rowY := e.field.AttackRowY(team)
	dir := attackDirection(team)

	for i, p := range teamPlayers {
		if i < FrontRowSize {
			p.Position = Vec2{
				X: SidelineWidth + float64(i+1)*playable/(FrontRowSize+1),
				Y: rowY,
			}
			continue
		}
		// Substitutes sit outside the touchline in two columns.
		sub := i - FrontRowSize
		col := sub % 2
		rowIdx := sub / 2
		p.Position = Vec2{
			X: e.field.Width - SidelineWidth + SubColumnGap/2 + float64(col)*SubColumnGap,
			Y: rowY + dir*float64(rowIdx+1)*FormationSpacing,
		}
	}

	if team == 1 && len(teamPlayers) >= 3 {
		e.giveBallTo(teamPlayers[2])
	} else if e.ball.PossessedBy != "" {
		// Keep the ball snapped to its holder's new spot.
		if holder, ok := e.findPlayer(e.ball.PossessedBy); ok {
			e.ball.X = holder.Position.X
			e.ball.Y = holder.Position.Y
		}
	}

	e.redrawLocked()
}

// TeamSize reports how many players a team currently fields.
func (e *Engine) TeamSize(team int) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.teamSize(team)
}

func (e *Engine) teamSize(team int) int {
	n := 0
	for _, p := range e.players {
		if p.Team == team {
			n++
		}
	}
	return n
}

// Ball returns a copy of the ball state with the render position resolved.
func (e *Engine) Ball() BallState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b := e.ball
	pos := e.ballRenderPos()
	b.X = pos.X
	b.Y = pos.Y
	return b
}

// PlayerPosition returns a player's current on-field position.
func (e *Engine) PlayerPosition(key string) (Vec2, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p, ok := e.findPlayer(key)
	if !ok {
		return Vec2{}, false
	}
	return p.Position, true
}
