package engine

import "testing"

// dragPlayer runs a full pointer gesture from a player's current position to
// (toX, toY).
func dragPlayer(e *Engine, key string, toX, toY float64) {
	from, _ := e.PlayerPosition(key)
	e.PointerDown(from.X, from.Y)
	e.PointerMove(toX, toY)
	e.PointerUp()
}

func TestPointerDownSelectsNearestPlayer(t *testing.T) {
	e, _ := newTestEngine()
	e.SpawnTokens(1, 5)

	// team1-1 does not hold the ball, so the player hit test wins.
	pos, _ := e.PlayerPosition("team1-1")
	e.PointerDown(pos.X+5, pos.Y+5)

	if got := e.SelectedPlayer(); got != "team1-1" {
		t.Errorf("selected %q, want team1-1", got)
	}
	e.PointerUp()
}

func TestPointerDownMissesOutsideHitRadius(t *testing.T) {
	e, _ := newTestEngine()
	e.SpawnTokens(1, 1)

	pos, _ := e.PlayerPosition("team1-0")
	e.PointerDown(pos.X+PlayerHitRadius*3, pos.Y+PlayerHitRadius*3)

	if got := e.SelectedPlayer(); got != "" {
		t.Errorf("selected %q on a miss, want none", got)
	}
}

func TestPlayerDragRevertsOnRelease(t *testing.T) {
	e, _ := newTestEngine()
	e.SpawnTokens(1, 5)

	start, _ := e.PlayerPosition("team1-1")
	dragPlayer(e, "team1-1", start.X+80, start.Y+30)

	// The drag is a preview: the token snaps back to where it started.
	got, _ := e.PlayerPosition("team1-1")
	if !got.IsEqualTo(start) {
		t.Errorf("player at (%.0f, %.0f) after release, want reverted to (%.0f, %.0f)", got.X, got.Y, start.X, start.Y)
	}
}

func TestPlayerDragPathSurvivesReleaseUntilSnapshot(t *testing.T) {
	e, _ := newTestEngine()
	e.SpawnTokens(1, 5)
	e.ToggleRecording()

	start, _ := e.PlayerPosition("team1-1")
	end := Vec2{X: start.X + 80, Y: start.Y + 30}
	dragPlayer(e, "team1-1", end.X, end.Y)

	// Snapshot commits the pending path: the token jumps to the path end.
	if !e.TakeSnapshot() {
		t.Fatal("TakeSnapshot returned false while recording")
	}
	got, _ := e.PlayerPosition("team1-1")
	if !got.IsEqualTo(end) {
		t.Errorf("player at (%.0f, %.0f) after snapshot, want committed (%.0f, %.0f)", got.X, got.Y, end.X, end.Y)
	}

	kfs := e.RecordedKeyFrames()
	if len(kfs) != 1 {
		t.Fatalf("recorded %d keyframes, want 1", len(kfs))
	}
	if kfPos := kfs[0].Positions["team1-1"]; !kfPos.IsEqualTo(end) {
		t.Errorf("keyframe has team1-1 at (%.0f, %.0f), want (%.0f, %.0f)", kfPos.X, kfPos.Y, end.X, end.Y)
	}
}

func TestDraggingHolderCarriesBall(t *testing.T) {
	e, _ := newTestEngine()
	e.SpawnTokens(1, 5)

	// team1-0 holds the ball. Grab the token just outside the ball's hit
	// circle so the player hit test wins over the ball's.
	start, _ := e.PlayerPosition("team1-0")
	e.PointerDown(start.X+BallHitRadius+2, start.Y)
	e.PointerMove(start.X+100, start.Y+50)

	ball := e.Ball()
	if ball.X != start.X+100 || ball.Y != start.Y+50 {
		t.Errorf("ball at (%.0f, %.0f) mid-drag, want following holder (%.0f, %.0f)", ball.X, ball.Y, start.X+100, start.Y+50)
	}

	e.PointerUp()

	// Revert applies to the ball too.
	ball = e.Ball()
	if ball.X != start.X || ball.Y != start.Y {
		t.Errorf("ball at (%.0f, %.0f) after revert, want (%.0f, %.0f)", ball.X, ball.Y, start.X, start.Y)
	}
}

func TestPointerMoveClampsToField(t *testing.T) {
	e, _ := newTestEngine()
	e.SpawnTokens(1, 5)
	e.ToggleRecording()

	start, _ := e.PlayerPosition("team1-1")
	e.PointerDown(start.X, start.Y)
	e.PointerMove(-500, 99999)
	e.PointerUp()
	e.TakeSnapshot()

	f := e.Field()
	got, _ := e.PlayerPosition("team1-1")
	if got.X != f.MinX || got.Y != f.MaxY {
		t.Errorf("committed position (%.0f, %.0f), want clamped (%.0f, %.0f)", got.X, got.Y, f.MinX, f.MaxY)
	}
}

func TestBallDragToTeamOnePlayerTransfersPossession(t *testing.T) {
	e, _ := newTestEngine()
	e.SpawnTokens(1, 5)

	holder, _ := e.PlayerPosition("team1-0")
	target, _ := e.PlayerPosition("team1-2")

	e.PointerDown(holder.X, holder.Y) // ball hit test wins at the holder
	e.PointerMove(target.X, target.Y)

	// Possession is transiently released mid-drag.
	if got := e.Ball().PossessedBy; got != "" {
		t.Errorf("ball possessed by %q mid-drag, want loose", got)
	}

	e.PointerUp()

	if got := e.Ball().PossessedBy; got != "team1-2" {
		t.Errorf("ball possessed by %q after drop, want team1-2", got)
	}
}

func TestBallDragToTeamTwoRevertsToFirstTeamOnePlayer(t *testing.T) {
	e, _ := newTestEngine()
	e.SpawnTokens(1, 5)
	e.SpawnTokens(2, 5)

	holder, _ := e.PlayerPosition("team1-0")
	opp, _ := e.PlayerPosition("team2-1")

	e.PointerDown(holder.X, holder.Y)
	e.PointerMove(opp.X, opp.Y)
	e.PointerUp()

	// Team 2 never gains possession from a ball drop.
	if got := e.Ball().PossessedBy; got != "team1-0" {
		t.Errorf("ball possessed by %q after drop on opponent, want team1-0", got)
	}
}

func TestBallDragToEmptySpaceRevertsToFirstTeamOnePlayer(t *testing.T) {
	e, _ := newTestEngine()
	e.SpawnTokens(1, 5)

	holder, _ := e.PlayerPosition("team1-0")
	e.PointerDown(holder.X, holder.Y)
	e.PointerMove(holder.X, holder.Y-200) // open space upfield
	e.PointerUp()

	if got := e.Ball().PossessedBy; got != "team1-0" {
		t.Errorf("ball possessed by %q, want reverted to team1-0", got)
	}
}

func TestBallDropOnTeamOneCapturesKeyframeWhileRecording(t *testing.T) {
	e, _ := newTestEngine()
	e.SpawnTokens(1, 5)
	e.ToggleRecording()

	holder, _ := e.PlayerPosition("team1-0")
	target, _ := e.PlayerPosition("team1-3")

	e.PointerDown(holder.X, holder.Y)
	e.PointerMove(target.X, target.Y)
	e.PointerUp()

	kfs := e.RecordedKeyFrames()
	if len(kfs) != 1 {
		t.Fatalf("recorded %d keyframes after possession change, want 1", len(kfs))
	}
	if kfs[0].Ball.PossessedBy != "team1-3" {
		t.Errorf("keyframe ball possessed by %q, want team1-3", kfs[0].Ball.PossessedBy)
	}
}

func TestPointerLeaveBehavesLikeRelease(t *testing.T) {
	e, _ := newTestEngine()
	e.SpawnTokens(1, 5)

	start, _ := e.PlayerPosition("team1-1")
	e.PointerDown(start.X, start.Y)
	e.PointerMove(start.X+60, start.Y)
	e.PointerLeave()

	got, _ := e.PlayerPosition("team1-1")
	if !got.IsEqualTo(start) {
		t.Errorf("player at (%.0f, %.0f) after pointer leave, want reverted to (%.0f, %.0f)", got.X, got.Y, start.X, start.Y)
	}
}

func TestSetPlayerNumberIgnoresStaleKey(t *testing.T) {
	e, _ := newTestEngine()
	e.SpawnTokens(1, 2)

	e.SetPlayerNumber("team1-1", 10)
	e.SetPlayerNumber("team1-99", 42) // stale key, silent no-op

	snap := e.Snapshot()
	for _, p := range snap.Players {
		if p.ID == "team1-1" && p.Number != 10 {
			t.Errorf("team1-1 number = %d, want 10", p.Number)
		}
	}
}

func TestSinkReceivesRedraws(t *testing.T) {
	e, sink := newTestEngine()

	e.SpawnTokens(1, 3)
	if sink.Renders == 0 {
		t.Fatal("sink received no renders after spawn")
	}
	if len(sink.Last.Players) != 3 {
		t.Errorf("last snapshot has %d players, want 3", len(sink.Last.Players))
	}
	if sink.Last.Ball.PossessedBy != "team1-0" {
		t.Errorf("last snapshot ball possessed by %q, want team1-0", sink.Last.Ball.PossessedBy)
	}
}
