package engine

import "testing"

func TestToggleRecordingFlipsAndClears(t *testing.T) {
	e, _ := newTestEngine()
	e.SpawnTokens(1, 3)

	if !e.ToggleRecording() {
		t.Fatal("first toggle returned false, want recording on")
	}
	e.TakeSnapshot()
	e.TakeSnapshot()

	if e.ToggleRecording() {
		t.Fatal("second toggle returned true, want recording off")
	}

	// Stopping keeps the recorded sequence available for saving.
	if got := len(e.RecordedKeyFrames()); got != 2 {
		t.Errorf("recorded %d keyframes after stop, want 2", got)
	}

	// Starting again discards the previous session.
	e.ToggleRecording()
	if got := len(e.RecordedKeyFrames()); got != 0 {
		t.Errorf("recorded %d keyframes after restart, want 0", got)
	}
}

func TestTakeSnapshotRequiresRecording(t *testing.T) {
	e, _ := newTestEngine()
	e.SpawnTokens(1, 3)

	if e.TakeSnapshot() {
		t.Error("TakeSnapshot returned true while not recording")
	}
	if got := len(e.RecordedKeyFrames()); got != 0 {
		t.Errorf("recorded %d keyframes while not recording, want 0", got)
	}
}

func TestKeyFramesGrowInOrder(t *testing.T) {
	e, _ := newTestEngine()
	e.SpawnTokens(1, 3)
	e.ToggleRecording()

	for i := 0; i < 4; i++ {
		e.TakeSnapshot()
	}

	kfs := e.RecordedKeyFrames()
	if len(kfs) != 4 {
		t.Fatalf("recorded %d keyframes, want 4", len(kfs))
	}
	for i := 1; i < len(kfs); i++ {
		if kfs[i].Timestamp < kfs[i-1].Timestamp {
			t.Errorf("keyframe %d timestamp %d precedes keyframe %d timestamp %d", i, kfs[i].Timestamp, i-1, kfs[i-1].Timestamp)
		}
	}
}

func TestKeyFrameCapturesFullState(t *testing.T) {
	e, _ := newTestEngine()
	e.SpawnTokens(1, 3)
	e.SpawnTokens(2, 2)
	e.ToggleRecording()
	e.TakeSnapshot()

	kfs := e.RecordedKeyFrames()
	if len(kfs) != 1 {
		t.Fatalf("recorded %d keyframes, want 1", len(kfs))
	}
	kf := kfs[0]

	if len(kf.Positions) != 5 {
		t.Errorf("keyframe has %d positions, want 5", len(kf.Positions))
	}
	for _, key := range []string{"team1-0", "team1-2", "team2-1"} {
		want, _ := e.PlayerPosition(key)
		if got, ok := kf.Positions[key]; !ok || !got.IsEqualTo(want) {
			t.Errorf("keyframe position for %s = %v (present=%v), want %v", key, got, ok, want)
		}
	}
	if kf.Ball.PossessedBy != "team1-0" {
		t.Errorf("keyframe ball possessed by %q, want team1-0", kf.Ball.PossessedBy)
	}

	// The ball's stored coordinates are resolved to the holder's position.
	holder, _ := e.PlayerPosition("team1-0")
	if kf.Ball.X != holder.X || kf.Ball.Y != holder.Y {
		t.Errorf("keyframe ball at (%.0f, %.0f), want holder (%.0f, %.0f)", kf.Ball.X, kf.Ball.Y, holder.X, holder.Y)
	}
}

func TestIncrementTouchCapturesWhileRecording(t *testing.T) {
	e, _ := newTestEngine()
	e.SpawnTokens(1, 3)

	// Outside recording the counter moves but nothing is captured.
	if got := e.IncrementTouch(); got != 1 {
		t.Errorf("touch count = %d, want 1", got)
	}
	if got := len(e.RecordedKeyFrames()); got != 0 {
		t.Fatalf("recorded %d keyframes outside recording, want 0", got)
	}

	e.ToggleRecording()
	e.IncrementTouch()
	e.IncrementTouch()

	kfs := e.RecordedKeyFrames()
	if len(kfs) != 2 {
		t.Fatalf("recorded %d keyframes, want 2", len(kfs))
	}
	if kfs[0].TouchCount != 2 || kfs[1].TouchCount != 3 {
		t.Errorf("keyframe touch counts = %d, %d, want 2, 3", kfs[0].TouchCount, kfs[1].TouchCount)
	}
	if e.TouchCount() != 3 {
		t.Errorf("touch count = %d, want 3", e.TouchCount())
	}
}

func TestRecordedKeyFramesReturnsDeepCopy(t *testing.T) {
	e, _ := newTestEngine()
	e.SpawnTokens(1, 2)
	e.ToggleRecording()
	e.TakeSnapshot()

	kfs := e.RecordedKeyFrames()
	kfs[0].Positions["team1-0"] = Vec2{X: -1, Y: -1}

	again := e.RecordedKeyFrames()
	if again[0].Positions["team1-0"].X == -1 {
		t.Error("mutating a returned keyframe leaked into the recorded sequence")
	}
}
