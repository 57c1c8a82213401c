package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// PlayerID is the composite identity of a token: team plus spawn index.
// The wire encoding "team{n}-{index}" is what stored keyframes key their
// position maps with, so both directions must stay stable.
type PlayerID struct {
	Team  int `json:"team"`
	Index int `json:"index"`
}

func (id PlayerID) String() string {
	return fmt.Sprintf("team%d-%d", id.Team, id.Index)
}

// ParsePlayerID decodes a stored "team{n}-{index}" key. Returns false for
// anything that does not match the encoding.
func ParsePlayerID(s string) (PlayerID, bool) {
	rest, ok := strings.CutPrefix(s, "team")
	if !ok {
		return PlayerID{}, false
	}
	teamStr, idxStr, ok := strings.Cut(rest, "-")
	if !ok {
		return PlayerID{}, false
	}
	team, err := strconv.Atoi(teamStr)
	if err != nil || (team != 1 && team != 2) {
		return PlayerID{}, false
	}
	idx, err := strconv.Atoi(idxStr)
	if err != nil || idx < 0 {
		return PlayerID{}, false
	}
	return PlayerID{Team: team, Index: idx}, true
}

// Player is an on-field token. Number is a 1-based display label that can be
// edited independently of identity and is not guaranteed unique.
type Player struct {
	ID       PlayerID `json:"-"`
	Key      string   `json:"id"`
	Team     int      `json:"team"`
	Number   int      `json:"number"`
	Position Vec2     `json:"position"`
}

// BallState is the ball's serialized form. PossessedBy is the holder's wire
// key, or empty when the ball is loose. While a player holds the ball its
// rendered position equals the holder's position.
type BallState struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	PossessedBy string  `json:"possessed_by,omitempty"`
}

// PlayerPath is the raw pointer trail of one drag gesture: a pending
// movement intent. The player stays at Start until a snapshot commits End.
type PlayerPath struct {
	Start Vec2   `json:"start"`
	End   Vec2   `json:"end"`
	Trail []Vec2 `json:"trail"`
}

// KeyFrame is a timestamped full snapshot of all player positions and ball
// state. Immutable once appended; append order is playback order.
type KeyFrame struct {
	Timestamp  int64           `json:"timestamp"`
	Positions  map[string]Vec2 `json:"positions"`
	Ball       BallState       `json:"ball"`
	TouchCount int             `json:"touch_count"`
}

// clonePositions deep-copies a keyframe position map.
func clonePositions(m map[string]Vec2) map[string]Vec2 {
	out := make(map[string]Vec2, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
