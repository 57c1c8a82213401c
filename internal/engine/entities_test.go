package engine

import "testing"

func TestPlayerIDRoundTrip(t *testing.T) {
	cases := []PlayerID{
		{Team: 1, Index: 0},
		{Team: 1, Index: 19},
		{Team: 2, Index: 7},
	}
	for _, id := range cases {
		parsed, ok := ParsePlayerID(id.String())
		if !ok {
			t.Errorf("ParsePlayerID(%q) rejected its own encoding", id.String())
			continue
		}
		if parsed != id {
			t.Errorf("ParsePlayerID(%q) = %+v, want %+v", id.String(), parsed, id)
		}
	}
}

func TestParsePlayerIDRejectsGarbage(t *testing.T) {
	bad := []string{
		"",
		"team1",       // no index
		"team3-0",     // unknown team
		"team1--1",    // negative index
		"teamx-2",     // non-numeric team
		"team1-abc",   // non-numeric index
		"player1-0",   // wrong prefix
	}
	for _, s := range bad {
		if _, ok := ParsePlayerID(s); ok {
			t.Errorf("ParsePlayerID(%q) accepted invalid key", s)
		}
	}
}
