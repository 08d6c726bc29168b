package shogi

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, sfen string) *Position {
	t.Helper()
	pos, err := DecodePosition(sfen)
	require.NoError(t, err, "decode %q", sfen)
	return pos
}

func mustParse(t *testing.T, tok string) Move {
	t.Helper()
	m, err := ParseMove(tok)
	require.NoError(t, err, "parse %q", tok)
	return m
}

// play 依次走子并确认
func play(t *testing.T, pos *Position, tokens ...string) {
	t.Helper()
	for _, tok := range tokens {
		_, ok := pos.MakeMove(mustParse(t, tok))
		require.True(t, ok, "move %s rejected in\n%s", tok, pos)
	}
}

func tokens(moves []Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	sort.Strings(out)
	return out
}

func movesFrom(moves []Move, from int) []string {
	var out []string
	for _, m := range moves {
		if m.Kind == MoveBoard && m.From == from {
			out = append(out, m.String())
		}
	}
	sort.Strings(out)
	return out
}

func sq(t *testing.T, name string) int {
	t.Helper()
	s, err := ParseSquare(name)
	require.NoError(t, err)
	return s
}

var positionCmp = []cmp.Option{
	cmp.AllowUnexported(Position{}, squareSet{}, historyEntry{}),
	cmpopts.EquateEmpty(),
}

func requireSamePosition(t *testing.T, want, got *Position) {
	t.Helper()
	if diff := cmp.Diff(want, got, positionCmp...); diff != "" {
		t.Fatalf("position mismatch (-want +got):\n%s", diff)
	}
}
