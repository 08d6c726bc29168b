package shogi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMoveTokensRoundTrip(t *testing.T) {
	for _, tok := range []string{"7g7f", "8h2b+", "P*5e", "R*1a", "resign", "draw", "accept", "decline", "commit"} {
		m, err := ParseMove(tok)
		require.NoError(t, err, tok)
		require.Equal(t, tok, m.String())
	}
}

func TestParseMoveFields(t *testing.T) {
	m := mustParse(t, "7g7f")
	require.Equal(t, MoveBoard, m.Kind)
	require.Equal(t, SquareOf(7, 7), m.From)
	require.Equal(t, SquareOf(7, 6), m.To)
	require.False(t, m.Promote)

	d := mustParse(t, "S*4b")
	require.Equal(t, MoveDrop, d.Kind)
	require.Equal(t, PieceSilver, d.Drop)
	require.Equal(t, NoSquare, d.From)

	require.True(t, mustParse(t, "commit").Same(Commit))
}

func TestParseMoveRejects(t *testing.T) {
	for _, tok := range []string{"", "7g", "7g7g", "0a1a", "7j7f", "K*5e", "p*5e", "7g7f=", "7g7f++", "hello"} {
		_, err := ParseMove(tok)
		require.ErrorIs(t, err, ErrInvalidToken, "%q", tok)
	}
}

func TestSquareNames(t *testing.T) {
	require.Equal(t, "9a", SquareName(0))
	require.Equal(t, "1i", SquareName(NumSquares-1))
	require.Equal(t, "--", SquareName(NoSquare))
	for s := 0; s < NumSquares; s++ {
		back, err := ParseSquare(SquareName(s))
		require.NoError(t, err)
		require.Equal(t, s, back)
		require.Equal(t, s, SquareOf(FileOf(s), RankOf(s)))
	}
}
