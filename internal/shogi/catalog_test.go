package shogi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPromotionIsBijectionOnPromotableKinds(t *testing.T) {
	promotable := []PieceType{PiecePawn, PieceLance, PieceKnight, PieceSilver, PieceBishop, PieceRook}
	seen := map[PieceType]bool{}
	for _, pt := range promotable {
		pp, ok := PromotedForm(pt)
		require.True(t, ok, "%d should promote", pt)
		require.True(t, pp.IsPromoted())
		require.False(t, seen[pp], "promoted form %d used twice", pp)
		seen[pp] = true
		require.Equal(t, pt, DemotedForm(pp))
		require.Equal(t, pt, DemotedForm(pt))
	}
	for _, pt := range []PieceType{PieceGold, PieceKing, PieceProPawn, PieceHorse, PieceDragon} {
		_, ok := PromotedForm(pt)
		require.False(t, ok, "%d must not promote", pt)
	}
}

func TestUnknownKindPanics(t *testing.T) {
	require.Panics(t, func() { BaseValue(PieceNone) })
	require.Panics(t, func() { Movement(NumPieceTypes) })
}

func TestWhiteMovementIsRotated(t *testing.T) {
	for pt := PiecePawn; pt < NumPieceTypes; pt++ {
		b := OrientedMovement(Black, pt)
		w := OrientedMovement(White, pt)
		require.Len(t, w, len(b))
		for i := range b {
			require.Equal(t, -b[i].Dr, w[i].Dr)
			require.Equal(t, -b[i].Dc, w[i].Dc)
			require.Equal(t, b[i].Slide, w[i].Slide)
		}
	}
	// 歩 只向前
	require.Equal(t, []Vector{{Dr: 1, Dc: 0}}, OrientedMovement(White, PiecePawn))
}

func TestDeadRows(t *testing.T) {
	require.True(t, deadRow(Black, PiecePawn, 0))
	require.False(t, deadRow(Black, PiecePawn, 1))
	require.True(t, deadRow(Black, PieceKnight, 1))
	require.False(t, deadRow(Black, PieceKnight, 2))
	require.True(t, deadRow(White, PieceLance, 8))
	require.True(t, deadRow(White, PieceKnight, 7))
	require.False(t, deadRow(White, PieceSilver, 8))
}
