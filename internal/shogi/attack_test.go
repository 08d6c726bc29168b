package shogi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func puzzle(t *testing.T, pieces map[string]Piece) *Position {
	t.Helper()
	pos := NewPuzzlePosition()
	for name, pc := range pieces {
		require.NoError(t, pos.SetPiece(sq(t, name), pc))
	}
	return pos
}

func TestAttacksByPieceKind(t *testing.T) {
	wk := MakePiece(White, PieceKing)
	cases := []struct {
		name     string
		attacker string
		pc       Piece
		target   string
		want     bool
	}{
		{"rook file", "5i", MakePiece(Black, PieceRook), "5a", true},
		{"bishop diagonal", "1a", MakePiece(Black, PieceBishop), "5e", true},
		{"gold forward", "5f", MakePiece(Black, PieceGold), "5e", true},
		{"gold no back diagonal", "4d", MakePiece(Black, PieceGold), "5e", false},
		{"silver forward diagonal", "4f", MakePiece(Black, PieceSilver), "5e", true},
		{"silver not sideways", "4e", MakePiece(Black, PieceSilver), "5e", false},
		{"silver back diagonal", "4d", MakePiece(Black, PieceSilver), "5e", true},
		{"knight jump", "4e", MakePiece(Black, PieceKnight), "5c", true},
		{"knight not backwards", "4a", MakePiece(Black, PieceKnight), "5c", false},
		{"lance slide", "5d", MakePiece(Black, PieceLance), "5a", true},
		{"lance not backwards", "5d", MakePiece(Black, PieceLance), "5f", false},
		{"pawn step", "5f", MakePiece(Black, PiecePawn), "5e", true},
		{"dragon diagonal step", "4d", MakePiece(Black, PieceDragon), "5e", true},
		{"horse orthogonal step", "5d", MakePiece(Black, PieceHorse), "5e", true},
		{"promoted silver sideways", "4e", MakePiece(Black, PieceProSilver), "5e", true},
		{"white pawn steps down", "5h", MakePiece(White, PiecePawn), "5i", true},
		{"white knight", "4e", MakePiece(White, PieceKnight), "5g", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pieces := map[string]Piece{tc.attacker: tc.pc}
			if tc.target != "9i" && tc.attacker != "9i" {
				pieces["9i"] = wk
			}
			pos := puzzle(t, pieces)
			by := tc.pc.Side()
			require.Equal(t, tc.want, pos.Attacks(by, sq(t, tc.target), NoSquare, NoSquare))
		})
	}
}

func TestAttacksRespectBlockers(t *testing.T) {
	pos := puzzle(t, map[string]Piece{
		"5a": MakePiece(White, PieceKing),
		"5e": MakePiece(Black, PiecePawn),
		"5i": MakePiece(Black, PieceRook),
	})
	require.False(t, pos.InCheck(White))
}

func TestAttacksVacateAndFill(t *testing.T) {
	pos := puzzle(t, map[string]Piece{
		"5a": MakePiece(White, PieceKing),
		"5e": MakePiece(Black, PiecePawn),
		"5i": MakePiece(Black, PieceRook),
	})
	king := sq(t, "5a")

	// 挡子腾空后被将
	require.True(t, pos.Attacks(Black, king, sq(t, "5e"), NoSquare))
	// 腾空后又有子挡在中间
	require.False(t, pos.Attacks(Black, king, sq(t, "5e"), sq(t, "5c")))
	// 占位在路线外不影响
	require.True(t, pos.Attacks(Black, king, sq(t, "5e"), sq(t, "4c")))
	// 吃掉攻击子：站在 filled 上的攻击方视为不存在
	require.False(t, pos.Attacks(Black, king, sq(t, "5e"), sq(t, "5i")))
	// 盘面本身不变
	require.False(t, pos.InCheck(White))
	require.Equal(t, MakePiece(Black, PiecePawn), pos.PieceAt(sq(t, "5e")))
}

func TestKingSquareCacheFollowsEdits(t *testing.T) {
	pos := NewPuzzlePosition()
	require.Equal(t, NoSquare, pos.KingSquare(Black))
	require.NoError(t, pos.SetPiece(sq(t, "5i"), MakePiece(Black, PieceKing)))
	require.Equal(t, sq(t, "5i"), pos.KingSquare(Black))
	require.Error(t, pos.SetPiece(sq(t, "4i"), MakePiece(Black, PieceKing)))
	require.NoError(t, pos.ClearSquare(sq(t, "5i")))
	require.Equal(t, NoSquare, pos.KingSquare(Black))
	require.Equal(t, pos.CalculateHash(), pos.Digest())
}
