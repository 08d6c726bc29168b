package shogi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeInitial(t *testing.T) {
	require.Equal(t, initialSFEN, NewInitialPosition().Encode())
}

func TestEncodeAfterCaptures(t *testing.T) {
	pos := NewInitialPosition()
	play(t, pos, "7g7f", "3c3d", "8h2b+", "3a2b")
	const want = "lnsgkg1nl/1r5s1/pppppp1pp/6p2/9/2P6/PP1PPPPPP/7R1/LNSGKGSNL b Bb 5"
	require.Equal(t, want, pos.Encode())

	back := mustDecode(t, want)
	require.Equal(t, want, back.Encode())
	require.Equal(t, pos.Digest(), back.Digest())
	require.Equal(t, pos.MoveCount(), back.MoveCount())
}

func TestDecodeHands(t *testing.T) {
	pos := mustDecode(t, "4k4/9/9/9/9/9/9/9/4K4 w R2G10Pbs3p 30")
	require.Equal(t, White, pos.SideToMove())
	require.Equal(t, 1, pos.Hand(Black, PieceRook))
	require.Equal(t, 2, pos.Hand(Black, PieceGold))
	require.Equal(t, 10, pos.Hand(Black, PiecePawn))
	require.Equal(t, 1, pos.Hand(White, PieceBishop))
	require.Equal(t, 1, pos.Hand(White, PieceSilver))
	require.Equal(t, 3, pos.Hand(White, PiecePawn))
	require.Equal(t, 29, pos.MoveCount())
	require.Equal(t, "4k4/9/9/9/9/9/9/9/4K4 w R2G10Pbs3p 30", pos.Encode())
}

func TestDecodePromotedPieces(t *testing.T) {
	pos := mustDecode(t, "4k4/9/9/9/9/9/9/+R+b+p6/4K4 b - 1")
	require.Equal(t, MakePiece(Black, PieceDragon), pos.PieceAt(sq(t, "9h")))
	require.Equal(t, MakePiece(White, PieceHorse), pos.PieceAt(sq(t, "8h")))
	require.Equal(t, MakePiece(White, PieceProPawn), pos.PieceAt(sq(t, "7h")))
}

func TestDecodeRejects(t *testing.T) {
	cases := []struct {
		sfen string
		want error
	}{
		{"", ErrInvalidSFEN},
		{"4k4/9/9 b - 1", ErrInvalidSFEN},
		{"4k4/9/9/9/9/9/9/9/4K4 x - 1", ErrInvalidSFEN},
		{"4k4/9/9/9/9/9/9/9/4K5 b - 1", ErrInvalidSFEN},
		{"4k4/9/9/9/9/9/9/9/4K4 b K 1", ErrInvalidSFEN},
		{"4k4/9/9/9/9/9/9/9/4K4 b 2 1", ErrInvalidSFEN},
		{"4k4/9/9/9/9/9/9/9/4K4 b - 0", ErrInvalidSFEN},
		{"4k4/9/9/9/9/9/9/9/+G3K4 b - 1", ErrInvalidSFEN},
		{"4k4/9/9/9/9/9/9/9/4K4 b 19P 1", ErrInvalidSFEN},
		{"4k4/9/9/9/9/9/4P4/4P4/4K4 b - 1", ErrInvalidPosition},
		{"4P4/9/9/9/9/9/9/9/k3K4 b - 1", ErrInvalidPosition},
		{"4k4/9/9/9/9/9/9/9/3KK4 b - 1", ErrInvalidPosition},
		{"4k4/4R4/9/9/9/9/9/9/4K4 b - 1", ErrInvalidPosition},
		// 盘上加手驹超过一副棋的枚数
		{"4k4/9/9/9/4p4/4K4/9/9/9 b 18P 1", ErrInvalidPosition},
		{"4k4/9/9/9/4p4/4K4/9/9/9 b 9P9p 1", ErrInvalidPosition},
		{"4k4/9/9/9/4g4/4K4/9/9/9 b 4G 1", ErrInvalidPosition},
		{"4k4/9/9/9/4+r4/4K4/9/9/9 b R1r 1", ErrInvalidPosition},
		{"1+b2k4/9/9/9/4B4/4K4/9/9/9 b B 1", ErrInvalidPosition},
	}
	for _, tc := range cases {
		pos, err := DecodePosition(tc.sfen)
		if !errors.Is(err, tc.want) {
			t.Fatalf("DecodePosition(%q) error = %v, want %v", tc.sfen, err, tc.want)
		}
		if pos != nil {
			t.Fatalf("DecodePosition(%q) returned a position alongside %v", tc.sfen, err)
		}
	}
}

func TestDecodeAcceptsFullSupply(t *testing.T) {
	for _, sfen := range []string{
		"4k4/9/9/9/4p4/4K4/9/9/9 b 17P 1",
		"4k4/9/9/9/4g4/4K4/9/9/9 b 3G 1",
		"4k4/9/9/9/4+r4/4K4/9/9/9 b r 1",
	} {
		if _, err := DecodePosition(sfen); err != nil {
			t.Fatalf("DecodePosition(%q): %v", sfen, err)
		}
	}
}

func TestDecodeWithoutMoveNumber(t *testing.T) {
	pos := mustDecode(t, "4k4/9/9/9/9/9/9/9/4K4 b -")
	require.Equal(t, 0, pos.MoveCount())
	require.Equal(t, StatePlay, pos.State())
}
