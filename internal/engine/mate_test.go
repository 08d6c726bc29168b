package engine

import (
	"testing"

	"shogi/internal/shogi"
)

func decode(t *testing.T, sfen string) *shogi.Position {
	t.Helper()
	pos, err := shogi.DecodePosition(sfen)
	if err != nil {
		t.Fatalf("decode %q: %v", sfen, err)
	}
	return pos
}

func TestMateSearch(t *testing.T) {
	engine := NewEngine()

	t.Run("GoldDropMateInOne", func(t *testing.T) {
		pos := decode(t, "4k4/9/4P4/9/9/9/9/9/4K4 b G 1")
		res := engine.MateSearch(pos, 5)
		if !res.Found {
			t.Fatalf("mate in one not found")
		}
		if got := res.Move.String(); got != "G*5b" {
			t.Fatalf("mate move = %s, want G*5b", got)
		}
		if res.Depth != 1 {
			t.Fatalf("mate depth = %d, want 1", res.Depth)
		}
		if pos.State() != shogi.StatePlay || pos.UndoDepth() != 0 {
			t.Fatalf("search mutated the position")
		}
	})

	t.Run("PawnDropMateIsNotAMate", func(t *testing.T) {
		pos := decode(t, "8k/6S2/7G1/9/9/9/9/9/4K4 b P 1")
		res := engine.MateSearch(pos, 1)
		if res.Found {
			t.Fatalf("pawn-drop mate must be rejected, got %s", res.Move)
		}
	})

	t.Run("NoMateFromInitial", func(t *testing.T) {
		res := engine.MateSearch(shogi.NewInitialPosition(), 3)
		if res.Found {
			t.Fatalf("unexpected mate %s from the initial position", res.Move)
		}
	})

	t.Run("GameoverPosition", func(t *testing.T) {
		pos := decode(t, "8k/6G2/7G1/9/9/9/9/9/4K4 w - 1")
		if res := engine.MateSearch(pos, 3); res.Found {
			t.Fatalf("finished game cannot have a mate")
		}
	})
}
