package engine

import (
	"testing"

	"shogi/internal/shogi"
)

func TestTTMateScoreFollowsLookupPly(t *testing.T) {
	cases := []struct {
		name             string
		stored, storePly int
		hitPly           int
		want             int
	}{
		// 本节点往下两手杀：在 ply 7 命中应是离根 9 手
		{"black mates", scoreMate - 5, 3, 7, scoreMate - 9},
		{"white mates", -(scoreMate - 5), 3, 7, -(scoreMate - 9)},
		{"shallower hit", scoreMate - 10, 6, 1, scoreMate - 5},
		{"plain eval", 350, 3, 7, 350},
		{"negative eval", -1200, 2, 9, -1200},
	}
	for _, tc := range cases {
		e := newLocalEngine()
		const key = 0x5eed
		e.storeTT(key, 4, tc.storePly, tc.stored, boundExact, shogi.Move{})
		got, ok := e.lookupTT(key, 4, tc.hitPly, -scoreInf, scoreInf)
		if !ok {
			t.Fatalf("%s: exact entry not returned", tc.name)
		}
		if got != tc.want {
			t.Fatalf("%s: lookup at ply %d = %d, want %d", tc.name, tc.hitPly, got, tc.want)
		}
	}
}

func TestTTBoundsUseAdjustedScore(t *testing.T) {
	e := newLocalEngine()
	const key = 0xb0b

	// 下界 scoreMate-6 存于 ply 2，到 ply 4 变成 scoreMate-8
	e.storeTT(key, 3, 2, scoreMate-6, boundLower, shogi.Move{})
	if got, ok := e.lookupTT(key, 3, 4, 0, scoreMate-8); !ok || got != scoreMate-8 {
		t.Fatalf("lower bound at beta: got %d, %v", got, ok)
	}
	if _, ok := e.lookupTT(key, 3, 4, 0, scoreMate-7); ok {
		t.Fatal("lower bound below beta must not cut")
	}
	if _, ok := e.lookupTT(key, 4, 4, 0, scoreMate-8); ok {
		t.Fatal("shallower entry must not answer a deeper lookup")
	}

	e.storeTT(key+1, 3, 1, -(scoreMate - 4), boundUpper, shogi.Move{})
	if got, ok := e.lookupTT(key+1, 3, 5, -(scoreMate - 8), 0); !ok || got != -(scoreMate-8) {
		t.Fatalf("upper bound at alpha: got %d, %v", got, ok)
	}
}
