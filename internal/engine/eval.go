package engine

import (
	"shogi/internal/shogi"
)

const (
	tempoBonus       = 10
	guardBonus       = 18 // 王周围每个金银
	castleBonus      = 20 // 王留在自家两段以内
	handKindBonus    = 8  // 手驹种类越多越灵活
	advanceUnitPawn  = 4
	advanceUnitMinor = 3
)

// Evaluate 先手视角：正数先手好，负数后手好。
// 子力（含手驹）来自 ScoreForPlayer，再加位置项。
func Evaluate(pos *shogi.Position) int {
	score := pos.ScoreForPlayer(shogi.Black)
	score += positional(pos, shogi.Black) - positional(pos, shogi.White)

	switch pos.SideToMove() {
	case shogi.Black:
		score += tempoBonus
	case shogi.White:
		score -= tempoBonus
	}
	return score
}

// 位置分，从 side 自己的视角
func positional(pos *shogi.Position, side shogi.Side) int {
	bonus := 0
	king := pos.KingSquare(side)
	for sq := 0; sq < shogi.NumSquares; sq++ {
		pc := pos.PieceAt(sq)
		if pc == 0 || pc.Side() != side {
			continue
		}
		adv := advance(side, sq)
		switch pc.Type() {
		case shogi.PiecePawn:
			bonus += adv * advanceUnitPawn
		case shogi.PieceSilver, shogi.PieceKnight, shogi.PieceLance:
			bonus += adv * advanceUnitMinor
		case shogi.PieceKing:
			if adv <= 1 {
				bonus += castleBonus
			}
		}
		if king != shogi.NoSquare && isGuard(pc.Type()) && adjacent(king, sq) {
			bonus += guardBonus
		}
	}
	for pt := shogi.PiecePawn; pt <= shogi.PieceRook; pt++ {
		if pos.Hand(side, pt) > 0 {
			bonus += handKindBonus
		}
	}
	return bonus
}

// 0 = 自家底线，8 = 对方底线
func advance(side shogi.Side, sq int) int {
	if side == shogi.Black {
		return shogi.Rows - shogi.RankOf(sq)
	}
	return shogi.RankOf(sq) - 1
}

func isGuard(pt shogi.PieceType) bool {
	switch pt {
	case shogi.PieceGold, shogi.PieceSilver, shogi.PieceProSilver, shogi.PieceProPawn:
		return true
	}
	return false
}

func adjacent(a, b int) bool {
	df := abs(shogi.FileOf(a) - shogi.FileOf(b))
	dr := abs(shogi.RankOf(a) - shogi.RankOf(b))
	return a != b && df <= 1 && dr <= 1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
