package engine

import (
	"sort"

	"shogi/internal/shogi"
)

const (
	mateDepthCap         = 15
	mateDefaultDepth     = 7
	mateNodeBudgetBase   = 32000
	mateNodeBudgetPerPly = 8000
)

const (
	mateModeAttack uint64 = 0xA5A5A5A5A5A5A5A5
	mateModeDefend uint64 = 0x5A5A5A5A5A5A5A5A
)

type mateTTEntry struct {
	Depth  int
	Result bool
	Move   shogi.Move // 最佳着，用于排序
}

type mateContext struct {
	tt         map[uint64]mateTTEntry
	inPath     map[uint64]bool
	nodes      int
	nodeBudget int
}

// MateResult 诘将搜索结果
type MateResult struct {
	Found bool
	Move  shogi.Move
	Depth int // 找到杀时的深度（ply，奇数）
	Nodes int
}

// MateSearch 只走将军着的连将杀搜索（詰将棋）。maxDepth 按 ply 计，pos 不会被修改。
func (e *Engine) MateSearch(pos *shogi.Position, maxDepth int) MateResult {
	if maxDepth <= 0 {
		maxDepth = mateDefaultDepth
	}
	if maxDepth > mateDepthCap {
		maxDepth = mateDepthCap
	}
	work := pos.Clone()
	if st := work.State(); st != shogi.StatePlay && st != shogi.StateCheck {
		return MateResult{}
	}

	ctx := &mateContext{
		tt:         make(map[uint64]mateTTEntry, 1<<16),
		inPath:     make(map[uint64]bool, 1<<10),
		nodeBudget: mateNodeBudgetBase + maxDepth*mateNodeBudgetPerPly,
	}

	// 迭代加深：1、3、5… 层，找到最短杀即返回
	for d := 1; d <= maxDepth; d += 2 {
		if found, mv := ctx.attack(work, d, true); found {
			return MateResult{Found: true, Move: mv, Depth: d, Nodes: ctx.nodes}
		}
		if ctx.nodes > ctx.nodeBudget {
			break
		}
	}
	return MateResult{Nodes: ctx.nodes}
}

// scoreMateMoves 启发式：吃子、升变、近王的打入优先；TT 着最高
func (ctx *mateContext) scoreMateMoves(pos *shogi.Position, moves []shogi.Move) {
	key := pos.Digest() ^ mateModeAttack
	ttMove := shogi.Move{}
	if entry, ok := ctx.tt[key]; ok {
		ttMove = entry.Move
	}
	enemyKing := pos.KingSquare(pos.SideToMove().Opponent())

	for i := range moves {
		mv := &moves[i]
		mv.Score = 0
		if !ttMove.IsNone() && mv.Same(ttMove) {
			mv.Score = 1000
			continue
		}
		switch mv.Kind {
		case shogi.MoveBoard:
			if target := pos.PieceAt(mv.To); target != 0 {
				mv.Score += 100 + int(target.Type())
			}
			if mv.Promote {
				mv.Score += 50
			}
		case shogi.MoveDrop:
			mv.Score += 30 + int(mv.Drop)
		}
		if enemyKing != shogi.NoSquare && adjacent(enemyKing, mv.To) {
			mv.Score += 80
		}
	}
	sort.SliceStable(moves, func(i, j int) bool {
		return moves[i].Score > moves[j].Score
	})
	for i := range moves {
		moves[i].Score = 0
	}
}

// attack 攻方每一步都必须将军；root 时不查 TT，保证返回着法
func (ctx *mateContext) attack(pos *shogi.Position, depth int, root bool) (bool, shogi.Move) {
	if depth <= 0 {
		return false, shogi.Move{}
	}
	if ctx.reachNodeBudget() {
		return false, shogi.Move{}
	}
	key := pos.Digest() ^ mateModeAttack
	if ctx.inPath[key] {
		return false, shogi.Move{}
	}
	if entry, ok := ctx.tt[key]; ok && entry.Depth >= depth && !root {
		return entry.Result, entry.Move
	}
	ctx.inPath[key] = true
	defer delete(ctx.inPath, key)

	attacker := pos.SideToMove()
	moves := pos.EnumerateMoves()
	ctx.scoreMateMoves(pos, moves)

	result := false
	var bestMove shogi.Move
	for _, mv := range moves {
		u, ok := pos.MakeMove(mv)
		if !ok {
			continue
		}
		mated := pos.State() == shogi.StateGameover && pos.Result() == winFor(attacker) && pos.Reason() == shogi.ReasonCheckmate
		checking := pos.State() == shogi.StateCheck
		escaped := true
		if !mated && checking {
			escaped = ctx.defend(pos, depth-1)
		}
		pos.UnmakeMove(u)
		if mated || (checking && !escaped) {
			result, bestMove = true, mv
			break
		}
	}
	ctx.tt[key] = mateTTEntry{Depth: depth, Result: result, Move: bestMove}
	return result, bestMove
}

// defend 守方只要有一步不被连将杀就算逃脱
func (ctx *mateContext) defend(pos *shogi.Position, depth int) bool {
	if depth <= 0 {
		return true
	}
	if ctx.reachNodeBudget() {
		return true
	}
	key := pos.Digest() ^ mateModeDefend
	if ctx.inPath[key] {
		return true
	}
	if entry, ok := ctx.tt[key]; ok && entry.Depth >= depth {
		return entry.Result
	}
	ctx.inPath[key] = true
	defer delete(ctx.inPath, key)

	defender := pos.SideToMove()
	result := false
	var bestMove shogi.Move
	for _, mv := range pos.EnumerateMoves() {
		u, ok := pos.MakeMove(mv)
		if !ok {
			continue
		}
		escaped := false
		switch {
		case pos.State() == shogi.StateGameover:
			// 连续将军造成千日手，攻方判负
			escaped = pos.Result() != winFor(defender.Opponent())
		default:
			found, _ := ctx.attack(pos, depth-1, false)
			escaped = !found
		}
		pos.UnmakeMove(u)
		if escaped {
			result, bestMove = true, mv
			break
		}
	}
	ctx.tt[key] = mateTTEntry{Depth: depth, Result: result, Move: bestMove}
	return result
}

func (ctx *mateContext) reachNodeBudget() bool {
	ctx.nodes++
	return ctx.nodes > ctx.nodeBudget
}
