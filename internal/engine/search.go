package engine

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"shogi/internal/shogi"
)

const (
	// 一个足够大的值，当成正负无穷
	scoreInf = 1_000_000_000
	// 将死分，减去 ply 让更快的杀更优
	scoreMate = 1_000_000
)

// 搜索配置
type SearchConfig struct {
	MaxDepth  int           // 最大搜索深度（ply）
	TimeLimit time.Duration // 搜索时间上限（0 表示不限制）
}

// 搜索结果
type SearchResult struct {
	BestMove shogi.Move   // 最佳着法（当前位置）
	Score    int          // 评估分（正：先手好，负：后手好）
	WinProb  float32      // 先手胜率
	Depth    int          // 实际搜索到的深度
	Nodes    int64        // 节点数
	TimeUsed time.Duration
	PV       []shogi.Move // 只放根节点的最佳着法
}

func winFor(side shogi.Side) shogi.Result {
	if side == shogi.Black {
		return shogi.ResultBlackWin
	}
	return shogi.ResultWhiteWin
}

// 终局分：先手视角
func terminalScore(pos *shogi.Position, ply int) int {
	switch pos.Result() {
	case shogi.ResultBlackWin:
		return scoreMate - ply
	case shogi.ResultWhiteWin:
		return -(scoreMate - ply)
	}
	return 0
}

// 轮到的一方没有可执行的着（只剩被拒的打歩詰）按负处理
func lossFor(side shogi.Side, ply int) int {
	if side == shogi.Black {
		return -(scoreMate - ply)
	}
	return scoreMate - ply
}

func winProbOf(score int) float32 {
	return float32(1 / (1 + math.Exp(-float64(score)/600)))
}

// Search 迭代加深 + 根节点并行。pos 不会被修改。
func (e *Engine) Search(pos *shogi.Position, cfg SearchConfig) SearchResult {
	start := time.Now()
	atomic.StoreInt64(&e.nodes, 0)
	root := pos.Clone()

	// 一手杀直接返回
	if mv, ok := immediateWin(root); ok {
		score := mateSign(pos.SideToMove()) * scoreMate
		return SearchResult{
			BestMove: mv,
			Score:    score,
			WinProb:  winProbOf(score),
			Depth:    1,
			Nodes:    1,
			TimeUsed: time.Since(start),
			PV:       []shogi.Move{mv},
		}
	}

	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 3
	}
	deadline := time.Time{}
	if cfg.TimeLimit > 0 {
		deadline = start.Add(cfg.TimeLimit)
	}

	var bestMove shogi.Move
	bestScore, bestDepth := 0, 0
	for depth := 1; depth <= cfg.MaxDepth; depth++ {
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}
		score, move := e.alphaBetaRoot(root, depth, deadline)
		if move.IsNone() {
			// 无着可走
			break
		}
		if depth > 1 && !deadline.IsZero() && time.Now().After(deadline) {
			// 超时的这一层不完整，丢弃
			break
		}
		bestMove, bestScore, bestDepth = move, score, depth
		log.Debug().
			Int("depth", depth).
			Int("score", score).
			Str("move", move.String()).
			Int64("nodes", atomic.LoadInt64(&e.nodes)).
			Dur("elapsed", time.Since(start)).
			Msg("search iteration")
	}

	res := SearchResult{
		BestMove: bestMove,
		Score:    bestScore,
		WinProb:  winProbOf(bestScore),
		Depth:    bestDepth,
		Nodes:    atomic.LoadInt64(&e.nodes),
		TimeUsed: time.Since(start),
	}
	if !bestMove.IsNone() {
		res.PV = []shogi.Move{bestMove}
	}
	return res
}

func mateSign(side shogi.Side) int {
	if side == shogi.Black {
		return 1
	}
	return -1
}

// immediateWin 找一步直接结束对局并获胜的着
func immediateWin(pos *shogi.Position) (shogi.Move, bool) {
	side := pos.SideToMove()
	for _, mv := range pos.EnumerateMoves() {
		u, ok := pos.MakeMove(mv)
		if !ok {
			continue
		}
		won := pos.State() == shogi.StateGameover && pos.Result() == winFor(side)
		pos.UnmakeMove(u)
		if won {
			return mv, true
		}
	}
	return shogi.Move{}, false
}

// 根节点：先手取极大、后手取极小；每个子局面各自一个 goroutine
func (e *Engine) alphaBetaRoot(pos *shogi.Position, depth int, deadline time.Time) (int, shogi.Move) {
	moves := pos.EnumerateMoves()
	if len(moves) == 0 {
		return Evaluate(pos), shogi.Move{}
	}
	moves = e.FilterBlunderMoves(pos, moves)
	orderMoves(pos, moves)

	// 根节点用全局 TT 排序：这里还是单线程
	key := pos.Digest()
	if best, ok := e.ttMove(key); ok {
		moveToFront(moves, best)
	}

	// 先同步生成所有子局面，goroutine 之间不共享 Position
	type childNode struct {
		move  shogi.Move
		child *shogi.Position
	}
	children := make([]childNode, 0, len(moves))
	for _, mv := range moves {
		child := pos.Clone()
		if _, ok := child.MakeMove(mv); !ok {
			continue
		}
		children = append(children, childNode{move: mv, child: child})
	}
	if len(children) == 0 {
		return lossFor(pos.SideToMove(), 0), shogi.Move{}
	}

	scores := make([]int, len(children))
	var wg sync.WaitGroup
	for i, ch := range children {
		wg.Add(1)
		go func(i int, child *shogi.Position) {
			defer wg.Done()
			local := newLocalEngine()
			scores[i] = local.alphaBeta(child, depth-1, 1, -scoreInf, scoreInf, deadline)
			atomic.AddInt64(&e.nodes, local.nodes)
		}(i, ch.child)
	}
	wg.Wait()

	maximizing := pos.SideToMove() == shogi.Black
	bestIdx := 0
	for i := 1; i < len(children); i++ {
		if maximizing && scores[i] > scores[bestIdx] || !maximizing && scores[i] < scores[bestIdx] {
			bestIdx = i
		}
	}
	bestMove, bestScore := children[bestIdx].move, scores[bestIdx]

	// 根节点存 TT（全局 tt 只有调用方 goroutine 访问）
	e.storeTT(key, depth, 0, bestScore, boundExact, bestMove)
	return bestScore, bestMove
}

// 内部递归：标准 alpha-beta，在同一个 Position 上 MakeMove / UnmakeMove
func (e *Engine) alphaBeta(pos *shogi.Position, depth, ply, alpha, beta int, deadline time.Time) int {
	e.nodes++

	if pos.State() == shogi.StateGameover {
		return terminalScore(pos, ply)
	}
	if depth <= 0 {
		return Evaluate(pos)
	}
	if !deadline.IsZero() && time.Now().After(deadline) {
		// 超时：返回静态评估，保证尽快退出
		return Evaluate(pos)
	}

	key := pos.Digest()
	if score, ok := e.lookupTT(key, depth, ply, alpha, beta); ok {
		return score
	}
	alphaOrig, betaOrig := alpha, beta

	moves := pos.EnumerateMoves()
	orderMoves(pos, moves)
	if best, ok := e.ttMove(key); ok {
		moveToFront(moves, best)
	}

	side := pos.SideToMove()
	maximizing := side == shogi.Black
	bestScore := scoreInf
	if maximizing {
		bestScore = -scoreInf
	}
	var bestMove shogi.Move
	played := 0
	for _, mv := range moves {
		u, ok := pos.MakeMove(mv)
		if !ok {
			continue
		}
		played++
		score := e.alphaBeta(pos, depth-1, ply+1, alpha, beta, deadline)
		pos.UnmakeMove(u)

		if maximizing {
			if score > bestScore {
				bestScore, bestMove = score, mv
			}
			if score > alpha {
				alpha = score
			}
		} else {
			if score < bestScore {
				bestScore, bestMove = score, mv
			}
			if score < beta {
				beta = score
			}
		}
		if alpha >= beta {
			break
		}
	}
	if played == 0 {
		return lossFor(side, ply)
	}

	b := boundExact
	switch {
	case bestScore <= alphaOrig:
		b = boundUpper
	case bestScore >= betaOrig:
		b = boundLower
	}
	e.storeTT(key, depth, ply, bestScore, b, bestMove)
	return bestScore
}

// 吃子优先（被吃子越值钱越靠前），然后升变，然后普通着，打入最后
func orderMoves(pos *shogi.Position, moves []shogi.Move) {
	for i := range moves {
		moves[i].Score = moveOrderScore(pos, moves[i])
	}
	sort.SliceStable(moves, func(i, j int) bool {
		return moves[i].Score > moves[j].Score
	})
	for i := range moves {
		moves[i].Score = 0
	}
}

func moveOrderScore(pos *shogi.Position, mv shogi.Move) int {
	switch mv.Kind {
	case shogi.MoveBoard:
		s := 0
		if target := pos.PieceAt(mv.To); target != 0 {
			s += 1000 + shogi.BaseValue(target.Type()) - shogi.BaseValue(pos.PieceAt(mv.From).Type())/10
		}
		if mv.Promote {
			s += 300
		}
		return s
	case shogi.MoveDrop:
		return -10
	}
	return 0
}

// 把 mv 挪到最前，其余相对顺序不变
func moveToFront(moves []shogi.Move, mv shogi.Move) {
	for i := range moves {
		if moves[i].Same(mv) {
			copy(moves[1:i+1], moves[:i])
			moves[0] = mv
			return
		}
	}
}
