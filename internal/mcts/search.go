package mcts

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/exp/rand"

	"shogi/internal/engine"
	"shogi/internal/shogi"
)

type Searcher struct {
	params SearchParams
}

func NewSearcher(params SearchParams) *Searcher {
	def := DefaultParams()
	if params.NumThreads <= 0 {
		params.NumThreads = 1
	}
	if params.Simulations <= 0 && params.MaxTime <= 0 {
		params.Simulations = def.Simulations
	}
	if params.RolloutDepth <= 0 {
		params.RolloutDepth = def.RolloutDepth
	}
	if params.EvalScale <= 0 {
		params.EvalScale = def.EvalScale
	}
	if params.CpuctExplorationBase <= 0 {
		params.CpuctExplorationBase = def.CpuctExplorationBase
	}
	return &Searcher{params: params}
}

// Search 每个线程在自己的 Clone 上走子，树共享。pos 不会被修改。
func (s *Searcher) Search(pos *shogi.Position) *engine.SearchResult {
	start := time.Now()
	root := NewNode(shogi.Move{}, nil, pos.SideToMove())
	if st := pos.State(); st != shogi.StatePlay && st != shogi.StateCheck {
		return &engine.SearchResult{TimeUsed: time.Since(start)}
	}

	var started int64
	var wg sync.WaitGroup
	for t := 0; t < s.params.NumThreads; t++ {
		wg.Add(1)
		go func(threadIdx int) {
			defer wg.Done()
			work := pos.Clone()
			rng := rand.New(rand.NewSource(s.params.Seed + uint64(threadIdx)*0x9E3779B97F4A7C15))
			for {
				if s.params.Simulations > 0 && atomic.AddInt64(&started, 1) > int64(s.params.Simulations) {
					break
				}
				if s.params.MaxTime > 0 && time.Since(start) > s.params.MaxTime {
					break
				}
				s.playout(root, work, rng)
			}
		}(t)
	}
	wg.Wait()

	// 选择访问量最大的走法，平局取展开顺序靠前的
	bestMove := shogi.Move{}
	maxVisits := int64(-1)
	for _, mv := range root.Order {
		if v := root.Children[mv].visits(); v > maxVisits {
			maxVisits = v
			bestMove = mv
		}
	}

	blackWinProb := (root.GetUtilityForSelection(shogi.Black) + 1.0) / 2.0
	res := &engine.SearchResult{
		BestMove: bestMove,
		Score:    int((blackWinProb*2.0 - 1.0) * 10000),
		WinProb:  float32(blackWinProb),
		Nodes:    root.visits(),
		TimeUsed: time.Since(start),
	}
	if !bestMove.IsNone() {
		res.PV = []shogi.Move{bestMove}
	}
	return res
}

func (s *Searcher) playout(root *MCTSNode, work *shogi.Position, rng *rand.Rand) {
	node := root
	path := []*MCTSNode{root}
	var undos []shogi.Undo

	// Selection
	for atomic.LoadInt32(&node.State) == StateExpanded && !node.IsTerminal {
		next := s.selectChild(node)
		if next == nil {
			break
		}
		u, ok := work.MakeMove(next.Move)
		if !ok {
			// 子节点都来自可执行的着，不应出现
			break
		}
		undos = append(undos, u)
		atomic.AddInt32(&next.VirtualLosses, 1)
		node = next
		path = append(path, node)
	}

	// Expansion & Evaluation，utility 为先手视角
	var utility float64
	if atomic.LoadInt32(&node.State) != StateExpanded {
		s.expandNode(node, work)
	}
	if atomic.LoadInt32(&node.State) == StateExpanded && node.IsTerminal {
		utility = terminalUtility(node.Result)
	} else {
		utility = s.rollout(work, rng)
	}

	// Backpropagation
	for i := len(path) - 1; i >= 0; i-- {
		n := path[i]
		n.RecordPlayout(utility, 1.0)
		if i > 0 {
			atomic.AddInt32(&n.VirtualLosses, -1)
		}
	}
	for i := len(undos) - 1; i >= 0; i-- {
		work.UnmakeMove(undos[i])
	}
}

// selectChild 先挑没人访问过的子节点，其余按 PUCT
func (s *Searcher) selectChild(node *MCTSNode) *MCTSNode {
	node.mu.Lock()
	totalWeight := node.Stats.WeightSum
	node.mu.Unlock()

	cpuct := s.params.GetCpuct(totalWeight)
	fpuValue := node.GetUtilityForSelection(node.NextPla) - s.params.FpuReductionMax

	var bestChild *MCTSNode
	maxSelectionValue := -1e20
	for _, mv := range node.Order {
		child := node.Children[mv]
		visits := float64(child.visits())
		vLoss := float64(atomic.LoadInt32(&child.VirtualLosses))
		if visits == 0 && vLoss == 0 {
			return child
		}

		childUtility := fpuValue
		if visits > 0 {
			childUtility = child.GetUtilityForSelection(node.NextPla)
			if vLoss > 0 {
				// 正在被其它线程探索的节点按输棋压低
				f := vLoss / (vLoss + visits)
				childUtility = childUtility*(1-f) - f
			}
		}

		prior := float64(node.PriorMap[mv])
		exploreValue := cpuct * prior * math.Sqrt(totalWeight+1.0) / (1.0 + visits + vLoss)
		if v := childUtility + exploreValue; v > maxSelectionValue {
			maxSelectionValue = v
			bestChild = child
		}
	}
	return bestChild
}

func (s *Searcher) expandNode(node *MCTSNode, pos *shogi.Position) {
	// Unevaluated -> Evaluating -> Expanded，只有一个线程负责展开
	if !atomic.CompareAndSwapInt32(&node.State, StateUnevaluated, StateEvaluating) {
		return
	}

	node.mu.Lock()
	defer node.mu.Unlock()
	defer atomic.StoreInt32(&node.State, StateExpanded)

	if pos.State() == shogi.StateGameover {
		node.IsTerminal = true
		node.Result = pos.Result()
		return
	}

	side := pos.SideToMove()
	var moves []shogi.Move
	for _, mv := range pos.EnumerateMoves() {
		u, ok := pos.MakeMove(mv)
		if !ok {
			continue
		}
		pos.UnmakeMove(u)
		moves = append(moves, mv)
	}
	if len(moves) == 0 {
		// 只剩被拒的打歩詰：无着可走判负
		node.IsTerminal = true
		node.Result = shogi.ResultBlackWin
		if side == shogi.Black {
			node.Result = shogi.ResultWhiteWin
		}
		return
	}

	node.PriorMap = make(map[shogi.Move]float32, len(moves))
	total := float32(0)
	for _, mv := range moves {
		p := movePrior(pos, mv)
		node.PriorMap[mv] = p
		total += p
	}
	for mv := range node.PriorMap {
		node.PriorMap[mv] /= total
	}

	next := side.Opponent()
	node.Order = moves
	for _, mv := range moves {
		node.Children[mv] = NewNode(mv, node, next)
	}
}

// 先验：吃子、升变权重更高
func movePrior(pos *shogi.Position, mv shogi.Move) float32 {
	p := float32(1)
	if mv.Kind == shogi.MoveBoard {
		if pos.PieceAt(mv.To) != 0 {
			p += 2
		}
		if mv.Promote {
			p += 1
		}
	}
	return p
}

// rollout 随机走到终局或步数上限；上限时用静态评估压到 [-1,1]
func (s *Searcher) rollout(pos *shogi.Position, rng *rand.Rand) float64 {
	var undos []shogi.Undo
	defer func() {
		for i := len(undos) - 1; i >= 0; i-- {
			pos.UnmakeMove(undos[i])
		}
	}()

	for ply := 0; ply < s.params.RolloutDepth; ply++ {
		if pos.State() == shogi.StateGameover {
			return terminalUtility(pos.Result())
		}
		moves := pos.EnumerateMoves()
		played := false
		for len(moves) > 0 {
			i := rng.Intn(len(moves))
			u, ok := pos.MakeMove(moves[i])
			if ok {
				undos = append(undos, u)
				played = true
				break
			}
			moves[i] = moves[len(moves)-1]
			moves = moves[:len(moves)-1]
		}
		if !played {
			if pos.SideToMove() == shogi.Black {
				return -1.0
			}
			return 1.0
		}
	}
	if pos.State() == shogi.StateGameover {
		return terminalUtility(pos.Result())
	}
	return math.Tanh(float64(engine.Evaluate(pos)) / s.params.EvalScale)
}
