package mcts

import (
	"sync"

	"shogi/internal/shogi"
)

const (
	StateUnevaluated = iota
	StateEvaluating
	StateExpanded
)

type NodeStats struct {
	Visits     int64
	WeightSum  float64
	UtilityAvg float64 // 先手视角：1 先手胜，-1 后手胜
}

type MCTSNode struct {
	mu sync.Mutex

	Move     shogi.Move
	NextPla  shogi.Side // 该节点轮到谁走
	Parent   *MCTSNode
	Children map[shogi.Move]*MCTSNode
	Order    []shogi.Move // 展开顺序，选择时按此遍历保证确定性
	PriorMap map[shogi.Move]float32
	State    int32 // 原子访问

	Stats         NodeStats
	VirtualLosses int32 // 原子访问

	IsTerminal bool
	Result     shogi.Result
}

func NewNode(mv shogi.Move, parent *MCTSNode, pla shogi.Side) *MCTSNode {
	return &MCTSNode{
		Move:     mv,
		Parent:   parent,
		NextPla:  pla,
		Children: make(map[shogi.Move]*MCTSNode),
		State:    StateUnevaluated,
	}
}

func (n *MCTSNode) RecordPlayout(utility float64, weight float64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.Stats.Visits++
	n.Stats.WeightSum += weight
	delta := utility - n.Stats.UtilityAvg
	n.Stats.UtilityAvg += delta * weight / n.Stats.WeightSum
}

// GetUtilityForSelection 从 pla 的视角看该节点的平均收益
func (n *MCTSNode) GetUtilityForSelection(pla shogi.Side) float64 {
	n.mu.Lock()
	avg := n.Stats.UtilityAvg
	n.mu.Unlock()
	if pla == shogi.Black {
		return avg
	}
	return -avg
}

func (n *MCTSNode) visits() int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.Stats.Visits
}

func terminalUtility(r shogi.Result) float64 {
	switch r {
	case shogi.ResultBlackWin:
		return 1.0
	case shogi.ResultWhiteWin:
		return -1.0
	}
	return 0.0
}
