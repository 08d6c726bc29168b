package mcts

import (
	"math"
	"time"
)

// SearchParams UCT 搜索参数
type SearchParams struct {
	Simulations int
	MaxTime     time.Duration
	NumThreads  int

	CpuctExploration     float64
	CpuctExplorationBase float64
	CpuctExplorationLog  float64

	FpuReductionMax float64

	// 随机走子的最大步数，超过后用静态评估打分
	RolloutDepth int
	// 静态评估分到 [-1,1] 的缩放
	EvalScale float64

	Seed uint64
}

func DefaultParams() SearchParams {
	return SearchParams{
		Simulations:          800,
		MaxTime:              5 * time.Second,
		NumThreads:           4,
		CpuctExploration:     1.1,
		CpuctExplorationBase: 10000.0,
		CpuctExplorationLog:  0.4,
		FpuReductionMax:      0.2,
		RolloutDepth:         24,
		EvalScale:            800,
		Seed:                 1,
	}
}

func (p *SearchParams) GetCpuct(totalChildWeight float64) float64 {
	return p.CpuctExploration + p.CpuctExplorationLog*math.Log((totalChildWeight+p.CpuctExplorationBase)/p.CpuctExplorationBase)
}
