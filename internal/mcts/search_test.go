package mcts

import (
	"testing"

	"github.com/stretchr/testify/require"

	"shogi/internal/shogi"
)

func testParams(sims, threads int) SearchParams {
	p := DefaultParams()
	p.Simulations = sims
	p.NumThreads = threads
	p.MaxTime = 0
	p.RolloutDepth = 8
	return p
}

func TestSearchFindsMateInOne(t *testing.T) {
	pos, err := shogi.DecodePosition("4k4/9/4P4/9/9/9/9/9/4K4 b G 1")
	require.NoError(t, err)

	res := NewSearcher(testParams(400, 1)).Search(pos)
	require.Equal(t, "G*5b", res.BestMove.String())
	require.Greater(t, res.WinProb, float32(0.5))
	require.Equal(t, 0, pos.UndoDepth())
}

func TestSearchCountsSimulations(t *testing.T) {
	pos := shogi.NewInitialPosition()
	before := pos.Encode()

	res := NewSearcher(testParams(64, 4)).Search(pos)
	require.Equal(t, int64(64), res.Nodes)
	require.False(t, res.BestMove.IsNone())
	require.Equal(t, before, pos.Encode())

	_, ok := pos.Clone().MakeMove(res.BestMove)
	require.True(t, ok)
}

func TestSearchFinishedGame(t *testing.T) {
	pos, err := shogi.DecodePosition("8k/6G2/7G1/9/9/9/9/9/4K4 w - 1")
	require.NoError(t, err)
	res := NewSearcher(testParams(10, 1)).Search(pos)
	require.True(t, res.BestMove.IsNone())
	require.Empty(t, res.PV)
}

func TestRecordPlayoutAverages(t *testing.T) {
	n := NewNode(shogi.Move{}, nil, shogi.White)
	n.RecordPlayout(1, 1)
	n.RecordPlayout(-1, 1)
	n.RecordPlayout(1, 1)
	require.InDelta(t, 1.0/3.0, n.Stats.UtilityAvg, 1e-9)
	require.InDelta(t, -1.0/3.0, n.GetUtilityForSelection(shogi.White), 1e-9)
	require.Equal(t, int64(3), n.visits())
}

func TestExpandSkipsRejectedPawnDropMate(t *testing.T) {
	pos, err := shogi.DecodePosition("8k/6S2/7G1/9/9/9/9/9/4K4 b P 1")
	require.NoError(t, err)
	s := NewSearcher(testParams(1, 1))
	node := NewNode(shogi.Move{}, nil, pos.SideToMove())
	s.expandNode(node, pos)
	require.Equal(t, int32(StateExpanded), node.State)
	require.NotEmpty(t, node.Order)
	for _, mv := range node.Order {
		require.NotEqual(t, "P*1b", mv.String())
	}
	var sum float32
	for _, p := range node.PriorMap {
		sum += p
	}
	require.InDelta(t, 1.0, sum, 1e-4)
}
