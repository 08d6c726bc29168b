package main

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"shogi/internal/engine"
	"shogi/internal/shogi"
)

// runPerftBenchmark 走法生成测速，divide 时按首着打印子树大小
func runPerftBenchmark(sfen string, depth int, divide bool) error {
	pos := shogi.NewInitialPosition()
	if sfen != "" {
		var err error
		if pos, err = shogi.DecodePosition(sfen); err != nil {
			return err
		}
	}

	for d := 1; d <= depth; d++ {
		start := time.Now()
		n := pos.Perft(d)
		dur := time.Since(start)
		log.Info().
			Int("depth", d).
			Int64("nodes", n).
			Dur("time", dur).
			Int64("nps", int64(float64(n)/dur.Seconds())).
			Msg("perft")
	}

	if divide {
		counts := pos.PerftDivide(depth)
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			log.Info().Str("move", k).Int64("nodes", counts[k]).Msg("divide")
		}
	}
	return nil
}

// runSearchBenchmark 从初始局面起，按固定深度搜 plies 手，统计 NPS
func runSearchBenchmark(depth, plies int) {
	e := engine.NewEngine()
	pos := shogi.NewInitialPosition()
	var nodes int64
	start := time.Now()

	for i := 0; i < plies; i++ {
		res := e.Search(pos, engine.SearchConfig{MaxDepth: depth})
		nodes += res.Nodes
		if res.BestMove.IsNone() {
			log.Info().Msg("game over")
			break
		}
		log.Info().
			Int("ply", i+1).
			Str("side", pos.SideToMove().String()).
			Str("best", res.BestMove.String()).
			Int("score", res.Score).
			Int64("nodes", res.Nodes).
			Dur("time", res.TimeUsed).
			Send()
		if _, ok := pos.MakeMove(res.BestMove); !ok {
			log.Fatal().Str("move", res.BestMove.String()).Msg("failed to apply move")
		}
	}

	dur := time.Since(start)
	log.Info().Int64("nodes", nodes).Dur("time", dur).Int64("nps", int64(float64(nodes)/dur.Seconds())).Msg("search benchmark finished")
}
