package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"shogi/internal/config"
	"shogi/internal/engine"
	"shogi/internal/mcts"
	"shogi/internal/shogi"
)

func main() {
	cfg, _, err := config.Discover()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	mode := flag.String("mode", "match", "match | perft | search")
	totalGames := flag.Int("games", 10, "number of games to play")
	parallel := flag.Int("parallel", 2, "games played at the same time")
	abDepth := flag.Int("ab-depth", 2, "alpha-beta search depth")
	mctsSims := flag.Int("mcts-sims", 400, "MCTS simulation count")
	maxPlies := flag.Int("max-plies", 256, "declare a draw after this many plies")
	out := flag.String("out", "", "write per-ply samples to this parquet file")
	perftDepth := flag.Int("perft-depth", 3, "perft / search benchmark depth")
	sfen := flag.String("sfen", "", "perft start position")
	divide := flag.Bool("divide", false, "print perft divide")
	level := flag.String("log", cfg.LogLevel, "log level")
	flag.Parse()

	cfg.LogLevel = *level
	cfg.SetupLogger(nil)

	switch *mode {
	case "perft":
		if err := runPerftBenchmark(*sfen, *perftDepth, *divide); err != nil {
			log.Fatal().Err(err).Msg("perft")
		}
		return
	case "search":
		runSearchBenchmark(*perftDepth, 20)
		return
	case "match":
	default:
		log.Fatal().Str("mode", *mode).Msg("unknown mode")
	}

	params := mcts.DefaultParams()
	params.Simulations = *mctsSims
	params.MaxTime = 0
	params.NumThreads = 1
	playerAB := alphaBetaPlayer(*abDepth, engine.SearchConfig{})
	playerMCTS := mctsPlayer(params)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	outcomes := make([]GameOutcome, *totalGames)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*parallel)
	for i := 0; i < *totalGames; i++ {
		i := i
		black, white := playerAB, playerMCTS
		if i%2 == 1 {
			black, white = playerMCTS, playerAB
		}
		g.Go(func() error {
			log.Info().Msgf("starting game %d of %d: black=%s white=%s", i+1, *totalGames, black.Name, white.Name)
			res, err := playGame(gctx, black, white, *maxPlies)
			if err != nil {
				return err
			}
			outcomes[i] = res
			log.Info().Msgf("completed game %d with result %s (%s) after %d plies", i+1, res.Result, res.Reason, res.Plies)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("self-play aborted")
	}

	wins := map[string]int{}
	draws := 0
	for _, o := range outcomes {
		switch o.Result {
		case shogi.ResultBlackWin:
			wins[o.Black]++
		case shogi.ResultWhiteWin:
			wins[o.White]++
		default:
			draws++
		}
	}
	log.Info().
		Int(playerAB.Name, wins[playerAB.Name]).
		Int(playerMCTS.Name, wins[playerMCTS.Name]).
		Int("draws", draws).
		Msg("final score")

	if *out == "" {
		return
	}
	samples := make(chan Sample, 256)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(samples)
		for _, o := range outcomes {
			for _, s := range o.Samples {
				samples <- s
			}
		}
	}()
	n, err := writeSamples(*out, samples, 4)
	if err != nil {
		// 让生产者退出
		for range samples {
		}
		wg.Wait()
		log.Fatal().Err(err).Msg("write parquet")
	}
	wg.Wait()
	log.Info().Int("samples", n).Str("path", *out).Msg("dataset written")
}
