package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"shogi/internal/engine"
	"shogi/internal/mcts"
	"shogi/internal/shogi"
)

// Player 对局一方。alpha-beta 的 Engine 不能并发，每局各建一个。
type Player struct {
	Name     string
	newMover func() mover
}

type mover func(pos *shogi.Position) engine.SearchResult

func alphaBetaPlayer(depth int, cfg engine.SearchConfig) Player {
	cfg.MaxDepth = depth
	p := Player{Name: fmt.Sprintf("alpha-beta(d%d)", depth)}
	p.newMover = func() mover {
		e := engine.NewEngine()
		return func(pos *shogi.Position) engine.SearchResult { return e.Search(pos, cfg) }
	}
	return p
}

func mctsPlayer(params mcts.SearchParams) Player {
	p := Player{Name: fmt.Sprintf("mcts(%d)", params.Simulations)}
	p.newMover = func() mover {
		s := mcts.NewSearcher(params)
		return func(pos *shogi.Position) engine.SearchResult { return *s.Search(pos) }
	}
	return p
}

// GameOutcome 一局的结果以及逐手样本
type GameOutcome struct {
	ID      string
	Black   string
	White   string
	Result  shogi.Result
	Reason  string
	Plies   int
	Samples []Sample
}

func playGame(ctx context.Context, black, white Player, maxPlies int) (GameOutcome, error) {
	out := GameOutcome{ID: uuid.NewString(), Black: black.Name, White: white.Name}
	movers := [2]mover{black.newMover(), white.newMover()}
	pos := shogi.NewInitialPosition()

	for ply := 0; ply < maxPlies; ply++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if pos.State() == shogi.StateGameover {
			break
		}

		side := pos.SideToMove()
		sfen := pos.Encode()
		res := movers[side](pos)
		if res.BestMove.IsNone() {
			// 只剩被拒的打歩詰：轮到的一方负
			out.Result = shogi.ResultBlackWin
			if side == shogi.Black {
				out.Result = shogi.ResultWhiteWin
			}
			out.Reason = shogi.ReasonNoMoves.String()
			out.Plies = ply
			out.label()
			return out, nil
		}
		if _, ok := pos.MakeMove(res.BestMove); !ok {
			return out, fmt.Errorf("game %s ply %d: engine chose unplayable move %s", out.ID, ply+1, res.BestMove)
		}

		out.Samples = append(out.Samples, Sample{
			GameID:  out.ID,
			Ply:     int32(ply + 1),
			SFEN:    sfen,
			Move:    res.BestMove.String(),
			Player:  [2]string{black.Name, white.Name}[side],
			Score:   int32(clampScore(res.Score)),
			WinProb: res.WinProb,
		})
		log.Debug().Str("game", out.ID).Int("ply", ply+1).Str("move", res.BestMove.String()).Int("score", res.Score).Send()
	}

	out.Plies = len(out.Samples)
	out.Result = pos.Result()
	out.Reason = pos.Reason().String()
	if pos.State() != shogi.StateGameover {
		out.Result = shogi.ResultDraw
		out.Reason = "max_plies"
	}
	out.label()
	return out, nil
}

// label 把终局结果写回每个样本
func (g *GameOutcome) label() {
	for i := range g.Samples {
		g.Samples[i].Result = g.Result.String()
		g.Samples[i].Reason = g.Reason
	}
}

func clampScore(s int) int {
	const limit = 1 << 30
	if s > limit {
		return limit
	}
	if s < -limit {
		return -limit
	}
	return s
}
