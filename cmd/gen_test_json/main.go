package main

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"shogi/internal/config"
	"shogi/internal/shogi"
)

// TestCase 一个局面的走法生成期望值，给其它实现做交叉校验
type TestCase struct {
	SFEN       string   `json:"sfen"`
	State      string   `json:"state"`
	InCheck    bool     `json:"in_check"`
	Candidates []string `json:"candidates"`
	Legal      []string `json:"legal"`
	Chosen     string   `json:"chosen"`
	Perft2     int64    `json:"perft2,omitempty"`
}

func tokens(ms []shogi.Move) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.String()
	}
	return out
}

func main() {
	numGames := flag.Int("games", 10, "random games to play")
	maxPlies := flag.Int("plies", 300, "max plies per game")
	seed := flag.Uint64("seed", 1, "random seed")
	withPerft := flag.Bool("perft", false, "record perft(2) for every position (slow)")
	out := flag.String("out", "move_gen_test_data.json", "output file")
	flag.Parse()

	config.Default().SetupLogger(nil)
	rng := rand.New(rand.NewSource(*seed))

	var testCases []TestCase
	for g := 0; g < *numGames; g++ {
		pos := shogi.NewInitialPosition()
		for ply := 0; ply < *maxPlies && pos.State() != shogi.StateGameover; ply++ {
			side := pos.SideToMove()
			tc := TestCase{
				SFEN:       pos.Encode(),
				State:      pos.State().String(),
				InCheck:    pos.InCheck(side),
				Candidates: tokens(pos.GenerateMoves(side)),
				Legal:      tokens(pos.LegalMoves(side)),
			}
			if *withPerft {
				tc.Perft2 = pos.Perft(2)
			}

			// 随机挑一步能走的，打歩詰会被 MakeMove 拒绝
			moves := pos.EnumerateMoves()
			played := false
			for len(moves) > 0 && !played {
				i := rng.Intn(len(moves))
				if _, ok := pos.MakeMove(moves[i]); ok {
					tc.Chosen = moves[i].String()
					played = true
				}
				moves[i] = moves[len(moves)-1]
				moves = moves[:len(moves)-1]
			}
			testCases = append(testCases, tc)
			if !played {
				break
			}
		}
		log.Info().Int("game", g+1).Str("state", pos.State().String()).Str("result", pos.Result().String()).Msg("random game finished")
	}

	data, err := json.MarshalIndent(testCases, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("marshal")
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatal().Err(err).Msg("write")
	}
	log.Info().Int("cases", len(testCases)).Int("games", *numGames).Str("out", *out).Msg("generated")
}
