package main

import (
	"flag"
	"fmt"
	"os"

	"shogi/internal/shogi"
)

func main() {
	sfen := flag.String("sfen", "", "position to inspect (default: initial position)")
	depth := flag.Int("perft", 2, "perft depth")
	flag.Parse()

	pos := shogi.NewInitialPosition()
	if *sfen != "" {
		var err error
		if pos, err = shogi.DecodePosition(*sfen); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	fmt.Println(pos)
	fmt.Println("SFEN:", pos.Encode())
	fmt.Println("State:", pos.State(), "InCheck:", pos.InCheck(pos.SideToMove()))
	fmt.Println("Candidate moves:", len(pos.GenerateMoves(pos.SideToMove())))
	fmt.Println("Legal moves:", len(pos.LegalMoves(pos.SideToMove())))
	for d := 1; d <= *depth; d++ {
		fmt.Printf("perft(%d) = %d\n", d, pos.Perft(d))
	}
}
