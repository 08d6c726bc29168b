package shogi

import (
	"fmt"
	"strings"
)

// USI 记法：7g7f / 7g7f+ / P*5e，特殊着用单词
var specialTokens = map[MoveKind]string{
	MoveResign:      "resign",
	MoveOfferDraw:   "draw",
	MoveAcceptDraw:  "accept",
	MoveDeclineDraw: "decline",
	MoveCommit:      "commit",
}

// SquareName 例如 7g（7 筋 g 段）
func SquareName(sq int) string {
	if sq < 0 || sq >= NumSquares {
		return "--"
	}
	return fmt.Sprintf("%d%c", FileOf(sq), 'a'+rowOf(sq))
}

func ParseSquare(s string) (int, error) {
	if len(s) != 2 || s[0] < '1' || s[0] > '9' || s[1] < 'a' || s[1] > 'i' {
		return NoSquare, fmt.Errorf("%w: square %q", ErrInvalidToken, s)
	}
	return SquareOf(int(s[0]-'0'), int(s[1]-'a')+1), nil
}

func (m Move) String() string {
	switch m.Kind {
	case MoveNone:
		return "none"
	case MoveBoard:
		s := SquareName(m.From) + SquareName(m.To)
		if m.Promote {
			s += "+"
		}
		return s
	case MoveDrop:
		if m.Drop < handFirst || m.Drop > handLast {
			return "?*" + SquareName(m.To)
		}
		return string(pieceTypeLetter[m.Drop]) + "*" + SquareName(m.To)
	default:
		return specialTokens[m.Kind]
	}
}

// ParseMove 与 Move.String 互逆
func ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	for kind, tok := range specialTokens {
		if s == tok {
			return Move{Kind: kind, From: NoSquare, To: NoSquare}, nil
		}
	}
	if len(s) == 4 && s[1] == '*' {
		pt, ok := letterToPieceType[rune(s[0]|0x20)]
		if !ok || s[0] < 'A' || s[0] > 'Z' || pt == PieceKing {
			return Move{}, fmt.Errorf("%w: drop piece in %q", ErrInvalidToken, s)
		}
		to, err := ParseSquare(s[2:])
		if err != nil {
			return Move{}, err
		}
		return NewDropMove(pt, to), nil
	}
	if len(s) != 4 && !(len(s) == 5 && s[4] == '+') {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidToken, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, err
	}
	if from == to {
		return Move{}, fmt.Errorf("%w: null move %q", ErrInvalidToken, s)
	}
	return NewBoardMove(from, to, len(s) == 5), nil
}

// ParsePieceLetter 手驹字母（大小写均可）
func ParsePieceLetter(s string) (PieceType, error) {
	if len(s) != 1 {
		return PieceNone, fmt.Errorf("%w: piece %q", ErrInvalidToken, s)
	}
	pt, ok := letterToPieceType[rune(s[0]|0x20)]
	if !ok {
		return PieceNone, fmt.Errorf("%w: piece %q", ErrInvalidToken, s)
	}
	return pt, nil
}
