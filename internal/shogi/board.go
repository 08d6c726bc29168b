package shogi

import (
	"math/bits"
	"strings"
)

const (
	Rows       = 9
	Cols       = 9
	NumSquares = Rows * Cols

	NoSquare = -1

	zoneDepth = 3 // 敌阵三段
)

func indexOf(row, col int) int { return row*Cols + col }
func rowOf(sq int) int         { return sq / Cols }
func colOf(sq int) int         { return sq % Cols }

func onBoard(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}

// SquareOf 筋(1..9) 段(1..9) → 格子下标；越界返回 NoSquare
func SquareOf(file, rank int) int {
	if file < 1 || file > 9 || rank < 1 || rank > 9 {
		return NoSquare
	}
	return indexOf(rank-1, Cols-file)
}

func FileOf(sq int) int { return Cols - colOf(sq) }
func RankOf(sq int) int { return rowOf(sq) + 1 }

func opposite(side Side) Side {
	if side == Black {
		return White
	}
	if side == White {
		return Black
	}
	return NoSide
}

func (s Side) Opponent() Side { return opposite(s) }

// 距对方底线的行数：0 = 对方底线
func relRow(side Side, row int) int {
	if side == Black {
		return row
	}
	return Rows - 1 - row
}

func inZone(side Side, row int) bool { return relRow(side, row) < zoneDepth }

// squareSet 81 格位集，按下标从小到大遍历，顺序与历史无关
type squareSet struct {
	lo, hi uint64
}

func (s *squareSet) add(sq int) {
	if sq < 64 {
		s.lo |= 1 << uint(sq)
	} else {
		s.hi |= 1 << uint(sq-64)
	}
}

func (s *squareSet) remove(sq int) {
	if sq < 64 {
		s.lo &^= 1 << uint(sq)
	} else {
		s.hi &^= 1 << uint(sq-64)
	}
}

func (s squareSet) count() int { return bits.OnesCount64(s.lo) + bits.OnesCount64(s.hi) }

func (s squareSet) forEach(fn func(sq int) bool) bool {
	for lo := s.lo; lo != 0; lo &= lo - 1 {
		if !fn(bits.TrailingZeros64(lo)) {
			return false
		}
	}
	for hi := s.hi; hi != 0; hi &= hi - 1 {
		if !fn(64 + bits.TrailingZeros64(hi)) {
			return false
		}
	}
	return true
}

var letterToPieceType = map[rune]PieceType{
	'p': PiecePawn,
	'l': PieceLance,
	'n': PieceKnight,
	's': PieceSilver,
	'g': PieceGold,
	'b': PieceBishop,
	'r': PieceRook,
	'k': PieceKing,
}

var pieceTypeLetter = [NumPieceTypes]byte{
	PiecePawn:   'P',
	PieceLance:  'L',
	PieceKnight: 'N',
	PieceSilver: 'S',
	PieceGold:   'G',
	PieceBishop: 'B',
	PieceRook:   'R',
	PieceKing:   'K',
}

// pieceToken SFEN 写法：大写先手，小写后手，成驹前缀 '+'
func pieceToken(p Piece) string {
	if p == 0 {
		return "."
	}
	pt := p.Type()
	letter := pieceTypeLetter[DemotedForm(pt)]
	if p.Side() == White {
		letter += 'a' - 'A'
	}
	if pt.IsPromoted() {
		return "+" + string(letter)
	}
	return string(letter)
}

const initialSFEN = "lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL b - 1"

// String 调试用棋盘
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("  9  8  7  6  5  4  3  2  1\n")
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			tok := pieceToken(p.squares[indexOf(r, c)])
			if len(tok) == 1 {
				tok = " " + tok
			}
			sb.WriteString(" ")
			sb.WriteString(tok)
		}
		sb.WriteString(" ")
		sb.WriteByte(byte('a' + r))
		sb.WriteByte('\n')
	}
	sb.WriteString("hands: ")
	sb.WriteString(p.encodeHands())
	sb.WriteString(" turn: ")
	sb.WriteString(p.sideToMove.String())
	sb.WriteString(" state: ")
	sb.WriteString(p.state.String())
	return sb.String()
}
