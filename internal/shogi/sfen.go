package shogi

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var handOrder = []PieceType{PieceRook, PieceBishop, PieceGold, PieceSilver, PieceKnight, PieceLance, PiecePawn}

// Encode SFEN：盘面 / 轮次 / 手驹 / 手数
func (p *Position) Encode() string {
	var sb strings.Builder
	for r := 0; r < Rows; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for c := 0; c < Cols; c++ {
			pc := p.squares[indexOf(r, c)]
			if pc == 0 {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteString(pieceToken(pc))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
	sb.WriteByte(' ')
	if p.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')
	sb.WriteString(p.encodeHands())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.moveCount + 1))
	return sb.String()
}

func (p *Position) encodeHands() string {
	var sb strings.Builder
	for _, side := range []Side{Black, White} {
		for _, pt := range handOrder {
			n := p.hands[side][pt]
			if n == 0 {
				continue
			}
			if n > 1 {
				sb.WriteString(strconv.Itoa(int(n)))
			}
			letter := pieceTypeLetter[pt]
			if side == White {
				letter += 'a' - 'A'
			}
			sb.WriteByte(letter)
		}
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

// DecodePosition 解析 SFEN 并进入对局状态；手数字段可省略
func DecodePosition(sfen string) (*Position, error) {
	parts := strings.Fields(sfen)
	if len(parts) < 3 {
		return nil, ErrInvalidSFEN
	}
	p := newBlankPosition()
	if err := p.decodeBoard(parts[0]); err != nil {
		return nil, err
	}
	switch parts[1] {
	case "b":
	case "w":
		p.setStatus(White, p.state, p.drawBase)
	default:
		return nil, fmt.Errorf("%w: side %q", ErrInvalidSFEN, parts[1])
	}
	if err := p.decodeHands(parts[2]); err != nil {
		return nil, err
	}
	if err := p.StartPlay(); err != nil {
		return nil, err
	}
	if len(parts) >= 4 {
		n, err := strconv.Atoi(parts[3])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: move number %q", ErrInvalidSFEN, parts[3])
		}
		p.moveCount = n - 1
	}
	return p, nil
}

func (p *Position) decodeBoard(s string) error {
	rows := strings.Split(s, "/")
	if len(rows) != Rows {
		return fmt.Errorf("%w: %d ranks", ErrInvalidSFEN, len(rows))
	}
	for r, row := range rows {
		c := 0
		promoted := false
		for _, ch := range row {
			if c >= Cols {
				return fmt.Errorf("%w: rank %d too long", ErrInvalidSFEN, r+1)
			}
			switch {
			case ch == '+':
				if promoted {
					return ErrInvalidSFEN
				}
				promoted = true
				continue
			case ch >= '1' && ch <= '9':
				if promoted {
					return ErrInvalidSFEN
				}
				c += int(ch - '0')
				continue
			}
			pt, ok := letterToPieceType[unicode.ToLower(ch)]
			if !ok {
				return fmt.Errorf("%w: piece %q", ErrInvalidSFEN, ch)
			}
			if promoted {
				pp, can := PromotedForm(pt)
				if !can {
					return fmt.Errorf("%w: +%c cannot promote", ErrInvalidSFEN, ch)
				}
				pt = pp
				promoted = false
			}
			side := White
			if unicode.IsUpper(ch) {
				side = Black
			}
			if err := p.SetPiece(indexOf(r, c), makePiece(side, pt)); err != nil {
				return err
			}
			c++
		}
		if c != Cols || promoted {
			return fmt.Errorf("%w: rank %d width", ErrInvalidSFEN, r+1)
		}
	}
	return nil
}

func (p *Position) decodeHands(s string) error {
	if s == "-" {
		return nil
	}
	n := 0
	for _, ch := range s {
		if ch >= '0' && ch <= '9' {
			n = n*10 + int(ch-'0')
			continue
		}
		pt, ok := letterToPieceType[unicode.ToLower(ch)]
		if !ok || pt == PieceKing {
			return fmt.Errorf("%w: hand piece %q", ErrInvalidSFEN, ch)
		}
		if n == 0 {
			n = 1
		}
		side := White
		if unicode.IsUpper(ch) {
			side = Black
		}
		count := p.Hand(side, pt) + n
		if count > maxHand[pt] {
			return fmt.Errorf("%w: hand %q", ErrInvalidSFEN, s)
		}
		// 枚数超出一副棋属于局面错误
		if err := p.SetHand(side, pt, count); err != nil {
			return err
		}
		n = 0
	}
	if n != 0 {
		return fmt.Errorf("%w: dangling count in %q", ErrInvalidSFEN, s)
	}
	return nil
}
