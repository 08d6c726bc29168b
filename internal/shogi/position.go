package shogi

import "fmt"

// 各手驹数量上限
var maxHand = [numHand]int{
	PiecePawn:   18,
	PieceLance:  4,
	PieceKnight: 4,
	PieceSilver: 4,
	PieceGold:   4,
	PieceBishop: 2,
	PieceRook:   2,
}

// 一副棋里每种棋子的总枚数，成驹按原形计，盘上与双方手驹合计不能超出
var pieceSupply = [NumPieceTypes]int{
	PiecePawn:   18,
	PieceLance:  4,
	PieceKnight: 4,
	PieceSilver: 4,
	PieceGold:   4,
	PieceBishop: 2,
	PieceRook:   2,
	PieceKing:   2,
}

// Position = 棋盘 + 手驹 + 轮到谁 + 状态机。
// 所有改动棋盘的路径都走 put/lift，保证王位缓存、占位集合、哈希同步。
type Position struct {
	squares    [NumSquares]Piece
	hands      [2][numHand]int8
	sideToMove Side
	state      GameState
	drawBase   GameState // 仅 StateDrawOffered 时有效：提和前的状态
	result     Result
	reason     Reason

	kingSq [2]int
	occ    [2]squareSet
	hash   uint64

	moveCount int
	reps      map[uint64]int
	history   []historyEntry
	undo      []UndoRecord
}

func newBlankPosition() *Position {
	p := &Position{
		sideToMove: Black,
		state:      StatePuzzle,
		kingSq:     [2]int{NoSquare, NoSquare},
		reps:       make(map[uint64]int),
	}
	p.hash = p.CalculateHash()
	return p
}

// NewPuzzlePosition 空棋盘，处于摆子状态
func NewPuzzlePosition() *Position {
	return newBlankPosition()
}

func NewInitialPosition() *Position {
	pos, err := DecodePosition(initialSFEN)
	if err != nil {
		panic("shogi: bad initial SFEN: " + err.Error())
	}
	return pos
}

func (p *Position) PieceAt(sq int) Piece {
	if sq < 0 || sq >= NumSquares {
		return 0
	}
	return p.squares[sq]
}

func (p *Position) Hand(side Side, pt PieceType) int {
	if pt < handFirst || pt > handLast {
		return 0
	}
	return int(p.hands[side][pt])
}

func (p *Position) SideToMove() Side      { return p.sideToMove }
func (p *Position) State() GameState      { return p.state }
func (p *Position) Result() Result        { return p.result }
func (p *Position) Reason() Reason        { return p.reason }
func (p *Position) MoveCount() int        { return p.moveCount }
func (p *Position) KingSquare(s Side) int { return p.kingSq[s] }

// PieceCount 某方盘上子数
func (p *Position) PieceCount(side Side) int { return p.occ[side].count() }

// ---- 增量维护 ----

func (p *Position) put(sq int, pc Piece) {
	side := pc.Side()
	p.squares[sq] = pc
	p.occ[side].add(sq)
	if pc.Type() == PieceKing {
		p.kingSq[side] = sq
	}
	p.hash ^= pieceKey(pc, sq)
}

func (p *Position) lift(sq int) Piece {
	pc := p.squares[sq]
	if pc == 0 {
		return 0
	}
	side := pc.Side()
	p.squares[sq] = 0
	p.occ[side].remove(sq)
	if pc.Type() == PieceKing && p.kingSq[side] == sq {
		p.kingSq[side] = NoSquare
	}
	p.hash ^= pieceKey(pc, sq)
	return pc
}

func (p *Position) addHand(side Side, pt PieceType, delta int) {
	old := int(p.hands[side][pt])
	n := old + delta
	if n < 0 || n > maxHand[pt] {
		panic(fmt.Sprintf("shogi: hand %v/%d out of range: %d", side, pt, n))
	}
	p.hash ^= handKey(side, pt, old)
	p.hands[side][pt] = int8(n)
	p.hash ^= handKey(side, pt, n)
}

func (p *Position) setStatus(turn Side, state GameState, drawBase GameState) {
	p.hash ^= p.statusKey()
	p.sideToMove = turn
	p.state = state
	p.drawBase = drawBase
	p.hash ^= p.statusKey()
}

func (p *Position) setState(state GameState) {
	p.setStatus(p.sideToMove, state, p.drawBase)
}

// Clone 深拷贝，搜索线程各用各的
func (p *Position) Clone() *Position {
	np := *p
	np.reps = make(map[uint64]int, len(p.reps))
	for k, v := range p.reps {
		np.reps[k] = v
	}
	np.history = append([]historyEntry(nil), p.history...)
	np.undo = append([]UndoRecord(nil), p.undo...)
	return &np
}

// ---- 摆子（仅 StatePuzzle） ----

func (p *Position) SetPiece(sq int, pc Piece) error {
	if p.state != StatePuzzle {
		return ErrWrongState
	}
	if sq < 0 || sq >= NumSquares || pc == 0 {
		return ErrInvalidPosition
	}
	if pc.Type() == PieceKing && p.kingSq[pc.Side()] != NoSquare && p.kingSq[pc.Side()] != sq {
		return fmt.Errorf("%w: second %v king", ErrInvalidPosition, pc.Side())
	}
	base := DemotedForm(pc.Type())
	used := p.supplyUsed(base)
	if old := p.squares[sq]; old != 0 && DemotedForm(old.Type()) == base {
		used--
	}
	if used+1 > pieceSupply[base] {
		return fmt.Errorf("%w: too many %c", ErrInvalidPosition, pieceTypeLetter[base])
	}
	p.lift(sq)
	p.put(sq, pc)
	return nil
}

func (p *Position) ClearSquare(sq int) error {
	if p.state != StatePuzzle {
		return ErrWrongState
	}
	if sq < 0 || sq >= NumSquares {
		return ErrInvalidPosition
	}
	p.lift(sq)
	return nil
}

func (p *Position) SetHand(side Side, pt PieceType, n int) error {
	if p.state != StatePuzzle {
		return ErrWrongState
	}
	if side != Black && side != White || pt < handFirst || pt > handLast || n < 0 || n > maxHand[pt] {
		return ErrInvalidPosition
	}
	if p.supplyUsed(pt)-int(p.hands[side][pt])+n > pieceSupply[pt] {
		return fmt.Errorf("%w: too many %c", ErrInvalidPosition, pieceTypeLetter[pt])
	}
	p.addHand(side, pt, n-int(p.hands[side][pt]))
	return nil
}

func (p *Position) SetSideToMove(side Side) error {
	if p.state != StatePuzzle {
		return ErrWrongState
	}
	if side != Black && side != White {
		return ErrInvalidPosition
	}
	p.setStatus(side, p.state, p.drawBase)
	return nil
}

// StartPlay 校验摆好的局面并进入对局
func (p *Position) StartPlay() error {
	if p.state != StatePuzzle {
		return ErrWrongState
	}
	if err := p.validate(); err != nil {
		return err
	}
	p.result, p.reason = ResultNone, ReasonNone
	p.undo = p.undo[:0]
	p.history = p.history[:0]
	p.reps = make(map[uint64]int)

	side := p.sideToMove
	switch {
	case !p.HasLegalMove(side):
		p.setState(StateGameover)
		p.result = winFor(opposite(side))
		if p.InCheck(side) {
			p.reason = ReasonCheckmate
		} else {
			p.reason = ReasonNoMoves
		}
	case p.InCheck(side):
		p.setState(StateCheck)
	default:
		p.setState(StatePlay)
	}
	p.recordStart()
	return nil
}

// BackToPuzzle 回到摆子状态，丢弃对局历史
func (p *Position) BackToPuzzle() {
	p.result, p.reason = ResultNone, ReasonNone
	p.undo = p.undo[:0]
	p.history = p.history[:0]
	p.reps = make(map[uint64]int)
	p.setStatus(p.sideToMove, StatePuzzle, StatePuzzle)
}

func (p *Position) validate() error {
	var kings [2]int
	for sq, pc := range p.squares {
		if pc == 0 {
			continue
		}
		pt := pc.Type()
		if pt == PieceKing {
			kings[pc.Side()]++
		}
		if deadRow(pc.Side(), pt, rowOf(sq)) {
			return fmt.Errorf("%w: %s cannot move from %s", ErrInvalidPosition, pieceToken(pc), SquareName(sq))
		}
	}
	if kings[Black] > 1 || kings[White] > 1 {
		return fmt.Errorf("%w: more than one king", ErrInvalidPosition)
	}
	// 超出枚数的局面走到吃子时手驹会溢出
	for pt := handFirst; pt <= handLast; pt++ {
		if p.supplyUsed(pt) > pieceSupply[pt] {
			return fmt.Errorf("%w: too many %c", ErrInvalidPosition, pieceTypeLetter[pt])
		}
	}
	for _, side := range []Side{Black, White} {
		for c := 0; c < Cols; c++ {
			if p.pawnsOnCol(side, c) > 1 {
				return fmt.Errorf("%w: two pawns on file %d", ErrInvalidPosition, Cols-c)
			}
		}
	}
	if p.InCheck(opposite(p.sideToMove)) {
		return fmt.Errorf("%w: side not to move is in check", ErrInvalidPosition)
	}
	return nil
}

// supplyUsed 盘上（成驹按原形）加双方手驹中 base 的枚数
func (p *Position) supplyUsed(base PieceType) int {
	n := 0
	for _, pc := range p.squares {
		if pc != 0 && DemotedForm(pc.Type()) == base {
			n++
		}
	}
	if base >= handFirst && base <= handLast {
		n += int(p.hands[Black][base]) + int(p.hands[White][base])
	}
	return n
}

func (p *Position) pawnsOnCol(side Side, col int) int {
	n := 0
	want := makePiece(side, PiecePawn)
	for r := 0; r < Rows; r++ {
		if p.squares[indexOf(r, col)] == want {
			n++
		}
	}
	return n
}
