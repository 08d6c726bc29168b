package shogi

// UndoRecord Apply 时压栈，记录无法从盘面反推的信息。只能按 LIFO 顺序交给 Unapply。
type UndoRecord struct {
	Move          Move
	Moved         Piece // 走子前的棋子（可能未成）
	Captured      Piece
	PrevTurn      Side
	PrevState     GameState
	PrevDrawBase  GameState
	PrevKing      int
	PrevResult    Result
	PrevReason    Reason
	PrevMoveCount int
	RepKey        uint64 // Commit 记入重复表的哈希
	Recorded      bool
	Depth         int // 压栈位置
}

func (p *Position) newRecord(m Move) UndoRecord {
	return UndoRecord{
		Move:          m,
		PrevTurn:      p.sideToMove,
		PrevState:     p.state,
		PrevDrawBase:  p.drawBase,
		PrevKing:      p.kingSq[p.sideToMove],
		PrevResult:    p.result,
		PrevReason:    p.reason,
		PrevMoveCount: p.moveCount,
		Depth:         len(p.undo),
	}
}

func (p *Position) reject(m Move, err error) (UndoRecord, error) {
	return UndoRecord{}, &MoveError{Err: err, Ply: p.moveCount + 1, Move: m, State: p.state}
}

// Apply 执行一步（含 Commit / 认输 / 提和应答），返回撤销记录。
//
// 盘上走子和打入必须在候选集合里（见 GenerateMoves），否则返回 *MoveError，
// 其中 Err 为 ErrNotCandidate；当前状态不接受这类指令时 Err 为 ErrWrongState。
// 出错时局面不变，返回的 UndoRecord 为零值，不能交给 Unapply。
//
// 走子后进入 Confirm / ConfirmCheck / IllegalMove，手番不变，Commit 之后才换手。
// IllegalMove 只能用 Unapply 退回。成功返回的记录必须按后进先出的顺序 Unapply，
// 乱序会 panic。
func (p *Position) Apply(m Move) (UndoRecord, error) {
	m.Score = 0
	switch p.state {
	case StatePuzzle, StateIllegalMove, StateGameover:
		return p.reject(m, ErrWrongState)

	case StatePlay, StateCheck:
		switch m.Kind {
		case MoveBoard, MoveDrop:
			if !p.isCandidate(m) {
				return p.reject(m, ErrNotCandidate)
			}
			rec := p.newRecord(m)
			if m.Kind == MoveBoard {
				p.applyBoard(&rec)
			} else {
				p.applyDrop(&rec)
			}
			return p.push(rec), nil
		case MoveResign:
			return p.push(p.resign(m)), nil
		case MoveOfferDraw:
			rec := p.newRecord(m)
			p.setStatus(p.sideToMove, StateDrawOffered, p.state)
			return p.push(rec), nil
		default:
			return p.reject(m, ErrWrongState)
		}

	case StateConfirm, StateConfirmCheck:
		switch m.Kind {
		case MoveCommit:
			rec := p.newRecord(m)
			p.commit(&rec)
			return p.push(rec), nil
		case MoveResign:
			return p.push(p.resign(m)), nil
		default:
			return p.reject(m, ErrWrongState)
		}

	case StateDrawOffered:
		switch m.Kind {
		case MoveAcceptDraw:
			rec := p.newRecord(m)
			p.setState(StateGameover)
			p.result, p.reason = ResultDraw, ReasonDrawAgreed
			return p.push(rec), nil
		case MoveDeclineDraw:
			rec := p.newRecord(m)
			p.setState(p.drawBase)
			return p.push(rec), nil
		case MoveResign:
			return p.push(p.resign(m)), nil
		default:
			return p.reject(m, ErrWrongState)
		}

	default:
		panic("shogi: unknown game state")
	}
}

func (p *Position) push(rec UndoRecord) UndoRecord {
	p.undo = append(p.undo, rec)
	return rec
}

func (p *Position) resign(m Move) UndoRecord {
	rec := p.newRecord(m)
	p.setState(StateGameover)
	p.result, p.reason = winFor(opposite(p.sideToMove)), ReasonResign
	return rec
}

func (p *Position) applyBoard(rec *UndoRecord) {
	m := rec.Move
	side := p.sideToMove
	pc := p.lift(m.From)
	rec.Moved = pc
	captured := p.lift(m.To)
	rec.Captured = captured
	if captured != 0 {
		p.addHand(side, DemotedForm(captured.Type()), 1)
	}
	pt := pc.Type()
	if m.Promote {
		pt = promoteTo[pt]
	}
	p.put(m.To, makePiece(side, pt))
	p.classifyAfterMove(side)
}

func (p *Position) applyDrop(rec *UndoRecord) {
	m := rec.Move
	side := p.sideToMove
	p.addHand(side, m.Drop, -1)
	p.put(m.To, makePiece(side, m.Drop))
	p.classifyAfterMove(side)
}

// 走完以后：自己被将 = 违规；将到对方 = ConfirmCheck
func (p *Position) classifyAfterMove(mover Side) {
	switch {
	case p.InCheck(mover):
		p.setState(StateIllegalMove)
	case p.InCheck(opposite(mover)):
		p.setState(StateConfirmCheck)
	default:
		p.setState(StateConfirm)
	}
}

func (p *Position) commit(rec *UndoRecord) {
	mover := p.sideToMove
	opp := opposite(mover)
	givesCheck := p.state == StateConfirmCheck

	// 打歩詰：生成时不过滤，确认时发现对方无解即判违规
	if givesCheck && len(p.undo) > 0 {
		last := p.undo[len(p.undo)-1].Move
		if last.Kind == MoveDrop && last.Drop == PiecePawn && !p.HasLegalMove(opp) {
			p.setState(StateIllegalMove)
			return
		}
	}

	p.moveCount++
	next := StatePlay
	if givesCheck {
		next = StateCheck
	}
	p.setStatus(opp, next, p.drawBase)

	key := p.hash
	rec.RepKey, rec.Recorded = key, true
	p.recordPosition(key, mover, givesCheck)

	if !p.HasLegalMove(opp) {
		p.setState(StateGameover)
		p.result = winFor(mover)
		if givesCheck {
			p.reason = ReasonCheckmate
		} else {
			p.reason = ReasonNoMoves
		}
		return
	}
	if result, reason, over := p.repetitionOutcome(key); over {
		p.setState(StateGameover)
		p.result, p.reason = result, reason
	}
}

// Unapply 严格按 Apply 的逆序撤销，不做任何合法性复查
func (p *Position) Unapply(rec UndoRecord) {
	top := len(p.undo) - 1
	if top < 0 || rec.Depth != top || p.undo[top] != rec {
		panic("shogi: unapply out of order")
	}
	m := rec.Move
	side := rec.PrevTurn
	switch m.Kind {
	case MoveBoard:
		p.lift(m.To)
		if rec.Captured != 0 {
			p.addHand(side, DemotedForm(rec.Captured.Type()), -1)
			p.put(m.To, rec.Captured)
		}
		p.put(m.From, rec.Moved)
		p.kingSq[side] = rec.PrevKing
	case MoveDrop:
		p.lift(m.To)
		p.addHand(side, m.Drop, 1)
	case MoveCommit:
		if rec.Recorded {
			p.forgetPosition(rec.RepKey)
		}
	}
	p.setStatus(rec.PrevTurn, rec.PrevState, rec.PrevDrawBase)
	p.result, p.reason = rec.PrevResult, rec.PrevReason
	p.moveCount = rec.PrevMoveCount
	p.undo = p.undo[:top]
}

// UndoLast 撤销栈顶一条记录；栈空返回 false
func (p *Position) UndoLast() bool {
	if len(p.undo) == 0 {
		return false
	}
	p.Unapply(p.undo[len(p.undo)-1])
	return true
}

// UndoPly 撤到上一个已确认手之前（界面“悔棋”）
func (p *Position) UndoPly() bool {
	for i := len(p.undo) - 1; i >= 0; i-- {
		if p.undo[i].Move.Kind == MoveBoard || p.undo[i].Move.Kind == MoveDrop {
			for len(p.undo) > i {
				p.UndoLast()
			}
			return true
		}
	}
	return false
}

// LastMove 最近一步盘上着或打入
func (p *Position) LastMove() (Move, bool) {
	for i := len(p.undo) - 1; i >= 0; i-- {
		if k := p.undo[i].Move.Kind; k == MoveBoard || k == MoveDrop {
			return p.undo[i].Move, true
		}
	}
	return Move{}, false
}

// UndoDepth 撤销栈深度
func (p *Position) UndoDepth() int { return len(p.undo) }
