package shogi

// Undo 搜索用：一步 = Apply + Commit 两条记录
type Undo struct {
	move, commit UndoRecord
}

func (u Undo) Move() Move { return u.move.Move }

// EnumerateMoves 轮到的一方的候选着（Play 为伪合法，Check 已过滤）
func (p *Position) EnumerateMoves() []Move {
	if p.state != StatePlay && p.state != StateCheck {
		return nil
	}
	return p.GenerateMoves(p.sideToMove)
}

// MakeMove 走子并确认。候选着若违规（送将、打歩詰），回滚并返回 false。
func (p *Position) MakeMove(m Move) (Undo, bool) {
	rec, err := p.Apply(m)
	if err != nil {
		return Undo{}, false
	}
	if p.state == StateIllegalMove {
		p.Unapply(rec)
		return Undo{}, false
	}
	com, err := p.Apply(Commit)
	if err != nil {
		p.Unapply(rec)
		return Undo{}, false
	}
	if p.state == StateIllegalMove {
		p.Unapply(com)
		p.Unapply(rec)
		return Undo{}, false
	}
	return Undo{move: rec, commit: com}, true
}

func (p *Position) UnmakeMove(u Undo) {
	p.Unapply(u.commit)
	p.Unapply(u.move)
}

// ScoreForPlayer 子力评估：side 的盘上子 + 手驹 减去对方
func (p *Position) ScoreForPlayer(side Side) int {
	return p.material(side) - p.material(opposite(side))
}

func (p *Position) material(side Side) int {
	total := 0
	p.occ[side].forEach(func(sq int) bool {
		total += baseValue[p.squares[sq].Type()]
		return true
	})
	for pt := handFirst; pt <= handLast; pt++ {
		total += int(p.hands[side][pt]) * baseValue[pt]
	}
	return total
}
