package shogi

import "sort"

// forEachPseudo 枚举 side 的伪合法着：盘上走子（含升变选项）+ 打入。
// fn 返回 false 时立即停止，整体返回 false。
func (p *Position) forEachPseudo(side Side, fn func(Move) bool) bool {
	ok := p.occ[side].forEach(func(from int) bool {
		return p.forEachPieceMove(side, from, fn)
	})
	if !ok {
		return false
	}
	return p.forEachDrop(side, PieceNone, fn)
}

func (p *Position) forEachPieceMove(side Side, from int, fn func(Move) bool) bool {
	pc := p.squares[from]
	pt := pc.Type()
	row, col := rowOf(from), colOf(from)
	for _, v := range oriented[side][pt] {
		r, c := row+v.Dr, col+v.Dc
		for onBoard(r, c) {
			to := indexOf(r, c)
			dst := p.squares[to]
			if dst != 0 && dst.Side() == side {
				break
			}
			if !p.emitWithPromotion(side, pt, from, to, fn) {
				return false
			}
			if dst != 0 || !v.Slide {
				break
			}
			r += v.Dr
			c += v.Dc
		}
	}
	return true
}

// 升变：起点或终点在敌阵即可选择；歩、以及走到死行的香/桂必须升变
func (p *Position) emitWithPromotion(side Side, pt PieceType, from, to int, fn func(Move) bool) bool {
	if pt.CanPromote() && (inZone(side, rowOf(from)) || inZone(side, rowOf(to))) {
		if !fn(NewBoardMove(from, to, true)) {
			return false
		}
		if pt == PiecePawn || deadRow(side, pt, rowOf(to)) {
			return true
		}
	}
	return fn(NewBoardMove(from, to, false))
}

// only != PieceNone 时只生成该种类的打入
func (p *Position) forEachDrop(side Side, only PieceType, fn func(Move) bool) bool {
	var pawnCols [Cols]bool
	if p.hands[side][PiecePawn] > 0 {
		pawn := makePiece(side, PiecePawn)
		p.occ[side].forEach(func(sq int) bool {
			if p.squares[sq] == pawn {
				pawnCols[colOf(sq)] = true
			}
			return true
		})
	}
	for pt := handFirst; pt <= handLast; pt++ {
		if p.hands[side][pt] == 0 || (only != PieceNone && only != pt) {
			continue
		}
		for to := 0; to < NumSquares; to++ {
			if p.squares[to] != 0 {
				continue
			}
			if deadRow(side, pt, rowOf(to)) {
				continue
			}
			if pt == PiecePawn && pawnCols[colOf(to)] {
				continue // 二歩
			}
			// 打歩詰 不在此过滤，Commit 时再判
			if !fn(NewDropMove(pt, to)) {
				return false
			}
		}
	}
	return true
}

// isLegal 用腾空/占位假设判断走完后自己的王是否安全
func (p *Position) isLegal(side Side, m Move) bool {
	opp := opposite(side)
	king := p.kingSq[side]
	switch m.Kind {
	case MoveDrop:
		return king == NoSquare || !p.Attacks(opp, king, NoSquare, m.To)
	case MoveBoard:
		if m.From == king {
			return !p.Attacks(opp, m.To, m.From, m.To)
		}
		return king == NoSquare || !p.Attacks(opp, king, m.From, m.To)
	}
	return false
}

func (p *Position) mustFilter(side Side) bool {
	if side == p.sideToMove {
		return p.state == StateCheck
	}
	return p.InCheck(side)
}

// GenerateMoves 按状态机给出 side 可走的着：
// Play 时为伪合法着；Check 时只保留能解将的着；
// 待确认 / 提和状态只给 Commit、Resign 或应答；其它状态为空。
func (p *Position) GenerateMoves(side Side) []Move {
	switch p.state {
	case StatePuzzle, StateIllegalMove, StateGameover:
		return nil
	case StateConfirm, StateConfirmCheck:
		if side != p.sideToMove {
			return nil
		}
		return []Move{Commit, Resign}
	case StateDrawOffered:
		if side != p.sideToMove {
			return nil
		}
		return []Move{AcceptDraw, DeclineDraw}
	case StatePlay, StateCheck:
		moves := make([]Move, 0, 128)
		filter := p.mustFilter(side)
		p.forEachPseudo(side, func(m Move) bool {
			if !filter || p.isLegal(side, m) {
				moves = append(moves, m)
			}
			return true
		})
		return moves
	default:
		panic("shogi: unknown game state")
	}
}

// LegalMoves 完全合法的盘上着与打入（不含打歩詰判定）
func (p *Position) LegalMoves(side Side) []Move {
	moves := make([]Move, 0, 128)
	p.forEachPseudo(side, func(m Move) bool {
		if p.isLegal(side, m) {
			moves = append(moves, m)
		}
		return true
	})
	return moves
}

// HasLegalMove 是否存在至少一步合法着，找到第一步立即返回
func (p *Position) HasLegalMove(side Side) bool {
	found := false
	p.forEachPseudo(side, func(m Move) bool {
		if p.isLegal(side, m) {
			found = true
			return false
		}
		return true
	})
	return found
}

// isCandidate 不生成整张表，只枚举同一来源的着判断 m 是否在候选集中
func (p *Position) isCandidate(m Move) bool {
	side := p.sideToMove
	filter := p.mustFilter(side)
	found := false
	match := func(c Move) bool {
		if c.Same(m) && (!filter || p.isLegal(side, c)) {
			found = true
			return false
		}
		return true
	}
	switch m.Kind {
	case MoveBoard:
		if m.From < 0 || m.From >= NumSquares || m.To < 0 || m.To >= NumSquares {
			return false
		}
		pc := p.squares[m.From]
		if pc == 0 || pc.Side() != side {
			return false
		}
		p.forEachPieceMove(side, m.From, match)
	case MoveDrop:
		if m.Drop < handFirst || m.Drop > handLast || m.To < 0 || m.To >= NumSquares {
			return false
		}
		p.forEachDrop(side, m.Drop, match)
	}
	return found
}

// LegalDestinations 界面高亮：sq 上的子当前可以合法到达的格子（总是过滤送将）
func (p *Position) LegalDestinations(sq int) []int {
	pc := p.PieceAt(sq)
	if pc == 0 || pc.Side() != p.sideToMove || (p.state != StatePlay && p.state != StateCheck) {
		return nil
	}
	side := p.sideToMove
	seen := make(map[int]bool)
	p.forEachPieceMove(side, sq, func(m Move) bool {
		if p.isLegal(side, m) {
			seen[m.To] = true
		}
		return true
	})
	return sortedSquares(seen)
}

// LegalDrops 界面高亮：手驹 pt 可以打入的格子
func (p *Position) LegalDrops(pt PieceType) []int {
	if pt < handFirst || pt > handLast || (p.state != StatePlay && p.state != StateCheck) {
		return nil
	}
	side := p.sideToMove
	seen := make(map[int]bool)
	p.forEachDrop(side, pt, func(m Move) bool {
		if p.isLegal(side, m) {
			seen[m.To] = true
		}
		return true
	})
	return sortedSquares(seen)
}

func sortedSquares(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for sq := range set {
		out = append(out, sq)
	}
	sort.Ints(out)
	return out
}
