package shogi

// Attacks 判断 by 一方是否攻击 target。
// vacated：假设已腾空的格子（即使上面有子也按空处理）；
// filled：假设已被占住的格子（即使是空格也按有子处理），站在 filled 上的 by 方棋子视为已被吃掉。
// 两者都可传 NoSquare。不改动棋盘即可判断“这步走完王还安全吗”。
func (p *Position) Attacks(by Side, target, vacated, filled int) bool {
	if target < 0 || target >= NumSquares || by == NoSide {
		return false
	}
	tr, tc := rowOf(target), colOf(target)
	occupied := func(sq int) bool {
		if sq == filled {
			return true
		}
		if sq == vacated {
			return false
		}
		return p.squares[sq] != 0
	}

	hit := false
	p.occ[by].forEach(func(sq int) bool {
		if sq == filled {
			return true
		}
		if p.pieceAttacks(sq, tr-rowOf(sq), tc-colOf(sq), occupied) {
			hit = true
			return false
		}
		return true
	})
	return hit
}

// (dr, dc) 为从 from 到目标的位移
func (p *Position) pieceAttacks(from, dr, dc int, occupied func(int) bool) bool {
	if dr == 0 && dc == 0 {
		return false
	}
	pc := p.squares[from]
	for _, v := range oriented[pc.Side()][pc.Type()] {
		if !v.Slide {
			if dr == v.Dr && dc == v.Dc {
				return true
			}
			continue
		}
		k := rayDistance(dr, dc, v.Dr, v.Dc)
		if k <= 0 {
			continue
		}
		blocked := false
		for i := 1; i < k; i++ {
			if occupied(from + i*(v.Dr*Cols+v.Dc)) {
				blocked = true
				break
			}
		}
		if !blocked {
			return true
		}
	}
	return false
}

// 目标在方向 (vr, vc) 上第 k 格时返回 k，否则 0
func rayDistance(dr, dc, vr, vc int) int {
	var k int
	switch {
	case vr == 0:
		if dr != 0 {
			return 0
		}
		k = dc * vc
	case vc == 0:
		if dc != 0 {
			return 0
		}
		k = dr * vr
	default:
		if dr*vr <= 0 || dc*vc <= 0 || abs(dr) != abs(dc) {
			return 0
		}
		k = abs(dr)
	}
	if k < 0 {
		return 0
	}
	return k
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// InCheck side 的王是否被将；无王视为不被将
func (p *Position) InCheck(side Side) bool {
	k := p.kingSq[side]
	if k == NoSquare {
		return false
	}
	return p.Attacks(opposite(side), k, NoSquare, NoSquare)
}

// IsAttacked 当前局面下 sq 是否被 bySide 攻击
func (p *Position) IsAttacked(sq int, bySide Side) bool {
	return p.Attacks(bySide, sq, NoSquare, NoSquare)
}
