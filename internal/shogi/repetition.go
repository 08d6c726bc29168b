package shogi

// 千日手：同一局面出现四次
const repetitionLimit = 4

type historyEntry struct {
	key   uint64
	mover Side // 走出该局面的一方；开局为 NoSide
	check bool // 这一手是否将军
}

func (p *Position) recordStart() {
	p.reps[p.hash] = 1
	p.history = append(p.history, historyEntry{key: p.hash, mover: NoSide})
}

func (p *Position) recordPosition(key uint64, mover Side, check bool) {
	p.reps[key]++
	p.history = append(p.history, historyEntry{key: key, mover: mover, check: check})
}

func (p *Position) forgetPosition(key uint64) {
	if n := p.reps[key] - 1; n > 0 {
		p.reps[key] = n
	} else {
		delete(p.reps, key)
	}
	if len(p.history) > 0 {
		p.history = p.history[:len(p.history)-1]
	}
}

// Repetitions 该哈希在本局已确认局面中出现的次数
func (p *Position) Repetitions(key uint64) int { return p.reps[key] }

// 千日手判定：循环内一方每手都在将军则该方负，否则和棋
func (p *Position) repetitionOutcome(key uint64) (Result, Reason, bool) {
	if p.reps[key] < repetitionLimit {
		return ResultNone, ReasonNone, false
	}
	first := -1
	for i, h := range p.history {
		if h.key == key {
			first = i
			break
		}
	}
	var moved, allCheck [2]bool
	allCheck[Black], allCheck[White] = true, true
	for _, h := range p.history[first+1:] {
		if h.mover == NoSide {
			continue
		}
		moved[h.mover] = true
		if !h.check {
			allCheck[h.mover] = false
		}
	}
	switch {
	case moved[Black] && allCheck[Black]:
		return ResultWhiteWin, ReasonPerpetualCheck, true
	case moved[White] && allCheck[White]:
		return ResultBlackWin, ReasonPerpetualCheck, true
	default:
		return ResultDraw, ReasonRepetition, true
	}
}
