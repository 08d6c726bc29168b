package engine

import (
	"sync/atomic"

	"shogi/internal/shogi"
)

const (
	blunderUnknown uint8 = iota
	blunderKeep
	blunderPrune
)

const (
	blunderReplyNoComp uint8 = iota
	blunderReplyHasComp
)

const (
	blunderMoveSalt  uint64 = 0x9e3779b97f4a7c15
	blunderReplySalt uint64 = 0xc2b2ae3d27d4eb4f

	blunderTTSize = 1 << 16
)

// FilterBlunderMoves 过滤“纯送子”：大子走到对方能白吃的格子。
// pos 会被临时走子，返回前复原。全部被过滤时原样返回。
func (e *Engine) FilterBlunderMoves(pos *shogi.Position, moves []shogi.Move) []shogi.Move {
	if len(moves) <= 1 {
		return moves
	}

	safeMoves := make([]shogi.Move, 0, len(moves))
	for _, mv := range moves {
		if e.shouldPruneBlunderMove(pos, mv) {
			continue
		}
		safeMoves = append(safeMoves, mv)
	}

	if len(safeMoves) == 0 {
		return moves
	}
	return safeMoves
}

func (e *Engine) shouldPruneBlunderMove(pos *shogi.Position, mv shogi.Move) bool {
	if len(e.blunderTT) == 0 {
		return e.computeBlunderPrune(pos, mv)
	}
	key := blunderMoveKey(pos, mv)
	idx := key & uint64(len(e.blunderTT)-1)

	// 高 56 位校验 key，低 8 位存结论
	entry := atomic.LoadUint64(&e.blunderTT[idx])
	if (entry >> 8) == (key >> 8) {
		return uint8(entry&0xFF) == blunderPrune
	}

	prune := e.computeBlunderPrune(pos, mv)

	val := blunderKeep
	if prune {
		val = blunderPrune
	}
	atomic.StoreUint64(&e.blunderTT[idx], (key&0xFFFFFFFFFFFFFF00)|uint64(val))
	return prune
}

func (e *Engine) computeBlunderPrune(pos *shogi.Position, mv shogi.Move) bool {
	var moving shogi.PieceType
	switch mv.Kind {
	case shogi.MoveBoard:
		pc := pos.PieceAt(mv.From)
		if pc == 0 || pc.Side() != pos.SideToMove() {
			return false
		}
		// 吃子的交换交给搜索
		if pos.PieceAt(mv.To) != 0 {
			return false
		}
		moving = pc.Type()
		if mv.Promote {
			moving, _ = shogi.PromotedForm(moving)
		}
	case shogi.MoveDrop:
		moving = mv.Drop
	default:
		return false
	}
	if !isBlunderFilterPiece(moving) {
		return false
	}

	u, ok := pos.MakeMove(mv)
	if !ok {
		return false
	}
	defer pos.UnmakeMove(u)
	// 将军或终局不剪
	if pos.State() != shogi.StatePlay {
		return false
	}

	for _, reply := range pos.EnumerateMoves() {
		if reply.Kind != shogi.MoveBoard || reply.To != mv.To {
			continue
		}
		r, ok := pos.MakeMove(reply)
		if !ok {
			continue
		}
		comp := e.hasRecaptureOrCheck(pos, mv.To)
		pos.UnmakeMove(r)
		if !comp {
			return true
		}
	}
	return false
}

// hasRecaptureOrCheck 被吃之后能否吃回，或者至少能将军
func (e *Engine) hasRecaptureOrCheck(pos *shogi.Position, targetSq int) bool {
	if pos.State() != shogi.StatePlay && pos.State() != shogi.StateCheck {
		return true
	}

	var key, idx uint64
	if len(e.blunderReplyTT) > 0 {
		key = blunderReplyKey(pos, targetSq)
		idx = key & uint64(len(e.blunderReplyTT)-1)
		entry := atomic.LoadUint64(&e.blunderReplyTT[idx])
		if (entry >> 8) == (key >> 8) {
			return uint8(entry&0xFF) == blunderReplyHasComp
		}
	}

	hasComp := false
	for _, mv := range pos.EnumerateMoves() {
		u, ok := pos.MakeMove(mv)
		if !ok {
			continue
		}
		if mv.Kind == shogi.MoveBoard && mv.To == targetSq {
			hasComp = true
		} else if st := pos.State(); st == shogi.StateCheck || st == shogi.StateGameover {
			hasComp = true
		}
		pos.UnmakeMove(u)
		if hasComp {
			break
		}
	}

	if len(e.blunderReplyTT) > 0 {
		val := blunderReplyNoComp
		if hasComp {
			val = blunderReplyHasComp
		}
		atomic.StoreUint64(&e.blunderReplyTT[idx], (key&0xFFFFFFFFFFFFFF00)|uint64(val))
	}
	return hasComp
}

func isBlunderFilterPiece(pt shogi.PieceType) bool {
	switch pt {
	case shogi.PieceSilver, shogi.PieceGold, shogi.PieceBishop, shogi.PieceRook, shogi.PieceHorse, shogi.PieceDragon:
		return true
	default:
		return false
	}
}

func blunderMoveKey(pos *shogi.Position, mv shogi.Move) uint64 {
	moveBits := uint64(uint8(mv.Kind))<<32 | uint64(uint8(mv.Drop))<<24 | uint64(uint8(mv.From))<<16 | uint64(uint8(mv.To))<<8
	if mv.Promote {
		moveBits |= 1
	}
	return pos.Digest() ^ blunderMoveSalt ^ (moveBits * 0x9ddfea08eb382d69)
}

func blunderReplyKey(pos *shogi.Position, targetSq int) uint64 {
	return pos.Digest() ^ blunderReplySalt ^ (uint64(targetSq+1) * 0x517cc1b727220a95)
}
