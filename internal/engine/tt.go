package engine

import "shogi/internal/shogi"

type bound uint8

const (
	boundExact bound = iota
	boundLower       // 真值 >= Score
	boundUpper       // 真值 <= Score
)

const ttMaxEntries = 1_000_000

// |分数| 落在 scoreMate 的这个范围内就当杀棋分
const mateWindow = 10_000

// TT 条目，键为局面摘要
type ttEntry struct {
	Key   uint64
	Depth int
	Score int
	Bound bound
	Move  shogi.Move
}

// scoreToTT 搜索里的杀棋分按离根的 ply 计，入表前换成按离本节点计
func scoreToTT(score, ply int) int {
	switch {
	case score >= scoreMate-mateWindow:
		return score + ply
	case score <= -(scoreMate - mateWindow):
		return score - ply
	}
	return score
}

// scoreFromTT 是 scoreToTT 的逆：按命中时的 ply 换回离根计
func scoreFromTT(score, ply int) int {
	switch {
	case score >= scoreMate-mateWindow:
		return score - ply
	case score <= -(scoreMate - mateWindow):
		return score + ply
	}
	return score
}

// 深度优先替换；表满时整体丢弃
func (e *Engine) storeTT(key uint64, depth, ply, score int, b bound, mv shogi.Move) {
	if len(e.tt) > ttMaxEntries {
		e.tt = make(map[uint64]ttEntry, ttInitCap)
	}
	old, ok := e.tt[key]
	if !ok || depth >= old.Depth {
		e.tt[key] = ttEntry{
			Key:   key,
			Depth: depth,
			Score: scoreToTT(score, ply),
			Bound: b,
			Move:  mv,
		}
	}
}

func (e *Engine) lookupTT(key uint64, depth, ply, alpha, beta int) (int, bool) {
	entry, ok := e.tt[key]
	if !ok || entry.Depth < depth {
		return 0, false
	}
	score := scoreFromTT(entry.Score, ply)
	switch entry.Bound {
	case boundExact:
		return score, true
	case boundLower:
		if score >= beta {
			return score, true
		}
	case boundUpper:
		if score <= alpha {
			return score, true
		}
	}
	return 0, false
}

func (e *Engine) ttMove(key uint64) (shogi.Move, bool) {
	entry, ok := e.tt[key]
	if !ok || entry.Move.IsNone() {
		return shogi.Move{}, false
	}
	return entry.Move, true
}
