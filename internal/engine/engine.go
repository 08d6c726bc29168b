package engine

import (
	"sync/atomic"
)

const ttInitCap = 1 << 18

// Engine 不是并发安全的：同一时刻只允许一个 Search / MateSearch。
// 根节点并行时每个 goroutine 另建局部 Engine。
type Engine struct {
	tt    map[uint64]ttEntry
	nodes int64

	// 根节点送子过滤的缓存，局部 Engine 不用
	blunderTT      []uint64
	blunderReplyTT []uint64
}

func NewEngine() *Engine {
	return &Engine{
		tt:             make(map[uint64]ttEntry, ttInitCap),
		blunderTT:      make([]uint64, blunderTTSize),
		blunderReplyTT: make([]uint64, blunderTTSize),
	}
}

// 根节点并行用的局部 Engine，TT 独享
func newLocalEngine() *Engine {
	return &Engine{
		tt: make(map[uint64]ttEntry, 1<<14),
	}
}

// ClearTT 新对局时调用
func (e *Engine) ClearTT() {
	e.tt = make(map[uint64]ttEntry, ttInitCap)
}

func (e *Engine) Nodes() int64 {
	return atomic.LoadInt64(&e.nodes)
}
