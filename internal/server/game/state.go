package game

import (
	"sync"
	"time"

	"shogi/internal/shogi"
)

// Game 一局对局。Pos 只能在持有 mu 时访问。
type Game struct {
	mu sync.Mutex

	ID        string
	Pos       *shogi.Position
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Snapshot 给前端的只读视图
type Snapshot struct {
	ID         string
	SFEN       string
	ToMove     shogi.Side
	State      shogi.GameState
	Result     shogi.Result
	Reason     shogi.Reason
	InCheck    bool
	MoveCount  int
	LastMove   string
	Candidates []string
}

// Apply 执行一条指令；autoCommit 时走子后立即确认（IllegalMove 则回滚并报错）
func (g *Game) Apply(m shogi.Move, autoCommit bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	rec, err := g.Pos.Apply(m)
	if err != nil {
		return err
	}
	if g.Pos.State() == shogi.StateIllegalMove && autoCommit {
		g.Pos.Unapply(rec)
		return &shogi.MoveError{Err: ErrIllegalMove, Ply: g.Pos.MoveCount() + 1, Move: m, State: g.Pos.State()}
	}
	if autoCommit && (g.Pos.State() == shogi.StateConfirm || g.Pos.State() == shogi.StateConfirmCheck) {
		com, err := g.Pos.Apply(shogi.Commit)
		if err != nil {
			g.Pos.Unapply(rec)
			return err
		}
		if g.Pos.State() == shogi.StateIllegalMove {
			g.Pos.Unapply(com)
			g.Pos.Unapply(rec)
			return &shogi.MoveError{Err: ErrIllegalMove, Ply: g.Pos.MoveCount() + 1, Move: m, State: g.Pos.State()}
		}
	}
	g.UpdatedAt = time.Now()
	return nil
}

// Undo 撤回上一条指令（IllegalMove / Confirm 时即撤回未确认的走子）
func (g *Game) Undo() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	ok := g.Pos.UndoLast()
	if ok {
		g.UpdatedAt = time.Now()
	}
	return ok
}

// TakeBack 悔棋：撤到上一个盘上着之前
func (g *Game) TakeBack() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	ok := g.Pos.UndoPly()
	if ok {
		g.UpdatedAt = time.Now()
	}
	return ok
}

// Clone 拷贝当前局面给搜索用
func (g *Game) Clone() *shogi.Position {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Pos.Clone()
}

func (g *Game) Destinations(sq int) []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Pos.LegalDestinations(sq)
}

func (g *Game) Drops(pt shogi.PieceType) []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Pos.LegalDrops(pt)
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	pos := g.Pos
	s := Snapshot{
		ID:        g.ID,
		SFEN:      pos.Encode(),
		ToMove:    pos.SideToMove(),
		State:     pos.State(),
		Result:    pos.Result(),
		Reason:    pos.Reason(),
		InCheck:   pos.InCheck(pos.SideToMove()),
		MoveCount: pos.MoveCount(),
	}
	if mv, ok := pos.LastMove(); ok {
		s.LastMove = mv.String()
	}
	moves := pos.GenerateMoves(pos.SideToMove())
	s.Candidates = make([]string, len(moves))
	for i, mv := range moves {
		s.Candidates[i] = mv.String()
	}
	return s
}
