package httpserver

import (
	"shogi/internal/server/game"
	"shogi/internal/shogi"
)

// 着法统一用 USI 字符串："7g7f"、"2b8h+"、"P*5e"、"commit"、"resign" ...

// NewGameRequest sfen 为空时从平手开始
type NewGameRequest struct {
	SFEN string `json:"sfen"`
}

// GameResponse new_game / play / state / undo 共用
type GameResponse struct {
	GameID     string   `json:"game_id"`
	Position   string   `json:"position"` // SFEN
	ToMove     int      `json:"to_move"`  // 0=先手(b), 1=后手(w)
	State      string   `json:"state"`
	Status     string   `json:"status"` // "ongoing" / "black_win" / "white_win" / "draw"
	Reason     string   `json:"reason,omitempty"`
	InCheck    bool     `json:"in_check"`
	MoveCount  int      `json:"move_count"`
	LastMove   string   `json:"last_move,omitempty"`
	LegalMoves []string `json:"legal_moves"`
}

type PlayRequest struct {
	GameID string `json:"game_id"`
	Move   string `json:"move"`
	// 为 true 时走子后直接确认，否则停在 confirm 等前端发 "commit"
	AutoCommit bool `json:"auto_commit"`
}

// State 请求：前端刷新时用 game_id 来要当前盘面
type StateRequest struct {
	GameID string `json:"game_id"`
}

// LegalRequest 二选一：Square 问盘上棋子的落点，Drop 问手驹的打入点
type LegalRequest struct {
	GameID string `json:"game_id"`
	Square string `json:"square,omitempty"`
	Drop   string `json:"drop,omitempty"`
}

type LegalResponse struct {
	Targets []string `json:"targets"`
}

// UndoRequest Ply 为 true 时悔一整手，否则只撤回上一条指令
type UndoRequest struct {
	GameID string `json:"game_id"`
	Ply    bool   `json:"ply"`
}

// AiMoveRequest 请求让 AI 为当前局面走一步
type AiMoveRequest struct {
	GameID   string `json:"game_id"`
	MaxDepth int    `json:"max_depth"`
	TimeMs   int64  `json:"time_ms"`

	// MCTS 相关的参数
	UseMCTS         bool `json:"use_mcts"`
	MCTSSimulations int  `json:"mcts_simulations"`

	// 为 true 时服务端直接落子并确认
	Apply bool `json:"apply"`
}

type AiMoveResponse struct {
	BestMove string        `json:"best_move"`
	Score    int           `json:"score"`
	WinProb  float32       `json:"win_prob"` // 先手胜率
	Depth    int           `json:"depth"`
	Nodes    int64         `json:"nodes"`
	TimeMs   int64         `json:"time_ms"`
	PV       []string      `json:"pv,omitempty"`
	Status   string        `json:"status"` // "ok" / "no_moves" / "applied"
	Game     *GameResponse `json:"game,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func sideToInt(s shogi.Side) int {
	if s == shogi.White {
		return 1
	}
	return 0
}

func statusOf(snap game.Snapshot) string {
	if snap.State != shogi.StateGameover {
		return "ongoing"
	}
	return snap.Result.String()
}

func snapshotToDTO(snap game.Snapshot) GameResponse {
	resp := GameResponse{
		GameID:     snap.ID,
		Position:   snap.SFEN,
		ToMove:     sideToInt(snap.ToMove),
		State:      snap.State.String(),
		Status:     statusOf(snap),
		InCheck:    snap.InCheck,
		MoveCount:  snap.MoveCount,
		LastMove:   snap.LastMove,
		LegalMoves: snap.Candidates,
	}
	if snap.Reason != shogi.ReasonNone {
		resp.Reason = snap.Reason.String()
	}
	if resp.LegalMoves == nil {
		resp.LegalMoves = []string{}
	}
	return resp
}

func squaresToDTO(sqs []int) []string {
	out := make([]string, len(sqs))
	for i, sq := range sqs {
		out[i] = shogi.SquareName(sq)
	}
	return out
}

func movesToDTO(ms []shogi.Move) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.String()
	}
	return out
}
