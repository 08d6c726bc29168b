package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"shogi/internal/engine"
	"shogi/internal/mcts"
	"shogi/internal/server/game"
	"shogi/internal/shogi"
)

// Options AI 请求没带参数时的默认值
type Options struct {
	MaxDepth  int
	TimeLimit time.Duration
	MCTS      mcts.SearchParams
}

func DefaultOptions() Options {
	return Options{
		MaxDepth:  4,
		TimeLimit: 3 * time.Second,
		MCTS:      mcts.DefaultParams(),
	}
}

// Handler 实现 http.Handler，用于 /api/* 路由
type Handler struct {
	games *game.Manager
	opts  Options

	// Engine 同一时刻只跑一个搜索
	engineMu sync.Mutex
	engine   *engine.Engine
}

func NewHandler(games *game.Manager, opts Options) *Handler {
	if games == nil {
		games = game.NewManager()
	}
	return &Handler{
		games:  games,
		opts:   opts,
		engine: engine.NewEngine(),
	}
}

func (h *Handler) Games() *game.Manager { return h.games }

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch r.URL.Path {
	case "/api/new_game":
		h.handleNewGame(w, r)
	case "/api/play":
		h.handlePlay(w, r)
	case "/api/state":
		h.handleState(w, r)
	case "/api/legal":
		h.handleLegal(w, r)
	case "/api/undo":
		h.handleUndo(w, r)
	case "/api/ai_move":
		h.handleAiMove(w, r)
	case "/api/mate":
		h.handleMate(w, r)
	case "/api/close":
		h.handleClose(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req NewGameRequest
	// 空 body 视为平手开局
	if r.ContentLength != 0 {
		if !decodeJSON(w, r, &req) {
			return
		}
	}

	g, err := h.games.NewGame(req.SFEN)
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.Info().Str("game", g.ID).Str("sfen", req.SFEN).Msg("new game")
	writeJSON(w, snapshotToDTO(g.Snapshot()))
}

func (h *Handler) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req PlayRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	g, err := h.games.Get(req.GameID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	mv, err := shogi.ParseMove(req.Move)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := g.Apply(mv, req.AutoCommit); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, snapshotToDTO(g.Snapshot()))
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	var req StateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	g, err := h.games.Get(req.GameID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, snapshotToDTO(g.Snapshot()))
}

// handleLegal 前端点选棋子 / 手驹时高亮可达格
func (h *Handler) handleLegal(w http.ResponseWriter, r *http.Request) {
	var req LegalRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	g, err := h.games.Get(req.GameID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var targets []int
	switch {
	case req.Square != "" && req.Drop == "":
		sq, err := shogi.ParseSquare(req.Square)
		if err != nil {
			writeError(w, r, err)
			return
		}
		targets = g.Destinations(sq)
	case req.Drop != "" && req.Square == "":
		pt, err := shogi.ParsePieceLetter(req.Drop)
		if err != nil {
			writeError(w, r, err)
			return
		}
		targets = g.Drops(pt)
	default:
		http.Error(w, "exactly one of square or drop is required", http.StatusBadRequest)
		return
	}
	writeJSON(w, LegalResponse{Targets: squaresToDTO(targets)})
}

func (h *Handler) handleUndo(w http.ResponseWriter, r *http.Request) {
	var req UndoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	g, err := h.games.Get(req.GameID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var ok bool
	if req.Ply {
		ok = g.TakeBack()
	} else {
		ok = g.Undo()
	}
	if !ok {
		http.Error(w, "nothing to undo", http.StatusBadRequest)
		return
	}
	writeJSON(w, snapshotToDTO(g.Snapshot()))
}

func (h *Handler) handleAiMove(w http.ResponseWriter, r *http.Request) {
	var req AiMoveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	g, err := h.games.Get(req.GameID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// 只在副本上思考，不占着对局锁
	pos := g.Clone()
	var res engine.SearchResult
	if req.UseMCTS {
		params := h.opts.MCTS
		if req.MCTSSimulations > 0 {
			params.Simulations = req.MCTSSimulations
		}
		if req.TimeMs > 0 {
			params.MaxTime = time.Duration(req.TimeMs) * time.Millisecond
		}
		res = *mcts.NewSearcher(params).Search(pos)
	} else {
		cfg := engine.SearchConfig{MaxDepth: h.opts.MaxDepth, TimeLimit: h.opts.TimeLimit}
		if req.MaxDepth > 0 {
			cfg.MaxDepth = req.MaxDepth
		}
		if req.TimeMs > 0 {
			cfg.TimeLimit = time.Duration(req.TimeMs) * time.Millisecond
		}
		h.engineMu.Lock()
		res = h.engine.Search(pos, cfg)
		h.engineMu.Unlock()
	}

	log.Debug().
		Str("game", g.ID).
		Bool("mcts", req.UseMCTS).
		Str("best", res.BestMove.String()).
		Int("score", res.Score).
		Int64("nodes", res.Nodes).
		Dur("time", res.TimeUsed).
		Msg("ai move")

	resp := AiMoveResponse{
		Score:   res.Score,
		WinProb: res.WinProb,
		Depth:   res.Depth,
		Nodes:   res.Nodes,
		TimeMs:  res.TimeUsed.Milliseconds(),
		PV:      movesToDTO(res.PV),
		Status:  "ok",
	}
	if res.BestMove.IsNone() {
		resp.Status = "no_moves"
		writeJSON(w, resp)
		return
	}
	resp.BestMove = res.BestMove.String()

	if req.Apply {
		if err := g.Apply(res.BestMove, true); err != nil {
			// 思考期间对局被改动过
			writeError(w, r, err)
			return
		}
		resp.Status = "applied"
		snap := snapshotToDTO(g.Snapshot())
		resp.Game = &snap
	}
	writeJSON(w, resp)
}

type MateRequest struct {
	GameID   string `json:"game_id"`
	MaxDepth int    `json:"max_depth"`
}

type MateResponse struct {
	Found bool   `json:"found"`
	Move  string `json:"move,omitempty"`
	Depth int    `json:"depth"`
	Nodes int64  `json:"nodes"`
}

// handleMate 诘将提示
func (h *Handler) handleMate(w http.ResponseWriter, r *http.Request) {
	var req MateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	g, err := h.games.Get(req.GameID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	pos := g.Clone()
	h.engineMu.Lock()
	res := h.engine.MateSearch(pos, req.MaxDepth)
	h.engineMu.Unlock()

	resp := MateResponse{Found: res.Found, Depth: res.Depth, Nodes: int64(res.Nodes)}
	if res.Found {
		resp.Move = res.Move.String()
	}
	writeJSON(w, resp)
}

func (h *Handler) handleClose(w http.ResponseWriter, r *http.Request) {
	var req StateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.games.Delete(req.GameID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("writeJSON")
	}
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrIllegalMove),
		errors.Is(err, shogi.ErrInvalidSFEN),
		errors.Is(err, shogi.ErrInvalidToken),
		errors.Is(err, shogi.ErrInvalidPosition),
		errors.Is(err, shogi.ErrNotCandidate),
		errors.Is(err, shogi.ErrWrongState):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	ev := log.Warn()
	if status >= http.StatusInternalServerError {
		ev = log.Error()
	}
	ev.Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request failed")

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
}
