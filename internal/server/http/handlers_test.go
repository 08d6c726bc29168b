package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestHandler() *Handler {
	opts := DefaultOptions()
	opts.MaxDepth = 2
	opts.TimeLimit = 0
	return NewHandler(nil, opts)
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func newGame(t *testing.T, h http.Handler, sfen string) GameResponse {
	t.Helper()
	rec := post(t, h, "/api/new_game", NewGameRequest{SFEN: sfen})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeBody[GameResponse](t, rec)
}

func TestNewGameAndPlay(t *testing.T) {
	h := newTestHandler()
	g := newGame(t, h, "")
	require.NotEmpty(t, g.GameID)
	require.Equal(t, 0, g.ToMove)
	require.Equal(t, "play", g.State)
	require.Equal(t, "ongoing", g.Status)
	require.Len(t, g.LegalMoves, 30)

	rec := post(t, h, "/api/play", PlayRequest{GameID: g.GameID, Move: "7g7f", AutoCommit: true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	after := decodeBody[GameResponse](t, rec)
	require.Equal(t, 1, after.ToMove)
	require.Equal(t, "7g7f", after.LastMove)
	require.Equal(t, 1, after.MoveCount)
	require.Equal(t, "lnsgkgsnl/1r5b1/ppppppppp/9/9/2P6/PP1PPPPPP/1B5R1/LNSGKGSNL w - 2", after.Position)
}

func TestPlayWithConfirmation(t *testing.T) {
	h := newTestHandler()
	g := newGame(t, h, "")

	rec := post(t, h, "/api/play", PlayRequest{GameID: g.GameID, Move: "7g7f"})
	require.Equal(t, http.StatusOK, rec.Code)
	pending := decodeBody[GameResponse](t, rec)
	require.Equal(t, "confirm", pending.State)
	require.Equal(t, []string{"commit", "resign"}, pending.LegalMoves)

	rec = post(t, h, "/api/play", PlayRequest{GameID: g.GameID, Move: "commit"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, decodeBody[GameResponse](t, rec).ToMove)
}

func TestPlayRejects(t *testing.T) {
	h := newTestHandler()
	g := newGame(t, h, "")

	cases := []struct {
		name string
		req  PlayRequest
		code int
	}{
		{"unknown game", PlayRequest{GameID: "nope", Move: "7g7f"}, http.StatusNotFound},
		{"bad token", PlayRequest{GameID: g.GameID, Move: "7g"}, http.StatusBadRequest},
		{"not a candidate", PlayRequest{GameID: g.GameID, Move: "7g7e"}, http.StatusBadRequest},
		{"wrong state", PlayRequest{GameID: g.GameID, Move: "commit"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := post(t, h, "/api/play", tc.req)
			require.Equal(t, tc.code, rec.Code, rec.Body.String())
			require.NotEmpty(t, decodeBody[errorResponse](t, rec).Error)
		})
	}
}

func TestNewGameRejectsBadSFEN(t *testing.T) {
	rec := post(t, newTestHandler(), "/api/new_game", NewGameRequest{SFEN: "9/9/9 b - 1"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLegalTargets(t *testing.T) {
	h := newTestHandler()
	g := newGame(t, h, "")

	rec := post(t, h, "/api/legal", LegalRequest{GameID: g.GameID, Square: "7g"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"7f"}, decodeBody[LegalResponse](t, rec).Targets)

	rec = post(t, h, "/api/legal", LegalRequest{GameID: g.GameID, Drop: "P"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decodeBody[LegalResponse](t, rec).Targets)

	rec = post(t, h, "/api/legal", LegalRequest{GameID: g.GameID})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	drops := newGame(t, h, "4k4/9/9/9/9/9/9/9/4K4 b P 1")
	rec = post(t, h, "/api/legal", LegalRequest{GameID: drops.GameID, Drop: "p"})
	require.Equal(t, http.StatusOK, rec.Code)
	targets := decodeBody[LegalResponse](t, rec).Targets
	require.Len(t, targets, 71)
	require.Contains(t, targets, "5e")
	require.NotContains(t, targets, "1a")
}

func TestUndo(t *testing.T) {
	h := newTestHandler()
	g := newGame(t, h, "")

	rec := post(t, h, "/api/undo", UndoRequest{GameID: g.GameID, Ply: true})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	post(t, h, "/api/play", PlayRequest{GameID: g.GameID, Move: "2g2f", AutoCommit: true})
	rec = post(t, h, "/api/undo", UndoRequest{GameID: g.GameID, Ply: true})
	require.Equal(t, http.StatusOK, rec.Code)
	back := decodeBody[GameResponse](t, rec)
	require.Equal(t, 0, back.MoveCount)
	require.Equal(t, g.Position, back.Position)
}

func TestAiMoveAppliesMate(t *testing.T) {
	h := newTestHandler()
	g := newGame(t, h, "4k4/9/4P4/9/9/9/9/9/4K4 b G 1")

	rec := post(t, h, "/api/ai_move", AiMoveRequest{GameID: g.GameID, MaxDepth: 1, Apply: true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[AiMoveResponse](t, rec)
	require.Equal(t, "G*5b", resp.BestMove)
	require.Equal(t, "applied", resp.Status)
	require.NotNil(t, resp.Game)
	require.Equal(t, "black_win", resp.Game.Status)
	require.Equal(t, "checkmate", resp.Game.Reason)

	rec = post(t, h, "/api/ai_move", AiMoveRequest{GameID: g.GameID})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "no_moves", decodeBody[AiMoveResponse](t, rec).Status)
}

func TestAiMoveMCTS(t *testing.T) {
	h := newTestHandler()
	g := newGame(t, h, "")

	rec := post(t, h, "/api/ai_move", AiMoveRequest{GameID: g.GameID, UseMCTS: true, MCTSSimulations: 32})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[AiMoveResponse](t, rec)
	require.Equal(t, "ok", resp.Status)
	require.Contains(t, g.LegalMoves, resp.BestMove)

	// 不带 apply 时局面不变
	rec = post(t, h, "/api/state", StateRequest{GameID: g.GameID})
	require.Equal(t, g.Position, decodeBody[GameResponse](t, rec).Position)
}

func TestMateHint(t *testing.T) {
	h := newTestHandler()
	g := newGame(t, h, "4k4/9/4P4/9/9/9/9/9/4K4 b G 1")

	rec := post(t, h, "/api/mate", MateRequest{GameID: g.GameID, MaxDepth: 3})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[MateResponse](t, rec)
	require.True(t, resp.Found)
	require.Equal(t, "G*5b", resp.Move)
	require.Equal(t, 1, resp.Depth)
}

func TestCloseGame(t *testing.T) {
	h := newTestHandler()
	g := newGame(t, h, "")

	rec := post(t, h, "/api/close", StateRequest{GameID: g.GameID})
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = post(t, h, "/api/state", StateRequest{GameID: g.GameID})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouting(t *testing.T) {
	mux := NewMux(newTestHandler(), t.TempDir())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/web/", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = post(t, mux, "/api/nope", StateRequest{})
	require.Equal(t, http.StatusNotFound, rec.Code)
}
