package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T) (*server, http.Handler) {
	t.Helper()
	settings := DefaultGameSettings()
	settings.BlackType = PlayerHuman
	settings.WhiteType = PlayerHuman
	srv := newServer(NewGameController(settings), NewHub(), NewAnalysisHub(), NewMoveCache(16))
	return srv, srv.routes()
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func emptyRows(size int) [][]int {
	rows := make([][]int, size)
	for y := range rows {
		rows[y] = make([]int, size)
	}
	return rows
}

func TestPing(t *testing.T) {
	_, handler := newTestServer(t)
	rec := doJSON(t, handler, http.MethodGet, "/api/ping", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestStartAndMove(t *testing.T) {
	_, handler := newTestServer(t)
	rec := doJSON(t, handler, http.MethodPost, "/api/start", map[string]any{
		"settings": map[string]any{"mode": "human_vs_human", "board_size": 15},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on start, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, handler, http.MethodPost, "/api/move", apiMove{X: 7, Y: 7})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on move, got %d: %s", rec.Code, rec.Body.String())
	}
	var status StatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.BoardSize != 15 || status.Board[7][7] != 1 {
		t.Fatalf("expected black stone on a 15x15 board, got size=%d", status.BoardSize)
	}
	if status.NextPlayer != 2 || status.StonesLeftInTurn != 2 || status.Status != "running" {
		t.Fatalf("expected white to place two stones, got %+v", status)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/move", apiMove{X: 7, Y: 7})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for occupied cell, got %d", rec.Code)
	}
}

func TestStartRejectsUnknownMode(t *testing.T) {
	_, handler := newTestServer(t)
	rec := doJSON(t, handler, http.MethodPost, "/api/start", map[string]any{
		"settings": map[string]any{"mode": "robots"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEngineMoveCompletesSix(t *testing.T) {
	_, handler := newTestServer(t)
	rows := emptyRows(19)
	for x := 3; x <= 7; x++ {
		rows[5][x] = 1
	}
	rec := doJSON(t, handler, http.MethodPost, "/api/engine/move", engineMoveRequest{Rows: rows, Color: 1})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp engineMoveResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Immediate || resp.Move.Y != 5 || (resp.Move.X != 2 && resp.Move.X != 8) {
		t.Fatalf("expected immediate six completion, got %+v", resp)
	}
}

func TestEngineMoveUsesCache(t *testing.T) {
	srv, handler := newTestServer(t)
	rows := emptyRows(9)
	rows[4][4] = 1
	req := engineMoveRequest{Rows: rows, Color: 2, Depth: 1, Width: 4}

	var first, second engineMoveResponse
	rec := doJSON(t, handler, http.MethodPost, "/api/engine/move", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	_ = json.NewDecoder(rec.Body).Decode(&first)
	rec = doJSON(t, handler, http.MethodPost, "/api/engine/move", req)
	_ = json.NewDecoder(rec.Body).Decode(&second)
	if first.Cached || !second.Cached {
		t.Fatalf("expected second answer from cache, got %v then %v", first.Cached, second.Cached)
	}
	if first.Move != second.Move || first.Depth != 1 || first.Width != 4 {
		t.Fatalf("unexpected answers %+v / %+v", first, second)
	}
	if srv.moveCache.Count() != 1 {
		t.Fatalf("expected one cached entry, got %d", srv.moveCache.Count())
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/cache", nil)
	var cacheResp moveCacheResponse
	if err := json.NewDecoder(rec.Body).Decode(&cacheResp); err != nil {
		t.Fatalf("decode cache: %v", err)
	}
	if cacheResp.Count != 1 || cacheResp.Hits != 1 || len(cacheResp.Items) != 1 {
		t.Fatalf("unexpected cache status %+v", cacheResp)
	}

	rec = doJSON(t, handler, http.MethodDelete, "/api/cache", nil)
	if rec.Code != http.StatusOK || srv.moveCache.Count() != 0 {
		t.Fatalf("expected cache to be cleared")
	}
}

func TestEngineMoveErrors(t *testing.T) {
	_, handler := newTestServer(t)
	rec := doJSON(t, handler, http.MethodPost, "/api/engine/move", engineMoveRequest{Rows: emptyRows(9), Color: 0})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty color, got %d", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodPost, "/api/engine/move", engineMoveRequest{Rows: emptyRows(4), Color: 1})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for tiny board, got %d", rec.Code)
	}

	full := emptyRows(6)
	for y := range full {
		for x := range full[y] {
			full[y][x] = 1 + (x/2+y)%2
		}
	}
	rec = doJSON(t, handler, http.MethodPost, "/api/engine/move", engineMoveRequest{Rows: full, Color: 1, Depth: 1})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a full board, got %d", rec.Code)
	}
}

func TestSettingsRejectsInvalidConfig(t *testing.T) {
	_, handler := newTestServer(t)
	cfg := GetConfig()
	cfg.Engine.CandidateWidth = -3
	rec := doJSON(t, handler, http.MethodPost, "/api/settings", map[string]any{"config": cfg})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if GetConfig().Engine.CandidateWidth == -3 {
		t.Fatalf("expected invalid config to be rejected")
	}
}

func TestEngineMoveRejectsOversizedSearch(t *testing.T) {
	_, handler := newTestServer(t)
	rows := emptyRows(19)
	rows[9][9] = 1
	rows[9][10] = 2
	cases := []engineMoveRequest{
		{Rows: rows, Color: 1, Depth: maxSearchDepth + 3, Width: 10},
		{Rows: rows, Color: 1, Depth: 2, Width: maxCandidateWidth + 1},
		{Rows: emptyRows(maxBoardSize + 1), Color: 1, Depth: 1, Width: 1},
	}
	for i, req := range cases {
		rec := doJSON(t, handler, http.MethodPost, "/api/engine/move", req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("case %d: expected 400, got %d: %s", i, rec.Code, rec.Body.String())
		}
	}
}

func TestSettingsRejectsOversizedBoard(t *testing.T) {
	srv, handler := newTestServer(t)
	rec := doJSON(t, handler, http.MethodPost, "/api/settings", map[string]any{
		"settings": map[string]any{"board_size": 1 << 20},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if srv.controller.Settings().BoardSize != defaultBoardSize {
		t.Fatalf("expected board size to stay %d, got %d", defaultBoardSize, srv.controller.Settings().BoardSize)
	}

	cfg := GetConfig()
	cfg.Engine.Depth = 1 << 30
	rec = doJSON(t, handler, http.MethodPost, "/api/settings", map[string]any{"config": cfg})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an unbounded depth, got %d", rec.Code)
	}
	if GetConfig().Engine.Depth == 1<<30 {
		t.Fatalf("expected the oversized depth to be rejected")
	}
}

func TestEngineMoveSkipsCachedOccupiedCell(t *testing.T) {
	srv, handler := newTestServer(t)
	rows := emptyRows(9)
	rows[4][4] = 1
	grid, err := GridFromRows(rows)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	srv.moveCache.Store(HashGrid(grid, CellWhite), 1, 4, Move{X: 4, Y: 4}, 0)

	rec := doJSON(t, handler, http.MethodPost, "/api/engine/move", engineMoveRequest{Rows: rows, Color: 2, Depth: 1, Width: 4})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp engineMoveResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Cached || rows[resp.Move.Y][resp.Move.X] != 0 {
		t.Fatalf("expected a fresh search onto an empty cell, got %+v", resp)
	}
}
