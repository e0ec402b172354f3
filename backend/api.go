package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type StatusResponse struct {
	Settings         GameSettingsDTO   `json:"settings"`
	Config           Config            `json:"config"`
	Board            [][]int           `json:"board"`
	NextPlayer       int               `json:"next_player"`
	Winner           int               `json:"winner"`
	BoardSize        int               `json:"board_size"`
	Status           string            `json:"status"`
	History          []historyEntryDTO `json:"history"`
	WinningLine      []Move            `json:"winning_line"`
	StonesPlaced     int               `json:"stones_placed"`
	StonesLeftInTurn int               `json:"stones_left_in_turn"`
	AiThinking       bool              `json:"ai_thinking"`
	LastMessage      string            `json:"last_message,omitempty"`
	TurnStartedAtMs  int64             `json:"turn_started_at_ms"`
}

type GameSettingsDTO struct {
	Mode        string `json:"mode"`
	HumanPlayer int    `json:"human_player"`
	BoardSize   int    `json:"board_size,omitempty"`
}

type apiMove struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type historyEntryDTO struct {
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Player    int     `json:"player"`
	ElapsedMs float64 `json:"elapsed_ms"`
	IsAi      bool    `json:"is_ai"`
	Value     int     `json:"value"`
	Nodes     int64   `json:"nodes"`
}

type historyPayload struct {
	History []historyEntryDTO `json:"history"`
}

type resetPayload struct {
	History         []historyEntryDTO `json:"history"`
	NextPlayer      int               `json:"next_player"`
	Winner          int               `json:"winner"`
	Status          string            `json:"status"`
	BoardSize       int               `json:"board_size"`
	WinningLine     []Move            `json:"winning_line"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
}

type settingsPayload struct {
	Settings GameSettingsDTO `json:"settings"`
	Config   Config          `json:"config"`
}

// engineMoveRequest asks for one move on an arbitrary position. Depth and
// width override the configured engine when set.
type engineMoveRequest struct {
	Rows  [][]int `json:"rows"`
	Color int     `json:"color"`
	Depth int     `json:"depth,omitempty"`
	Width int     `json:"width,omitempty"`
}

type engineMoveResponse struct {
	Move      Move        `json:"move"`
	Value     int         `json:"value"`
	Immediate bool        `json:"immediate"`
	Cached    bool        `json:"cached"`
	Depth     int         `json:"depth"`
	Width     int         `json:"width"`
	Stats     SearchStats `json:"stats"`
}

type moveCacheEntryDTO struct {
	Hash  string `json:"hash"`
	Hits  uint32 `json:"hits"`
	Depth int    `json:"depth"`
	Width int    `json:"width"`
	Move  Move   `json:"move"`
	Value int    `json:"value"`
}

type moveCacheResponse struct {
	Count  int                 `json:"count"`
	Limit  int                 `json:"limit"`
	Hits   uint64              `json:"hits"`
	Misses uint64              `json:"misses"`
	Items  []moveCacheEntryDTO `json:"items"`
	Offset int                 `json:"offset"`
	Total  int                 `json:"total"`
}

type server struct {
	controller  *GameController
	hub         *Hub
	analysisHub *AnalysisHub
	moveCache   *MoveCache
}

func newServer(controller *GameController, hub *Hub, analysisHub *AnalysisHub, moveCache *MoveCache) *server {
	return &server{controller: controller, hub: hub, analysisHub: analysisHub, moveCache: moveCache}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, controllerStatus(s.controller))
	})
	r.Post("/api/start", s.handleStart)
	r.Post("/api/stop", s.handleStop)
	r.Post("/api/settings", s.handleSettings)
	r.Post("/api/move", s.handleMove)
	r.Post("/api/engine/move", s.handleEngineMove)
	r.Get("/api/cache", s.handleCacheStatus)
	r.Delete("/api/cache", func(w http.ResponseWriter, r *http.Request) {
		s.moveCache.Clear()
		writeJSON(w, http.StatusOK, map[string]any{"cleared": true})
	})

	r.Get("/ws/", func(w http.ResponseWriter, r *http.Request) {
		serveWS(s.hub, s.controller, w, r)
	})
	r.Get("/ws/analysis", func(w http.ResponseWriter, r *http.Request) {
		serveAnalysisWS(s.analysisHub, w, r)
	})
	return r
}

func (s *server) handleStart(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Settings GameSettingsDTO `json:"settings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, fmt.Errorf("invalid payload: %w", err))
		return
	}
	settings, err := settingsFromDTO(payload.Settings, s.controller.Settings())
	if err != nil {
		writeError(w, err)
		return
	}
	s.controller.StartGame(settings)
	writeJSON(w, http.StatusOK, controllerStatus(s.controller))
	s.hub.PublishReset(resetFromController(s.controller))
}

func (s *server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.controller.Reset(s.controller.Settings())
	writeJSON(w, http.StatusOK, controllerStatus(s.controller))
	s.hub.PublishReset(resetFromController(s.controller))
}

func (s *server) handleSettings(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Settings *GameSettingsDTO `json:"settings"`
		Config   *Config          `json:"config"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, fmt.Errorf("invalid payload: %w", err))
		return
	}
	if payload.Config != nil {
		if err := configStore.Update(*payload.Config); err != nil {
			writeError(w, err)
			return
		}
		applyLogLevel(GetConfig().LogLevel)
		s.moveCache.Clear()
		s.controller.ResetForConfigChange()
	}
	if payload.Settings != nil {
		settings, err := settingsFromDTO(*payload.Settings, s.controller.Settings())
		if err != nil {
			writeError(w, err)
			return
		}
		s.controller.UpdateSettings(settings, false)
	}
	s.hub.PublishSettings(settingsPayload{
		Settings: controllerSettingsDTO(s.controller.Settings()),
		Config:   GetConfig(),
	})
	writeJSON(w, http.StatusOK, controllerStatus(s.controller))
}

func (s *server) handleMove(w http.ResponseWriter, r *http.Request) {
	var payload apiMove
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, fmt.Errorf("invalid payload: %w", err))
		return
	}
	if err := s.controller.ApplyHumanMove(Move{X: payload.X, Y: payload.Y}); err != nil {
		writeError(w, err)
		return
	}
	if entry, ok := s.controller.LatestHistoryEntry(); ok {
		s.hub.PublishHistory(historyPayload{History: []historyEntryDTO{historyEntryToDTO(entry)}})
	}
	status := controllerStatus(s.controller)
	s.hub.PublishStatus(status)
	writeJSON(w, http.StatusOK, status)
}

func (s *server) handleEngineMove(w http.ResponseWriter, r *http.Request) {
	var req engineMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("invalid payload: %w", err))
		return
	}
	resp, err := s.engineMove(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// engineMove answers a stateless move request, going through the move cache.
func (s *server) engineMove(req engineMoveRequest) (engineMoveResponse, error) {
	if err := validateBoardSize(len(req.Rows)); err != nil {
		return engineMoveResponse{}, err
	}
	grid, err := GridFromRows(req.Rows)
	if err != nil {
		return engineMoveResponse{}, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	color, err := intToCell(req.Color)
	if err != nil || color == CellEmpty {
		return engineMoveResponse{}, fmt.Errorf("%w: color must be 1 (black) or 2 (white), got %d", ErrIllegalMove, req.Color)
	}
	engineConfig := GetConfig().Engine
	engineConfig.BoardSize = grid.Size()
	if req.Depth > 0 {
		engineConfig.Depth = req.Depth
	}
	if req.Width > 0 {
		engineConfig.CandidateWidth = req.Width
	}
	engine, err := NewEngine(engineConfig)
	if err != nil {
		return engineMoveResponse{}, err
	}

	hash := HashGrid(grid, color)
	if entry, ok := s.moveCache.Probe(hash, engineConfig.Depth, engineConfig.CandidateWidth); ok && grid.IsEmpty(entry.Move.X, entry.Move.Y) {
		return engineMoveResponse{
			Move:   entry.Move,
			Value:  entry.Value,
			Cached: true,
			Depth:  engineConfig.Depth,
			Width:  engineConfig.CandidateWidth,
		}, nil
	}
	result, err := engine.Search(grid, color, nil)
	if err != nil {
		return engineMoveResponse{}, err
	}
	s.moveCache.Store(hash, engineConfig.Depth, engineConfig.CandidateWidth, result.Move, result.Value)
	return engineMoveResponse{
		Move:      result.Move,
		Value:     result.Value,
		Immediate: result.Immediate,
		Depth:     engineConfig.Depth,
		Width:     engineConfig.CandidateWidth,
		Stats:     result.Stats,
	}, nil
}

func (s *server) handleCacheStatus(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	entries, total := s.moveCache.TopEntriesByHits(offset, limit)
	items := make([]moveCacheEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, moveCacheEntryDTO{
			Hash:  fmt.Sprintf("0x%016x", entry.Key),
			Hits:  entry.Hits,
			Depth: entry.Depth,
			Width: entry.Width,
			Move:  entry.Move,
			Value: entry.Value,
		})
	}
	hits, misses := s.moveCache.Stats()
	writeJSON(w, http.StatusOK, moveCacheResponse{
		Count:  s.moveCache.Count(),
		Limit:  s.moveCache.limit,
		Hits:   hits,
		Misses: misses,
		Items:  items,
		Offset: offset,
		Total:  total,
	})
}

func controllerStatus(controller *GameController) StatusResponse {
	state := controller.State()
	gameSettings := controller.Settings()
	rules := NewRules(gameSettings)
	return StatusResponse{
		Settings:         controllerSettingsDTO(gameSettings),
		Config:           GetConfig(),
		Board:            state.Grid.Rows(),
		NextPlayer:       playerToInt(state.ToMove),
		Winner:           winnerFromStatus(state.Status),
		BoardSize:        state.Grid.Size(),
		Status:           statusLabel(state.Status),
		History:          historyToDTO(controller.History()),
		WinningLine:      append([]Move(nil), state.WinningLine...),
		StonesPlaced:     state.StonesPlaced,
		StonesLeftInTurn: rules.StonesLeftInTurn(state.StonesPlaced),
		AiThinking:       controller.AiThinking(),
		LastMessage:      state.LastMessage,
		TurnStartedAtMs:  controller.CurrentTurnStartedAtMs(),
	}
}

func settingsFromDTO(dto GameSettingsDTO, base GameSettings) (GameSettings, error) {
	settings := base
	switch dto.Mode {
	case "ai_vs_ai":
		settings.BlackType = PlayerAI
		settings.WhiteType = PlayerAI
	case "human_vs_human":
		settings.BlackType = PlayerHuman
		settings.WhiteType = PlayerHuman
	case "ai_vs_human":
		if dto.HumanPlayer == 2 {
			settings.BlackType = PlayerAI
			settings.WhiteType = PlayerHuman
		} else {
			settings.BlackType = PlayerHuman
			settings.WhiteType = PlayerAI
		}
	case "":
	default:
		return base, fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, dto.Mode)
	}
	if dto.BoardSize != 0 {
		if err := validateBoardSize(dto.BoardSize); err != nil {
			return base, err
		}
		settings.BoardSize = dto.BoardSize
	}
	return settings, nil
}

func controllerSettingsDTO(settings GameSettings) GameSettingsDTO {
	mode := "ai_vs_human"
	if settings.BlackType == PlayerAI && settings.WhiteType == PlayerAI {
		mode = "ai_vs_ai"
	} else if settings.BlackType == PlayerHuman && settings.WhiteType == PlayerHuman {
		mode = "human_vs_human"
	}
	humanPlayer := 0
	if settings.BlackType == PlayerHuman {
		humanPlayer = 1
	} else if settings.WhiteType == PlayerHuman {
		humanPlayer = 2
	}
	return GameSettingsDTO{Mode: mode, HumanPlayer: humanPlayer, BoardSize: settings.BoardSize}
}

func winnerFromStatus(status GameStatus) int {
	switch status {
	case StatusBlackWon:
		return 1
	case StatusWhiteWon:
		return 2
	default:
		return 0
	}
}

func historyToDTO(history MoveHistory) []historyEntryDTO {
	entries := history.All()
	result := make([]historyEntryDTO, 0, len(entries))
	for _, entry := range entries {
		result = append(result, historyEntryToDTO(entry))
	}
	return result
}

func historyEntryToDTO(entry HistoryEntry) historyEntryDTO {
	return historyEntryDTO{
		X:         entry.Move.X,
		Y:         entry.Move.Y,
		Player:    playerToInt(entry.Player),
		ElapsedMs: entry.ElapsedMs,
		IsAi:      entry.IsAi,
		Value:     entry.Value,
		Nodes:     entry.Nodes,
	}
}

func resetFromController(controller *GameController) resetPayload {
	state := controller.State()
	return resetPayload{
		History:         historyToDTO(controller.History()),
		NextPlayer:      playerToInt(state.ToMove),
		Winner:          winnerFromStatus(state.Status),
		Status:          statusLabel(state.Status),
		BoardSize:       state.Grid.Size(),
		WinningLine:     append([]Move(nil), state.WinningLine...),
		TurnStartedAtMs: controller.CurrentTurnStartedAtMs(),
	}
}

// requestLogger is chi's request logging routed through zerolog.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Msg("http-request")
	})
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, ErrNoLegalMove) {
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
