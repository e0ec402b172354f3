package main

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// GameController serializes every access to the game. The engine is rebuilt
// from the config store whenever the config changes; a search already in
// flight keeps the engine it started with.
type GameController struct {
	mu              sync.Mutex
	game            Game
	engine          *Engine
	analysisEnabled func() bool
	analysisFactory rootObserverFactory
}

func NewGameController(settings GameSettings) *GameController {
	gc := &GameController{game: NewGame(settings)}
	gc.rebuildEngine()
	return gc
}

func (gc *GameController) SetAnalysisPublisher(enabled func() bool, factory rootObserverFactory) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.analysisEnabled = enabled
	gc.analysisFactory = factory
}

func (gc *GameController) ApplyHumanMove(move Move) error {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.SubmitHumanMove(move)
}

func (gc *GameController) Tick() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	var factory rootObserverFactory
	if gc.analysisEnabled != nil && gc.analysisEnabled() {
		factory = gc.analysisFactory
	}
	return gc.game.Tick(gc.engine, factory)
}

func (gc *GameController) State() GameState {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.State()
}

func (gc *GameController) Settings() GameSettings {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.settings
}

func (gc *GameController) History() MoveHistory {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.History()
}

func (gc *GameController) CurrentTurnStartedAtMs() int64 {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.TurnStartedAtMs()
}

func (gc *GameController) LatestHistoryEntry() (HistoryEntry, bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	history := gc.game.History()
	if history.Size() == 0 {
		return HistoryEntry{}, false
	}
	entries := history.All()
	return entries[len(entries)-1], true
}

func (gc *GameController) AiThinking() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.AiThinking()
}

func (gc *GameController) Engine() *Engine {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.engine
}

func (gc *GameController) Reset(settings GameSettings) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.Reset(settings)
	gc.rebuildEngine()
}

func (gc *GameController) StartGame(settings GameSettings) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.Reset(settings)
	gc.rebuildEngine()
	gc.game.Start()
}

func (gc *GameController) StopGame() {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.Stop()
}

// UpdateSettings swaps player types in place, or starts over when reset is
// set or the board size changes.
func (gc *GameController) UpdateSettings(update GameSettings, reset bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if reset || update.BoardSize != gc.game.settings.BoardSize {
		gc.game.Reset(update)
		gc.rebuildEngine()
		return
	}
	gc.game.settings = update
	gc.game.rules = NewRules(update)
	gc.game.createPlayers()
}

// ResetForConfigChange rebuilds the engine from the current config.
func (gc *GameController) ResetForConfigChange() {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.rebuildEngine()
}

func (gc *GameController) rebuildEngine() {
	engineConfig := GetConfig().Engine
	engineConfig.BoardSize = gc.game.settings.BoardSize
	engine, err := NewEngine(engineConfig)
	if err != nil {
		log.Error().Err(err).Msg("engine-rebuild-failed")
		return
	}
	gc.engine = engine
}
