package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	ErrIllegalMove    = errors.New("illegal move")
	ErrGameNotRunning = errors.New("game not running")
	ErrNotHumanTurn   = errors.New("not human turn")
)

type Game struct {
	settings    GameSettings
	rules       Rules
	state       GameState
	history     MoveHistory
	blackPlayer IPlayer
	whitePlayer IPlayer
	turnStart   time.Time
}

func NewGame(settings GameSettings) Game {
	g := Game{}
	g.Reset(settings)
	return g
}

func (g *Game) Reset(settings GameSettings) {
	g.settings = settings
	g.rules = NewRules(settings)
	g.state.Reset(settings)
	g.history.Clear()
	g.createPlayers()
	g.turnStart = time.Now()
	g.logMatchup()
}

func (g *Game) Start() {
	if g.state.Status == StatusNotStarted {
		g.state.Status = StatusRunning
		g.turnStart = time.Now()
	}
}

func (g *Game) Stop() {
	if g.state.Status == StatusRunning {
		g.state.Status = StatusNotStarted
	}
}

func (g *Game) State() GameState {
	return g.state.Clone()
}

func (g *Game) History() MoveHistory {
	return g.history
}

func (g *Game) TurnStartedAtMs() int64 {
	if g.turnStart.IsZero() {
		return 0
	}
	return g.turnStart.UnixMilli()
}

func (g *Game) TryApplyMove(move Move) error {
	return g.applyMove(move, nil)
}

func (g *Game) applyMove(move Move, result *SearchResult) error {
	if g.state.Status != StatusRunning {
		return ErrGameNotRunning
	}
	if err := g.rules.IsLegal(g.state, move); err != nil {
		g.state.LastMessage = err.Error()
		return err
	}
	mover := g.state.ToMove
	elapsedMs := float64(time.Since(g.turnStart).Milliseconds())
	g.state.Grid.Place(move.X, move.Y, CellFromPlayer(mover))
	g.state.LastMove = move
	g.state.HasLastMove = true
	g.state.LastMessage = ""
	g.state.WinningLine = nil
	g.state.StonesPlaced++

	entry := HistoryEntry{Move: move, Player: mover, ElapsedMs: elapsedMs, IsAi: result != nil}
	if result != nil {
		entry.Value = result.Value
		entry.Nodes = result.Stats.Nodes
	}
	g.history.Push(entry)
	g.logMovePlayed(entry)

	if line, ok := g.rules.FindWinningLine(g.state.Grid, move); ok {
		g.state.WinningLine = line
		if mover == PlayerBlack {
			g.state.Status = StatusBlackWon
		} else {
			g.state.Status = StatusWhiteWon
		}
		g.logResult()
		return nil
	}
	if g.rules.IsDraw(g.state.Grid) {
		g.state.Status = StatusDraw
		g.logResult()
		return nil
	}
	g.state.ToMove = g.rules.PlayerForStone(g.state.StonesPlaced)
	if g.state.ToMove != mover {
		g.turnStart = time.Now()
	}
	return nil
}

// rootObserverFactory builds the root callback for one search by player at
// the given stone count. It may return nil.
type rootObserverFactory func(player PlayerColor, stones int) RootObserver

// Tick advances AI turns: it starts a search when the side to move is an
// idle AI and applies the answer once the worker has one. It reports whether
// a stone was placed.
func (g *Game) Tick(engine *Engine, observe rootObserverFactory) bool {
	if g.state.Status != StatusRunning || engine == nil {
		return false
	}
	ai, ok := g.currentPlayer().(*AIPlayer)
	if !ok {
		return false
	}
	if ai.HasMoveReady() {
		result, err := ai.TakeMove()
		if err != nil {
			log.Error().Err(err).Str("player", playerLabel(g.state.ToMove)).Msg("ai-search-failed")
			g.state.LastMessage = err.Error()
			return false
		}
		if err := g.applyMove(result.Move, &result); err != nil {
			log.Error().Err(err).Int("x", result.Move.X).Int("y", result.Move.Y).Msg("ai-move-rejected")
			return false
		}
		return true
	}
	if !ai.IsThinking() {
		var observer RootObserver
		if observe != nil {
			observer = observe(g.state.ToMove, g.state.StonesPlaced)
		}
		ai.StartThinking(g.state.Grid, CellFromPlayer(g.state.ToMove), engine, observer)
	}
	return false
}

func (g *Game) SubmitHumanMove(move Move) error {
	if g.state.Status != StatusRunning {
		return ErrGameNotRunning
	}
	if !g.CurrentPlayerIsHuman() {
		return ErrNotHumanTurn
	}
	return g.TryApplyMove(move)
}

func (g *Game) CurrentPlayerIsHuman() bool {
	player := g.currentPlayer()
	return player != nil && player.IsHuman()
}

func (g *Game) AiThinking() bool {
	ai, ok := g.currentPlayer().(*AIPlayer)
	return ok && ai.IsThinking()
}

func (g *Game) currentPlayer() IPlayer {
	return g.playerForColor(g.state.ToMove)
}

func (g *Game) playerForColor(color PlayerColor) IPlayer {
	if color == PlayerBlack {
		return g.blackPlayer
	}
	return g.whitePlayer
}

func (g *Game) createPlayers() {
	g.blackPlayer = newPlayer(g.settings.BlackType)
	g.whitePlayer = newPlayer(g.settings.WhiteType)
}

func newPlayer(kind PlayerType) IPlayer {
	if kind == PlayerAI {
		return NewAIPlayer()
	}
	return NewHumanPlayer()
}

func playerLabel(color PlayerColor) string {
	if color == PlayerBlack {
		return "black"
	}
	return "white"
}

func statusLabel(status GameStatus) string {
	switch status {
	case StatusRunning:
		return "running"
	case StatusBlackWon:
		return "black_won"
	case StatusWhiteWon:
		return "white_won"
	case StatusDraw:
		return "draw"
	default:
		return "not_started"
	}
}

func (g *Game) logMatchup() {
	label := func(t PlayerType) string {
		if t == PlayerAI {
			return "AI"
		}
		return "Human"
	}
	log.Debug().
		Str("matchup", fmt.Sprintf("Black (%s) vs White (%s)", label(g.settings.BlackType), label(g.settings.WhiteType))).
		Int("board_size", g.settings.BoardSize).
		Msg("game-reset")
}

func (g *Game) logMovePlayed(entry HistoryEntry) {
	log.Debug().
		Str("player", playerLabel(entry.Player)).
		Int("x", entry.Move.X).
		Int("y", entry.Move.Y).
		Float64("elapsed_ms", entry.ElapsedMs).
		Bool("ai", entry.IsAi).
		Int("stone", g.state.StonesPlaced).
		Msg("move-played")
}

func (g *Game) logResult() {
	log.Info().
		Str("status", statusLabel(g.state.Status)).
		Int("stones", g.state.StonesPlaced).
		Msg("game-over")
}
