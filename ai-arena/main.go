package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const arenaWinLength = 6

// engineProfile is one side of an A/B match: the search shape sent with every
// move request.
type engineProfile struct {
	Name  string `json:"name"`
	Depth int    `json:"depth"`
	Width int    `json:"width"`
}

type openingMove struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type engineMoveRequest struct {
	Rows  [][]int `json:"rows"`
	Color int     `json:"color"`
	Depth int     `json:"depth,omitempty"`
	Width int     `json:"width,omitempty"`
}

type engineMoveResponse struct {
	Move struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"move"`
	Value  int  `json:"value"`
	Cached bool `json:"cached"`
}

type gameResult struct {
	Winner int
	Stones int
}

type tally struct {
	WinsA  int `json:"wins_a"`
	WinsB  int `json:"wins_b"`
	Draws  int `json:"draws"`
	Games  int `json:"games"`
	Stones int `json:"stones"`
}

// Score is A's share of the points, draws counting half.
func (t tally) Score() float64 {
	if t.Games == 0 {
		return 0
	}
	return (float64(t.WinsA) + 0.5*float64(t.Draws)) / float64(t.Games)
}

type arena struct {
	client       *http.Client
	baseURL      string
	boardSize    int
	openingPlies int
	maxStones    int
	rng          *rand.Rand
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	baseURL := getenv("BACKEND_URL", "http://localhost:8080")
	games := getenvInt("ARENA_GAMES", 10)
	boardSize := getenvInt("ARENA_BOARD_SIZE", 19)
	seed := int64(getenvInt("ARENA_SEED", int(time.Now().Unix())))
	profileA := engineProfile{
		Name:  "A",
		Depth: getenvInt("ARENA_A_DEPTH", 3),
		Width: getenvInt("ARENA_A_WIDTH", 10),
	}
	profileB := engineProfile{
		Name:  "B",
		Depth: getenvInt("ARENA_B_DEPTH", 2),
		Width: getenvInt("ARENA_B_WIDTH", 10),
	}

	a := &arena{
		client:       &http.Client{Timeout: time.Duration(getenvInt("ARENA_REQUEST_TIMEOUT_SEC", 120)) * time.Second},
		baseURL:      baseURL,
		boardSize:    boardSize,
		openingPlies: getenvInt("ARENA_OPENING_STONES", 3),
		maxStones:    boardSize * boardSize,
		rng:          rand.New(rand.NewSource(seed)),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("backend", baseURL).
		Int("games", games).
		Interface("a", profileA).
		Interface("b", profileB).
		Int64("seed", seed).
		Msg("arena-start")

	if err := a.waitBackendReady(ctx); err != nil {
		log.Fatal().Err(err).Msg("backend-unreachable")
	}
	result, err := a.run(ctx, games, profileA, profileB)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("arena-failed")
	}
	log.Info().
		Int("games", result.Games).
		Int("wins_a", result.WinsA).
		Int("wins_b", result.WinsB).
		Int("draws", result.Draws).
		Float64("score_a", result.Score()).
		Msg("arena-done")
}

// run plays games between a and b, swapping colors every game. Each pair of
// games shares one random opening.
func (ar *arena) run(ctx context.Context, games int, a, b engineProfile) (tally, error) {
	var result tally
	var opening []openingMove
	for i := 0; i < games; i++ {
		if i%2 == 0 {
			opening = ar.buildOpening()
		}
		black, white := a, b
		if i%2 == 1 {
			black, white = b, a
		}
		game, err := ar.playGame(ctx, black, white, opening)
		if err != nil {
			return result, err
		}
		result.Games++
		result.Stones += game.Stones
		switch {
		case game.Winner == 0:
			result.Draws++
		case (game.Winner == 1) == (black.Name == a.Name):
			result.WinsA++
		default:
			result.WinsB++
		}
		log.Info().
			Int("game", i+1).
			Str("black", black.Name).
			Str("white", white.Name).
			Int("winner", game.Winner).
			Int("stones", game.Stones).
			Msg("game-finished")
	}
	return result, nil
}

func (ar *arena) playGame(ctx context.Context, black, white engineProfile, opening []openingMove) (gameResult, error) {
	rows := make([][]int, ar.boardSize)
	for y := range rows {
		rows[y] = make([]int, ar.boardSize)
	}
	stones := 0
	for stones < ar.maxStones {
		if ctx.Err() != nil {
			return gameResult{}, ctx.Err()
		}
		color := colorForStone(stones)
		var move openingMove
		if stones < len(opening) {
			move = opening[stones]
		} else {
			profile := black
			if color == 2 {
				profile = white
			}
			resp, err := ar.requestMove(rows, color, profile)
			if err != nil {
				return gameResult{}, fmt.Errorf("stone %d: %w", stones, err)
			}
			move = openingMove{X: resp.Move.X, Y: resp.Move.Y}
		}
		if rows[move.Y][move.X] != 0 {
			return gameResult{}, fmt.Errorf("stone %d: engine answered occupied cell (%d,%d)", stones, move.X, move.Y)
		}
		rows[move.Y][move.X] = color
		stones++
		if makesSix(rows, move.X, move.Y) {
			return gameResult{Winner: color, Stones: stones}, nil
		}
	}
	return gameResult{Winner: 0, Stones: stones}, nil
}

// colorForStone is the connect-six turn order: Black opens with one stone,
// then each side places two.
func colorForStone(k int) int {
	if k == 0 {
		return 1
	}
	if ((k-1)/2)%2 == 0 {
		return 2
	}
	return 1
}

func makesSix(rows [][]int, x, y int) bool {
	color := rows[y][x]
	if color == 0 {
		return false
	}
	size := len(rows)
	for _, d := range [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}} {
		count := 1
		for _, sign := range []int{1, -1} {
			cx, cy := x+sign*d[0], y+sign*d[1]
			for cx >= 0 && cy >= 0 && cx < size && cy < size && rows[cy][cx] == color {
				count++
				cx += sign * d[0]
				cy += sign * d[1]
			}
		}
		if count >= arenaWinLength {
			return true
		}
	}
	return false
}

// buildOpening scatters a few stones around the center so paired games do
// not replay the same line.
func (ar *arena) buildOpening() []openingMove {
	center := ar.boardSize / 2
	offsets := []openingMove{
		{0, 0}, {1, 0}, {0, 1}, {-1, 0}, {0, -1}, {1, 1}, {-1, -1}, {1, -1}, {-1, 1}, {2, 0}, {0, 2},
	}
	used := map[[2]int]bool{}
	opening := make([]openingMove, 0, ar.openingPlies)
	for len(opening) < ar.openingPlies && len(used) < len(offsets) {
		off := offsets[ar.rng.Intn(len(offsets))]
		x := center + off.X
		y := center + off.Y
		if x < 0 || y < 0 || x >= ar.boardSize || y >= ar.boardSize {
			continue
		}
		key := [2]int{x, y}
		if used[key] {
			continue
		}
		used[key] = true
		opening = append(opening, openingMove{X: x, Y: y})
	}
	return opening
}

func (ar *arena) requestMove(rows [][]int, color int, profile engineProfile) (engineMoveResponse, error) {
	var resp engineMoveResponse
	err := ar.postJSON("/api/engine/move", engineMoveRequest{
		Rows:  rows,
		Color: color,
		Depth: profile.Depth,
		Width: profile.Width,
	}, &resp)
	return resp, err
}

func (ar *arena) waitBackendReady(ctx context.Context) error {
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		if err := ar.ping(); err == nil {
			return nil
		}
		if !sleepWithContext(ctx, time.Second) {
			return ctx.Err()
		}
	}
	return fmt.Errorf("timeout after 60s")
}

func (ar *arena) ping() error {
	resp, err := ar.client.Get(ar.baseURL + "/api/ping")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping status %d", resp.StatusCode)
	}
	return nil
}

func (ar *arena) postJSON(path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, ar.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := ar.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("POST %s -> %d: %s", path, resp.StatusCode, string(respBody))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var parsed int
	if _, err := fmt.Sscanf(value, "%d", &parsed); err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
