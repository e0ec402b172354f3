package main

type PlayerType int

const (
	PlayerHuman PlayerType = iota
	PlayerAI
)

type GameSettings struct {
	BoardSize       int        `json:"board_size"`
	BlackType       PlayerType `json:"-"`
	WhiteType       PlayerType `json:"-"`
	FirstTurnStones int        `json:"first_turn_stones"`
	StonesPerTurn   int        `json:"stones_per_turn"`
}

func DefaultGameSettings() GameSettings {
	return GameSettings{
		BoardSize:       defaultBoardSize,
		BlackType:       PlayerHuman,
		WhiteType:       PlayerAI,
		FirstTurnStones: 1,
		StonesPerTurn:   2,
	}
}
