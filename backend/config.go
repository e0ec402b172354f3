package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	defaultSearchDepth    = 5
	defaultCandidateWidth = 10
	defaultBoardSize      = 19
	minBoardSize          = 6

	// Ceilings for client-supplied search shapes and board sizes. The tree
	// grows as width^depth and the grid as size^2.
	maxSearchDepth    = 6
	maxCandidateWidth = 20
	maxBoardSize      = 39
)

type EngineConfig struct {
	Depth          int         `json:"depth"`
	CandidateWidth int         `json:"candidate_width"`
	BoardSize      int         `json:"board_size"`
	LogSearchStats bool        `json:"log_search_stats"`
	Shapes         ShapeScores `json:"shapes"`
}

// ShapeScores maps every shape category to its value. The same table is
// used per color for candidate ranking and as Black minus White at leaves.
type ShapeScores struct {
	ConnectSix    int `json:"connect_six"`
	LiveFive      int `json:"live_five"`
	SleepingFive  int `json:"sleeping_five"`
	LiveFour      int `json:"live_four"`
	SleepingFour  int `json:"sleeping_four"`
	LiveThree     int `json:"live_three"`
	BlurredThree  int `json:"blurred_three"`
	SleepingThree int `json:"sleeping_three"`
	LiveTwo       int `json:"live_two"`
	SleepingTwo   int `json:"sleeping_two"`
}

func DefaultShapeScores() ShapeScores {
	return ShapeScores{
		ConnectSix:    500000,
		LiveFive:      50000,
		SleepingFive:  10000,
		LiveFour:      5000,
		SleepingFour:  1000,
		LiveThree:     500,
		BlurredThree:  300,
		SleepingThree: 100,
		LiveTwo:       100,
		SleepingTwo:   50,
	}
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Depth:          defaultSearchDepth,
		CandidateWidth: defaultCandidateWidth,
		BoardSize:      defaultBoardSize,
		LogSearchStats: false,
		Shapes:         DefaultShapeScores(),
	}
}

func (c EngineConfig) Validate() error {
	if c.Depth < 1 || c.Depth > maxSearchDepth {
		return fmt.Errorf("%w: depth %d must be within 1..%d", ErrInvalidConfig, c.Depth, maxSearchDepth)
	}
	if c.CandidateWidth < 1 || c.CandidateWidth > maxCandidateWidth {
		return fmt.Errorf("%w: candidate width %d must be within 1..%d", ErrInvalidConfig, c.CandidateWidth, maxCandidateWidth)
	}
	if err := validateBoardSize(c.BoardSize); err != nil {
		return err
	}
	if c.Shapes.ConnectSix <= 0 {
		return fmt.Errorf("%w: connect-six score must be positive", ErrInvalidConfig)
	}
	return nil
}

func validateBoardSize(size int) error {
	if size < minBoardSize || size > maxBoardSize {
		return fmt.Errorf("%w: board size %d must be within %d..%d", ErrInvalidConfig, size, minBoardSize, maxBoardSize)
	}
	return nil
}

// withDefaults fills zero-valued fields, so a partial JSON payload keeps the
// stock tuning for whatever it leaves out.
func (c EngineConfig) withDefaults() EngineConfig {
	def := DefaultEngineConfig()
	if c.Depth == 0 {
		c.Depth = def.Depth
	}
	if c.CandidateWidth == 0 {
		c.CandidateWidth = def.CandidateWidth
	}
	if c.BoardSize == 0 {
		c.BoardSize = def.BoardSize
	}
	if c.Shapes == (ShapeScores{}) {
		c.Shapes = def.Shapes
	}
	return c
}

type Config struct {
	Addr           string       `json:"addr"`
	LogLevel       string       `json:"log_level"`
	ProfileDir     string       `json:"profile_dir"`
	AnalysisStream bool         `json:"analysis_stream"`
	AiThrottleMs   int          `json:"ai_throttle_ms"`
	MoveCacheLimit int          `json:"move_cache_limit"`
	Engine         EngineConfig `json:"engine"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		Addr:           ":8080",
		LogLevel:       "info",
		ProfileDir:     "",
		AnalysisStream: true,
		AiThrottleMs:   50,
		MoveCacheLimit: 4096,
		Engine:         DefaultEngineConfig(),
	}
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) error {
	newConfig.Engine = newConfig.Engine.withDefaults()
	if err := newConfig.Engine.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
	return nil
}

// LoadConfigFromEnv overlays CONNECT6_* variables on the defaults.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	cfg.Addr = getenv("CONNECT6_ADDR", cfg.Addr)
	cfg.LogLevel = getenv("CONNECT6_LOG_LEVEL", cfg.LogLevel)
	cfg.ProfileDir = getenv("CONNECT6_PROFILE_DIR", cfg.ProfileDir)
	cfg.AnalysisStream = getenvBool("CONNECT6_ANALYSIS_STREAM", cfg.AnalysisStream)
	cfg.AiThrottleMs = getenvInt("CONNECT6_AI_THROTTLE_MS", cfg.AiThrottleMs)
	cfg.MoveCacheLimit = getenvInt("CONNECT6_MOVE_CACHE_LIMIT", cfg.MoveCacheLimit)
	cfg.Engine.Depth = getenvInt("CONNECT6_DEPTH", cfg.Engine.Depth)
	cfg.Engine.CandidateWidth = getenvInt("CONNECT6_WIDTH", cfg.Engine.CandidateWidth)
	cfg.Engine.BoardSize = getenvInt("CONNECT6_BOARD_SIZE", cfg.Engine.BoardSize)
	cfg.Engine.LogSearchStats = getenvBool("CONNECT6_LOG_SEARCH_STATS", cfg.Engine.LogSearchStats)
	if err := cfg.Engine.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getenvBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}
