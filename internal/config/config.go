package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"gomoku-solver/internal/board"
)

// Config is the engine's runtime configuration. Zero values are never used
// directly; start from Default and override.
type Config struct {
	BoardSize        int    `json:"board_size"`
	TimeLimitSeconds int    `json:"time_limit_seconds"`
	TTSize           int    `json:"tt_size"`
	TTBuckets        int    `json:"tt_buckets"`
	OrderMoves       bool   `json:"order_moves"`
	TTSnapshotPath   string `json:"tt_snapshot_path"`
	PersistTT        bool   `json:"persist_tt"`
	LogLevel         string `json:"log_level"`

	Weights board.Weights `json:"weights"`
}

func Default() Config {
	return Config{
		BoardSize:        7,
		TimeLimitSeconds: 1,
		TTSize:           1 << 20,
		TTBuckets:        4,
		OrderMoves:       true,
		TTSnapshotPath:   "",
		PersistTT:        false,
		LogLevel:         "info",
		Weights:          board.DefaultWeights(),
	}
}

// Load reads a JSON config file over the defaults. An empty path returns
// the defaults untouched.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// Validate collects every problem instead of stopping at the first.
func (c Config) Validate() error {
	var result *multierror.Error
	if c.BoardSize < 5 || c.BoardSize > 25 {
		result = multierror.Append(result, fmt.Errorf("board_size %d out of range [5, 25]", c.BoardSize))
	}
	if c.TimeLimitSeconds < 1 || c.TimeLimitSeconds > 100 {
		result = multierror.Append(result, fmt.Errorf("time_limit_seconds %d out of range [1, 100]", c.TimeLimitSeconds))
	}
	if c.TTSize < 1024 {
		result = multierror.Append(result, fmt.Errorf("tt_size %d too small, want >= 1024", c.TTSize))
	}
	if c.TTBuckets < 1 || c.TTBuckets > 16 {
		result = multierror.Append(result, fmt.Errorf("tt_buckets %d out of range [1, 16]", c.TTBuckets))
	}
	if c.PersistTT && c.TTSnapshotPath == "" {
		result = multierror.Append(result, fmt.Errorf("persist_tt enabled but tt_snapshot_path is empty"))
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		result = multierror.Append(result, fmt.Errorf("log_level %q not recognized", c.LogLevel))
	}
	return result.ErrorOrNil()
}

// Store is a concurrency-safe holder for the active config.
type Store struct {
	mu  sync.RWMutex
	cfg Config
}

func NewStore(cfg Config) *Store {
	return &Store{cfg: cfg}
}

func (s *Store) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *Store) Set(cfg Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}
