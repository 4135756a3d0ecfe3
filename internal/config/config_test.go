package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.BoardSize = 3
	cfg.TimeLimitSeconds = 0
	cfg.TTBuckets = 0
	cfg.LogLevel = "loud"
	cfg.PersistTT = true
	cfg.TTSnapshotPath = ""

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	for _, fragment := range []string{
		"board_size",
		"time_limit_seconds",
		"tt_buckets",
		"log_level",
		"tt_snapshot_path",
	} {
		require.Contains(t, msg, fragment)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"board_size": 11, "order_moves": false}`), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 11, cfg.BoardSize)
	require.False(t, cfg.OrderMoves)
	require.Equal(t, Default().TTSize, cfg.TTSize, "unset fields keep their defaults")
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"board_size": 2}`), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestStoreGetSet(t *testing.T) {
	s := NewStore(Default())
	cfg := s.Get()
	cfg.BoardSize = 9
	s.Set(cfg)
	require.Equal(t, 9, s.Get().BoardSize)
}
