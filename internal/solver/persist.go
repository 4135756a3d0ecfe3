package solver

import (
	"encoding/gob"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// tableSnapshot is the on-disk form of a Table. Capacity and bucket count
// are stored so a snapshot written under a different table geometry is
// skipped instead of loaded into the wrong slots.
type tableSnapshot struct {
	Capacity int
	Buckets  int
	Entries  []Entry
}

// SaveTable writes the table's live entries to path with gob.
func SaveTable(path string, t *Table, log zerolog.Logger) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating table snapshot")
	}
	defer f.Close()

	snap := tableSnapshot{Capacity: t.Capacity(), Buckets: t.buckets}
	for _, e := range t.entries {
		if e.Valid {
			snap.Entries = append(snap.Entries, e)
		}
	}
	if err := gob.NewEncoder(f).Encode(&snap); err != nil {
		return errors.Wrap(err, "encoding table snapshot")
	}
	log.Info().Str("path", path).Int("entries", len(snap.Entries)).Msg("table snapshot saved")
	return nil
}

// LoadTable restores a snapshot into t. A missing file is not an error; a
// snapshot with mismatched geometry is skipped with a warning, never
// force-fitted.
func LoadTable(path string, t *Table, log zerolog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "opening table snapshot")
	}
	defer f.Close()

	var snap tableSnapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return errors.Wrap(err, "decoding table snapshot")
	}
	if snap.Capacity != t.Capacity() || snap.Buckets != t.buckets {
		log.Warn().
			Str("path", path).
			Int("snapshot_capacity", snap.Capacity).
			Int("table_capacity", t.Capacity()).
			Msg("table snapshot geometry mismatch, skipping")
		return nil
	}
	loaded := 0
	for _, e := range snap.Entries {
		if !e.Valid {
			continue
		}
		t.Store(e.Key, int(e.Depth), int(e.Score), e.Flag, e.BestMove)
		loaded++
	}
	log.Info().Str("path", path).Int("entries", loaded).Msg("table snapshot loaded")
	return nil
}
