// Package snapshot saves a built ACTION/GOTO table to a compact binary
// file tagged with a hash of the originating grammar source, and loads it
// back. cmd/rillc uses only HashGrammar from this package: it neither saves
// nor loads snapshots and rebuilds the canonical collection on every run.
// Grounded on github.com/dekarrin/tunaq's
// server/dao/sqlite package, which uses github.com/dekarrin/rezi's
// EncBinary/DecBinary to serialize arbitrary game state to a binary blob
// for storage — the same "serialize internal state compactly and reload
// it" concern, applied here to compiler tables instead of session state.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/dekarrin/rezi"
	"github.com/google/uuid"

	"github.com/stonebound/rillc/internal/lrtable"
)

// Snapshot is the portable, rezi-serializable form of a built table: plain
// slices and maps of ints rather than the live *grammar.Grammar-backed
// lrtable.Table, so it round-trips through rezi without needing to encode
// the grammar itself.
type Snapshot struct {
	GrammarHash string
	RunID       string
	NumStates   int
	Action      []map[int][]ActionEntry
	Goto        []map[int]int
}

// ActionEntry is the serializable form of an lrtable.Action.
type ActionEntry struct {
	Kind   int
	Target uint32
}

// HashGrammar returns the hex-encoded SHA-256 of grammar source text, used
// as the cache key.
func HashGrammar(src string) string {
	sum := sha256.Sum256([]byte(src))
	return hex.EncodeToString(sum[:])
}

// FromTable converts a built table into its portable Snapshot form.
func FromTable(t *lrtable.Table, grammarHash string) Snapshot {
	snap := Snapshot{
		GrammarHash: grammarHash,
		RunID:       uuid.NewString(),
		NumStates:   len(t.Action),
		Action:      make([]map[int][]ActionEntry, len(t.Action)),
		Goto:        make([]map[int]int, len(t.Goto)),
	}
	for i, cell := range t.Action {
		entries := make(map[int][]ActionEntry, len(cell))
		for term, acts := range cell {
			list := make([]ActionEntry, len(acts))
			for j, a := range acts {
				list[j] = ActionEntry{Kind: int(a.Kind), Target: a.Target}
			}
			entries[term] = list
		}
		snap.Action[i] = entries
	}
	for i, g := range t.Goto {
		snap.Goto[i] = g
	}
	return snap
}

// Save writes the snapshot to path in rezi's binary form.
func Save(path string, snap Snapshot) error {
	data := rezi.EncBinary(snap)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("snapshot: writing %s: %w", path, err)
	}
	return nil
}

// Load reads and decodes a snapshot previously written by Save. Callers
// must check Snapshot.GrammarHash against the current grammar's hash
// before trusting the cached tables.
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: reading %s: %w", path, err)
	}
	var snap Snapshot
	if _, err := rezi.DecBinary(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: decoding %s: %w", path, err)
	}
	return snap, nil
}
