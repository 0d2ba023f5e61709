package record

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Snapshot schema version. Bump when the on-disk shape changes.
const snapshotVersion = 1

// snapshot is the on-disk form of the store. Prospects are serialized as a
// sorted slice so snapshots of the same state are byte-identical.
type snapshot struct {
	Version   int        `json:"version"`
	Prospects []Prospect `json:"prospects"`
}

// persistLocked writes the current working set to the snapshot file.
// Callers must hold s.mu. Memory-only stores are a no-op.
//
// The write goes to a temp file in the same directory followed by a rename,
// so readers never observe a torn snapshot.
func (s *Store) persistLocked() error {
	if s.path == "" {
		return nil
	}

	snap := snapshot{Version: snapshotVersion, Prospects: make([]Prospect, 0, len(s.prospects))}
	for _, p := range s.prospects {
		snap.Prospects = append(snap.Prospects, p.clone())
	}
	sort.Slice(snap.Prospects, func(i, j int) bool { return snap.Prospects[i].ID < snap.Prospects[j].ID })

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".records-*.tmp")
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// load reads the snapshot file into the working set. A missing file is not
// an error; the store starts empty.
func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version > snapshotVersion {
		return fmt.Errorf("snapshot version %d is newer than supported version %d", snap.Version, snapshotVersion)
	}

	for i := range snap.Prospects {
		p := snap.Prospects[i]
		if p.Knocks == nil {
			p.Knocks = []Knock{}
		}
		if p.Notes == nil {
			p.Notes = []Note{}
		}
		// The cached count is recomputed at load rather than trusted.
		p.KnockCount = len(p.Knocks)
		s.prospects[p.ID] = &p
	}
	return nil
}
