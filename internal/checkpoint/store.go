package checkpoint

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

func (s *implStore) path(folder string) string {
	return filepath.Join(folder, FileName)
}

func (s *implStore) Load(folder string) Checkpoint {
	ctx := context.Background()

	data, err := os.ReadFile(s.path(folder))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn(ctx, "Could not read checkpoint in %s, starting fresh: %v", folder, err)
		}
		return Checkpoint{}
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		s.logger.Warn(ctx, "Corrupt checkpoint in %s, starting fresh: %v", folder, err)
		return Checkpoint{}
	}
	return cp
}

func (s *implStore) Save(folder string, cp Checkpoint) {
	ctx := context.Background()

	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		s.logger.Warn(ctx, "Could not encode checkpoint for %s: %v", folder, err)
		return
	}
	if err := writeFileAtomic(s.path(folder), append(data, '\n'), 0644); err != nil {
		s.logger.Warn(ctx, "Could not save checkpoint for %s: %v", folder, err)
		return
	}
	s.logger.Debug(ctx, "Checkpoint saved: %s", s.path(folder))
}

func (s *implStore) Lock(folder string) func() {
	key := filepath.Clean(folder)

	s.mu.Lock()
	m, ok := s.locks[key]
	if !ok {
		m = &sync.Mutex{}
		s.locks[key] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// writeFileAtomic writes to a sibling temp file and renames it over path, so a
// reader never observes a half-written record.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}
