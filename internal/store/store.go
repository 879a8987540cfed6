// Package store is the persistence collaborator: fire-and-forget
// snapshots of serialized game state. Writes happen on a background
// goroutine with atomic temp-file-and-rename semantics so a reader
// never observes a partial snapshot. Failures are logged and
// swallowed; the in-memory game state stays authoritative.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
)

// SnapshotStore persists JSON snapshots under a directory, one file
// per key.
type SnapshotStore struct {
	dir    string
	logger *log.Logger

	jobs chan job
	wg   sync.WaitGroup
	once sync.Once
}

type job struct {
	key    string
	data   []byte
	remove bool
}

// New creates a snapshot store rooted at dir, creating it if needed.
func New(dir string, logger *log.Logger) (*SnapshotStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot dir: %w", err)
	}
	s := &SnapshotStore{
		dir:    dir,
		logger: logger.WithPrefix("store"),
		jobs:   make(chan job, 16),
	}
	s.wg.Add(1)
	go s.writer()
	return s, nil
}

// Save serializes state and queues it for writing. It never blocks on
// disk and never reports failure to the caller.
func (s *SnapshotStore) Save(key string, state any) {
	data, err := json.Marshal(state)
	if err != nil {
		s.logger.Error("snapshot marshal failed", "key", key, "error", err)
		return
	}
	s.enqueue(job{key: key, data: data})
}

// Remove queues deletion of a snapshot.
func (s *SnapshotStore) Remove(key string) {
	s.enqueue(job{key: key, remove: true})
}

// Load reads a snapshot into the given value. Unlike Save it is
// synchronous: resuming a game is an explicit caller decision.
func (s *SnapshotStore) Load(key string, into any) error {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return fmt.Errorf("reading snapshot %q: %w", key, err)
	}
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("decoding snapshot %q: %w", key, err)
	}
	return nil
}

// Close drains pending writes and stops the writer.
func (s *SnapshotStore) Close() {
	s.once.Do(func() { close(s.jobs) })
	s.wg.Wait()
}

func (s *SnapshotStore) enqueue(j job) {
	defer func() {
		// Save on a closed store is a programming error upstream but
		// must not take the game down.
		if recover() != nil {
			s.logger.Error("snapshot dropped, store is closed", "key", j.key)
		}
	}()
	select {
	case s.jobs <- j:
	default:
		s.logger.Warn("snapshot queue full, dropping write", "key", j.key)
	}
}

func (s *SnapshotStore) writer() {
	defer s.wg.Done()
	for j := range s.jobs {
		if j.remove {
			if err := os.Remove(s.path(j.key)); err != nil && !os.IsNotExist(err) {
				s.logger.Error("snapshot remove failed", "key", j.key, "error", err)
			}
			continue
		}
		if err := writeAtomic(s.path(j.key), j.data); err != nil {
			s.logger.Error("snapshot write failed", "key", j.key, "error", err)
		}
	}
}

func (s *SnapshotStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// writeAtomic writes to a temp file in the target directory and
// renames it into place, so concurrent readers see either the old
// snapshot or the new one, never a torn write.
func writeAtomic(filename string, data []byte) error {
	dir, base := filepath.Dir(filename), filepath.Base(filename)
	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	tmp = nil

	if err := os.Rename(tmpPath, filename); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
