package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/bitcorise/earnbot/internal/domain"
)

// State is the single snapshot document. The layout (three top-level
// collections, "withdrawals" kept for backward compatibility) is part of the
// external interface and is loaded wholesale at startup and rewritten after
// every mutation.
type State struct {
	Users          map[string]*domain.Account       `json:"users"`
	Withdrawals    []json.RawMessage                `json:"withdrawals"`
	PayoutRequests map[string]*domain.PayoutRequest `json:"payout_requests"`
}

// ErrNoChange may be returned by an Update closure to signal that no
// mutation happened; the write is skipped and Update returns nil.
var ErrNoChange = errors.New("no change")

// Store owns the snapshot document. All reads and writes are serialized
// behind one mutex; the persistence write happens inside the same critical
// section as the in-memory mutation, so the two never diverge.
type Store struct {
	mu    sync.Mutex
	path  string
	state *State
}

// Open loads the snapshot from path. A missing file is not an error and
// initializes empty collections.
func Open(path string) (*Store, error) {
	s := &Store{path: path, state: emptyState()}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Info("no snapshot found, starting fresh", "path", path)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	if err := unmarshalState(data, s.state); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	slog.Info("snapshot loaded",
		"path", path,
		"users", len(s.state.Users),
		"withdrawals", len(s.state.Withdrawals),
		"payout_requests", len(s.state.PayoutRequests),
	)
	return s, nil
}

// View runs fn with read access to the state. fn must not retain pointers
// past its return.
func (s *Store) View(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

// Update runs fn against the state and persists the full snapshot before
// returning. If fn errors or the write fails, the in-memory state is rolled
// back to what it was before the call.
func (s *Store) Update(fn func(st *State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	backup, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("snapshot state: %w", err)
	}

	if err := fn(s.state); err != nil {
		if errors.Is(err, ErrNoChange) {
			return nil
		}
		s.rollback(backup)
		return err
	}

	if err := s.persist(); err != nil {
		s.rollback(backup)
		return fmt.Errorf("persist snapshot: %w", err)
	}
	return nil
}

// Flush rewrites the snapshot without mutating state.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}
	return nil
}

func (s *Store) rollback(backup []byte) {
	restored := emptyState()
	if err := unmarshalState(backup, restored); err != nil {
		// The backup came from marshaling this very state, so this is
		// unreachable short of memory corruption.
		slog.Error("snapshot rollback failed", "error", err)
		return
	}
	s.state = restored
}

// persist writes the document atomically: temp file in the same directory,
// then rename over the target.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func emptyState() *State {
	return &State{
		Users:          make(map[string]*domain.Account),
		Withdrawals:    []json.RawMessage{},
		PayoutRequests: make(map[string]*domain.PayoutRequest),
	}
}

func unmarshalState(data []byte, st *State) error {
	if err := json.Unmarshal(data, st); err != nil {
		return err
	}
	if st.Users == nil {
		st.Users = make(map[string]*domain.Account)
	}
	if st.Withdrawals == nil {
		st.Withdrawals = []json.RawMessage{}
	}
	if st.PayoutRequests == nil {
		st.PayoutRequests = make(map[string]*domain.PayoutRequest)
	}
	// Request IDs live as map keys in the document.
	for id, req := range st.PayoutRequests {
		req.ID = id
	}
	return nil
}
