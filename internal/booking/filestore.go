package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/m3rciful/ticketbot/core/logger"
)

// DefaultPath is where the file store keeps bookings when no path is configured.
const DefaultPath = "bookings.json"

// FileStore keeps all bookings in one indented JSON document.
// Read-modify-write cycles are serialised inside the process; other processes
// writing the same file are not coordinated.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by the JSON file at path.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPath
	}
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Load reads the file. A missing or unparseable file yields an empty store.
func (s *FileStore) Load(ctx context.Context) (Bookings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Save overwrites the file with b.
func (s *FileStore) Save(ctx context.Context, b Bookings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, b)
}

// Append adds rec for userID and writes the file back.
func (s *FileStore) Append(ctx context.Context, userID string, rec Record) error {
	return s.update(ctx, func(b Bookings) {
		b.Append(userID, rec)
	})
}

// Remove drops the user's records with ref and writes the file back.
func (s *FileStore) Remove(ctx context.Context, userID, ref string) (int, error) {
	var removed int
	err := s.update(ctx, func(b Bookings) {
		removed = b.Remove(userID, ref)
	})
	return removed, err
}

// List returns the user's records.
func (s *FileStore) List(ctx context.Context, userID string) ([]Record, error) {
	b, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return b[userID], nil
}

func (s *FileStore) update(ctx context.Context, fn func(Bookings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.load(ctx)
	if err != nil {
		return err
	}
	fn(b)
	return s.save(ctx, b)
}

func (s *FileStore) load(ctx context.Context) (Bookings, error) {
	start := time.Now()
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.LogEvent(ctx, logger.Store, slog.LevelDebug, "store.load",
			slog.String("status", "skip"),
			slog.String("path", s.path),
			slog.String("cause", "missing"),
		)
		return Bookings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read bookings file: %w", err)
	}

	b := Bookings{}
	if err := json.Unmarshal(data, &b); err != nil {
		logger.LogEvent(ctx, logger.Store, slog.LevelWarn, "store.load.corrupt",
			slog.String("status", "fail"),
			slog.String("path", s.path),
			slog.String("err", err.Error()),
		)
		return Bookings{}, nil
	}
	if b == nil {
		b = Bookings{}
	}

	logger.LogEvent(ctx, logger.Store, slog.LevelDebug, "store.load",
		slog.String("status", "ok"),
		slog.String("path", s.path),
		slog.Int("users", len(b)),
		slog.Int("bookings", b.Count()),
		slog.Duration("duration", time.Since(start)),
	)
	return b, nil
}

func (s *FileStore) save(ctx context.Context, b Bookings) error {
	start := time.Now()
	if b == nil {
		b = Bookings{}
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("encode bookings: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp bookings file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write bookings file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close bookings file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace bookings file: %w", err)
	}

	logger.LogEvent(ctx, logger.Store, slog.LevelDebug, "store.save",
		slog.String("status", "ok"),
		slog.String("path", s.path),
		slog.Int("users", len(b)),
		slog.Int("bookings", b.Count()),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}
