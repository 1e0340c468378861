package feed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Store reads and rewrites the feed files under a site root.
//
// Writes are read-modify-write with no locking: two concurrent writers on
// the same feed can lose an update. Each rewrite goes through a temp file
// and a rename so a reader never sees a half-written array.
type Store struct {
	root   string
	logger *zap.Logger
}

// StoreOption configures the Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for store activity.
func WithLogger(logger *zap.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a store rooted at the site directory.
func NewStore(root string, opts ...StoreOption) *Store {
	s := &Store{root: root, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the absolute location of a feed's backing file.
func (s *Store) Path(cfg Config) string {
	return filepath.Join(s.root, filepath.FromSlash(cfg.File))
}

// Load returns the entries of a feed. A missing file is an empty feed.
func (s *Store) Load(cfg Config) ([]Entry, error) {
	data, err := s.read(cfg)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(data))
	for i, raw := range data {
		var e Entry
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("failed to parse entry %d of %s: %w", i, cfg.File, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Prepend puts entry at the head of the feed and rewrites the file.
// Existing records are carried over as-is, including fields this
// package does not model.
func (s *Store) Prepend(cfg Config, entry Entry) error {
	existing, err := s.read(cfg)
	if err != nil {
		return err
	}

	encoded, err := marshalRaw(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	data := make([]json.RawMessage, 0, len(existing)+1)
	data = append(data, encoded)
	data = append(data, existing...)

	return s.write(cfg, data)
}

func (s *Store) read(cfg Config) ([]json.RawMessage, error) {
	path := s.Path(cfg)
	raw, err := os.ReadFile(path) // #nosec G304 -- path comes from the fixed feed table
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("feed file missing, starting empty", zap.String("path", path))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read feed: %w", err)
	}

	var data []json.RawMessage
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", cfg.File, err)
	}
	return data, nil
}

func (s *Store) write(cfg Config, data []json.RawMessage) error {
	path := s.Path(cfg)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	out, err := Encode(data)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(out); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write feed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write feed: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to write feed: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace feed: %w", err)
	}

	s.logger.Debug("feed written", zap.String("path", path), zap.Int("entries", len(data)))
	return nil
}

// Encode renders v the way feed files are stored: 2-space indent,
// no HTML escaping, trailing newline.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode feed: %w", err)
	}
	return buf.Bytes(), nil
}

// marshalRaw is json.Marshal without HTML escaping. RawMessage bytes are
// copied into the file as they are, so escaping must never happen here.
func marshalRaw(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
