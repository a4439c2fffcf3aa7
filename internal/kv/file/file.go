package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/kv"
)

// Store keeps every key in a single JSON file, rewritten on each change.
type Store struct {
	mu   sync.RWMutex
	file *os.File
	data map[string]json.RawMessage
}

// Open opens or creates the store file at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening store file: %w", err)
	}

	s := &Store{file: f, data: make(map[string]json.RawMessage)}
	if err := s.load(); err != nil {
		_ = f.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error { return s.file.Close() }

func (s *Store) load() error {
	info, err := s.file.Stat()
	if err != nil {
		return fmt.Errorf("stat store file: %w", err)
	}

	if info.Size() == 0 {
		return nil
	}

	if err := json.NewDecoder(s.file).Decode(&s.data); err != nil {
		return fmt.Errorf("decoding store file: %w", err)
	}

	return nil
}

func (s *Store) flushLocked(data map[string]json.RawMessage) error {
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seeking store file: %w", err)
	}

	enc := json.NewEncoder(s.file)
	enc.SetIndent("", "  ")

	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding store file: %w", err)
	}

	pos, err := s.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("seeking store file: %w", err)
	}

	if err := s.file.Truncate(pos); err != nil {
		return fmt.Errorf("truncating store file: %w", err)
	}

	return s.file.Sync()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, kv.ErrNotFound
	}

	return slices.Clone([]byte(v)), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for %s is not valid JSON", key)
	}

	return s.withWrite(ctx, func(data map[string]json.RawMessage) {
		data[key] = slices.Clone(json.RawMessage(value))
	})
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.withWrite(ctx, func(data map[string]json.RawMessage) {
		delete(data, key)
	})
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys, nil
}

// withWrite applies fn to a copy of the data and keeps the copy only once it
// is on disk.
func (s *Store) withWrite(ctx context.Context, fn func(data map[string]json.RawMessage)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	next := maps.Clone(s.data)
	if next == nil {
		next = make(map[string]json.RawMessage)
	}

	fn(next)

	if err := s.flushLocked(next); err != nil {
		return err
	}

	s.data = next

	return nil
}
