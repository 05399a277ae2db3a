package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-redis/redis/v8"

	"pos-backoffice/internal/models"
)

// AuthState is the only part of the session that is persisted
type AuthState struct {
	Token string           `json:"token"`
	User  *models.AuthUser `json:"user"`
}

// Persisted is the value stored under the root key
type Persisted struct {
	Auth AuthState `json:"auth"`
}

// Slot stores one Persisted value. Load returns nil, nil when nothing is stored.
type Slot interface {
	Load(ctx context.Context) (*Persisted, error)
	Save(ctx context.Context, value Persisted) error
	Clear(ctx context.Context) error
}

// FileSlot keeps the value in a JSON file as {"<rootKey>": {...}}, leaving other keys untouched
type FileSlot struct {
	path    string
	rootKey string
	mutex   sync.Mutex
}

func NewFileSlot(path, rootKey string) *FileSlot {
	return &FileSlot{path: path, rootKey: rootKey}
}

func (s *FileSlot) readAll() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	all := map[string]json.RawMessage{}
	if len(data) == 0 {
		return all, nil
	}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("failed to decode session file: %w", err)
	}
	return all, nil
}

// writeAll replaces the file through a temp file and rename
func (s *FileSlot) writeAll(all map[string]json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

func (s *FileSlot) Load(_ context.Context) (*Persisted, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	all, err := s.readAll()
	if err != nil {
		return nil, err
	}
	raw, ok := all[s.rootKey]
	if !ok {
		return nil, nil
	}

	var value Persisted
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.rootKey, err)
	}
	return &value, nil
}

func (s *FileSlot) Save(_ context.Context, value Persisted) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	all, err := s.readAll()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", s.rootKey, err)
	}
	all[s.rootKey] = raw
	return s.writeAll(all)
}

func (s *FileSlot) Clear(_ context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	all, err := s.readAll()
	if err != nil {
		return err
	}
	if _, ok := all[s.rootKey]; !ok {
		return nil
	}
	delete(all, s.rootKey)
	return s.writeAll(all)
}

// RedisSlot keeps the value as a JSON string under the root key
type RedisSlot struct {
	rdb     *redis.Client
	rootKey string
}

// NewRedisSlot connects to redisURL and checks the connection
func NewRedisSlot(ctx context.Context, redisURL, rootKey string) (*RedisSlot, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSlot{rdb: rdb, rootKey: rootKey}, nil
}

func (s *RedisSlot) Load(ctx context.Context) (*Persisted, error) {
	val, err := s.rdb.Get(ctx, s.rootKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.rootKey, err)
	}

	var value Persisted
	if err := json.Unmarshal([]byte(val), &value); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.rootKey, err)
	}
	return &value, nil
}

func (s *RedisSlot) Save(ctx context.Context, value Persisted) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", s.rootKey, err)
	}
	return s.rdb.Set(ctx, s.rootKey, jsonData, 0).Err()
}

func (s *RedisSlot) Clear(ctx context.Context) error {
	return s.rdb.Del(ctx, s.rootKey).Err()
}

func (s *RedisSlot) Close() error {
	return s.rdb.Close()
}
