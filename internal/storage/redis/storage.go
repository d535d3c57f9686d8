package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/valnor-game/valnor/internal/model"
	"github.com/valnor-game/valnor/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Snapshot operations

func (s *Storage) GetSnapshot(ctx context.Context, clientID model.ClientID, key storage.SnapshotKey) ([]byte, error) {
	data, err := s.client.Get(ctx, snapshotKey(clientID, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSnapshotNotFound
		}
		return nil, err
	}
	return data, nil
}

// PutSnapshot stores data and refreshes the TTL of every snapshot for the client,
// so an active client never loses part of its state to expiry
func (s *Storage) PutSnapshot(ctx context.Context, clientID model.ClientID, key storage.SnapshotKey, data []byte) error {
	pipe := s.client.Pipeline()
	pipe.Set(ctx, snapshotKey(clientID, key), data, s.cfg.SnapshotTTL)
	if s.cfg.SnapshotTTL > 0 {
		for _, other := range storage.SnapshotKeys {
			if other != key {
				pipe.Expire(ctx, snapshotKey(clientID, other), s.cfg.SnapshotTTL)
			}
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) DeleteSnapshot(ctx context.Context, clientID model.ClientID, key storage.SnapshotKey) error {
	return s.client.Del(ctx, snapshotKey(clientID, key)).Err()
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	owner, err := s.client.Get(ctx, usernameIndexKey(account.Username)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if err == nil && model.AccountID(owner) != account.ID {
		return model.ErrAccountExists
	}

	data, err := json.Marshal(account)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, accountKey(account.ID), data, 0) // No TTL
	pipe.Set(ctx, usernameIndexKey(account.Username), string(account.ID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	data, err := s.client.Get(ctx, accountKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	// Look up account ID from username index
	id, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	return s.GetAccount(ctx, model.AccountID(id))
}
