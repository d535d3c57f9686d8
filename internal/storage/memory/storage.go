package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/valnor-game/valnor/internal/model"
	"github.com/valnor-game/valnor/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	snapshots     map[snapshotKey][]byte
	accounts      map[model.AccountID]*model.Account
	usernameIndex map[string]model.AccountID
}

type snapshotKey struct {
	clientID model.ClientID
	key      storage.SnapshotKey
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		snapshots:     make(map[snapshotKey][]byte),
		accounts:      make(map[model.AccountID]*model.Account),
		usernameIndex: make(map[string]model.AccountID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Close is a no-op for memory storage
func (s *Storage) Close() error {
	return nil
}

// Snapshot operations

func (s *Storage) GetSnapshot(ctx context.Context, clientID model.ClientID, key storage.SnapshotKey) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.snapshots[snapshotKey{clientID, key}]
	if !ok {
		return nil, model.ErrSnapshotNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *Storage) PutSnapshot(ctx context.Context, clientID model.ClientID, key storage.SnapshotKey, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snapshotKey{clientID, key}] = append([]byte(nil), data...)
	return nil
}

func (s *Storage) DeleteSnapshot(ctx context.Context, clientID model.ClientID, key storage.SnapshotKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, snapshotKey{clientID, key})
	return nil
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username := normalizeUsername(account.Username)
	if owner, ok := s.usernameIndex[username]; ok && owner != account.ID {
		return model.ErrAccountExists
	}

	if previous, ok := s.accounts[account.ID]; ok {
		delete(s.usernameIndex, normalizeUsername(previous.Username))
	}
	copied := *account
	s.accounts[account.ID] = &copied
	s.usernameIndex[username] = account.ID
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[normalizeUsername(username)]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	copied := *s.accounts[id]
	return &copied, nil
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
