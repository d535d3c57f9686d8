package storage

import (
	"context"

	"github.com/valnor-game/valnor/internal/model"
)

// SnapshotKey names one persisted client snapshot
type SnapshotKey string

// Fixed snapshot keys
const (
	KeySession     SnapshotKey = "session"     // session mode state
	KeyPlayer      SnapshotKey = "player"      // resource record
	KeyTeam        SnapshotKey = "team"        // team roster
	KeyPreferences SnapshotKey = "preferences" // game mode preference
)

// SnapshotKeys lists every key stored for a client
var SnapshotKeys = []SnapshotKey{KeySession, KeyPlayer, KeyTeam, KeyPreferences}

// Storage defines the interface for data persistence
type Storage interface {
	// Snapshot operations. GetSnapshot returns model.ErrSnapshotNotFound when absent.
	GetSnapshot(ctx context.Context, clientID model.ClientID, key SnapshotKey) ([]byte, error)
	PutSnapshot(ctx context.Context, clientID model.ClientID, key SnapshotKey, data []byte) error
	DeleteSnapshot(ctx context.Context, clientID model.ClientID, key SnapshotKey) error

	// Account operations. SaveAccount returns model.ErrAccountExists when the username
	// belongs to a different account.
	SaveAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*model.Account, error)

	Close() error
}
