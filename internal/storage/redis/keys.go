package redis

import (
	"fmt"
	"strings"

	"github.com/valnor-game/valnor/internal/model"
	"github.com/valnor-game/valnor/internal/storage"
)

// Key prefix for all game-related data
const keyPrefix = "valnor"

// Key generation functions for each entity type

// snapshotKey returns the Redis key for a client snapshot
func snapshotKey(clientID model.ClientID, key storage.SnapshotKey) string {
	return fmt.Sprintf("%s:client:%s:%s", keyPrefix, clientID, key)
}

// accountKey returns the Redis key for an Account
func accountKey(id model.AccountID) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> account_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, strings.ToLower(strings.TrimSpace(username)))
}
