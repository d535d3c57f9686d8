package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/valnor-game/valnor/internal/model"
	"github.com/valnor-game/valnor/internal/storage"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.SnapshotTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Snapshot tests

func (s *StorageSuite) TestPutAndGetSnapshot() {
	err := s.storage.PutSnapshot(s.ctx, "client-1", storage.KeySession, []byte(`{"version":2}`))
	s.Require().NoError(err)

	data, err := s.storage.GetSnapshot(s.ctx, "client-1", storage.KeySession)
	s.Require().NoError(err)
	s.Equal(`{"version":2}`, string(data))
}

func (s *StorageSuite) TestSnapshotKeyLayout() {
	_ = s.storage.PutSnapshot(s.ctx, "client-1", storage.KeyPlayer, []byte("x"))

	s.True(s.mini.Exists("valnor:client:client-1:player"))
}

func (s *StorageSuite) TestGetSnapshotNotFound() {
	_, err := s.storage.GetSnapshot(s.ctx, "client-1", storage.KeyTeam)
	s.ErrorIs(err, model.ErrSnapshotNotFound)
}

func (s *StorageSuite) TestDeleteSnapshot() {
	_ = s.storage.PutSnapshot(s.ctx, "client-1", storage.KeyTeam, []byte("x"))

	s.Require().NoError(s.storage.DeleteSnapshot(s.ctx, "client-1", storage.KeyTeam))

	_, err := s.storage.GetSnapshot(s.ctx, "client-1", storage.KeyTeam)
	s.ErrorIs(err, model.ErrSnapshotNotFound)
}

func (s *StorageSuite) TestSnapshotTTL() {
	_ = s.storage.PutSnapshot(s.ctx, "client-1", storage.KeySession, []byte("x"))

	ttl := s.mini.TTL("valnor:client:client-1:session")
	s.Equal(time.Hour, ttl)

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetSnapshot(s.ctx, "client-1", storage.KeySession)
	s.ErrorIs(err, model.ErrSnapshotNotFound)
}

func (s *StorageSuite) TestPutSnapshotRefreshesSiblingTTL() {
	_ = s.storage.PutSnapshot(s.ctx, "client-1", storage.KeySession, []byte("s"))
	s.mini.FastForward(50 * time.Minute)

	_ = s.storage.PutSnapshot(s.ctx, "client-1", storage.KeyPlayer, []byte("p"))
	s.mini.FastForward(50 * time.Minute)

	data, err := s.storage.GetSnapshot(s.ctx, "client-1", storage.KeySession)
	s.Require().NoError(err)
	s.Equal("s", string(data))
}

// Account tests

func (s *StorageSuite) newAccount(id model.AccountID, username string) *model.Account {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return &model.Account{
		ID:           id,
		Username:     username,
		DisplayName:  "Display " + username,
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (s *StorageSuite) TestSaveAndGetAccount() {
	s.Require().NoError(s.storage.SaveAccount(s.ctx, s.newAccount("acc-1", "alice")))

	account, err := s.storage.GetAccount(s.ctx, "acc-1")
	s.Require().NoError(err)
	s.Equal("alice", account.Username)
	s.Equal("hash", account.PasswordHash)

	byName, err := s.storage.GetAccountByUsername(s.ctx, "Alice")
	s.Require().NoError(err)
	s.Equal(model.AccountID("acc-1"), byName.ID)
}

func (s *StorageSuite) TestAccountsDoNotExpire() {
	_ = s.storage.SaveAccount(s.ctx, s.newAccount("acc-1", "alice"))

	s.Equal(time.Duration(0), s.mini.TTL("valnor:account:acc-1"))
}

func (s *StorageSuite) TestGetAccountNotFound() {
	_, err := s.storage.GetAccount(s.ctx, "missing")
	s.ErrorIs(err, model.ErrAccountNotFound)

	_, err = s.storage.GetAccountByUsername(s.ctx, "missing")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *StorageSuite) TestSaveAccountRejectsTakenUsername() {
	_ = s.storage.SaveAccount(s.ctx, s.newAccount("acc-1", "alice"))

	err := s.storage.SaveAccount(s.ctx, s.newAccount("acc-2", "alice"))
	s.ErrorIs(err, model.ErrAccountExists)
}
