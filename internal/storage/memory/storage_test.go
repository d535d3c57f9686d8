package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/valnor-game/valnor/internal/model"
	"github.com/valnor-game/valnor/internal/storage"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// Snapshot tests

func (s *StorageSuite) TestPutAndGetSnapshot() {
	err := s.storage.PutSnapshot(s.ctx, "client-1", storage.KeySession, []byte(`{"state":{}}`))
	s.Require().NoError(err)

	data, err := s.storage.GetSnapshot(s.ctx, "client-1", storage.KeySession)
	s.Require().NoError(err)
	s.Equal(`{"state":{}}`, string(data))
}

func (s *StorageSuite) TestGetSnapshotNotFound() {
	_, err := s.storage.GetSnapshot(s.ctx, "client-1", storage.KeyPlayer)
	s.ErrorIs(err, model.ErrSnapshotNotFound)
}

func (s *StorageSuite) TestSnapshotsAreNamespacedByClient() {
	_ = s.storage.PutSnapshot(s.ctx, "client-1", storage.KeyTeam, []byte("a"))
	_ = s.storage.PutSnapshot(s.ctx, "client-2", storage.KeyTeam, []byte("b"))

	data, _ := s.storage.GetSnapshot(s.ctx, "client-1", storage.KeyTeam)
	s.Equal("a", string(data))
	data, _ = s.storage.GetSnapshot(s.ctx, "client-2", storage.KeyTeam)
	s.Equal("b", string(data))
}

func (s *StorageSuite) TestSnapshotIsCopied() {
	buf := []byte("original")
	_ = s.storage.PutSnapshot(s.ctx, "client-1", storage.KeyPlayer, buf)
	buf[0] = 'X'

	data, _ := s.storage.GetSnapshot(s.ctx, "client-1", storage.KeyPlayer)
	s.Equal("original", string(data))
}

func (s *StorageSuite) TestDeleteSnapshot() {
	_ = s.storage.PutSnapshot(s.ctx, "client-1", storage.KeyPreferences, []byte("x"))

	s.Require().NoError(s.storage.DeleteSnapshot(s.ctx, "client-1", storage.KeyPreferences))

	_, err := s.storage.GetSnapshot(s.ctx, "client-1", storage.KeyPreferences)
	s.ErrorIs(err, model.ErrSnapshotNotFound)
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

	byName, err := s.storage.GetAccountByUsername(s.ctx, "ALICE")
	s.Require().NoError(err)
	s.Equal(model.AccountID("acc-1"), byName.ID)
}

func (s *StorageSuite) TestGetAccountNotFound() {
	_, err := s.storage.GetAccount(s.ctx, "missing")
	s.ErrorIs(err, model.ErrAccountNotFound)

	_, err = s.storage.GetAccountByUsername(s.ctx, "missing")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *StorageSuite) TestSaveAccountRejectsTakenUsername() {
	_ = s.storage.SaveAccount(s.ctx, s.newAccount("acc-1", "alice"))

	err := s.storage.SaveAccount(s.ctx, s.newAccount("acc-2", "Alice"))
	s.ErrorIs(err, model.ErrAccountExists)
}

func (s *StorageSuite) TestSaveAccountUpdatesExisting() {
	account := s.newAccount("acc-1", "alice")
	_ = s.storage.SaveAccount(s.ctx, account)

	account.DisplayName = "Alice the Bold"
	s.Require().NoError(s.storage.SaveAccount(s.ctx, account))

	got, _ := s.storage.GetAccount(s.ctx, "acc-1")
	s.Equal("Alice the Bold", got.DisplayName)
}
