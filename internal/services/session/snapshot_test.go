package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/valnor-game/valnor/internal/dependencies/mocks"
	"github.com/valnor-game/valnor/internal/events"
	"github.com/valnor-game/valnor/internal/model"
	"github.com/valnor-game/valnor/internal/testutil"
)

type SnapshotSuite struct {
	suite.Suite
	clock      *mocks.MockClock
	controller *Controller
	published  int
}

func TestSnapshotSuite(t *testing.T) {
	suite.Run(t, new(SnapshotSuite))
}

func (s *SnapshotSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.controller = s.newController()
}

func (s *SnapshotSuite) newController() *Controller {
	bus := events.NewBus()
	bus.Subscribe(func(model.Event) { s.published++ })
	return NewController("client-1", bus, s.clock, mocks.NewMockRandom(), testutil.NopLogger())
}

func (s *SnapshotSuite) TestRoundTripGuest() {
	_, _ = s.controller.StartAsGuest("Aria")
	data, err := s.controller.Snapshot()
	s.Require().NoError(err)

	restored := s.newController()
	s.published = 0
	s.Require().NoError(restored.Restore(data))

	s.Equal(s.controller.State(), restored.State())
	s.Zero(s.published)
}

func (s *SnapshotSuite) TestSnapshotFormat() {
	_, _ = s.controller.StartAsAuth()
	data, err := s.controller.Snapshot()
	s.Require().NoError(err)

	s.JSONEq(`{"state":{"mode":"auth","guestProfile":null,"isFirstTime":false,"isInitialized":true},"version":2}`, string(data))
}

func (s *SnapshotSuite) TestLegacyGuestSnapshotBecomesNone() {
	data := []byte(`{"state":{"mode":"guest","guestProfile":{"name":"Old","avatarIndex":2,"createdAt":"2023-05-01T00:00:00Z"},"isFirstTime":false,"isInitialized":true},"version":1}`)

	s.Require().NoError(s.controller.Restore(data))

	state := s.controller.State()
	s.Equal(model.ModeNone, state.Mode)
	s.Nil(state.GuestProfile)
	s.False(state.IsFirstTime)
}

func (s *SnapshotSuite) TestLegacyAuthSnapshotIsKept() {
	data := []byte(`{"state":{"mode":"auth","isFirstTime":false,"isInitialized":true},"version":1}`)

	s.Require().NoError(s.controller.Restore(data))
	s.Equal(model.ModeAuth, s.controller.Mode())
}

func (s *SnapshotSuite) TestUnknownModeBecomesNone() {
	data := []byte(`{"state":{"mode":"admin","isFirstTime":false,"isInitialized":true},"version":2}`)

	s.Require().NoError(s.controller.Restore(data))
	s.Equal(model.ModeNone, s.controller.Mode())
}

func (s *SnapshotSuite) TestProfileWithoutGuestModeIsCleared() {
	data := []byte(`{"state":{"mode":"auth","guestProfile":{"name":"Stray","avatarIndex":1,"createdAt":"2024-01-01T00:00:00Z"},"isInitialized":true},"version":2}`)

	s.Require().NoError(s.controller.Restore(data))
	s.Nil(s.controller.GuestProfile())
}

func (s *SnapshotSuite) TestGuestWithoutProfileBecomesNone() {
	data := []byte(`{"state":{"mode":"guest","guestProfile":null,"isInitialized":true},"version":2}`)

	s.Require().NoError(s.controller.Restore(data))
	s.Equal(model.ModeNone, s.controller.Mode())
}

func (s *SnapshotSuite) TestMalformedSnapshotResetsToDefault() {
	_, _ = s.controller.StartAsAuth()

	err := s.controller.Restore([]byte(`{not json`))
	s.True(errors.Is(err, model.ErrMalformedSnapshot))
	s.Equal(model.DefaultSessionState(), s.controller.State())
}
