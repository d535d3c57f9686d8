package session

import (
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/suite"

	"github.com/valnor-game/valnor/internal/dependencies/mocks"
	"github.com/valnor-game/valnor/internal/events"
	"github.com/valnor-game/valnor/internal/model"
	"github.com/valnor-game/valnor/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	bus        *events.Bus
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
	received   []model.Event
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.bus = events.NewBus()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.controller = NewController("client-1", s.bus, s.clock, s.random, testutil.NopLogger())
	s.received = nil
	s.bus.Subscribe(func(e model.Event) {
		s.received = append(s.received, e)
	})
}

func (s *ControllerSuite) eventTypes() []model.EventType {
	types := make([]model.EventType, 0, len(s.received))
	for _, e := range s.received {
		types = append(types, e.Type)
	}
	return types
}

// Initial state

func (s *ControllerSuite) TestInitialStateIsNone() {
	state := s.controller.State()
	s.Equal(model.ModeNone, state.Mode)
	s.Nil(state.GuestProfile)
	s.True(state.IsFirstTime)
	s.False(state.IsInitialized)
}

// StartAsGuest tests

func (s *ControllerSuite) TestStartAsGuestWithName() {
	s.random.QueueIntn(3)

	state, err := s.controller.StartAsGuest("Aria")
	s.Require().NoError(err)

	s.Equal(model.ModeGuest, state.Mode)
	s.Require().NotNil(state.GuestProfile)
	s.Equal("Aria", state.GuestProfile.Name)
	s.Equal(3, state.GuestProfile.AvatarIndex)
	s.Equal(s.clock.Now(), state.GuestProfile.CreatedAt)
	s.False(state.IsFirstTime)
	s.True(state.IsInitialized)
}

func (s *ControllerSuite) TestStartAsGuestGeneratesNameWhenBlank() {
	// number, adjective, noun, avatar
	s.random.QueueIntn(41, 1, 14, 5)

	state, err := s.controller.StartAsGuest("   ")
	s.Require().NoError(err)

	s.Equal("SwiftRaven42", state.GuestProfile.Name)
	s.Equal(5, state.GuestProfile.AvatarIndex)
}

func (s *ControllerSuite) TestStartAsGuestTruncatesLongName() {
	state, err := s.controller.StartAsGuest("  AVeryLongGuestNameThatKeepsGoing  ")
	s.Require().NoError(err)

	s.Equal(MaxGuestNameLength, utf8.RuneCountInString(state.GuestProfile.Name))
	s.Equal("AVeryLongGuestNameTh", state.GuestProfile.Name)
}

func (s *ControllerSuite) TestStartAsGuestPublishesModeChanged() {
	_, _ = s.controller.StartAsGuest("Aria")

	s.Require().Len(s.received, 1)
	s.Equal(model.EventModeChanged, s.received[0].Type)
	s.Equal(model.ClientID("client-1"), s.received[0].ClientID)
	s.Equal(model.ModeChangedPayload{From: model.ModeNone, To: model.ModeGuest}, s.received[0].Payload)
}

func (s *ControllerSuite) TestStartAsGuestTwiceKeepsProfile() {
	first, _ := s.controller.StartAsGuest("Aria")
	second, err := s.controller.StartAsGuest("Other")
	s.Require().NoError(err)

	s.Equal(first.GuestProfile.Name, second.GuestProfile.Name)
	s.Len(s.received, 1)
}

func (s *ControllerSuite) TestStartAsGuestFromAuthLeavesSession() {
	_, _ = s.controller.StartAsAuth()
	s.received = nil

	state, err := s.controller.StartAsGuest("Aria")
	s.Require().NoError(err)
	s.Equal(model.ModeGuest, state.Mode)

	s.Require().Len(s.received, 1)
	payload := s.received[0].Payload.(model.ModeChangedPayload)
	s.True(payload.LeftSession())
}

// StartAsAuth tests

func (s *ControllerSuite) TestStartAsAuthFromNone() {
	state, err := s.controller.StartAsAuth()
	s.Require().NoError(err)

	s.Equal(model.ModeAuth, state.Mode)
	s.Nil(state.GuestProfile)
	s.True(state.IsInitialized)
}

func (s *ControllerSuite) TestStartAsAuthFromGuestClearsProfile() {
	_, _ = s.controller.StartAsGuest("Aria")

	state, err := s.controller.StartAsAuth()
	s.Require().NoError(err)

	s.Equal(model.ModeAuth, state.Mode)
	s.Nil(state.GuestProfile)
	s.Nil(s.controller.GuestProfile())
}

func (s *ControllerSuite) TestStartAsAuthTwiceIsNoop() {
	_, _ = s.controller.StartAsAuth()
	_, err := s.controller.StartAsAuth()
	s.Require().NoError(err)

	s.Len(s.received, 1)
}

// EndSession tests

func (s *ControllerSuite) TestEndSessionFromGuest() {
	_, _ = s.controller.StartAsGuest("Aria")
	s.received = nil

	s.True(s.controller.EndSession())

	state := s.controller.State()
	s.Equal(model.ModeNone, state.Mode)
	s.Nil(state.GuestProfile)
	s.False(state.IsInitialized)
	s.False(state.IsFirstTime)
	s.Equal([]model.EventType{model.EventModeChanged, model.EventSessionEnded}, s.eventTypes())
}

func (s *ControllerSuite) TestEndSessionFromAuth() {
	_, _ = s.controller.StartAsAuth()

	s.True(s.controller.EndSession())
	s.Equal(model.ModeNone, s.controller.Mode())
}

func (s *ControllerSuite) TestEndSessionFromNoneIsNoop() {
	s.False(s.controller.EndSession())
	s.Empty(s.received)
}

// Invariant checks across transition sequences

func (s *ControllerSuite) TestProfilePresentOnlyInGuestMode() {
	steps := []func(){
		func() { _, _ = s.controller.StartAsGuest("") },
		func() { _, _ = s.controller.StartAsAuth() },
		func() { s.controller.EndSession() },
		func() { _, _ = s.controller.StartAsGuest("Aria") },
		func() { s.controller.EndSession() },
		func() { s.controller.EndSession() },
		func() { _, _ = s.controller.StartAsAuth() },
		func() { _, _ = s.controller.StartAsGuest("Bran") },
	}

	for _, step := range steps {
		step()
		state := s.controller.State()
		s.Equal(state.Mode == model.ModeGuest, state.GuestProfile != nil, "mode %s", state.Mode)
	}
}

func (s *ControllerSuite) TestStateReturnsCopy() {
	_, _ = s.controller.StartAsGuest("Aria")

	state := s.controller.State()
	state.GuestProfile.Name = "Mallory"

	s.Equal("Aria", s.controller.GuestProfile().Name)
}
