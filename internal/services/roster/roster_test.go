package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/valnor-game/valnor/internal/dependencies/mocks"
	"github.com/valnor-game/valnor/internal/events"
	"github.com/valnor-game/valnor/internal/model"
	"github.com/valnor-game/valnor/internal/testutil"
)

type RosterSuite struct {
	suite.Suite
	bus    *events.Bus
	roster *Roster
}

func TestRosterSuite(t *testing.T) {
	suite.Run(t, new(RosterSuite))
}

func (s *RosterSuite) SetupTest() {
	s.bus = events.NewBus()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.roster = New("client-1", s.bus, clk, testutil.NopLogger())
}

func (s *RosterSuite) TestStartsEmpty() {
	s.Empty(s.roster.Members())
}

func (s *RosterSuite) TestAssignOrdersBySlot() {
	s.Require().NoError(s.roster.Assign(3, "hero-c"))
	s.Require().NoError(s.roster.Assign(0, "hero-a"))

	s.Equal([]model.TeamMember{
		{HeroID: "hero-a", Slot: 0},
		{HeroID: "hero-c", Slot: 3},
	}, s.roster.Members())
}

func (s *RosterSuite) TestAssignMovesExistingHero() {
	_ = s.roster.Assign(0, "hero-a")
	_ = s.roster.Assign(2, "hero-a")

	s.Equal([]model.TeamMember{{HeroID: "hero-a", Slot: 2}}, s.roster.Members())
}

func (s *RosterSuite) TestAssignReplacesSlotOccupant() {
	_ = s.roster.Assign(1, "hero-a")
	_ = s.roster.Assign(1, "hero-b")

	s.Equal([]model.TeamMember{{HeroID: "hero-b", Slot: 1}}, s.roster.Members())
}

func (s *RosterSuite) TestAssignRejectsInvalidInput() {
	s.ErrorIs(s.roster.Assign(-1, "hero-a"), model.ErrInvalidSlot)
	s.ErrorIs(s.roster.Assign(model.TeamSize, "hero-a"), model.ErrInvalidSlot)
	s.ErrorIs(s.roster.Assign(0, "  "), model.ErrInvalidHero)
	s.Empty(s.roster.Members())
}

func (s *RosterSuite) TestRemove() {
	_ = s.roster.Assign(1, "hero-a")

	s.Require().NoError(s.roster.Remove(1))
	s.Require().NoError(s.roster.Remove(1))
	s.Empty(s.roster.Members())
	s.ErrorIs(s.roster.Remove(9), model.ErrInvalidSlot)
}

func (s *RosterSuite) TestPublishesRosterChanged() {
	var got []model.RosterChangedPayload
	s.bus.Subscribe(func(e model.Event) {
		if e.Type == model.EventRosterChanged {
			got = append(got, e.Payload.(model.RosterChangedPayload))
		}
	})

	_ = s.roster.Assign(0, "hero-a")

	s.Require().Len(got, 1)
	s.Equal([]model.TeamMember{{HeroID: "hero-a", Slot: 0}}, got[0].Members)
}

func (s *RosterSuite) TestClearsWhenSessionEnds() {
	_ = s.roster.Assign(0, "hero-a")

	s.bus.Publish(model.Event{
		Type:    model.EventModeChanged,
		Payload: model.ModeChangedPayload{From: model.ModeGuest, To: model.ModeNone},
	})

	s.Empty(s.roster.Members())
}

func (s *RosterSuite) TestSnapshotRoundTrip() {
	_ = s.roster.Assign(0, "hero-a")
	_ = s.roster.Assign(4, "hero-e")

	data, err := s.roster.Snapshot()
	s.Require().NoError(err)

	restored := New("client-1", events.NewBus(), mocks.NewMockClock(time.Now()), testutil.NopLogger())
	s.Require().NoError(restored.Restore(data))
	s.Equal(s.roster.Members(), restored.Members())
}

func (s *RosterSuite) TestRestoreDropsInvalidEntries() {
	data := []byte(`{"state":{"members":[{"heroId":"a","slot":0},{"heroId":"b","slot":7},{"heroId":"","slot":1},{"heroId":"a","slot":2},{"heroId":"c","slot":0}]},"version":1}`)

	s.Require().NoError(s.roster.Restore(data))
	s.Equal([]model.TeamMember{{HeroID: "a", Slot: 0}}, s.roster.Members())
}

func (s *RosterSuite) TestRestoreMalformed() {
	_ = s.roster.Assign(0, "hero-a")

	s.ErrorIs(s.roster.Restore([]byte(`"nope`)), model.ErrMalformedSnapshot)
	s.Empty(s.roster.Members())
}
