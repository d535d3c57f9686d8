package factory

import (
	"time"

	"github.com/valnor-game/valnor/internal/dependencies/mocks"
	"github.com/valnor-game/valnor/internal/storage/memory"
	"github.com/valnor-game/valnor/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Memory     *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, Config{}, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Memory:     store,
	}
}

// Restart simulates a process restart: in-memory player state and auth tokens are
// dropped while storage survives
func (t *TestApp) Restart() {
	t.unsubscribe()
	t.HubManager.CloseAll()
	restarted := newWithDependencies(t.Memory, t.MockClock, t.MockRandom, Config{}, testutil.NopLogger())
	t.App = restarted
}
