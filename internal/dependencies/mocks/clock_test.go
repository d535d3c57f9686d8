package mocks

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockClockMoves(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMockClock(start)

	assert.Equal(t, start.Add(time.Minute), c.Advance(time.Minute))
	c.Rewind(2 * time.Minute)
	assert.Equal(t, start.Add(-time.Minute), c.Now())

	c.Set(start)
	assert.Equal(t, start, c.Now())
}

func TestMockClockConcurrentUse(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMockClock(start)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Advance(time.Second)
		}()
		go func() {
			defer wg.Done()
			_ = c.Now()
		}()
	}
	wg.Wait()

	assert.Equal(t, start.Add(8*time.Second), c.Now())
}
