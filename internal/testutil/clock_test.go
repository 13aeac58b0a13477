package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var clockStart = time.Date(2009, 1, 1, 1, 0, 0, 0, time.UTC)

func TestStepClock_FirstCallReturnsStart(t *testing.T) {
	clock := NewStepClock(clockStart, time.Hour)
	assert.Equal(t, 0, clock.Count())
	assert.Equal(t, clockStart, clock.Next())
	assert.Equal(t, clockStart.Add(time.Hour), clock.Next())
	assert.Equal(t, 2, clock.Count())
}

func TestStepClock_Take(t *testing.T) {
	clock := NewStepClock(clockStart, 15*time.Minute)
	got := clock.Take(3)
	assert.Equal(t, []time.Time{
		clockStart,
		clockStart.Add(15 * time.Minute),
		clockStart.Add(30 * time.Minute),
	}, got)
}

func TestStepClock_Reset(t *testing.T) {
	clock := NewStepClock(clockStart, time.Hour)
	clock.Take(5)
	clock.Reset()
	assert.Equal(t, 0, clock.Count())
	assert.Equal(t, clockStart, clock.Next())
}

func TestStepClock_ThreadSafe(t *testing.T) {
	clock := NewStepClock(clockStart, time.Minute)
	const numGoroutines = 50
	const callsPerGoroutine = 20

	seen := make(chan time.Time, numGoroutines*callsPerGoroutine)
	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				seen <- clock.Next()
			}
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[time.Time]struct{})
	for ts := range seen {
		unique[ts] = struct{}{}
	}
	assert.Len(t, unique, numGoroutines*callsPerGoroutine)
	assert.Equal(t, numGoroutines*callsPerGoroutine, clock.Count())
}
