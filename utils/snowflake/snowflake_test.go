package snowflake

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerator(t *testing.T) {
	tests := []struct {
		name    string
		nodeID  int64
		wantErr error
	}{
		{name: "zero node", nodeID: 0},
		{name: "max node", nodeID: MaxNodeID},
		{name: "negative node", nodeID: -1, wantErr: ErrInvalidNodeID},
		{name: "node too large", nodeID: MaxNodeID + 1, wantErr: ErrInvalidNodeID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGenerator(tt.nodeID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, g)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, g)
		})
	}
}

func TestNextID_EncodesNodeAndTime(t *testing.T) {
	g, err := NewGenerator(42)
	require.NoError(t, err)

	before := time.Now().Add(-time.Millisecond)
	id, err := g.NextID()
	require.NoError(t, err)

	assert.Positive(t, id)
	assert.Equal(t, int64(42), NodeID(id))
	assert.WithinDuration(t, before, Time(id), time.Second)
}

func TestNextID_ClockMovedBackwards(t *testing.T) {
	g, err := NewGenerator(1)
	require.NoError(t, err)

	clock := Epoch + 10_000
	g.now = func() int64 { return clock }

	_, err = g.NextID()
	require.NoError(t, err)

	clock -= 5
	_, err = g.NextID()
	assert.ErrorIs(t, err, ErrClockMovedBackwards)
}

func TestNextID_SequenceOverflowWaitsForNextMillisecond(t *testing.T) {
	g, err := NewGenerator(1)
	require.NoError(t, err)

	clock := Epoch + 1
	calls := 0
	g.now = func() int64 {
		calls++
		// advance once the sequence for the first millisecond is exhausted
		if calls > int(sequenceMask)+2 {
			return clock + 1
		}
		return clock
	}

	var last int64
	for i := 0; i <= int(sequenceMask)+1; i++ {
		id, err := g.NextID()
		require.NoError(t, err)
		require.Greater(t, id, last)
		last = id
	}
	assert.Equal(t, clock+1, g.lastMS)
}

func TestNextString(t *testing.T) {
	g, err := NewGenerator(3)
	require.NoError(t, err)

	s, err := g.NextString()
	require.NoError(t, err)

	id, err := strconv.ParseInt(s, 10, 64)
	require.NoError(t, err)
	assert.Equal(t, int64(3), NodeID(id))
}

func TestProperty_IDsAreUniqueAndIncreasing(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("sequential ids strictly increase", prop.ForAll(
		func(count int) bool {
			g, err := NewGenerator(1)
			if err != nil {
				return false
			}
			var last int64
			for range count {
				id, err := g.NextID()
				if err != nil || id <= last {
					return false
				}
				last = id
			}
			return true
		},
		gen.IntRange(100, 2000),
	))

	properties.Property("concurrent ids are unique", prop.ForAll(
		func(goroutines, perGoroutine int) bool {
			g, err := NewGenerator(7)
			if err != nil {
				return false
			}

			var (
				mu   sync.Mutex
				wg   sync.WaitGroup
				seen = make(map[int64]struct{}, goroutines*perGoroutine)
				ok   = true
			)
			for range goroutines {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for range perGoroutine {
						id, err := g.NextID()
						mu.Lock()
						if _, dup := seen[id]; dup || err != nil {
							ok = false
						}
						seen[id] = struct{}{}
						mu.Unlock()
					}
				}()
			}
			wg.Wait()
			return ok && len(seen) == goroutines*perGoroutine
		},
		gen.IntRange(2, 16),
		gen.IntRange(50, 300),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
