package services

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/Gopher0727/SquadUp/internal/models"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name    string
		current models.GroupStatus
		count   int
		max     int
		want    models.GroupStatus
	}{
		{"open below capacity", models.GroupStatusOpen, 1, 4, models.GroupStatusOpen},
		{"open reaches capacity", models.GroupStatusOpen, 4, 4, models.GroupStatusFull},
		{"full drops below capacity", models.GroupStatusFull, 3, 4, models.GroupStatusOpen},
		{"full stays full", models.GroupStatusFull, 4, 4, models.GroupStatusFull},
		{"in progress untouched", models.GroupStatusInProgress, 4, 4, models.GroupStatusInProgress},
		{"completed untouched", models.GroupStatusCompleted, 1, 4, models.GroupStatusCompleted},
		{"cancelled untouched", models.GroupStatusCancelled, 0, 4, models.GroupStatusCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextStatus(tt.current, tt.count, tt.max))
		})
	}
}

func TestCheckJoinable(t *testing.T) {
	tests := []struct {
		name   string
		status models.GroupStatus
		count  int
		want   error
	}{
		{"open with room", models.GroupStatusOpen, 2, nil},
		{"open at capacity", models.GroupStatusOpen, 4, ErrGroupFull},
		{"full", models.GroupStatusFull, 3, ErrGroupFull},
		{"in progress", models.GroupStatusInProgress, 1, ErrGroupNotAccepting},
		{"cancelled at capacity", models.GroupStatusCancelled, 4, ErrGroupNotAccepting},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkJoinable(&models.Group{Status: tt.status, MaxMembers: 4}, tt.count)
			assert.Equal(t, tt.want, err)
		})
	}
}

func TestNextStatusProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	statuses := gen.OneConstOf(
		models.GroupStatusOpen, models.GroupStatusFull, models.GroupStatusInProgress,
		models.GroupStatusCompleted, models.GroupStatusCancelled,
	)

	properties.Property("OPEN/FULL become FULL exactly at capacity", prop.ForAll(
		func(full bool, maxMembers, count int) bool {
			current := models.GroupStatusOpen
			if full {
				current = models.GroupStatusFull
			}
			got := nextStatus(current, count, maxMembers)
			return (got == models.GroupStatusFull) == (count >= maxMembers)
		},
		gen.Bool(),
		gen.IntRange(MinGroupMembers, MaxGroupMembers),
		gen.IntRange(0, MaxGroupMembers),
	))

	properties.Property("other statuses are never rewritten", prop.ForAll(
		func(current models.GroupStatus, count int) bool {
			if current == models.GroupStatusOpen || current == models.GroupStatusFull {
				return true
			}
			return nextStatus(current, count, 5) == current
		},
		statuses,
		gen.IntRange(0, MaxGroupMembers),
	))

	properties.TestingRun(t)
}
