package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateTime_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    *time.Time
		wantErr bool
	}{
		{"date only", `{"scheduledAt":"2026-05-01"}`, ptr(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)), false},
		{"rfc3339", `{"scheduledAt":"2026-05-01T18:30:00Z"}`, ptr(time.Date(2026, 5, 1, 18, 30, 0, 0, time.UTC)), false},
		{"fractional seconds", `{"scheduledAt":"2026-05-01T18:30:00.5Z"}`, ptr(time.Date(2026, 5, 1, 18, 30, 0, 5e8, time.UTC)), false},
		{"null", `{"scheduledAt":null}`, nil, false},
		{"absent", `{}`, nil, false},
		{"free text", `{"scheduledAt":"next friday"}`, nil, true},
		{"number", `{"scheduledAt":1714579200}`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in CreateGroupInput
			err := json.Unmarshal([]byte(tt.body), &in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			got := in.ScheduledAt.TimePtr()
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %s", got)
		})
	}
}

func TestCreateGroup_DateOnlySchedule(t *testing.T) {
	f := newFixture(t, 0)

	in := f.input("destiny-2", 4)
	require.NoError(t, json.Unmarshal([]byte(`"2026-05-01"`), &in.ScheduledAt))

	g, err := f.svc.CreateGroup(context.Background(), "2", in)
	require.NoError(t, err)
	require.NotNil(t, g.ScheduledAt)
	assert.Equal(t, "2026-05-01", g.ScheduledAt.Format(time.DateOnly))
}
