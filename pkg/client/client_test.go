package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetGroups_SendsFilters(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"g1","title":"Raid","status":"OPEN","_count":{"members":3}}]`))
	}))
	defer srv.Close()

	after := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	private := false
	groups, err := New(srv.URL+"/").GetGroups(context.Background(), GroupFilters{
		Platform:       "PC",
		IsPublic:       &private,
		ScheduledAfter: &after,
		SortBy:         "title",
		Limit:          5,
	})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Raid", groups[0].Title)
	assert.Equal(t, 3, groups[0].Count.Members)

	require.NotNil(t, got)
	assert.Equal(t, "/groups", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "PC", q.Get("platform"))
	assert.Equal(t, "false", q.Get("isPublic"))
	assert.Equal(t, "2025-01-02T03:04:05Z", q.Get("scheduledAfter"))
	assert.Equal(t, "title", q.Get("sortBy"))
	assert.Equal(t, "5", q.Get("limit"))
	assert.False(t, q.Has("offset"))
	assert.False(t, q.Has("priorityOnly"))
	assert.Empty(t, got.Header.Get("Authorization"))
}

func TestCreateGroup_SendsTokenAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Raid", body["title"])
		assert.EqualValues(t, 4, body["maxMembers"])
		assert.NotContains(t, body, "description")

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"g1","title":"Raid","maxMembers":4,"ownerId":"u1"}`))
	}))
	defer srv.Close()

	g, err := New(srv.URL, WithToken("tok")).CreateGroup(context.Background(), CreateGroupRequest{
		Title:      "Raid",
		GameID:     "game",
		Platform:   "PC",
		Region:     "EU",
		MaxMembers: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "g1", g.ID)
	assert.Equal(t, "u1", g.OwnerID)
}

func TestMembershipCalls(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		_, _ = w.Write([]byte(`{"message":"done"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok"))
	ctx := context.Background()
	for _, call := range []func(context.Context, string) (string, error){c.JoinGroup, c.LeaveGroup, c.DeleteGroup} {
		msg, err := call(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, "done", msg)
	}
	assert.Equal(t, []string{"POST /groups/g1/join", "POST /groups/g1/leave", "DELETE /groups/g1"}, paths)
}

func TestGames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/games":
			_, _ = w.Write([]byte(`[{"id":"d2","name":"Destiny 2","platforms":["PC"],"modes":[{"id":"m1","name":"Raid"}]}]`))
		case "/games/d2":
			_, _ = w.Write([]byte(`{"id":"d2","name":"Destiny 2"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Game not found"}`))
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	games, err := c.GetGames(ctx)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, []string{"PC"}, games[0].Platforms)
	assert.Equal(t, "Raid", games[0].Modes[0].Name)

	game, err := c.GetGame(ctx, "d2")
	require.NoError(t, err)
	assert.Equal(t, "Destiny 2", game.Name)

	_, err = c.GetGame(ctx, "nope")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Game not found", apiErr.Message)
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"json error field", http.StatusBadRequest, `{"error":"Group is full"}`, "Group is full"},
		{"plain text body", http.StatusBadGateway, `upstream down`, "Bad Gateway"},
		{"empty body", http.StatusUnauthorized, ``, "Unauthorized"},
		{"json without error", http.StatusForbidden, `{"message":"nope"}`, "Forbidden"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL).GetGroup(context.Background(), "g1")
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.want, apiErr.Message)
		})
	}
}

func TestContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(srv.URL).GetGames(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
