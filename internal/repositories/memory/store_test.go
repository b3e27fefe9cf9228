package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gopher0727/SquadUp/internal/models"
	"github.com/Gopher0727/SquadUp/internal/repositories"
)

func seededStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.SeedCatalog(ctx, []models.Game{{
		ID:    "g1",
		Name:  "Valorant",
		Slug:  "valorant",
		Modes: []models.GameMode{{ID: "m1", Name: "Competitive"}},
	}}))
	for _, id := range []string{"u1", "u2", "u3"} {
		require.NoError(t, s.UpsertUser(ctx, &models.User{ID: id, Username: id, Email: id + "@example.com"}))
	}
	return s
}

func addGroup(t *testing.T, s *Store, id, owner string, mutate func(*models.Group)) {
	t.Helper()
	g := &models.Group{
		ID:         id,
		Title:      id,
		OwnerID:    owner,
		GameID:     "g1",
		Platform:   models.PlatformPC,
		Region:     models.RegionEU,
		MaxMembers: 3,
		IsPublic:   true,
		Status:     models.GroupStatusOpen,
	}
	if mutate != nil {
		mutate(g)
	}
	owned := &models.GroupMember{ID: id + "-owner", UserID: owner, Role: models.RoleOwner, JoinedAt: time.Now()}
	require.NoError(t, s.CreateWithOwner(context.Background(), g, owned))
}

func TestCreateWithOwnerHydrates(t *testing.T) {
	s := seededStore(t)
	modeID := "m1"
	addGroup(t, s, "grp", "u1", func(g *models.Group) { g.GameModeID = &modeID })

	g, err := s.FindByID(context.Background(), "grp")
	require.NoError(t, err)
	require.NotNil(t, g.Owner)
	assert.Equal(t, "u1", g.Owner.Username)
	require.NotNil(t, g.Game)
	assert.Equal(t, "Valorant", g.Game.Name)
	require.NotNil(t, g.GameMode)
	assert.Equal(t, "Competitive", g.GameMode.Name)
	require.Len(t, g.Members, 1)
	assert.Equal(t, "grp", g.Members[0].GroupID)
	require.NotNil(t, g.Members[0].User)
	assert.False(t, g.CreatedAt.IsZero())

	err = s.CreateWithOwner(context.Background(), &models.Group{ID: "grp", GameID: "g1", OwnerID: "u1"}, &models.GroupMember{})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)
}

func TestUpdateMembershipRollsBackOnError(t *testing.T) {
	s := seededStore(t)
	addGroup(t, s, "grp", "u1", nil)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.UpdateMembership(ctx, "grp", func(tx repositories.MembershipTx) error {
		require.NoError(t, tx.AddMember(ctx, &models.GroupMember{ID: "m2", UserID: "u2", Role: models.RoleMember}))
		require.NoError(t, tx.SetStatus(ctx, models.GroupStatusFull))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	g, err := s.FindByID(ctx, "grp")
	require.NoError(t, err)
	assert.Len(t, g.Members, 1)
	assert.Equal(t, models.GroupStatusOpen, g.Status)
}

func TestUpdateMembershipCommits(t *testing.T) {
	s := seededStore(t)
	addGroup(t, s, "grp", "u1", nil)
	ctx := context.Background()

	err := s.UpdateMembership(ctx, "grp", func(tx repositories.MembershipTx) error {
		if err := tx.AddMember(ctx, &models.GroupMember{ID: "m2", UserID: "u2", Role: models.RoleMember}); err != nil {
			return err
		}
		assert.ErrorIs(t, tx.AddMember(ctx, &models.GroupMember{ID: "m3", UserID: "u2"}), repositories.ErrDuplicate)
		assert.ErrorIs(t, tx.RemoveMember(ctx, "unknown"), repositories.ErrNotFound)
		return nil
	})
	require.NoError(t, err)

	g, err := s.FindByID(ctx, "grp")
	require.NoError(t, err)
	require.Len(t, g.Members, 2)
	assert.Equal(t, "u2", g.Members[1].UserID)

	err = s.UpdateMembership(ctx, "missing", func(repositories.MembershipTx) error { return nil })
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestListOrdering(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	at := func(h int) *time.Time { v := base.Add(time.Duration(h) * time.Hour); return &v }

	addGroup(t, s, "a", "u1", func(g *models.Group) { g.Title = "bravo"; g.ScheduledAt = at(2) })
	addGroup(t, s, "b", "u1", func(g *models.Group) { g.Title = "Alpha" })
	addGroup(t, s, "c", "u1", func(g *models.Group) { g.Title = "charlie"; g.ScheduledAt = at(1); g.IsPriority = true })
	addGroup(t, s, "d", "u1", func(g *models.Group) { g.Title = "delta"; g.ScheduledAt = at(3) })

	ids := func(q repositories.GroupQuery) []string {
		q.IsPublic = true
		groups, err := s.List(ctx, q)
		require.NoError(t, err)
		out := make([]string, 0, len(groups))
		for _, g := range groups {
			out = append(out, g.ID)
		}
		return out
	}

	assert.Equal(t, []string{"c", "b", "a", "d"}, ids(repositories.GroupQuery{SortBy: repositories.SortByTitle}))
	assert.Equal(t, []string{"c", "d", "a", "b"}, ids(repositories.GroupQuery{SortBy: repositories.SortByTitle, SortDesc: true}))
	assert.Equal(t, []string{"c", "a", "d", "b"}, ids(repositories.GroupQuery{SortBy: repositories.SortByScheduledAt}))
	assert.Equal(t, []string{"c", "d", "a", "b"}, ids(repositories.GroupQuery{SortBy: repositories.SortByScheduledAt, SortDesc: true}))
	assert.Equal(t, []string{"a", "d"}, ids(repositories.GroupQuery{SortBy: repositories.SortByTitle, Offset: 2, Limit: 2}))
	assert.Empty(t, ids(repositories.GroupQuery{Offset: 10}))
}

func TestListPrivateVisibility(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()
	addGroup(t, s, "mine", "u1", func(g *models.Group) { g.IsPublic = false })
	addGroup(t, s, "theirs", "u2", func(g *models.Group) { g.IsPublic = false })
	addGroup(t, s, "open", "u2", nil)

	err := s.UpdateMembership(ctx, "theirs", func(tx repositories.MembershipTx) error {
		return tx.AddMember(ctx, &models.GroupMember{ID: "x", UserID: "u3", Role: models.RoleMember})
	})
	require.NoError(t, err)

	list := func(viewer string) []string {
		groups, err := s.List(ctx, repositories.GroupQuery{IsPublic: false, ViewerID: viewer, SortBy: repositories.SortByTitle})
		require.NoError(t, err)
		out := []string{}
		for _, g := range groups {
			out = append(out, g.ID)
		}
		return out
	}

	assert.Equal(t, []string{"mine"}, list("u1"))
	assert.Equal(t, []string{"theirs"}, list("u2"))
	assert.Equal(t, []string{"theirs"}, list("u3"))
	assert.Empty(t, list(""))
}

func TestUsersUpsertRejectsDuplicateEmail(t *testing.T) {
	s := seededStore(t)
	users := s.Users()
	ctx := context.Background()

	err := users.Upsert(ctx, &models.User{ID: "u9", Username: "new", Email: "u1@example.com"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	require.NoError(t, users.Upsert(ctx, &models.User{ID: "u1", Username: "u1", Email: "u1@example.com", IsPremium: true}))
	u, err := users.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, u.IsPremium)

	_, err = users.FindByID(ctx, "nobody")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
