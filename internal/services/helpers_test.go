package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Gopher0727/SquadUp/internal/events"
	"github.com/Gopher0727/SquadUp/internal/models"
	"github.com/Gopher0727/SquadUp/internal/repositories/memory"
	"github.com/Gopher0727/SquadUp/utils/snowflake"
)

// recordingPublisher 记录发出的事件，可注入发送失败
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.GroupEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.GroupEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store     *memory.Store
	svc       *GroupService
	catalog   *CatalogService
	publisher *recordingPublisher
	games     map[string]models.Game // slug -> game
}

func newFixture(t *testing.T, extraUsers int) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	ids, err := snowflake.NewGenerator(1)
	require.NoError(t, err)

	catalog := NewCatalogService(store, ids, nil)
	require.NoError(t, catalog.Seed(ctx, DefaultCatalog()))

	for _, u := range DemoUsers() {
		require.NoError(t, store.UpsertUser(ctx, &u))
	}
	for i := 0; i < extraUsers; i++ {
		u := models.User{
			ID:       playerID(i),
			Username: fmt.Sprintf("player%d", i),
			Email:    fmt.Sprintf("player%d@example.com", i),
		}
		require.NoError(t, store.UpsertUser(ctx, &u))
	}

	games, err := store.ListGames(ctx)
	require.NoError(t, err)
	bySlug := make(map[string]models.Game, len(games))
	for _, g := range games {
		bySlug[g.Slug] = g
	}

	pub := &recordingPublisher{}
	svc := NewGroupService(store, store, store.Users(), ids, WithPublisher(pub))
	return &fixture{store: store, svc: svc, catalog: catalog, publisher: pub, games: bySlug}
}

func (f *fixture) input(slug string, maxMembers int) CreateGroupInput {
	return CreateGroupInput{
		Title:      "Squad night",
		GameID:     f.games[slug].ID,
		Platform:   models.PlatformPC,
		Region:     models.RegionEU,
		MaxMembers: maxMembers,
	}
}

func (f *fixture) createGroup(t *testing.T, ownerID string, in CreateGroupInput) *GroupResponse {
	t.Helper()
	g, err := f.svc.CreateGroup(context.Background(), ownerID, in)
	require.NoError(t, err)
	return g
}

func (f *fixture) memberCount(t *testing.T, groupID string) int {
	t.Helper()
	g, err := f.store.FindByID(context.Background(), groupID)
	require.NoError(t, err)
	return len(g.Members)
}

func ptr[T any](v T) *T { return &v }

func playerID(i int) string {
	return fmt.Sprintf("player-%d", i)
}
