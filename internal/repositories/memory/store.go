// Package memory 提供进程内的仓储实现，用于本地演示与单元测试
// 所有操作共用一把互斥锁，UpdateMembership 在锁内执行回调，等价于数据库行锁
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Gopher0727/SquadUp/internal/models"
	"github.com/Gopher0727/SquadUp/internal/repositories"
)

type Store struct {
	mu sync.Mutex

	games     map[string]models.Game // 不含 Modes
	gameOrder []string
	slugs     map[string]string // slug -> game id
	modes     map[string][]models.GameMode
	users     map[string]models.User
	groups    map[string]models.Group // 不含关联
	members   map[string][]models.GroupMember

	now func() time.Time
}

var (
	_ repositories.GroupStore   = (*Store)(nil)
	_ repositories.CatalogStore = (*Store)(nil)
	_ repositories.UserStore    = userView{}
)

func NewStore() *Store {
	return &Store{
		games:   make(map[string]models.Game),
		slugs:   make(map[string]string),
		modes:   make(map[string][]models.GameMode),
		users:   make(map[string]models.User),
		groups:  make(map[string]models.Group),
		members: make(map[string][]models.GroupMember),
		now:     time.Now,
	}
}

// Users 返回用户仓储视图，Store 自身的 FindByID 属于 GroupStore
func (s *Store) Users() repositories.UserStore { return userView{s} }

// ========== GroupStore ==========

func (s *Store) CreateWithOwner(ctx context.Context, group *models.Group, owner *models.GroupMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[group.ID]; ok {
		return repositories.ErrDuplicate
	}
	if _, ok := s.games[group.GameID]; !ok {
		return fmt.Errorf("memory: game %s does not exist", group.GameID)
	}
	if _, ok := s.users[group.OwnerID]; !ok {
		return fmt.Errorf("memory: user %s does not exist", group.OwnerID)
	}

	now := s.now()
	if group.CreatedAt.IsZero() {
		group.CreatedAt = now
	}
	if group.UpdatedAt.IsZero() {
		group.UpdatedAt = now
	}
	row := *group
	row.Owner, row.Game, row.GameMode, row.Members = nil, nil, nil, nil
	s.groups[group.ID] = row

	owner.GroupID = group.ID
	m := *owner
	m.Group, m.User = nil, nil
	s.members[group.ID] = []models.GroupMember{m}
	return nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.groups[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	g := s.hydrate(row)
	return &g, nil
}

func (s *Store) List(ctx context.Context, q repositories.GroupQuery) ([]models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Group, 0)
	if !q.IsPublic && q.ViewerID == "" {
		return out, nil
	}

	search := strings.ToLower(q.Search)
	for _, row := range s.groups {
		if !s.matches(row, q, search) {
			continue
		}
		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j], q.SortBy, q.SortDesc) })

	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return []models.Group{}, nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	for i := range out {
		out[i] = s.hydrate(out[i])
	}
	return out, nil
}

func (s *Store) UpdateMembership(ctx context.Context, groupID string, fn func(tx repositories.MembershipTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.groups[groupID]
	if !ok {
		return repositories.ErrNotFound
	}

	// 回调只修改副本，成功后整体写回，失败即丢弃
	tx := &memberTx{
		group:   row,
		members: append([]models.GroupMember(nil), s.members[groupID]...),
		users:   s.users,
	}
	if err := fn(tx); err != nil {
		return err
	}

	if tx.dirty {
		tx.group.UpdatedAt = s.now()
	}
	s.groups[groupID] = tx.group
	s.members[groupID] = tx.members
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.groups, id)
	delete(s.members, id)
	return nil
}

// ========== CatalogStore ==========

func (s *Store) ListGames(ctx context.Context) ([]models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	games := make([]models.Game, 0, len(s.games))
	for _, id := range s.gameOrder {
		games = append(games, s.gameWithModes(id))
	}
	sort.SliceStable(games, func(i, j int) bool { return games[i].Name < games[j].Name })
	return games, nil
}

func (s *Store) FindGame(ctx context.Context, id string) (*models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[id]; !ok {
		return nil, repositories.ErrNotFound
	}
	g := s.gameWithModes(id)
	return &g, nil
}

func (s *Store) FindGameMode(ctx context.Context, id string) (*models.GameMode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, modes := range s.modes {
		for _, m := range modes {
			if m.ID == id {
				mode := m
				return &mode, nil
			}
		}
	}
	return nil, repositories.ErrNotFound
}

// SeedCatalog 与数据库实现保持一致：按 slug 幂等，已存在的游戏保留原 ID
func (s *Store) SeedCatalog(ctx context.Context, games []models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for _, game := range games {
		id, exists := s.slugs[game.Slug]
		if !exists {
			id = game.ID
			if id == "" {
				return fmt.Errorf("memory: game %q has no id", game.Slug)
			}
			s.gameOrder = append(s.gameOrder, id)
			s.slugs[game.Slug] = id
			game.CreatedAt = now
		} else {
			game.CreatedAt = s.games[id].CreatedAt
		}
		game.ID = id
		game.UpdatedAt = now
		modes := game.Modes
		game.Modes = nil
		s.games[id] = game

		for _, mode := range modes {
			mode.GameID = id
			s.upsertMode(mode, now)
		}
	}
	return nil
}

func (s *Store) upsertMode(mode models.GameMode, now time.Time) {
	existing := s.modes[mode.GameID]
	for i := range existing {
		if existing[i].Name == mode.Name {
			existing[i].Description = mode.Description
			existing[i].UpdatedAt = now
			return
		}
	}
	mode.CreatedAt, mode.UpdatedAt = now, now
	s.modes[mode.GameID] = append(existing, mode)
}

// ========== UserStore ==========

type userView struct{ s *Store }

func (v userView) FindByID(ctx context.Context, id string) (*models.User, error) {
	return v.s.FindUser(ctx, id)
}

func (v userView) Upsert(ctx context.Context, user *models.User) error {
	return v.s.UpsertUser(ctx, user)
}

func (s *Store) FindUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (s *Store) UpsertUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, u := range s.users {
		if id != user.ID && (u.Email == user.Email || u.Username == user.Username) {
			return repositories.ErrDuplicate
		}
	}
	now := s.now()
	if prev, ok := s.users[user.ID]; ok {
		user.CreatedAt = prev.CreatedAt
	} else if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

// ========== helpers ==========

func (s *Store) gameWithModes(id string) models.Game {
	g := s.games[id]
	g.Modes = append([]models.GameMode{}, s.modes[id]...)
	return g
}

// hydrate 补全关联，返回值与存储内容不共享切片
func (s *Store) hydrate(row models.Group) models.Group {
	if u, ok := s.users[row.OwnerID]; ok {
		owner := u
		row.Owner = &owner
	}
	if g, ok := s.games[row.GameID]; ok {
		game := g
		row.Game = &game
	}
	if row.GameModeID != nil {
		for _, m := range s.modes[row.GameID] {
			if m.ID == *row.GameModeID {
				mode := m
				row.GameMode = &mode
			}
		}
	}
	members := s.members[row.ID]
	row.Members = make([]models.GroupMember, len(members))
	for i, m := range members {
		if u, ok := s.users[m.UserID]; ok {
			user := u
			m.User = &user
		}
		row.Members[i] = m
	}
	return row
}

func (s *Store) matches(g models.Group, q repositories.GroupQuery, search string) bool {
	switch {
	case q.GameID != "" && g.GameID != q.GameID:
		return false
	case q.GameModeID != "" && (g.GameModeID == nil || *g.GameModeID != q.GameModeID):
		return false
	case q.Platform != "" && g.Platform != q.Platform:
		return false
	case q.Region != "" && g.Region != q.Region:
		return false
	case q.Status != "" && g.Status != q.Status:
		return false
	case q.PriorityOnly && !g.IsPriority:
		return false
	case g.IsPublic != q.IsPublic:
		return false
	}

	if !q.IsPublic && g.OwnerID != q.ViewerID && !s.isMember(g.ID, q.ViewerID) {
		return false
	}
	if q.ScheduledAfter != nil && (g.ScheduledAt == nil || g.ScheduledAt.Before(*q.ScheduledAfter)) {
		return false
	}
	if q.ScheduledBefore != nil && (g.ScheduledAt == nil || g.ScheduledAt.After(*q.ScheduledBefore)) {
		return false
	}
	if search != "" {
		inTitle := strings.Contains(strings.ToLower(g.Title), search)
		inDesc := g.Description != nil && strings.Contains(strings.ToLower(*g.Description), search)
		if !inTitle && !inDesc {
			return false
		}
	}
	return true
}

func (s *Store) isMember(groupID, userID string) bool {
	for _, m := range s.members[groupID] {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// less 与 GroupRepository.List 的 ORDER BY 保持一致
func less(a, b models.Group, field repositories.SortField, desc bool) bool {
	if a.IsPriority != b.IsPriority {
		return a.IsPriority
	}

	var cmp int
	switch field {
	case repositories.SortByTitle:
		cmp = strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		if desc {
			cmp = -cmp
		}
	case repositories.SortByScheduledAt:
		switch {
		case a.ScheduledAt == nil && b.ScheduledAt == nil:
		case a.ScheduledAt == nil:
			return false
		case b.ScheduledAt == nil:
			return true
		default:
			cmp = a.ScheduledAt.Compare(*b.ScheduledAt)
			if desc {
				cmp = -cmp
			}
		}
	default:
		cmp = a.CreatedAt.Compare(b.CreatedAt)
		if desc {
			cmp = -cmp
		}
	}
	if cmp != 0 {
		return cmp < 0
	}
	return a.ID < b.ID
}

// memberTx 在 Store 锁内操作队伍副本
type memberTx struct {
	group   models.Group
	members []models.GroupMember
	users   map[string]models.User
	dirty   bool
}

func (t *memberTx) Group() *models.Group { return &t.group }

func (t *memberTx) Members() []models.GroupMember { return t.members }

func (t *memberTx) AddMember(ctx context.Context, member *models.GroupMember) error {
	if _, ok := t.users[member.UserID]; !ok {
		return fmt.Errorf("memory: user %s does not exist", member.UserID)
	}
	for _, m := range t.members {
		if m.UserID == member.UserID {
			return repositories.ErrDuplicate
		}
	}
	member.GroupID = t.group.ID
	m := *member
	m.Group, m.User = nil, nil
	t.members = append(t.members, m)
	t.dirty = true
	return nil
}

func (t *memberTx) RemoveMember(ctx context.Context, memberID string) error {
	for i := range t.members {
		if t.members[i].ID == memberID {
			t.members = append(t.members[:i:i], t.members[i+1:]...)
			t.dirty = true
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (t *memberTx) SetStatus(ctx context.Context, status models.GroupStatus) error {
	if t.group.Status != status {
		t.group.Status = status
		t.dirty = true
	}
	return nil
}
