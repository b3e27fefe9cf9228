package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Gopher0727/SquadUp/internal/events"
	"github.com/Gopher0727/SquadUp/internal/metrics"
	"github.com/Gopher0727/SquadUp/internal/models"
	"github.com/Gopher0727/SquadUp/internal/repositories"
	logger "github.com/Gopher0727/SquadUp/middleware/log"
)

// IDGenerator 生成新行的主键，snowflake.Generator 满足该接口
type IDGenerator interface {
	NextString() (string, error)
}

// GroupService 队伍业务：创建、查询、加入、离开、删除
type GroupService struct {
	groups    repositories.GroupStore
	catalog   repositories.CatalogStore
	users     repositories.UserStore
	ids       IDGenerator
	publisher events.Publisher
	metrics   *metrics.Metrics
	log       *logger.Logger
	now       func() time.Time
}

type Option func(*GroupService)

func WithPublisher(p events.Publisher) Option {
	return func(s *GroupService) { s.publisher = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *GroupService) { s.metrics = m }
}

func WithLogger(l *logger.Logger) Option {
	return func(s *GroupService) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *GroupService) { s.now = now }
}

// NewGroupService 创建队伍服务实例
func NewGroupService(groups repositories.GroupStore, catalog repositories.CatalogStore, users repositories.UserStore, ids IDGenerator, opts ...Option) *GroupService {
	s := &GroupService{
		groups:    groups,
		catalog:   catalog,
		users:     users,
		ids:       ids,
		publisher: events.NopPublisher{},
		log:       logger.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateGroup 创建队伍
// 实现逻辑：
// 1. 校验输入
// 2. 校验游戏存在，模式（若指定）属于该游戏，创建者存在
// 3. 同一事务写入队伍与队长成员记录
// 4. 重新读取带关联的完整队伍
func (s *GroupService) CreateGroup(ctx context.Context, ownerID string, in CreateGroupInput) (*GroupResponse, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	if _, err := s.catalog.FindGame(ctx, in.GameID); err != nil {
		return nil, mapNotFound(err, ErrGameNotFound)
	}
	if in.GameModeID != nil {
		mode, err := s.catalog.FindGameMode(ctx, *in.GameModeID)
		if err != nil {
			return nil, mapNotFound(err, ErrGameModeNotFound)
		}
		if mode.GameID != in.GameID {
			return nil, ErrGameModeNotFound
		}
	}
	owner, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		return nil, mapNotFound(err, ErrUserNotFound)
	}

	groupID, err := s.ids.NextString()
	if err != nil {
		return nil, fmt.Errorf("generate group id: %w", err)
	}
	memberID, err := s.ids.NextString()
	if err != nil {
		return nil, fmt.Errorf("generate member id: %w", err)
	}

	isPublic := true
	if in.IsPublic != nil {
		isPublic = *in.IsPublic
	}
	now := s.now()
	group := &models.Group{
		ID:          groupID,
		Title:       in.Title,
		Description: in.Description,
		OwnerID:     owner.ID,
		GameID:      in.GameID,
		GameModeID:  in.GameModeID,
		Platform:    in.Platform,
		Region:      in.Region,
		MaxMembers:  in.MaxMembers,
		IsPublic:    isPublic,
		Status:      models.GroupStatusOpen,
		ScheduledAt: in.ScheduledAt.TimePtr(),
		Timezone:    in.Timezone,
		IsPriority:  owner.IsPremium,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	ownerMember := &models.GroupMember{
		ID:       memberID,
		UserID:   owner.ID,
		Role:     models.RoleOwner,
		JoinedAt: now,
	}
	if err := s.groups.CreateWithOwner(ctx, group, ownerMember); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}

	created, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("reload group %s: %w", groupID, err)
	}

	s.metrics.GroupCreated()
	s.publish(ctx, events.GroupCreated, created, owner.ID, len(created.Members))
	s.log.InfoContext(ctx, "group created",
		zap.String("group_id", created.ID),
		zap.String("owner_id", owner.ID),
		zap.String("game_id", created.GameID),
	)

	resp := NewGroupResponse(created)
	return &resp, nil
}

// FindGroups 按条件分页查询队伍
func (s *GroupService) FindGroups(ctx context.Context, filters GroupFilters, viewerID string) ([]GroupResponse, error) {
	q, err := filters.toQuery(viewerID)
	if err != nil {
		return nil, err
	}

	groups, err := s.groups.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	out := make([]GroupResponse, 0, len(groups))
	for i := range groups {
		out = append(out, NewGroupResponse(&groups[i]))
	}
	return out, nil
}

// FindGroupByID 获取队伍详情，私有队伍只对队长与成员可见
func (s *GroupService) FindGroupByID(ctx context.Context, id, viewerID string) (*GroupResponse, error) {
	group, err := s.groups.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrGroupNotFound)
	}
	if !group.VisibleTo(viewerID) {
		return nil, ErrGroupForbidden
	}

	resp := NewGroupResponse(group)
	return &resp, nil
}

// JoinGroup 加入队伍
// 容量校验、插入成员、状态更新在同一把行锁下完成，并发加入不会超员
func (s *GroupService) JoinGroup(ctx context.Context, groupID, userID string) (string, error) {
	err := s.joinGroup(ctx, groupID, userID)
	s.metrics.Membership("join", resultLabel(err))
	if err != nil {
		return "", err
	}
	return MsgJoined, nil
}

// joinGroup 先确认队伍存在再查用户，两者都缺失时返回队伍不存在
func (s *GroupService) joinGroup(ctx context.Context, groupID, userID string) error {
	if _, err := s.groups.FindByID(ctx, groupID); err != nil {
		return mapNotFound(err, ErrGroupNotFound)
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return mapNotFound(err, ErrUserNotFound)
	}

	var (
		snapshot models.Group
		count    int
	)
	err := s.groups.UpdateMembership(ctx, groupID, func(tx repositories.MembershipTx) error {
		group := tx.Group()
		if err := checkJoinable(group, len(tx.Members())); err != nil {
			return err
		}
		for _, m := range tx.Members() {
			if m.UserID == userID {
				return ErrAlreadyMember
			}
		}

		memberID, err := s.ids.NextString()
		if err != nil {
			return fmt.Errorf("generate member id: %w", err)
		}
		member := &models.GroupMember{
			ID:       memberID,
			UserID:   userID,
			Role:     models.RoleMember,
			JoinedAt: s.now(),
		}
		if err := tx.AddMember(ctx, member); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return ErrAlreadyMember
			}
			return err
		}

		count = len(tx.Members())
		if err := tx.SetStatus(ctx, nextStatus(group.Status, count, group.MaxMembers)); err != nil {
			return err
		}
		snapshot = *group
		return nil
	})
	if err != nil {
		return mapNotFound(err, ErrGroupNotFound)
	}

	s.publish(ctx, events.GroupMemberJoined, &snapshot, userID, count)
	s.log.InfoContext(ctx, "member joined group",
		zap.String("group_id", groupID),
		zap.String("user_id", userID),
		zap.Int("member_count", count),
		zap.String("status", string(snapshot.Status)),
	)
	return nil
}

// LeaveGroup 离开队伍，队长不能离开
func (s *GroupService) LeaveGroup(ctx context.Context, groupID, userID string) (string, error) {
	err := s.leaveGroup(ctx, groupID, userID)
	s.metrics.Membership("leave", resultLabel(err))
	if err != nil {
		return "", err
	}
	return MsgLeft, nil
}

func (s *GroupService) leaveGroup(ctx context.Context, groupID, userID string) error {
	var (
		snapshot models.Group
		count    int
	)
	err := s.groups.UpdateMembership(ctx, groupID, func(tx repositories.MembershipTx) error {
		group := tx.Group()

		var member *models.GroupMember
		for _, m := range tx.Members() {
			if m.UserID == userID {
				member = &m
				break
			}
		}
		if member == nil {
			return ErrNotMember
		}
		if member.Role == models.RoleOwner || group.OwnerID == userID {
			return ErrOwnerCannotLeave
		}

		if err := tx.RemoveMember(ctx, member.ID); err != nil {
			return fmt.Errorf("remove member %s: %w", member.ID, err)
		}

		count = len(tx.Members())
		if err := tx.SetStatus(ctx, nextStatus(group.Status, count, group.MaxMembers)); err != nil {
			return err
		}
		snapshot = *group
		return nil
	})
	if err != nil {
		return mapNotFound(err, ErrGroupNotFound)
	}

	s.publish(ctx, events.GroupMemberLeft, &snapshot, userID, count)
	s.log.InfoContext(ctx, "member left group",
		zap.String("group_id", groupID),
		zap.String("user_id", userID),
		zap.Int("member_count", count),
	)
	return nil
}

// DeleteGroup 删除队伍，仅队长可操作
func (s *GroupService) DeleteGroup(ctx context.Context, groupID, userID string) (string, error) {
	group, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		return "", mapNotFound(err, ErrGroupNotFound)
	}
	if group.OwnerID != userID {
		return "", ErrNotOwner
	}

	if err := s.groups.Delete(ctx, groupID); err != nil {
		return "", mapNotFound(err, ErrGroupNotFound)
	}

	s.metrics.GroupDeleted()
	s.publish(ctx, events.GroupDeleted, group, userID, 0)
	s.log.InfoContext(ctx, "group deleted",
		zap.String("group_id", groupID),
		zap.String("owner_id", userID),
	)
	return MsgDeleted, nil
}

// publish 事件发送失败只记录日志，不影响请求结果
func (s *GroupService) publish(ctx context.Context, typ events.Type, g *models.Group, userID string, count int) {
	event := events.GroupEvent{
		Type:        typ,
		GroupID:     g.ID,
		GameID:      g.GameID,
		UserID:      userID,
		Status:      string(g.Status),
		MemberCount: count,
		MaxMembers:  g.MaxMembers,
		OccurredAt:  s.now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.WarnContext(ctx, "publish group event failed",
			zap.String("type", string(typ)),
			zap.String("group_id", g.ID),
			zap.Error(err),
		)
	}
}

// mapNotFound 把仓储层 ErrNotFound 转换为具体的业务错误，其余错误原样返回
func mapNotFound(err, domainErr error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return domainErr
	}
	return err
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return KindOf(err).String()
}
