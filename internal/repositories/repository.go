package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Gopher0727/SquadUp/internal/models"
)

var (
	// ErrNotFound 记录不存在，gorm.ErrRecordNotFound 在仓储层统一转换成它
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate 违反唯一约束
	ErrDuplicate = errors.New("duplicate record")
)

// SortField 列表排序字段
type SortField string

const (
	SortByCreatedAt   SortField = "createdAt"
	SortByScheduledAt SortField = "scheduledAt"
	SortByTitle       SortField = "title"
)

// GroupQuery 列表查询条件，字段为零值表示不过滤
// 排序固定先按 is_priority DESC，再按 SortBy，最后按 id 保证翻页稳定
type GroupQuery struct {
	GameID          string
	GameModeID      string
	Platform        models.Platform
	Region          models.Region
	Status          models.GroupStatus
	IsPublic        bool
	ScheduledAfter  *time.Time
	ScheduledBefore *time.Time
	Search          string
	PriorityOnly    bool

	// ViewerID 仅在 IsPublic=false 时生效: 只返回该用户是队长或成员的私有队伍
	ViewerID string

	SortBy   SortField
	SortDesc bool
	Limit    int
	Offset   int
}

// MembershipTx 在持有队伍行锁期间提供给业务层的操作集合
// Group 与 Members 是加锁后读取的快照，修改只通过下面的方法进行
type MembershipTx interface {
	Group() *models.Group
	Members() []models.GroupMember
	AddMember(ctx context.Context, member *models.GroupMember) error
	RemoveMember(ctx context.Context, memberID string) error
	SetStatus(ctx context.Context, status models.GroupStatus) error
}

// GroupStore 队伍持久化
type GroupStore interface {
	// CreateWithOwner 在同一事务中写入队伍和队长成员记录
	CreateWithOwner(ctx context.Context, group *models.Group, owner *models.GroupMember) error
	// FindByID 预加载 Owner/Game/GameMode/Members.User
	FindByID(ctx context.Context, id string) (*models.Group, error)
	// List 返回的队伍预加载 Owner/Game/GameMode/Members
	List(ctx context.Context, q GroupQuery) ([]models.Group, error)
	// UpdateMembership 锁定队伍行后执行 fn，fn 返回错误时整体回滚
	UpdateMembership(ctx context.Context, groupID string, fn func(tx MembershipTx) error) error
	// Delete 删除队伍及其全部成员记录
	Delete(ctx context.Context, id string) error
}

// CatalogStore 游戏目录
type CatalogStore interface {
	ListGames(ctx context.Context) ([]models.Game, error)
	FindGame(ctx context.Context, id string) (*models.Game, error)
	FindGameMode(ctx context.Context, id string) (*models.GameMode, error)
	SeedCatalog(ctx context.Context, games []models.Game) error
}

// UserStore 用户只读访问（seed 除外）
type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	Upsert(ctx context.Context, user *models.User) error
}
