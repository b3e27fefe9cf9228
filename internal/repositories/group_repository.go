package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Gopher0727/SquadUp/internal/models"
)

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// CreateWithOwner 创建队伍并写入队长成员记录
// 实现逻辑：开启事务，先插入 groups，再插入 group_members，任一失败整体回滚
func (r *GroupRepository) CreateWithOwner(ctx context.Context, group *models.Group, owner *models.GroupMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(group).Error; err != nil {
			return translateError(err)
		}
		owner.GroupID = group.ID
		if err := tx.Omit(clause.Associations).Create(owner).Error; err != nil {
			return translateError(err)
		}
		return nil
	})
}

// FindByID 根据 ID 获取队伍详情（含队长、游戏、模式、成员及成员用户信息）
func (r *GroupRepository) FindByID(ctx context.Context, id string) (*models.Group, error) {
	var group models.Group
	err := withDetails(r.db.WithContext(ctx)).
		Preload("Members.User").
		Where("id = ?", id).
		First(&group).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &group, nil
}

// List 按条件分页查询队伍
// 排序：is_priority DESC 置顶，其次按指定字段，最后按 id 保证稳定
func (r *GroupRepository) List(ctx context.Context, q GroupQuery) ([]models.Group, error) {
	if !q.IsPublic && q.ViewerID == "" {
		// 匿名用户看不到任何私有队伍
		return []models.Group{}, nil
	}

	db := r.db.WithContext(ctx).Model(&models.Group{})

	if q.GameID != "" {
		db = db.Where("game_id = ?", q.GameID)
	}
	if q.GameModeID != "" {
		db = db.Where("game_mode_id = ?", q.GameModeID)
	}
	if q.Platform != "" {
		db = db.Where("platform = ?", q.Platform)
	}
	if q.Region != "" {
		db = db.Where("region = ?", q.Region)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.IsPublic {
		db = db.Where("is_public = ?", true)
	} else {
		db = db.Where("is_public = ?", false).
			Where("(owner_id = ? OR EXISTS (SELECT 1 FROM group_members gm WHERE gm.group_id = groups.id AND gm.user_id = ?))",
				q.ViewerID, q.ViewerID)
	}
	if q.ScheduledAfter != nil {
		db = db.Where("scheduled_at >= ?", *q.ScheduledAfter)
	}
	if q.ScheduledBefore != nil {
		db = db.Where("scheduled_at <= ?", *q.ScheduledBefore)
	}
	if q.Search != "" {
		pattern := likePattern(q.Search)
		db = db.Where("(title ILIKE ? OR description ILIKE ?)", pattern, pattern)
	}
	if q.PriorityOnly {
		db = db.Where("is_priority = ?", true)
	}

	db = db.Order("is_priority DESC").Order(orderClause(q.SortBy, q.SortDesc)).Order("id ASC")
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	if q.Offset > 0 {
		db = db.Offset(q.Offset)
	}

	groups := make([]models.Group, 0)
	if err := withDetails(db).Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// UpdateMembership 在事务中以 SELECT ... FOR UPDATE 锁定队伍行，再交给 fn 做容量校验与成员变更
// 并发加入同一队伍时后到的事务会阻塞在行锁上，读到的是已提交的成员数
func (r *GroupRepository) UpdateMembership(ctx context.Context, groupID string, fn func(tx MembershipTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var group models.Group
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", groupID).
			First(&group).Error
		if err != nil {
			return translateError(err)
		}

		var members []models.GroupMember
		if err := tx.Where("group_id = ?", groupID).Order("joined_at ASC").Find(&members).Error; err != nil {
			return err
		}

		return fn(&membershipTx{tx: tx, group: &group, members: members})
	})
}

// Delete 删除队伍，成员记录在同一事务中先删除
func (r *GroupRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&models.GroupMember{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Group{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Owner").
		Preload("Game").
		Preload("GameMode").
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at ASC")
		})
}

func orderClause(field SortField, desc bool) string {
	dir := " ASC"
	if desc {
		dir = " DESC"
	}
	switch field {
	case SortByTitle:
		return "LOWER(title)" + dir
	case SortByScheduledAt:
		// 未设置时间的队伍无论升降序都排在最后
		return "scheduled_at" + dir + " NULLS LAST"
	default:
		return "created_at" + dir
	}
}

// membershipTx 绑定在一个已加锁的事务上
type membershipTx struct {
	tx      *gorm.DB
	group   *models.Group
	members []models.GroupMember
}

func (m *membershipTx) Group() *models.Group { return m.group }

func (m *membershipTx) Members() []models.GroupMember { return m.members }

func (m *membershipTx) AddMember(ctx context.Context, member *models.GroupMember) error {
	member.GroupID = m.group.ID
	if err := m.tx.WithContext(ctx).Omit(clause.Associations).Create(member).Error; err != nil {
		return translateError(err)
	}
	m.members = append(m.members, *member)
	return nil
}

func (m *membershipTx) RemoveMember(ctx context.Context, memberID string) error {
	res := m.tx.WithContext(ctx).Where("id = ? AND group_id = ?", memberID, m.group.ID).Delete(&models.GroupMember{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	for i := range m.members {
		if m.members[i].ID == memberID {
			m.members = append(m.members[:i], m.members[i+1:]...)
			break
		}
	}
	return nil
}

func (m *membershipTx) SetStatus(ctx context.Context, status models.GroupStatus) error {
	if m.group.Status == status {
		return nil
	}
	if err := m.tx.WithContext(ctx).Model(m.group).Update("status", status).Error; err != nil {
		return err
	}
	m.group.Status = status
	return nil
}
