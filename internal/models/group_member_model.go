package models

import "time"

// GroupMember 队伍成员，(group_id, user_id) 唯一
type GroupMember struct {
	ID       string     `gorm:"primaryKey;type:varchar(32)"`
	GroupID  string     `gorm:"type:varchar(32);not null;uniqueIndex:idx_group_user"`
	UserID   string     `gorm:"type:varchar(32);not null;uniqueIndex:idx_group_user;index"`
	Role     MemberRole `gorm:"type:varchar(16);not null"`
	JoinedAt time.Time  `gorm:"not null"`

	Group *Group `gorm:"foreignKey:GroupID"`
	User  *User  `gorm:"foreignKey:UserID"`
}

func (GroupMember) TableName() string {
	return "group_members"
}
