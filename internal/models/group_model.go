package models

import "time"

// Group 组队
type Group struct {
	ID          string      `gorm:"primaryKey;type:varchar(32)"`
	Title       string      `gorm:"size:100;not null"`
	Description *string     `gorm:"type:text"`
	OwnerID     string      `gorm:"type:varchar(32);not null;index"`
	GameID      string      `gorm:"type:varchar(32);not null;index"`
	GameModeID  *string     `gorm:"type:varchar(32);index"`
	Platform    Platform    `gorm:"type:varchar(16);not null"`
	Region      Region      `gorm:"type:varchar(8);not null"`
	MaxMembers  int         `gorm:"not null"`
	IsPublic    bool        `gorm:"not null;index"`
	Status      GroupStatus `gorm:"type:varchar(16);not null;index"`
	ScheduledAt *time.Time  `gorm:"index"`
	Timezone    *string     `gorm:"size:64"`
	IsPriority  bool        `gorm:"not null"`

	Owner    *User         `gorm:"foreignKey:OwnerID"`
	Game     *Game         `gorm:"foreignKey:GameID"`
	GameMode *GameMode     `gorm:"foreignKey:GameModeID"`
	Members  []GroupMember `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (Group) TableName() string {
	return "groups"
}

// Member 在已加载的成员中查找用户
func (g *Group) Member(userID string) (*GroupMember, bool) {
	for i := range g.Members {
		if g.Members[i].UserID == userID {
			return &g.Members[i], true
		}
	}
	return nil, false
}

// VisibleTo 公开队伍对所有人可见，私有队伍仅对队长与成员可见
func (g *Group) VisibleTo(userID string) bool {
	if g.IsPublic {
		return true
	}
	if userID == "" {
		return false
	}
	if g.OwnerID == userID {
		return true
	}
	_, ok := g.Member(userID)
	return ok
}
