package models

import "time"

// User 用户由外部系统维护，这里只读取展示字段
type User struct {
	ID         string  `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Username   string  `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email      string  `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Avatar     *string `gorm:"size:512" json:"avatar"`
	Reputation int     `gorm:"not null" json:"reputation"`
	IsPremium  bool    `gorm:"not null" json:"isPremium"`
	SteamID    *string `gorm:"size:64" json:"steamId,omitempty"`
	PsnID      *string `gorm:"size:64" json:"psnId,omitempty"`
	XboxID     *string `gorm:"size:64" json:"xboxId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
