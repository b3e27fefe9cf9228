package models

import (
	"time"

	"gorm.io/datatypes"
)

// Game 游戏目录，由 seed 写入，只读
type Game struct {
	ID                 string                        `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Name               string                        `gorm:"size:100;not null" json:"name"`
	Slug               string                        `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Description        string                        `gorm:"type:text" json:"description"`
	ImageURL           string                        `gorm:"size:512" json:"imageUrl"`
	MaxPlayersPerGroup int                           `gorm:"not null" json:"maxPlayersPerGroup"`
	Platforms          datatypes.JSONSlice[Platform] `gorm:"type:jsonb" json:"platforms"`
	Modes              []GameMode                    `gorm:"foreignKey:GameID" json:"modes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Game) TableName() string {
	return "games"
}

// GameMode 游戏模式，属于某个 Game
type GameMode struct {
	ID          string `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Name        string `gorm:"size:100;not null;uniqueIndex:idx_game_mode_name" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	GameID      string `gorm:"type:varchar(32);not null;uniqueIndex:idx_game_mode_name" json:"gameId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (GameMode) TableName() string {
	return "game_modes"
}
