package services

import (
	"gorm.io/datatypes"

	"github.com/Gopher0727/SquadUp/internal/models"
)

// DefaultCatalog 内置游戏目录，每次调用返回新的切片
func DefaultCatalog() []models.Game {
	all := datatypes.JSONSlice[models.Platform]{models.PlatformPC, models.PlatformPlayStation, models.PlatformXbox}
	pcOnly := datatypes.JSONSlice[models.Platform]{models.PlatformPC}
	return []models.Game{
		{
			Name:               "Destiny 2",
			Slug:               "destiny-2",
			Description:        "A free-to-play online-only multiplayer first-person shooter video game",
			ImageURL:           "https://images.igdb.com/igdb/image/upload/t_cover_big/co1tmu.jpg",
			MaxPlayersPerGroup: 6,
			Platforms:          all,
			Modes: []models.GameMode{
				{Name: "Raid", Description: "Challenging 6-player PvE content"},
				{Name: "Dungeon", Description: "3-player challenging PvE content"},
				{Name: "Nightfall", Description: "High-level strike with modifiers"},
				{Name: "Crucible", Description: "Player vs Player combat"},
				{Name: "Gambit", Description: "PvEvP hybrid game mode"},
			},
		},
		{
			Name:               "World of Warcraft",
			Slug:               "world-of-warcraft",
			Description:        "A massively multiplayer online role-playing game",
			ImageURL:           "https://images.igdb.com/igdb/image/upload/t_cover_big/co1wyy.jpg",
			MaxPlayersPerGroup: 40,
			Platforms:          pcOnly,
			Modes: []models.GameMode{
				{Name: "Mythic+", Description: "Challenging 5-player dungeons"},
				{Name: "Raid", Description: "Large group PvE content"},
				{Name: "PvP", Description: "Player vs Player battlegrounds and arenas"},
				{Name: "Leveling", Description: "Questing and leveling together"},
			},
		},
		{
			Name:               "League of Legends",
			Slug:               "league-of-legends",
			Description:        "A multiplayer online battle arena video game",
			ImageURL:           "https://images.igdb.com/igdb/image/upload/t_cover_big/co1rgi.jpg",
			MaxPlayersPerGroup: 5,
			Platforms:          pcOnly,
			Modes: []models.GameMode{
				{Name: "Ranked Solo/Duo", Description: "Competitive ranked matches"},
				{Name: "Ranked Flex", Description: "Flexible ranked team matches"},
				{Name: "Normal Draft", Description: "Casual draft pick matches"},
				{Name: "ARAM", Description: "All Random All Mid"},
			},
		},
		{
			Name:               "Valorant",
			Slug:               "valorant",
			Description:        "A free-to-play first-person tactical hero shooter",
			ImageURL:           "https://images.igdb.com/igdb/image/upload/t_cover_big/co2mvt.jpg",
			MaxPlayersPerGroup: 5,
			Platforms:          pcOnly,
			Modes: []models.GameMode{
				{Name: "Competitive", Description: "Ranked competitive matches"},
				{Name: "Unrated", Description: "Casual unranked matches"},
				{Name: "Spike Rush", Description: "Quick 4-round matches"},
				{Name: "Deathmatch", Description: "Free-for-all deathmatch"},
			},
		},
	}
}

// DemoUsers 本地演示用户，配合 cmd/devtoken 生成令牌
func DemoUsers() []models.User {
	return []models.User{
		{ID: "1", Username: "guardian", Email: "guardian@example.com", Reputation: 120, IsPremium: true},
		{ID: "2", Username: "healer", Email: "healer@example.com", Reputation: 80},
		{ID: "3", Username: "tank", Email: "tank@example.com", Reputation: 45},
		{ID: "4", Username: "support", Email: "support@example.com", Reputation: 10},
	}
}
