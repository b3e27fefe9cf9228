package client

import "time"

// GroupFilters mirrors the query parameters of GET /groups. Zero values are not sent.
type GroupFilters struct {
	GameID          string
	GameModeID      string
	Platform        string
	Region          string
	Status          string
	IsPublic        *bool
	ScheduledAfter  *time.Time
	ScheduledBefore *time.Time
	Search          string
	PriorityOnly    bool
	SortBy          string
	SortOrder       string
	Limit           int
	Offset          int
}

type CreateGroupRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	GameID      string     `json:"gameId"`
	GameModeID  *string    `json:"gameModeId,omitempty"`
	Platform    string     `json:"platform"`
	Region      string     `json:"region"`
	MaxMembers  int        `json:"maxMembers"`
	IsPublic    *bool      `json:"isPublic,omitempty"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	Timezone    *string    `json:"timezone,omitempty"`
}

type User struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	Avatar     *string `json:"avatar"`
	Reputation int     `json:"reputation"`
}

type Member struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
	User     *User     `json:"user"`
}

type Group struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	MaxMembers  int          `json:"maxMembers"`
	IsPublic    bool         `json:"isPublic"`
	Status      string       `json:"status"`
	GameID      string       `json:"gameId"`
	GameModeID  *string      `json:"gameModeId"`
	Platform    string       `json:"platform"`
	Region      string       `json:"region"`
	ScheduledAt *time.Time   `json:"scheduledAt"`
	Timezone    *string      `json:"timezone"`
	IsPriority  bool         `json:"isPriority"`
	OwnerID     string       `json:"ownerId"`
	Owner       *User        `json:"owner"`
	Game        *GameSummary `json:"game"`
	GameMode    *ModeSummary `json:"gameMode"`
	Members     []Member     `json:"members"`
	Count       MemberCount  `json:"_count"`
}

type GameSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

type ModeSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type MemberCount struct {
	Members int `json:"members"`
}

type GameMode struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	GameID      string `json:"gameId"`
}

type Game struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Slug               string     `json:"slug"`
	Description        string     `json:"description"`
	ImageURL           string     `json:"imageUrl"`
	MaxPlayersPerGroup int        `json:"maxPlayersPerGroup"`
	Platforms          []string   `json:"platforms"`
	Modes              []GameMode `json:"modes"`
}
