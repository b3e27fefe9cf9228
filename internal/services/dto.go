package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Gopher0727/SquadUp/internal/models"
	"github.com/Gopher0727/SquadUp/internal/repositories"
)

const (
	MinGroupMembers = 2
	MaxGroupMembers = 20
	MaxTitleLength  = 100
	MaxTimezoneLen  = 64

	DefaultPageSize = 20
	MaxPageSize     = 100
)

// CreateGroupInput 创建队伍请求
// binding 标签在 HTTP 入口校验，normalize 对其他调用方做同样的检查
type CreateGroupInput struct {
	Title       string          `json:"title" binding:"required,max=100"`
	Description *string         `json:"description"`
	GameID      string          `json:"gameId" binding:"required"`
	GameModeID  *string         `json:"gameModeId"`
	Platform    models.Platform `json:"platform" binding:"required,oneof=PC PlayStation Xbox Switch"`
	Region      models.Region   `json:"region" binding:"required,oneof=NA EU ASIA OCE SA"`
	MaxMembers  int             `json:"maxMembers" binding:"required,min=2,max=20"`
	IsPublic    *bool           `json:"isPublic"`
	ScheduledAt *DateTime       `json:"scheduledAt"`
	Timezone    *string         `json:"timezone" binding:"omitempty,max=64"`
}

// DateTime 接受 RFC3339 时间或 YYYY-MM-DD 日期（按 UTC 零点）
type DateTime struct {
	time.Time
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	t, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// TimePtr nil 安全地取出时间
func (d *DateTime) TimePtr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

// ParseDateTime 解析 RFC3339 时间或 YYYY-MM-DD 日期
func ParseDateTime(v string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: want RFC 3339 or YYYY-MM-DD", v)
}

// normalize 去除首尾空白并校验字段，空字符串的可选字段视为未设置
func (in *CreateGroupInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return invalidInput("title must not be empty")
	}
	if utf8.RuneCountInString(in.Title) > MaxTitleLength {
		return invalidInput("title must be at most %d characters", MaxTitleLength)
	}
	if in.GameID == "" {
		return invalidInput("gameId must not be empty")
	}
	if !in.Platform.Valid() {
		return invalidInput("platform must be one of %s", joinValues(models.Platforms))
	}
	if !in.Region.Valid() {
		return invalidInput("region must be one of %s", joinValues(models.Regions))
	}
	if in.MaxMembers < MinGroupMembers || in.MaxMembers > MaxGroupMembers {
		return invalidInput("maxMembers must be between %d and %d", MinGroupMembers, MaxGroupMembers)
	}
	in.Description = trimOptional(in.Description)
	in.GameModeID = trimOptional(in.GameModeID)
	in.Timezone = trimOptional(in.Timezone)
	if in.Timezone != nil && len(*in.Timezone) > MaxTimezoneLen {
		return invalidInput("timezone must be at most %d characters", MaxTimezoneLen)
	}
	return nil
}

// GroupFilters 列表查询条件，nil / 空值表示使用默认
type GroupFilters struct {
	GameID          string
	GameModeID      string
	Platform        models.Platform
	Region          models.Region
	Status          models.GroupStatus
	IsPublic        *bool
	ScheduledAfter  *time.Time
	ScheduledBefore *time.Time
	Search          string
	PriorityOnly    bool
	SortBy          string // createdAt | scheduledAt | title
	SortOrder       string // asc | desc
	Limit           *int
	Offset          *int
}

// toQuery 校验并补全默认值
// isPublic 未指定时只返回公开队伍；显式指定 false 时只返回 viewer 自己创建或加入的私有队伍
func (f GroupFilters) toQuery(viewerID string) (repositories.GroupQuery, error) {
	q := repositories.GroupQuery{
		GameID:          f.GameID,
		GameModeID:      f.GameModeID,
		Platform:        f.Platform,
		Region:          f.Region,
		Status:          f.Status,
		IsPublic:        true,
		ScheduledAfter:  f.ScheduledAfter,
		ScheduledBefore: f.ScheduledBefore,
		Search:          strings.TrimSpace(f.Search),
		PriorityOnly:    f.PriorityOnly,
		ViewerID:        viewerID,
		SortBy:          repositories.SortByCreatedAt,
		SortDesc:        true,
		Limit:           DefaultPageSize,
	}

	if f.Platform != "" && !f.Platform.Valid() {
		return q, invalidInput("platform must be one of %s", joinValues(models.Platforms))
	}
	if f.Region != "" && !f.Region.Valid() {
		return q, invalidInput("region must be one of %s", joinValues(models.Regions))
	}
	if f.Status != "" && !f.Status.Valid() {
		return q, invalidInput("status must be one of %s", joinValues(models.GroupStatuses))
	}
	if f.IsPublic != nil {
		q.IsPublic = *f.IsPublic
	}

	switch repositories.SortField(f.SortBy) {
	case "":
	case repositories.SortByCreatedAt, repositories.SortByScheduledAt, repositories.SortByTitle:
		q.SortBy = repositories.SortField(f.SortBy)
	default:
		return q, invalidInput("sortBy must be one of createdAt, scheduledAt, title")
	}
	switch strings.ToLower(f.SortOrder) {
	case "", "desc":
	case "asc":
		q.SortDesc = false
	default:
		return q, invalidInput("sortOrder must be asc or desc")
	}

	if f.Limit != nil {
		if *f.Limit < 1 || *f.Limit > MaxPageSize {
			return q, invalidInput("limit must be between 1 and %d", MaxPageSize)
		}
		q.Limit = *f.Limit
	}
	if f.Offset != nil {
		if *f.Offset < 0 {
			return q, invalidInput("offset must not be negative")
		}
		q.Offset = *f.Offset
	}
	return q, nil
}

// ========== 响应 ==========

type UserSummary struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	Avatar     *string `json:"avatar"`
	Reputation int     `json:"reputation"`
}

type GameSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

type GameModeSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type MemberResponse struct {
	ID       string            `json:"id"`
	UserID   string            `json:"userId"`
	Role     models.MemberRole `json:"role"`
	JoinedAt time.Time         `json:"joinedAt"`
	User     *UserSummary      `json:"user,omitempty"`
}

type MemberCount struct {
	Members int `json:"members"`
}

// GroupResponse 队伍详情，列表与详情共用
type GroupResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description *string            `json:"description"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
	MaxMembers  int                `json:"maxMembers"`
	IsPublic    bool               `json:"isPublic"`
	Status      models.GroupStatus `json:"status"`
	GameID      string             `json:"gameId"`
	GameModeID  *string            `json:"gameModeId"`
	Platform    models.Platform    `json:"platform"`
	Region      models.Region      `json:"region"`
	ScheduledAt *time.Time         `json:"scheduledAt"`
	Timezone    *string            `json:"timezone"`
	IsPriority  bool               `json:"isPriority"`
	OwnerID     string             `json:"ownerId"`
	Owner       *UserSummary       `json:"owner"`
	Game        *GameSummary       `json:"game"`
	GameMode    *GameModeSummary   `json:"gameMode"`
	Members     []MemberResponse   `json:"members"`
	Count       MemberCount        `json:"_count"`
}

// IsMember 判断用户是否在成员列表中
func (g *GroupResponse) IsMember(userID string) bool {
	for _, m := range g.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

func NewGroupResponse(g *models.Group) GroupResponse {
	resp := GroupResponse{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
		MaxMembers:  g.MaxMembers,
		IsPublic:    g.IsPublic,
		Status:      g.Status,
		GameID:      g.GameID,
		GameModeID:  g.GameModeID,
		Platform:    g.Platform,
		Region:      g.Region,
		ScheduledAt: g.ScheduledAt,
		Timezone:    g.Timezone,
		IsPriority:  g.IsPriority,
		OwnerID:     g.OwnerID,
		Owner:       newUserSummary(g.Owner),
		Members:     make([]MemberResponse, 0, len(g.Members)),
		Count:       MemberCount{Members: len(g.Members)},
	}
	if g.Game != nil {
		resp.Game = &GameSummary{ID: g.Game.ID, Name: g.Game.Name, ImageURL: g.Game.ImageURL}
	}
	if g.GameMode != nil {
		resp.GameMode = &GameModeSummary{ID: g.GameMode.ID, Name: g.GameMode.Name}
	}
	for _, m := range g.Members {
		resp.Members = append(resp.Members, MemberResponse{
			ID:       m.ID,
			UserID:   m.UserID,
			Role:     m.Role,
			JoinedAt: m.JoinedAt,
			User:     newUserSummary(m.User),
		})
	}
	return resp
}

func newUserSummary(u *models.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Username: u.Username, Avatar: u.Avatar, Reputation: u.Reputation}
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
