package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Gopher0727/SquadUp/internal/models"
	"github.com/Gopher0727/SquadUp/internal/services"
)

// listGroupsQuery GET /groups 的查询参数
// 布尔与时间按字符串接收，空值表示未设置（页面表单会提交空字段）
type listGroupsQuery struct {
	GameID          string `form:"gameId"`
	GameModeID      string `form:"gameModeId"`
	Platform        string `form:"platform" binding:"omitempty,oneof=PC PlayStation Xbox Switch"`
	Region          string `form:"region" binding:"omitempty,oneof=NA EU ASIA OCE SA"`
	Status          string `form:"status" binding:"omitempty,oneof=OPEN FULL IN_PROGRESS COMPLETED CANCELLED"`
	IsPublic        string `form:"isPublic" binding:"omitempty,oneof=true false"`
	ScheduledAfter  string `form:"scheduledAfter"`
	ScheduledBefore string `form:"scheduledBefore"`
	Search          string `form:"search"`
	PriorityOnly    string `form:"priorityOnly" binding:"omitempty,oneof=true false"`
	SortBy          string `form:"sortBy" binding:"omitempty,oneof=createdAt scheduledAt title"`
	SortOrder       string `form:"sortOrder" binding:"omitempty,oneof=asc desc ASC DESC"`
	Limit           *int   `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset          *int   `form:"offset" binding:"omitempty,min=0"`
}

// toFilters 转换已通过 binding 校验的参数，时间在这里解析
func (q listGroupsQuery) toFilters() (services.GroupFilters, error) {
	f := services.GroupFilters{
		GameID:     strings.TrimSpace(q.GameID),
		GameModeID: strings.TrimSpace(q.GameModeID),
		Platform:   models.Platform(q.Platform),
		Region:     models.Region(q.Region),
		Status:     models.GroupStatus(q.Status),
		Search:     q.Search,
		SortBy:     q.SortBy,
		SortOrder:  q.SortOrder,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}

	var err error
	if f.IsPublic, err = parseOptionalBool("isPublic", q.IsPublic); err != nil {
		return f, err
	}
	priority, err := parseOptionalBool("priorityOnly", q.PriorityOnly)
	if err != nil {
		return f, err
	}
	f.PriorityOnly = priority != nil && *priority

	if f.ScheduledAfter, err = parseOptionalTime("scheduledAfter", q.ScheduledAfter); err != nil {
		return f, err
	}
	if f.ScheduledBefore, err = parseOptionalTime("scheduledBefore", q.ScheduledBefore); err != nil {
		return f, err
	}
	return f, nil
}

func parseOptionalBool(name, v string) (*bool, error) {
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("%s must be true or false", name)
	}
	return &b, nil
}

func parseOptionalTime(name, v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := services.ParseDateTime(v)
	if err != nil {
		return nil, fmt.Errorf("%s must be an ISO 8601 date", name)
	}
	return &t, nil
}
