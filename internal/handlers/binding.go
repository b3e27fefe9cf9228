package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Gopher0727/SquadUp/internal/models"
	"github.com/Gopher0727/SquadUp/internal/services"
)

// bindMessages 字段名 -> 校验标签 -> 返回给客户端的提示
type bindMessages map[string]map[string]string

var createGroupMessages = bindMessages{
	"Title": {
		"required": "title must not be empty",
		"max":      fmt.Sprintf("title must be at most %d characters", services.MaxTitleLength),
	},
	"GameID":     {"required": "gameId must not be empty"},
	"Platform":   oneOfMessages("platform", models.Platforms, "required"),
	"Region":     oneOfMessages("region", models.Regions, "required"),
	"MaxMembers": rangeMessages("maxMembers", services.MinGroupMembers, services.MaxGroupMembers, "required"),
	"Timezone":   {"max": fmt.Sprintf("timezone must be at most %d characters", services.MaxTimezoneLen)},
}

var listGroupsMessages = bindMessages{
	"Platform":     oneOfMessages("platform", models.Platforms),
	"Region":       oneOfMessages("region", models.Regions),
	"Status":       oneOfMessages("status", models.GroupStatuses),
	"IsPublic":     {"oneof": "isPublic must be true or false"},
	"PriorityOnly": {"oneof": "priorityOnly must be true or false"},
	"SortBy":       {"oneof": "sortBy must be one of createdAt, scheduledAt, title"},
	"SortOrder":    {"oneof": "sortOrder must be asc or desc"},
	"Limit":        rangeMessages("limit", 1, services.MaxPageSize),
	"Offset":       {"min": "offset must not be negative"},
}

// bindJSON 绑定并校验请求体，失败时写入 400
func bindJSON(c *gin.Context, req any, messages bindMessages) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, resolveBindError(err, messages, "Invalid request body"))
		return false
	}
	return true
}

// bindQuery 查询参数中只有 limit / offset 按整数解析，其余失败都来自校验标签
func bindQuery(c *gin.Context, req any, messages bindMessages) error {
	if err := c.ShouldBindQuery(req); err != nil {
		return errors.New(resolveBindError(err, messages, "limit and offset must be integers"))
	}
	return nil
}

func resolveBindError(err error, messages bindMessages, fallback string) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, verr := range verrs {
			if fieldMsgs, ok := messages[verr.Field()]; ok {
				if msg, ok := fieldMsgs[verr.Tag()]; ok {
					return msg
				}
			}
		}
		return "Invalid value for " + verrs[0].Field()
	}
	return fallback
}

func oneOfMessages[T ~string](field string, values []T, extraTags ...string) map[string]string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	msg := fmt.Sprintf("%s must be one of %s", field, strings.Join(names, ", "))
	return withTags(msg, append(extraTags, "oneof"))
}

func rangeMessages(field string, lo, hi int, extraTags ...string) map[string]string {
	msg := fmt.Sprintf("%s must be between %d and %d", field, lo, hi)
	return withTags(msg, append(extraTags, "min", "max"))
}

func withTags(msg string, tags []string) map[string]string {
	m := make(map[string]string, len(tags))
	for _, tag := range tags {
		m[tag] = msg
	}
	return m
}
