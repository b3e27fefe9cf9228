package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/SquadUp/internal/middlewares"
	"github.com/Gopher0727/SquadUp/internal/services"
	logger "github.com/Gopher0727/SquadUp/middleware/log"
)

// GroupHandler 队伍接口
type GroupHandler struct {
	groups *services.GroupService
	log    *logger.Logger
}

// NewGroupHandler 创建队伍处理器实例
func NewGroupHandler(groups *services.GroupService, log *logger.Logger) *GroupHandler {
	return &GroupHandler{groups: groups, log: log}
}

// CreateGroup POST /groups
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var in services.CreateGroupInput
	if !bindJSON(c, &in, createGroupMessages) {
		return
	}

	group, err := h.groups.CreateGroup(c.Request.Context(), middlewares.UserID(c), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

// ListGroups GET /groups
func (h *GroupHandler) ListGroups(c *gin.Context) {
	var q listGroupsQuery
	if err := bindQuery(c, &q, listGroupsMessages); err != nil {
		badRequest(c, err.Error())
		return
	}
	filters, err := q.toFilters()
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	groups, err := h.groups.FindGroups(c.Request.Context(), filters, middlewares.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// GetGroup GET /groups/:id
func (h *GroupHandler) GetGroup(c *gin.Context) {
	group, err := h.groups.FindGroupByID(c.Request.Context(), c.Param("id"), middlewares.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// JoinGroup POST /groups/:id/join
func (h *GroupHandler) JoinGroup(c *gin.Context) {
	msg, err := h.groups.JoinGroup(c.Request.Context(), c.Param("id"), middlewares.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// LeaveGroup POST /groups/:id/leave
func (h *GroupHandler) LeaveGroup(c *gin.Context) {
	msg, err := h.groups.LeaveGroup(c.Request.Context(), c.Param("id"), middlewares.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// DeleteGroup DELETE /groups/:id
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	msg, err := h.groups.DeleteGroup(c.Request.Context(), c.Param("id"), middlewares.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
