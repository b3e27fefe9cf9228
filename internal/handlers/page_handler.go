package handlers

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Gopher0727/SquadUp/internal/middlewares"
	"github.com/Gopher0727/SquadUp/internal/services"
	"github.com/Gopher0727/SquadUp/internal/web"
	logger "github.com/Gopher0727/SquadUp/middleware/log"
)

// PageHandler 服务端渲染页面，与 REST 接口共用业务服务
type PageHandler struct {
	groups  *services.GroupService
	catalog *services.CatalogService
	log     *logger.Logger
}

func NewPageHandler(groups *services.GroupService, catalog *services.CatalogService, log *logger.Logger) *PageHandler {
	return &PageHandler{groups: groups, catalog: catalog, log: log}
}

// Index GET /
func (h *PageHandler) Index(c *gin.Context) {
	c.Redirect(http.StatusFound, "/ui/groups")
}

// Groups GET /ui/groups
func (h *PageHandler) Groups(c *gin.Context) {
	ctx := c.Request.Context()
	viewerID := middlewares.UserID(c)

	var q listGroupsQuery
	bindErr := bindQuery(c, &q, listGroupsMessages)
	view := web.BrowserView{
		ViewerID: viewerID,
		Filters: web.FilterValues{
			GameID:    q.GameID,
			Platform:  q.Platform,
			Region:    q.Region,
			Status:    q.Status,
			IsPublic:  q.IsPublic,
			Search:    q.Search,
			SortBy:    q.SortBy,
			SortOrder: q.SortOrder,
		},
	}

	games, err := h.catalog.ListGames(ctx)
	if err != nil {
		h.renderError(c, err)
		return
	}
	view.Games = games

	status := http.StatusOK
	filters, err := q.toFilters()
	if bindErr != nil {
		err = bindErr
	}
	if err != nil {
		view.Error = err.Error()
		status = http.StatusBadRequest
	} else if view.Groups, err = h.groups.FindGroups(ctx, filters, viewerID); err != nil {
		if services.KindOf(err) != services.KindBadRequest {
			h.renderError(c, err)
			return
		}
		view.Error = err.Error()
		status = http.StatusBadRequest
	}

	h.render(c, status, web.GroupBrowser(view))
}

// GroupDetail GET /ui/groups/:id
func (h *PageHandler) GroupDetail(c *gin.Context) {
	viewerID := middlewares.UserID(c)
	group, err := h.groups.FindGroupByID(c.Request.Context(), c.Param("id"), viewerID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, web.GroupDetail(web.DetailView{Group: *group, ViewerID: viewerID}))
}

func (h *PageHandler) renderError(c *gin.Context, err error) {
	var de *services.DomainError
	if errors.As(err, &de) {
		h.render(c, statusFor(de.Kind), web.ErrorPage(de.Message))
		return
	}
	h.log.ErrorContext(c.Request.Context(), "page render failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	h.render(c, http.StatusInternalServerError, web.ErrorPage("Something went wrong, please try again later"))
}

func (h *PageHandler) render(c *gin.Context, status int, page templ.Component) {
	templ.Handler(page, templ.WithStatus(status)).ServeHTTP(c.Writer, c.Request)
}
