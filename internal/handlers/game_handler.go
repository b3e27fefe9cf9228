package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/SquadUp/internal/services"
	logger "github.com/Gopher0727/SquadUp/middleware/log"
)

// GameHandler 游戏目录接口
type GameHandler struct {
	catalog *services.CatalogService
	log     *logger.Logger
}

func NewGameHandler(catalog *services.CatalogService, log *logger.Logger) *GameHandler {
	return &GameHandler{catalog: catalog, log: log}
}

// ListGames GET /games
func (h *GameHandler) ListGames(c *gin.Context) {
	games, err := h.catalog.ListGames(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

// GetGame GET /games/:id
func (h *GameHandler) GetGame(c *gin.Context) {
	game, err := h.catalog.GetGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, game)
}
