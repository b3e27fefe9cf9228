package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Gopher0727/SquadUp/internal/models"
	"github.com/Gopher0727/SquadUp/internal/repositories"
	logger "github.com/Gopher0727/SquadUp/middleware/log"
)

// CatalogService 游戏目录（只读），以及 seed 写入
type CatalogService struct {
	catalog repositories.CatalogStore
	ids     IDGenerator
	log     *logger.Logger
}

func NewCatalogService(catalog repositories.CatalogStore, ids IDGenerator, log *logger.Logger) *CatalogService {
	if log == nil {
		log = logger.NewNop()
	}
	return &CatalogService{catalog: catalog, ids: ids, log: log}
}

// ListGames 获取全部游戏及模式，按名称排序
func (s *CatalogService) ListGames(ctx context.Context) ([]models.Game, error) {
	games, err := s.catalog.ListGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// GetGame 获取单个游戏
func (s *CatalogService) GetGame(ctx context.Context, id string) (*models.Game, error) {
	game, err := s.catalog.FindGame(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrGameNotFound)
	}
	return game, nil
}

// Seed 写入游戏目录，缺少 ID 的游戏与模式在这里分配
// 已存在的游戏（按 slug）保留原 ID
func (s *CatalogService) Seed(ctx context.Context, games []models.Game) error {
	for i := range games {
		if games[i].ID == "" {
			id, err := s.ids.NextString()
			if err != nil {
				return fmt.Errorf("generate game id: %w", err)
			}
			games[i].ID = id
		}
		for j := range games[i].Modes {
			if games[i].Modes[j].ID != "" {
				continue
			}
			id, err := s.ids.NextString()
			if err != nil {
				return fmt.Errorf("generate game mode id: %w", err)
			}
			games[i].Modes[j].ID = id
		}
	}

	if err := s.catalog.SeedCatalog(ctx, games); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	s.log.InfoContext(ctx, "catalog seeded", zap.Int("games", len(games)))
	return nil
}
