package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Gopher0727/SquadUp/internal/metrics"
	"github.com/Gopher0727/SquadUp/internal/models"
	logger "github.com/Gopher0727/SquadUp/middleware/log"
)

// 缓存键，值为 JSON 编码的 []Game / Game
const (
	gamesCacheKey      = "catalog:games"
	gameCacheKeyPrefix = "catalog:game:"
	defaultCatalogTTL  = 5 * time.Minute
)

// GameRepository 游戏目录，读多写少，读路径走 Redis 缓存
// redis 为 nil 时直接读库
type GameRepository struct {
	db      *gorm.DB
	redis   *redis.Client
	ttl     time.Duration
	log     *logger.Logger
	metrics *metrics.Metrics
}

func NewGameRepository(db *gorm.DB, rdb *redis.Client, ttl time.Duration, log *logger.Logger, m *metrics.Metrics) *GameRepository {
	if ttl <= 0 {
		ttl = defaultCatalogTTL
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &GameRepository{db: db, redis: rdb, ttl: ttl, log: log, metrics: m}
}

// ListGames 获取全部游戏及其模式，按名称排序
func (r *GameRepository) ListGames(ctx context.Context) ([]models.Game, error) {
	var games []models.Game
	if r.cacheGet(ctx, gamesCacheKey, &games) {
		return games, nil
	}

	games = make([]models.Game, 0)
	err := r.db.WithContext(ctx).
		Preload("Modes", orderByID).
		Order("name ASC").
		Find(&games).Error
	if err != nil {
		return nil, err
	}

	r.cacheSet(ctx, gamesCacheKey, games)
	return games, nil
}

// FindGame 根据 ID 获取游戏 (带缓存)
func (r *GameRepository) FindGame(ctx context.Context, id string) (*models.Game, error) {
	key := gameCacheKeyPrefix + id

	var game models.Game
	if r.cacheGet(ctx, key, &game) {
		return &game, nil
	}

	err := r.db.WithContext(ctx).
		Preload("Modes", orderByID).
		Where("id = ?", id).
		First(&game).Error
	if err != nil {
		return nil, translateError(err)
	}

	r.cacheSet(ctx, key, &game)
	return &game, nil
}

// FindGameMode 根据 ID 获取游戏模式
func (r *GameRepository) FindGameMode(ctx context.Context, id string) (*models.GameMode, error) {
	var mode models.GameMode
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&mode).Error; err != nil {
		return nil, translateError(err)
	}
	return &mode, nil
}

// SeedCatalog 按 slug 幂等写入游戏，按 (game_id, name) 幂等写入模式
// 已存在的行保留原 ID，只更新展示字段；写入后清理缓存
func (r *GameRepository) SeedCatalog(ctx context.Context, games []models.Game) error {
	ids := make([]string, 0, len(games))

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range games {
			game := games[i]
			err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "slug"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"name", "description", "image_url", "max_players_per_group", "platforms", "updated_at",
				}),
			}).Create(&game).Error
			if err != nil {
				return err
			}

			var stored models.Game
			if err := tx.Where("slug = ?", game.Slug).First(&stored).Error; err != nil {
				return err
			}
			ids = append(ids, stored.ID)

			for j := range games[i].Modes {
				mode := games[i].Modes[j]
				mode.GameID = stored.ID
				err := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "game_id"}, {Name: "name"}},
					DoUpdates: clause.AssignmentColumns([]string{"description", "updated_at"}),
				}).Create(&mode).Error
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.invalidate(ctx, ids...)
	return nil
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// cacheGet 命中返回 true；缓存不可用或数据损坏时视为未命中
func (r *GameRepository) cacheGet(ctx context.Context, key string, dst any) bool {
	if r.redis == nil {
		return false
	}
	val, err := r.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.WarnContext(ctx, "catalog cache read failed", zap.String("key", key), zap.Error(err))
		}
		r.metrics.CacheLookup(false)
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		r.log.WarnContext(ctx, "catalog cache entry corrupt", zap.String("key", key), zap.Error(err))
		r.metrics.CacheLookup(false)
		return false
	}
	r.metrics.CacheLookup(true)
	return true
}

func (r *GameRepository) cacheSet(ctx context.Context, key string, v any) {
	if r.redis == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.redis.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.log.WarnContext(ctx, "catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (r *GameRepository) invalidate(ctx context.Context, gameIDs ...string) {
	if r.redis == nil {
		return
	}
	keys := []string{gamesCacheKey}
	for _, id := range gameIDs {
		keys = append(keys, gameCacheKeyPrefix+id)
	}
	if err := r.redis.Del(ctx, keys...).Err(); err != nil {
		r.log.WarnContext(ctx, "catalog cache invalidation failed", zap.Error(err))
	}
}
