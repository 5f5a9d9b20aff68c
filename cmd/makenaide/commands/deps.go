package commands

import (
	"fmt"

	"github.com/jsj9346/makenaide/internal/collector"
	"github.com/jsj9346/makenaide/internal/data"
	"github.com/jsj9346/makenaide/internal/external/upbit"
	"github.com/jsj9346/makenaide/internal/scoring"
	"github.com/jsj9346/makenaide/internal/trend"
	"github.com/jsj9346/makenaide/pkg/config"
	"github.com/jsj9346/makenaide/pkg/database"
	"github.com/jsj9346/makenaide/pkg/logger"
	"github.com/jsj9346/makenaide/pkg/redis"
)

// deps holds the shared object graph every command builds on
// ⭐ SSOT: 의존성 조립은 이 파일에서만
type deps struct {
	cfg   *config.Config
	log   *logger.Logger
	db    *database.DB
	redis *redis.Client

	ohlcvRepo  *data.OHLCVRepository
	resultRepo *data.ResultRepository
	collector  *collector.Collector
	engine     *scoring.Engine
}

// initDeps loads config and wires the full dependency graph
func initDeps() (*deps, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// 4. Connect to Redis (disabled면 캐시는 pass-through)
	redisClient, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	cache := redis.NewCache(redisClient, "makenaide")

	// 5. Create repositories
	ohlcvRepo := data.NewOHLCVRepository(db.Pool)
	resultRepo := data.NewResultRepository(db.Pool)

	// 6. Create collector (Upbit 공개 API → 지표 계산 → 저장)
	upbitClient := upbit.New(cfg, log)
	col := collector.New(collector.DefaultConfig(), upbitClient, ohlcvRepo, log)

	// 7. Create scoring engine with cached RS universe
	universe := data.NewCachedReturnUniverse(ohlcvRepo, cache, log)
	rater := trend.NewRater(trend.DefaultRSConfig(), universe, log)

	engine, err := scoring.NewEngine(scoring.DefaultConfig(), rater, log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create scoring engine: %w", err)
	}

	return &deps{
		cfg:        cfg,
		log:        log,
		db:         db,
		redis:      redisClient,
		ohlcvRepo:  ohlcvRepo,
		resultRepo: resultRepo,
		collector:  col,
		engine:     engine,
	}, nil
}

// close releases database and redis connections
func (d *deps) close() {
	if d.db != nil {
		d.db.Close()
	}
	if d.redis != nil {
		_ = d.redis.Close()
	}
}
