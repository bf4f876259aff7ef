package app

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/nguyentranbao-ct/product-search/internal/config"
	"github.com/nguyentranbao-ct/product-search/internal/kafka"
	"github.com/nguyentranbao-ct/product-search/internal/repo/catalog"
	"github.com/nguyentranbao-ct/product-search/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/product-search/internal/repo/urlcheck"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

func newGenkitClient(cfg *config.Config) (*genkit.Genkit, error) {
	ctx := context.Background()
	googleAI := &googlegenai.GoogleAI{
		APIKey: cfg.LLM.GoogleAIAPIKey,
	}
	return genkit.Init(ctx, genkit.WithPlugins(googleAI)), nil
}

// newRedisClient builds the one shared client backing the rate limiter.
// Constructed once at process start and injected everywhere; there is no
// lazily-initialized global.
func newRedisClient(lc fx.Lifecycle, cfg *config.Config) redis.UniversalClient {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("ping redis: %w", err)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client
}

func newProductSource(lc fx.Lifecycle, cfg *config.Config) (catalog.ProductSource, error) {
	if !cfg.Database.Enabled {
		return catalog.NewEmptySource(), nil
	}

	db, err := mongodb.NewConnection(context.Background(), cfg.Database.URI, cfg.Database.Database)
	if err != nil {
		return nil, fmt.Errorf("init catalog database: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return db.Close(ctx)
		},
	})

	return catalog.NewMongoSource(db), nil
}

func newImageChecker(cfg *config.Config) urlcheck.Checker {
	return urlcheck.NewChecker(cfg.Search.ImageCheckTimeout)
}

func newEventPublisher(lc fx.Lifecycle, cfg *config.Config) kafka.Publisher {
	publisher := kafka.NewPublisher(cfg)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return publisher.Close()
		},
	})

	return publisher
}
