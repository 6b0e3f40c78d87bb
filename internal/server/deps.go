package server

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/recipe-buddy/backend/config"
	"github.com/pageza/recipe-buddy/backend/internal/database"
	"github.com/pageza/recipe-buddy/backend/internal/middleware"
	"github.com/pageza/recipe-buddy/backend/internal/service"
	"github.com/pageza/recipe-buddy/backend/internal/store"
)

// Dependencies is everything the API and the CLI share.
type Dependencies struct {
	Users       service.UserStore
	Sessions    service.SessionStore
	Ollama      *service.OllamaClient
	Interpreter *service.Interpreter
	Exporter    service.Exporter
	Suggestions *service.SuggestionService
	Limiter     gin.HandlerFunc

	db    *gorm.DB
	redis *redis.Client
}

// NewDependencies connects the configured stores and builds the suggestion
// service. Redis and S3 are optional: when Redis cannot be reached sessions
// stay in memory and rate limiting is off.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	d := &Dependencies{}

	switch cfg.UserStore {
	case config.StoreSQLite, config.StorePostgres:
		db, err := database.Open(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open user store: %w", err)
		}
		if err := database.Migrate(db); err != nil {
			_ = database.Close(db)
			return nil, err
		}
		d.db = db
		d.Users = store.NewGormStore(db)
	default:
		d.Users = store.NewFileStore(cfg.UsersFile())
		log.Printf("Using file user store at %s", cfg.UsersFile())
	}

	d.Sessions = service.NewMemorySessionStore()
	if cfg.RedisEnabled() {
		client, err := database.NewRedisClient(cfg)
		if err != nil {
			log.Printf("Warning: Redis unavailable, keeping sessions in memory: %v", err)
		} else {
			d.redis = client
			d.Sessions = service.NewRedisSessionStore(client)
			if cfg.RateLimitPerMinute > 0 {
				d.Limiter = middleware.NewSuggestionRateLimiter(client, cfg.RateLimitPerMinute).RateLimitMiddleware()
			}
		}
	}

	if cfg.ExportEnabled() {
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			log.Printf("Warning: S3 unavailable, export disabled: %v", err)
		} else {
			d.Exporter = service.NewS3Exporter(s3cfg)
		}
	}

	stripper, err := service.NewStripper(cfg.ResponseWrapper, cfg.ResponseTrimPrefix, cfg.ResponseTrimSuffix)
	if err != nil {
		d.Close()
		return nil, err
	}
	policy, err := service.ParsePolicy(cfg.FallbackPolicy)
	if err != nil {
		d.Close()
		return nil, err
	}
	d.Interpreter = service.NewInterpreter(cfg.RecipeBatchSize, stripper, policy)

	d.Ollama = service.NewOllamaClient(service.OllamaConfig{
		BaseURL: cfg.OllamaURL,
		Timeout: cfg.OllamaTimeout,
	})

	d.Suggestions = service.NewSuggestionService(d.Users, d.Sessions, d.Ollama, d.Interpreter, d.Exporter, service.SuggestionConfig{
		Model:       cfg.OllamaModel,
		Temperature: cfg.OllamaTemperature,
		Timeout:     cfg.OllamaTimeout,
		AutoPull:    cfg.OllamaAutoPull,
	})

	return d, nil
}

// Close releases database and Redis connections.
func (d *Dependencies) Close() error {
	var errs []error
	if d.redis != nil {
		errs = append(errs, d.redis.Close())
	}
	if d.db != nil {
		errs = append(errs, database.Close(d.db))
	}
	return errors.Join(errs...)
}
