package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/iliyamo/cinemood/internal/config"
	"github.com/iliyamo/cinemood/internal/database"
	"github.com/iliyamo/cinemood/internal/docstore"
	"github.com/iliyamo/cinemood/internal/handler"
	"github.com/iliyamo/cinemood/internal/identity"
	"github.com/iliyamo/cinemood/internal/logging"
	"github.com/iliyamo/cinemood/internal/middleware"
	"github.com/iliyamo/cinemood/internal/queue"
	"github.com/iliyamo/cinemood/internal/repository"
	"github.com/iliyamo/cinemood/internal/router"
	"github.com/iliyamo/cinemood/internal/service"
)

type stores struct {
	shows   service.ShowStore
	users   service.UserStore
	catalog service.CatalogStore
	pinger  handler.Pinger
	close   func()
}

func openStores(ctx context.Context, cfg config.Config) (stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := database.OpenMongo(cfg.MongoURI)
		if err != nil {
			return stores{}, err
		}
		db := client.Database(cfg.MongoDB)
		if err := docstore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return stores{}, err
		}
		return mongoStores(client, db), nil
	default:
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return stores{}, err
		}
		if err := database.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return stores{}, err
		}
		return mysqlStores(db), nil
	}
}

func mysqlStores(db *sql.DB) stores {
	return stores{
		shows:   repository.NewShowRepo(db),
		users:   repository.NewUserRepo(db),
		catalog: repository.NewCatalogRepo(db),
		pinger:  db,
		close:   func() { _ = db.Close() },
	}
}

func mongoStores(client *mongo.Client, db *mongo.Database) stores {
	return stores{
		shows:   docstore.NewShowStore(db),
		users:   docstore.NewUserStore(db),
		catalog: docstore.NewCatalogStore(db),
		pinger:  database.MongoPinger{Client: client},
		close:   func() { _ = client.Disconnect(context.Background()) },
	}
}

func main() {
	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	st, err := openStores(initCtx, cfg)
	cancel()
	if err != nil {
		logging.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("store init failed")
	}
	defer st.close()

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)

	// nil disables publishing in the services.
	var events service.EventPublisher
	if cfg.EventsEnabled {
		events = queue.NewPublisher(cfg.AMQPURL)
		go func() {
			if err := queue.StartActivityConsumer(ctx, cfg.AMQPURL, cfg.ActivityLogDir); err != nil && !errors.Is(err, context.Canceled) {
				logging.Error().Err(err).Msg("activity consumer stopped")
			}
		}()
	}

	e := router.New(router.Deps{
		Health:    &handler.HealthHandler{Store: st.pinger},
		Catalog:   &handler.CatalogHandler{Catalog: service.NewCatalogService(st.catalog), Timeout: cfg.RequestTimeout},
		Emotions:  &handler.EmotionHandler{Emotions: service.NewEmotionService(st.shows, events, cache), Timeout: cfg.RequestTimeout},
		Favorites: &handler.FavoriteHandler{Favorites: service.NewFavoriteService(st.users, st.shows, events), Timeout: cfg.RequestTimeout},
		Verifier:  identity.NewVerifier(cfg.IdentitySecret, cfg.IdentityIssuer),
		Cache:     cache,
		RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
	})

	addr := ":" + cfg.Port
	go func() {
		logging.Info().Str("addr", addr).Str("env", cfg.Env).Str("store", cfg.StoreDriver).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("shutdown")
	}
}
