package app

import (
	"context"
	"log/slog"
	"os"

	httpapp "gallerypress/internal/app/http"
	"gallerypress/internal/config"
	"gallerypress/internal/events"
	"gallerypress/internal/lib/templates"
	"gallerypress/internal/repository"
	services "gallerypress/internal/services/gallery_service"
	"gallerypress/internal/storage/postgresql"
	redisapp "gallerypress/internal/storage/redis"
	httprouters "gallerypress/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server

	db    *postgresql.Storage
	redis *redisapp.Client
}

func New(log *slog.Logger, cfg *config.Config) *App {
	db, err := postgresql.New(context.Background(), cfg.DSN)
	if err != nil {
		panic(err)
	}

	repo := repository.NewRepository(db.Pool())

	var (
		redisClient *redisapp.Client
		cache       repository.CollectionCache
	)
	if cfg.Redis.RedisAddr != "" {
		redisClient = redisapp.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
		cache = repository.NewRedisCollectionCache(redisClient)
	} else {
		// no redis configured: single-process cache, same codec
		cache = repository.NewMemoryCollectionCache()
	}

	galleryService := services.NewGalleryService(
		log,
		repo.Gallery,
		repo.Photo,
		repo.Publishable,
		cache,
		cfg.Gallery.SavePublishableOnPhoto,
	)
	navigator := services.NewNavigator(log, galleryService, cfg.Gallery.RedirectEnabled)

	dispatcher := events.NewDispatcher()
	dispatcher.Subscribe(func(ev events.Rendered) {
		log.Debug("gallery rendered",
			slog.String("category", ev.Category),
			slog.String("gallery_id", ev.Gallery.ID.String()),
		)
	})

	renderer := httpapp.NewHTMLRenderer(templates.NewResolver(os.DirFS(cfg.Gallery.TemplateDir)))

	routers := httprouters.NewRouter(log, galleryService, navigator, renderer, dispatcher)
	server := httpapp.New(log, cfg.HTTP.Host, cfg.HTTP.Port, routers)

	return &App{
		HTTPServer: server,
		db:         db,
		redis:      redisClient,
	}
}

func (a *App) Stop() {
	if err := a.HTTPServer.Stop(); err != nil {
		panic(err)
	}
	if a.redis != nil {
		a.redis.Close()
	}
	a.db.Stop()
}
