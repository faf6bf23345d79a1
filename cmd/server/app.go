package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"routebook/internal/config"
	"routebook/internal/handlers"
	"routebook/internal/repositories"
	firestorestore "routebook/internal/repositories/firestore"
	"routebook/internal/repositories/interfaces"
	"routebook/internal/repositories/memory"
	mongostore "routebook/internal/repositories/mongodb"
	"routebook/internal/services"
	"routebook/pkg/cache"
	"routebook/pkg/database"
	"routebook/pkg/events"
	"routebook/pkg/logger"
	"routebook/pkg/maps"
	"routebook/pkg/websocket"
	"routebook/routes"
)

type application struct {
	router  *gin.Engine
	closers []func() error
	stopHub context.CancelFunc
	logger  *logger.Logger
}

func (a *application) close() {
	if a.stopHub != nil {
		a.stopHub()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.WithError(err).Warn("Failed to release resource")
		}
	}
}

func newApplication(ctx context.Context, cfg *config.Config, log *logger.Logger) (*application, error) {
	app := &application{logger: log}
	checks := map[string]handlers.HealthCheck{}

	store, err := app.openStore(ctx, cfg, checks)
	if err != nil {
		app.close()
		return nil, err
	}
	repo := repositories.NewRouteRepository(store, cfg.Database.RoutesCollection, log)

	geocoder, err := app.newGeocoder(ctx, cfg, checks)
	if err != nil {
		app.close()
		return nil, err
	}
	router := maps.NewOSRMRouter(maps.ClientConfig{
		BaseURL:   cfg.Maps.RoutingURL,
		UserAgent: cfg.Maps.UserAgent,
		Timeout:   cfg.Maps.RequestTimeout,
	})

	var publisher services.EventPublisher
	if cfg.Kafka.Enabled() {
		producer := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.WriteTimeout, log)
		app.closers = append(app.closers, producer.Close)
		publisher = producer
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	app.stopHub = stopHub
	hub := websocket.NewHub(log)
	go hub.Run(hubCtx)

	location, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", cfg.App.Timezone, err)
	}

	routeService := services.NewRouteService(geocoder, router, repo, publisher, hub, services.RouteServiceConfig{
		EventTopic: cfg.Kafka.RouteTopic,
		Location:   location,
	}, log)

	liveHandler := websocket.NewHandler(hub, func() websocket.Planner {
		return services.NewPlanSession(routeService)
	}, websocket.Config{
		ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: cfg.WebSocket.WriteBufferSize,
		MaxMessageSize:  cfg.WebSocket.MaxMessageSize,
		PingInterval:    cfg.WebSocket.PingInterval,
		PongTimeout:     cfg.WebSocket.PongTimeout,
		WriteTimeout:    cfg.WebSocket.WriteTimeout,
		AllowedOrigins:  cfg.WebSocket.AllowedOrigins,
	}, log)

	app.router, err = routes.NewRouter(routes.RouterConfig{
		JWTSecret:      cfg.Security.JWTSecret,
		AllowedOrigins: cfg.Security.CORSAllowedOrigins,
		TrustedProxies: cfg.Security.TrustedProxies,
		Logger:         log,
		RouteHandler:   handlers.NewRouteHandler(routeService),
		HealthHandler:  handlers.NewHealthHandler(cfg.App.Version, checks),
		LiveHandler:    liveHandler,
	})
	if err != nil {
		app.close()
		return nil, fmt.Errorf("failed to build router: %w", err)
	}

	return app, nil
}

func (a *application) openStore(ctx context.Context, cfg *config.Config, checks map[string]handlers.HealthCheck) (interfaces.DocumentStore, error) {
	switch cfg.Database.Provider {
	case config.StorageMemory:
		a.logger.Warn("Using in-memory route storage, data is lost on restart")
		return memory.NewDocumentStore(), nil

	case config.StorageFirestore:
		client, err := database.NewFirestore(ctx, &database.FirestoreConfig{
			ProjectID:       cfg.Firebase.ProjectID,
			CredentialsFile: cfg.Firebase.CredentialsFile,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		return firestorestore.NewDocumentStore(client), nil

	default:
		mongo, err := database.NewMongoDB(ctx, &database.MongoConfig{
			URI:            cfg.Database.URI,
			Database:       cfg.Database.Database,
			AppName:        cfg.App.Name,
			MaxPoolSize:    cfg.Database.MaxPoolSize,
			MinPoolSize:    cfg.Database.MinPoolSize,
			ConnectTimeout: cfg.Database.ConnectTimeout,
			SocketTimeout:  cfg.Database.SocketTimeout,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, mongo.Close)
		checks["mongodb"] = mongo.Ping

		migrator := database.NewMigrator(mongo.Database, cfg.Database.RoutesCollection, a.logger)
		if err := migrator.Up(ctx); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return mongostore.NewDocumentStore(mongo.Database), nil
	}
}

func (a *application) newGeocoder(ctx context.Context, cfg *config.Config, checks map[string]handlers.HealthCheck) (maps.Geocoder, error) {
	var geocoder maps.Geocoder
	switch cfg.Maps.Geocoder {
	case config.GeocoderGoogle:
		google, err := maps.NewGoogleGeocoder(cfg.Maps.GoogleMaps.APIKey)
		if err != nil {
			return nil, err
		}
		geocoder = google
	default:
		geocoder = maps.NewNominatimGeocoder(maps.ClientConfig{
			BaseURL:   cfg.Maps.NominatimURL,
			UserAgent: cfg.Maps.UserAgent,
			Timeout:   cfg.Maps.RequestTimeout,
		})
	}

	if !cfg.Redis.Enabled {
		return geocoder, nil
	}

	redisCache, err := cache.NewRedisCache(ctx, &cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, redisCache.Close)
	checks["redis"] = redisCache.Ping

	return maps.NewCachedGeocoder(geocoder, redisCache, cfg.Redis.GeocodeTTL, a.logger), nil
}
