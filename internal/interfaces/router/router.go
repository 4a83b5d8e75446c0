package router

import (
	"context"
	"time"

	assocsvc "clientdir-backend/internal/application/associations"
	authsvc "clientdir-backend/internal/application/auth"
	clientsvc "clientdir-backend/internal/application/clients"
	dirsvc "clientdir-backend/internal/application/directory"
	lookupsvc "clientdir-backend/internal/application/lookups"
	parentsvc "clientdir-backend/internal/application/parentcompanies"
	uploadsvc "clientdir-backend/internal/application/uploads"
	"clientdir-backend/internal/config"
	"clientdir-backend/internal/infrastructure/database"
	authhandler "clientdir-backend/internal/interfaces/handlers/auth"
	clienthandler "clientdir-backend/internal/interfaces/handlers/clients"
	healthhandler "clientdir-backend/internal/interfaces/handlers/health"
	lookuphandler "clientdir-backend/internal/interfaces/handlers/lookups"
	parenthandler "clientdir-backend/internal/interfaces/handlers/parentcompanies"
	uploadhandler "clientdir-backend/internal/interfaces/handlers/uploads"
	"clientdir-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) PingContext(ctx context.Context) error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// CreateApp wires middleware, services and routes. Everything under /api/v1
// except auth/login sits behind RequireAuth.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{Rdb: rdb}
	app.Get("/health", hh.Live)
	app.Get("/health/json", hh.JSON)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		hh.DB = &gormDBPinger{db: db}
	}

	var userFinder authsvc.UserFinder
	if db != nil {
		userFinder = &authsvc.GormUserFinder{DB: db}
	}
	ah := &authhandler.Handlers{
		UserFinder: userFinder,
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/me", middleware.RequireAuth(), ah.Me)
	authGroup.Delete("/logout", middleware.RequireAuth(), ah.Logout)

	if db != nil && rdb != nil {
		cache := dirsvc.NewCache(rdb, time.Duration(cfg.DirectoryCacheTTL)*time.Second)

		cs := &clientsvc.Service{
			DB:           db,
			Associations: &assocsvc.Service{DB: db},
			Cache:        cache,
		}
		ds := &dirsvc.Service{DB: db, Cache: cache}
		ch := &clienthandler.Handlers{Service: cs, Directory: ds}
		cg := app.Group("/api/v1/clients", middleware.RequireAuth())
		cg.Get("/", ch.List)
		cg.Get("/counts", ch.Counts)
		cg.Get("/export", ch.Export)
		cg.Get("/:id", ch.Get)
		cg.Post("/", ch.Create)
		cg.Put("/:id", ch.Update)
		cg.Post("/:id/deactivate", ch.Deactivate)
		cg.Post("/:id/association", ch.RetryAssociation)

		ps := &parentsvc.Service{DB: db}
		ph := &parenthandler.Handlers{Service: ps}
		pg := app.Group("/api/v1/parent-companies", middleware.RequireAuth())
		pg.Get("/", ph.List)
		pg.Get("/:id", ph.Get)
		pg.Post("/", ph.Create)

		lks := &lookupsvc.Service{DB: db}
		lkh := &lookuphandler.Handlers{Service: lks}
		lkg := app.Group("/api/v1/lookups", middleware.RequireAuth())
		lkg.Get("/industries", lkh.Industries)
		lkg.Get("/entity-types", lkh.EntityTypes)
		lkg.Get("/headquarters", lkh.Headquarters)

		sc := &uploadsvc.HTTPClient{BaseURL: cfg.SupabaseURL, SecretKey: cfg.SupabaseSecretKey}
		ups := &uploadsvc.Service{Client: sc, StorageURL: cfg.SupabaseURL}
		uph := &uploadhandler.Handlers{Service: ups}
		upg := app.Group("/api/v1/uploads", middleware.RequireAuth())
		upg.Post("/client-logo", uph.SignLogo)
	}

	return app, db, rdb, nil
}
