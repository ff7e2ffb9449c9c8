package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/prateekgoyal/proposalhub/internal/analytics"
	"github.com/prateekgoyal/proposalhub/internal/api/handlers"
	"github.com/prateekgoyal/proposalhub/internal/api/middleware"
	"github.com/prateekgoyal/proposalhub/internal/auth"
	"github.com/prateekgoyal/proposalhub/internal/cache"
	"github.com/prateekgoyal/proposalhub/internal/config"
	"github.com/prateekgoyal/proposalhub/internal/queue"
	"github.com/prateekgoyal/proposalhub/internal/search"
)

type Router struct {
	mux   *chi.Mux
	db    *sqlx.DB
	redis *redis.Client
	cfg   *config.Config
	jwt   *auth.JWTMiddleware
}

func NewRouter(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		cfg:   cfg,
		jwt:   auth.NewJWTMiddleware(cfg.Auth.JWTSecret),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(rt.cfg.Server.CORSOrigins))

	rl := middleware.NewRateLimiter(rt.cfg.Server.RateLimitRPS, rt.cfg.Server.RateLimitBurst)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Initialize services
	c := cache.NewCache(rt.redis)
	builder := search.NewBuilder(rt.db, c, rt.cfg.Search.StaleAfter)

	var (
		recorder  analytics.Recorder
		reindexer search.Reindexer
	)
	if rt.redis != nil {
		qc := queue.NewClient(rt.cfg.Redis)
		recorder = qc
		reindexer = qc
	} else {
		recorder = analytics.NewSyncRecorder(rt.db)
	}

	strategy := search.WeightedBlend{
		Stored: rt.cfg.Search.StoredRankWeight,
		Engine: rt.cfg.Search.EngineRankWeight,
	}
	searchSvc := search.NewService(rt.db, builder, strategy, recorder).
		WithCache(c, rt.cfg.Search.CacheTTL)
	if reindexer != nil {
		searchSvc.WithReindexer(reindexer)
	}

	analyticsSvc := analytics.NewService(rt.db)

	verbose := !rt.cfg.Production()
	searchH := handlers.NewSearchHandler(searchSvc, verbose)
	analyticsH := handlers.NewAnalyticsHandler(analyticsSvc, verbose)
	adminH := handlers.NewAdminHandler(searchSvc, verbose)

	r.Route("/api/dms", func(r chi.Router) {
		r.Use(rt.jwt.Authenticate)

		r.Post("/search", searchH.Search)
		r.Get("/search", searchH.SearchGet)
		r.Get("/suggestions", searchH.Suggestions)
		r.Get("/analytics", analyticsH.Report)
		r.Get("/highlight/{id}", searchH.Highlight)
		r.Get("/snippet/{id}", searchH.Snippet)
		r.Get("/stats", searchH.Stats)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(rt.cfg.Auth.AdminRole))
			r.Post("/rebuild-index", adminH.RebuildIndex)
		})
	})

	return r
}
