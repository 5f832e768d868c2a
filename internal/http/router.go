package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/cadastrounificado/api/internal/cadastro"
	"github.com/cadastrounificado/api/internal/config"
	httpmiddleware "github.com/cadastrounificado/api/internal/http/middleware"
	"github.com/cadastrounificado/api/internal/metrics"
	"github.com/cadastrounificado/api/internal/service"
)

// Handler concentra as dependências das rotas.
type Handler struct {
	cfg           *config.Config
	pool          *pgxpool.Pool
	redis         *redis.Client
	authService   *service.AuthService
	publicLimiter *httpmiddleware.RateLimiter
	authLimiter   *httpmiddleware.RateLimiter
}

// NewRouter devolve roteador configurado.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, redisClient *redis.Client, authService *service.AuthService, store cadastro.Store) http.Handler {
	h := &Handler{
		cfg:           cfg,
		pool:          pool,
		redis:         redisClient,
		authService:   authService,
		publicLimiter: httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst),
		authLimiter:   httpmiddleware.NewRateLimiter(cfg.RateLimitAuth.RequestsPerSecond, cfg.RateLimitAuth.Burst),
	}

	cadastroHandler := cadastro.NewHandler(store)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.StripSlashes)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))
	r.Use(metrics.Middleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, "rota não encontrada")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "método não permitido")
	})

	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Group(func(public chi.Router) {
			public.Use(httpmiddleware.IPRateLimit(h.publicLimiter))

			public.Get("/", h.Info)
			public.Get("/health", h.Health)
			public.Get("/ready", h.Ready)

			public.Route("/auth", func(auth chi.Router) {
				auth.Post("/login", h.Login)
				auth.Post("/refresh", h.Refresh)
				auth.Post("/logout", h.Logout)
				auth.Post("/register", h.Register)
			})
		})

		api.Group(func(private chi.Router) {
			private.Use(httpmiddleware.Auth(authService.JWT()))
			private.Use(httpmiddleware.UserRateLimit(h.authLimiter))

			private.Get("/auth/profile", h.Profile)
			private.Post("/auth/change-password", h.ChangePassword)

			private.Route("/cadastro", func(r chi.Router) {
				cadastro.Mount(r, cadastroHandler)
			})
		})
	})

	return r
}
