package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/recipeman/internal/metrics"
	"github.com/hitoshi/recipeman/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	MaxBodyBytes      int64

	// メトリクス（nilの場合は計測と/metricsを無効にする）
	Metrics         *metrics.Collector
	MetricsGatherer prometheus.Gatherer

	// ヘルスチェック
	HealthChecker HealthChecker

	// サービス
	AuthService   AuthServiceInterface
	UserService   UserServiceInterface
	RecipeService RecipeServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Logging → Recovery → Metrics → SecurityHeaders → CORS → BodyLimit → (Auth)
//
// /register, /login, /health, /metrics は認証不要。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewRecoveryMiddleware(logger))
	if deps.Metrics != nil {
		r.Use(metrics.NewHTTPMiddleware(deps.Metrics))
	}
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewBodyLimitMiddleware(deps.MaxBodyBytes))

	userHandler := NewUserHandler(deps.AuthService, deps.UserService)
	recipeHandler := NewRecipeHandler(deps.RecipeService)
	healthHandler := NewHealthHandler(deps.HealthChecker)

	// --- 認証不要のルート ---
	r.Get("/health", healthHandler.Health)
	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.MetricsGatherer))
	}
	r.Post("/register", userHandler.Register)
	r.Post("/login", userHandler.Login)

	// --- 認証が必要なルート ---
	var rejections middleware.RejectionRecorder
	if deps.Metrics != nil {
		rejections = deps.Metrics
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier, rejections))

		r.Get("/id", userHandler.Me)

		r.Route("/recipes", func(r chi.Router) {
			r.Post("/", recipeHandler.Create)
			// 静的パスの/allは{id}より優先してマッチする
			r.Get("/all", recipeHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", recipeHandler.Get)
				r.Put("/", recipeHandler.Update)
				r.Delete("/", recipeHandler.Delete)
			})
		})

		r.Put("/{id}", recipeHandler.Update)
	})

	return r
}
