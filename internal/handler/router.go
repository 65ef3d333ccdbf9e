package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/ceylon/internal/metrics"
	"github.com/hitoshi/ceylon/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// アカウント
	AccountService  AccountServiceInterface
	PasswordChanger PasswordChangerInterface

	// プレイス
	PlaceService PlaceServiceInterface

	// 渡航情報
	AdvisoryService AdvisoryServiceInterface

	// 運用系
	HealthChecker    HealthChecker
	MetricsGatherer  prometheus.Gatherer
	MetricsCollector metrics.MetricsCollector
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → Logging → Metrics → CORS →（認証ルート: LoginRateLimit）
//	                                     →（APIルート: Session → RateLimit(General)）
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.MetricsCollector != nil {
		r.Use(metrics.NewHTTPMiddleware(deps.MetricsCollector))
	}
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	accountHandler := NewAccountHandler(deps.AccountService, deps.PasswordChanger)
	placeHandler := NewPlaceHandler(deps.PlaceService)
	advisoryHandler := NewAdvisoryHandler(deps.AdvisoryService)

	// --- 認証不要のルート ---

	if deps.HealthChecker != nil {
		r.Get("/health", NewHealthHandler(deps.HealthChecker))
	}
	if deps.MetricsGatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// 認証ルート。登録とログインにはIPキーのレート制限を適用する
	r.Route("/auth", func(r chi.Router) {
		r.With(deps.RateLimiter.LoginMiddleware()).Post("/register", authHandler.Register)
		r.With(deps.RateLimiter.LoginMiddleware()).Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// プロフィール・設定
		r.Route("/api/profile", func(r chi.Router) {
			r.Put("/", accountHandler.UpdateProfile)
			r.Put("/password", accountHandler.ChangePassword)
		})
		r.Route("/api/preferences", func(r chi.Router) {
			r.Get("/", accountHandler.GetPreferences)
			r.Put("/", accountHandler.UpdatePreferences)
		})
		r.Route("/api/users", func(r chi.Router) {
			r.Delete("/me", accountHandler.Withdraw)
		})

		// プレイス管理
		r.Route("/api/places", func(r chi.Router) {
			r.Post("/", placeHandler.CreatePlace)
			r.Get("/", placeHandler.ListPlaces)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", placeHandler.GetPlace)
				r.Patch("/", placeHandler.UpdatePlace)
				r.Delete("/", placeHandler.DeletePlace)
			})
		})

		// 渡航情報
		r.Get("/api/advisories", advisoryHandler.ListAdvisories)
	})

	return r
}
