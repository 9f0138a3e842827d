package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gabiiasi/galeria/internal/metrics"
	"github.com/gabiiasi/galeria/internal/middleware"
	"github.com/gabiiasi/galeria/internal/model"
	"github.com/gabiiasi/galeria/internal/repository"
)

// SetupAuthRoutes は認証関連のルーティングを設定したchi.Routerを返す。
func SetupAuthRoutes(service AuthServiceInterface, config AuthHandlerConfig) http.Handler {
	r := chi.NewRouter()
	h := NewAuthHandler(service, config)

	r.Route("/auth", func(r chi.Router) {
		// OAuthフロー
		r.Get("/google/login", h.Login)
		r.Get("/google/callback", h.Callback)

		// セッション管理
		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)
	})

	return r
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	VisitorConfig     middleware.VisitorConfig
	CSRFConfig        middleware.CSRFConfig
	Logger            *slog.Logger

	// メトリクス
	Collector metrics.MetricsCollector
	Gatherer  prometheus.Gatherer

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// 作品・ギャラリー
	ArtworkService ArtworkServiceInterface
	GalleryService GalleryServiceInterface
	ViewStateRepo  repository.ViewStateRepository

	// カテゴリ
	CategoryService CategoryServiceInterface

	// サイト設定・カルーセル
	SiteService SiteServiceInterface
	Carousel    CarouselInterface
	SocialLinks []model.SocialLink
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Metrics
//	公開ルート: Visitor → RateLimit(General)
//	管理ルート: Session → CSRF → RateLimit(Admin)
//
// 認証ルート（/auth/*）とヘルスチェックはレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 全ルートに効くミドルウェア
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.Collector != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Collector))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	galleryHandler := NewGalleryHandler(deps.GalleryService, deps.ViewStateRepo, deps.Collector)
	artworkHandler := NewArtworkHandler(deps.ArtworkService, deps.Collector)
	categoryHandler := NewCategoryHandler(deps.CategoryService)
	siteHandler := NewSiteHandler(deps.SiteService, deps.Carousel, deps.SocialLinks)

	// --- ヘルスチェック・メトリクス ---

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.SetupMetricsRoute(deps.Gatherer))
	}

	// --- 認証ルート（OAuthフロー） ---

	r.Route("/auth", func(r chi.Router) {
		r.Get("/google/login", authHandler.Login)
		r.Get("/google/callback", authHandler.Callback)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// CSRFトークン取得（管理画面のフロントエンドが起動時に取得する）
	r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

	// --- 公開ルート ---
	// ミドルウェアスタック: Visitor → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewVisitorMiddleware(deps.VisitorConfig))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// ギャラリー
		r.Route("/api/artworks", func(r chi.Router) {
			r.Get("/", galleryHandler.ListGallery)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", artworkHandler.GetArtwork)
				r.Get("/image", artworkHandler.GetImage)
			})
		})

		// カテゴリ一覧
		r.Get("/api/categories", categoryHandler.ListCategories)

		// プロフィール
		r.Get("/api/profile", siteHandler.GetProfile)
		r.Get("/api/profile/photo", siteHandler.GetProfilePhoto)

		// ホームページ・カルーセル
		r.Route("/api/home", func(r chi.Router) {
			r.Get("/", siteHandler.GetHome)
			r.Get("/carousel", siteHandler.CarouselFrame)
			r.Post("/carousel/next", siteHandler.CarouselNext)
			r.Post("/carousel/prev", siteHandler.CarouselPrev)
		})

		// 連絡先
		r.Get("/api/contacts", siteHandler.GetContacts)
	})

	// --- 管理ルート ---
	// ミドルウェアスタック: Session → CSRF → RateLimit(Admin)
	r.Route("/admin/api", func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		r.Use(deps.RateLimiter.AdminMiddleware())

		// 作品管理
		r.Route("/artworks", func(r chi.Router) {
			r.Post("/", artworkHandler.CreateArtwork)

			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", artworkHandler.UpdateArtwork)
				r.Patch("/status", artworkHandler.UpdateStatus)
				r.Delete("/", artworkHandler.DeleteArtwork)
			})
		})

		// カテゴリ管理
		r.Route("/categories", func(r chi.Router) {
			r.Post("/", categoryHandler.CreateCategory)

			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", categoryHandler.RenameCategory)
				r.Delete("/", categoryHandler.DeleteCategory)
			})
		})

		// サイト設定
		r.Put("/profile", siteHandler.UpdateProfile)
		r.Put("/home", siteHandler.UpdateHome)

		// 統計
		r.Get("/stats", artworkHandler.GetStats)
	})

	return r
}
