package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/gabiiasi/galeria/internal/artwork"
	"github.com/gabiiasi/galeria/internal/auth"
	"github.com/gabiiasi/galeria/internal/carousel"
	"github.com/gabiiasi/galeria/internal/category"
	"github.com/gabiiasi/galeria/internal/config"
	"github.com/gabiiasi/galeria/internal/database"
	"github.com/gabiiasi/galeria/internal/handler"
	"github.com/gabiiasi/galeria/internal/image"
	"github.com/gabiiasi/galeria/internal/logger"
	"github.com/gabiiasi/galeria/internal/metrics"
	"github.com/gabiiasi/galeria/internal/middleware"
	"github.com/gabiiasi/galeria/internal/repository"
	"github.com/gabiiasi/galeria/internal/security"
	"github.com/gabiiasi/galeria/internal/site"
	"github.com/gabiiasi/galeria/internal/worker/cleanup"
	"github.com/gabiiasi/galeria/internal/worker/popularity"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	switch cmd {
	case CommandServe:
		return runServe(cfg)
	case CommandWorker:
		return runWorker(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. リポジトリの初期化
	userRepo := repository.NewPostgresUserRepo(db)
	identRepo := repository.NewPostgresIdentityRepo(db)
	sessionRepo := repository.NewPostgresSessionRepo(db)
	artworkRepo := repository.NewPostgresArtworkRepo(db)
	categoryRepo := repository.NewPostgresCategoryRepo(db)
	siteRepo := repository.NewPostgresSiteRepo(db)
	viewStateRepo := repository.NewPostgresViewStateRepo(db)
	viewEventRepo := repository.NewPostgresViewEventRepo(db)

	// 3. セキュリティ・画像処理サービスの初期化
	ssrfGuard := security.NewSSRFGuard()
	sanitizer := security.NewTextSanitizer()
	optimizer := image.NewOptimizer(cfg.ImageMaxDimension, cfg.ThumbMaxDimension, cfg.ImageJPEGQuality)
	imageFetcher := image.NewFetcher(ssrfGuard, cfg.ImageFetchTimeout, cfg.ImageMaxBytes)

	// 4. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 5. カルーセルコントローラの初期化
	carouselCtrl := carousel.NewController(
		cfg.CarouselInterval, cfg.CarouselTransition, slog.Default(), collector,
	)
	defer carouselCtrl.Stop()

	// 6. ドメインサービスの初期化
	oauthProvider := auth.NewGoogleOAuthProvider(auth.GoogleOAuthConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	})
	authService := auth.NewService(
		oauthProvider, userRepo, identRepo, sessionRepo,
		auth.ServiceConfig{
			SessionMaxAge: cfg.SessionMaxAge,
			IsAdminEmail:  cfg.IsAdminEmail,
		},
	)

	artworkService := artwork.NewService(
		artworkRepo, categoryRepo, viewEventRepo,
		sanitizer, optimizer, imageFetcher, ssrfGuard, collector,
	)
	categoryService := category.NewService(categoryRepo, artworkRepo)
	siteService := site.NewService(siteRepo, sanitizer, optimizer, carouselCtrl, collector)

	// 7. カルーセルへ保存済みスライド列を反映
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer seedCancel()
	if settings, err := siteService.GetHomeSettings(seedCtx); err != nil {
		slog.Error("failed to load home settings for carousel",
			slog.String("error", err.Error()),
		)
	} else {
		carouselCtrl.SetSlides(settings.CarouselImages)
	}

	// 8. ルーターの構築
	// configのレート上限はreq/min単位なのでreq/secに変換する
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	rateLimiterCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
	rateLimiterCfg.GeneralBurst = cfg.RateLimitGeneral
	rateLimiterCfg.AdminRate = rate.Limit(float64(cfg.RateLimitAdmin) / 60.0)
	rateLimiterCfg.AdminBurst = cfg.RateLimitAdmin

	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	deps := &handler.RouterDeps{
		SessionFinder:     sessionRepo,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		VisitorConfig: middleware.VisitorConfig{
			CookieSecure: cfg.CookieSecure,
			CookieDomain: cfg.CookieDomain,
			MaxAge:       86400 * 365,
		},
		CSRFConfig: middleware.CSRFConfig{
			CookieSecure: cfg.CookieSecure,
			CookieDomain: cfg.CookieDomain,
		},
		Logger: slog.Default(),

		Collector: collector,
		Gatherer:  registry,

		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			BaseURL:       cfg.BaseURL,
			CookieDomain:  cfg.CookieDomain,
			CookieSecure:  cfg.CookieSecure,
			SessionMaxAge: cfg.SessionMaxAge,
		},

		ArtworkService: artworkService,
		GalleryService: artworkService,
		ViewStateRepo:  viewStateRepo,

		CategoryService: categoryService,

		SiteService: siteService,
		Carousel:    carouselCtrl,
		SocialLinks: cfg.SocialLinks,
	}

	router := handler.NewRouter(deps)

	// 9. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runWorker はワーカーモードで起動する。
// DB接続を開き、人気度集計ジョブとクリーンアップジョブを起動する。
// メトリクスはSERVER_PORTで/metricsとして公開する。
// SIGINTまたはSIGTERMシグナルを受信するとシャットダウンする。
func runWorker(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established (worker)")

	// 2. リポジトリの初期化
	artworkRepo := repository.NewPostgresArtworkRepo(db)
	sessionRepo := repository.NewPostgresSessionRepo(db)
	viewStateRepo := repository.NewPostgresViewStateRepo(db)
	viewEventRepo := repository.NewPostgresViewEventRepo(db)

	// 3. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 4. ジョブの初期化
	popularityJob := popularity.NewJob(artworkRepo, viewEventRepo, collector, slog.Default())
	popularityJob.WindowDays = cfg.PopularityWindowDays

	cleanupJob := cleanup.NewJob(sessionRepo, viewStateRepo, viewEventRepo, slog.Default())
	cleanupJob.ViewStateRetentionDays = cfg.ViewStateRetentionDays

	// グレースフルシャットダウンのためのシグナルハンドリング
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		slog.Info("shutting down worker...")
		cancel()
	}()

	slog.Info("worker starting",
		slog.Duration("popularity_interval", cfg.PopularityInterval),
		slog.Duration("cleanup_interval", cfg.CleanupInterval),
	)

	// メトリクスエンドポイントをバックグラウンドで公開
	metricsServer := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: metrics.SetupMetricsRoute(registry),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server listen error", slog.String("error", err.Error()))
		}
	}()
	defer metricsServer.Close()

	// クリーンアップジョブをバックグラウンドで起動
	go cleanupJob.Start(ctx, cfg.CleanupInterval)

	// 人気度集計ジョブをメインgoroutineで実行（ブロッキング）
	popularityJob.Start(ctx, cfg.PopularityInterval)

	slog.Info("worker stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /healthz エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/healthz", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
