// Package config はアプリケーション設定の読み込みを提供する。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gabiiasi/galeria/internal/model"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// Session
	SessionSecret string
	SessionMaxAge int

	// Admin
	AdminEmails []string // 管理画面へのログインを許可するメールアドレス

	// Carousel
	CarouselInterval   time.Duration // 自動送り間隔
	CarouselTransition time.Duration // トランジション時間

	// Image
	ImageMaxDimension int // 保存画像の最大辺（px）
	ThumbMaxDimension int // サムネイルの最大辺（px）
	ImageJPEGQuality  int
	ImageFetchTimeout time.Duration
	ImageMaxBytes     int64

	// Rate Limit
	RateLimitGeneral int
	RateLimitAdmin   int

	// Worker
	PopularityInterval     time.Duration // 人気度集計の実行間隔
	PopularityWindowDays   int           // 人気度集計の対象期間（日）
	CleanupInterval        time.Duration // クリーンアップの実行間隔
	ViewStateRetentionDays int           // 閲覧者クエリ状態の保持日数

	// Contacts
	SocialLinks []model.SocialLink

	// Server
	ServerPort string
	BaseURL    string

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	if cfg.GoogleClientID == "" {
		missing = append(missing, "GOOGLE_CLIENT_ID")
	}

	cfg.GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	if cfg.GoogleClientSecret == "" {
		missing = append(missing, "GOOGLE_CLIENT_SECRET")
	}

	cfg.GoogleRedirectURL = os.Getenv("GOOGLE_REDIRECT_URL")
	if cfg.GoogleRedirectURL == "" {
		missing = append(missing, "GOOGLE_REDIRECT_URL")
	}

	cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	if cfg.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}

	adminEmails := os.Getenv("ADMIN_EMAILS")
	if adminEmails == "" {
		missing = append(missing, "ADMIN_EMAILS")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	for _, email := range strings.Split(adminEmails, ",") {
		email = strings.TrimSpace(email)
		if email != "" {
			cfg.AdminEmails = append(cfg.AdminEmails, email)
		}
	}

	// Optional fields with defaults
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 86400)
	cfg.CarouselInterval = getEnvDuration("CAROUSEL_INTERVAL", 3*time.Second)
	cfg.CarouselTransition = getEnvDuration("CAROUSEL_TRANSITION", 700*time.Millisecond)
	cfg.ImageMaxDimension = getEnvInt("IMAGE_MAX_DIMENSION", 1600)
	cfg.ThumbMaxDimension = getEnvInt("THUMB_MAX_DIMENSION", 400)
	cfg.ImageJPEGQuality = getEnvInt("IMAGE_JPEG_QUALITY", 82)
	cfg.ImageFetchTimeout = getEnvDuration("IMAGE_FETCH_TIMEOUT", 15*time.Second)
	cfg.ImageMaxBytes = getEnvInt64("IMAGE_MAX_BYTES", 10485760)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 240)
	cfg.RateLimitAdmin = getEnvInt("RATE_LIMIT_ADMIN", 60)
	cfg.PopularityInterval = getEnvDuration("POPULARITY_INTERVAL", 10*time.Minute)
	cfg.PopularityWindowDays = getEnvInt("POPULARITY_WINDOW_DAYS", 90)
	cfg.CleanupInterval = getEnvDuration("CLEANUP_INTERVAL", 24*time.Hour)
	cfg.ViewStateRetentionDays = getEnvInt("VIEWSTATE_RETENTION_DAYS", 30)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")
	cfg.SocialLinks = parseSocialLinks(os.Getenv("SOCIAL_LINKS"))

	return cfg, nil
}

// IsAdminEmail はemailが管理者許可リストに含まれるかどうかを返す。
// 比較は大文字小文字を区別しない。
func (c *Config) IsAdminEmail(email string) bool {
	for _, admin := range c.AdminEmails {
		if strings.EqualFold(admin, email) {
			return true
		}
	}
	return false
}

// parseSocialLinks はSOCIAL_LINKS環境変数を解析する。
// 形式は "ラベル1=URL1,ラベル2=URL2"。不正なエントリは無視する。
func parseSocialLinks(raw string) []model.SocialLink {
	if raw == "" {
		return nil
	}

	var links []model.SocialLink
	for _, entry := range strings.Split(raw, ",") {
		label, url, ok := strings.Cut(strings.TrimSpace(entry), "=")
		if !ok || label == "" || url == "" {
			continue
		}
		links = append(links, model.SocialLink{Label: label, URL: url})
	}
	return links
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
