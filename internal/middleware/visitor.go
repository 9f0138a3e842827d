package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const visitorCookieName = "visitor_id"

// visitorIDContextKey はリクエストコンテキストに閲覧者IDを格納するためのキー。
var visitorIDContextKey = contextKey("visitor_id")

// VisitorConfig は閲覧者Cookieの設定。
type VisitorConfig struct {
	CookieSecure bool
	CookieDomain string
	MaxAge       int // Cookie有効期間（秒）
}

// NewVisitorMiddleware は閲覧者を識別するCookieを発行するミドルウェアを返す。
// ギャラリーの検索・フィルタ・ページ位置を閲覧者ごとに保持するためのキーとなる。
// Cookieが未発行のリクエストには新しい閲覧者IDを発行する。
func NewVisitorMiddleware(config VisitorConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var visitorID string

			cookie, err := r.Cookie(visitorCookieName)
			if err == nil && cookie.Value != "" {
				visitorID = cookie.Value
			} else {
				visitorID = uuid.New().String()
				http.SetCookie(w, &http.Cookie{
					Name:     visitorCookieName,
					Value:    visitorID,
					Path:     "/",
					Domain:   config.CookieDomain,
					MaxAge:   config.MaxAge,
					HttpOnly: true,
					Secure:   config.CookieSecure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), visitorIDContextKey, visitorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// VisitorIDFromContext はリクエストコンテキストから閲覧者IDを取得する。
// 閲覧者ミドルウェアを通過していないリクエストでは空文字列を返す。
func VisitorIDFromContext(ctx context.Context) string {
	visitorID, _ := ctx.Value(visitorIDContextKey).(string)
	return visitorID
}

// ContextWithVisitorID はコンテキストに閲覧者IDを注入する。テスト用。
func ContextWithVisitorID(ctx context.Context, visitorID string) context.Context {
	return context.WithValue(ctx, visitorIDContextKey, visitorID)
}
