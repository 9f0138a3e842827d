// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/gabiiasi/galeria/internal/model"
)

// ArtworkRepository は作品データの永続化インターフェース。
type ArtworkRepository interface {
	// FindByID は指定IDの作品を画像データ込みで取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Artwork, error)

	// ListAll は全作品を画像データ抜きで制作日時降順で返す。
	// ギャラリーのビュー導出に渡すスナップショットとなる。
	ListAll(ctx context.Context) ([]model.Artwork, error)

	// Create は作品を作成する。
	Create(ctx context.Context, artwork *model.Artwork) error

	// Update は作品のメタデータを更新する。画像データはnil以外の場合のみ更新する。
	Update(ctx context.Context, artwork *model.Artwork) error

	// UpdateStatus は作品の販売状態のみを更新する。
	UpdateStatus(ctx context.Context, id string, status model.ArtworkStatus) error

	// DeleteByID は指定IDの作品を削除する。
	DeleteByID(ctx context.Context, id string) error

	// CountByCategory は指定カテゴリ名を使用している作品数を返す。
	CountByCategory(ctx context.Context, category string) (int, error)

	// CountByStatus は販売状態ごとの作品数を返す。
	CountByStatus(ctx context.Context) (map[model.ArtworkStatus]int, error)

	// IncrementViews は作品の閲覧数を1増やす。
	IncrementViews(ctx context.Context, id string) error

	// UpdatePopularity は作品の人気度スコアを更新する。
	UpdatePopularity(ctx context.Context, id string, score float64) error
}

// CategoryRepository はカテゴリデータの永続化インターフェース。
type CategoryRepository interface {
	// FindByID は指定IDのカテゴリを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Category, error)

	// FindByName は名前でカテゴリを検索する。見つからない場合はnilを返す。
	FindByName(ctx context.Context, name string) (*model.Category, error)

	// ListAll は全カテゴリを名前昇順で返す。
	ListAll(ctx context.Context) ([]model.Category, error)

	// Create はカテゴリを作成する。
	Create(ctx context.Context, category *model.Category) error

	// Rename はカテゴリ名を変更する。
	Rename(ctx context.Context, id, newName string) error

	// DeleteByID は指定IDのカテゴリを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// SiteRepository はプロフィールとホームページ設定の永続化インターフェース。
// どちらもシングルトンレコードとしてUpsertで保存する。
type SiteRepository interface {
	// GetProfile はプロフィールを取得する。未設定の場合はnilを返す。
	GetProfile(ctx context.Context) (*model.Profile, error)

	// SaveProfile はプロフィールを保存する（Upsert）。
	SaveProfile(ctx context.Context, profile *model.Profile) error

	// GetHomeSettings はホームページ設定を取得する。未設定の場合はnilを返す。
	GetHomeSettings(ctx context.Context) (*model.HomeSettings, error)

	// SaveHomeSettings はホームページ設定を保存する（Upsert）。
	SaveHomeSettings(ctx context.Context, settings *model.HomeSettings) error
}

// UserRepository は管理ユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// CreateWithIdentity はユーザーとidentityを同一トランザクションで作成する。
	CreateWithIdentity(ctx context.Context, user *model.User, identity *model.Identity) error
}

// IdentityRepository は外部IdP紐付け情報の永続化インターフェース。
type IdentityRepository interface {
	// FindByProviderAndProviderUserID はproviderとprovider_user_idでidentityを検索する。
	// 見つからない場合はnilを返す。
	FindByProviderAndProviderUserID(ctx context.Context, provider, providerUserID string) (*model.Identity, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteExpired は期限切れのセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}

// ViewStateRepository は閲覧者ごとのギャラリークエリ状態の永続化インターフェース。
// フィールド名キーの文字列KVストアとして振る舞う。
type ViewStateRepository interface {
	// Get は閲覧者とキーに対応する値を返す。存在しない場合はfalseを返す。
	Get(ctx context.Context, visitorID, key string) (string, bool, error)

	// Set は閲覧者とキーに値を保存する（Upsert）。
	Set(ctx context.Context, visitorID, key, value string) error

	// DeleteStale は指定日時より前に更新された状態を削除し、削除件数を返す。
	DeleteStale(ctx context.Context, before time.Time) (int64, error)
}

// ViewEventRepository は作品閲覧イベントの永続化インターフェース。
type ViewEventRepository interface {
	// Record は閲覧イベントを記録する。
	Record(ctx context.Context, event *model.ViewEvent) error

	// CountByArtworkSince は指定日時以降の作品ごとの閲覧数を返す。
	CountByArtworkSince(ctx context.Context, since time.Time) (map[string]int, error)

	// DeleteBefore は指定日時より前のイベントを削除し、削除件数を返す。
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}
