// Package model はドメインモデルを定義する。
package model

import "time"

// User は管理画面にログインするユーザーを表す。
// サイトの閲覧者はユーザー登録せず、管理者のみがユーザーとなる。
type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity は外部IdPとの紐付け情報を表す。
// 認証は外部IdPに委譲するため、パスワードは保持しない。
type Identity struct {
	ID             string
	UserID         string
	Provider       string
	ProviderUserID string
	CreatedAt      time.Time
}

// Session は管理ユーザーのログインセッションを表す。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// ViewEvent は作品詳細の閲覧イベントを表す。
// 人気度スコアの集計元データとなる。
type ViewEvent struct {
	ID         string
	ArtworkID  string
	OccurredAt time.Time
}
