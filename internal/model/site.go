// Package model はドメインモデルを定義する。
package model

import "time"

// Profile はアーティストのプロフィール（aboutページの内容）を表す。
// サイト全体で1行のみ保持するシングルトンレコード。
type Profile struct {
	ID        string
	Name      string
	Headline  string
	Bio       string // サニタイズ済みテキスト
	Quote     string
	PhotoMime string
	PhotoData []byte
	UpdatedAt time.Time
}

// HomeSettings はホームページのヒーロー表示とカルーセルの設定を表す。
// Profileと同様にシングルトンレコードとして扱う。
type HomeSettings struct {
	ID             string
	HeroTitle      string
	HeroSubtitle   string
	CarouselImages []string // 画像参照（作品画像のURLパス）の順序付きリスト
	UpdatedAt      time.Time
}

// SocialLink は連絡先ページに表示する外部リンクを表す。
// 設定ファイル由来でありDBには保存しない。
type SocialLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}
