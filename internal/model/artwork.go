// Package model はドメインモデルを定義する。
package model

import "time"

// Artwork はギャラリーに掲載する作品を表す。
type Artwork struct {
	ID          string
	Title       string
	Category    string
	Price       *float64 // nilは「価格応相談」を表す
	Dimensions  string
	Description string // サニタイズ済みテキスト
	ImageMime   string
	ImageData   []byte // 最適化済みJPEG
	ThumbData   []byte // サムネイル用JPEG
	Status      ArtworkStatus
	Popularity  float64
	Views       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ArtworkStatus は作品の販売状態を表す。
type ArtworkStatus string

const (
	// StatusAvailable は販売可能な状態。
	StatusAvailable ArtworkStatus = "available"
	// StatusSold は売約済みの状態。
	StatusSold ArtworkStatus = "sold"
	// StatusCustomOrder は受注制作の状態。
	StatusCustomOrder ArtworkStatus = "custom-order"
)

// ValidStatus はsが定義済みのArtworkStatusかどうかを返す。
func ValidStatus(s ArtworkStatus) bool {
	switch s {
	case StatusAvailable, StatusSold, StatusCustomOrder:
		return true
	}
	return false
}

// Category は作品の分類を表す。
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
