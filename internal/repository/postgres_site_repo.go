package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/gabiiasi/galeria/internal/model"
)

// PostgresSiteRepo はPostgreSQLを使用したサイト設定リポジトリ。
// プロフィールとホームページ設定をシングルトンレコードとして管理する。
type PostgresSiteRepo struct {
	db *sql.DB
}

// NewPostgresSiteRepo はPostgresSiteRepoを生成する。
func NewPostgresSiteRepo(db *sql.DB) *PostgresSiteRepo {
	return &PostgresSiteRepo{db: db}
}

// GetProfile はプロフィールを取得する。未設定の場合はnilを返す。
func (r *PostgresSiteRepo) GetProfile(ctx context.Context) (*model.Profile, error) {
	profile := &model.Profile{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, headline, bio, quote, photo_mime, photo_data, updated_at
		 FROM profile LIMIT 1`,
	).Scan(
		&profile.ID, &profile.Name, &profile.Headline, &profile.Bio,
		&profile.Quote, &profile.PhotoMime, &profile.PhotoData, &profile.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}

// SaveProfile はプロフィールを保存する（Upsert）。
func (r *PostgresSiteRepo) SaveProfile(ctx context.Context, profile *model.Profile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profile (id, name, headline, bio, quote, photo_mime, photo_data, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		     name = EXCLUDED.name,
		     headline = EXCLUDED.headline,
		     bio = EXCLUDED.bio,
		     quote = EXCLUDED.quote,
		     photo_mime = CASE WHEN EXCLUDED.photo_data IS NULL THEN profile.photo_mime ELSE EXCLUDED.photo_mime END,
		     photo_data = COALESCE(EXCLUDED.photo_data, profile.photo_data),
		     updated_at = EXCLUDED.updated_at`,
		profile.ID, profile.Name, profile.Headline, profile.Bio,
		profile.Quote, profile.PhotoMime, profile.PhotoData, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// GetHomeSettings はホームページ設定を取得する。未設定の場合はnilを返す。
func (r *PostgresSiteRepo) GetHomeSettings(ctx context.Context) (*model.HomeSettings, error) {
	settings := &model.HomeSettings{}
	var imagesJSON []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT id, hero_title, hero_subtitle, carousel_images, updated_at
		 FROM home_settings LIMIT 1`,
	).Scan(
		&settings.ID, &settings.HeroTitle, &settings.HeroSubtitle,
		&imagesJSON, &settings.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get home settings: %w", err)
	}

	if err := json.Unmarshal(imagesJSON, &settings.CarouselImages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal carousel images: %w", err)
	}

	return settings, nil
}

// SaveHomeSettings はホームページ設定を保存する（Upsert）。
func (r *PostgresSiteRepo) SaveHomeSettings(ctx context.Context, settings *model.HomeSettings) error {
	images := settings.CarouselImages
	if images == nil {
		images = []string{}
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return fmt.Errorf("failed to marshal carousel images: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO home_settings (id, hero_title, hero_subtitle, carousel_images, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET
		     hero_title = EXCLUDED.hero_title,
		     hero_subtitle = EXCLUDED.hero_subtitle,
		     carousel_images = EXCLUDED.carousel_images,
		     updated_at = EXCLUDED.updated_at`,
		settings.ID, settings.HeroTitle, settings.HeroSubtitle, imagesJSON, settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save home settings: %w", err)
	}
	return nil
}

// compile-time interface check
var _ SiteRepository = (*PostgresSiteRepo)(nil)
