package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gabiiasi/galeria/internal/model"
)

// PostgresArtworkRepo はPostgreSQLを使用した作品リポジトリ。
type PostgresArtworkRepo struct {
	db *sql.DB
}

// NewPostgresArtworkRepo はPostgresArtworkRepoを生成する。
func NewPostgresArtworkRepo(db *sql.DB) *PostgresArtworkRepo {
	return &PostgresArtworkRepo{db: db}
}

// FindByID は指定IDの作品を画像データ込みで取得する。見つからない場合はnilを返す。
func (r *PostgresArtworkRepo) FindByID(ctx context.Context, id string) (*model.Artwork, error) {
	artwork := &model.Artwork{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, category, price, dimensions, description,
		        image_mime, image_data, thumb_data, status, popularity, views,
		        created_at, updated_at
		 FROM artworks WHERE id = $1`,
		id,
	).Scan(
		&artwork.ID, &artwork.Title, &artwork.Category, &artwork.Price,
		&artwork.Dimensions, &artwork.Description,
		&artwork.ImageMime, &artwork.ImageData, &artwork.ThumbData,
		&artwork.Status, &artwork.Popularity, &artwork.Views,
		&artwork.CreatedAt, &artwork.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find artwork by ID: %w", err)
	}

	return artwork, nil
}

// ListAll は全作品を画像データ抜きで制作日時降順で返す。
func (r *PostgresArtworkRepo) ListAll(ctx context.Context) ([]model.Artwork, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, category, price, dimensions, description,
		        image_mime, status, popularity, views, created_at, updated_at
		 FROM artworks
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list artworks: %w", err)
	}
	defer rows.Close()

	var artworks []model.Artwork
	for rows.Next() {
		var artwork model.Artwork
		err := rows.Scan(
			&artwork.ID, &artwork.Title, &artwork.Category, &artwork.Price,
			&artwork.Dimensions, &artwork.Description,
			&artwork.ImageMime, &artwork.Status, &artwork.Popularity,
			&artwork.Views, &artwork.CreatedAt, &artwork.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan artwork: %w", err)
		}
		artworks = append(artworks, artwork)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate artworks: %w", err)
	}

	return artworks, nil
}

// Create は作品を作成する。
func (r *PostgresArtworkRepo) Create(ctx context.Context, artwork *model.Artwork) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO artworks (id, title, category, price, dimensions, description,
		                       image_mime, image_data, thumb_data, status, popularity, views,
		                       created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		artwork.ID, artwork.Title, artwork.Category, artwork.Price,
		artwork.Dimensions, artwork.Description,
		artwork.ImageMime, artwork.ImageData, artwork.ThumbData,
		artwork.Status, artwork.Popularity, artwork.Views,
		artwork.CreatedAt, artwork.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert artwork: %w", err)
	}
	return nil
}

// Update は作品のメタデータを更新する。画像データはnil以外の場合のみ更新する。
func (r *PostgresArtworkRepo) Update(ctx context.Context, artwork *model.Artwork) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE artworks
		 SET title = $2, category = $3, price = $4, dimensions = $5, description = $6,
		     image_mime = CASE WHEN $7::bytea IS NULL THEN image_mime ELSE $9 END,
		     image_data = COALESCE($7, image_data),
		     thumb_data = COALESCE($8, thumb_data),
		     status = $10, updated_at = $11
		 WHERE id = $1`,
		artwork.ID, artwork.Title, artwork.Category, artwork.Price,
		artwork.Dimensions, artwork.Description,
		artwork.ImageData, artwork.ThumbData, artwork.ImageMime,
		artwork.Status, artwork.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update artwork: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("artwork not found: %s", artwork.ID)
	}
	return nil
}

// UpdateStatus は作品の販売状態のみを更新する。
func (r *PostgresArtworkRepo) UpdateStatus(ctx context.Context, id string, status model.ArtworkStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE artworks SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("failed to update artwork status: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("artwork not found: %s", id)
	}
	return nil
}

// DeleteByID は指定IDの作品を削除する。
// 関連するview_eventsはCASCADE削除される。
func (r *PostgresArtworkRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM artworks WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete artwork: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("artwork not found: %s", id)
	}
	return nil
}

// CountByCategory は指定カテゴリ名を使用している作品数を返す。
func (r *PostgresArtworkRepo) CountByCategory(ctx context.Context, category string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM artworks WHERE category = $1`,
		category,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count artworks by category: %w", err)
	}
	return count, nil
}

// CountByStatus は販売状態ごとの作品数を返す。
func (r *PostgresArtworkRepo) CountByStatus(ctx context.Context) (map[model.ArtworkStatus]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM artworks GROUP BY status`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count artworks by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.ArtworkStatus]int)
	for rows.Next() {
		var status model.ArtworkStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status counts: %w", err)
	}

	return counts, nil
}

// IncrementViews は作品の閲覧数を1増やす。
func (r *PostgresArtworkRepo) IncrementViews(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE artworks SET views = views + 1 WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to increment artwork views: %w", err)
	}
	return nil
}

// UpdatePopularity は作品の人気度スコアを更新する。
func (r *PostgresArtworkRepo) UpdatePopularity(ctx context.Context, id string, score float64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE artworks SET popularity = $2 WHERE id = $1`,
		id, score,
	)
	if err != nil {
		return fmt.Errorf("failed to update artwork popularity: %w", err)
	}
	return nil
}

// compile-time interface check
var _ ArtworkRepository = (*PostgresArtworkRepo)(nil)
