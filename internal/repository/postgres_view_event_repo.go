package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gabiiasi/galeria/internal/model"
)

// PostgresViewEventRepo はPostgreSQLを使用した閲覧イベントリポジトリ。
type PostgresViewEventRepo struct {
	db *sql.DB
}

// NewPostgresViewEventRepo はPostgresViewEventRepoを生成する。
func NewPostgresViewEventRepo(db *sql.DB) *PostgresViewEventRepo {
	return &PostgresViewEventRepo{db: db}
}

// Record は閲覧イベントを記録する。
func (r *PostgresViewEventRepo) Record(ctx context.Context, event *model.ViewEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO view_events (id, artwork_id, occurred_at)
		 VALUES ($1, $2, $3)`,
		event.ID, event.ArtworkID, event.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert view event: %w", err)
	}
	return nil
}

// CountByArtworkSince は指定日時以降の作品ごとの閲覧数を返す。
func (r *PostgresViewEventRepo) CountByArtworkSince(ctx context.Context, since time.Time) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT artwork_id, COUNT(*)
		 FROM view_events
		 WHERE occurred_at >= $1
		 GROUP BY artwork_id`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count view events: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var artworkID string
		var count int
		if err := rows.Scan(&artworkID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan view event count: %w", err)
		}
		counts[artworkID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate view event counts: %w", err)
	}

	return counts, nil
}

// DeleteBefore は指定日時より前のイベントを削除し、削除件数を返す。
func (r *PostgresViewEventRepo) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM view_events WHERE occurred_at < $1`,
		before,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old view events: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// compile-time interface check
var _ ViewEventRepository = (*PostgresViewEventRepo)(nil)
