package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PostgresViewStateRepo はPostgreSQLを使用した閲覧状態リポジトリ。
// 閲覧者ID+キーの複合主キーで値を1セルずつ保持する。
type PostgresViewStateRepo struct {
	db *sql.DB
}

// NewPostgresViewStateRepo はPostgresViewStateRepoを生成する。
func NewPostgresViewStateRepo(db *sql.DB) *PostgresViewStateRepo {
	return &PostgresViewStateRepo{db: db}
}

// Get は閲覧者とキーに対応する値を返す。存在しない場合はfalseを返す。
func (r *PostgresViewStateRepo) Get(ctx context.Context, visitorID, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM view_states WHERE visitor_id = $1 AND key = $2`,
		visitorID, key,
	).Scan(&value)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get view state: %w", err)
	}

	return value, true, nil
}

// Set は閲覧者とキーに値を保存する（Upsert）。
func (r *PostgresViewStateRepo) Set(ctx context.Context, visitorID, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO view_states (visitor_id, key, value, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (visitor_id, key) DO UPDATE SET
		     value = EXCLUDED.value,
		     updated_at = now()`,
		visitorID, key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set view state: %w", err)
	}
	return nil
}

// DeleteStale は指定日時より前に更新された状態を削除し、削除件数を返す。
func (r *PostgresViewStateRepo) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM view_states WHERE updated_at < $1`,
		before,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale view states: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// compile-time interface check
var _ ViewStateRepository = (*PostgresViewStateRepo)(nil)
