// Package cleanup は期限切れデータの自動削除ジョブを提供する。
// 期限切れセッション、更新の止まった閲覧者クエリ状態、
// 集計期間を過ぎた閲覧イベントを日次バッチで削除する。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gabiiasi/galeria/internal/repository"
)

// Job は期限切れデータの自動削除ジョブ。
// 日次実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type Job struct {
	sessionRepo   repository.SessionRepository
	viewStateRepo repository.ViewStateRepository
	viewEventRepo repository.ViewEventRepository
	logger        *slog.Logger

	// ViewStateRetentionDays は閲覧者クエリ状態の保持日数（デフォルト: 30）。
	ViewStateRetentionDays int
	// ViewEventRetentionDays は閲覧イベントの保持日数（デフォルト: 180）。
	// 人気度集計の対象期間より長く保持する。
	ViewEventRetentionDays int
}

// NewJob は新しいクリーンアップジョブを生成する。
func NewJob(
	sessionRepo repository.SessionRepository,
	viewStateRepo repository.ViewStateRepository,
	viewEventRepo repository.ViewEventRepository,
	logger *slog.Logger,
) *Job {
	return &Job{
		sessionRepo:            sessionRepo,
		viewStateRepo:          viewStateRepo,
		viewEventRepo:          viewEventRepo,
		logger:                 logger,
		ViewStateRetentionDays: 30,
		ViewEventRetentionDays: 180,
	}
}

// Start は指定間隔のティッカーでジョブを起動する。
// コンテキストがキャンセルされるまで実行を継続する。
func (j *Job) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.logger.Info("クリーンアップジョブを開始しました",
		slog.Duration("interval", interval),
		slog.Int("view_state_retention_days", j.ViewStateRetentionDays),
		slog.Int("view_event_retention_days", j.ViewEventRetentionDays),
	)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("クリーンアップジョブを停止しました")
			return
		case <-ticker.C:
			if err := j.RunOnce(ctx); err != nil {
				j.logger.Error("クリーンアップの実行に失敗しました",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// RunOnce は期限切れデータを1回削除する。
// 冪等: 削除対象がない場合でもエラーにならない。
// いずれかの削除に失敗しても残りの削除は実行し、最後にまとめてエラーを返す。
func (j *Job) RunOnce(ctx context.Context) error {
	start := time.Now()
	var firstErr error

	sessions, err := j.sessionRepo.DeleteExpired(ctx)
	if err != nil {
		j.logger.Error("期限切れセッションの削除に失敗しました",
			slog.String("error", err.Error()),
		)
		firstErr = fmt.Errorf("期限切れセッションの削除に失敗: %w", err)
	}

	stateBefore := start.AddDate(0, 0, -j.ViewStateRetentionDays)
	states, err := j.viewStateRepo.DeleteStale(ctx, stateBefore)
	if err != nil {
		j.logger.Error("閲覧者クエリ状態の削除に失敗しました",
			slog.String("error", err.Error()),
		)
		if firstErr == nil {
			firstErr = fmt.Errorf("閲覧者クエリ状態の削除に失敗: %w", err)
		}
	}

	eventBefore := start.AddDate(0, 0, -j.ViewEventRetentionDays)
	events, err := j.viewEventRepo.DeleteBefore(ctx, eventBefore)
	if err != nil {
		j.logger.Error("閲覧イベントの削除に失敗しました",
			slog.String("error", err.Error()),
		)
		if firstErr == nil {
			firstErr = fmt.Errorf("閲覧イベントの削除に失敗: %w", err)
		}
	}

	duration := time.Since(start)
	j.logger.Info("クリーンアップが完了しました",
		slog.Int64("deleted_sessions", sessions),
		slog.Int64("deleted_view_states", states),
		slog.Int64("deleted_view_events", events),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return firstErr
}
