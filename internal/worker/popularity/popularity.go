// Package popularity は閲覧イベントから作品の人気度スコアを集計するジョブを提供する。
// 直近の集計期間（デフォルト90日）の閲覧数を人気度スコアとして
// artworksテーブルへ定期的に書き戻す。
package popularity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gabiiasi/galeria/internal/metrics"
	"github.com/gabiiasi/galeria/internal/repository"
)

// Job は人気度集計ジョブ。
// ティッカー駆動のバッチジョブとして設計されており、冪等な集計処理を保証する。
type Job struct {
	artworkRepo   repository.ArtworkRepository
	viewEventRepo repository.ViewEventRepository
	collector     metrics.MetricsCollector
	logger        *slog.Logger
	WindowDays    int // 集計対象期間（日）（デフォルト: 90）
}

// NewJob は新しい人気度集計ジョブを生成する。collectorはnilを許容する。
func NewJob(
	artworkRepo repository.ArtworkRepository,
	viewEventRepo repository.ViewEventRepository,
	collector metrics.MetricsCollector,
	logger *slog.Logger,
) *Job {
	return &Job{
		artworkRepo:   artworkRepo,
		viewEventRepo: viewEventRepo,
		collector:     collector,
		logger:        logger,
		WindowDays:    90,
	}
}

// Start は指定間隔のティッカーでジョブを起動する。
// コンテキストがキャンセルされるまで実行を継続する。
func (j *Job) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.logger.Info("人気度集計ジョブを開始しました",
		slog.Duration("interval", interval),
		slog.Int("window_days", j.WindowDays),
	)

	// 起動直後に1回実行
	if err := j.RunOnce(ctx); err != nil {
		j.logger.Error("人気度集計の実行に失敗しました",
			slog.String("error", err.Error()),
		)
	}

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("人気度集計ジョブを停止しました")
			return
		case <-ticker.C:
			if err := j.RunOnce(ctx); err != nil {
				j.logger.Error("人気度集計の実行に失敗しました",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// RunOnce は集計期間内の閲覧イベントを集計し、人気度スコアを更新する。
// 期間内に閲覧のない作品のスコアは0に戻す。スコアに変化のない作品は書き込みをスキップする。
func (j *Job) RunOnce(ctx context.Context) error {
	start := time.Now()
	since := start.AddDate(0, 0, -j.WindowDays)

	counts, err := j.viewEventRepo.CountByArtworkSince(ctx, since)
	if err != nil {
		return fmt.Errorf("閲覧イベントの集計に失敗: %w", err)
	}

	artworks, err := j.artworkRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("作品一覧の取得に失敗: %w", err)
	}

	updated := 0
	for _, a := range artworks {
		score := float64(counts[a.ID])
		if score == a.Popularity {
			continue
		}

		if err := j.artworkRepo.UpdatePopularity(ctx, a.ID, score); err != nil {
			j.logger.Error("人気度スコアの更新に失敗しました",
				slog.String("artwork_id", a.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		updated++
	}

	if j.collector != nil {
		j.collector.RecordPopularityRefresh(updated)
	}

	duration := time.Since(start)
	j.logger.Info("人気度集計が完了しました",
		slog.Int("artwork_count", len(artworks)),
		slog.Int("updated_count", updated),
		slog.Int("window_days", j.WindowDays),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}
