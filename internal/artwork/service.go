// Package artwork は作品管理のドメインロジックを提供する。
package artwork

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gabiiasi/galeria/internal/image"
	"github.com/gabiiasi/galeria/internal/metrics"
	"github.com/gabiiasi/galeria/internal/model"
	"github.com/gabiiasi/galeria/internal/repository"
	"github.com/gabiiasi/galeria/internal/security"
)

// Input は作品の作成・更新の入力を表す。
// ImageDataとImageURLはどちらか一方を指定する。両方空の場合、
// 作成時はエラー、更新時は既存画像を維持する。
type Input struct {
	Title       string
	Category    string
	Price       *float64
	Dimensions  string
	Description string
	Status      model.ArtworkStatus
	ImageData   []byte // アップロードされた画像の生バイト列
	ImageURL    string // URL指定で取り込む場合の画像URL
}

// Stats は管理画面に表示する作品統計を表す。
type Stats struct {
	TotalCount   int                         `json:"total_count"`
	StatusCounts map[model.ArtworkStatus]int `json:"status_counts"`
	TotalViews   int                         `json:"total_views"`
	TopByViews   []model.Artwork             `json:"top_by_views"`
}

// Service は作品管理のサービス層。
// 作品のCRUD、画像取り込み、閲覧記録のビジネスロジックを提供する。
type Service struct {
	artworkRepo   repository.ArtworkRepository
	categoryRepo  repository.CategoryRepository
	viewEventRepo repository.ViewEventRepository
	sanitizer     security.TextSanitizerService
	optimizer     image.OptimizerService
	fetcher       image.FetcherService
	guard         security.SSRFGuardService
	collector     metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。collectorはnilを許容する。
func NewService(
	artworkRepo repository.ArtworkRepository,
	categoryRepo repository.CategoryRepository,
	viewEventRepo repository.ViewEventRepository,
	sanitizer security.TextSanitizerService,
	optimizer image.OptimizerService,
	fetcher image.FetcherService,
	guard security.SSRFGuardService,
	collector metrics.MetricsCollector,
) *Service {
	return &Service{
		artworkRepo:   artworkRepo,
		categoryRepo:  categoryRepo,
		viewEventRepo: viewEventRepo,
		sanitizer:     sanitizer,
		optimizer:     optimizer,
		fetcher:       fetcher,
		guard:         guard,
		collector:     collector,
	}
}

// ListArtworks は全作品を制作日時降順で返す。
// ギャラリーのフィルタ・ソート・ページングの導出元スナップショットとなる。
func (s *Service) ListArtworks(ctx context.Context) ([]model.Artwork, error) {
	artworks, err := s.artworkRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("作品一覧の取得に失敗しました: %w", err)
	}
	return artworks, nil
}

// GetArtwork は指定IDの作品を取得する。
func (s *Service) GetArtwork(ctx context.Context, id string) (*model.Artwork, error) {
	artwork, err := s.artworkRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("作品の取得に失敗しました: %w", err)
	}
	if artwork == nil {
		return nil, model.NewArtworkNotFoundError(id)
	}
	return artwork, nil
}

// RecordView は作品詳細の閲覧を記録する。
// 閲覧数のインクリメントと人気度集計用イベントの保存を行う。
func (s *Service) RecordView(ctx context.Context, artworkID string) error {
	if err := s.artworkRepo.IncrementViews(ctx, artworkID); err != nil {
		return fmt.Errorf("閲覧数の更新に失敗しました: %w", err)
	}

	event := &model.ViewEvent{
		ID:         uuid.New().String(),
		ArtworkID:  artworkID,
		OccurredAt: time.Now(),
	}
	if err := s.viewEventRepo.Record(ctx, event); err != nil {
		return fmt.Errorf("閲覧イベントの記録に失敗しました: %w", err)
	}

	return nil
}

// CreateArtwork は作品を作成する。
// 説明文はサニタイズされ、画像は保存前に縮小・再エンコードされる。
func (s *Service) CreateArtwork(ctx context.Context, input Input) (*model.Artwork, error) {
	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}
	if len(input.ImageData) == 0 && input.ImageURL == "" {
		return nil, model.NewInvalidArtworkError("作品画像を指定してください")
	}

	optimized, err := s.ingestImage(ctx, input)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	artwork := &model.Artwork{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(input.Title),
		Category:    input.Category,
		Price:       input.Price,
		Dimensions:  s.sanitizer.SanitizeText(input.Dimensions),
		Description: s.sanitizer.SanitizeRichText(input.Description),
		ImageMime:   optimized.Mime,
		ImageData:   optimized.Full,
		ThumbData:   optimized.Thumb,
		Status:      input.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.artworkRepo.Create(ctx, artwork); err != nil {
		return nil, fmt.Errorf("作品の作成に失敗しました: %w", err)
	}

	return artwork, nil
}

// UpdateArtwork は作品を更新する。
// 画像が指定されなかった場合は既存の画像を維持する。
func (s *Service) UpdateArtwork(ctx context.Context, id string, input Input) (*model.Artwork, error) {
	existing, err := s.artworkRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("作品の取得に失敗しました: %w", err)
	}
	if existing == nil {
		return nil, model.NewArtworkNotFoundError(id)
	}

	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}

	artwork := &model.Artwork{
		ID:          id,
		Title:       strings.TrimSpace(input.Title),
		Category:    input.Category,
		Price:       input.Price,
		Dimensions:  s.sanitizer.SanitizeText(input.Dimensions),
		Description: s.sanitizer.SanitizeRichText(input.Description),
		Status:      input.Status,
		UpdatedAt:   time.Now(),
	}

	if len(input.ImageData) > 0 || input.ImageURL != "" {
		optimized, err := s.ingestImage(ctx, input)
		if err != nil {
			return nil, err
		}
		artwork.ImageMime = optimized.Mime
		artwork.ImageData = optimized.Full
		artwork.ThumbData = optimized.Thumb
	}

	if err := s.artworkRepo.Update(ctx, artwork); err != nil {
		return nil, fmt.Errorf("作品の更新に失敗しました: %w", err)
	}

	return artwork, nil
}

// UpdateStatus は作品の販売状態を更新する。
func (s *Service) UpdateStatus(ctx context.Context, id string, status model.ArtworkStatus) error {
	if !model.ValidStatus(status) {
		return model.NewInvalidStatusError(string(status))
	}

	existing, err := s.artworkRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("作品の取得に失敗しました: %w", err)
	}
	if existing == nil {
		return model.NewArtworkNotFoundError(id)
	}

	if err := s.artworkRepo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("販売状態の更新に失敗しました: %w", err)
	}

	return nil
}

// DeleteArtwork は作品を削除する。
func (s *Service) DeleteArtwork(ctx context.Context, id string) error {
	existing, err := s.artworkRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("作品の取得に失敗しました: %w", err)
	}
	if existing == nil {
		return model.NewArtworkNotFoundError(id)
	}

	if err := s.artworkRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("作品の削除に失敗しました: %w", err)
	}

	return nil
}

// GetImage は作品画像を返す。sizeは "full" または "thumb"。
func (s *Service) GetImage(ctx context.Context, id, size string) ([]byte, string, error) {
	artwork, err := s.artworkRepo.FindByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("作品の取得に失敗しました: %w", err)
	}
	if artwork == nil {
		return nil, "", model.NewArtworkNotFoundError(id)
	}

	data := artwork.ImageData
	if size == "thumb" && len(artwork.ThumbData) > 0 {
		data = artwork.ThumbData
	}
	if len(data) == 0 {
		return nil, "", model.NewArtworkNotFoundError(id)
	}

	return data, artwork.ImageMime, nil
}

// GetStats は管理画面向けの作品統計を返す。
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	statusCounts, err := s.artworkRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("統計の取得に失敗しました: %w", err)
	}

	artworks, err := s.artworkRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("作品一覧の取得に失敗しました: %w", err)
	}

	stats := &Stats{
		StatusCounts: statusCounts,
		TopByViews:   topByViews(artworks, 5),
	}
	for _, a := range artworks {
		stats.TotalCount++
		stats.TotalViews += a.Views
	}

	return stats, nil
}

// validateInput は作品入力を検証する。
func (s *Service) validateInput(ctx context.Context, input Input) error {
	if strings.TrimSpace(input.Title) == "" {
		return model.NewInvalidArtworkError("タイトルを入力してください")
	}
	if !model.ValidStatus(input.Status) {
		return model.NewInvalidStatusError(string(input.Status))
	}
	if input.Price != nil && *input.Price < 0 {
		return model.NewInvalidArtworkError("価格には0以上の数値を指定してください")
	}

	category, err := s.categoryRepo.FindByName(ctx, input.Category)
	if err != nil {
		return fmt.Errorf("カテゴリの取得に失敗しました: %w", err)
	}
	if category == nil {
		return model.NewCategoryNotFoundError(input.Category)
	}

	return nil
}

// ingestImage は入力からの画像取り込みと最適化を行う。
// URL指定の場合はSSRFガードによる検証を経てから取得する。
func (s *Service) ingestImage(ctx context.Context, input Input) (*image.OptimizedImage, error) {
	data := input.ImageData

	if len(data) == 0 {
		if _, err := url.ParseRequestURI(input.ImageURL); err != nil {
			return nil, model.NewInvalidURLError(input.ImageURL)
		}
		if err := s.guard.ValidateURL(input.ImageURL); err != nil {
			return nil, model.NewSSRFBlockedError()
		}

		fetched, err := s.fetcher.Fetch(ctx, input.ImageURL)
		if err != nil {
			return nil, model.NewImageFetchFailedError(err.Error())
		}
		data = fetched
	}

	start := time.Now()
	optimized, err := s.optimizer.Optimize(data)
	if err != nil {
		return nil, model.NewImageDecodeFailedError()
	}
	if s.collector != nil {
		s.collector.RecordImageOptimizeLatency(time.Since(start))
	}

	return optimized, nil
}

// topByViews は閲覧数上位n件の作品を返す。
func topByViews(artworks []model.Artwork, n int) []model.Artwork {
	sorted := make([]model.Artwork, len(artworks))
	copy(sorted, artworks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Views > sorted[j].Views
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
