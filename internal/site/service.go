// Package site はプロフィールとホームページ設定のドメインロジックを提供する。
package site

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gabiiasi/galeria/internal/image"
	"github.com/gabiiasi/galeria/internal/metrics"
	"github.com/gabiiasi/galeria/internal/model"
	"github.com/gabiiasi/galeria/internal/repository"
	"github.com/gabiiasi/galeria/internal/security"
)

// SlideUpdater はホームページ設定の更新をカルーセルへ反映するインターフェース。
// carousel.Controllerが実装する。
type SlideUpdater interface {
	SetSlides(slides []string)
}

// ProfileInput はプロフィール更新の入力を表す。
type ProfileInput struct {
	Name      string
	Headline  string
	Bio       string
	Quote     string
	PhotoData []byte // nilの場合は既存の写真を維持する
}

// HomeInput はホームページ設定更新の入力を表す。
type HomeInput struct {
	HeroTitle      string
	HeroSubtitle   string
	CarouselImages []string
}

// Service はサイト設定のサービス層。
// プロフィールとホームページ設定の取得・更新を提供し、
// カルーセル画像の変更を稼働中のコントローラへ反映する。
type Service struct {
	siteRepo  repository.SiteRepository
	sanitizer security.TextSanitizerService
	optimizer image.OptimizerService
	slides    SlideUpdater
	collector metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
// slidesがnilの場合、カルーセルへの反映は行わない（workerモード等）。
// collectorはnilを許容する。
func NewService(
	siteRepo repository.SiteRepository,
	sanitizer security.TextSanitizerService,
	optimizer image.OptimizerService,
	slides SlideUpdater,
	collector metrics.MetricsCollector,
) *Service {
	return &Service{
		siteRepo:  siteRepo,
		sanitizer: sanitizer,
		optimizer: optimizer,
		slides:    slides,
		collector: collector,
	}
}

// GetProfile はプロフィールを返す。未設定の場合は空のプロフィールを返す。
func (s *Service) GetProfile(ctx context.Context) (*model.Profile, error) {
	profile, err := s.siteRepo.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("プロフィールの取得に失敗しました: %w", err)
	}
	if profile == nil {
		return &model.Profile{}, nil
	}
	return profile, nil
}

// UpdateProfile はプロフィールを更新する。
// 経歴文はリッチテキストとしてサニタイズされ、写真は縮小・再エンコードされる。
func (s *Service) UpdateProfile(ctx context.Context, input ProfileInput) (*model.Profile, error) {
	existing, err := s.siteRepo.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("プロフィールの取得に失敗しました: %w", err)
	}

	profile := &model.Profile{
		Name:      s.sanitizer.SanitizeText(strings.TrimSpace(input.Name)),
		Headline:  s.sanitizer.SanitizeText(input.Headline),
		Bio:       s.sanitizer.SanitizeRichText(input.Bio),
		Quote:     s.sanitizer.SanitizeText(input.Quote),
		UpdatedAt: time.Now(),
	}
	if existing != nil {
		profile.ID = existing.ID
	} else {
		profile.ID = uuid.New().String()
	}

	if len(input.PhotoData) > 0 {
		start := time.Now()
		optimized, err := s.optimizer.Optimize(input.PhotoData)
		if err != nil {
			return nil, model.NewImageDecodeFailedError()
		}
		if s.collector != nil {
			s.collector.RecordImageOptimizeLatency(time.Since(start))
		}
		profile.PhotoMime = optimized.Mime
		profile.PhotoData = optimized.Full
	}

	if err := s.siteRepo.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("プロフィールの保存に失敗しました: %w", err)
	}

	return profile, nil
}

// GetHomeSettings はホームページ設定を返す。未設定の場合は空の設定を返す。
func (s *Service) GetHomeSettings(ctx context.Context) (*model.HomeSettings, error) {
	settings, err := s.siteRepo.GetHomeSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("ホームページ設定の取得に失敗しました: %w", err)
	}
	if settings == nil {
		return &model.HomeSettings{CarouselImages: []string{}}, nil
	}
	return settings, nil
}

// UpdateHomeSettings はホームページ設定を更新し、
// カルーセル画像の変更を稼働中のコントローラへ反映する。
func (s *Service) UpdateHomeSettings(ctx context.Context, input HomeInput) (*model.HomeSettings, error) {
	existing, err := s.siteRepo.GetHomeSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("ホームページ設定の取得に失敗しました: %w", err)
	}

	images := input.CarouselImages
	if images == nil {
		images = []string{}
	}

	settings := &model.HomeSettings{
		HeroTitle:      s.sanitizer.SanitizeText(input.HeroTitle),
		HeroSubtitle:   s.sanitizer.SanitizeText(input.HeroSubtitle),
		CarouselImages: images,
		UpdatedAt:      time.Now(),
	}
	if existing != nil {
		settings.ID = existing.ID
	} else {
		settings.ID = uuid.New().String()
	}

	if err := s.siteRepo.SaveHomeSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("ホームページ設定の保存に失敗しました: %w", err)
	}

	if s.slides != nil {
		s.slides.SetSlides(settings.CarouselImages)
	}

	return settings, nil
}
