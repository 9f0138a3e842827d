// Package category は作品カテゴリ管理のドメインロジックを提供する。
package category

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gabiiasi/galeria/internal/model"
	"github.com/gabiiasi/galeria/internal/repository"
)

// Service はカテゴリ管理のサービス層。
// カテゴリの追加・改名・削除と重複・使用中チェックを提供する。
type Service struct {
	categoryRepo repository.CategoryRepository
	artworkRepo  repository.ArtworkRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(categoryRepo repository.CategoryRepository, artworkRepo repository.ArtworkRepository) *Service {
	return &Service{
		categoryRepo: categoryRepo,
		artworkRepo:  artworkRepo,
	}
}

// ListCategories は全カテゴリを名前昇順で返す。
func (s *Service) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categoryRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("カテゴリ一覧の取得に失敗しました: %w", err)
	}
	return categories, nil
}

// CreateCategory はカテゴリを作成する。同名カテゴリが存在する場合はエラーを返す。
func (s *Service) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.NewInvalidArtworkError("カテゴリ名を入力してください")
	}

	existing, err := s.categoryRepo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("カテゴリの取得に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, model.NewDuplicateCategoryError(name)
	}

	category := &model.Category{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("カテゴリの作成に失敗しました: %w", err)
	}

	return category, nil
}

// RenameCategory はカテゴリ名を変更する。
// 既存作品のカテゴリ名もリポジトリ側で追随する。
func (s *Service) RenameCategory(ctx context.Context, id, newName string) (*model.Category, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, model.NewInvalidArtworkError("カテゴリ名を入力してください")
	}

	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("カテゴリの取得に失敗しました: %w", err)
	}
	if category == nil {
		return nil, model.NewCategoryNotFoundError(id)
	}

	duplicate, err := s.categoryRepo.FindByName(ctx, newName)
	if err != nil {
		return nil, fmt.Errorf("カテゴリの取得に失敗しました: %w", err)
	}
	if duplicate != nil && duplicate.ID != id {
		return nil, model.NewDuplicateCategoryError(newName)
	}

	if err := s.categoryRepo.Rename(ctx, id, newName); err != nil {
		return nil, fmt.Errorf("カテゴリ名の変更に失敗しました: %w", err)
	}

	category.Name = newName
	return category, nil
}

// DeleteCategory はカテゴリを削除する。
// カテゴリを使用している作品が存在する場合は削除を拒否する。
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("カテゴリの取得に失敗しました: %w", err)
	}
	if category == nil {
		return model.NewCategoryNotFoundError(id)
	}

	count, err := s.artworkRepo.CountByCategory(ctx, category.Name)
	if err != nil {
		return fmt.Errorf("作品数の取得に失敗しました: %w", err)
	}
	if count > 0 {
		return model.NewCategoryInUseError(category.Name, count)
	}

	if err := s.categoryRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("カテゴリの削除に失敗しました: %w", err)
	}

	return nil
}
