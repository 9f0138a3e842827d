package category

import (
	"context"
	"testing"
	"time"

	"github.com/gabiiasi/galeria/internal/model"
)

// mockCategoryRepo はテスト用のカテゴリリポジトリ。
type mockCategoryRepo struct {
	findByIDFunc   func(ctx context.Context, id string) (*model.Category, error)
	findByNameFunc func(ctx context.Context, name string) (*model.Category, error)
	listAllFunc    func(ctx context.Context) ([]model.Category, error)
	createFunc     func(ctx context.Context, category *model.Category) error
	renameFunc     func(ctx context.Context, id, newName string) error
	deleteByIDFunc func(ctx context.Context, id string) error
}

func (m *mockCategoryRepo) FindByID(ctx context.Context, id string) (*model.Category, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockCategoryRepo) FindByName(ctx context.Context, name string) (*model.Category, error) {
	if m.findByNameFunc != nil {
		return m.findByNameFunc(ctx, name)
	}
	return nil, nil
}

func (m *mockCategoryRepo) ListAll(ctx context.Context) ([]model.Category, error) {
	if m.listAllFunc != nil {
		return m.listAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockCategoryRepo) Create(ctx context.Context, category *model.Category) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, category)
	}
	return nil
}

func (m *mockCategoryRepo) Rename(ctx context.Context, id, newName string) error {
	if m.renameFunc != nil {
		return m.renameFunc(ctx, id, newName)
	}
	return nil
}

func (m *mockCategoryRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFunc != nil {
		return m.deleteByIDFunc(ctx, id)
	}
	return nil
}

// mockArtworkCounter はテスト用の作品リポジトリ（カテゴリ使用数のみ使用）。
type mockArtworkCounter struct {
	countByCategoryFunc func(ctx context.Context, category string) (int, error)
}

func (m *mockArtworkCounter) FindByID(ctx context.Context, id string) (*model.Artwork, error) {
	return nil, nil
}
func (m *mockArtworkCounter) ListAll(ctx context.Context) ([]model.Artwork, error) { return nil, nil }
func (m *mockArtworkCounter) Create(ctx context.Context, a *model.Artwork) error   { return nil }
func (m *mockArtworkCounter) Update(ctx context.Context, a *model.Artwork) error   { return nil }
func (m *mockArtworkCounter) UpdateStatus(ctx context.Context, id string, status model.ArtworkStatus) error {
	return nil
}
func (m *mockArtworkCounter) DeleteByID(ctx context.Context, id string) error { return nil }

func (m *mockArtworkCounter) CountByCategory(ctx context.Context, category string) (int, error) {
	if m.countByCategoryFunc != nil {
		return m.countByCategoryFunc(ctx, category)
	}
	return 0, nil
}

func (m *mockArtworkCounter) CountByStatus(ctx context.Context) (map[model.ArtworkStatus]int, error) {
	return nil, nil
}
func (m *mockArtworkCounter) IncrementViews(ctx context.Context, id string) error { return nil }
func (m *mockArtworkCounter) UpdatePopularity(ctx context.Context, id string, score float64) error {
	return nil
}

// カテゴリ作成が成功することを検証
func TestCreateCategory_Success(t *testing.T) {
	var created *model.Category
	repo := &mockCategoryRepo{
		createFunc: func(ctx context.Context, category *model.Category) error {
			created = category
			return nil
		},
	}
	svc := NewService(repo, &mockArtworkCounter{})

	category, err := svc.CreateCategory(context.Background(), "  水彩  ")
	if err != nil {
		t.Fatalf("CreateCategory() returned error: %v", err)
	}
	if created == nil {
		t.Fatal("expected Create to be called")
	}
	if category.Name != "水彩" {
		t.Errorf("name = %q, want trimmed %q", category.Name, "水彩")
	}
	if category.ID == "" {
		t.Error("expected generated ID")
	}
}

// 同名カテゴリの作成が拒否されることを検証
func TestCreateCategory_Duplicate(t *testing.T) {
	repo := &mockCategoryRepo{
		findByNameFunc: func(ctx context.Context, name string) (*model.Category, error) {
			return &model.Category{ID: "cat-1", Name: name}, nil
		},
	}
	svc := NewService(repo, &mockArtworkCounter{})

	_, err := svc.CreateCategory(context.Background(), "油彩")
	assertAPIError(t, err, model.ErrCodeDuplicateCategory)
}

// 空名のカテゴリ作成が拒否されることを検証
func TestCreateCategory_EmptyName(t *testing.T) {
	svc := NewService(&mockCategoryRepo{}, &mockArtworkCounter{})

	_, err := svc.CreateCategory(context.Background(), "   ")
	assertAPIError(t, err, model.ErrCodeInvalidArtwork)
}

// カテゴリ改名が成功することを検証
func TestRenameCategory_Success(t *testing.T) {
	renamed := false
	repo := &mockCategoryRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Category, error) {
			return &model.Category{ID: id, Name: "油彩", CreatedAt: time.Now()}, nil
		},
		renameFunc: func(ctx context.Context, id, newName string) error {
			renamed = true
			return nil
		},
	}
	svc := NewService(repo, &mockArtworkCounter{})

	category, err := svc.RenameCategory(context.Background(), "cat-1", "油絵")
	if err != nil {
		t.Fatalf("RenameCategory() returned error: %v", err)
	}
	if !renamed {
		t.Error("expected Rename to be called")
	}
	if category.Name != "油絵" {
		t.Errorf("name = %q, want %q", category.Name, "油絵")
	}
}

// 存在しないカテゴリの改名が拒否されることを検証
func TestRenameCategory_NotFound(t *testing.T) {
	svc := NewService(&mockCategoryRepo{}, &mockArtworkCounter{})

	_, err := svc.RenameCategory(context.Background(), "missing-id", "新名称")
	assertAPIError(t, err, model.ErrCodeCategoryNotFound)
}

// 既存カテゴリと同名への改名が拒否されることを検証
func TestRenameCategory_DuplicateName(t *testing.T) {
	repo := &mockCategoryRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Category, error) {
			return &model.Category{ID: id, Name: "油彩"}, nil
		},
		findByNameFunc: func(ctx context.Context, name string) (*model.Category, error) {
			return &model.Category{ID: "other-id", Name: name}, nil
		},
	}
	svc := NewService(repo, &mockArtworkCounter{})

	_, err := svc.RenameCategory(context.Background(), "cat-1", "水彩")
	assertAPIError(t, err, model.ErrCodeDuplicateCategory)
}

// 同一カテゴリへの同名改名（表記ゆれ修正）が許可されることを検証
func TestRenameCategory_SameCategorySameName(t *testing.T) {
	repo := &mockCategoryRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Category, error) {
			return &model.Category{ID: id, Name: "油彩"}, nil
		},
		findByNameFunc: func(ctx context.Context, name string) (*model.Category, error) {
			return &model.Category{ID: "cat-1", Name: name}, nil
		},
	}
	svc := NewService(repo, &mockArtworkCounter{})

	_, err := svc.RenameCategory(context.Background(), "cat-1", "油彩")
	if err != nil {
		t.Fatalf("RenameCategory() returned error: %v", err)
	}
}

// 使用中カテゴリの削除が拒否されることを検証
func TestDeleteCategory_InUse(t *testing.T) {
	repo := &mockCategoryRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Category, error) {
			return &model.Category{ID: id, Name: "油彩"}, nil
		},
	}
	counter := &mockArtworkCounter{
		countByCategoryFunc: func(ctx context.Context, category string) (int, error) {
			return 3, nil
		},
	}
	svc := NewService(repo, counter)

	err := svc.DeleteCategory(context.Background(), "cat-1")
	assertAPIError(t, err, model.ErrCodeCategoryInUse)
}

// 未使用カテゴリの削除が成功することを検証
func TestDeleteCategory_Success(t *testing.T) {
	deleted := false
	repo := &mockCategoryRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Category, error) {
			return &model.Category{ID: id, Name: "油彩"}, nil
		},
		deleteByIDFunc: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	svc := NewService(repo, &mockArtworkCounter{})

	if err := svc.DeleteCategory(context.Background(), "cat-1"); err != nil {
		t.Fatalf("DeleteCategory() returned error: %v", err)
	}
	if !deleted {
		t.Error("expected DeleteByID to be called")
	}
}

// 存在しないカテゴリの削除が拒否されることを検証
func TestDeleteCategory_NotFound(t *testing.T) {
	svc := NewService(&mockCategoryRepo{}, &mockArtworkCounter{})

	err := svc.DeleteCategory(context.Background(), "missing-id")
	assertAPIError(t, err, model.ErrCodeCategoryNotFound)
}

// assertAPIError はerrが指定コードのAPIErrorであることを検証する。
func assertAPIError(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected APIError with code %s, got nil", code)
	}
	apiErr, ok := err.(*model.APIError)
	if !ok {
		t.Fatalf("expected *model.APIError, got %T: %v", err, err)
	}
	if apiErr.Code != code {
		t.Errorf("error code = %s, want %s", apiErr.Code, code)
	}
}
