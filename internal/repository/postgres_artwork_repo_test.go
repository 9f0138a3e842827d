package repository

import (
	"testing"
	"time"

	"github.com/gabiiasi/galeria/internal/model"
)

// PostgresArtworkRepoはArtworkRepositoryインターフェースを満たすことを検証
func TestPostgresArtworkRepo_ImplementsInterface(t *testing.T) {
	var _ ArtworkRepository = (*PostgresArtworkRepo)(nil)
}

// PostgresCategoryRepoはCategoryRepositoryインターフェースを満たすことを検証
func TestPostgresCategoryRepo_ImplementsInterface(t *testing.T) {
	var _ CategoryRepository = (*PostgresCategoryRepo)(nil)
}

// NewPostgresArtworkRepoが正しく初期化されることを検証
func TestNewPostgresArtworkRepo_Initializes(t *testing.T) {
	repo := NewPostgresArtworkRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresCategoryRepoが正しく初期化されることを検証
func TestNewPostgresCategoryRepo_Initializes(t *testing.T) {
	repo := NewPostgresCategoryRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// Artworkモデルのフィールドが正しく構築されることを検証
func TestPostgresArtworkRepo_ArtworkModel_Fields(t *testing.T) {
	now := time.Now()
	price := 48000.0
	artwork := &model.Artwork{
		ID:        "artwork-id-1",
		Title:     "静物",
		Category:  "油彩",
		Price:     &price,
		Status:    model.StatusAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if artwork.ID != "artwork-id-1" {
		t.Errorf("artwork.ID = %q, want %q", artwork.ID, "artwork-id-1")
	}
	if artwork.Status != model.StatusAvailable {
		t.Errorf("artwork.Status = %q, want %q", artwork.Status, model.StatusAvailable)
	}
	if *artwork.Price != 48000.0 {
		t.Errorf("artwork.Price = %v, want %v", *artwork.Price, 48000.0)
	}
}

// Artworkの価格がnil許容（価格応相談）であることを検証
func TestPostgresArtworkRepo_ArtworkModel_NilPrice(t *testing.T) {
	artwork := &model.Artwork{
		ID:     "artwork-id-2",
		Title:  "受注制作",
		Status: model.StatusCustomOrder,
	}

	if artwork.Price != nil {
		t.Error("price should be nil by default")
	}
	if artwork.ImageData != nil {
		t.Error("image_data should be nil by default")
	}
}
