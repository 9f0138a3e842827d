package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gabiiasi/galeria/internal/catalog"
	"github.com/gabiiasi/galeria/internal/metrics"
	"github.com/gabiiasi/galeria/internal/middleware"
	"github.com/gabiiasi/galeria/internal/model"
	"github.com/gabiiasi/galeria/internal/repository"
)

// GalleryServiceInterface はギャラリーハンドラーが必要とするサービスインターフェース。
type GalleryServiceInterface interface {
	// ListArtworks は全作品を制作日時降順で返す（画像バイト列は含まない）。
	ListArtworks(ctx context.Context) ([]model.Artwork, error)
}

// GalleryHandler は公開ギャラリー一覧のHTTPハンドラー。
// 閲覧者ごとのクエリ状態（検索・カテゴリ・ソート・ページ）を
// ViewStateRepositoryに永続化し、リクエストごとに復元して適用する。
type GalleryHandler struct {
	service       GalleryServiceInterface
	viewStateRepo repository.ViewStateRepository
	collector     metrics.MetricsCollector
}

// NewGalleryHandler はGalleryHandlerを生成する。collectorはnilを許容する。
func NewGalleryHandler(service GalleryServiceInterface, viewStateRepo repository.ViewStateRepository, collector metrics.MetricsCollector) *GalleryHandler {
	return &GalleryHandler{
		service:       service,
		viewStateRepo: viewStateRepo,
		collector:     collector,
	}
}

// --- レスポンス型 ---

// artworkSummaryResponse は作品一覧のサマリーレスポンス。
// 画像はバイト列ではなくURLパスとして参照する。
type artworkSummaryResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	Price      *float64  `json:"price,omitempty"` // 未設定は「価格応相談」
	Dimensions string    `json:"dimensions"`
	Status     string    `json:"status"`
	Popularity float64   `json:"popularity"`
	Views      int       `json:"views"`
	ImageURL   string    `json:"image_url"`
	ThumbURL   string    `json:"thumb_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// queryStateResponse は現在のクエリ状態のレスポンス。
type queryStateResponse struct {
	Search   string `json:"search"`
	Category string `json:"category"`
	Sort     string `json:"sort"`
	Page     int    `json:"page"`
}

// galleryPageResponse はギャラリー1ページ分のレスポンス。
type galleryPageResponse struct {
	Items      []artworkSummaryResponse `json:"items"`
	TotalPages int                      `json:"total_pages"`
	TotalCount int                      `json:"total_count"`
	State      queryStateResponse       `json:"state"`
}

// ListGallery は公開ギャラリーの1ページ分を返す。
// GET /api/artworks?q=xxx&category=xxx&sort=recent|price-asc|price-desc|popularity&page=N&nav=xxx
//
// クエリパラメータは指定されたものだけが状態の変更として適用され、
// 未指定のフィールドは閲覧者の保存済み状態から復元される。
// navは作品詳細などからの遷移時に一度だけ適用するカテゴリ指定で、保存後は消費される。
func (h *GalleryHandler) ListGallery(w http.ResponseWriter, r *http.Request) {
	visitorID := middleware.VisitorIDFromContext(r.Context())
	store := NewVisitorStateStore(r.Context(), visitorID, h.viewStateRepo)

	var nav *catalog.NavigationSignal
	if navCategory := r.URL.Query().Get("nav"); navCategory != "" {
		nav = &catalog.NavigationSignal{CategoryFilter: navCategory}
	}

	vm := catalog.NewViewModel(store, nav)

	query := r.URL.Query()
	if query.Has("q") {
		vm.SetSearchText(query.Get("q"))
	}
	if query.Has("category") {
		vm.SetCategory(query.Get("category"))
	}
	if query.Has("sort") {
		if err := vm.SetSortKey(catalog.SortKey(query.Get("sort"))); err != nil {
			handleServiceError(w, err)
			return
		}
	}
	if query.Has("page") {
		page, err := strconv.Atoi(query.Get("page"))
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
				Code:     "INVALID_REQUEST",
				Message:  fmt.Sprintf("ページ番号が不正です: %s", query.Get("page")),
				Category: "validation",
				Action:   "ページ番号には1以上の整数を指定してください。",
			})
			return
		}
		vm.SetPage(page)
	}

	artworks, err := h.service.ListArtworks(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	start := time.Now()
	page := vm.Derive(artworks)
	if h.collector != nil {
		h.collector.RecordCatalogDeriveLatency(time.Since(start))
	}

	writeJSON(w, http.StatusOK, toGalleryPageResponse(page))
}

// --- ヘルパー関数 ---

// toArtworkSummaryResponse はmodel.ArtworkからサマリーAPIレスポンスに変換する。
func toArtworkSummaryResponse(a model.Artwork) artworkSummaryResponse {
	return artworkSummaryResponse{
		ID:         a.ID,
		Title:      a.Title,
		Category:   a.Category,
		Price:      a.Price,
		Dimensions: a.Dimensions,
		Status:     string(a.Status),
		Popularity: a.Popularity,
		Views:      a.Views,
		ImageURL:   fmt.Sprintf("/api/artworks/%s/image?size=full", a.ID),
		ThumbURL:   fmt.Sprintf("/api/artworks/%s/image?size=thumb", a.ID),
		CreatedAt:  a.CreatedAt,
	}
}

// toGalleryPageResponse はcatalog.PageからAPIレスポンスに変換する。
func toGalleryPageResponse(page catalog.Page) galleryPageResponse {
	items := make([]artworkSummaryResponse, len(page.Items))
	for i, a := range page.Items {
		items[i] = toArtworkSummaryResponse(a)
	}
	return galleryPageResponse{
		Items:      items,
		TotalPages: page.TotalPages,
		TotalCount: page.TotalCount,
		State: queryStateResponse{
			Search:   page.State.Search,
			Category: page.State.Category,
			Sort:     string(page.State.Sort),
			Page:     page.State.Page,
		},
	}
}
