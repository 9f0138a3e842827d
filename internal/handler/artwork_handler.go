package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gabiiasi/galeria/internal/artwork"
	"github.com/gabiiasi/galeria/internal/metrics"
	"github.com/gabiiasi/galeria/internal/model"
)

// ArtworkServiceInterface は作品ハンドラーが必要とするサービスインターフェース。
type ArtworkServiceInterface interface {
	// GetArtwork は作品詳細を返す。存在しない場合はnilを返す。
	GetArtwork(ctx context.Context, id string) (*model.Artwork, error)
	// RecordView は作品の閲覧を記録する。
	RecordView(ctx context.Context, artworkID string) error
	// CreateArtwork は作品を新規作成する。
	CreateArtwork(ctx context.Context, input artwork.Input) (*model.Artwork, error)
	// UpdateArtwork は作品を更新する。画像未指定時は既存画像を維持する。
	UpdateArtwork(ctx context.Context, id string, input artwork.Input) (*model.Artwork, error)
	// UpdateStatus は作品の販売状態のみを更新する。
	UpdateStatus(ctx context.Context, id string, status model.ArtworkStatus) error
	// DeleteArtwork は作品を削除する。
	DeleteArtwork(ctx context.Context, id string) error
	// GetImage は作品画像のバイト列とMIMEタイプを返す。
	GetImage(ctx context.Context, id, size string) ([]byte, string, error)
	// GetStats は管理画面向けの作品統計を返す。
	GetStats(ctx context.Context) (*artwork.Stats, error)
}

// ArtworkHandler は作品管理のHTTPハンドラー。
// 公開側の作品詳細・画像配信と、管理側のCRUD・統計を提供する。
type ArtworkHandler struct {
	service   ArtworkServiceInterface
	collector metrics.MetricsCollector
}

// NewArtworkHandler はArtworkHandlerを生成する。collectorはnilを許容する。
func NewArtworkHandler(service ArtworkServiceInterface, collector metrics.MetricsCollector) *ArtworkHandler {
	return &ArtworkHandler{
		service:   service,
		collector: collector,
	}
}

// --- リクエスト・レスポンス型 ---

// artworkRequest は作品の作成・更新リクエストのボディ。
// image_dataはbase64エンコードされた画像バイト列。image_urlとはどちらか一方を指定する。
type artworkRequest struct {
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Price       *float64 `json:"price,omitempty"`
	Dimensions  string   `json:"dimensions"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	ImageData   []byte   `json:"image_data,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
}

// artworkStatusRequest は販売状態更新リクエストのボディ。
type artworkStatusRequest struct {
	Status string `json:"status"`
}

// artworkDetailResponse は作品詳細のレスポンス。
type artworkDetailResponse struct {
	artworkSummaryResponse
	Description string    `json:"description"` // サニタイズ済みHTML
	UpdatedAt   time.Time `json:"updated_at"`
}

// statsResponse は管理画面向けの作品統計レスポンス。
type statsResponse struct {
	TotalCount   int                      `json:"total_count"`
	StatusCounts map[string]int           `json:"status_counts"`
	TotalViews   int                      `json:"total_views"`
	TopByViews   []artworkSummaryResponse `json:"top_by_views"`
}

// GetArtwork は作品詳細を取得し、閲覧を記録する。
// GET /api/artworks/:id
func (h *ArtworkHandler) GetArtwork(w http.ResponseWriter, r *http.Request) {
	artworkID := chi.URLParam(r, "id")

	detail, err := h.service.GetArtwork(r.Context(), artworkID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if detail == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewArtworkNotFoundError(artworkID))
		return
	}

	// 閲覧記録の失敗は表示に影響しないためログのみ残す
	if err := h.service.RecordView(r.Context(), artworkID); err != nil {
		slog.Error("failed to record artwork view",
			slog.String("artwork_id", artworkID),
			slog.String("error", err.Error()),
		)
	} else if h.collector != nil {
		h.collector.RecordArtworkView(artworkID)
	}

	writeJSON(w, http.StatusOK, toArtworkDetailResponse(detail))
}

// GetImage は作品画像を配信する。
// GET /api/artworks/:id/image?size=full|thumb
func (h *ArtworkHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	artworkID := chi.URLParam(r, "id")

	size := r.URL.Query().Get("size")
	if size == "" {
		size = "full"
	}

	data, mime, err := h.service.GetImage(r.Context(), artworkID, size)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(data)
}

// CreateArtwork は作品を新規作成する。
// POST /admin/api/artworks
func (h *ArtworkHandler) CreateArtwork(w http.ResponseWriter, r *http.Request) {
	var req artworkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	created, err := h.service.CreateArtwork(r.Context(), toArtworkInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toArtworkDetailResponse(created))
}

// UpdateArtwork は作品を更新する。
// PUT /admin/api/artworks/:id
func (h *ArtworkHandler) UpdateArtwork(w http.ResponseWriter, r *http.Request) {
	artworkID := chi.URLParam(r, "id")

	var req artworkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	updated, err := h.service.UpdateArtwork(r.Context(), artworkID, toArtworkInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toArtworkDetailResponse(updated))
}

// UpdateStatus は作品の販売状態のみを更新する。
// PATCH /admin/api/artworks/:id/status
func (h *ArtworkHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	artworkID := chi.URLParam(r, "id")

	var req artworkStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if err := h.service.UpdateStatus(r.Context(), artworkID, model.ArtworkStatus(req.Status)); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteArtwork は作品を削除する。
// DELETE /admin/api/artworks/:id
func (h *ArtworkHandler) DeleteArtwork(w http.ResponseWriter, r *http.Request) {
	artworkID := chi.URLParam(r, "id")

	if err := h.service.DeleteArtwork(r.Context(), artworkID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetStats は管理画面向けの作品統計を返す。
// GET /admin/api/stats
func (h *ArtworkHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	statusCounts := make(map[string]int, len(stats.StatusCounts))
	for status, count := range stats.StatusCounts {
		statusCounts[string(status)] = count
	}

	top := make([]artworkSummaryResponse, len(stats.TopByViews))
	for i, a := range stats.TopByViews {
		top[i] = toArtworkSummaryResponse(a)
	}

	writeJSON(w, http.StatusOK, statsResponse{
		TotalCount:   stats.TotalCount,
		StatusCounts: statusCounts,
		TotalViews:   stats.TotalViews,
		TopByViews:   top,
	})
}

// --- ヘルパー関数 ---

// toArtworkInput はリクエストボディからサービス層の入力に変換する。
func toArtworkInput(req artworkRequest) artwork.Input {
	return artwork.Input{
		Title:       req.Title,
		Category:    req.Category,
		Price:       req.Price,
		Dimensions:  req.Dimensions,
		Description: req.Description,
		Status:      model.ArtworkStatus(req.Status),
		ImageData:   req.ImageData,
		ImageURL:    req.ImageURL,
	}
}

// toArtworkDetailResponse はmodel.Artworkから詳細APIレスポンスに変換する。
func toArtworkDetailResponse(a *model.Artwork) artworkDetailResponse {
	return artworkDetailResponse{
		artworkSummaryResponse: toArtworkSummaryResponse(*a),
		Description:            a.Description,
		UpdatedAt:              a.UpdatedAt,
	}
}
