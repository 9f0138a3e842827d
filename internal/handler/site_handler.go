package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gabiiasi/galeria/internal/carousel"
	"github.com/gabiiasi/galeria/internal/model"
	"github.com/gabiiasi/galeria/internal/site"
)

// SiteServiceInterface はサイト設定ハンドラーが必要とするサービスインターフェース。
type SiteServiceInterface interface {
	// GetProfile はアーティストのプロフィールを返す。未設定の場合は空のプロフィールを返す。
	GetProfile(ctx context.Context) (*model.Profile, error)
	// UpdateProfile はプロフィールを更新する。
	UpdateProfile(ctx context.Context, input site.ProfileInput) (*model.Profile, error)
	// GetHomeSettings はホームページ設定を返す。未設定の場合は空の設定を返す。
	GetHomeSettings(ctx context.Context) (*model.HomeSettings, error)
	// UpdateHomeSettings はホームページ設定を更新し、カルーセルへ反映する。
	UpdateHomeSettings(ctx context.Context, input site.HomeInput) (*model.HomeSettings, error)
}

// CarouselInterface はヒーローカルーセルの現在フレームと手動操作のインターフェース。
// carousel.Controllerが実装する。
type CarouselInterface interface {
	Frame() carousel.Frame
	Next()
	Prev()
}

// SiteHandler はプロフィール・ホームページ設定・連絡先のHTTPハンドラー。
type SiteHandler struct {
	service     SiteServiceInterface
	carousel    CarouselInterface
	socialLinks []model.SocialLink
}

// NewSiteHandler はSiteHandlerを生成する。
func NewSiteHandler(service SiteServiceInterface, carousel CarouselInterface, socialLinks []model.SocialLink) *SiteHandler {
	return &SiteHandler{
		service:     service,
		carousel:    carousel,
		socialLinks: socialLinks,
	}
}

// --- リクエスト・レスポンス型 ---

// profileRequest はプロフィール更新リクエストのボディ。
// photo_dataはbase64エンコードされた画像バイト列。未指定時は既存の写真を維持する。
type profileRequest struct {
	Name      string `json:"name"`
	Headline  string `json:"headline"`
	Bio       string `json:"bio"`
	Quote     string `json:"quote"`
	PhotoData []byte `json:"photo_data,omitempty"`
}

// profileResponse はプロフィールのAPIレスポンス。
type profileResponse struct {
	Name      string    `json:"name"`
	Headline  string    `json:"headline"`
	Bio       string    `json:"bio"`
	Quote     string    `json:"quote"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// homeRequest はホームページ設定更新リクエストのボディ。
type homeRequest struct {
	HeroTitle      string   `json:"hero_title"`
	HeroSubtitle   string   `json:"hero_subtitle"`
	CarouselImages []string `json:"carousel_images"`
}

// homeResponse はホームページのレスポンス。カルーセルの現在フレームを含む。
type homeResponse struct {
	HeroTitle      string          `json:"hero_title"`
	HeroSubtitle   string          `json:"hero_subtitle"`
	CarouselImages []string        `json:"carousel_images"`
	Carousel       *carousel.Frame `json:"carousel,omitempty"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// GetProfile はアーティストのプロフィールを取得する。
// GET /api/profile
func (h *SiteHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetProfile(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

// GetProfilePhoto はプロフィール写真を配信する。
// GET /api/profile/photo
func (h *SiteHandler) GetProfilePhoto(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetProfile(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if len(profile.PhotoData) == 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", profile.PhotoMime)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(profile.PhotoData)
}

// UpdateProfile はプロフィールを更新する。
// PUT /admin/api/profile
func (h *SiteHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), site.ProfileInput{
		Name:      req.Name,
		Headline:  req.Headline,
		Bio:       req.Bio,
		Quote:     req.Quote,
		PhotoData: req.PhotoData,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(updated))
}

// GetHome はホームページ設定とカルーセルの現在フレームを取得する。
// GET /api/home
func (h *SiteHandler) GetHome(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.GetHomeSettings(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.toHomeResponse(settings))
}

// CarouselFrame はカルーセルの現在フレームのみを返す。表示側のポーリング用。
// GET /api/home/carousel
func (h *SiteHandler) CarouselFrame(w http.ResponseWriter, r *http.Request) {
	frame := h.carousel.Frame()
	writeJSON(w, http.StatusOK, frame)
}

// CarouselNext はカルーセルを1枚先に進める。手動操作用。
// POST /api/home/carousel/next
func (h *SiteHandler) CarouselNext(w http.ResponseWriter, r *http.Request) {
	h.carousel.Next()
	writeJSON(w, http.StatusOK, h.carousel.Frame())
}

// CarouselPrev はカルーセルを1枚前に戻す。手動操作用。
// POST /api/home/carousel/prev
func (h *SiteHandler) CarouselPrev(w http.ResponseWriter, r *http.Request) {
	h.carousel.Prev()
	writeJSON(w, http.StatusOK, h.carousel.Frame())
}

// UpdateHome はホームページ設定を更新する。
// カルーセル画像の変更は稼働中のコントローラへ即時反映される。
// PUT /admin/api/home
func (h *SiteHandler) UpdateHome(w http.ResponseWriter, r *http.Request) {
	var req homeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	updated, err := h.service.UpdateHomeSettings(r.Context(), site.HomeInput{
		HeroTitle:      req.HeroTitle,
		HeroSubtitle:   req.HeroSubtitle,
		CarouselImages: req.CarouselImages,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.toHomeResponse(updated))
}

// GetContacts は連絡先ページに表示する外部リンク一覧を返す。
// GET /api/contacts
func (h *SiteHandler) GetContacts(w http.ResponseWriter, r *http.Request) {
	links := h.socialLinks
	if links == nil {
		links = []model.SocialLink{}
	}
	writeJSON(w, http.StatusOK, links)
}

// --- ヘルパー関数 ---

// toProfileResponse はmodel.ProfileからAPIレスポンスに変換する。
func toProfileResponse(p *model.Profile) profileResponse {
	resp := profileResponse{
		Name:      p.Name,
		Headline:  p.Headline,
		Bio:       p.Bio,
		Quote:     p.Quote,
		UpdatedAt: p.UpdatedAt,
	}
	if len(p.PhotoData) > 0 {
		resp.PhotoURL = "/api/profile/photo"
	}
	return resp
}

// toHomeResponse はmodel.HomeSettingsからAPIレスポンスに変換する。
// カルーセルコントローラが設定されている場合は現在フレームを含める。
func (h *SiteHandler) toHomeResponse(s *model.HomeSettings) homeResponse {
	resp := homeResponse{
		HeroTitle:      s.HeroTitle,
		HeroSubtitle:   s.HeroSubtitle,
		CarouselImages: s.CarouselImages,
		UpdatedAt:      s.UpdatedAt,
	}
	if h.carousel != nil {
		frame := h.carousel.Frame()
		resp.Carousel = &frame
	}
	return resp
}
