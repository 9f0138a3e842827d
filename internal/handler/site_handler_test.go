package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gabiiasi/galeria/internal/carousel"
	"github.com/gabiiasi/galeria/internal/model"
	"github.com/gabiiasi/galeria/internal/site"
)

// --- モック定義 ---

type mockSiteService struct {
	getProfileFn         func(ctx context.Context) (*model.Profile, error)
	updateProfileFn      func(ctx context.Context, input site.ProfileInput) (*model.Profile, error)
	getHomeSettingsFn    func(ctx context.Context) (*model.HomeSettings, error)
	updateHomeSettingsFn func(ctx context.Context, input site.HomeInput) (*model.HomeSettings, error)
}

func (m *mockSiteService) GetProfile(ctx context.Context) (*model.Profile, error) {
	if m.getProfileFn != nil {
		return m.getProfileFn(ctx)
	}
	return &model.Profile{}, nil
}

func (m *mockSiteService) UpdateProfile(ctx context.Context, input site.ProfileInput) (*model.Profile, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, input)
	}
	return &model.Profile{}, nil
}

func (m *mockSiteService) GetHomeSettings(ctx context.Context) (*model.HomeSettings, error) {
	if m.getHomeSettingsFn != nil {
		return m.getHomeSettingsFn(ctx)
	}
	return &model.HomeSettings{CarouselImages: []string{}}, nil
}

func (m *mockSiteService) UpdateHomeSettings(ctx context.Context, input site.HomeInput) (*model.HomeSettings, error) {
	if m.updateHomeSettingsFn != nil {
		return m.updateHomeSettingsFn(ctx, input)
	}
	return &model.HomeSettings{CarouselImages: []string{}}, nil
}

// mockCarousel はCarouselInterfaceの関数フィールド式モック。
type mockCarousel struct {
	frame     carousel.Frame
	nextCalls int
	prevCalls int
}

func (m *mockCarousel) Frame() carousel.Frame { return m.frame }
func (m *mockCarousel) Next()                 { m.nextCalls++ }
func (m *mockCarousel) Prev()                 { m.prevCalls++ }

// --- プロフィールのテスト ---

func TestGetProfile_ReturnsProfileJSON(t *testing.T) {
	svc := &mockSiteService{
		getProfileFn: func(ctx context.Context) (*model.Profile, error) {
			return &model.Profile{
				ID:        "profile",
				Name:      "山田 彩",
				Headline:  "油彩と水彩の風景画家",
				Bio:       "<p>自然の光を描いています。</p>",
				Quote:     "描くことは呼吸すること",
				PhotoMime: "image/jpeg",
				PhotoData: []byte{0xFF, 0xD8},
				UpdatedAt: time.Now(),
			}, nil
		},
	}
	h := NewSiteHandler(svc, &mockCarousel{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	w := httptest.NewRecorder()

	h.GetProfile(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Name != "山田 彩" {
		t.Errorf("name = %q, want %q", body.Name, "山田 彩")
	}
	if body.PhotoURL != "/api/profile/photo" {
		t.Errorf("photo_url = %q, want %q", body.PhotoURL, "/api/profile/photo")
	}
}

func TestGetProfile_NoPhoto_OmitsPhotoURL(t *testing.T) {
	svc := &mockSiteService{
		getProfileFn: func(ctx context.Context) (*model.Profile, error) {
			return &model.Profile{Name: "山田 彩"}, nil
		},
	}
	h := NewSiteHandler(svc, &mockCarousel{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	w := httptest.NewRecorder()

	h.GetProfile(w, req)

	var body profileResponse
	json.NewDecoder(w.Result().Body).Decode(&body)
	if body.PhotoURL != "" {
		t.Errorf("photo_url = %q, want empty", body.PhotoURL)
	}
}

func TestGetProfilePhoto_ServesBytes(t *testing.T) {
	svc := &mockSiteService{
		getProfileFn: func(ctx context.Context) (*model.Profile, error) {
			return &model.Profile{PhotoMime: "image/jpeg", PhotoData: []byte{0xFF, 0xD8, 0xFF}}, nil
		},
	}
	h := NewSiteHandler(svc, &mockCarousel{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/profile/photo", nil)
	w := httptest.NewRecorder()

	h.GetProfilePhoto(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Content-Type = %q, want %q", ct, "image/jpeg")
	}
}

func TestGetProfilePhoto_NoPhoto_Returns404(t *testing.T) {
	h := NewSiteHandler(&mockSiteService{
		getProfileFn: func(ctx context.Context) (*model.Profile, error) {
			return &model.Profile{}, nil
		},
	}, &mockCarousel{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/profile/photo", nil)
	w := httptest.NewRecorder()

	h.GetProfilePhoto(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNotFound)
	}
}

func TestUpdateProfile_PassesInputToService(t *testing.T) {
	var captured site.ProfileInput
	svc := &mockSiteService{
		updateProfileFn: func(ctx context.Context, input site.ProfileInput) (*model.Profile, error) {
			captured = input
			return &model.Profile{Name: input.Name}, nil
		},
	}
	h := NewSiteHandler(svc, &mockCarousel{}, nil)

	body, _ := json.Marshal(profileRequest{
		Name:     "山田 彩",
		Headline: "風景画家",
		Bio:      "<p>紹介文</p>",
	})
	req := httptest.NewRequest(http.MethodPut, "/admin/api/profile", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.UpdateProfile(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if captured.Name != "山田 彩" {
		t.Errorf("input name = %q, want %q", captured.Name, "山田 彩")
	}
	if captured.PhotoData != nil {
		t.Error("photo data should be nil when not provided")
	}
}

// --- ホームページ・カルーセルのテスト ---

func TestGetHome_IncludesCarouselFrame(t *testing.T) {
	svc := &mockSiteService{
		getHomeSettingsFn: func(ctx context.Context) (*model.HomeSettings, error) {
			return &model.HomeSettings{
				HeroTitle:      "光を描く",
				HeroSubtitle:   "山田彩 作品ギャラリー",
				CarouselImages: []string{"/api/artworks/a/image", "/api/artworks/b/image"},
			}, nil
		},
	}
	cr := &mockCarousel{
		frame: carousel.Frame{
			Slides:  []string{"/api/artworks/a/image", "/api/artworks/b/image", "/api/artworks/a/image"},
			Index:   1,
			Animate: true,
		},
	}
	h := NewSiteHandler(svc, cr, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/home", nil)
	w := httptest.NewRecorder()

	h.GetHome(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body homeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.HeroTitle != "光を描く" {
		t.Errorf("hero_title = %q, want %q", body.HeroTitle, "光を描く")
	}
	if body.Carousel == nil {
		t.Fatal("expected carousel frame in response")
	}
	// 描画用リストは末尾に先頭の複製を含む
	if len(body.Carousel.Slides) != 3 {
		t.Errorf("carousel slides = %d, want 3", len(body.Carousel.Slides))
	}
	if body.Carousel.Index != 1 {
		t.Errorf("carousel index = %d, want 1", body.Carousel.Index)
	}
}

func TestCarouselNext_AdvancesAndReturnsFrame(t *testing.T) {
	cr := &mockCarousel{frame: carousel.Frame{Index: 2, Animate: true}}
	h := NewSiteHandler(&mockSiteService{}, cr, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/home/carousel/next", nil)
	w := httptest.NewRecorder()

	h.CarouselNext(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if cr.nextCalls != 1 {
		t.Errorf("next calls = %d, want 1", cr.nextCalls)
	}
}

func TestCarouselPrev_RewindsAndReturnsFrame(t *testing.T) {
	cr := &mockCarousel{}
	h := NewSiteHandler(&mockSiteService{}, cr, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/home/carousel/prev", nil)
	w := httptest.NewRecorder()

	h.CarouselPrev(w, req)

	if cr.prevCalls != 1 {
		t.Errorf("prev calls = %d, want 1", cr.prevCalls)
	}
}

func TestUpdateHome_PassesInputToService(t *testing.T) {
	var captured site.HomeInput
	svc := &mockSiteService{
		updateHomeSettingsFn: func(ctx context.Context, input site.HomeInput) (*model.HomeSettings, error) {
			captured = input
			return &model.HomeSettings{
				HeroTitle:      input.HeroTitle,
				CarouselImages: input.CarouselImages,
			}, nil
		},
	}
	h := NewSiteHandler(svc, &mockCarousel{}, nil)

	body, _ := json.Marshal(homeRequest{
		HeroTitle:      "新しいタイトル",
		CarouselImages: []string{"/api/artworks/x/image"},
	})
	req := httptest.NewRequest(http.MethodPut, "/admin/api/home", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.UpdateHome(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if captured.HeroTitle != "新しいタイトル" {
		t.Errorf("hero title = %q, want %q", captured.HeroTitle, "新しいタイトル")
	}
	if len(captured.CarouselImages) != 1 {
		t.Errorf("carousel images = %d, want 1", len(captured.CarouselImages))
	}
}

// --- 連絡先のテスト ---

func TestGetContacts_ReturnsSocialLinks(t *testing.T) {
	links := []model.SocialLink{
		{Label: "Instagram", URL: "https://instagram.com/ayayamada.art"},
		{Label: "Email", URL: "mailto:ayayamada.art@example.com"},
	}
	h := NewSiteHandler(&mockSiteService{}, &mockCarousel{}, links)

	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	w := httptest.NewRecorder()

	h.GetContacts(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body []model.SocialLink
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body) != 2 {
		t.Fatalf("links = %d, want 2", len(body))
	}
	if body[0].Label != "Instagram" {
		t.Errorf("first label = %q, want %q", body[0].Label, "Instagram")
	}
}

func TestGetContacts_NoLinks_ReturnsEmptyArray(t *testing.T) {
	h := NewSiteHandler(&mockSiteService{}, &mockCarousel{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	w := httptest.NewRecorder()

	h.GetContacts(w, req)

	if got := w.Body.String(); got != "[]\n" {
		t.Errorf("body = %q, want %q", got, "[]\n")
	}
}
