package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gabiiasi/galeria/internal/model"
)

// --- モック定義 ---

type mockCategoryService struct {
	listCategoriesFn func(ctx context.Context) ([]model.Category, error)
	createCategoryFn func(ctx context.Context, name string) (*model.Category, error)
	renameCategoryFn func(ctx context.Context, id, newName string) (*model.Category, error)
	deleteCategoryFn func(ctx context.Context, id string) error
}

func (m *mockCategoryService) ListCategories(ctx context.Context) ([]model.Category, error) {
	if m.listCategoriesFn != nil {
		return m.listCategoriesFn(ctx)
	}
	return nil, nil
}

func (m *mockCategoryService) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(ctx, name)
	}
	return nil, nil
}

func (m *mockCategoryService) RenameCategory(ctx context.Context, id, newName string) (*model.Category, error) {
	if m.renameCategoryFn != nil {
		return m.renameCategoryFn(ctx, id, newName)
	}
	return nil, nil
}

func (m *mockCategoryService) DeleteCategory(ctx context.Context, id string) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(ctx, id)
	}
	return nil
}

// --- テスト ---

func TestListCategories_ReturnsAll(t *testing.T) {
	svc := &mockCategoryService{
		listCategoriesFn: func(ctx context.Context) ([]model.Category, error) {
			return []model.Category{
				{ID: "cat-1", Name: "水彩", CreatedAt: time.Now()},
				{ID: "cat-2", Name: "油彩", CreatedAt: time.Now()},
			}, nil
		},
	}
	h := NewCategoryHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	w := httptest.NewRecorder()

	h.ListCategories(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body []categoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body) != 2 {
		t.Fatalf("categories = %d, want 2", len(body))
	}
	if body[0].Name != "水彩" {
		t.Errorf("first category = %q, want %q", body[0].Name, "水彩")
	}
}

func TestListCategories_Empty_ReturnsEmptyArray(t *testing.T) {
	h := NewCategoryHandler(&mockCategoryService{})

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	w := httptest.NewRecorder()

	h.ListCategories(w, req)

	// nilではなく空配列としてシリアライズされること
	if got := w.Body.String(); got != "[]\n" {
		t.Errorf("body = %q, want %q", got, "[]\n")
	}
}

func TestCreateCategory_Success_Returns201(t *testing.T) {
	svc := &mockCategoryService{
		createCategoryFn: func(ctx context.Context, name string) (*model.Category, error) {
			return &model.Category{ID: "cat-new", Name: name}, nil
		},
	}
	h := NewCategoryHandler(svc)

	body, _ := json.Marshal(categoryRequest{Name: "版画"})
	req := httptest.NewRequest(http.MethodPost, "/admin/api/categories", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.CreateCategory(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var created categoryResponse
	json.NewDecoder(resp.Body).Decode(&created)
	if created.Name != "版画" {
		t.Errorf("name = %q, want %q", created.Name, "版画")
	}
}

func TestCreateCategory_Duplicate_Returns409(t *testing.T) {
	svc := &mockCategoryService{
		createCategoryFn: func(ctx context.Context, name string) (*model.Category, error) {
			return nil, model.NewDuplicateCategoryError(name)
		},
	}
	h := NewCategoryHandler(svc)

	body, _ := json.Marshal(categoryRequest{Name: "油彩"})
	req := httptest.NewRequest(http.MethodPost, "/admin/api/categories", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.CreateCategory(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusConflict)
	}

	var errBody apiErrorResponse
	json.NewDecoder(resp.Body).Decode(&errBody)
	if errBody.Code != model.ErrCodeDuplicateCategory {
		t.Errorf("code = %q, want %q", errBody.Code, model.ErrCodeDuplicateCategory)
	}
}

func TestCreateCategory_InvalidJSON_Returns400(t *testing.T) {
	h := NewCategoryHandler(&mockCategoryService{})

	req := httptest.NewRequest(http.MethodPost, "/admin/api/categories", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()

	h.CreateCategory(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

func TestRenameCategory_Success_Returns200(t *testing.T) {
	svc := &mockCategoryService{
		renameCategoryFn: func(ctx context.Context, id, newName string) (*model.Category, error) {
			if id != "cat-1" {
				t.Errorf("id = %q, want %q", id, "cat-1")
			}
			return &model.Category{ID: id, Name: newName}, nil
		},
	}
	h := NewCategoryHandler(svc)

	body, _ := json.Marshal(categoryRequest{Name: "パステル"})
	req := chiRequest(http.MethodPatch, "/admin/api/categories/cat-1", "id", "cat-1", body)
	w := httptest.NewRecorder()

	h.RenameCategory(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var renamed categoryResponse
	json.NewDecoder(resp.Body).Decode(&renamed)
	if renamed.Name != "パステル" {
		t.Errorf("name = %q, want %q", renamed.Name, "パステル")
	}
}

func TestRenameCategory_NotFound_Returns404(t *testing.T) {
	svc := &mockCategoryService{
		renameCategoryFn: func(ctx context.Context, id, newName string) (*model.Category, error) {
			return nil, model.NewCategoryNotFoundError(id)
		},
	}
	h := NewCategoryHandler(svc)

	body, _ := json.Marshal(categoryRequest{Name: "パステル"})
	req := chiRequest(http.MethodPatch, "/admin/api/categories/missing", "id", "missing", body)
	w := httptest.NewRecorder()

	h.RenameCategory(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNotFound)
	}
}

func TestDeleteCategory_Success_Returns204(t *testing.T) {
	svc := &mockCategoryService{
		deleteCategoryFn: func(ctx context.Context, id string) error {
			return nil
		},
	}
	h := NewCategoryHandler(svc)

	req := chiRequest(http.MethodDelete, "/admin/api/categories/cat-1", "id", "cat-1", nil)
	w := httptest.NewRecorder()

	h.DeleteCategory(w, req)

	if w.Result().StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNoContent)
	}
}

func TestDeleteCategory_InUse_Returns409(t *testing.T) {
	svc := &mockCategoryService{
		deleteCategoryFn: func(ctx context.Context, id string) error {
			return model.NewCategoryInUseError("油彩", 5)
		},
	}
	h := NewCategoryHandler(svc)

	req := chiRequest(http.MethodDelete, "/admin/api/categories/cat-2", "id", "cat-2", nil)
	w := httptest.NewRecorder()

	h.DeleteCategory(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusConflict)
	}

	var errBody apiErrorResponse
	json.NewDecoder(resp.Body).Decode(&errBody)
	if errBody.Code != model.ErrCodeCategoryInUse {
		t.Errorf("code = %q, want %q", errBody.Code, model.ErrCodeCategoryInUse)
	}
}
