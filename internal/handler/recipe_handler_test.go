package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/recipeman/internal/model"
	"github.com/hitoshi/recipeman/internal/recipe"
)

const testRecipeID = "5f1c4a8e-9b2d-4c3e-8f7a-1b2c3d4e5f60"

// --- モック定義 ---

// mockRecipeService はRecipeServiceInterfaceのモック実装。
type mockRecipeService struct {
	createFn func(ctx context.Context, ownerID string, in recipe.Input) (*model.Recipe, error)
	updateFn func(ctx context.Context, ownerID, recipeID string, in recipe.Input) (*model.Recipe, error)
	getFn    func(ctx context.Context, ownerID, recipeID string) (*model.RecipeWithOwner, error)
	listFn   func(ctx context.Context, ownerID string) ([]*model.RecipeWithOwner, error)
	deleteFn func(ctx context.Context, ownerID, recipeID string) error
}

func (m *mockRecipeService) Create(ctx context.Context, ownerID string, in recipe.Input) (*model.Recipe, error) {
	if m.createFn != nil {
		return m.createFn(ctx, ownerID, in)
	}
	return &model.Recipe{ID: testRecipeID, UserID: ownerID, Name: in.Name}, nil
}

func (m *mockRecipeService) Update(ctx context.Context, ownerID, recipeID string, in recipe.Input) (*model.Recipe, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, ownerID, recipeID, in)
	}
	return &model.Recipe{ID: recipeID, UserID: ownerID, Name: in.Name}, nil
}

func (m *mockRecipeService) Get(ctx context.Context, ownerID, recipeID string) (*model.RecipeWithOwner, error) {
	if m.getFn != nil {
		return m.getFn(ctx, ownerID, recipeID)
	}
	return nil, model.NewNotRecipeOwnerError()
}

func (m *mockRecipeService) List(ctx context.Context, ownerID string) ([]*model.RecipeWithOwner, error) {
	if m.listFn != nil {
		return m.listFn(ctx, ownerID)
	}
	return nil, model.NewRecipesNotFoundError()
}

func (m *mockRecipeService) Delete(ctx context.Context, ownerID, recipeID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, ownerID, recipeID)
	}
	return nil
}

const soupBody = `{"name":"Soup","description":"Hot soup","preparationTime":20}`

// --- POST /recipes テスト ---

func TestRecipeHandler_Create_Success(t *testing.T) {
	var gotOwner string
	var gotInput recipe.Input
	svc := &mockRecipeService{
		createFn: func(_ context.Context, ownerID string, in recipe.Input) (*model.Recipe, error) {
			gotOwner = ownerID
			gotInput = in
			return &model.Recipe{ID: testRecipeID, UserID: ownerID, Name: in.Name, Description: in.Description, PreparationTime: in.PreparationTime}, nil
		},
	}
	h := NewRecipeHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/recipes", strings.NewReader(soupBody))
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body=%s)", w.Code, http.StatusCreated, w.Body.String())
	}
	if gotOwner != "user-123" {
		t.Errorf("ownerID = %q, want %q", gotOwner, "user-123")
	}
	if gotInput != (recipe.Input{Name: "Soup", Description: "Hot soup", PreparationTime: 20}) {
		t.Errorf("unexpected input: %+v", gotInput)
	}

	var body model.Recipe
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if body.ID != testRecipeID {
		t.Errorf("id = %q, want %q", body.ID, testRecipeID)
	}
	if body.UserID != "user-123" {
		t.Errorf("userId = %q, want %q", body.UserID, "user-123")
	}
}

func TestRecipeHandler_Create_ValidationFailed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"名前が短い", `{"name":"So","description":"Hot soup","preparationTime":20}`},
		{"説明が欠落", `{"name":"Soup","preparationTime":20}`},
		{"準備時間が文字列", `{"name":"Soup","description":"Hot soup","preparationTime":"20"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockRecipeService{
				createFn: func(context.Context, string, recipe.Input) (*model.Recipe, error) {
					t.Fatal("service should not be called on invalid input")
					return nil, nil
				},
			}
			h := NewRecipeHandler(svc)

			req := httptest.NewRequest(http.MethodPost, "/recipes", strings.NewReader(tt.body))
			req = withUserID(req, "user-123")
			w := httptest.NewRecorder()

			h.Create(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
			body := decodeErrorBody(t, w)
			if body.Code != model.ErrCodeValidationFailed {
				t.Errorf("code = %q, want %q", body.Code, model.ErrCodeValidationFailed)
			}
			if len(body.Fields) == 0 {
				t.Error("validation detail should be echoed to the client")
			}
		})
	}
}

func TestRecipeHandler_Create_NoUserID_ReturnsUnauthorized(t *testing.T) {
	h := NewRecipeHandler(&mockRecipeService{})

	req := httptest.NewRequest(http.MethodPost, "/recipes", strings.NewReader(soupBody))
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

// --- PUT /recipes/{id} テスト ---

func TestRecipeHandler_Update_Success(t *testing.T) {
	var gotID string
	svc := &mockRecipeService{
		updateFn: func(_ context.Context, ownerID, recipeID string, in recipe.Input) (*model.Recipe, error) {
			gotID = recipeID
			return &model.Recipe{ID: recipeID, UserID: ownerID, Name: in.Name}, nil
		},
	}
	h := NewRecipeHandler(svc)

	req := httptest.NewRequest(http.MethodPut, "/recipes/"+testRecipeID,
		strings.NewReader(`{"name":"Stew","description":"Thick stew","preparationTime":45}`))
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "id", testRecipeID)
	w := httptest.NewRecorder()

	h.Update(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotID != testRecipeID {
		t.Errorf("recipeID = %q, want %q", gotID, testRecipeID)
	}
}

func TestRecipeHandler_Update_NotOwner_ReturnsUnauthorized(t *testing.T) {
	svc := &mockRecipeService{
		updateFn: func(context.Context, string, string, recipe.Input) (*model.Recipe, error) {
			return nil, model.NewNotRecipeOwnerError()
		},
	}
	h := NewRecipeHandler(svc)

	req := httptest.NewRequest(http.MethodPut, "/recipes/"+testRecipeID, strings.NewReader(soupBody))
	req = withUserID(req, "user-456")
	req = withChiURLParam(req, "id", testRecipeID)
	w := httptest.NewRecorder()

	h.Update(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if body := decodeErrorBody(t, w); body.Code != model.ErrCodeNotRecipeOwner {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeNotRecipeOwner)
	}
}

// --- GET /recipes/{id} テスト ---

func TestRecipeHandler_Get_Success_IncludesOwnerWithoutHash(t *testing.T) {
	svc := &mockRecipeService{
		getFn: func(_ context.Context, ownerID, recipeID string) (*model.RecipeWithOwner, error) {
			return &model.RecipeWithOwner{
				Recipe: model.Recipe{ID: recipeID, UserID: ownerID, Name: "Soup"},
				Owner:  model.User{ID: ownerID, Name: "Ann", Email: "ann@x.com", PasswordHash: "hash-value"},
			}, nil
		},
	}
	h := NewRecipeHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/recipes/"+testRecipeID, nil)
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "id", testRecipeID)
	w := httptest.NewRecorder()

	h.Get(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if strings.Contains(w.Body.String(), "hash-value") {
		t.Errorf("owner password hash leaked: %s", w.Body.String())
	}

	var body struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		User struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if body.ID != testRecipeID || body.Name != "Soup" || body.User.Email != "ann@x.com" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestRecipeHandler_Get_InvalidID_ReturnsBadRequest(t *testing.T) {
	svc := &mockRecipeService{
		getFn: func(_ context.Context, _, recipeID string) (*model.RecipeWithOwner, error) {
			return nil, model.NewInvalidRecipeIDError(recipeID)
		},
	}
	h := NewRecipeHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/recipes/xyz", nil)
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "id", "xyz")
	w := httptest.NewRecorder()

	h.Get(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// --- GET /recipes/all テスト ---

func TestRecipeHandler_List_Success(t *testing.T) {
	svc := &mockRecipeService{
		listFn: func(_ context.Context, ownerID string) ([]*model.RecipeWithOwner, error) {
			return []*model.RecipeWithOwner{
				{Recipe: model.Recipe{ID: "r1", UserID: ownerID, Name: "Soup"}},
				{Recipe: model.Recipe{ID: "r2", UserID: ownerID, Name: "Salad"}},
			}, nil
		},
	}
	h := NewRecipeHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/recipes/all", nil)
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var body []model.RecipeWithOwner
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(body) != 2 {
		t.Errorf("len = %d, want 2", len(body))
	}
}

func TestRecipeHandler_List_Empty_ReturnsBadRequest(t *testing.T) {
	h := NewRecipeHandler(&mockRecipeService{})

	req := httptest.NewRequest(http.MethodGet, "/recipes/all", nil)
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.List(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if body := decodeErrorBody(t, w); body.Code != model.ErrCodeRecipesNotFound {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeRecipesNotFound)
	}
}

// --- DELETE /recipes/{id} テスト ---

func TestRecipeHandler_Delete_Success(t *testing.T) {
	deleteCalled := false
	svc := &mockRecipeService{
		deleteFn: func(_ context.Context, ownerID, recipeID string) error {
			deleteCalled = true
			if ownerID != "user-123" || recipeID != testRecipeID {
				t.Errorf("unexpected args: owner=%q id=%q", ownerID, recipeID)
			}
			return nil
		},
	}
	h := NewRecipeHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/recipes/"+testRecipeID, nil)
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "id", testRecipeID)
	w := httptest.NewRecorder()

	h.Delete(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !deleteCalled {
		t.Error("expected Delete to be called")
	}
}

func TestRecipeHandler_Delete_InternalError(t *testing.T) {
	svc := &mockRecipeService{
		deleteFn: func(context.Context, string, string) error {
			return errors.New("db down")
		},
	}
	h := NewRecipeHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/recipes/"+testRecipeID, nil)
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "id", testRecipeID)
	w := httptest.NewRecorder()

	h.Delete(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if body := decodeErrorBody(t, w); body.Code != model.ErrCodeInternal {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeInternal)
	}
}

// --- mapAPIErrorToHTTPStatus テスト ---

func TestMapAPIErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{model.ErrCodeValidationFailed, http.StatusBadRequest},
		{model.ErrCodeInvalidRequest, http.StatusBadRequest},
		{model.ErrCodeEmailAlreadyRegistered, http.StatusBadRequest},
		{model.ErrCodeUserNotFound, http.StatusBadRequest},
		{model.ErrCodeRecipesNotFound, http.StatusBadRequest},
		{model.ErrCodeNotRecipeOwner, http.StatusUnauthorized},
		{model.ErrCodeUnauthorized, http.StatusUnauthorized},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := mapAPIErrorToHTTPStatus(&model.APIError{Code: tt.code}); got != tt.want {
			t.Errorf("mapAPIErrorToHTTPStatus(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
