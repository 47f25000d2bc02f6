package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/recipeman/internal/model"
	"github.com/hitoshi/recipeman/internal/recipe"
	"github.com/hitoshi/recipeman/internal/validation"
)

// RecipeServiceInterface はレシピハンドラーが必要とするサービスインターフェース。
type RecipeServiceInterface interface {
	Create(ctx context.Context, ownerID string, in recipe.Input) (*model.Recipe, error)
	Update(ctx context.Context, ownerID, recipeID string, in recipe.Input) (*model.Recipe, error)
	Get(ctx context.Context, ownerID, recipeID string) (*model.RecipeWithOwner, error)
	List(ctx context.Context, ownerID string) ([]*model.RecipeWithOwner, error)
	Delete(ctx context.Context, ownerID, recipeID string) error
}

// RecipeHandler はレシピ管理のHTTPハンドラー。
type RecipeHandler struct {
	service RecipeServiceInterface
}

// NewRecipeHandler はRecipeHandlerを生成する。
func NewRecipeHandler(service RecipeServiceInterface) *RecipeHandler {
	return &RecipeHandler{service: service}
}

// deleteRecipeResponse はレシピ削除成功時のレスポンス。
type deleteRecipeResponse struct {
	ID string `json:"id"`
}

// Create はレシピを作成する。
// POST /recipes
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	in, err := validation.Decode[recipe.Input](validation.Recipe, r.Body)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	created, err := h.service.Create(r.Context(), userID, in)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// Update はレシピを更新する。
// IDがUUID形式でない場合は400(VALIDATION_FAILED)を返す。
// PUT /{id}, PUT /recipes/{id}
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	in, err := validation.Decode[recipe.Input](validation.Recipe, r.Body)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	updated, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), in)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Get はレシピを所有者情報付きで返す。
// IDがUUID形式でない場合は400(VALIDATION_FAILED)を返す。
// GET /recipes/{id}
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	found, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, found)
}

// List は認証済みユーザーの全レシピを返す。
// GET /recipes/all
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	recipes, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recipes)
}

// Delete はレシピを削除する。
// IDがUUID形式でない場合は400(VALIDATION_FAILED)を返す。
// DELETE /recipes/{id}
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteRecipeResponse{ID: id})
}
