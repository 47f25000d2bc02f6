// Package recipe はレシピのCRUDと所有者チェックのドメインロジックを提供する。
package recipe

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hitoshi/recipeman/internal/model"
	"github.com/hitoshi/recipeman/internal/repository"
	"github.com/hitoshi/recipeman/internal/security"
)

// minTextLength はサニタイズ後の名前・説明に要求する最小文字数。
const minTextLength = 3

// Input はレシピ作成・更新の入力。
type Input struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	PreparationTime float64 `json:"preparationTime"`
}

// Service はレシピ管理のサービス層。
type Service struct {
	repo      repository.RecipeRepository
	sanitizer security.TextSanitizer
}

// NewService はServiceを生成する。
func NewService(repo repository.RecipeRepository, sanitizer security.TextSanitizer) *Service {
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
	}
}

// Create は認証済みユーザーを所有者とするレシピを作成し、保存したレシピを返す。
func (s *Service) Create(ctx context.Context, ownerID string, in Input) (*model.Recipe, error) {
	clean, err := s.clean(in)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	recipe := &model.Recipe{
		ID:              uuid.New().String(),
		UserID:          ownerID,
		Name:            clean.Name,
		Description:     clean.Description,
		PreparationTime: clean.PreparationTime,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	slog.Info("recipe created",
		slog.String("recipe_id", recipe.ID),
		slog.String("user_id", ownerID),
	)
	return recipe, nil
}

// Update は所有者のレシピを更新する。
// 対象が存在しない、または他ユーザーの所有である場合はNOT_RECIPE_OWNERを返す。
func (s *Service) Update(ctx context.Context, ownerID, recipeID string, in Input) (*model.Recipe, error) {
	if err := checkRecipeID(recipeID); err != nil {
		return nil, err
	}
	clean, err := s.clean(in)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByOwnerAndID(ctx, ownerID, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find recipe: %w", err)
	}
	if existing == nil {
		return nil, model.NewNotRecipeOwnerError()
	}

	updated, err := s.repo.Update(ctx, ownerID, &model.Recipe{
		ID:              recipeID,
		Name:            clean.Name,
		Description:     clean.Description,
		PreparationTime: clean.PreparationTime,
		UpdatedAt:       time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	// 取得後に削除された場合
	if updated == nil {
		return nil, model.NewNotRecipeOwnerError()
	}

	return updated, nil
}

// Get は所有者のレシピを所有者情報付きで返す。
func (s *Service) Get(ctx context.Context, ownerID, recipeID string) (*model.RecipeWithOwner, error) {
	if err := checkRecipeID(recipeID); err != nil {
		return nil, err
	}

	recipe, err := s.repo.FindByOwnerAndID(ctx, ownerID, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find recipe: %w", err)
	}
	if recipe == nil {
		return nil, model.NewNotRecipeOwnerError()
	}

	return recipe, nil
}

// List は所有者の全レシピを返す。1件も無い場合はRECIPES_NOT_FOUNDを返す。
func (s *Service) List(ctx context.Context, ownerID string) ([]*model.RecipeWithOwner, error) {
	recipes, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	if len(recipes) == 0 {
		return nil, model.NewRecipesNotFoundError()
	}
	return recipes, nil
}

// Delete はレシピを削除する。
// IDのみで取得してから所有者を比較し、存在しない場合も他ユーザーの所有と同じエラーを返す。
func (s *Service) Delete(ctx context.Context, ownerID, recipeID string) error {
	if err := checkRecipeID(recipeID); err != nil {
		return err
	}

	recipe, err := s.repo.FindByID(ctx, recipeID)
	if err != nil {
		return fmt.Errorf("failed to find recipe: %w", err)
	}
	if !recipe.IsOwnedBy(ownerID) {
		slog.Warn("recipe delete rejected",
			slog.String("recipe_id", recipeID),
			slog.String("user_id", ownerID),
		)
		return model.NewNotRecipeOwnerError()
	}

	if err := s.repo.Delete(ctx, recipeID); err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	slog.Info("recipe deleted",
		slog.String("recipe_id", recipeID),
		slog.String("user_id", ownerID),
	)
	return nil
}

// clean は名前と説明からマークアップを除去し、最小文字数を再確認する。
func (s *Service) clean(in Input) (Input, error) {
	out := Input{
		Name:            s.sanitizer.Sanitize(in.Name),
		Description:     s.sanitizer.Sanitize(in.Description),
		PreparationTime: in.PreparationTime,
	}

	var fields []model.FieldError
	if utf8.RuneCountInString(out.Name) < minTextLength {
		fields = append(fields, model.FieldError{Field: "name", Message: "タグを除いて3文字以上で入力してください"})
	}
	if utf8.RuneCountInString(out.Description) < minTextLength {
		fields = append(fields, model.FieldError{Field: "description", Message: "タグを除いて3文字以上で入力してください"})
	}
	if len(fields) > 0 {
		return Input{}, model.NewValidationError(fields)
	}
	return out, nil
}

// checkRecipeID はレシピIDがハイフン区切りのUUID形式であることを確認する。
// uuid.Parseは波括弧やurn:uuid:付きの形式も受け付けるため長さでも絞る。
func checkRecipeID(id string) error {
	if _, err := uuid.Parse(id); err != nil || len(id) != 36 {
		return model.NewInvalidRecipeIDError(id)
	}
	return nil
}
