package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/recipeman/internal/model"
)

// recipeWithOwnerColumns はレシピと所有者をJOINして取得する際のカラム一覧。
// 所有者のpassword_hashは選択しない。
const recipeWithOwnerColumns = `r.id, r.user_id, r.name, r.description, r.preparation_time, r.created_at, r.updated_at,
	u.id, u.name, u.email, u.created_at, u.updated_at`

// PostgresRecipeRepo はPostgreSQLを使用したレシピリポジトリ。
type PostgresRecipeRepo struct {
	db *sql.DB
}

// NewPostgresRecipeRepo はPostgresRecipeRepoを生成する。
func NewPostgresRecipeRepo(db *sql.DB) *PostgresRecipeRepo {
	return &PostgresRecipeRepo{db: db}
}

// Create はレシピを作成する。
func (r *PostgresRecipeRepo) Create(ctx context.Context, recipe *model.Recipe) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO recipes (id, user_id, name, description, preparation_time, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		recipe.ID, recipe.UserID, recipe.Name, recipe.Description, recipe.PreparationTime,
		recipe.CreatedAt, recipe.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert recipe: %w", err)
	}
	return nil
}

// FindByID は所有者を問わず指定IDのレシピを取得する。見つからない場合はnilを返す。
func (r *PostgresRecipeRepo) FindByID(ctx context.Context, id string) (*model.Recipe, error) {
	recipe := &model.Recipe{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, description, preparation_time, created_at, updated_at
		 FROM recipes WHERE id = $1`,
		id,
	).Scan(&recipe.ID, &recipe.UserID, &recipe.Name, &recipe.Description,
		&recipe.PreparationTime, &recipe.CreatedAt, &recipe.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find recipe by ID: %w", err)
	}

	return recipe, nil
}

// FindByOwnerAndID は所有者IDとレシピIDの組でレシピを所有者情報付きで取得する。
// 見つからない場合はnilを返す。
func (r *PostgresRecipeRepo) FindByOwnerAndID(ctx context.Context, ownerID, id string) (*model.RecipeWithOwner, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+recipeWithOwnerColumns+`
		 FROM recipes r
		 JOIN users u ON u.id = r.user_id
		 WHERE r.id = $1 AND r.user_id = $2`,
		id, ownerID,
	)

	recipe, err := scanRecipeWithOwner(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find recipe by owner and ID: %w", err)
	}

	return recipe, nil
}

// ListByOwner は所有者のレシピ一覧を作成日時の昇順で返す。
func (r *PostgresRecipeRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.RecipeWithOwner, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recipeWithOwnerColumns+`
		 FROM recipes r
		 JOIN users u ON u.id = r.user_id
		 WHERE r.user_id = $1
		 ORDER BY r.created_at ASC, r.id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []*model.RecipeWithOwner
	for rows.Next() {
		recipe, err := scanRecipeWithOwner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipes: %w", err)
	}

	return recipes, nil
}

// Update は所有者IDとレシピIDの組に一致するレシピの内容を更新し、更新後の行を返す。
// 一致する行が無い場合はnilを返す。
func (r *PostgresRecipeRepo) Update(ctx context.Context, ownerID string, recipe *model.Recipe) (*model.Recipe, error) {
	updated := &model.Recipe{}
	err := r.db.QueryRowContext(ctx,
		`UPDATE recipes
		 SET name = $1, description = $2, preparation_time = $3, updated_at = $4
		 WHERE id = $5 AND user_id = $6
		 RETURNING id, user_id, name, description, preparation_time, created_at, updated_at`,
		recipe.Name, recipe.Description, recipe.PreparationTime, recipe.UpdatedAt,
		recipe.ID, ownerID,
	).Scan(&updated.ID, &updated.UserID, &updated.Name, &updated.Description,
		&updated.PreparationTime, &updated.CreatedAt, &updated.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	return updated, nil
}

// Delete は指定IDのレシピを削除する。
func (r *PostgresRecipeRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM recipes WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return nil
}

// rowScanner は*sql.Rowと*sql.Rowsの共通インターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipeWithOwner(s rowScanner) (*model.RecipeWithOwner, error) {
	rw := &model.RecipeWithOwner{}
	err := s.Scan(
		&rw.ID, &rw.UserID, &rw.Name, &rw.Description, &rw.PreparationTime, &rw.CreatedAt, &rw.UpdatedAt,
		&rw.Owner.ID, &rw.Owner.Name, &rw.Owner.Email, &rw.Owner.CreatedAt, &rw.Owner.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rw, nil
}

// compile-time interface check
var _ RecipeRepository = (*PostgresRecipeRepo)(nil)
