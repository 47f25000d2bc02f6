// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/recipeman/internal/model"
)

// ErrDuplicateEmail は同じメールアドレスのユーザーが既に存在する場合に返される。
var ErrDuplicateEmail = errors.New("repository: duplicate email")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	// 返却値にはパスワードハッシュを含む。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	// メールアドレスが重複する場合はErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error
}

// RecipeRepository はレシピデータの永続化インターフェース。
type RecipeRepository interface {
	// Create はレシピを作成する。
	Create(ctx context.Context, recipe *model.Recipe) error

	// FindByID は所有者を問わず指定IDのレシピを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Recipe, error)

	// FindByOwnerAndID は所有者IDとレシピIDの組でレシピを所有者情報付きで取得する。
	// 他ユーザーのレシピも含め、見つからない場合はnilを返す。
	FindByOwnerAndID(ctx context.Context, ownerID, id string) (*model.RecipeWithOwner, error)

	// ListByOwner は所有者のレシピ一覧を作成日時の昇順で返す。
	ListByOwner(ctx context.Context, ownerID string) ([]*model.RecipeWithOwner, error)

	// Update は所有者IDとレシピIDの組に一致するレシピの内容を更新する。
	// 一致する行が無い場合はnilを返す。user_idは更新しない。
	Update(ctx context.Context, ownerID string, recipe *model.Recipe) (*model.Recipe, error)

	// Delete は指定IDのレシピを削除する。
	Delete(ctx context.Context, id string) error
}
