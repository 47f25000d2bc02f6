package model

import "time"

// Recipe はユーザーが所有するレシピを表す。
// UserIDは作成時に設定され、以後付け替えられることはない。
type Recipe struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	PreparationTime float64   `json:"preparationTime"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// RecipeWithOwner はレシピと所有ユーザーを結合した構造体。
// Ownerのパスワードハッシュはリポジトリ層で読み込まない。
type RecipeWithOwner struct {
	Recipe
	Owner User `json:"user"`
}

// IsOwnedBy は指定ユーザーがレシピの所有者かどうかを返す。
func (r *Recipe) IsOwnedBy(userID string) bool {
	return r != nil && userID != "" && r.UserID == userID
}
