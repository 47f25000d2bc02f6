// Package model はドメインモデルを定義する。
package model

import (
	"fmt"
	"strings"
)

// FieldError は入力フィールド単位の検証エラーを表す。
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string       // エラーコード
	Message  string       // エラーメッセージ
	Category string       // カテゴリ: auth, validation, recipe, system
	Action   string       // ユーザー向け対処方法
	Fields   []FieldError // 検証エラー時の違反フィールド
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidationFailed       = "VALIDATION_FAILED"
	ErrCodeInvalidRequest         = "INVALID_REQUEST"
	ErrCodeEmailAlreadyRegistered = "EMAIL_ALREADY_REGISTERED"
	ErrCodeUserNotFound           = "USER_NOT_FOUND"
	ErrCodeRecipesNotFound        = "RECIPES_NOT_FOUND"
	ErrCodeNotRecipeOwner         = "NOT_RECIPE_OWNER"
	ErrCodeUnauthorized           = "UNAUTHORIZED"
	ErrCodeInternal               = "INTERNAL_ERROR"
)

// NewValidationError は入力検証エラーを生成する。
// メッセージには違反内容をそのまま含め、クライアントに返す。
func NewValidationError(fields []FieldError) *APIError {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  fmt.Sprintf("入力内容が不正です: %s", strings.Join(parts, "; ")),
		Category: "validation",
		Action:   "入力内容を確認して再度送信してください。",
		Fields:   fields,
	}
}

// NewInvalidRequestError はリクエストボディを解析できない場合のエラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}

// NewEmailAlreadyRegisteredError はメールアドレス重複エラーを生成する。
func NewEmailAlreadyRegisteredError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailAlreadyRegistered,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "auth",
		Action:   "別のメールアドレスを使用するか、ログインしてください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewRecipesNotFoundError はユーザーのレシピが1件も無い場合のエラーを生成する。
func NewRecipesNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeRecipesNotFound,
		Message:  "レシピが見つかりません。",
		Category: "recipe",
		Action:   "レシピを登録してください。",
	}
}

// NewNotRecipeOwnerError はレシピが存在しない、または他ユーザーの所有である場合のエラーを生成する。
// 存在の有無は区別しない。
func NewNotRecipeOwnerError() *APIError {
	return &APIError{
		Code:     ErrCodeNotRecipeOwner,
		Message:  "このレシピの所有者ではありません。",
		Category: "recipe",
		Action:   "自分が登録したレシピのIDを指定してください。",
	}
}

// NewInvalidRecipeIDError はパスのレシピIDが不正な形式の場合のエラーを生成する。
func NewInvalidRecipeIDError(id string) *APIError {
	return NewValidationError([]FieldError{
		{Field: "id", Message: fmt.Sprintf("不正なレシピIDです: %s", id)},
	})
}
