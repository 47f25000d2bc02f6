// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// 認証拒否の理由。メトリクスのラベルに使う。
const (
	RejectMissingHeader = "missing_header"
	RejectBadScheme     = "bad_scheme"
	RejectInvalidToken  = "invalid_token"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userIDContextKey はリクエストコンテキストにユーザーIDを格納するためのキー。
var userIDContextKey = contextKey("user_id")

// TokenVerifier はベアラートークンの検証に必要なインターフェース。
// auth.TokenIssuerの部分集合として定義する。
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// RejectionRecorder は認証拒否を計測するインターフェース。
type RejectionRecorder interface {
	IncAuthRejection(reason string)
}

// NewAuthMiddleware はAuthorizationヘッダーのベアラートークンを検証するミドルウェアを返す。
// 認証済みユーザーIDをリクエストコンテキストに注入する。
// ヘッダー欠落・形式不正・検証失敗のいずれも本文なしの401を返す。
// recorderはnilでもよい。
func NewAuthMiddleware(verifier TokenVerifier, recorder RejectionRecorder) func(next http.Handler) http.Handler {
	reject := func(w http.ResponseWriter, reason string) {
		if recorder != nil {
			recorder.IncAuthRejection(reason)
		}
		w.WriteHeader(http.StatusUnauthorized)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				reject(w, RejectMissingHeader)
				return
			}

			// スキーム名は大文字小文字を区別しない
			if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
				reject(w, RejectBadScheme)
				return
			}

			token := strings.TrimSpace(header[len(bearerPrefix):])
			if token == "" {
				reject(w, RejectBadScheme)
				return
			}

			userID, err := verifier.Verify(token)
			if err != nil || userID == "" {
				reject(w, RejectInvalidToken)
				return
			}

			recordUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), userID)))
		})
	}
}

// UserIDFromContext はリクエストコンテキストからユーザーIDを取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// ContextWithUserID はコンテキストにユーザーIDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}
