package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/hitoshi/recipeman/internal/auth"
	"github.com/hitoshi/recipeman/internal/model"
	"github.com/hitoshi/recipeman/internal/validation"
)

// AuthServiceInterface はユーザー登録・ログインに必要なサービスインターフェース。
type AuthServiceInterface interface {
	Register(ctx context.Context, in auth.RegisterInput) (*model.User, error)
	Login(ctx context.Context, in auth.LoginInput) (*auth.LoginResult, error)
}

// UserServiceInterface はユーザー情報参照に必要なサービスインターフェース。
type UserServiceInterface interface {
	// Profile は認証済みユーザー自身の情報を返す。
	Profile(ctx context.Context, userID string) (*model.User, error)
}

// UserHandler はユーザー登録・ログイン・自身の情報取得のHTTPハンドラー。
type UserHandler struct {
	auth  AuthServiceInterface
	users UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(authService AuthServiceInterface, userService UserServiceInterface) *UserHandler {
	return &UserHandler{
		auth:  authService,
		users: userService,
	}
}

// Register はユーザーを登録する。
// POST /register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	in, err := validation.Decode[auth.RegisterInput](validation.Register, r.Body)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	user, err := h.auth.Register(r.Context(), in)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login はメールアドレスとパスワードでログインし、トークンを返す。
// 認証情報が誤っている場合は本文なしの401を返す。
// POST /login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	in, err := validation.Decode[auth.LoginInput](validation.Login, r.Body)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	result, err := h.auth.Login(r.Context(), in)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Me は認証済みユーザー自身の情報を返す。
// GET /id
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	user, err := h.users.Profile(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
