// Package auth はパスワード認証とトークン発行を提供する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/hitoshi/recipeman/internal/model"
	"github.com/hitoshi/recipeman/internal/repository"
)

// ErrInvalidCredentials はメールアドレスが未登録、またはパスワードが一致しない場合に返される。
// どちらの理由かは呼び出し元に区別させない。
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// minNameLength はトリム後のユーザー名に要求する最小文字数。
const minNameLength = 3

// Recorder は認証イベントの計測インターフェース。
type Recorder interface {
	IncRegistrations()
	IncLoginFailures()
}

// RegisterInput はユーザー登録の入力。
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput はログインの入力。
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult はログイン成功時に返すトークン情報。
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service は登録・ログインのビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	tokens   *TokenIssuer
	recorder Recorder
}

// NewService はServiceを生成する。recorderはnilでもよい。
func NewService(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	tokens *TokenIssuer,
	recorder Recorder,
) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		recorder: recorder,
	}
}

// Register はユーザーを登録する。
// メールアドレスが既に使われている場合はハッシュ化・保存を行わずにエラーを返す。
func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	email := normalizeEmail(in.Email)

	// スキーマは前後の空白込みで長さを数えるため、トリム後に再確認する
	name := strings.TrimSpace(in.Name)
	if utf8.RuneCountInString(name) < minNameLength {
		return nil, model.NewValidationError([]model.FieldError{
			{Field: "name", Message: "前後の空白を除いて3文字以上で入力してください"},
		})
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if existing != nil {
		return nil, model.NewEmailAlreadyRegisteredError()
	}

	hash, err := s.hasher.Hash(in.Password)
	if errors.Is(err, ErrPasswordTooLong) {
		return nil, model.NewValidationError([]model.FieldError{
			{Field: "password", Message: "72バイト以下で入力してください"},
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// 同時登録で一意制約に引っかかった場合も重複として扱う
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, model.NewEmailAlreadyRegisteredError()
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.recorder != nil {
		s.recorder.IncRegistrations()
	}
	slog.Info("user registered", slog.String("user_id", user.ID))

	public := user.PublicUser()
	return &public, nil
}

// Login はメールアドレスとパスワードを照合し、トークンを発行する。
func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil || !s.hasher.Verify(user.PasswordHash, in.Password) {
		if s.recorder != nil {
			s.recorder.IncLoginFailures()
		}
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("user logged in", slog.String("user_id", user.ID))
	return &LoginResult{Token: token, ExpiresAt: expiresAt}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
