package handler

import (
	"context"
	"sort"
	"sync"

	"github.com/hitoshi/recipeman/internal/model"
	"github.com/hitoshi/recipeman/internal/repository"
)

// memoryStore はルーター結合テスト用のインメモリ永続化層。
// PostgreSQL実装と同じく、見つからない場合はnilを返す。
type memoryStore struct {
	mu      sync.Mutex
	users   map[string]model.User
	recipes map[string]model.Recipe
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:   make(map[string]model.User),
		recipes: make(map[string]model.Recipe),
	}
}

type memoryUserRepo struct{ s *memoryStore }

type memoryRecipeRepo struct{ s *memoryStore }

func (r memoryUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	public := u.PublicUser()
	return &public, nil
}

func (r memoryUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (r memoryUserRepo) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r memoryRecipeRepo) Create(_ context.Context, recipe *model.Recipe) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.recipes[recipe.ID] = *recipe
	return nil
}

func (r memoryRecipeRepo) FindByID(_ context.Context, id string) (*model.Recipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.recipes[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r memoryRecipeRepo) withOwner(rec model.Recipe) *model.RecipeWithOwner {
	owner := r.s.users[rec.UserID]
	return &model.RecipeWithOwner{Recipe: rec, Owner: owner.PublicUser()}
}

func (r memoryRecipeRepo) FindByOwnerAndID(_ context.Context, ownerID, id string) (*model.RecipeWithOwner, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.recipes[id]
	if !ok || rec.UserID != ownerID {
		return nil, nil
	}
	return r.withOwner(rec), nil
}

func (r memoryRecipeRepo) ListByOwner(_ context.Context, ownerID string) ([]*model.RecipeWithOwner, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*model.RecipeWithOwner
	for _, rec := range r.s.recipes {
		if rec.UserID == ownerID {
			list = append(list, r.withOwner(rec))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

func (r memoryRecipeRepo) Update(_ context.Context, ownerID string, recipe *model.Recipe) (*model.Recipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.recipes[recipe.ID]
	if !ok || rec.UserID != ownerID {
		return nil, nil
	}
	rec.Name = recipe.Name
	rec.Description = recipe.Description
	rec.PreparationTime = recipe.PreparationTime
	rec.UpdatedAt = recipe.UpdatedAt
	r.s.recipes[rec.ID] = rec
	return &rec, nil
}

func (r memoryRecipeRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.recipes, id)
	return nil
}

var (
	_ repository.UserRepository   = memoryUserRepo{}
	_ repository.RecipeRepository = memoryRecipeRepo{}
)
