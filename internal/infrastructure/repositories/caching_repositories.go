package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/user"
	"github.com/avatarctic/movie-recommendation-service/go/internal/core/ports"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Utility helpers
func cacheSetSilently(c ports.Cache, ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.Set(ctx, key, b, ttl)
}

func cacheGet[T any](c ports.Cache, ctx context.Context, key string) (*T, bool) {
	if c == nil {
		return nil, false
	}
	b, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// cachedUser is the profile kept in the shared cache. Credentials (password
// hash, issued token) are never written there.
type cachedUser struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCachedUser(u *user.User) cachedUser {
	return cachedUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (c cachedUser) user() *user.User {
	return &user.User{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CachingUserRepository caches profiles by ID and remembers registered emails
// (short TTL expected). GetByEmail backs login, needs the password hash, and
// therefore always reads the database.
type CachingUserRepository struct {
	inner ports.UserRepository
	cache ports.Cache
	ttl   time.Duration
}

func NewCachingUserRepository(inner ports.UserRepository, cache ports.Cache, ttl time.Duration) ports.UserRepository {
	return &CachingUserRepository{inner: inner, cache: cache, ttl: ttl}
}

func userIDKey(id uuid.UUID) string { return "user:id:" + id.String() }
func userEmailKey(email string) string {
	return "user:email:" + strings.ToLower(email)
}

func (c *CachingUserRepository) remember(ctx context.Context, u *user.User) {
	cu := toCachedUser(u)
	cacheSetSilently(c.cache, ctx, userIDKey(u.ID), cu, c.ttl)
	cacheSetSilently(c.cache, ctx, userEmailKey(u.Email), cu, c.ttl)
}

func (c *CachingUserRepository) Create(ctx context.Context, u *user.User) error {
	if err := c.inner.Create(ctx, u); err != nil {
		return err
	}
	c.remember(ctx, u)
	return nil
}

func (c *CachingUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if v, ok := cacheGet[cachedUser](c.cache, ctx, userIDKey(id)); ok {
		return v.user(), nil
	}
	return c.load(ctx, userIDKey(id), func() (*user.User, error) { return c.inner.GetByID(ctx, id) })
}

func (c *CachingUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return c.load(ctx, userEmailKey(email), func() (*user.User, error) { return c.inner.GetByEmail(ctx, email) })
}

// Exists is answered from cache when the user was seen recently; otherwise the database decides.
func (c *CachingUserRepository) Exists(ctx context.Context, email string) (bool, error) {
	if _, ok := cacheGet[cachedUser](c.cache, ctx, userEmailKey(email)); ok {
		return true, nil
	}
	return c.inner.Exists(ctx, email)
}

// load coalesces concurrent misses for the same key into one database read.
func (c *CachingUserRepository) load(ctx context.Context, key string, loader func() (*user.User, error)) (*user.User, error) {
	res, err, _ := sf.Do(key, func() (any, error) {
		u, err := loader()
		if err != nil {
			return nil, err
		}
		c.remember(ctx, u)
		return u, nil
	})
	if err != nil {
		return nil, err
	}
	u, ok := res.(*user.User)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight result")
	}
	// Shared callers must not alias one *user.User.
	cp := *u
	return &cp, nil
}

// Simple validation to ensure decorators implement interfaces at compile time
var _ ports.UserRepository = (*CachingUserRepository)(nil)

// singleflight group for coalescing cache-miss loads in-process
var sf singleflight.Group
