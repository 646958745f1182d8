package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/edugen/studio/internal/model"
)

// UserRecord is a stored account.
type UserRecord struct {
	model.User
	PasswordHash string
}

// UserRepository is an in-memory account store keyed by id and by
// case-insensitive email.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[int64]*UserRecord
	byEmail map[string]int64
	nextID  int64
	now     func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[int64]*UserRecord),
		byEmail: make(map[string]int64),
		now:     time.Now,
	}
}

// Create stores a new account. It returns ErrDuplicate if the email is
// taken.
func (r *UserRepository) Create(ctx context.Context, email, passwordHash string) (model.User, error) {
	key := strings.ToLower(email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[key]; taken {
		return model.User{}, ErrDuplicate
	}

	r.nextID++
	rec := &UserRecord{
		User: model.User{
			ID:        r.nextID,
			Email:     email,
			CreatedAt: r.now().UTC().Format(timeLayout),
		},
		PasswordHash: passwordHash,
	}
	r.byID[rec.ID] = rec
	r.byEmail[key] = rec.ID
	return rec.User, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (UserRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return UserRecord{}, ErrNotFound
	}
	return *r.byID[id], nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return rec.User, nil
}
