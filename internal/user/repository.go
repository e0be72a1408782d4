package user

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/FrigaaAbdou/show-backend/internal/apperror"
	"github.com/FrigaaAbdou/show-backend/internal/auth"
)

var (
	ErrNotFound           = apperror.New(apperror.NotFound, "User not found")
	ErrEmailExists        = apperror.New(apperror.Conflict, "User already exists")
	ErrInvalidCredentials = apperror.New(apperror.InvalidArgument, "Invalid credentials")
	ErrMissingFields      = apperror.New(apperror.InvalidArgument, "Email and password are required")
	ErrInvalidRole        = apperror.New(apperror.InvalidArgument, "Role must be user or admin")
	ErrInvalidAdminSecret = apperror.New(apperror.Forbidden, "Invalid admin secret")
	ErrAdminsOnly         = apperror.New(apperror.Forbidden, "Forbidden: Admins only")
	ErrForbidden          = apperror.New(apperror.Forbidden, "Forbidden")
	ErrRoleChange         = apperror.New(apperror.Forbidden, "Only admins can change roles")
)

// Repository is the credential store.
type Repository interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	// GetRole loads only the role attribute of a user.
	GetRole(ctx context.Context, id string) (auth.Role, error)
	Create(ctx context.Context, user User) (User, error)
	Update(ctx context.Context, user User) (User, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository is used for tests and the memory store driver.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users []User
}

func NewInMemoryRepository(seed []User) *InMemoryRepository {
	repo := &InMemoryRepository{users: make([]User, 0, len(seed))}
	repo.users = append(repo.users, seed...)
	return repo
}

func (r *InMemoryRepository) List(_ context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]User, len(r.users))
	copy(users, r.users)
	return users, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *InMemoryRepository) GetByEmail(_ context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *InMemoryRepository) GetRole(ctx context.Context, id string) (auth.Role, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

func (r *InMemoryRepository) Create(_ context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return User{}, ErrEmailExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	r.users = append(r.users, user)
	return user, nil
}

func (r *InMemoryRepository) Update(_ context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, existing := range r.users {
		if existing.ID == user.ID {
			idx = i
		} else if existing.Email == user.Email {
			return User{}, ErrEmailExists
		}
	}
	if idx < 0 {
		return User{}, ErrNotFound
	}

	user.ID = r.users[idx].ID
	user.CreatedAt = r.users[idx].CreatedAt
	r.users[idx] = user
	return user, nil
}

func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, user := range r.users {
		if user.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
