package user

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/FrigaaAbdou/show-backend/internal/auth"
)

type Service struct {
	repo        Repository
	tokens      *auth.TokenService
	adminSecret string
	now         func() time.Time
}

func NewService(repo Repository, tokens *auth.TokenService, adminSecret string) *Service {
	return &Service{repo: repo, tokens: tokens, adminSecret: adminSecret, now: time.Now}
}

// GetRole satisfies auth.RoleLookup so the guard reads roles from the store.
func (s *Service) GetRole(ctx context.Context, id string) (auth.Role, error) {
	return s.repo.GetRole(ctx, id)
}

// Register creates a user and issues a token. Requesting the admin role
// requires the configured admin secret; any other role is forced to user.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return Session{}, ErrMissingFields
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return Session{}, ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) {
		return Session{}, err
	}

	role := auth.RoleUser
	if in.Role == auth.RoleAdmin {
		if !s.validAdminSecret(in.AdminSecret) {
			return Session{}, ErrInvalidAdminSecret
		}
		role = auth.RoleAdmin
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, err
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, User{
		Username:  strings.TrimSpace(in.Username),
		Email:     email,
		Password:  string(hashed),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return Session{}, err
	}

	return s.session(created)
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}

	return s.session(user)
}

func (s *Service) List(ctx context.Context, p auth.Principal) ([]User, error) {
	if !p.IsAdmin() {
		return nil, ErrAdminsOnly
	}
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, p auth.Principal, id string) (User, error) {
	if !auth.CanAccess(p, id, auth.ActionRead) {
		return User{}, ErrForbidden
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, p auth.Principal, id string, patch Update) (User, error) {
	if !auth.CanAccess(p, id, auth.ActionWrite) {
		return User{}, ErrForbidden
	}
	if patch.Role != nil && !auth.CanChangeRole(p) {
		return User{}, ErrRoleChange
	}
	if patch.Role != nil && !patch.Role.Valid() {
		return User{}, ErrInvalidRole
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if patch.Username != nil {
		existing.Username = strings.TrimSpace(*patch.Username)
	}
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if email == "" {
			return User{}, ErrMissingFields
		}
		existing.Email = email
	}
	if patch.Password != nil {
		if *patch.Password == "" {
			return User{}, ErrMissingFields
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, err
		}
		existing.Password = string(hashed)
	}
	if patch.Role != nil {
		existing.Role = *patch.Role
	}
	existing.UpdatedAt = s.now().UTC()

	return s.repo.Update(ctx, existing)
}

func (s *Service) Delete(ctx context.Context, p auth.Principal, id string) error {
	if !auth.CanAccess(p, id, auth.ActionDelete) {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) session(user User) (Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, User: user}, nil
}

func (s *Service) validAdminSecret(given string) bool {
	if s.adminSecret == "" || given == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(given), []byte(s.adminSecret)) == 1
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
