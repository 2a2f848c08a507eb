package authservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leopold1975/travel_catalog/internal/pkg/config"
	"github.com/Leopold1975/travel_catalog/internal/pkg/jwtauth"
	"github.com/Leopold1975/travel_catalog/internal/pkg/validate"
	"github.com/Leopold1975/travel_catalog/internal/travels/domain/models"
	"github.com/Leopold1975/travel_catalog/internal/travels/repository/userrepo"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("insufficient role")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AuthService struct {
	userRepo Repository
	cfg      config.Auth
}

type Repository interface {
	CreateUser(context.Context, models.User) (int64, error)
	GetUserByEmail(context.Context, string) (models.User, error)
}

func New(userRepo Repository, cfg config.Auth) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

func (as *AuthService) CreateUser(ctx context.Context, req CreateUserRequest) (models.User, error) {
	if errs := validate.Struct(req); !errs.Empty() {
		return models.User{}, errs.OrNil()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("generate from password error: %w", err)
	}

	u := models.User{ //nolint:exhaustruct
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Roles:        []string{req.Role},
	}

	id, err := as.userRepo.CreateUser(ctx, u)
	if err != nil {
		errs := validate.Errors{}

		switch {
		case errors.Is(err, userrepo.ErrAlreadyExists):
			errs.Add("email", "The 'email' has already been taken")

			return models.User{}, errs.OrNil()
		case errors.Is(err, userrepo.ErrUnknownRole):
			errs.Add("role", "The selected 'role' is invalid")

			return models.User{}, errs.OrNil()
		}

		return models.User{}, fmt.Errorf("create user error: %w", err)
	}

	u.ID = id
	u.PasswordHash = ""

	return u, nil
}

func (as *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := as.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return "", ErrInvalidCredentials
		}

		return "", fmt.Errorf("get user error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := jwtauth.GetToken(u, as.cfg.TTL, as.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("can't get token error: %w", err)
	}

	return token, nil
}

// Authenticate resolves a bearer token into the acting principal.
func (as *AuthService) Authenticate(token string) (*models.User, error) {
	claims, err := jwtauth.ValidateToken(token, as.cfg.Secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	return &models.User{ //nolint:exhaustruct
		ID:    claims.UserID(),
		Email: claims.Email,
		Roles: claims.Roles,
	}, nil
}

// Authorize is the write-path gate. Three outcomes: no principal at
// all, a principal without the required role, or allow.
func (as *AuthService) Authorize(principal *models.User, role string) error {
	if principal == nil {
		return ErrUnauthenticated
	}

	if !principal.HasRole(role) {
		return ErrForbidden
	}

	return nil
}
