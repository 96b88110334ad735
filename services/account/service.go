package account

import (
	"context"
	"errors"
	"time"

	userRepo "bookable/database/repository/user"
	"bookable/models"
	"bookable/services/schedule"
	"bookable/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// AuthResult carries a signed token together with the principal.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AccountService covers registration and signin. Providers register
// unapproved and stay unbookable until an admin approves them.
type AccountService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req models.LoginRequest) (*AuthResult, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type DefaultAccountService struct {
	Repo userRepo.UserRepository
}

var _ AccountService = (*DefaultAccountService)(nil)

// Typed errors surfaced to handlers.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidTimeZone    = errors.New("unrecognized timezone")
	ErrInvalidRole        = errors.New("role must be user or provider")
)

func (s *DefaultAccountService) Register(ctx context.Context, req models.RegisterRequest) (*AuthResult, error) {
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleProvider {
		return nil, ErrInvalidRole
	}
	if !schedule.ValidateTimeZone(req.TimeZone) {
		return nil, ErrInvalidTimeZone
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		TimeZone:     req.TimeZone,
		IsApproved:   role == models.RoleUser,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		if errors.Is(err, userRepo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	token, err := utils.GenerateToken(user.ID, user.Role, tokenTTL)
	if err != nil {
		return nil, err
	}

	utils.GetLogger().Info("user registered",
		zap.String("userId", user.ID),
		zap.String("role", string(user.Role)))
	return &AuthResult{Token: token, User: user}, nil
}

func (s *DefaultAccountService) Login(ctx context.Context, req models.LoginRequest) (*AuthResult, error) {
	user, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Role, tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *DefaultAccountService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.Repo.GetByID(ctx, id)
}
