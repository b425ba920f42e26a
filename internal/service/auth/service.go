package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"storefront-api/internal/domain"
)

type userRepo interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type roleRepo interface {
	Create(ctx context.Context, r domain.Role) (*domain.Role, error)
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	Delete(ctx context.Context, id string) error
}

// Service handles registration and credential checks. It does not issue
// sessions or tokens.
type Service struct {
	users       userRepo
	roles       roleRepo
	hashCost    int
	defaultRole []string
}

func New(users userRepo, roles roleRepo) *Service {
	return &Service{
		users:       users,
		roles:       roles,
		hashCost:    bcrypt.DefaultCost,
		defaultRole: []string{"user"},
	}
}

type RegisterInput struct {
	Email     string `json:"email" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Password  string `json:"password" binding:"required"`
	RoleID    string `json:"role_id"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Profile is a user together with its role. Role is nil when the user has
// no role or the role was removed.
type Profile struct {
	User domain.User
	Role *domain.Role
}

// bcrypt rejects passwords longer than this.
const maxPasswordBytes = 72

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Profile, error) {
	logger := zerolog.Ctx(ctx)
	email := normalizeEmail(in.Email)
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	switch {
	case email == "":
		return nil, domain.Invalid("email is required")
	case firstName == "":
		return nil, domain.Invalid("first_name is required")
	case lastName == "":
		return nil, domain.Invalid("last_name is required")
	case in.Password == "":
		return nil, domain.Invalid("password is required")
	case len(in.Password) > maxPasswordBytes:
		return nil, domain.Invalid("password must be at most %d bytes", maxPasswordBytes)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.Conflict("Email already registered")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, err
	}

	var (
		role        *domain.Role
		createdRole bool
	)
	if roleID := strings.TrimSpace(in.RoleID); roleID != "" {
		if !domain.ValidID(roleID) {
			return nil, domain.NotFound("Specified role not found")
		}
		found, err := s.roles.GetByID(ctx, roleID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.NotFound("Specified role not found")
			}
			return nil, err
		}
		role = found
	} else {
		created, err := s.roles.Create(ctx, domain.Role{Roles: s.defaultRole})
		if err != nil {
			return nil, err
		}
		role = created
		createdRole = true
	}

	user, err := s.users.Create(ctx, domain.User{
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: string(hashed),
		Gravatar:     domain.DefaultGravatar,
		RoleID:       role.ID,
	})
	if err != nil {
		if createdRole {
			if derr := s.roles.Delete(ctx, role.ID); derr != nil {
				logger.Warn().Err(derr).Str("role_id", role.ID).Msg("could not remove role of failed registration")
			}
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.Conflict("Email already registered")
		}
		return nil, err
	}
	logger.Info().Str("user_id", user.ID).Str("role_id", role.ID).Msg("user registered")
	return &Profile{User: *user, Role: role}, nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*Profile, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("User not found")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		zerolog.Ctx(ctx).Debug().Str("user_id", user.ID).Msg("login rejected")
		return nil, domain.IncorrectPassword("Incorrect password")
	}

	profile := &Profile{User: *user}
	if user.RoleID != "" {
		role, err := s.roles.GetByID(ctx, user.RoleID)
		switch {
		case err == nil:
			profile.Role = role
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}
	return profile, nil
}
