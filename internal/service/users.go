package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/GunarsK-portfolio/review-service/internal/models"
	"github.com/GunarsK-portfolio/review-service/internal/policy"
	"github.com/GunarsK-portfolio/review-service/internal/repository"
	"gorm.io/gorm"
)

// UserInput holds user fields supplied by a client. Nil fields are left
// unchanged on update.
type UserInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *models.Role
}

// UserService manages user accounts.
type UserService interface {
	List(ctx context.Context, search string, page repository.Page) ([]models.User, int64, error)
	Get(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, input UserInput) (*models.User, error)
	// Update applies input to user using the accepted field set of shape.
	Update(ctx context.Context, user *models.User, input UserInput, shape policy.UserShape) (*models.User, error)
	Delete(ctx context.Context, username string) error
	// EnsureOperator creates or promotes a staff superuser account.
	EnsureOperator(ctx context.Context, username, email string) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService instance.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(ctx context.Context, search string, page repository.Page) ([]models.User, int64, error) {
	return s.userRepo.List(ctx, search, page)
}

func (s *userService) Get(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user", username)
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Create(ctx context.Context, input UserInput) (*models.User, error) {
	user := &models.User{Role: models.RoleUser}

	verr := &ValidationError{}
	if input.Username == nil || *input.Username == "" {
		verr.Add("username", "username is required")
	}
	if input.Email == nil || *input.Email == "" {
		verr.Add("email", "email is required")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	if err := s.apply(ctx, user, input, true); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, translateUserConflict(err)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, user *models.User, input UserInput, shape policy.UserShape) (*models.User, error) {
	if err := s.apply(ctx, user, input, shape == policy.UserShapeAdmin); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, translateUserConflict(err)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, username string) error {
	user, err := s.Get(ctx, username)
	if err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, user)
}

func (s *userService) EnsureOperator(ctx context.Context, username, email string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		user.IsStaff = true
		user.IsSuperuser = true
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &models.User{
			Username:    username,
			Email:       email,
			Role:        models.RoleAdmin,
			IsStaff:     true,
			IsSuperuser: true,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	default:
		return nil, err
	}
}

// apply validates input against the current record and copies accepted
// fields onto user. Role is copied only when allowRole is set.
func (s *userService) apply(ctx context.Context, user *models.User, input UserInput, allowRole bool) error {
	verr := &ValidationError{}

	if input.Username != nil && *input.Username != user.Username {
		username := *input.Username
		if models.IsReservedUsername(username) {
			verr.Add("username", fmt.Sprintf("username %q is reserved", username))
		} else if taken, err := s.taken(ctx, s.userRepo.FindByUsername, username, user.ID); err != nil {
			return err
		} else if taken {
			verr.Add("username", "username is already taken")
		}
	}

	if input.Email != nil && *input.Email != user.Email {
		if taken, err := s.taken(ctx, s.userRepo.FindByEmail, *input.Email, user.ID); err != nil {
			return err
		} else if taken {
			verr.Add("email", "email is already in use")
		}
	}

	if allowRole && input.Role != nil && !input.Role.Valid() {
		verr.Add("role", fmt.Sprintf("%q is not a valid role", *input.Role))
	}

	if verr.HasErrors() {
		return verr
	}

	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if allowRole && input.Role != nil {
		user.Role = *input.Role
	}
	return nil
}

func (s *userService) taken(ctx context.Context, find func(context.Context, string) (*models.User, error), key string, selfID int64) (bool, error) {
	other, err := find(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return other.ID != selfID, nil
}

func translateUserConflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return NewValidationError("username", "a user with this username or email already exists")
	}
	return err
}
