package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/GunarsK-portfolio/review-service/internal/mail"
	"github.com/GunarsK-portfolio/review-service/internal/models"
	"github.com/GunarsK-portfolio/review-service/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const confirmationSubject = "Confirmation code"

// SignupResponse echoes the accepted signup payload.
type SignupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// AuthService implements passwordless signup and token exchange.
type AuthService interface {
	// Signup registers (or re-registers) a username/email pair and mails a
	// fresh confirmation code. Any previously issued code stops working.
	Signup(ctx context.Context, username, email string) (*SignupResponse, error)
	// ObtainToken exchanges a confirmation code for an access token. The code
	// stays valid until the next signup for the same user.
	ObtainToken(ctx context.Context, username, code string) (*TokenResponse, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService JWTService
	mailer     mail.Sender
	newCode    func() string
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(userRepo repository.UserRepository, jwtService JWTService, mailer mail.Sender) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		mailer:     mailer,
		newCode:    uuid.NewString,
	}
}

func (s *authService) Signup(ctx context.Context, username, email string) (*SignupResponse, error) {
	byUsername, err := s.findUser(ctx, s.userRepo.FindByUsername, username)
	if err != nil {
		return nil, err
	}
	byEmail, err := s.findUser(ctx, s.userRepo.FindByEmail, email)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	if models.IsReservedUsername(username) {
		verr.Add("username", fmt.Sprintf("username %q is reserved", username))
	}
	if byUsername != nil && byUsername.Email != email {
		verr.Add("username", "username is already taken")
	}
	if byEmail != nil && byEmail.Username != username {
		verr.Add("email", "email is already in use")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	user := byUsername
	if user == nil {
		user = &models.User{Username: username, Email: email, Role: models.RoleUser}
		if err := s.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, NewValidationError("username", "a user with this username or email already exists")
			}
			return nil, err
		}
	}

	code, err := s.issueCode(ctx, user)
	if err != nil {
		return nil, err
	}

	err = s.mailer.Send(ctx, mail.Message{
		To:      user.Email,
		Subject: confirmationSubject,
		Body:    fmt.Sprintf("Your confirmation code: %s", code),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}

	return &SignupResponse{Username: user.Username, Email: user.Email}, nil
}

func (s *authService) ObtainToken(ctx context.Context, username, code string) (*TokenResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.ConfirmationCode == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.ConfirmationCode), []byte(code)) != nil {
		return nil, ErrInvalidCode
	}

	token, err := s.jwtService.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token for user %d: %w", user.ID, err)
	}
	return &TokenResponse{Token: token}, nil
}

// issueCode binds a new code to the user, storing only its hash.
func (s *authService) issueCode(ctx context.Context, user *models.User) (string, error) {
	code := s.newCode()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash confirmation code: %w", err)
	}

	user.ConfirmationCode = string(hash)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", err
	}
	return code, nil
}

func (s *authService) findUser(ctx context.Context, find func(context.Context, string) (*models.User, error), key string) (*models.User, error) {
	user, err := find(ctx, key)
	if err == nil {
		return user, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return nil, err
}
