package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/backend/app/models"
	"github.com/storefront/backend/app/repositories"
	"github.com/storefront/backend/config"
	"github.com/storefront/backend/pkg/apperr"
	"github.com/storefront/backend/pkg/auth"
	"github.com/storefront/backend/pkg/authz"
)

// AuthService handles registration, login, profile management and the
// password reset flow.
type AuthService struct {
	users    UserRepo
	notifier Notifier
}

func NewAuthService(users UserRepo, notifier Notifier) *AuthService {
	return &AuthService{users: users, notifier: notifier}
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Register creates a customer account and returns it with a bearer token.
// A welcome email goes out best-effort.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	u := &models.User{
		Name:     in.Name,
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Role:     authz.RoleCustomer,
		Avatar:   models.DefaultAvatar,
		IsActive: true,
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}
	u.Password = hash

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, "", apperr.New(apperr.Conflict, "An account with this email already exists")
		}
		return nil, "", err
	}

	token, err := auth.GenerateToken(u.ID.Hex(), u.Role)
	if err != nil {
		return nil, "", err
	}

	s.notifier.Welcome(*u)
	return u, token, nil
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and returns the user with a bearer token. The
// same Unauthorized message covers unknown email and wrong password.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, string, error) {
	u, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, "", apperr.New(apperr.Unauthorized, "Invalid email or password")
		}
		return nil, "", err
	}
	if !auth.CheckPassword(u.Password, in.Password) {
		return nil, "", apperr.New(apperr.Unauthorized, "Invalid email or password")
	}
	if !u.IsActive {
		return nil, "", apperr.New(apperr.Unauthorized, "Account is deactivated")
	}

	token, err := auth.GenerateToken(u.ID.Hex(), u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Profile returns the authenticated user's account.
func (s *AuthService) Profile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "User not found")
		}
		return nil, err
	}
	return u, nil
}

type UpdateProfileInput struct {
	Name     string `json:"name" validate:"nullable,max=50"`
	Email    string `json:"email" validate:"nullable,email"`
	Password string `json:"password" validate:"nullable,min=8"`
	Avatar   string `json:"avatar" validate:"nullable,url"`
}

// UpdateProfile applies the non-empty fields and returns the user with a
// fresh token, since the claims may reference a changed account.
func (s *AuthService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, in UpdateProfileInput) (*models.User, string, error) {
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Email != "" {
		u.Email = strings.ToLower(strings.TrimSpace(in.Email))
	}
	if in.Avatar != "" {
		u.Avatar = in.Avatar
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, "", err
		}
		u.Password = hash
	}

	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, "", apperr.New(apperr.Conflict, "An account with this email already exists")
		}
		return nil, "", err
	}

	token, err := auth.GenerateToken(u.ID.Hex(), u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// ForgotPassword issues a one-hour reset token and emails the reset link.
// If the email cannot be delivered the stored token is cleared again, so a
// token never outlives its delivery attempt. An unknown email is reported
// as NotFound.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.New(apperr.NotFound, "No account found with this email")
		}
		return err
	}

	token, digest, err := auth.NewResetToken()
	if err != nil {
		return err
	}
	u.ResetTokenDigest = digest
	u.ResetTokenExpires = time.Now().Add(auth.ResetTokenTTL)
	if err := s.users.Update(ctx, u); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", config.FrontendURL(), token)
	if err := s.notifier.PasswordReset(*u, resetURL); err != nil {
		u.ResetTokenDigest = ""
		u.ResetTokenExpires = time.Time{}
		if clearErr := s.users.Update(ctx, u); clearErr != nil {
			return clearErr
		}
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

type ResetPasswordInput struct {
	Password string `json:"password" validate:"required,min=8"`
}

// ResetPassword consumes a reset token, replaces the password, and returns
// the user with a fresh bearer token.
func (s *AuthService) ResetPassword(ctx context.Context, token string, in ResetPasswordInput) (*models.User, string, error) {
	digest := auth.HashResetToken(token)
	u, err := s.users.FindByResetToken(ctx, digest, time.Now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, "", apperr.New(apperr.InvalidInput, "Invalid or expired reset token")
		}
		return nil, "", err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}
	u.Password = hash
	u.ResetTokenDigest = ""
	u.ResetTokenExpires = time.Time{}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, "", err
	}

	jwt, err := auth.GenerateToken(u.ID.Hex(), u.Role)
	if err != nil {
		return nil, "", err
	}

	s.notifier.PasswordChanged(*u)
	return u, jwt, nil
}
