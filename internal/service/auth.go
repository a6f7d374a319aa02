// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"log/slog"
	"strings"

	"contentadmin/internal/auth"
	"contentadmin/internal/domain"
	"contentadmin/internal/models"
)

// MinPasswordLength is the shortest password accepted by Register.
const MinPasswordLength = 8

// errBadCredentials is returned for any unknown email or wrong password so
// callers cannot probe which accounts exist.
var errBadCredentials = &domain.UnauthorizedError{Message: "Invalid email or password."}

// LoginResult is the token issued on a successful login.
type LoginResult struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// AuthService handles login, one-time registration, TOTP enrollment and
// logout.
type AuthService struct {
	users         UserRepository
	tokens        *auth.TokenIssuer
	revoker       TokenRevoker
	allowRegister bool
}

// NewAuthService creates an auth service. revoker may be nil, in which
// case logout only succeeds client-side.
func NewAuthService(users UserRepository, tokens *auth.TokenIssuer, revoker TokenRevoker, allowRegister bool) *AuthService {
	return &AuthService{users: users, tokens: tokens, revoker: revoker, allowRegister: allowRegister}
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login verifies credentials and issues a bearer token. Users with 2FA
// enabled must also pass a current TOTP code.
func (s *AuthService) Login(ctx context.Context, email, password, code string) (*LoginResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, domain.Validationf("Email and password are required.")
	}

	user, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, errBadCredentials
	}

	if user.Requires2FA() {
		if strings.TrimSpace(code) == "" {
			return nil, &domain.UnauthorizedError{Message: "Two-factor code required."}
		}
		if !auth.ValidateTOTP(strings.TrimSpace(code), *user.TOTPSecret) {
			return nil, &domain.UnauthorizedError{Message: "Invalid two-factor code."}
		}
	}

	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	return &LoginResult{Token: token, User: user.Public()}, nil
}

// RegistrationOpen reports whether Register is enabled.
func (s *AuthService) RegistrationOpen() bool {
	return s.allowRegister
}

// Register creates an admin account. It is only available while
// registration is enabled by configuration.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if !s.allowRegister {
		return nil, &domain.ForbiddenError{
			Message: "Registration is disabled. Set ALLOW_INITIAL_REGISTER=true in environment to enable.",
		}
	}
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, domain.Validationf("Email and password are required.")
	}
	if !strings.Contains(email, "@") {
		return nil, domain.Validationf("Please provide a valid email address.")
	}
	if len(password) < MinPasswordLength {
		return nil, domain.Validationf("Password must be at least %d characters.", MinPasswordLength)
	}

	email = NormalizeEmail(email)
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflictf("An account with this email already exists.")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user, err := s.users.Create(ctx, email, hash, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	slog.Warn("admin account registered; disable ALLOW_INITIAL_REGISTER", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// SetupTOTP generates and stores a new TOTP secret for the user. 2FA stays
// off until EnableTOTP confirms a code.
func (s *AuthService) SetupTOTP(ctx context.Context, userID int64) (*auth.TOTPEnrollment, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NotFoundf("User not found.")
	}
	if user.Requires2FA() {
		return nil, domain.Conflictf("Two-factor authentication is already enabled.")
	}

	enrollment, err := auth.GenerateTOTP(user.Email)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetTOTPSecret(ctx, user.ID, enrollment.Secret); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// EnableTOTP turns on 2FA after the user proves the secret with a code.
func (s *AuthService) EnableTOTP(ctx context.Context, userID int64, code string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.NotFoundf("User not found.")
	}
	if user.TOTPSecret == nil {
		return domain.Validationf("Two-factor setup has not been started.")
	}
	if !auth.ValidateTOTP(strings.TrimSpace(code), *user.TOTPSecret) {
		return domain.Validationf("Invalid two-factor code.")
	}
	if err := s.users.EnableTOTP(ctx, user.ID); err != nil {
		return err
	}

	slog.Info("2fa enabled", "user_id", user.ID)
	return nil
}

// Logout revokes the token until it expires.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if s.revoker == nil || claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	return s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}
