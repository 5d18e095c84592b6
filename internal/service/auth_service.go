package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"tourbase/internal/model/user"
	"tourbase/internal/pkg/apperror"
	"tourbase/internal/pkg/jwt"
	userRepo "tourbase/internal/repository/user"
	"tourbase/internal/security"
)

// AuthService owns signup, login and the password lifecycle.
type AuthService struct {
	users *userRepo.Repo
	creds *security.Manager
	jwt   *jwt.JWT
}

// NewAuthService creates an auth service.
func NewAuthService(users *userRepo.Repo, creds *security.Manager, jwtSecret string, tokenExpiry time.Duration) *AuthService {
	return &AuthService{
		users: users,
		creds: creds,
		jwt:   jwt.NewJWT(jwtSecret, tokenExpiry),
	}
}

// Signup creates a new account and returns it with a fresh token.
// Role always starts as "user"; privilege escalation through the
// signup payload is not possible.
func (s *AuthService) Signup(ctx context.Context, u *user.User) (string, error) {
	u.Role = user.RoleUser
	u.SetDefaults()
	if err := u.Validate(); err != nil {
		return "", err
	}

	if err := s.creds.PreSave(u, true, true); err != nil {
		log.Error().Err(err).Msg("failed to hash password")
		return "", err
	}

	if err := s.users.Create(ctx, u); err != nil {
		return "", err
	}

	return s.jwt.GenerateToken(u.ID.Hex())
}

// Login verifies credentials and returns the user with a fresh token.
func (s *AuthService) Login(ctx context.Context, email, pwd string) (*user.User, string, error) {
	if email == "" || pwd == "" {
		return nil, "", apperror.BadRequest("please provide email and password")
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil || !s.creds.CorrectPassword(pwd, u.Password) {
		return nil, "", apperror.Unauthorized("incorrect email or password")
	}

	token, err := s.jwt.GenerateToken(u.ID.Hex())
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// ForgotPassword issues a reset token for the account. The raw token
// is returned to the caller for delivery; only its hash persists.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", apperror.NotFound("there is no user with that email address")
	}

	token, err := s.creds.CreateResetToken(u)
	if err != nil {
		return "", err
	}

	if err := s.users.Save(ctx, u); err != nil {
		return "", err
	}

	log.Info().Str("user_id", u.ID.Hex()).Msg("password reset token issued")
	return token, nil
}

// ResetPassword consumes a raw reset token and sets a new password,
// returning the user with a fresh access token.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, pwd, pwdConfirm string) (*user.User, string, error) {
	u, err := s.users.FindByResetToken(ctx, security.HashResetToken(rawToken))
	if err != nil || !s.creds.ResetTokenValid(u, rawToken, time.Now()) {
		return nil, "", apperror.BadRequest("token is invalid or has expired")
	}

	u.Password = pwd
	u.PasswordConfirm = pwdConfirm
	if err := u.Validate(); err != nil {
		return nil, "", err
	}

	if err := s.creds.PreSave(u, true, false); err != nil {
		return nil, "", err
	}
	s.creds.ClearResetToken(u)

	if err := s.users.Save(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.jwt.GenerateToken(u.ID.Hex())
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// UpdatePassword changes the password of an authenticated user after
// verifying the current one.
func (s *AuthService) UpdatePassword(ctx context.Context, u *user.User, current, pwd, pwdConfirm string) (string, error) {
	if !s.creds.CorrectPassword(current, u.Password) {
		return "", apperror.Unauthorized("your current password is wrong")
	}

	u.Password = pwd
	u.PasswordConfirm = pwdConfirm
	if err := u.Validate(); err != nil {
		return "", err
	}

	if err := s.creds.PreSave(u, true, false); err != nil {
		return "", err
	}

	if err := s.users.Save(ctx, u); err != nil {
		return "", err
	}

	return s.jwt.GenerateToken(u.ID.Hex())
}

// CurrentUser resolves the actor behind an access token. It fails when
// the token is invalid, the account no longer exists (or was
// deactivated), or the password changed after the token was issued.
func (s *AuthService) CurrentUser(ctx context.Context, tokenString string) (*user.User, error) {
	claims, err := s.jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, apperror.Wrap(401, "invalid token, please log in again", err)
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, apperror.Unauthorized("invalid token, please log in again")
	}

	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.Unauthorized("the user belonging to this token does no longer exist")
		}
		return nil, err
	}

	if claims.IssuedAt != nil && s.creds.ChangedPasswordAfter(u, claims.IssuedAt.Unix()) {
		return nil, apperror.Unauthorized("user recently changed password, please log in again")
	}

	return u, nil
}
