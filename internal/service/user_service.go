package service

import (
	"context"
	"errors"
	"net/url"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"tourbase/internal/model/user"
	"tourbase/internal/pkg/apperror"
	"tourbase/internal/query"
	userRepo "tourbase/internal/repository/user"
)

// UserService orchestrates account management outside the credential
// lifecycle.
type UserService struct {
	users *userRepo.Repo
}

// NewUserService creates a user service.
func NewUserService(users *userRepo.Repo) *UserService {
	return &UserService{users: users}
}

// List translates the raw query string and executes it.
func (s *UserService) List(ctx context.Context, values url.Values) ([]*user.User, error) {
	return s.users.Find(ctx, query.Translate(values))
}

// Get fetches one user.
func (s *UserService) Get(ctx context.Context, idHex string) (*user.User, error) {
	id, err := parseID(idHex)
	if err != nil {
		return nil, err
	}

	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("no user found with that ID")
		}
		return nil, err
	}
	return u, nil
}

// UpdateMe lets an authenticated user change their own name, email or
// photo. Password and role changes go through their dedicated routes.
func (s *UserService) UpdateMe(ctx context.Context, u *user.User, name, email, photo string) (*user.User, error) {
	set := bson.M{}
	if name != "" {
		set["name"] = name
	}
	if email != "" {
		set["email"] = email
	}
	if photo != "" {
		set["photo"] = photo
	}
	if len(set) == 0 {
		return u, nil
	}

	updated, err := s.users.UpdateByID(ctx, u.ID, set)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeactivateMe soft-deletes the authenticated user's account.
func (s *UserService) DeactivateMe(ctx context.Context, u *user.User) error {
	return s.users.Deactivate(ctx, u.ID)
}

// Update patches a user (admin only). Credentials cannot be patched
// through this path.
func (s *UserService) Update(ctx context.Context, idHex string, patch bson.M) (*user.User, error) {
	id, err := parseID(idHex)
	if err != nil {
		return nil, err
	}

	for _, forbidden := range []string{"_id", "id", "password", "passwordConfirm", "passwordResetToken", "passwordResetExpires", "passwordChangedAt"} {
		delete(patch, forbidden)
	}

	if role, ok := patch["role"].(string); ok && !user.Role(role).IsValid() {
		return nil, apperror.BadRequest("role must be one of: user, guide, lead-guide, admin")
	}

	u, err := s.users.UpdateByID(ctx, id, patch)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("no user found with that ID")
		}
		return nil, err
	}
	return u, nil
}

// Delete hard-deletes a user (admin only).
func (s *UserService) Delete(ctx context.Context, idHex string) error {
	id, err := parseID(idHex)
	if err != nil {
		return err
	}

	if err := s.users.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperror.NotFound("no user found with that ID")
		}
		return err
	}
	return nil
}
