// Package service contains the business logic for the application.
package service

import (
	"context"

	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

// UserService provides account and profile business logic.
type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

// RegisterInput carries the signup request fields.
type RegisterInput struct {
	Email           string
	Password        string
	PasswordConfirm string
}

// UpsertProfileInput carries the profile upsert fields.
type UpsertProfileInput struct {
	UserID uint
	Name   string
	Handle string
	Avatar string
	Bio    string
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *UserService {
	return &UserService{userRepo: userRepo, followRepo: followRepo}
}

// Register creates an account from a signup request. The profile (name,
// handle) stays empty until UpsertProfile completes it.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.Password != in.PasswordConfirm {
		return nil, models.NewPasswordMismatchError()
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewAlreadyRegisteredError()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewValidationError("Failed to process password")
	}

	user := &models.User{
		Email:    in.Email,
		Password: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate verifies email and password. The same error is returned for
// an unknown email and a wrong password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewInvalidCredentialsError()
	}

	return user, nil
}

// Me returns the viewer's own account. Accounts without a completed profile
// get ProfileNotCreated so clients know to run profile setup first.
func (s *UserService) Me(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsProfileComplete {
		return nil, models.NewProfileNotCreatedError()
	}
	return user, nil
}

// UpsertProfile creates or updates the viewer's public profile and marks the
// account profile-complete.
func (s *UserService) UpsertProfile(ctx context.Context, in UpsertProfileInput) (*models.User, error) {
	if err := validation.ValidateDisplayName(in.Name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateHandle(in.Handle); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateBio(in.Bio); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	user.Name = in.Name
	user.Handle = in.Handle
	user.Avatar = in.Avatar
	user.Bio = in.Bio
	user.IsProfileComplete = true

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetProfileByHandle returns a public profile with follower and following
// counts fetched concurrently.
func (s *UserService) GetProfileByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	user, err := s.userRepo.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	if !user.IsProfileComplete {
		return nil, models.NewProfileNotCreatedError()
	}

	var followers, following int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		followers, err = s.followRepo.CountFollowers(gctx, user.ID)
		return err
	})
	g.Go(func() error {
		var err error
		following, err = s.followRepo.CountFollowing(gctx, user.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.Profile{
		PublicProfile:  user.Public(),
		Bio:            user.Bio,
		FollowerCount:  followers,
		FollowingCount: following,
	}, nil
}
