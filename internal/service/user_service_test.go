package service

import (
	"context"
	"testing"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type userRepoStub struct {
	getByIDFn     func(context.Context, uint) (*models.User, error)
	getByEmailFn  func(context.Context, string) (*models.User, error)
	getByHandleFn func(context.Context, string) (*models.User, error)
	createFn      func(context.Context, *models.User) error
	updateFn      func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByHandle(ctx context.Context, handle string) (*models.User, error) {
	return s.getByHandleFn(ctx, handle)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

type followRepoStub struct {
	createFn         func(context.Context, uint, uint) error
	deleteFn         func(context.Context, uint, uint) error
	existsFn         func(context.Context, uint, uint) (bool, error)
	countFollowersFn func(context.Context, uint) (int64, error)
	countFollowingFn func(context.Context, uint) (int64, error)
	listFollowersFn  func(context.Context, uint, models.CursorClaims, int) ([]*models.Follower, error)
	listFollowingFn  func(context.Context, uint, models.CursorClaims, int) ([]*models.Follower, error)
}

func (s *followRepoStub) Create(ctx context.Context, followerID, followeeID uint) error {
	return s.createFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) Delete(ctx context.Context, followerID, followeeID uint) error {
	return s.deleteFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) Exists(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.existsFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowersFn(ctx, userID)
}
func (s *followRepoStub) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowingFn(ctx, userID)
}
func (s *followRepoStub) ListFollowers(ctx context.Context, userID uint, claims models.CursorClaims, limit int) ([]*models.Follower, error) {
	return s.listFollowersFn(ctx, userID, claims, limit)
}
func (s *followRepoStub) ListFollowing(ctx context.Context, userID uint, claims models.CursorClaims, limit int) ([]*models.Follower, error) {
	return s.listFollowingFn(ctx, userID, claims, limit)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(context.Context, uint) (*models.User, error) {
			return &models.User{ID: 1, IsProfileComplete: true}, nil
		},
		getByEmailFn:  func(context.Context, string) (*models.User, error) { return nil, nil },
		getByHandleFn: func(context.Context, string) (*models.User, error) { return &models.User{}, nil },
		createFn:      func(context.Context, *models.User) error { return nil },
		updateFn:      func(context.Context, *models.User) error { return nil },
	}
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn:         func(context.Context, uint, uint) error { return nil },
		deleteFn:         func(context.Context, uint, uint) error { return nil },
		existsFn:         func(context.Context, uint, uint) (bool, error) { return false, nil },
		countFollowersFn: func(context.Context, uint) (int64, error) { return 0, nil },
		countFollowingFn: func(context.Context, uint) (int64, error) { return 0, nil },
		listFollowersFn: func(context.Context, uint, models.CursorClaims, int) ([]*models.Follower, error) {
			return nil, nil
		},
		listFollowingFn: func(context.Context, uint, models.CursorClaims, int) ([]*models.Follower, error) {
			return nil, nil
		},
	}
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestUserServiceRegister(t *testing.T) {
	t.Parallel()

	const goodPassword = "Str0ngEnough!pass"

	tests := []struct {
		name         string
		input        RegisterInput
		existing     *models.User
		expectedCode string
	}{
		{
			name:  "success",
			input: RegisterInput{Email: "ada@example.com", Password: goodPassword, PasswordConfirm: goodPassword},
		},
		{
			name:         "invalid email",
			input:        RegisterInput{Email: "not-an-email", Password: goodPassword, PasswordConfirm: goodPassword},
			expectedCode: models.CodeValidation,
		},
		{
			name:         "weak password",
			input:        RegisterInput{Email: "ada@example.com", Password: "short", PasswordConfirm: "short"},
			expectedCode: models.CodeValidation,
		},
		{
			name:         "password mismatch",
			input:        RegisterInput{Email: "ada@example.com", Password: goodPassword, PasswordConfirm: goodPassword + "x"},
			expectedCode: models.CodePasswordMismatch,
		},
		{
			name:         "email taken",
			input:        RegisterInput{Email: "taken@example.com", Password: goodPassword, PasswordConfirm: goodPassword},
			existing:     &models.User{ID: 2, Email: "taken@example.com"},
			expectedCode: models.CodeAlreadyRegistered,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			userRepo := noopUserRepo()
			userRepo.getByEmailFn = func(context.Context, string) (*models.User, error) {
				return tt.existing, nil
			}
			var created *models.User
			userRepo.createFn = func(_ context.Context, u *models.User) error {
				created = u
				return nil
			}

			svc := NewUserService(userRepo, noopFollowRepo())
			user, err := svc.Register(context.Background(), tt.input)

			if tt.expectedCode != "" {
				assertAppError(t, err, tt.expectedCode)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, created)
			assert.Equal(t, tt.input.Email, user.Email)
			assert.NotEqual(t, tt.input.Password, user.Password, "password must be stored hashed")
			assert.False(t, user.IsProfileComplete)
		})
	}
}

func TestUserServiceAuthenticate(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("Str0ngEnough!pass"), bcrypt.MinCost)
	require.NoError(t, err)
	account := &models.User{ID: 1, Email: "ada@example.com", Password: string(hash)}

	tests := []struct {
		name         string
		email        string
		password     string
		stored       *models.User
		expectedCode string
	}{
		{name: "success", email: "ada@example.com", password: "Str0ngEnough!pass", stored: account},
		{name: "unknown email", email: "ghost@example.com", password: "Str0ngEnough!pass", expectedCode: models.CodeInvalidCreds},
		{name: "wrong password", email: "ada@example.com", password: "WrongPassword1", stored: account, expectedCode: models.CodeInvalidCreds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			userRepo := noopUserRepo()
			userRepo.getByEmailFn = func(context.Context, string) (*models.User, error) {
				return tt.stored, nil
			}

			svc := NewUserService(userRepo, noopFollowRepo())
			user, err := svc.Authenticate(context.Background(), tt.email, tt.password)

			if tt.expectedCode != "" {
				assertAppError(t, err, tt.expectedCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, account.ID, user.ID)
		})
	}
}

func TestUserServiceMeRequiresProfile(t *testing.T) {
	t.Parallel()

	userRepo := noopUserRepo()
	userRepo.getByIDFn = func(context.Context, uint) (*models.User, error) {
		return &models.User{ID: 1, Email: "ada@example.com"}, nil
	}

	svc := NewUserService(userRepo, noopFollowRepo())
	_, err := svc.Me(context.Background(), 1)
	assertAppError(t, err, models.CodeProfileNotCreated)
}

func TestUserServiceUpsertProfile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        UpsertProfileInput
		expectedCode string
	}{
		{
			name:  "success",
			input: UpsertProfileInput{UserID: 1, Name: "Ada", Handle: "ada_l", Bio: "counting machines"},
		},
		{
			name:         "reserved handle",
			input:        UpsertProfileInput{UserID: 1, Name: "Ada", Handle: "admin"},
			expectedCode: models.CodeValidation,
		},
		{
			name:         "bad handle characters",
			input:        UpsertProfileInput{UserID: 1, Name: "Ada", Handle: "Ada Lovelace"},
			expectedCode: models.CodeValidation,
		},
		{
			name:         "missing name",
			input:        UpsertProfileInput{UserID: 1, Handle: "ada_l"},
			expectedCode: models.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			userRepo := noopUserRepo()
			userRepo.getByIDFn = func(context.Context, uint) (*models.User, error) {
				return &models.User{ID: 1, Email: "ada@example.com"}, nil
			}
			var saved *models.User
			userRepo.updateFn = func(_ context.Context, u *models.User) error {
				saved = u
				return nil
			}

			svc := NewUserService(userRepo, noopFollowRepo())
			user, err := svc.UpsertProfile(context.Background(), tt.input)

			if tt.expectedCode != "" {
				assertAppError(t, err, tt.expectedCode)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, saved)
			assert.True(t, user.IsProfileComplete)
			assert.Equal(t, tt.input.Handle, user.Handle)
		})
	}
}

func TestUserServiceGetProfileByHandle(t *testing.T) {
	t.Parallel()

	t.Run("incomplete profile is hidden", func(t *testing.T) {
		t.Parallel()

		userRepo := noopUserRepo()
		userRepo.getByHandleFn = func(context.Context, string) (*models.User, error) {
			return &models.User{ID: 2, Handle: "ada"}, nil
		}

		svc := NewUserService(userRepo, noopFollowRepo())
		_, err := svc.GetProfileByHandle(context.Background(), "ada")
		assertAppError(t, err, models.CodeProfileNotCreated)
	})

	t.Run("includes follow counts", func(t *testing.T) {
		t.Parallel()

		userRepo := noopUserRepo()
		userRepo.getByHandleFn = func(context.Context, string) (*models.User, error) {
			return &models.User{ID: 2, Name: "Ada", Handle: "ada", Bio: "hello", IsProfileComplete: true}, nil
		}
		followRepo := noopFollowRepo()
		followRepo.countFollowersFn = func(context.Context, uint) (int64, error) { return 12, nil }
		followRepo.countFollowingFn = func(context.Context, uint) (int64, error) { return 3, nil }

		svc := NewUserService(userRepo, followRepo)
		profile, err := svc.GetProfileByHandle(context.Background(), "ada")
		require.NoError(t, err)
		assert.Equal(t, "ada", profile.Handle)
		assert.Equal(t, int64(12), profile.FollowerCount)
		assert.Equal(t, int64(3), profile.FollowingCount)
	})
}
