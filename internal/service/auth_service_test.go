package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/parking-service/internal/auth"
	"github.com/spec-kit/parking-service/internal/config"
	"github.com/spec-kit/parking-service/internal/domain"
	apperrors "github.com/spec-kit/parking-service/pkg/errorutil"
)

type mockProfileRepo struct {
	createFunc     func(ctx context.Context, profile *domain.Profile) error
	getByIDFunc    func(ctx context.Context, id string) (*domain.Profile, error)
	getByEmailFunc func(ctx context.Context, email string) (*domain.Profile, error)
	listFunc       func(ctx context.Context) ([]domain.Profile, error)
}

func (m *mockProfileRepo) Create(ctx context.Context, profile *domain.Profile) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, profile)
	}
	profile.ID = "profile-1"
	return nil
}

func (m *mockProfileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockProfileRepo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockProfileRepo) List(ctx context.Context) ([]domain.Profile, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func testAuthConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 5,
			BcryptCost:            bcrypt.MinCost,
		},
	}
}

func TestRegister_StoresRoleVerbatim(t *testing.T) {
	var stored *domain.Profile
	profiles := &mockProfileRepo{
		createFunc: func(_ context.Context, profile *domain.Profile) error {
			profile.ID = "profile-1"
			stored = profile
			return nil
		},
	}

	svc := NewAuthService(testAuthConfig(), AuthDependencies{ProfileRepo: profiles})

	profile, token, _, err := svc.Register(context.Background(), "Ada", "Ada@Example.com", "secret1", domain.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, domain.RoleAdmin, profile.Role)
	assert.Equal(t, "ada@example.com", profile.Email)
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret1", stored.PasswordHash)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "profile-1", claims.ProfileID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestRegister_DefaultsToUserRole(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), AuthDependencies{ProfileRepo: &mockProfileRepo{}})

	profile, _, _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "secret1", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, profile.Role)
}

func TestRegister_RejectsUnknownRole(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), AuthDependencies{ProfileRepo: &mockProfileRepo{}})

	_, _, _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "secret1", "superuser")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	profiles := &mockProfileRepo{
		getByEmailFunc: func(_ context.Context, email string) (*domain.Profile, error) {
			return &domain.Profile{ID: "profile-1", Email: email}, nil
		},
	}
	svc := NewAuthService(testAuthConfig(), AuthDependencies{ProfileRepo: profiles})

	_, _, _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "secret1", domain.RoleUser)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONFLICT", domainErr.Code)
}

func TestLogin_Succeeds(t *testing.T) {
	hash, err := auth.HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)

	profiles := &mockProfileRepo{
		getByEmailFunc: func(_ context.Context, email string) (*domain.Profile, error) {
			return &domain.Profile{
				ID:           "profile-1",
				Email:        email,
				Role:         domain.RoleUser,
				PasswordHash: hash,
			}, nil
		},
	}
	svc := NewAuthService(testAuthConfig(), AuthDependencies{ProfileRepo: profiles})

	profile, token, exp, err := svc.Login(context.Background(), "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "profile-1", profile.ID)
	assert.NotEmpty(t, token)
	assert.False(t, exp.IsZero())
}

func TestLogin_WrongPasswordIsUnauthorized(t *testing.T) {
	hash, err := auth.HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)

	profiles := &mockProfileRepo{
		getByEmailFunc: func(_ context.Context, email string) (*domain.Profile, error) {
			return &domain.Profile{ID: "profile-1", Email: email, PasswordHash: hash}, nil
		},
	}
	svc := NewAuthService(testAuthConfig(), AuthDependencies{ProfileRepo: profiles})

	_, _, _, err = svc.Login(context.Background(), "ada@example.com", "wrong")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func TestLogin_UnknownEmailIsUnauthorized(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), AuthDependencies{ProfileRepo: &mockProfileRepo{}})

	_, _, _, err := svc.Login(context.Background(), "nobody@example.com", "secret1")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}
