package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Brekey53/atec-admin-api/internal/models"
	appErrors "github.com/Brekey53/atec-admin-api/pkg/errors"
)

type authRepoStub struct {
	users         map[string]*models.User
	refreshTokens map[string]*models.RefreshToken
	lastLoginFor  string
	revokedAllFor string
}

func (s *authRepoStub) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (s *authRepoStub) FindByID(_ context.Context, id string) (*models.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *authRepoStub) UpdateLastLogin(_ context.Context, id string, _ time.Time) error {
	s.lastLoginFor = id
	return nil
}

func (s *authRepoStub) UpdatePassword(_ context.Context, id, passwordHash string, _ time.Time) error {
	for _, user := range s.users {
		if user.ID == id {
			user.PasswordHash = passwordHash
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *authRepoStub) RevokeUserRefreshTokens(_ context.Context, userID string) error {
	s.revokedAllFor = userID
	return nil
}

func (s *authRepoStub) CreateRefreshToken(_ context.Context, token *models.RefreshToken) error {
	if s.refreshTokens == nil {
		s.refreshTokens = map[string]*models.RefreshToken{}
	}
	s.refreshTokens[token.Token] = token
	return nil
}

func (s *authRepoStub) FindRefreshToken(_ context.Context, token string) (*models.RefreshToken, error) {
	stored, ok := s.refreshTokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return stored, nil
}

func (s *authRepoStub) RevokeRefreshToken(_ context.Context, id string, revokedAt time.Time) error {
	for _, stored := range s.refreshTokens {
		if stored.ID == id {
			stored.Revoked = true
			stored.RevokedAt = &revokedAt
			return nil
		}
	}
	return sql.ErrNoRows
}

func newAuthServiceFixture(t *testing.T) (*AuthService, *authRepoStub) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &authRepoStub{
		users: map[string]*models.User{
			"ana@atec.pt": {
				ID:           "usr-1",
				Email:        "ana@atec.pt",
				FullName:     "Ana Costa",
				Role:         models.RoleAdmin,
				PasswordHash: string(hash),
				Active:       true,
			},
		},
		refreshTokens: map[string]*models.RefreshToken{},
	}
	service := NewAuthService(repo, nil, nil, AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "atec-admin-api",
	})
	return service, repo
}

func TestAuthServiceLoginIssuesValidTokenPair(t *testing.T) {
	service, repo := newAuthServiceFixture(t)

	resp, err := service.Login(context.Background(), models.LoginRequest{
		Email:    "ana@atec.pt",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "usr-1", resp.User.ID)
	assert.Equal(t, "usr-1", repo.lastLoginFor)
	assert.Contains(t, repo.refreshTokens, resp.RefreshToken)

	claims, err := service.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "usr-1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "ana@atec.pt", claims.Email)
}

func TestAuthServiceLoginRejectsWrongPassword(t *testing.T) {
	service, _ := newAuthServiceFixture(t)

	_, err := service.Login(context.Background(), models.LoginRequest{
		Email:    "ana@atec.pt",
		Password: "not-the-password",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginRejectsInactiveAccount(t *testing.T) {
	service, repo := newAuthServiceFixture(t)
	repo.users["ana@atec.pt"].Active = false

	_, err := service.Login(context.Background(), models.LoginRequest{
		Email:    "ana@atec.pt",
		Password: "secret123",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRefreshRotatesToken(t *testing.T) {
	service, repo := newAuthServiceFixture(t)

	login, err := service.Login(context.Background(), models.LoginRequest{
		Email:    "ana@atec.pt",
		Password: "secret123",
	})
	require.NoError(t, err)

	refreshed, err := service.RefreshToken(context.Background(), models.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.True(t, repo.refreshTokens[login.RefreshToken].Revoked)
	assert.Contains(t, repo.refreshTokens, refreshed.RefreshToken)

	_, err = service.RefreshToken(context.Background(), models.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenRejectsForeignSignature(t *testing.T) {
	service, _ := newAuthServiceFixture(t)
	other := NewAuthService(&authRepoStub{}, nil, nil, AuthConfig{
		AccessTokenSecret: "another-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "atec-admin-api",
	})

	token, err := other.generateAccessToken(&models.User{ID: "usr-9", Role: models.RoleTrainer})
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
