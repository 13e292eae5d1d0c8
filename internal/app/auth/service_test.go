package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	dbc "channelchat/internal/app/db/sqlc"
	"channelchat/internal/app/user"
	"channelchat/internal/configs"
	"channelchat/internal/pkg/auth/jwt"
	"channelchat/internal/pkg/errs"
)

const testSecret = "test-secret"

func init() {
	hashCost = bcrypt.MinCost
}

func newTestService(t *testing.T) (*Service, *MockUserStore, *MockSessionCloser) {
	t.Helper()

	ctrl := gomock.NewController(t)
	store := NewMockUserStore(ctrl)
	sessions := NewMockSessionCloser(ctrl)

	cfg := &configs.AppConfig{JWTSecret: testSecret, TokenTTL: time.Hour}
	return NewService(cfg, store, sessions), store, sessions
}

func storedUser(t *testing.T, password, jti string) dbc.GetUserByEmailRow {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return dbc.GetUserByEmailRow{
		ID:           7,
		Email:        "ann@example.com",
		FullName:     "Ann",
		PasswordHash: string(hash),
		RoleID:       pgtype.Int8{Int64: 2, Valid: true},
		RoleName:     pgtype.Text{String: "member", Valid: true},
		CurrentJti:   pgtype.Text{String: jti, Valid: jti != ""},
	}
}

func storedIdentity() user.Identity {
	return user.Identity{ID: 7, Name: "Ann", RoleID: 2, RoleName: "member"}
}

func TestRegisterBindsDefaultRole(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	store.EXPECT().GetRoleByName(ctx, DefaultRole).Return(dbc.Role{ID: 2, Name: DefaultRole}, nil)
	store.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, arg dbc.CreateUserParams) (dbc.User, error) {
			assert.Equal(t, "ann@example.com", arg.Email, "email is normalised")
			assert.Equal(t, "Ann", arg.FullName)
			assert.Equal(t, pgtype.Int8{Int64: 2, Valid: true}, arg.RoleID)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(arg.PasswordHash), []byte("secret1")))
			return dbc.User{ID: 7, Email: arg.Email, FullName: arg.FullName, RoleID: arg.RoleID}, nil
		})

	identity, customErr := svc.Register(ctx, RegisterInput{Email: " Ann@Example.com ", FullName: " Ann ", Password: "secret1"})
	require.Nil(t, customErr)
	assert.Equal(t, int64(7), identity.ID)
	assert.Equal(t, "Ann", identity.Name)
	assert.Equal(t, int64(2), identity.RoleID)
	assert.Equal(t, DefaultRole, identity.RoleName)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	tests := []struct {
		name string
		in   RegisterInput
		code int
	}{
		{"bad email", RegisterInput{Email: "nope", FullName: "Ann", Password: "secret1"}, errs.ErrInvalidEmail},
		{"blank name", RegisterInput{Email: "a@b.io", FullName: "  ", Password: "secret1"}, errs.ErrInvalidParams},
		{"short password", RegisterInput{Email: "a@b.io", FullName: "Ann", Password: "abc"}, errs.ErrInvalidPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, customErr := svc.Register(context.Background(), tt.in)
			require.NotNil(t, customErr)
			assert.Equal(t, tt.code, customErr.Code)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, store, _ := newTestService(t)

	store.EXPECT().GetRoleByName(gomock.Any(), DefaultRole).Return(dbc.Role{}, pgx.ErrNoRows)
	store.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(dbc.User{}, &pgconn.PgError{Code: "23505"})

	_, customErr := svc.Register(context.Background(), RegisterInput{Email: "a@b.io", FullName: "Ann", Password: "secret1"})
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrUserAlreadyExists, customErr.Code)
}

func TestLoginStartsSessionAndVerifyHonoursIt(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	row := storedUser(t, "secret1", "")

	var started string
	store.EXPECT().GetUserByEmail(ctx, "ann@example.com").Return(row, nil)
	store.EXPECT().StartUserSession(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, arg dbc.StartUserSessionParams) error {
			assert.Equal(t, int64(7), arg.ID)
			require.True(t, arg.CurrentJti.Valid)
			started = arg.CurrentJti.String
			return nil
		})

	token, identity, customErr := svc.Login(ctx, "ann@example.com", "secret1")
	require.Nil(t, customErr)
	assert.Equal(t, int64(7), identity.ID)

	payload, err := jwt.ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, started, payload.SessionID())

	row.CurrentJti = pgtype.Text{String: started, Valid: true}
	store.EXPECT().GetUserByEmail(ctx, "ann@example.com").Return(row, nil)

	verified, err := svc.VerifyIdentity(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, identity, verified)
	assert.Equal(t, "member", verified.RoleName)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, store, _ := newTestService(t)

	store.EXPECT().GetUserByEmail(gomock.Any(), "ann@example.com").Return(storedUser(t, "secret1", ""), nil)
	store.EXPECT().GetUserByEmail(gomock.Any(), "ghost@example.com").Return(dbc.GetUserByEmailRow{}, pgx.ErrNoRows)

	_, _, customErr := svc.Login(context.Background(), "ann@example.com", "wrong")
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrInvalidCredentials, customErr.Code)

	_, _, customErr = svc.Login(context.Background(), "ghost@example.com", "secret1")
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrInvalidCredentials, customErr.Code)
}

func TestVerifyIdentityRejectsRotatedSession(t *testing.T) {
	svc, store, _ := newTestService(t)

	token, err := jwt.GenerateToken("ann@example.com", "member", "old-jti", testSecret, time.Hour)
	require.NoError(t, err)

	store.EXPECT().GetUserByEmail(gomock.Any(), "ann@example.com").Return(storedUser(t, "secret1", "new-jti"), nil)

	_, err = svc.VerifyIdentity(context.Background(), token)
	assert.ErrorIs(t, err, ErrSessionRevoked)
}

func TestVerifyIdentityRejectsLoggedOutUser(t *testing.T) {
	svc, store, _ := newTestService(t)

	token, err := jwt.GenerateToken("ann@example.com", "member", "old-jti", testSecret, time.Hour)
	require.NoError(t, err)

	store.EXPECT().GetUserByEmail(gomock.Any(), "ann@example.com").Return(storedUser(t, "secret1", ""), nil)

	_, customErr := svc.Authenticate(context.Background(), token)
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrUnauthorized, customErr.Code)
}

func TestAuthenticateMalformedToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	for _, token := range []string{"", "not-a-token"} {
		_, customErr := svc.Authenticate(context.Background(), token)
		require.NotNil(t, customErr)
		assert.Equal(t, errs.ErrUnauthorized, customErr.Code)
	}
}

func TestAuthenticateStoreFailureIsInternal(t *testing.T) {
	svc, store, _ := newTestService(t)

	token, err := jwt.GenerateToken("ann@example.com", "", "jti", testSecret, time.Hour)
	require.NoError(t, err)
	store.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(dbc.GetUserByEmailRow{}, errors.New("db down"))

	_, customErr := svc.Authenticate(context.Background(), token)
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrUnknown, customErr.Code)
}

func TestLogoutEndsSessionAndClosesSockets(t *testing.T) {
	svc, store, sessions := newTestService(t)
	ctx := context.Background()

	gomock.InOrder(
		store.EXPECT().EndUserSession(ctx, int64(7)).Return(nil),
		sessions.EXPECT().DisconnectUser(int64(7), websocket.ClosePolicyViolation, gomock.Any()).Return(2),
	)

	customErr := svc.Logout(ctx, storedIdentity())
	assert.Nil(t, customErr)
}

func TestLogoutStoreFailureKeepsSockets(t *testing.T) {
	svc, store, _ := newTestService(t)

	store.EXPECT().EndUserSession(gomock.Any(), int64(7)).Return(errors.New("db down"))

	customErr := svc.Logout(context.Background(), storedIdentity())
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrUnknown, customErr.Code)
}
