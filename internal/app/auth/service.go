/*
Package auth manages accounts and login sessions.

A session is a signed token whose jti must equal the user's current session marker in
storage. Logging in rotates the marker and logging out clears it, so at most one token per
user is honoured at a time. The Service also resolves tokens into identities for the
realtime layer.
*/
package auth

//go:generate mockgen -source=service.go -destination=mocks_test.go -package=auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"channelchat/internal/app/chat"
	"channelchat/internal/app/db"
	dbc "channelchat/internal/app/db/sqlc"
	"channelchat/internal/app/user"
	"channelchat/internal/configs"
	"channelchat/internal/pkg/auth/jwt"
	"channelchat/internal/pkg/errs"
	"channelchat/internal/pkg/logx"
	"channelchat/internal/pkg/randx"
)

// DefaultRole is bound to self-registered accounts.
const DefaultRole = "member"

var (
	// ErrSessionRevoked is returned for a well-formed token that is no longer the user's session.
	ErrSessionRevoked = errors.New("session revoked")

	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

	// hashCost is lowered by tests.
	hashCost = bcrypt.DefaultCost
)

// UserStore is the persistence the Service needs. *dbc.Queries satisfies it.
type UserStore interface {
	CreateUser(ctx context.Context, arg dbc.CreateUserParams) (dbc.User, error)
	GetUserByEmail(ctx context.Context, email string) (dbc.GetUserByEmailRow, error)
	GetRoleByName(ctx context.Context, name string) (dbc.Role, error)
	StartUserSession(ctx context.Context, arg dbc.StartUserSessionParams) error
	EndUserSession(ctx context.Context, id int64) error
}

// SessionCloser force-closes a user's live connections. *chat.Registry satisfies it.
type SessionCloser interface {
	DisconnectUser(userID int64, code int, reason string) int
}

var _ chat.IdentityVerifier = (*Service)(nil)

// Service implements registration, login, logout and token verification.
type Service struct {
	store    UserStore
	sessions SessionCloser
	secret   string
	ttl      time.Duration
	logger   zerolog.Logger
}

// NewService builds a Service. sessions may be nil when no realtime layer runs.
func NewService(cfg *configs.AppConfig, store UserStore, sessions SessionCloser) *Service {
	return &Service{
		store:    store,
		sessions: sessions,
		secret:   cfg.JWTSecret,
		ttl:      cfg.TokenTTL,
		logger:   logx.Component("Auth"),
	}
}

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

// Register creates an account bound to DefaultRole when that role exists.
func (s *Service) Register(ctx context.Context, in RegisterInput) (user.Identity, *errs.CustomError) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.FullName)

	if !emailRegex.MatchString(email) {
		return user.Identity{}, errs.NewError(errs.ErrInvalidEmail)
	}
	if n := utf8.RuneCountInString(name); n == 0 || n > 100 {
		return user.Identity{}, errs.NewError(errs.ErrInvalidParams)
	}
	if customErr := validatePassword(in.Password); customErr != nil {
		return user.Identity{}, customErr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), hashCost)
	if err != nil {
		return user.Identity{}, errs.NewError(errs.ErrUnknown, err)
	}

	var roleID pgtype.Int8
	roleName := ""
	role, err := s.store.GetRoleByName(ctx, DefaultRole)
	switch {
	case err == nil:
		roleID = db.Int8(role.ID)
		roleName = role.Name
	case db.IsNotFound(err):
		s.logger.Warn().Str("role", DefaultRole).Msg("Default role missing, registering without a role.")
	default:
		return user.Identity{}, errs.NewError(errs.ErrUnknown, fmt.Errorf("failed to load default role: %w", err))
	}

	created, err := s.store.CreateUser(ctx, dbc.CreateUserParams{
		Email:        email,
		FullName:     name,
		PasswordHash: string(hash),
		RoleID:       roleID,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			s.logger.Warn().Str("email", email).Msg("Registration conflict: email already exists.")
			return user.Identity{}, errs.NewError(errs.ErrUserAlreadyExists)
		}
		return user.Identity{}, errs.NewError(errs.ErrUnknown, fmt.Errorf("failed to create user: %w", err))
	}

	s.logger.Info().Int64("user_id", created.ID).Msg("User registered.")
	return user.Identity{
		ID:       created.ID,
		Name:     created.FullName,
		RoleID:   db.Int8Value(created.RoleID),
		RoleName: roleName,
	}, nil
}

// Login checks the credentials, starts a new session and returns its signed token.
// Any earlier token of the user stops being honoured.
func (s *Service) Login(ctx context.Context, email, password string) (string, user.Identity, *errs.CustomError) {
	email = strings.ToLower(strings.TrimSpace(email))

	row, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if !db.IsNotFound(err) {
			s.logger.Error().Err(err).Msg("Login: user lookup failed.")
			return "", user.Identity{}, errs.NewError(errs.ErrUnknown)
		}
		s.logger.Warn().Str("email", email).Msg("Login: unknown email.")
		return "", user.Identity{}, errs.NewError(errs.ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn().Int64("user_id", row.ID).Msg("Login: password mismatch.")
		return "", user.Identity{}, errs.NewError(errs.ErrInvalidCredentials)
	}

	sessionID := randx.SessionID()
	if err := s.store.StartUserSession(ctx, dbc.StartUserSessionParams{
		ID:         row.ID,
		CurrentJti: pgtype.Text{String: sessionID, Valid: true},
	}); err != nil {
		s.logger.Error().Err(err).Int64("user_id", row.ID).Msg("Login: failed to start session.")
		return "", user.Identity{}, errs.NewError(errs.ErrUnknown)
	}

	token, err := jwt.GenerateToken(row.Email, row.RoleName.String, sessionID, s.secret, s.ttl)
	if err != nil {
		s.logger.Error().Err(err).Msg("Login: token generation failed.")
		return "", user.Identity{}, errs.NewError(errs.ErrUnknown)
	}

	return token, identityOf(row), nil
}

// Logout ends the user's session and closes their live connections.
func (s *Service) Logout(ctx context.Context, identity user.Identity) *errs.CustomError {
	if err := s.store.EndUserSession(ctx, identity.ID); err != nil {
		s.logger.Error().Err(err).Int64("user_id", identity.ID).Msg("Logout: failed to end session.")
		return errs.NewError(errs.ErrUnknown)
	}

	if s.sessions != nil {
		n := s.sessions.DisconnectUser(identity.ID, websocket.ClosePolicyViolation, "session ended")
		s.logger.Info().Int64("user_id", identity.ID).Int("closed_connections", n).Msg("User logged out.")
	}
	return nil
}

// Authenticate resolves token into the identity of its user, as a client-facing error.
func (s *Service) Authenticate(ctx context.Context, token string) (user.Identity, *errs.CustomError) {
	identity, err := s.VerifyIdentity(ctx, token)
	if err != nil {
		if errors.Is(err, jwt.ErrInvalidToken) || errors.Is(err, ErrSessionRevoked) || db.IsNotFound(err) {
			return user.Identity{}, errs.NewError(errs.ErrUnauthorized)
		}
		s.logger.Error().Err(err).Msg("Token verification failed.")
		return user.Identity{}, errs.NewError(errs.ErrUnknown)
	}
	return identity, nil
}

// VerifyIdentity validates token and returns the identity of the user behind it.
func (s *Service) VerifyIdentity(ctx context.Context, token string) (user.Identity, error) {
	if token == "" {
		return user.Identity{}, jwt.ErrInvalidToken
	}

	payload, err := jwt.ParseToken(token, s.secret)
	if err != nil {
		return user.Identity{}, fmt.Errorf("%w: %v", jwt.ErrInvalidToken, err)
	}

	row, err := s.store.GetUserByEmail(ctx, payload.Email())
	if err != nil {
		return user.Identity{}, fmt.Errorf("failed to load user of token: %w", err)
	}

	if !row.CurrentJti.Valid || row.CurrentJti.String != payload.SessionID() {
		return user.Identity{}, ErrSessionRevoked
	}

	return identityOf(row), nil
}

func identityOf(row dbc.GetUserByEmailRow) user.Identity {
	return user.Identity{
		ID:       row.ID,
		Name:     row.FullName,
		RoleID:   db.Int8Value(row.RoleID),
		RoleName: row.RoleName.String,
	}
}

func validatePassword(password string) *errs.CustomError {
	// bcrypt ignores input past 72 bytes.
	if n := utf8.RuneCountInString(password); n < 6 || len(password) > 72 {
		return errs.NewError(errs.ErrInvalidPassword)
	}
	return nil
}
