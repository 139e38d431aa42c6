package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/iliyamo/restaurant-orders/internal/logger"
	"github.com/iliyamo/restaurant-orders/internal/model"
	"github.com/iliyamo/restaurant-orders/internal/repository"
	"github.com/iliyamo/restaurant-orders/internal/utils"
)

// msgBadCredentials is shared by every login failure so callers cannot tell
// an unknown user from a wrong password.
const msgBadCredentials = "invalid username or password"

// AuthConfig holds the token and hashing settings.
type AuthConfig struct {
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	BcryptCost int
}

// AuthService authenticates staff and manages their sessions.
type AuthService struct {
	tenants TenantStore
	users   UserStore
	tokens  TokenStore
	cfg     AuthConfig
	log     *logger.Logger
}

func NewAuthService(s Stores, cfg AuthConfig, log *logger.Logger) *AuthService {
	return &AuthService{tenants: s.Tenants, users: s.Users, tokens: s.Tokens, cfg: cfg, log: log.WithComponent("auth")}
}

// Session is what a successful login or refresh returns.
type Session struct {
	User             model.User `json:"user"`
	Token            string     `json:"token"`
	ExpiresAt        time.Time  `json:"expires_at"`
	RefreshToken     string     `json:"refresh_token"`
	RefreshExpiresAt time.Time  `json:"refresh_expires_at"`
}

// Login verifies identifier (username or email) and password and opens a
// session.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (Session, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return Session{}, Validation("username/email and password are required")
	}
	u, err := s.users.GetActiveByLogin(ctx, identifier)
	if errors.Is(err, repository.ErrNotFound) {
		utils.RejectPassword(password)
		return Session{}, Unauthorized(msgBadCredentials)
	}
	if err != nil {
		return Session{}, Internal(err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return Session{}, Unauthorized(msgBadCredentials)
	}
	sess, err := s.issue(ctx, u)
	if err != nil {
		return Session{}, err
	}
	s.log.Info("login", "user_id", u.ID, "tenant_id", u.TenantID)
	return sess, nil
}

// RegisterInput is the body of a register request.
type RegisterInput struct {
	TenantID  uint64 `json:"tenant_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// Register creates a user in an existing tenant.  Usernames and emails are
// unique across all tenants.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.TenantID == 0 || in.Username == "" || in.Email == "" || in.Password == "" || strings.TrimSpace(in.Role) == "" {
		return model.User{}, Validation("tenant_id, username, email, password and role are required")
	}
	role, ok := model.ParseRole(in.Role)
	if !ok {
		return model.User{}, Validation("role must be one of: " + model.JoinRoles(model.Roles))
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return model.User{}, Validation("email is not valid")
	}

	exists, err := s.tenants.Exists(ctx, in.TenantID)
	if err != nil {
		return model.User{}, Internal(err)
	}
	if !exists {
		return model.User{}, Validation("tenant_id does not exist")
	}
	if taken, err := s.users.UsernameExists(ctx, in.Username); err != nil {
		return model.User{}, Internal(err)
	} else if taken {
		return model.User{}, Validation("username is already in use")
	}
	if taken, err := s.users.EmailExists(ctx, in.Email); err != nil {
		return model.User{}, Internal(err)
	} else if taken {
		return model.User{}, Validation("email is already registered")
	}

	hash, err := utils.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return model.User{}, Internal(err)
	}
	u, err := s.users.Create(ctx, model.NewUser{
		TenantID:     in.TenantID,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         role,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		// lost a race with a concurrent register
		return model.User{}, Validation("username or email is already in use")
	}
	if err != nil {
		return model.User{}, Internal(err)
	}
	s.log.Info("user registered", "user_id", u.ID, "tenant_id", u.TenantID, "role", string(u.Role))
	return u, nil
}

// ResolveSession turns an access token into the caller's identity.  The
// user must still exist and be active.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (model.Identity, error) {
	claims, err := utils.ParseAccessToken(s.cfg.JWTSecret, token)
	if err != nil {
		return model.Identity{}, Unauthorized("invalid or expired token")
	}
	uid, _ := claims.UserID()
	u, err := s.users.GetByID(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !u.IsActive) {
		return model.Identity{}, Unauthorized("user does not exist or is inactive")
	}
	if err != nil {
		return model.Identity{}, Internal(err)
	}
	return model.Identity{UserID: u.ID, TenantID: u.TenantID, Role: u.Role}, nil
}

// Me returns the current user with the tenant name.
func (s *AuthService) Me(ctx context.Context, userID uint64) (model.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, notFoundOr(err, "user not found")
	}
	return u, nil
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued.
func (s *AuthService) Refresh(ctx context.Context, raw string) (Session, error) {
	if strings.TrimSpace(raw) == "" {
		return Session{}, Validation("refresh_token is required")
	}
	hash := utils.HashRefreshRaw(raw)
	uid, err := s.tokens.ValidateRefresh(ctx, hash)
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, Unauthorized("invalid or expired refresh token")
	}
	if err != nil {
		return Session{}, Internal(err)
	}
	u, err := s.users.GetByID(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !u.IsActive) {
		return Session{}, Unauthorized("user does not exist or is inactive")
	}
	if err != nil {
		return Session{}, Internal(err)
	}
	if err := s.tokens.RevokeByHash(ctx, hash); err != nil {
		return Session{}, Internal(err)
	}
	return s.issue(ctx, u)
}

// Logout revokes a refresh token.  Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return Validation("refresh_token is required")
	}
	if err := s.tokens.RevokeByHash(ctx, utils.HashRefreshRaw(raw)); err != nil {
		return Internal(err)
	}
	return nil
}

func (s *AuthService) issue(ctx context.Context, u model.User) (Session, error) {
	at, err := utils.NewAccessToken(s.cfg.JWTSecret, u.ID, u.TenantID, string(u.Role), s.cfg.AccessTTL)
	if err != nil {
		return Session{}, Internal(err)
	}
	rt, err := utils.NewRefreshToken(s.cfg.RefreshTTL)
	if err != nil {
		return Session{}, Internal(err)
	}
	if err := s.tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(rt.Raw), rt.Exp); err != nil {
		return Session{}, Internal(err)
	}
	return Session{User: u, Token: at.Token, ExpiresAt: at.Exp, RefreshToken: rt.Raw, RefreshExpiresAt: rt.Exp}, nil
}
