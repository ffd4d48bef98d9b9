// Package auth implements password sign-up/sign-in over JWT sessions.
// Backend failures are rewritten into user-facing guidance; an absent
// session is a normal nil result and never an error.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	coreauth "nexus/internal/core/auth"
	"nexus/internal/core/cache"
	"nexus/internal/domain"
	"nexus/pkg/utils"
)

// User-facing messages; the raw backend error stays wrapped underneath.
var (
	ErrAccountExists      = errors.New("an account with this email already exists, try signing in instead")
	ErrInvalidEmail       = errors.New("please enter a valid email address")
	ErrWeakPassword       = errors.New("password should be at least 6 characters")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnreachable        = errors.New("unable to reach the server, please check your connection and try again")
	ErrResetTokenInvalid  = errors.New("this reset link is invalid or has expired")
)

const (
	revokedKeyPrefix = "auth:revoked:"
	resetKeyPrefix   = "auth:pwreset:"
	resetTokenTTL    = 30 * time.Minute
)

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Result struct {
	User    *domain.User `json:"user"`
	Session *Session     `json:"session"`
}

type Service struct {
	db      *gorm.DB
	jwt     *coreauth.JWTer
	tokens  *cache.Cache
	baseURL string
	log     *zap.Logger
}

func NewService(db *gorm.DB, jwt *coreauth.JWTer, tokens *cache.Cache, baseURL string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, jwt: jwt, tokens: tokens, baseURL: strings.TrimRight(baseURL, "/"), log: log}
}

func (s *Service) SignUp(ctx context.Context, email, password, name string) (*Result, error) {
	email = normalizeEmail(email)
	if !looksLikeEmail(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < 6 {
		return nil, ErrWeakPassword
	}
	if err := s.preflight(ctx); err != nil {
		return nil, err
	}

	if name == "" {
		if at := strings.IndexByte(email, '@'); at > 0 {
			name = email[:at]
		} else {
			name = "user"
		}
	}
	u := domain.User{
		ID:           utils.NewID(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: utils.HashPassword(password),
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		if isDupKey(err) {
			return nil, ErrAccountExists
		}
		return nil, err
	}
	s.log.Info("user signed up", zap.String("uid", u.ID))
	return s.issue(&u)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*Result, error) {
	email = normalizeEmail(email)
	if err := s.preflight(ctx); err != nil {
		return nil, err
	}

	var u domain.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(&u)
}

// SignOut revokes the token until its natural expiry. An already-invalid
// token is a no-op: signing out of a dead session is not an error.
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.tokens.SetString(ctx, revokedKeyPrefix+claims.ID, "1", ttl)
}

// IsRevoked reports whether a token id was signed out.
func (s *Service) IsRevoked(ctx context.Context, jti string) bool {
	v, _ := s.tokens.GetString(ctx, revokedKeyPrefix+jti)
	return v != ""
}

// CurrentUser resolves the session's user. Missing, expired, or revoked
// sessions come back as (nil, nil).
func (s *Service) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return nil, nil
	}
	if v, _ := s.tokens.GetString(ctx, revokedKeyPrefix+claims.ID); v != "" {
		return nil, nil
	}
	var u domain.User
	err = s.db.WithContext(ctx).Where("id = ?", claims.UID).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// RequestPasswordReset issues a single-use token and returns the reset
// link. An unknown email returns an empty link without error so the
// endpoint never confirms account existence.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)
	if err := s.preflight(ctx); err != nil {
		return "", err
	}
	var u domain.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	token := utils.NewID()
	if err := s.tokens.SetString(ctx, resetKeyPrefix+token, u.ID, resetTokenTTL); err != nil {
		return "", err
	}
	link := s.baseURL + "/reset-password?token=" + token
	s.log.Info("password reset requested", zap.String("uid", u.ID))
	return link, nil
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 6 {
		return ErrWeakPassword
	}
	uid, err := s.tokens.GetString(ctx, resetKeyPrefix+token)
	if err != nil {
		return err
	}
	if uid == "" {
		return ErrResetTokenInvalid
	}
	res := s.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", uid).
		Updates(map[string]any{"password_hash": utils.HashPassword(newPassword), "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	s.tokens.Forget(ctx, resetKeyPrefix+token)
	return nil
}

func (s *Service) UpdatePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return ErrWeakPassword
	}
	var u domain.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		return err
	}
	if !utils.CheckPassword(oldPassword, u.PasswordHash) {
		return ErrInvalidCredentials
	}
	return s.db.WithContext(ctx).Model(&u).
		Updates(map[string]any{"password_hash": utils.HashPassword(newPassword), "updated_at": time.Now()}).Error
}

func (s *Service) issue(u *domain.User) (*Result, error) {
	tok, err := s.jwt.Issue(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	return &Result{
		User:    u,
		Session: &Session{Token: tok, ExpiresAt: time.Now().Add(s.jwt.TTL)},
	}, nil
}

// preflight probes the database before auth calls so connectivity
// failures surface as a single friendly message.
func (s *Service) preflight(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return ErrUnreachable
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return ErrUnreachable
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func looksLikeEmail(s string) bool {
	at := strings.IndexByte(s, '@')
	return at > 0 && strings.IndexByte(s[at+1:], '.') > 0
}

func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "unique failed")
}
