package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gramseva/panchayat-backend/pkg/logging"
	"github.com/gramseva/panchayat-backend/pkg/tokens"
	"github.com/gramseva/panchayat-backend/services/auth/internal/hash"
	jwthelp "github.com/gramseva/panchayat-backend/services/auth/internal/jwt"
	"github.com/gramseva/panchayat-backend/services/auth/internal/models"
	"github.com/gramseva/panchayat-backend/services/auth/internal/repo"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTokenInvalid       = errors.New("invalid or expired token")
)

const (
	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	Repo repo.GormRepo
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	Role         string
	TenantID     uint
}

func (h *AuthService) CreateAccessToken(u *models.User, accessExp time.Time) (string, error) {
	accessClaims := tokens.AccessClaims{
		Role:     u.Role,
		TenantID: u.TenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ExpiresAt: jwt.NewNumericDate(accessExp),
		},
	}

	tokenAccess := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	return tokenAccess.SignedString(h.Repo.JWTSecret)
}

func (h *AuthService) CreateRefreshToken(userID string, refreshExp time.Time) (string, error) {
	refreshClaims := tokens.RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(refreshExp),
			ID:        jwthelp.NewJTI(),
		},
	}

	tokenRefresh := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	return tokenRefresh.SignedString(h.Repo.RefreshSecret)
}

func (h *AuthService) Register(ctx context.Context, username, password string, tenantID uint) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	username = strings.TrimSpace(username)
	if username == "" || len(password) < 8 {
		l.Warn("register_failed", "status", 400, "reason", "username empty or password shorter than 8 chars")
		return nil, ErrValidation
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: pwHash,
		Role:         tokens.RoleUser,
		TenantID:     tenantID,
	}

	if err := h.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExists) {
			l.Warn("register_failed", "status", 409, "reason", "user already exists")
			return nil, ErrConflict
		}
		l.Error("register_failed", "status", 500, "error", err)
		return nil, err
	}

	l.Info("register_successful", "user_id", user.ID)
	return &user, nil
}

func (h *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := h.Repo.UserExists(ctx, username, password)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidCredentials) {
			l.Warn("login_failed", "status", 401, "reason", "invalid username or password")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	return h.issueTokens(ctx, user)
}

func (h *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	refreshClaims, err := tokens.RefreshClaimsFromToken(refreshToken, h.Repo.RefreshSecret)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "reason", "cannot parse refresh token")
		return nil, ErrTokenInvalid
	}

	user, err := h.Repo.GetUserByID(ctx, refreshClaims.Subject)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "reason", "unknown user", "error", err)
		return nil, ErrTokenInvalid
	}

	accessExp := time.Now().Add(accessTTL)
	accessTokenNew, err := h.CreateAccessToken(user, accessExp)
	if err != nil {
		l.Error("refresh_failed", "status", 500, "error", err)
		return nil, err
	}

	refreshExp := time.Now().Add(refreshTTL)
	refreshTokenNew, err := h.CreateRefreshToken(user.ID, refreshExp)
	if err != nil {
		l.Error("refresh_failed", "status", 500, "error", err)
		return nil, err
	}

	newClaims, err := tokens.RefreshClaimsFromToken(refreshTokenNew, h.Repo.RefreshSecret)
	if err != nil {
		return nil, err
	}

	newRow := models.RefreshToken{
		TokenHash: jwthelp.Sha256Hex(refreshTokenNew),
		UserID:    user.ID,
		JTI:       newClaims.ID,
		ExpiresAt: refreshExp.Unix(),
	}
	if err := h.Repo.RotateRefreshToken(ctx, refreshClaims.ID, newRow); err != nil {
		l.Warn("refresh_failed", "status", 401, "reason", "token expired, revoked or unknown", "error", err)
		return nil, ErrTokenInvalid
	}

	l.Info("refresh_successful", "user_id", user.ID)
	return &LoginResult{
		AccessToken:  accessTokenNew,
		RefreshToken: refreshTokenNew,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		Role:         user.Role,
		TenantID:     user.TenantID,
	}, nil
}

func (h *AuthService) LogOut(ctx context.Context, refreshToken string) error {
	return h.Repo.RevokeRefresh(ctx, refreshToken)
}

func (h *AuthService) issueTokens(ctx context.Context, user *models.User) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.issue", "user_id", user.ID)

	accessExp := time.Now().Add(accessTTL)
	accessToken, err := h.CreateAccessToken(user, accessExp)
	if err != nil {
		l.Error("issue_failed", "status", 500, "error", err)
		return nil, err
	}

	refreshExp := time.Now().Add(refreshTTL)
	refreshToken, err := h.CreateRefreshToken(user.ID, refreshExp)
	if err != nil {
		l.Error("issue_failed", "status", 500, "error", err)
		return nil, err
	}

	if err := h.Repo.AddRefreshToDB(ctx, refreshToken); err != nil {
		l.Error("issue_failed", "status", 500, "reason", "cannot persist refresh token", "error", err)
		return nil, err
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		Role:         user.Role,
		TenantID:     user.TenantID,
	}, nil
}
