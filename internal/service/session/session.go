package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/instamart/backend/internal/models"
)

const (
	CookieName = "session"
	// TTL is absolute; there is no refresh or sliding renewal.
	TTL = 30 * time.Minute
)

var ErrInvalidSession = errors.New("invalid session")

// Identity is the request-scoped result of validating a session. Operations
// receive it explicitly instead of trusting client-supplied user ids.
type Identity struct {
	UserID   uint
	Username string
	Role     models.Role
}

// Service signs session tokens and keeps the server-side session rows that
// logout revokes.
type Service struct {
	DB     *gorm.DB
	Secret []byte
}

func (s *Service) Issue(ctx context.Context, user *models.User) (string, time.Time, error) {
	exp := time.Now().Add(TTL)
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      exp.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}

	record := models.Session{
		TokenHash: sha256Hex(token),
		UserID:    user.ID,
		ExpiresAt: exp.Unix(),
		Revoked:   false,
	}
	if err := s.DB.WithContext(ctx).Create(&record).Error; err != nil {
		return "", time.Time{}, fmt.Errorf("store session: %w", err)
	}

	return token, exp, nil
}

func (s *Service) Validate(ctx context.Context, raw string) (*Identity, error) {
	if raw == "" {
		return nil, ErrInvalidSession
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.Secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidSession
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return nil, ErrInvalidSession
	}
	username, _ := claims["username"].(string)
	roleStr, _ := claims["role"].(string)
	role := models.Role(roleStr)
	if !role.Valid() {
		return nil, ErrInvalidSession
	}

	var stored models.Session
	if err := s.DB.WithContext(ctx).Where("token_hash = ?", sha256Hex(raw)).First(&stored).Error; err != nil {
		return nil, ErrInvalidSession
	}
	if stored.Revoked || time.Now().Unix() > stored.ExpiresAt {
		return nil, ErrInvalidSession
	}

	return &Identity{
		UserID:   uint(sub),
		Username: username,
		Role:     role,
	}, nil
}

// Revoke marks the session behind raw as revoked. Unknown tokens are not an
// error, which keeps logout idempotent.
func (s *Service) Revoke(ctx context.Context, raw string) error {
	if raw == "" {
		return nil
	}
	return s.DB.WithContext(ctx).
		Model(&models.Session{}).
		Where("token_hash = ?", sha256Hex(raw)).
		Update("revoked", true).Error
}

func CreateCookie(value string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func DeleteCookie() *http.Cookie {
	return CreateCookie("", time.Now().Add(-1*time.Hour))
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
