package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/lodgekey/passwordless/internal/models"
)

// TokenManager signs and validates the three token kinds of the login flow:
// the short-lived session token that threads challenge history through the
// stateless HTTP surface, and the access/refresh pair issued on success.
type TokenManager struct {
	secret             string
	sessionTokenExpiry time.Duration
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
}

// NewTokenManager creates a new TokenManager
func NewTokenManager(secret string, sessionExpiry, accessExpiry, refreshExpiry time.Duration) *TokenManager {
	return &TokenManager{
		secret:             secret,
		sessionTokenExpiry: sessionExpiry,
		accessTokenExpiry:  accessExpiry,
		refreshTokenExpiry: refreshExpiry,
	}
}

// GenerateSessionToken creates the signed session token carrying the current
// challenge history for an in-flight login.
func (tm *TokenManager) GenerateSessionToken(identity string, history []models.ChallengeResult) (string, error) {
	claims := &models.SessionClaims{
		Type:     "session",
		Identity: identity,
		History:  history,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tm.sessionTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(tm.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// ValidateSessionToken verifies a session token and returns its claims
func (tm *TokenManager) ValidateSessionToken(tokenString string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, tm.keyFunc)
	if err != nil {
		return nil, models.ErrSessionExpired
	}

	if !token.Valid || claims.Type != "session" {
		return nil, models.ErrSessionExpired
	}

	return claims, nil
}

// GenerateTokenPair creates the access and refresh tokens granted when the
// flow reaches its issued state.
func (tm *TokenManager) GenerateTokenPair(identity string) (*models.TokenPair, error) {
	accessToken, err := tm.generateToken("access", identity, tm.accessTokenExpiry)
	if err != nil {
		return nil, err
	}

	refreshToken, err := tm.generateToken("refresh", identity, tm.refreshTokenExpiry)
	if err != nil {
		return nil, err
	}

	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (tm *TokenManager) generateToken(tokenType, identity string, expiry time.Duration) (string, error) {
	claims := &models.TokenClaims{
		Type:     tokenType,
		Identity: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(tm.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}

	return tokenString, nil
}

// ValidateToken verifies an access or refresh token and returns its claims
func (tm *TokenManager) ValidateToken(tokenString string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, tm.keyFunc)
	if err != nil {
		return nil, models.ErrUnauthorized
	}

	if !token.Valid {
		return nil, models.ErrUnauthorized
	}

	return claims, nil
}

func (tm *TokenManager) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return []byte(tm.secret), nil
}
