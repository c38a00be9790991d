package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the claims carried by issued access and refresh tokens.
type TokenClaims struct {
	Type     string `json:"type"` // "access" or "refresh"
	Identity string `json:"identity"`
	jwt.RegisteredClaims
}

// SessionClaims are the claims of the short-lived login-session token that
// threads the challenge history through the stateless HTTP flow. The history
// is owned by the orchestration layer; challenge components only read it.
type SessionClaims struct {
	Type     string            `json:"type"` // always "session"
	Identity string            `json:"identity"`
	History  []ChallengeResult `json:"history"`
	jwt.RegisteredClaims
}

// TokenPair is the final product of a successful login flow.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
