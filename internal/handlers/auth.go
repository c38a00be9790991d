package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/lodgekey/passwordless/internal/models"
	pkghttp "github.com/lodgekey/passwordless/pkg/http"
	pkglogger "github.com/lodgekey/passwordless/pkg/logger"
)

// ChallengeServiceInterface defines the interface for challenge operations
type ChallengeServiceInterface interface {
	Initiate(ctx context.Context, req models.InitiateChallengeRequest) (models.InitiateChallengeResult, error)
	Verify(ctx context.Context, req models.VerifyChallengeRequest) (bool, error)
}

// FlowServiceInterface defines the interface for the flow controller
type FlowServiceInterface interface {
	Decide(history []models.ChallengeResult) models.FlowDecision
}

// TokenManagerInterface defines the interface for token operations
type TokenManagerInterface interface {
	GenerateSessionToken(identity string, history []models.ChallengeResult) (string, error)
	ValidateSessionToken(tokenString string) (*models.SessionClaims, error)
	GenerateTokenPair(identity string) (*models.TokenPair, error)
}

// AuthHandler drives the passwordless login flow over HTTP. It plays the
// orchestrator role: the challenge history lives in the signed session token
// it hands to the client, so the service itself stays stateless.
type AuthHandler struct {
	challengeService ChallengeServiceInterface
	flowService      FlowServiceInterface
	tokenManager     TokenManagerInterface
	auditLogger      *pkglogger.AuditLogger
	ipConfig         *pkghttp.IPConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(
	challengeService ChallengeServiceInterface,
	flowService FlowServiceInterface,
	tokenManager TokenManagerInterface,
	auditLogger *pkglogger.AuditLogger,
	ipConfig *pkghttp.IPConfig,
) *AuthHandler {
	return &AuthHandler{
		challengeService: challengeService,
		flowService:      flowService,
		tokenManager:     tokenManager,
		auditLogger:      auditLogger,
		ipConfig:         ipConfig,
	}
}

// Request/response DTOs

// StartLoginRequest represents the request body for starting a login
type StartLoginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// StartLoginResponse carries the session token and the public challenge
// parameters. The code itself only travels by email.
type StartLoginResponse struct {
	Session    string `json:"session"`
	Challenge  string `json:"challenge"`
	CodeLength int    `json:"code_length"`
}

// VerifyLoginRequest represents the request body for submitting a code
type VerifyLoginRequest struct {
	Session string `json:"session" validate:"required"`
	Code    string `json:"code" validate:"required"`
}

// StartLogin begins a login session: the flow controller is consulted with an
// empty history, the challenge is initiated and a fresh session token is
// returned for the verify step.
func (h *AuthHandler) StartLogin(w http.ResponseWriter, r *http.Request) {
	var req StartLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if decision := h.flowService.Decide(nil); decision != models.DecisionStartChallenge {
		pkghttp.WriteInternalError(w, "unexpected flow decision")
		return
	}

	result, err := h.challengeService.Initiate(r.Context(), models.InitiateChallengeRequest{
		Identity: req.Email,
	})
	if err != nil {
		pkghttp.WriteInternalError(w, "failed to send sign-in code")
		return
	}

	session, err := h.tokenManager.GenerateSessionToken(req.Email, nil)
	if err != nil {
		pkghttp.WriteInternalError(w, "failed to create login session")
		return
	}

	resp := StartLoginResponse{
		Session:    session,
		Challenge:  models.ChallengeName,
		CodeLength: result.Public.CodeLength,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// VerifyLogin submits a code for an in-flight login session. The verifier's
// verdict is appended to the session's challenge history and the flow
// controller decides the outcome: tokens on success, denial otherwise. The
// session token stays reusable for further submissions until the verifier's
// attempt counter or the code's expiry shuts the challenge down.
func (h *AuthHandler) VerifyLogin(w http.ResponseWriter, r *http.Request) {
	var req VerifyLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	claims, err := h.tokenManager.ValidateSessionToken(req.Session)
	if err != nil {
		pkghttp.WriteSessionExpired(w)
		return
	}

	verdict, err := h.challengeService.Verify(r.Context(), models.VerifyChallengeRequest{
		Identity: claims.Identity,
		Answer:   req.Code,
	})
	if err != nil {
		pkghttp.WriteInternalError(w, "failed to verify code")
		return
	}

	history := append(claims.History, models.ChallengeResult{
		ChallengeName: models.ChallengeName,
		Result:        verdict,
	})

	switch h.flowService.Decide(history) {
	case models.DecisionIssueTokens:
		pair, err := h.tokenManager.GenerateTokenPair(claims.Identity)
		if err != nil {
			pkghttp.WriteInternalError(w, "failed to issue tokens")
			return
		}

		h.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType: "tokens_issued",
			Identity:  claims.Identity,
			IPAddress: pkghttp.ClientIP(r, h.ipConfig),
			Success:   true,
		})

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(pair)

	default:
		pkghttp.WriteCodeRejected(w)
	}
}
