package services

import (
	"log/slog"

	"github.com/lodgekey/passwordless/internal/models"
)

// FlowService decides, from a login session's challenge history, whether to
// start a challenge, issue tokens or fail the session. Each call is stateless
// over a single history snapshot; retries across multiple code submissions
// are governed by the verifier's attempt counter, not here.
type FlowService struct {
	logger *slog.Logger
}

// NewFlowService creates a new FlowService
func NewFlowService(logger *slog.Logger) *FlowService {
	return &FlowService{logger: logger}
}

// Decide walks the flow state machine over one history snapshot:
// empty history starts a challenge; a passed last round issues tokens; a
// failed last round denies authentication and the client restarts the flow.
func (s *FlowService) Decide(history []models.ChallengeResult) models.FlowDecision {
	if len(history) == 0 {
		s.logger.Info("flow decision", slog.String("decision", models.DecisionStartChallenge.String()))
		return models.DecisionStartChallenge
	}

	last := history[len(history)-1]

	decision := models.DecisionFail
	if last.Result {
		decision = models.DecisionIssueTokens
	}

	s.logger.Info("flow decision",
		slog.String("decision", decision.String()),
		slog.Int("rounds", len(history)),
	)

	return decision
}
