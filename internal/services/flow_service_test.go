package services

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lodgekey/passwordless/internal/models"
)

func TestFlowService_Decide_EmptyHistoryStartsChallenge(t *testing.T) {
	svc := NewFlowService(slog.Default())

	assert.Equal(t, models.DecisionStartChallenge, svc.Decide(nil))
	assert.Equal(t, models.DecisionStartChallenge, svc.Decide([]models.ChallengeResult{}))
}

func TestFlowService_Decide_PassedChallengeIssuesTokens(t *testing.T) {
	svc := NewFlowService(slog.Default())

	decision := svc.Decide([]models.ChallengeResult{
		{ChallengeName: models.ChallengeName, Result: true},
	})

	assert.Equal(t, models.DecisionIssueTokens, decision)
}

func TestFlowService_Decide_FailedChallengeDeniesAuthentication(t *testing.T) {
	svc := NewFlowService(slog.Default())

	decision := svc.Decide([]models.ChallengeResult{
		{ChallengeName: models.ChallengeName, Result: false},
	})

	assert.Equal(t, models.DecisionFail, decision)
}

func TestFlowService_Decide_OnlyLastEntryCounts(t *testing.T) {
	svc := NewFlowService(slog.Default())

	decision := svc.Decide([]models.ChallengeResult{
		{ChallengeName: models.ChallengeName, Result: false},
		{ChallengeName: models.ChallengeName, Result: true},
	})
	assert.Equal(t, models.DecisionIssueTokens, decision)

	decision = svc.Decide([]models.ChallengeResult{
		{ChallengeName: models.ChallengeName, Result: true},
		{ChallengeName: models.ChallengeName, Result: false},
	})
	assert.Equal(t, models.DecisionFail, decision)
}
