package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/lodgekey/passwordless/internal/models"
	"github.com/lodgekey/passwordless/internal/services"
	pkglogger "github.com/lodgekey/passwordless/pkg/logger"
)

// DefineAuthChallenge trigger: maps the identity provider's session history
// onto the flow controller and reports its decision back.
type handler struct {
	flowService *services.FlowService
}

func (h *handler) handle(ctx context.Context, event events.CognitoEventUserPoolsDefineAuthChallenge) (events.CognitoEventUserPoolsDefineAuthChallenge, error) {
	history := make([]models.ChallengeResult, 0, len(event.Request.Session))
	for _, round := range event.Request.Session {
		if round == nil {
			continue
		}
		history = append(history, models.ChallengeResult{
			ChallengeName: round.ChallengeName,
			Result:        round.ChallengeResult,
		})
	}

	switch h.flowService.Decide(history) {
	case models.DecisionStartChallenge:
		event.Response.ChallengeName = "CUSTOM_CHALLENGE"
		event.Response.IssueTokens = false
		event.Response.FailAuthentication = false
	case models.DecisionIssueTokens:
		event.Response.IssueTokens = true
		event.Response.FailAuthentication = false
	default:
		event.Response.IssueTokens = false
		event.Response.FailAuthentication = true
	}

	return event, nil
}

func main() {
	logger := pkglogger.New(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))
	slog.SetDefault(logger)

	h := &handler{flowService: services.NewFlowService(logger)}
	lambda.Start(h.handle)
}
