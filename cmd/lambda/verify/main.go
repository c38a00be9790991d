package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/lodgekey/passwordless/internal/config"
	"github.com/lodgekey/passwordless/internal/database"
	"github.com/lodgekey/passwordless/internal/models"
	"github.com/lodgekey/passwordless/internal/repositories"
	"github.com/lodgekey/passwordless/internal/services"
	pkglogger "github.com/lodgekey/passwordless/pkg/logger"
)

// VerifyAuthChallengeResponse trigger: checks the submitted answer against
// the stored record and reports the boolean verdict.
type handler struct {
	challengeService *services.ChallengeService
}

func (h *handler) handle(ctx context.Context, event events.CognitoEventUserPoolsVerifyAuthChallenge) (events.CognitoEventUserPoolsVerifyAuthChallenge, error) {
	identity := event.Request.UserAttributes["email"]
	answer, _ := event.Request.ChallengeAnswer.(string)

	verdict, err := h.challengeService.Verify(ctx, models.VerifyChallengeRequest{
		Identity: identity,
		Answer:   answer,
	})
	if err != nil {
		return event, err
	}

	event.Response.AnswerCorrect = verdict

	return event, nil
}

func main() {
	cfg, err := config.LoadLambda()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := pkglogger.New(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))
	slog.SetDefault(logger)

	db, err := database.NewConnection(&cfg.Store, logger)
	if err != nil {
		logger.Error("failed to initialize store", slog.Any("error", err))
		os.Exit(1)
	}

	emailService, err := services.NewAWSSESEmailService(cfg.Email.Region, cfg.Email.FromAddress, logger)
	if err != nil {
		logger.Error("failed to initialize email service", slog.Any("error", err))
		os.Exit(1)
	}

	challengeService := services.NewChallengeService(
		repositories.NewVerificationRepository(db),
		emailService,
		logger,
		pkglogger.NewAuditLogger(logger),
		cfg.Challenge,
	)

	lambda.Start((&handler{challengeService: challengeService}).handle)
}
