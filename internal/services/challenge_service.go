package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lodgekey/passwordless/internal/config"
	"github.com/lodgekey/passwordless/internal/models"
	pkgauth "github.com/lodgekey/passwordless/pkg/auth"
	pkglogger "github.com/lodgekey/passwordless/pkg/logger"
)

// VerificationRepository defines the interface for verification record operations
type VerificationRepository interface {
	Get(ctx context.Context, identity string) (*models.VerificationRecord, error)
	Put(ctx context.Context, record *models.VerificationRecord) error
	IncrementAttempts(ctx context.Context, identity string) error
	Delete(ctx context.Context, identity string) error
}

// ChallengeService implements challenge initiation and verification for the
// passwordless email-OTP flow
type ChallengeService struct {
	repo         VerificationRepository
	emailService EmailService
	logger       *slog.Logger
	auditLogger  *pkglogger.AuditLogger
	cfg          config.ChallengeConfig
}

// NewChallengeService creates a new ChallengeService
func NewChallengeService(
	repo VerificationRepository,
	emailService EmailService,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
	cfg config.ChallengeConfig,
) *ChallengeService {
	return &ChallengeService{
		repo:         repo,
		emailService: emailService,
		logger:       logger,
		auditLogger:  auditLogger,
		cfg:          cfg,
	}
}

// isAnonymous reports whether the identity is the configured shared guest
// identity. An empty configuration disables the bypass entirely.
func (s *ChallengeService) isAnonymous(identity string) bool {
	return s.cfg.AnonymousIdentity != "" && identity == s.cfg.AnonymousIdentity
}

// Initiate generates a code, persists a fresh verification record for the
// identity and dispatches the code by email. Any prior record for the
// identity is replaced unconditionally. If dispatch fails the error is
// surfaced and the record is left in place; the next initiation overwrites it.
func (s *ChallengeService) Initiate(ctx context.Context, req models.InitiateChallengeRequest) (models.InitiateChallengeResult, error) {
	public := models.ChallengePublicParameters{
		Identity:   req.Identity,
		CodeLength: s.cfg.CodeLength,
	}

	// Guest sign-in: no record, no email. The verifier accepts only the
	// fixed sentinel answer for this identity.
	if s.isAnonymous(req.Identity) {
		s.logger.Info("anonymous identity challenge, skipping code dispatch",
			slog.String("identity", pkglogger.SanitizedEmail(req.Identity)))
		return models.NewInitiateChallengeResult(public, ""), nil
	}

	code, err := pkgauth.GenerateNumericCode(s.cfg.CodeLength)
	if err != nil {
		s.logger.Error("failed to generate challenge code", slog.Any("error", err))
		return models.InitiateChallengeResult{}, fmt.Errorf("failed to generate code: %w", err)
	}

	now := time.Now()
	record := &models.VerificationRecord{
		Identity:    req.Identity,
		Code:        code,
		Attempts:    0,
		MaxAttempts: s.cfg.MaxAttempts,
		CreatedAt:   now.Unix(),
		ExpiresAt:   now.Add(s.cfg.CodeTTL).Unix(),
	}

	if err := s.repo.Put(ctx, record); err != nil {
		s.logger.Error("failed to persist verification record",
			slog.String("identity", pkglogger.SanitizedEmail(req.Identity)),
			slog.Any("error", err))
		return models.InitiateChallengeResult{}, fmt.Errorf("failed to persist record: %w", err)
	}

	if err := s.emailService.SendChallengeCode(ctx, req.Identity, code, s.cfg.CodeTTL); err != nil {
		// No rollback: the stale record is harmless and the next initiation
		// overwrites it.
		s.logger.Error("failed to dispatch challenge code",
			slog.String("identity", pkglogger.SanitizedEmail(req.Identity)),
			slog.Any("error", err))
		return models.InitiateChallengeResult{}, fmt.Errorf("failed to dispatch code: %w", err)
	}

	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "challenge_started",
		Identity:  req.Identity,
		Success:   true,
	})

	return models.NewInitiateChallengeResult(public, code), nil
}

// Verify checks a submitted answer against the stored record. The branches
// are evaluated in order, first match wins:
//
//  1. no record               -> false, no state change
//  2. expired                 -> false, record deleted
//  3. attempts exhausted      -> false, record deleted (lockout)
//  4. exact code match        -> true, record deleted
//  5. mismatch, last attempt  -> false, record deleted (lockout)
//  6. mismatch                -> false, attempt counter incremented
//
// Storage failures are returned as errors; policy outcomes are plain verdicts.
func (s *ChallengeService) Verify(ctx context.Context, req models.VerifyChallengeRequest) (bool, error) {
	if s.isAnonymous(req.Identity) {
		verdict := pkgauth.SecureCompare(req.Answer, models.AnonymousChallengeAnswer)
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType: "anonymous_challenge_verified",
			Identity:  req.Identity,
			Success:   verdict,
		})
		return verdict, nil
	}

	record, err := s.repo.Get(ctx, req.Identity)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("verification attempted with no active challenge",
				slog.String("identity", pkglogger.SanitizedEmail(req.Identity)))
			return false, nil
		}
		return false, fmt.Errorf("failed to load verification record: %w", err)
	}

	if record.IsExpired(time.Now()) {
		if err := s.repo.Delete(ctx, req.Identity); err != nil {
			return false, fmt.Errorf("failed to delete expired record: %w", err)
		}
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "challenge_verified",
			Identity:      req.Identity,
			Success:       false,
			FailureReason: "code expired",
		})
		return false, nil
	}

	if record.AttemptsExhausted() {
		if err := s.repo.Delete(ctx, req.Identity); err != nil {
			return false, fmt.Errorf("failed to delete locked-out record: %w", err)
		}
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "challenge_verified",
			Identity:      req.Identity,
			Success:       false,
			FailureReason: "attempts exhausted",
		})
		return false, nil
	}

	if pkgauth.SecureCompare(req.Answer, record.Code) {
		if err := s.repo.Delete(ctx, req.Identity); err != nil {
			return false, fmt.Errorf("failed to delete verified record: %w", err)
		}
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType: "challenge_verified",
			Identity:  req.Identity,
			Success:   true,
		})
		return true, nil
	}

	// Wrong code on the final attempt locks the challenge out immediately;
	// the record is gone before any further submission.
	if record.Attempts+1 >= record.MaxAttempts {
		if err := s.repo.Delete(ctx, req.Identity); err != nil {
			return false, fmt.Errorf("failed to delete locked-out record: %w", err)
		}
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "challenge_verified",
			Identity:      req.Identity,
			Success:       false,
			FailureReason: "attempts exhausted",
		})
		return false, nil
	}

	// Wrong code with attempts remaining. Concurrent submissions can race
	// between the read above and this increment; the storage-level ADD is
	// atomic, so the counter only under-counts, never corrupts.
	if err := s.repo.IncrementAttempts(ctx, req.Identity); err != nil && !errors.Is(err, models.ErrNotFound) {
		return false, fmt.Errorf("failed to increment attempts: %w", err)
	}

	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType:     "challenge_verified",
		Identity:      req.Identity,
		Success:       false,
		FailureReason: "code mismatch",
	})

	return false, nil
}
