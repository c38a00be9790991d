package models

import "time"

// ChallengeName identifies the custom challenge round presented to clients.
const ChallengeName = "EMAIL_OTP"

// AnonymousChallengeAnswer is the fixed answer accepted for the configured
// anonymous identity. Deliberately non-numeric so it can never collide with a
// generated code.
const AnonymousChallengeAnswer = "anonymous-guest"

// VerificationRecord is the per-identity challenge state. At most one live
// record exists per identity; initiation overwrites unconditionally.
// ExpiresAt doubles as the DynamoDB TTL attribute (Unix seconds).
type VerificationRecord struct {
	Identity    string `dynamodbav:"identity" json:"identity"`
	Code        string `dynamodbav:"code" json:"-"` // Never expose the code
	Attempts    int    `dynamodbav:"attempts" json:"attempts"`
	MaxAttempts int    `dynamodbav:"max_attempts" json:"max_attempts"`
	CreatedAt   int64  `dynamodbav:"created_at" json:"created_at"`
	ExpiresAt   int64  `dynamodbav:"expires_at" json:"expires_at"`
}

// IsExpired checks whether the record is past its expiry at the given time.
func (r *VerificationRecord) IsExpired(now time.Time) bool {
	return now.Unix() > r.ExpiresAt
}

// AttemptsExhausted checks whether the attempt ceiling has been reached.
func (r *VerificationRecord) AttemptsExhausted() bool {
	return r.Attempts >= r.MaxAttempts
}

// ChallengeResult is one entry of a login session's challenge history,
// maintained by the orchestrating identity flow and consumed read-only here.
type ChallengeResult struct {
	ChallengeName string `json:"challenge_name"`
	Result        bool   `json:"result"`
}

// FlowDecision is the verdict of the flow controller for one round-trip.
type FlowDecision int

const (
	// DecisionStartChallenge asks the orchestrator to run a new challenge round.
	DecisionStartChallenge FlowDecision = iota
	// DecisionIssueTokens finalizes the session successfully.
	DecisionIssueTokens
	// DecisionFail denies authentication; the client must restart the flow.
	DecisionFail
)

func (d FlowDecision) String() string {
	switch d {
	case DecisionStartChallenge:
		return "start_challenge"
	case DecisionIssueTokens:
		return "issue_tokens"
	case DecisionFail:
		return "fail"
	default:
		return "unknown"
	}
}

// ChallengePublicParameters are the non-secret parameters returned to the
// client after a challenge is initiated.
type ChallengePublicParameters struct {
	Identity   string `json:"identity"`
	CodeLength int    `json:"code_length"`
}

// InitiateChallengeRequest is the typed payload of the challenge-creation hook.
type InitiateChallengeRequest struct {
	Identity string
}

// InitiateChallengeResult carries the initiated challenge's parameters. The
// code travels only on the private side and must never reach the response
// channel; the client receives it out of band by email.
type InitiateChallengeResult struct {
	Public ChallengePublicParameters
	code   string
}

// NewInitiateChallengeResult builds a result holding the private code.
func NewInitiateChallengeResult(public ChallengePublicParameters, code string) InitiateChallengeResult {
	return InitiateChallengeResult{Public: public, code: code}
}

// PrivateCode exposes the generated code to trusted hook adapters only.
func (r InitiateChallengeResult) PrivateCode() string {
	return r.code
}

// VerifyChallengeRequest is the typed payload of the answer-verification hook.
type VerifyChallengeRequest struct {
	Identity string
	Answer   string
}
