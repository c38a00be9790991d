package services

import (
	"context"
	"time"

	"github.com/lodgekey/passwordless/internal/models"
)

// MockVerificationRepository implements VerificationRepository for testing
type MockVerificationRepository struct {
	GetFunc               func(ctx context.Context, identity string) (*models.VerificationRecord, error)
	PutFunc               func(ctx context.Context, record *models.VerificationRecord) error
	IncrementAttemptsFunc func(ctx context.Context, identity string) error
	DeleteFunc            func(ctx context.Context, identity string) error
}

func (m *MockVerificationRepository) Get(ctx context.Context, identity string) (*models.VerificationRecord, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, identity)
	}
	return nil, models.ErrNotFound
}

func (m *MockVerificationRepository) Put(ctx context.Context, record *models.VerificationRecord) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, record)
	}
	return nil
}

func (m *MockVerificationRepository) IncrementAttempts(ctx context.Context, identity string) error {
	if m.IncrementAttemptsFunc != nil {
		return m.IncrementAttemptsFunc(ctx, identity)
	}
	return nil
}

func (m *MockVerificationRepository) Delete(ctx context.Context, identity string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, identity)
	}
	return nil
}

// FakeVerificationStore is a map-backed VerificationRepository for multi-step
// flow tests where the record state must carry across calls
type FakeVerificationStore struct {
	Records map[string]*models.VerificationRecord
}

func NewFakeVerificationStore() *FakeVerificationStore {
	return &FakeVerificationStore{Records: make(map[string]*models.VerificationRecord)}
}

func (f *FakeVerificationStore) Get(ctx context.Context, identity string) (*models.VerificationRecord, error) {
	record, ok := f.Records[identity]
	if !ok {
		return nil, models.ErrNotFound
	}
	clone := *record
	return &clone, nil
}

func (f *FakeVerificationStore) Put(ctx context.Context, record *models.VerificationRecord) error {
	clone := *record
	f.Records[record.Identity] = &clone
	return nil
}

func (f *FakeVerificationStore) IncrementAttempts(ctx context.Context, identity string) error {
	record, ok := f.Records[identity]
	if !ok {
		return models.ErrNotFound
	}
	record.Attempts++
	return nil
}

func (f *FakeVerificationStore) Delete(ctx context.Context, identity string) error {
	delete(f.Records, identity)
	return nil
}

// MockEmailService implements EmailService for testing and records every
// dispatched code
type MockEmailService struct {
	SendChallengeCodeFunc func(ctx context.Context, email, code string, ttl time.Duration) error
	SentCodes             []string
	SentTo                []string
}

func (m *MockEmailService) SendChallengeCode(ctx context.Context, email, code string, ttl time.Duration) error {
	if m.SendChallengeCodeFunc != nil {
		if err := m.SendChallengeCodeFunc(ctx, email, code, ttl); err != nil {
			return err
		}
	}
	m.SentCodes = append(m.SentCodes, code)
	m.SentTo = append(m.SentTo, email)
	return nil
}
