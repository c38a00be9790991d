package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodgekey/passwordless/internal/models"
)

// mockDynamoClient implements DynamoAPI for testing
type mockDynamoClient struct {
	GetItemFunc    func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItemFunc    func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItemFunc func(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItemFunc func(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

func (m *mockDynamoClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if m.GetItemFunc != nil {
		return m.GetItemFunc(ctx, params, optFns...)
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (m *mockDynamoClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if m.PutItemFunc != nil {
		return m.PutItemFunc(ctx, params, optFns...)
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDynamoClient) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	if m.UpdateItemFunc != nil {
		return m.UpdateItemFunc(ctx, params, optFns...)
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func (m *mockDynamoClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	if m.DeleteItemFunc != nil {
		return m.DeleteItemFunc(ctx, params, optFns...)
	}
	return &dynamodb.DeleteItemOutput{}, nil
}

func testRecord() *models.VerificationRecord {
	now := time.Now()
	return &models.VerificationRecord{
		Identity:    "a@example.com",
		Code:        "123456",
		Attempts:    1,
		MaxAttempts: 3,
		CreatedAt:   now.Unix(),
		ExpiresAt:   now.Add(5 * time.Minute).Unix(),
	}
}

func TestVerificationRepository_Get_Found(t *testing.T) {
	item, err := attributevalue.MarshalMap(testRecord())
	require.NoError(t, err)

	client := &mockDynamoClient{
		GetItemFunc: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			assert.Equal(t, "verification-records", *params.TableName)
			assert.True(t, *params.ConsistentRead, "challenge reads must be strongly consistent")

			key, ok := params.Key["identity"].(*types.AttributeValueMemberS)
			require.True(t, ok)
			assert.Equal(t, "a@example.com", key.Value)

			return &dynamodb.GetItemOutput{Item: item}, nil
		},
	}

	repo := NewVerificationRepositoryWithClient(client, "verification-records")

	record, err := repo.Get(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", record.Identity)
	assert.Equal(t, "123456", record.Code)
	assert.Equal(t, 1, record.Attempts)
	assert.Equal(t, 3, record.MaxAttempts)
}

func TestVerificationRepository_Get_NotFound(t *testing.T) {
	client := &mockDynamoClient{
		GetItemFunc: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{}, nil
		},
	}

	repo := NewVerificationRepositoryWithClient(client, "verification-records")

	_, err := repo.Get(context.Background(), "a@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestVerificationRepository_Put_MarshalsRecord(t *testing.T) {
	var captured map[string]types.AttributeValue
	client := &mockDynamoClient{
		PutItemFunc: func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
			assert.Equal(t, "verification-records", *params.TableName)
			assert.Nil(t, params.ConditionExpression, "put must overwrite unconditionally")
			captured = params.Item
			return &dynamodb.PutItemOutput{}, nil
		},
	}

	repo := NewVerificationRepositoryWithClient(client, "verification-records")

	record := testRecord()
	require.NoError(t, repo.Put(context.Background(), record))
	require.NotNil(t, captured)

	var stored models.VerificationRecord
	require.NoError(t, attributevalue.UnmarshalMap(captured, &stored))
	assert.Equal(t, *record, stored)
}

func TestVerificationRepository_IncrementAttempts(t *testing.T) {
	client := &mockDynamoClient{
		UpdateItemFunc: func(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
			assert.Equal(t, "ADD #attempts :one", *params.UpdateExpression)
			assert.Equal(t, "attribute_exists(#id)", *params.ConditionExpression)

			one, ok := params.ExpressionAttributeValues[":one"].(*types.AttributeValueMemberN)
			require.True(t, ok)
			assert.Equal(t, "1", one.Value)

			return &dynamodb.UpdateItemOutput{}, nil
		},
	}

	repo := NewVerificationRepositoryWithClient(client, "verification-records")

	assert.NoError(t, repo.IncrementAttempts(context.Background(), "a@example.com"))
}

func TestVerificationRepository_IncrementAttempts_RecordGone(t *testing.T) {
	client := &mockDynamoClient{
		UpdateItemFunc: func(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
			return nil, &types.ConditionalCheckFailedException{}
		},
	}

	repo := NewVerificationRepositoryWithClient(client, "verification-records")

	err := repo.IncrementAttempts(context.Background(), "a@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestVerificationRepository_Delete(t *testing.T) {
	deleted := false
	client := &mockDynamoClient{
		DeleteItemFunc: func(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
			deleted = true
			key, ok := params.Key["identity"].(*types.AttributeValueMemberS)
			require.True(t, ok)
			assert.Equal(t, "a@example.com", key.Value)
			return &dynamodb.DeleteItemOutput{}, nil
		},
	}

	repo := NewVerificationRepositoryWithClient(client, "verification-records")

	require.NoError(t, repo.Delete(context.Background(), "a@example.com"))
	assert.True(t, deleted)
}

func TestVerificationRepository_Get_StoreError(t *testing.T) {
	client := &mockDynamoClient{
		GetItemFunc: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			return nil, errors.New("throttled")
		},
	}

	repo := NewVerificationRepositoryWithClient(client, "verification-records")

	_, err := repo.Get(context.Background(), "a@example.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrNotFound)
}
