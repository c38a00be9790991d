package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/lodgekey/passwordless/internal/database"
	"github.com/lodgekey/passwordless/internal/models"
)

// DynamoAPI is the subset of the DynamoDB client the repository uses
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// VerificationRepository handles verification record data access.
// The table keys records by identity; expires_at is the TTL attribute,
// advisory only — expiry is always enforced explicitly by the verifier.
type VerificationRepository struct {
	client DynamoAPI
	table  string
}

// NewVerificationRepository creates a new VerificationRepository
func NewVerificationRepository(db *database.DB) *VerificationRepository {
	return &VerificationRepository{client: db.Client, table: db.Table()}
}

// NewVerificationRepositoryWithClient creates a repository over an explicit
// client, used by the Lambda entrypoints and tests.
func NewVerificationRepositoryWithClient(client DynamoAPI, table string) *VerificationRepository {
	return &VerificationRepository{client: client, table: table}
}

func identityKey(identity string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"identity": &types.AttributeValueMemberS{Value: identity},
	}
}

// Get retrieves the live verification record for an identity
func (r *VerificationRepository) Get(ctx context.Context, identity string) (*models.VerificationRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.table),
		Key:            identityKey(identity),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get verification record: %w", err)
	}

	if len(out.Item) == 0 {
		return nil, models.ErrNotFound
	}

	var record models.VerificationRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal verification record: %w", err)
	}

	return &record, nil
}

// Put stores a verification record, unconditionally replacing any existing
// record for the same identity
func (r *VerificationRepository) Put(ctx context.Context, record *models.VerificationRecord) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal verification record: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put verification record: %w", err)
	}

	return nil
}

// IncrementAttempts atomically adds one to the attempt counter of an existing
// record. Returns ErrNotFound if the record was deleted in the meantime.
func (r *VerificationRepository) IncrementAttempts(ctx context.Context, identity string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.table),
		Key:                 identityKey(identity),
		UpdateExpression:    aws.String("ADD #attempts :one"),
		ConditionExpression: aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#attempts": "attempts",
			"#id":       "identity",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to increment attempts: %w", err)
	}

	return nil
}

// Delete removes the verification record for an identity. Deleting a missing
// record is not an error.
func (r *VerificationRepository) Delete(ctx context.Context, identity string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key:       identityKey(identity),
	})
	if err != nil {
		return fmt.Errorf("failed to delete verification record: %w", err)
	}

	return nil
}
