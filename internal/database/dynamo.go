package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/lodgekey/passwordless/internal/config"
)

type DB struct {
	Client *dynamodb.Client
	table  string
	logger *slog.Logger
}

func NewConnection(cfg *config.StoreConfig, logger *slog.Logger) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	logger.Info("dynamodb client initialized",
		slog.String("region", cfg.Region),
		slog.String("table", cfg.VerificationTable),
	)

	return &DB{
		Client: dynamodb.NewFromConfig(awsCfg),
		table:  cfg.VerificationTable,
		logger: logger,
	}, nil
}

// Table returns the verification table name.
func (db *DB) Table() string {
	return db.table
}

func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	_, err := db.Client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(db.table),
	})
	if err != nil {
		return fmt.Errorf("store health check failed: %w", err)
	}
	return nil
}
