// Package storage wraps a DynamoDB client behind a small interface: one
// constructor that wires tracing in, one Close, and table names resolved
// once at startup instead of threaded through every call site.
package storage

import (
	"context"
	"fmt"

	"llmtracer/backend/internal/infrastructure/config"
	"llmtracer/backend/internal/infrastructure/logger"
	"llmtracer/backend/internal/infrastructure/telemetry/tracer"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Database exposes the DynamoDB client plus the table names the tracing
// repositories read/write. There is no transaction manager here: every
// write is a single-item PutItem/UpdateItem, so per-item atomicity from
// DynamoDB itself is sufficient and there is nothing to commit/rollback.
type Database interface {
	Client() *dynamodb.Client
	TracesTable() string
	SpansTable() string
	Close() error
}

type dynamoDatabase struct {
	client      *dynamodb.Client
	tracesTable string
	spansTable  string
}

var _ Database = (*dynamoDatabase)(nil)

// NewDynamoDatabase resolves an AWS config (respecting cfg.Endpoint for
// local development against DynamoDB Local/LocalStack), wires tracer
// instrumentation into the SDK's middleware stack, and returns a client
// wrapper scoped to the configured table names.
func NewDynamoDatabase(ctx context.Context, cfg *config.StorageConfig, log logger.Logger, trc tracer.Tracer) (Database, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.Endpoint != "" {
		// Local development against DynamoDB Local/LocalStack: the endpoint
		// has no real IAM behind it, so any static credential pair works.
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		log.Error(fmt.Sprintf("failed to load aws config: %v", err))
		return nil, err
	}

	if trc != nil {
		trc.InstrumentStorage(&awsCfg)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &dynamoDatabase{
		client:      client,
		tracesTable: cfg.TracesTable,
		spansTable:  cfg.SpansTable,
	}, nil
}

func (d *dynamoDatabase) Client() *dynamodb.Client { return d.client }
func (d *dynamoDatabase) TracesTable() string       { return d.tracesTable }
func (d *dynamoDatabase) SpansTable() string        { return d.spansTable }
func (d *dynamoDatabase) Close() error               { return nil }
