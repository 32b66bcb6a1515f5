package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/guild-verify-api/internal/domain"
)

// TenantRepo provides typed DynamoDB operations for the tenant_configs table.
// PK: tenant_id. Configs are written wholesale; there is no partial update.
type TenantRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewTenantRepo(client *dynamodb.Client, tableName string) *TenantRepo {
	return &TenantRepo{client: client, tableName: tableName}
}

func (r *TenantRepo) Put(ctx context.Context, cfg *domain.TenantConfig) error {
	item, err := attributevalue.MarshalMap(cfg)
	if err != nil {
		return fmt.Errorf("marshal tenant config: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return wrapStoreErr("put tenant config", err)
}

func (r *TenantRepo) Get(ctx context.Context, tenantID string) (*domain.TenantConfig, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("tenant_id", tenantID),
	})
	if err != nil {
		return nil, wrapStoreErr("get tenant config", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("tenant config not found: %w", domain.ErrNotFound)
	}
	var cfg domain.TenantConfig
	if err := attributevalue.UnmarshalMap(out.Item, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
