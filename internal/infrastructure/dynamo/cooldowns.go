package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/guild-verify-api/internal/domain"
)

// CooldownRepo provides typed DynamoDB operations for the user_cooldowns
// table. PK: user_id, no tenant component — this is the cross-guild limiter.
// expires_at is the TTL attribute; stale rows disappear on their own.
type CooldownRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCooldownRepo(client *dynamodb.Client, tableName string) *CooldownRepo {
	return &CooldownRepo{client: client, tableName: tableName}
}

func (r *CooldownRepo) Put(ctx context.Context, c *domain.UserCooldown) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal cooldown: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return wrapStoreErr("put cooldown", err)
}

func (r *CooldownRepo) Get(ctx context.Context, userID string) (*domain.UserCooldown, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("user_id", userID),
	})
	if err != nil {
		return nil, wrapStoreErr("get cooldown", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("cooldown not found: %w", domain.ErrNotFound)
	}
	var c domain.UserCooldown
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
