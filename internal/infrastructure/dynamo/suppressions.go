package dynamo

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/guild-verify-api/internal/domain"
)

// SuppressionRepo provides typed DynamoDB operations for the email_suppressions
// deny-list. PK: email, stored lowercased.
type SuppressionRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewSuppressionRepo(client *dynamodb.Client, tableName string) *SuppressionRepo {
	return &SuppressionRepo{client: client, tableName: tableName}
}

func (r *SuppressionRepo) Put(ctx context.Context, s *domain.EmailSuppression) error {
	s.Email = strings.ToLower(s.Email)
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal suppression: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return wrapStoreErr("put suppression", err)
}

// IsSuppressed reports whether email is on the deny-list.
func (r *SuppressionRepo) IsSuppressed(ctx context.Context, email string) (bool, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("email", strings.ToLower(email)),
	})
	if err != nil {
		return false, wrapStoreErr("get suppression", err)
	}
	return out.Item != nil, nil
}

// Delete removes an address from the deny-list. Idempotent.
func (r *SuppressionRepo) Delete(ctx context.Context, email string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("email", strings.ToLower(email)),
	})
	return wrapStoreErr("delete suppression", err)
}
