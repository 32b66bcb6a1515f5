package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/guild-verify-api/internal/domain"
)

// SessionRepo provides typed DynamoDB operations for the verification_sessions
// table. PK: tenant_id, SK: user_id — at most one live session per pair.
// The expires_at attribute is the table's TTL field; callers must still compare
// it against the clock because TTL deletion is lazy.
type SessionRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewSessionRepo(client *dynamodb.Client, tableName string) *SessionRepo {
	return &SessionRepo{client: client, tableName: tableName}
}

// CreateOrReplace writes the session unconditionally. A user restarting
// verification always wins over a stale session (last writer wins).
func (r *SessionRepo) CreateOrReplace(ctx context.Context, s *domain.VerificationSession) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return wrapStoreErr("put session", err)
}

func (r *SessionRepo) Get(ctx context.Context, tenantID, userID string) (*domain.VerificationSession, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("tenant_id", tenantID, "user_id", userID),
	})
	if err != nil {
		return nil, wrapStoreErr("get session", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("session not found: %w", domain.ErrNotFound)
	}
	var s domain.VerificationSession
	if err := attributevalue.UnmarshalMap(out.Item, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// IncrementAttempts bumps the failed-attempt counter with a single atomic
// UpdateItem and returns the new count. The condition fails with ErrNotFound
// when the session vanished between the caller's read and this write, so
// a concurrent delete can never resurrect a session as a bare counter item.
func (r *SessionRepo) IncrementAttempts(ctx context.Context, tenantID, userID string) (int, error) {
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 compositeKey("tenant_id", tenantID, "user_id", userID),
		UpdateExpression:    aws.String("ADD attempts :one"),
		ConditionExpression: aws.String("attribute_exists(tenant_id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return 0, fmt.Errorf("session not found: %w", domain.ErrNotFound)
		}
		return 0, wrapStoreErr("increment attempts", err)
	}
	var updated struct {
		Attempts int `dynamodbav:"attempts"`
	}
	if err := attributevalue.UnmarshalMap(out.Attributes, &updated); err != nil {
		return 0, fmt.Errorf("unmarshal attempt count: %w", err)
	}
	return updated.Attempts, nil
}

// Delete removes the session. Deleting an absent session is not an error.
func (r *SessionRepo) Delete(ctx context.Context, tenantID, userID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("tenant_id", tenantID, "user_id", userID),
	})
	return wrapStoreErr("delete session", err)
}
