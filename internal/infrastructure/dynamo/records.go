package dynamo

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/guild-verify-api/internal/domain"
)

// RecordRepo provides typed DynamoDB operations for the verification_records
// table. PK: record_id (ULID), SK: created_at. Records are append-only; the
// tenant_user-index GSI serves the "already verified" existence check and the
// tenant_id-created_at-index GSI serves per-tenant listings.
type RecordRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewRecordRepo(client *dynamodb.Client, tableName string) *RecordRepo {
	return &RecordRepo{client: client, tableName: tableName}
}

func (r *RecordRepo) Append(ctx context.Context, rec *domain.VerificationRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(record_id)"),
	})
	return wrapStoreErr("append record", err)
}

// ExistsFor reports whether (tenant, user) has ever completed verification.
func (r *RecordRepo) ExistsFor(ctx context.Context, tenantID, userID string) (bool, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("tenant_user-index"),
		KeyConditionExpression: aws.String("tenant_user = :tu"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":tu": &types.AttributeValueMemberS{Value: domain.TenantUserKey(tenantID, userID)},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return false, wrapStoreErr("query record existence", err)
	}
	return len(out.Items) > 0, nil
}

// ListByTenant returns a page of a tenant's records, newest first.
// cursor is an opaque base64 token from a previous page; empty means start.
func (r *RecordRepo) ListByTenant(ctx context.Context, tenantID string, limit int32, cursor string) ([]domain.VerificationRecord, string, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("tenant_id-created_at-index"),
		KeyConditionExpression: aws.String("tenant_id = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberS{Value: tenantID},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(limit),
	}
	if cursor != "" {
		startKey, err := decodeRecordCursor(cursor, tenantID)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor: %w", domain.ErrBadRequest)
		}
		input.ExclusiveStartKey = startKey
	}
	out, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, "", wrapStoreErr("query records", err)
	}
	var recs []domain.VerificationRecord
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &recs); err != nil {
		return nil, "", err
	}
	return recs, encodeRecordCursor(out.LastEvaluatedKey), nil
}

// Record cursors carry record_id and created_at as "id|millis", base64-encoded.
// tenant_id is re-derived from the query, never trusted from the cursor.

func encodeRecordCursor(lastKey map[string]types.AttributeValue) string {
	idAttr, ok := lastKey["record_id"].(*types.AttributeValueMemberS)
	if !ok {
		return ""
	}
	atAttr, ok := lastKey["created_at"].(*types.AttributeValueMemberN)
	if !ok {
		return ""
	}
	return base64.URLEncoding.EncodeToString([]byte(idAttr.Value + "|" + atAttr.Value))
}

func decodeRecordCursor(cursor, tenantID string) (map[string]types.AttributeValue, error) {
	raw, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, err
	}
	recordID, createdAt, ok := strings.Cut(string(raw), "|")
	if !ok {
		return nil, fmt.Errorf("malformed cursor")
	}
	if _, err := strconv.ParseInt(createdAt, 10, 64); err != nil {
		return nil, fmt.Errorf("malformed cursor timestamp")
	}
	return map[string]types.AttributeValue{
		"record_id":  &types.AttributeValueMemberS{Value: recordID},
		"created_at": &types.AttributeValueMemberN{Value: createdAt},
		"tenant_id":  &types.AttributeValueMemberS{Value: tenantID},
	}, nil
}
