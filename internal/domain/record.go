package domain

// VerificationRecord is the permanent audit entry written when a user
// completes verification. Append-only: never mutated or deleted.
// PK: record_id (ULID), SK: created_at (epoch millis). The tenant_user
// composite attribute backs a GSI used for "already verified" lookups.
type VerificationRecord struct {
	RecordID   string `json:"record_id" dynamodbav:"record_id"`
	TenantID   string `json:"tenant_id" dynamodbav:"tenant_id"`
	UserID     string `json:"user_id" dynamodbav:"user_id"`
	TenantUser string `json:"tenant_user" dynamodbav:"tenant_user"`
	Email      string `json:"email" dynamodbav:"email"`
	CreatedAt  int64  `json:"created_at" dynamodbav:"created_at"` // epoch millis
}

// TenantUserKey builds the composite GSI key for a (tenant, user) pair.
func TenantUserKey(tenantID, userID string) string {
	return tenantID + "#" + userID
}
