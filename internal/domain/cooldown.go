package domain

// UserCooldown is the tenant-agnostic rate-limit marker written on every
// successful verification start, keyed by user alone. It stops a user from
// dodging the per-tenant cool-down by spraying many guilds at once.
// PK: user_id. ExpiresAt is the DynamoDB TTL attribute.
type UserCooldown struct {
	UserID    string `json:"user_id" dynamodbav:"user_id"`
	CreatedAt int64  `json:"created_at" dynamodbav:"created_at"` // Unix seconds
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // Unix seconds, TTL
}
