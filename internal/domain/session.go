package domain

// VerificationSession is the live state of one user's verification attempt in
// one guild. At most one session exists per (tenant_id, user_id) pair.
// PK: tenant_id, SK: user_id. ExpiresAt doubles as the DynamoDB TTL attribute,
// so abandoned sessions clean themselves up; readers must still compare
// ExpiresAt against the clock because TTL deletion is lazy.
type VerificationSession struct {
	TenantID  string `json:"tenant_id" dynamodbav:"tenant_id"`
	UserID    string `json:"user_id" dynamodbav:"user_id"`
	Code      string `json:"code" dynamodbav:"code"`
	Email     string `json:"email" dynamodbav:"email"`
	Attempts  int    `json:"attempts" dynamodbav:"attempts"`
	CreatedAt int64  `json:"created_at" dynamodbav:"created_at"` // Unix seconds
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // Unix seconds, TTL
}
