package domain

// EmailSuppression is a deny-list entry for an address known to bounce or
// complain. Consulted before any code email is dispatched.
// PK: email (lowercased).
type EmailSuppression struct {
	Email     string `json:"email" dynamodbav:"email"`
	Reason    string `json:"reason" dynamodbav:"reason"`
	CreatedAt int64  `json:"created_at" dynamodbav:"created_at"` // Unix seconds
}
