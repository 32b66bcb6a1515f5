package domain

import "time"

// TenantConfig is a guild's verification policy. Written wholesale by the
// admin approval workflow; read on every verification start.
// PK: tenant_id.
type TenantConfig struct {
	TenantID       string   `json:"tenant_id" dynamodbav:"tenant_id"`
	RoleID         string   `json:"role_id" dynamodbav:"role_id"`
	ChannelID      string   `json:"channel_id" dynamodbav:"channel_id"`
	AllowedDomains []string `json:"allowed_domains" dynamodbav:"allowed_domains"`

	// Optional per-tenant message overrides. Nil means "use the default text",
	// resolved at read time.
	WelcomeMessage  *string   `json:"welcome_message,omitempty" dynamodbav:"welcome_message,omitempty"`
	VerifiedMessage *string   `json:"verified_message,omitempty" dynamodbav:"verified_message,omitempty"`
	ConfiguredBy    string    `json:"configured_by" dynamodbav:"configured_by"`
	CreatedAt       time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" dynamodbav:"updated_at"`
}
