package tenantcfg

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/guild-verify-api/internal/domain"
	"github.com/guild-verify-api/internal/pkg/emailaddr"
)

// Store is the persistence layer for tenant configs.
type Store interface {
	Get(ctx context.Context, tenantID string) (*domain.TenantConfig, error)
	Put(ctx context.Context, cfg *domain.TenantConfig) error
}

// PutRequest carries every field of a tenant's policy; Put is a full overwrite.
type PutRequest struct {
	RoleID          string   `json:"role_id" validate:"required"`
	ChannelID       string   `json:"channel_id"`
	AllowedDomains  []string `json:"allowed_domains" validate:"required,min=1"`
	WelcomeMessage  *string  `json:"welcome_message"`
	VerifiedMessage *string  `json:"verified_message"`
	ConfiguredBy    string   `json:"configured_by" validate:"required"`
}

type Service interface {
	Get(ctx context.Context, tenantID string) (*domain.TenantConfig, error)
	Put(ctx context.Context, tenantID string, req PutRequest) (*domain.TenantConfig, error)
}

type service struct {
	store Store
	// Read-through cache keyed by tenant ID. Entries live until the next Put
	// invalidates them or the default TTL lapses; configs are read on every
	// verification start, so this keeps DynamoDB off the hot path.
	cache *gocache.Cache
}

func NewService(store Store) Service {
	return &service{
		store: store,
		cache: gocache.New(5*time.Minute, time.Minute),
	}
}

func (s *service) Get(ctx context.Context, tenantID string) (*domain.TenantConfig, error) {
	if v, ok := s.cache.Get(tenantID); ok {
		cfg := v.(domain.TenantConfig)
		return &cfg, nil
	}
	cfg, err := s.store.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(tenantID, *cfg)
	return cfg, nil
}

func (s *service) Put(ctx context.Context, tenantID string, req PutRequest) (*domain.TenantConfig, error) {
	domains := normalizeDomains(req.AllowedDomains)
	if len(domains) == 0 {
		return nil, fmt.Errorf("allowed_domains must contain at least one domain: %w", domain.ErrBadRequest)
	}

	now := time.Now().UTC()
	cfg := &domain.TenantConfig{
		TenantID:        tenantID,
		RoleID:          req.RoleID,
		ChannelID:       req.ChannelID,
		AllowedDomains:  domains,
		WelcomeMessage:  req.WelcomeMessage,
		VerifiedMessage: req.VerifiedMessage,
		ConfiguredBy:    req.ConfiguredBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if prev, err := s.store.Get(ctx, tenantID); err == nil {
		cfg.CreatedAt = prev.CreatedAt
	}

	if err := s.store.Put(ctx, cfg); err != nil {
		return nil, err
	}
	s.cache.Delete(tenantID)
	return cfg, nil
}

// normalizeDomains lowercases entries, strips leading '@' and drops empties
// and duplicates, preserving order.
func normalizeDomains(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, d := range in {
		n := emailaddr.NormalizeDomain(d)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
