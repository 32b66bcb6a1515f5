package suppression

import (
	"context"
	"fmt"
	"time"

	"github.com/guild-verify-api/internal/domain"
	"github.com/guild-verify-api/internal/pkg/emailaddr"
)

// Store is the deny-list persistence layer.
type Store interface {
	Put(ctx context.Context, s *domain.EmailSuppression) error
	Delete(ctx context.Context, email string) error
}

type Service interface {
	Add(ctx context.Context, email, reason string) error
	Remove(ctx context.Context, email string) error
}

type service struct {
	store Store
}

func NewService(store Store) Service {
	return &service{store: store}
}

func (s *service) Add(ctx context.Context, email, reason string) error {
	if emailaddr.Domain(email) == "" {
		return fmt.Errorf("not a valid email address: %w", domain.ErrBadRequest)
	}
	return s.store.Put(ctx, &domain.EmailSuppression{
		Email:     email,
		Reason:    reason,
		CreatedAt: time.Now().Unix(),
	})
}

func (s *service) Remove(ctx context.Context, email string) error {
	return s.store.Delete(ctx, email)
}
