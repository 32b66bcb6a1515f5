package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/guild-verify-api/internal/domain"
)

const exportPageSize = 200

// Store is the record-store surface the audit service needs.
type Store interface {
	ListByTenant(ctx context.Context, tenantID string, limit int32, cursor string) ([]domain.VerificationRecord, string, error)
}

// ObjectStore receives export files.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

type Service interface {
	List(ctx context.Context, tenantID string, limit int32, cursor string) ([]domain.VerificationRecord, string, error)
	Export(ctx context.Context, tenantID string) (string, error)
}

type service struct {
	store   Store
	objects ObjectStore
}

func NewService(store Store, objects ObjectStore) Service {
	return &service{store: store, objects: objects}
}

func (s *service) List(ctx context.Context, tenantID string, limit int32, cursor string) ([]domain.VerificationRecord, string, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.store.ListByTenant(ctx, tenantID, limit, cursor)
}

// Export walks all of a tenant's records and writes them to the export bucket
// as JSON lines. Returns the object URL.
func (s *service) Export(ctx context.Context, tenantID string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	cursor := ""
	for {
		page, next, err := s.store.ListByTenant(ctx, tenantID, exportPageSize, cursor)
		if err != nil {
			return "", fmt.Errorf("list records for export: %w", err)
		}
		for i := range page {
			if err := enc.Encode(&page[i]); err != nil {
				return "", fmt.Errorf("encode record: %w", err)
			}
		}
		if next == "" {
			break
		}
		cursor = next
	}

	key := fmt.Sprintf("exports/%s/%s.jsonl", tenantID, time.Now().UTC().Format("2006-01-02T15-04-05Z"))
	url, err := s.objects.Upload(ctx, key, bytes.NewReader(buf.Bytes()), "application/x-ndjson")
	if err != nil {
		return "", fmt.Errorf("upload export: %w", err)
	}
	return url, nil
}
