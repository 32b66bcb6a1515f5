package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/guild-verify-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) ListByTenant(ctx context.Context, tenantID string, limit int32, cursor string) ([]domain.VerificationRecord, string, error) {
	args := m.Called(ctx, tenantID, limit, cursor)
	return args.Get(0).([]domain.VerificationRecord), args.String(1), args.Error(2)
}

type mockObjects struct{ mock.Mock }

func (m *mockObjects) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	body, _ := io.ReadAll(r)
	args := m.Called(ctx, key, string(body), contentType)
	return args.String(0), args.Error(1)
}

func rec(id, user string) domain.VerificationRecord {
	return domain.VerificationRecord{
		RecordID:   id,
		TenantID:   "g1",
		UserID:     user,
		TenantUser: domain.TenantUserKey("g1", user),
		Email:      user + "@school.edu",
		CreatedAt:  1700000000000,
	}
}

func TestList_ClampsLimit(t *testing.T) {
	st := &mockStore{}
	st.On("ListByTenant", mock.Anything, "g1", int32(50), "").Return([]domain.VerificationRecord{}, "", nil)

	svc := NewService(st, nil)
	_, _, err := svc.List(context.Background(), "g1", 0, "")
	require.NoError(t, err)
	_, _, err = svc.List(context.Background(), "g1", 9999, "")
	require.NoError(t, err)

	st.AssertNumberOfCalls(t, "ListByTenant", 2)
}

func TestExport_PaginatesAndUploadsJSONLines(t *testing.T) {
	st := &mockStore{}
	st.On("ListByTenant", mock.Anything, "g1", int32(exportPageSize), "").
		Return([]domain.VerificationRecord{rec("r1", "u1")}, "cursor-1", nil).Once()
	st.On("ListByTenant", mock.Anything, "g1", int32(exportPageSize), "cursor-1").
		Return([]domain.VerificationRecord{rec("r2", "u2")}, "", nil).Once()

	var uploaded string
	obj := &mockObjects{}
	obj.On("Upload", mock.Anything, mock.Anything, mock.Anything, "application/x-ndjson").
		Run(func(args mock.Arguments) { uploaded = args.String(2) }).
		Return("s3://bucket/exports/g1/x.jsonl", nil)

	svc := NewService(st, obj)
	url, err := svc.Export(context.Background(), "g1")

	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/exports/g1/x.jsonl", url)

	lines := strings.Split(strings.TrimSpace(uploaded), "\n")
	require.Len(t, lines, 2)
	var first domain.VerificationRecord
	require.NoError(t, json.NewDecoder(bytes.NewReader([]byte(lines[0]))).Decode(&first))
	assert.Equal(t, "r1", first.RecordID)
	assert.Equal(t, "u1@school.edu", first.Email)
}

func TestExport_EmptyTenant_UploadsEmptyFile(t *testing.T) {
	st := &mockStore{}
	st.On("ListByTenant", mock.Anything, "g1", int32(exportPageSize), "").
		Return([]domain.VerificationRecord{}, "", nil)

	obj := &mockObjects{}
	obj.On("Upload", mock.Anything, mock.Anything, "", "application/x-ndjson").
		Return("s3://bucket/exports/g1/x.jsonl", nil)

	svc := NewService(st, obj)
	_, err := svc.Export(context.Background(), "g1")
	require.NoError(t, err)
}
