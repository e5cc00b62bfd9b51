package attachment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/AeroOps/internal/infrastructure/storage/minio"
	"github.com/turtacn/AeroOps/internal/testutil"
	"github.com/turtacn/AeroOps/pkg/errors"
)

type MockObjectRepository struct{ mock.Mock }

func (m *MockObjectRepository) Upload(ctx context.Context, req *minio.UploadRequest) (*minio.UploadResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*minio.UploadResult), args.Error(1)
}

func (m *MockObjectRepository) Stat(ctx context.Context, key string) (*minio.ObjectMetadata, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*minio.ObjectMetadata), args.Error(1)
}

func (m *MockObjectRepository) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockObjectRepository) PresignedDownloadURL(ctx context.Context, key, filename string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, filename, expiry)
	return args.String(0), args.Error(1)
}

var storedAt = time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

func newService(store minio.ObjectRepository, maxSize int64) Service {
	return NewService(store, nil, testutil.NewMockLogger(), Options{MaxSize: maxSize, URLExpiry: time.Minute, Now: func() time.Time { return storedAt }})
}

func TestNormalize(t *testing.T) {
	svc := newService(nil, 0)
	assert.Equal(t, "data:image/png;base64,QUJD", svc.Normalize("QUJD", "image/png"))
	assert.Equal(t, "data:text/plain;base64,QUJD", svc.Normalize("data:text/plain;base64,QUJD", "image/png"))
}

func TestStore_UploadsDecodedPayload(t *testing.T) {
	store := &MockObjectRepository{}
	store.On("Upload", mock.Anything, mock.MatchedBy(func(req *minio.UploadRequest) bool {
		return strings.HasPrefix(req.ObjectKey, "acme/attachments/2026/03/") &&
			strings.HasSuffix(req.ObjectKey, ".pdf") &&
			string(req.Data) == "ABC" && req.ContentType == "application/pdf" &&
			req.Metadata["filename"] == "cert.pdf"
	})).Return(&minio.UploadResult{ObjectKey: "acme/attachments/2026/03/x.pdf", Size: 3}, nil)
	store.On("PresignedDownloadURL", mock.Anything, mock.Anything, "cert.pdf", time.Minute).Return("https://s3/x", nil)

	out, err := newService(store, 0).Store(context.Background(), StoreRequest{Tenant: "acme", Data: "QUJD", MimeType: "application/pdf", Filename: "cert.pdf"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.Size)
	assert.Equal(t, "application/pdf", out.MimeType)
	assert.Equal(t, "https://s3/x", out.URL)
	assert.Equal(t, storedAt, out.StoredAt)
	assert.NotEmpty(t, out.ID)
	store.AssertExpectations(t)
}

func TestStore_PresignFailureKeepsUpload(t *testing.T) {
	store := &MockObjectRepository{}
	store.On("Upload", mock.Anything, mock.Anything).Return(&minio.UploadResult{ObjectKey: "k", Size: 3}, nil)
	store.On("PresignedDownloadURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New(errors.ErrCodeStorageError, "nope"))

	out, err := newService(store, 0).Store(context.Background(), StoreRequest{Tenant: "acme", Data: "data:text/plain;base64,QUJD"})
	require.NoError(t, err)
	assert.Empty(t, out.URL)
}

func TestStore_Rejections(t *testing.T) {
	tests := []struct {
		name string
		req  StoreRequest
		max  int64
		code errors.ErrorCode
	}{
		{"no tenant", StoreRequest{Data: "QUJD"}, 0, errors.ErrCodeTenantRequired},
		{"no data", StoreRequest{Tenant: "acme"}, 0, errors.ErrCodeDataURLInvalid},
		{"bad base64", StoreRequest{Tenant: "acme", Data: "data:text/plain;base64,@@@"}, 0, errors.ErrCodeDataURLInvalid},
		{"not base64 url", StoreRequest{Tenant: "acme", Data: "data:text/plain,hello"}, 0, errors.ErrCodeDataURLInvalid},
		{"too large", StoreRequest{Tenant: "acme", Data: "QUJD"}, 2, errors.ErrCodeDataURLInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &MockObjectRepository{}
			_, err := newService(store, tt.max).Store(context.Background(), tt.req)
			assert.True(t, errors.IsCode(err, tt.code), "got %v", err)
			store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
		})
	}
}

func TestStore_StorageDisabled(t *testing.T) {
	_, err := newService(nil, 0).Store(context.Background(), StoreRequest{Tenant: "acme", Data: "QUJD"})
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))
}

//Personal.AI order the ending
