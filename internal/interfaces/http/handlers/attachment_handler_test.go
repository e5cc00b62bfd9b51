package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	attachmentapp "github.com/turtacn/AeroOps/internal/application/attachment"
	"github.com/turtacn/AeroOps/pkg/errors"
)

type MockAttachmentService struct {
	mock.Mock
}

func (m *MockAttachmentService) Normalize(raw, mime string) string {
	return m.Called(raw, mime).String(0)
}

func (m *MockAttachmentService) Store(ctx context.Context, req attachmentapp.StoreRequest) (*attachmentapp.Stored, error) {
	args := m.Called(ctx, req)
	s, _ := args.Get(0).(*attachmentapp.Stored)
	return s, args.Error(1)
}

func TestAttachmentHandler_Upload(t *testing.T) {
	svc := new(MockAttachmentService)
	svc.On("Store", mock.Anything, attachmentapp.StoreRequest{Tenant: testTenant, Data: "JVBERi0=", MimeType: "application/pdf"}).
		Return(&attachmentapp.Stored{ID: "a1", Key: "acme/attachments/2026/10/a1.pdf", URL: "https://minio.local/a1", StoredAt: time.Now()}, nil)
	h := NewAttachmentHandler(svc, 0)

	w := serve(t, http.MethodPost, "/attachments", "/attachments", jsonBody(`{"data":"JVBERi0=","mime_type":"application/pdf"}`), h.Upload)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "https://minio.local/a1", w.Header().Get("Location"))
	svc.AssertExpectations(t)
}

func TestAttachmentHandler_UploadErrors(t *testing.T) {
	svc := new(MockAttachmentService)
	svc.On("Store", mock.Anything, mock.Anything).Return(nil, errors.New(errors.ErrCodeServiceUnavailable, "object storage disabled"))
	h := NewAttachmentHandler(svc, 0)

	w := serve(t, http.MethodPost, "/attachments", "/attachments", jsonBody(`{}`), h.Upload)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = serve(t, http.MethodPost, "/attachments", "/attachments", jsonBody(`{"data":"AAAA"}`), h.Upload)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAttachmentHandler_BodyLimit(t *testing.T) {
	h := NewAttachmentHandler(new(MockAttachmentService), 10)
	assert.Equal(t, int64(10*4/3+maxBodyBytes), h.limit)

	h = NewAttachmentHandler(new(MockAttachmentService), 0)
	assert.Equal(t, int64(attachmentapp.DefaultMaxSize*4/3+maxBodyBytes), h.limit)
}

//Personal.AI order the ending
