package handlers

import (
	"net/http"

	attachmentapp "github.com/turtacn/AeroOps/internal/application/attachment"
)

// AttachmentHandler accepts base64 uploads and stores them.
type AttachmentHandler struct {
	svc   attachmentapp.Service
	limit int64
}

// NewAttachmentHandler sizes the body limit from the decoded limit; base64
// inflates payloads by a third.
func NewAttachmentHandler(svc attachmentapp.Service, maxSize int64) *AttachmentHandler {
	if maxSize <= 0 {
		maxSize = attachmentapp.DefaultMaxSize
	}
	return &AttachmentHandler{svc: svc, limit: maxSize*4/3 + maxBodyBytes}
}

// Upload handles POST /api/v1/attachments.
func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req attachmentapp.StoreRequest
	if err := decodeJSON(w, r, &req, h.limit); err != nil {
		writeError(w, r, err)
		return
	}
	req.Tenant = tenantOf(r)
	stored, err := h.svc.Store(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if stored.URL != "" {
		w.Header().Set("Location", stored.URL)
	}
	writeJSON(w, http.StatusCreated, stored)
}

//Personal.AI order the ending
