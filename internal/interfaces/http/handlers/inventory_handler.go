package handlers

import (
	"net/http"

	"github.com/turtacn/AeroOps/internal/application/inventory"
	"github.com/turtacn/AeroOps/pkg/client"
)

// InventoryHandler serves article writes. Reads go through the quarantine
// handler, which owns the cached views.
type InventoryHandler struct {
	svc inventory.Service
}

func NewInventoryHandler(svc inventory.Service) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// articleBodyLimit leaves room for the embedded image and certificate.
const articleBodyLimit = 16 * maxBodyBytes

// Create handles POST /api/v1/articles.
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req client.CreateArticleRequest
	if err := decodeJSON(w, r, &req, articleBodyLimit); err != nil {
		writeError(w, r, err)
		return
	}
	art, err := h.svc.CreateArticle(r.Context(), tenantOf(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, art)
}

// Delete handles DELETE /api/v1/articles/{articleID}.
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "articleID")
	if err == nil {
		err = h.svc.DeleteArticle(r.Context(), tenantOf(r), id)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

//Personal.AI order the ending
