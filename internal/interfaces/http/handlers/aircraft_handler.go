package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/AeroOps/internal/application/aircraft"
	domain "github.com/turtacn/AeroOps/internal/domain/aircraft"
	"github.com/turtacn/AeroOps/pkg/errors"
)

// AircraftHandler serves the part-tree drafts. Mutations honour If-Match
// with the draft version returned in ETag.
type AircraftHandler struct {
	svc aircraft.Service
}

func NewAircraftHandler(svc aircraft.Service) *AircraftHandler {
	return &AircraftHandler{svc: svc}
}

// ReplacePartsRequest is the body of PUT .../parts.
type ReplacePartsRequest struct {
	Parts []domain.Part `json:"parts" validate:"required,min=1"`
}

// AddSubpartRequest is the body of POST .../subparts.
type AddSubpartRequest struct {
	Parent string `json:"parent" validate:"required"`
}

func (h *AircraftHandler) ref(r *http.Request, withDraft bool) (aircraft.Ref, error) {
	id, err := pathID(r, "aircraftID")
	if err != nil {
		return aircraft.Ref{}, err
	}
	ref := aircraft.Ref{Tenant: tenantOf(r), AircraftID: id}
	if withDraft {
		ref.DraftID = chi.URLParam(r, "draftID")
	}
	return ref, nil
}

// ifMatch reads the expected draft version; absent means unconditional.
func ifMatch(r *http.Request) (int, error) {
	raw := strings.Trim(strings.TrimPrefix(strings.TrimSpace(r.Header.Get("If-Match")), "W/"), `"`)
	if raw == "" || raw == "*" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, errors.InvalidParam("If-Match must carry a draft version").WithDetail(raw)
	}
	return v, nil
}

func pathQuery(r *http.Request, name string) (domain.Path, error) {
	raw := r.URL.Query().Get(name)
	p, err := domain.ParsePath(raw)
	if err != nil {
		return nil, errors.New(errors.ErrCodePartPathInvalid, "invalid part path").WithDetail(raw)
	}
	return p, nil
}

// draftResponse adds the is_father warnings so the form can show them while
// editing, not only on submit.
type draftResponse struct {
	*domain.Draft
	Warnings []domain.Inconsistency `json:"warnings"`
}

func writeDraft(w http.ResponseWriter, status int, d *domain.Draft) {
	w.Header().Set("ETag", `"`+strconv.Itoa(d.Version)+`"`)
	warnings := []domain.Inconsistency{}
	if d.Editor != nil {
		if found := domain.Inconsistencies(d.Editor.Parts); len(found) > 0 {
			warnings = found
		}
	}
	writeJSON(w, status, draftResponse{Draft: d, Warnings: warnings})
}

// Open handles POST /api/v1/aircraft/{aircraftID}/drafts.
func (h *AircraftHandler) Open(w http.ResponseWriter, r *http.Request) {
	ref, err := h.ref(r, false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	d, err := h.svc.Open(r.Context(), ref)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeDraft(w, http.StatusCreated, d)
}

// Get handles GET /api/v1/aircraft/{aircraftID}/drafts/{draftID}.
func (h *AircraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	ref, err := h.ref(r, true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	d, err := h.svc.Get(r.Context(), ref)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeDraft(w, http.StatusOK, d)
}

// Discard handles DELETE /api/v1/aircraft/{aircraftID}/drafts/{draftID}.
func (h *AircraftHandler) Discard(w http.ResponseWriter, r *http.Request) {
	ref, err := h.ref(r, true)
	if err == nil {
		err = h.svc.Discard(r.Context(), ref)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// edit runs one versioned mutation and writes the saved draft.
func (h *AircraftHandler) edit(w http.ResponseWriter, r *http.Request, fn func(ref aircraft.Ref, version int) (*domain.Draft, error)) {
	ref, err := h.ref(r, true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	version, err := ifMatch(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	d, err := fn(ref, version)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeDraft(w, http.StatusOK, d)
}

// AddPart handles POST .../parts.
func (h *AircraftHandler) AddPart(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, func(ref aircraft.Ref, v int) (*domain.Draft, error) {
		return h.svc.AddPart(r.Context(), ref, v)
	})
}

// ReplaceParts handles PUT .../parts.
func (h *AircraftHandler) ReplaceParts(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, func(ref aircraft.Ref, v int) (*domain.Draft, error) {
		var req ReplacePartsRequest
		if err := decodeJSON(w, r, &req, 4*maxBodyBytes); err != nil {
			return nil, err
		}
		return h.svc.Replace(r.Context(), ref, v, req.Parts)
	})
}

// UpdatePart handles PATCH .../parts?path=0.1.
func (h *AircraftHandler) UpdatePart(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, func(ref aircraft.Ref, v int) (*domain.Draft, error) {
		path, err := pathQuery(r, "path")
		if err != nil {
			return nil, err
		}
		var patch aircraft.PartPatch
		if err := decodeJSON(w, r, &patch, 0); err != nil {
			return nil, err
		}
		return h.svc.UpdatePart(r.Context(), ref, v, path, patch)
	})
}

// AddSubpart handles POST .../subparts.
func (h *AircraftHandler) AddSubpart(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, func(ref aircraft.Ref, v int) (*domain.Draft, error) {
		var req AddSubpartRequest
		if err := decodeJSON(w, r, &req, 0); err != nil {
			return nil, err
		}
		parent, err := domain.ParsePath(req.Parent)
		if err != nil {
			return nil, errors.New(errors.ErrCodePartPathInvalid, "invalid part path").WithDetail(req.Parent)
		}
		return h.svc.AddSubpart(r.Context(), ref, v, parent)
	})
}

// RemoveItem handles DELETE .../items?path=0.1.
func (h *AircraftHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, func(ref aircraft.Ref, v int) (*domain.Draft, error) {
		path, err := pathQuery(r, "path")
		if err != nil {
			return nil, err
		}
		return h.svc.RemoveItem(r.Context(), ref, v, path)
	})
}

// Toggle handles POST .../toggle?path=0.
func (h *AircraftHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, func(ref aircraft.Ref, v int) (*domain.Draft, error) {
		path, err := pathQuery(r, "path")
		if err != nil {
			return nil, err
		}
		return h.svc.Toggle(r.Context(), ref, v, path)
	})
}

// Submit handles POST .../submit.
func (h *AircraftHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ref, err := h.ref(r, true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.Submit(r.Context(), ref)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

//Personal.AI order the ending
