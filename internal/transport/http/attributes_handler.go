package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/light-bringer/procat-admin/internal/app/catalog/domain"
	"github.com/light-bringer/procat-admin/internal/app/catalog/queries/list_attributes"
	"github.com/light-bringer/procat-admin/internal/app/catalog/usecases/delete_attribute"
	"github.com/light-bringer/procat-admin/internal/app/catalog/usecases/save_attribute"
	"github.com/light-bringer/procat-admin/internal/services"
)

// AttributesHandler serves the shared attribute endpoints of every kind.
type AttributesHandler struct {
	catalog *services.Catalog
}

// NewAttributesHandler creates a new AttributesHandler.
func NewAttributesHandler(catalog *services.Catalog) *AttributesHandler {
	return &AttributesHandler{catalog: catalog}
}

func (h *AttributesHandler) list(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseAttributeKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	attrs, err := h.catalog.ListAttributes.Execute(r.Context(), &list_attributes.Request{
		Kind:       kind,
		Discipline: domain.SizeDiscipline(r.URL.Query().Get("discipline")),
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	out := make([]attributeResponse, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, toAttributeResponse(attr))
	}
	writeJSON(w, http.StatusOK, map[string]any{"attributes": out})
}

func (h *AttributesHandler) create(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, 0)
}

func (h *AttributesHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "attributeID")
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	h.save(w, r, id)
}

func (h *AttributesHandler) save(w http.ResponseWriter, r *http.Request, id int64) {
	ctx := r.Context()
	kind, err := domain.ParseAttributeKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var payload attributePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(ctx, w, err)
		return
	}

	resp, err := h.catalog.SaveAttribute.Execute(ctx, &save_attribute.Request{
		Kind: kind,
		ID:   id,
		Fields: domain.AttributeFields{
			Name:       payload.Name,
			Hex:        payload.Hex,
			Discipline: payload.Discipline,
			CategoryID: payload.CategoryID,
		},
		Media:       payload.Media.toUpload(),
		RemoveMedia: payload.RemoveMedia,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{"id": resp.ID, "kind": kind, "created": resp.Created})
}

type deleteAttributeResponse struct {
	AffectedProducts []int64 `json:"affected_products"`
	DeletedProducts  []int64 `json:"deleted_products"`
}

func (h *AttributesHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	kind, err := domain.ParseAttributeKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	id, err := pathID(r, "attributeID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	resp, err := h.catalog.DeleteAttribute.Execute(ctx, &delete_attribute.Request{Kind: kind, ID: id})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	out := deleteAttributeResponse{AffectedProducts: resp.AffectedProducts, DeletedProducts: resp.DeletedProducts}
	if out.AffectedProducts == nil {
		out.AffectedProducts = []int64{}
	}
	if out.DeletedProducts == nil {
		out.DeletedProducts = []int64{}
	}
	writeJSON(w, http.StatusOK, out)
}
