package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/light-bringer/procat-admin/internal/app/catalog/queries/get_product"
	"github.com/light-bringer/procat-admin/internal/app/catalog/queries/list_products"
	"github.com/light-bringer/procat-admin/internal/app/catalog/usecases/create_product"
	"github.com/light-bringer/procat-admin/internal/app/catalog/usecases/delete_product"
	"github.com/light-bringer/procat-admin/internal/app/catalog/usecases/edit_product"
	"github.com/light-bringer/procat-admin/internal/app/catalog/usecases/plan_variants"
	"github.com/light-bringer/procat-admin/internal/services"
)

// ProductsHandler serves product and variant plan endpoints.
type ProductsHandler struct {
	catalog *services.Catalog
}

// NewProductsHandler creates a new ProductsHandler.
func NewProductsHandler(catalog *services.Catalog) *ProductsHandler {
	return &ProductsHandler{catalog: catalog}
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var payload productPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	form, err := payload.toForm()
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	id, err := h.catalog.CreateProduct.Execute(r.Context(), &create_product.Request{Form: form})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	h.respondProduct(w, r, http.StatusCreated, id)
}

func (h *ProductsHandler) edit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productID")
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	var payload productPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	form, err := payload.toForm()
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	if err := h.catalog.EditProduct.Execute(r.Context(), &edit_product.Request{ProductID: id, Form: form}); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	h.respondProduct(w, r, http.StatusOK, id)
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productID")
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	if err := h.catalog.DeleteProduct.Execute(r.Context(), &delete_product.Request{ProductID: id}); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productID")
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	h.respondProduct(w, r, http.StatusOK, id)
}

func (h *ProductsHandler) respondProduct(w http.ResponseWriter, r *http.Request, status int, id int64) {
	dto, err := h.catalog.GetProduct.Execute(r.Context(), &get_product.Request{ProductID: id})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, status, toProductResponse(dto))
}

type listProductsResponse struct {
	Products   []productResponse `json:"products"`
	TotalCount int64             `json:"total_count"`
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := &list_products.Request{Status: q.Get("status")}
	for name, dst := range map[string]*int64{
		"brand_id":    &req.BrandID,
		"category_id": &req.CategoryID,
		"limit":       &req.Limit,
		"offset":      &req.Offset,
	} {
		if raw := q.Get(name); raw != "" {
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeError(r.Context(), w, fmt.Errorf("%w: %s must be an integer", errBadRequest, name))
				return
			}
			*dst = v
		}
	}

	result, err := h.catalog.ListProducts.Execute(r.Context(), req)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	resp := listProductsResponse{
		Products:   make([]productResponse, 0, len(result.Products)),
		TotalCount: result.TotalCount,
	}
	for _, dto := range result.Products {
		resp.Products = append(resp.Products, toProductResponse(dto))
	}
	writeJSON(w, http.StatusOK, resp)
}

type planResponse struct {
	Discipline string            `json:"size_discipline"`
	Variants   []variantResponse `json:"variants"`
}

// planVariants validates a variant matrix without writing anything.
func (h *ProductsHandler) planVariants(w http.ResponseWriter, r *http.Request) {
	var payload matrixPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	matrix, err := payload.toDomain()
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	plan, err := h.catalog.PlanVariants.Execute(r.Context(), &plan_variants.Request{Matrix: matrix})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	resp := planResponse{Discipline: string(plan.Discipline), Variants: make([]variantResponse, 0, len(plan.Variants))}
	for _, spec := range plan.Variants {
		colorID := spec.ColorID
		v := variantResponse{ColorID: &colorID, SizeID: spec.SizeID, Quantity: spec.Quantity, Images: []string{}}
		for _, img := range spec.Images {
			if img.IsUpload() {
				v.Uploads++
				continue
			}
			v.Images = append(v.Images, img.URL)
		}
		resp.Variants = append(resp.Variants, v)
	}
	writeJSON(w, http.StatusOK, resp)
}

func pathID(r *http.Request, param string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", errBadRequest, param)
	}
	return id, nil
}
