package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/light-bringer/procat-admin/internal/app/catalog/domain"
	"github.com/light-bringer/procat-admin/internal/pkg/logging"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	Step      string            `json:"step,omitempty"`
	Completed []string          `json:"completed,omitempty"`
	Partial   bool              `json:"partial,omitempty"`
}

// errBadRequest marks malformed input rejected before any use case runs.
var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps catalog errors to HTTP statuses.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status, body := mapError(err)
	if status >= http.StatusInternalServerError || status == http.StatusBadGateway {
		logging.FromContext(ctx, nil).Error("catalog operation failed", zap.Error(err))
	}
	writeJSON(w, status, body)
}

func mapError(err error) (int, errorResponse) {
	var (
		ve      *domain.ValidationError
		partial *domain.PartialCascadeError
		upload  *domain.UploadError
		store   *domain.StoreError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity, errorResponse{Error: "validation_failed", Message: "some fields are invalid", Fields: ve.Fields}
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, errorResponse{Error: "invalid_request", Message: err.Error()}
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, errorResponse{Error: "not_found", Message: "product not found"}
	case errors.Is(err, domain.ErrAttributeNotFound):
		return http.StatusNotFound, errorResponse{Error: "not_found", Message: "attribute not found"}
	case errors.Is(err, domain.ErrUnknownAttributeKind):
		return http.StatusNotFound, errorResponse{Error: "unknown_kind", Message: err.Error()}
	case errors.Is(err, domain.ErrNoMediaCapability):
		return http.StatusBadRequest, errorResponse{Error: "no_media", Message: err.Error()}
	case errors.As(err, &partial):
		return http.StatusInternalServerError, errorResponse{
			Error:     "partial_cascade",
			Message:   "the deletion stopped partway; verify and retry",
			Step:      partial.Step,
			Completed: partial.Completed,
			Partial:   true,
		}
	case errors.As(err, &upload):
		return http.StatusBadGateway, errorResponse{Error: "upload_failed", Message: "image storage failed", Step: upload.Op}
	case errors.As(err, &store):
		return http.StatusBadGateway, errorResponse{Error: "store_failed", Message: "record store failed", Step: store.Step}
	default:
		return http.StatusInternalServerError, errorResponse{Error: "internal", Message: "internal server error"}
	}
}
