package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/TuanVuuuu/petcare-api/pkg/httputil"
	"github.com/TuanVuuuu/petcare-api/pkg/middleware"
	"github.com/TuanVuuuu/petcare-api/pkg/validator"

	"github.com/TuanVuuuu/petcare-api/internal/domain"
	"github.com/TuanVuuuu/petcare-api/internal/service"
)

// PetHandler handles HTTP requests for pet record endpoints. Every route is
// behind the auth middleware; the requester uid always comes from context,
// never from the request body.
type PetHandler struct {
	service *service.PetService
	logger  *slog.Logger
}

// NewPetHandler creates a new pet HTTP handler.
func NewPetHandler(svc *service.PetService, logger *slog.Logger) *PetHandler {
	return &PetHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// CreatePetRequest is the JSON request body for creating a pet.
type CreatePetRequest struct {
	Name string `json:"name" validate:"required,notblank,max=100"`
	Type string `json:"type" validate:"required,notblank,max=50"`
	Age  *int   `json:"age" validate:"omitempty,gte=0,lte=50"`
}

// UpdatePetRequest is the JSON request body for partially updating a pet.
// Absent fields are left untouched.
type UpdatePetRequest struct {
	Name *string `json:"name" validate:"omitempty,notblank,max=100"`
	Type *string `json:"type" validate:"omitempty,notblank,max=50"`
	Age  *int    `json:"age" validate:"omitempty,gte=0,lte=50"`
}

// --- Handlers ---

// Create handles POST /api/v1/pets
func (h *PetHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserIDFromContext(r.Context())
	if uid == "" {
		writeUnauthenticated(w)
		return
	}

	var req CreatePetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	pet, err := h.service.Create(r.Context(), uid, service.CreateInput{
		Name: strings.TrimSpace(req.Name),
		Type: strings.TrimSpace(req.Type),
		Age:  req.Age,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Message: "pet created",
		Data:    pet,
	})
}

// List handles GET /api/v1/pets
func (h *PetHandler) List(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserIDFromContext(r.Context())
	if uid == "" {
		writeUnauthenticated(w)
		return
	}

	pets, err := h.service.ListByOwner(r.Context(), uid)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{
			"count": len(pets),
			"pets":  pets,
		},
	})
}

// Get handles GET /api/v1/pets/{id}
func (h *PetHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserIDFromContext(r.Context())
	if uid == "" {
		writeUnauthenticated(w)
		return
	}

	pet, err := h.service.Get(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: pet})
}

// Update handles PUT /api/v1/pets/{id}
func (h *PetHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserIDFromContext(r.Context())
	if uid == "" {
		writeUnauthenticated(w)
		return
	}

	var req UpdatePetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	patch := domain.PetPatch{
		Name: trimmedPtr(req.Name),
		Type: trimmedPtr(req.Type),
		Age:  req.Age,
	}
	if patch.IsEmpty() {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "no fields to update"},
		})
		return
	}

	pet, err := h.service.Update(r.Context(), uid, chi.URLParam(r, "id"), patch)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Message: "pet updated",
		Data:    pet,
	})
}

// Delete handles DELETE /api/v1/pets/{id}
func (h *PetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserIDFromContext(r.Context())
	if uid == "" {
		writeUnauthenticated(w)
		return
	}

	if err := h.service.Delete(r.Context(), uid, chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Message: "pet deleted"})
}

func writeUnauthenticated(w http.ResponseWriter) {
	httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
		Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "user not authenticated"},
	})
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}
