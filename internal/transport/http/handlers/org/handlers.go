package orghandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/org"
	"hrms/internal/requestctx"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	store *org.Store
}

func NewHandler(store *org.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/organizations", func(r chi.Router) {
		r.Get("/", h.handleListOrganizations)
		r.Post("/", h.handleCreateOrganization)
		r.Get("/{orgID}", h.handleGetOrganization)
		r.Put("/{orgID}", h.handleUpdateOrganization)
		r.Get("/{orgID}/employees", h.handleListEmployees)
		r.Post("/{orgID}/employees", h.handleCreateEmployee)
	})
	r.Route("/employees", func(r chi.Router) {
		r.Get("/{employeeID}", h.handleGetEmployee)
		r.Put("/{employeeID}", h.handleUpdateEmployee)
	})
}

type organizationPayload struct {
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Address  string `json:"address"`
	IsActive *bool  `json:"isActive"`
}

type employeePayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	JobTitle  string `json:"jobTitle"`
	HireDate  string `json:"hireDate"`
	IsActive  *bool  `json:"isActive"`
}

func (h *Handler) handleListOrganizations(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	orgs, err := h.store.ListOrganizations(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to list organizations", requestID)
		return
	}
	api.Success(w, orgs, requestID)
}

func (h *Handler) handleGetOrganization(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "orgID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid organization id", requestID)
		return
	}
	organization, err := h.store.GetOrganization(r.Context(), id)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, organization, requestID)
}

func (h *Handler) handleCreateOrganization(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	var payload organizationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", requestID)
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		api.Fail(w, http.StatusBadRequest, "validation_error", "name is required", requestID)
		return
	}

	organization := org.Organization{
		Name:     payload.Name,
		Industry: payload.Industry,
		Address:  payload.Address,
		IsActive: true,
	}
	if payload.IsActive != nil {
		organization.IsActive = *payload.IsActive
	}
	id, err := h.store.CreateOrganization(r.Context(), &organization)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to create organization", requestID)
		return
	}
	organization.ID = id
	api.Created(w, organization, requestID)
}

func (h *Handler) handleUpdateOrganization(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "orgID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid organization id", requestID)
		return
	}
	current, err := h.store.GetOrganization(r.Context(), id)
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	var payload organizationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", requestID)
		return
	}
	if payload.Name != "" {
		current.Name = payload.Name
	}
	current.Industry = payload.Industry
	current.Address = payload.Address
	if payload.IsActive != nil {
		current.IsActive = *payload.IsActive
	}
	if err := h.store.UpdateOrganization(r.Context(), current); err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, current, requestID)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	orgID, err := shared.ParseID(chi.URLParam(r, "orgID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid organization id", requestID)
		return
	}
	page := shared.ParsePagination(r)
	employees, total, err := h.store.ListEmployees(r.Context(), orgID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to list employees", requestID)
		return
	}
	api.Success(w, map[string]any{"items": employees, "total": total}, requestID)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "employeeID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid employee id", requestID)
		return
	}
	employee, err := h.store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, employee, requestID)
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	orgID, err := shared.ParseID(chi.URLParam(r, "orgID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid organization id", requestID)
		return
	}

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", requestID)
		return
	}
	if strings.TrimSpace(payload.FirstName) == "" || strings.TrimSpace(payload.Email) == "" {
		api.Fail(w, http.StatusBadRequest, "validation_error", "firstName and email are required", requestID)
		return
	}
	hireDate := time.Now().UTC()
	if payload.HireDate != "" {
		parsed, err := shared.ParseDate(payload.HireDate)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
			return
		}
		hireDate = parsed
	}

	employee := org.Employee{
		OrganizationID: orgID,
		FirstName:      payload.FirstName,
		LastName:       payload.LastName,
		Email:          payload.Email,
		JobTitle:       payload.JobTitle,
		HireDate:       hireDate,
		IsActive:       true,
	}
	if payload.IsActive != nil {
		employee.IsActive = *payload.IsActive
	}
	id, err := h.store.CreateEmployee(r.Context(), &employee)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to create employee", requestID)
		return
	}
	employee.ID = id
	api.Created(w, employee, requestID)
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "employeeID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid employee id", requestID)
		return
	}
	current, err := h.store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", requestID)
		return
	}
	if payload.FirstName != "" {
		current.FirstName = payload.FirstName
	}
	if payload.LastName != "" {
		current.LastName = payload.LastName
	}
	if payload.Email != "" {
		current.Email = payload.Email
	}
	current.JobTitle = payload.JobTitle
	if payload.HireDate != "" {
		parsed, err := shared.ParseDate(payload.HireDate)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
			return
		}
		current.HireDate = parsed
	}
	if payload.IsActive != nil {
		current.IsActive = *payload.IsActive
	}
	if err := h.store.UpdateEmployee(r.Context(), current); err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, current, requestID)
}

func writeError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, org.ErrOrganizationNotFound), errors.Is(err, org.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", requestID)
	}
}
