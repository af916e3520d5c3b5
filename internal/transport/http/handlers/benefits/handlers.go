package benefitshandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"hrms/internal/domain/benefits"
	"hrms/internal/requestctx"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	svc *benefits.Service
}

func NewHandler(svc *benefits.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/benefits", func(r chi.Router) {
		r.Use(middleware.RequirePayrollManager)

		r.Route("/plans", func(r chi.Router) {
			r.Get("/", h.handleListPlans)
			r.Post("/", h.handleCreatePlan)
			r.Get("/{planID}", h.handleGetPlan)
			r.Put("/{planID}", h.handleUpdatePlan)
			r.Delete("/{planID}", h.handleDeletePlan)
		})
		r.Route("/enrollments", func(r chi.Router) {
			r.Get("/", h.handleListEnrollments)
			r.Post("/", h.handleEnroll)
			r.Get("/{enrollmentID}", h.handleGetEnrollment)
			r.Post("/{enrollmentID}/terminate", h.handleTerminate)
		})
		r.Get("/contribution", h.handleContribution)
	})
}

type planPayload struct {
	Name                 string          `json:"name"`
	Description          string          `json:"description"`
	Provider             string          `json:"provider"`
	EmployeeContribution decimal.Decimal `json:"employeeContribution"`
	EmployerContribution decimal.Decimal `json:"employerContribution"`
	IsActive             *bool           `json:"isActive"`
}

type enrollmentPayload struct {
	EmployeeID                   int64           `json:"employeeId"`
	PlanID                       int64           `json:"planId"`
	EnrollmentDate               string          `json:"enrollmentDate"`
	OverrideEmployeeContribution decimal.Decimal `json:"overrideEmployeeContribution"`
}

func (h *Handler) handleListPlans(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	claims := requestctx.GetClaims(r.Context())
	page := shared.ParsePagination(r)
	plans, total, err := h.svc.ListPlans(r.Context(), claims.OrganizationID, page.Limit, page.Offset)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"items": plans, "total": total}, requestID)
}

func (h *Handler) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "planID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid plan id", requestID)
		return
	}
	plan, err := h.svc.GetPlan(r.Context(), id)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, plan, requestID)
}

func (h *Handler) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	var payload planPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", requestID)
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		api.Fail(w, http.StatusBadRequest, "validation_error", "name is required", requestID)
		return
	}

	claims := requestctx.GetClaims(r.Context())
	plan := benefits.Plan{
		OrganizationID:       claims.OrganizationID,
		Name:                 payload.Name,
		Description:          payload.Description,
		Provider:             payload.Provider,
		EmployeeContribution: payload.EmployeeContribution,
		EmployerContribution: payload.EmployerContribution,
		IsActive:             true,
	}
	if payload.IsActive != nil {
		plan.IsActive = *payload.IsActive
	}
	id, err := h.svc.CreatePlan(r.Context(), plan)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	created, err := h.svc.GetPlan(r.Context(), id)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Created(w, created, requestID)
}

func (h *Handler) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "planID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid plan id", requestID)
		return
	}
	current, err := h.svc.GetPlan(r.Context(), id)
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	var payload planPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", requestID)
		return
	}
	if payload.Name != "" {
		current.Name = payload.Name
	}
	current.Description = payload.Description
	current.Provider = payload.Provider
	current.EmployeeContribution = payload.EmployeeContribution
	current.EmployerContribution = payload.EmployerContribution
	if payload.IsActive != nil {
		current.IsActive = *payload.IsActive
	}
	if err := h.svc.UpdatePlan(r.Context(), *current); err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, current, requestID)
}

func (h *Handler) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "planID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid plan id", requestID)
		return
	}
	if err := h.svc.DeletePlan(r.Context(), id); err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"deleted": true}, requestID)
}

func (h *Handler) handleListEnrollments(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	employeeID, err := shared.ParseID(r.URL.Query().Get("employeeId"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "employeeId query parameter is required", requestID)
		return
	}
	enrollments, err := h.svc.ListEnrollments(r.Context(), employeeID)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, enrollments, requestID)
}

func (h *Handler) handleGetEnrollment(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "enrollmentID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid enrollment id", requestID)
		return
	}
	enrollment, err := h.svc.GetEnrollment(r.Context(), id)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, enrollment, requestID)
}

func (h *Handler) handleEnroll(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	var payload enrollmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", requestID)
		return
	}
	if payload.EmployeeID == 0 || payload.PlanID == 0 {
		api.Fail(w, http.StatusBadRequest, "validation_error", "employeeId and planId are required", requestID)
		return
	}
	enrollment := benefits.Enrollment{
		EmployeeID:                   payload.EmployeeID,
		PlanID:                       payload.PlanID,
		OverrideEmployeeContribution: payload.OverrideEmployeeContribution,
	}
	if payload.EnrollmentDate != "" {
		parsed, err := shared.ParseDate(payload.EnrollmentDate)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
			return
		}
		enrollment.EnrollmentDate = parsed
	}
	id, err := h.svc.Enroll(r.Context(), enrollment)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	created, err := h.svc.GetEnrollment(r.Context(), id)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Created(w, created, requestID)
}

func (h *Handler) handleTerminate(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "enrollmentID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid enrollment id", requestID)
		return
	}
	endDate := time.Now().UTC()
	var payload struct {
		EndDate string `json:"endDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err == nil && payload.EndDate != "" {
		parsed, err := shared.ParseDate(payload.EndDate)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
			return
		}
		endDate = parsed
	}
	if err := h.svc.Terminate(r.Context(), id, endDate); err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"terminated": true}, requestID)
}

func (h *Handler) handleContribution(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	employeeID, err := shared.ParseID(r.URL.Query().Get("employeeId"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "employeeId query parameter is required", requestID)
		return
	}
	onDate := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
			return
		}
		onDate = parsed
	}
	total, err := h.svc.EmployeeContribution(r.Context(), employeeID, onDate)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{
		"employeeId": employeeID,
		"date":       onDate.Format("2006-01-02"),
		"total":      total,
	}, requestID)
}

func writeError(w http.ResponseWriter, err error, requestID string) {
	var enrolledErr *benefits.AlreadyEnrolledError

	switch {
	case errors.Is(err, benefits.ErrPlanNotFound), errors.Is(err, benefits.ErrEnrollmentNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.As(err, &enrolledErr):
		api.Fail(w, http.StatusConflict, "conflict", err.Error(), requestID)
	case errors.Is(err, benefits.ErrNegativeAmount):
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", requestID)
	}
}
