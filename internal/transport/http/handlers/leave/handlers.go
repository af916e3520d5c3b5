package leavehandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/leave"
	"hrms/internal/requestctx"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	svc *leave.Service
}

func NewHandler(svc *leave.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.Route("/types", func(r chi.Router) {
			r.Get("/", h.handleListTypes)
			r.With(middleware.RequirePayrollManager).Post("/", h.handleCreateType)
			r.With(middleware.RequirePayrollManager).Put("/{typeID}", h.handleUpdateType)
			r.With(middleware.RequirePayrollManager).Delete("/{typeID}", h.handleDeleteType)
		})
		r.Route("/requests", func(r chi.Router) {
			r.Get("/", h.handleListRequests)
			r.Post("/", h.handleCreateRequest)
			r.Get("/{requestID}", h.handleGetRequest)
			r.With(middleware.RequirePayrollManager).Post("/{requestID}/approve", h.handleApprove)
			r.With(middleware.RequirePayrollManager).Post("/{requestID}/reject", h.handleReject)
			r.Post("/{requestID}/cancel", h.handleCancel)
		})
	})
}

type typePayload struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	IsPaid      bool   `json:"isPaid"`
	DefaultDays int    `json:"defaultDays"`
	IsActive    *bool  `json:"isActive"`
}

type requestPayload struct {
	EmployeeID  int64  `json:"employeeId"`
	LeaveTypeID int64  `json:"leaveTypeId"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Reason      string `json:"reason"`
}

func (h *Handler) handleListTypes(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	claims := requestctx.GetClaims(r.Context())
	types, err := h.svc.ListTypes(r.Context(), claims.OrganizationID)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, types, requestID)
}

func (h *Handler) handleCreateType(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	var payload typePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", requestID)
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		api.Fail(w, http.StatusBadRequest, "validation_error", "name is required", requestID)
		return
	}

	claims := requestctx.GetClaims(r.Context())
	leaveType := leave.LeaveType{
		OrganizationID: claims.OrganizationID,
		Name:           payload.Name,
		Code:           payload.Code,
		IsPaid:         payload.IsPaid,
		DefaultDays:    payload.DefaultDays,
		IsActive:       true,
	}
	if payload.IsActive != nil {
		leaveType.IsActive = *payload.IsActive
	}
	id, err := h.svc.CreateType(r.Context(), leaveType)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	leaveType.ID = id
	api.Created(w, leaveType, requestID)
}

func (h *Handler) handleUpdateType(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "typeID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid leave type id", requestID)
		return
	}
	current, err := h.svc.GetType(r.Context(), id)
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	var payload typePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", requestID)
		return
	}
	if payload.Name != "" {
		current.Name = payload.Name
	}
	if payload.Code != "" {
		current.Code = payload.Code
	}
	current.IsPaid = payload.IsPaid
	current.DefaultDays = payload.DefaultDays
	if payload.IsActive != nil {
		current.IsActive = *payload.IsActive
	}
	if err := h.svc.UpdateType(r.Context(), *current); err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, current, requestID)
}

func (h *Handler) handleDeleteType(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "typeID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid leave type id", requestID)
		return
	}
	if err := h.svc.DeleteType(r.Context(), id); err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"deleted": true}, requestID)
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	employeeID, err := shared.ParseID(r.URL.Query().Get("employeeId"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "employeeId query parameter is required", requestID)
		return
	}
	page := shared.ParsePagination(r)
	requests, total, err := h.svc.ListRequests(r.Context(), employeeID, page.Limit, page.Offset)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"items": requests, "total": total}, requestID)
}

func (h *Handler) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "requestID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid request id", requestID)
		return
	}
	request, err := h.svc.GetRequest(r.Context(), id)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, request, requestID)
}

func (h *Handler) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	var payload requestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", requestID)
		return
	}
	claims := requestctx.GetClaims(r.Context())
	employeeID := payload.EmployeeID
	if employeeID == 0 {
		employeeID = claims.EmployeeID
	}
	if employeeID == 0 || payload.LeaveTypeID == 0 {
		api.Fail(w, http.StatusBadRequest, "validation_error", "employeeId and leaveTypeId are required", requestID)
		return
	}
	start, err := shared.ParseDate(payload.StartDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
		return
	}
	end, err := shared.ParseDate(payload.EndDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
		return
	}

	request := leave.LeaveRequest{
		EmployeeID:  employeeID,
		LeaveTypeID: payload.LeaveTypeID,
		StartDate:   start,
		EndDate:     end,
		Reason:      payload.Reason,
	}
	id, err := h.svc.CreateRequest(r.Context(), request)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	created, err := h.svc.GetRequest(r.Context(), id)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Created(w, created, requestID)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.svc.Approve)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.svc.Reject)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id, decidedBy int64) error) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "requestID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid request id", requestID)
		return
	}
	claims := requestctx.GetClaims(r.Context())
	if err := fn(r.Context(), id, claims.UserID); err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"updated": true}, requestID)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "requestID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid request id", requestID)
		return
	}
	if err := h.svc.Cancel(r.Context(), id); err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"cancelled": true}, requestID)
}

func writeError(w http.ResponseWriter, err error, requestID string) {
	var stateErr *leave.RequestStateError

	switch {
	case errors.Is(err, leave.ErrTypeNotFound), errors.Is(err, leave.ErrRequestNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.Is(err, leave.ErrRequestOverlap), errors.As(err, &stateErr):
		api.Fail(w, http.StatusConflict, "conflict", err.Error(), requestID)
	case errors.Is(err, leave.ErrInvalidRange):
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", requestID)
	}
}
