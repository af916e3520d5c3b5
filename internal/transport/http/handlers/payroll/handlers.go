package payrollhandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"hrms/internal/domain/payroll"
	"hrms/internal/platform/metrics"
	"hrms/internal/requestctx"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	svc     *payroll.Service
	metrics *metrics.Collector
}

func NewHandler(svc *payroll.Service, collector *metrics.Collector) *Handler {
	return &Handler{svc: svc, metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Use(middleware.RequirePayrollManager)

		r.Route("/structures", func(r chi.Router) {
			r.Get("/", h.handleListStructures)
			r.Post("/", h.handleCreateStructure)
			r.Get("/{structureID}", h.handleGetStructure)
			r.Put("/{structureID}", h.handleUpdateStructure)
			r.Delete("/{structureID}", h.handleDeleteStructure)
			r.Post("/{structureID}/components", h.handleAddComponent)
		})
		r.Route("/components", func(r chi.Router) {
			r.Put("/{componentID}", h.handleUpdateComponent)
			r.Delete("/{componentID}", h.handleDeleteComponent)
		})

		r.Route("/assignments", func(r chi.Router) {
			r.Get("/", h.handleListAssignments)
			r.Post("/", h.handleCreateAssignment)
			r.Get("/active", h.handleActiveAssignment)
			r.Get("/{assignmentID}", h.handleGetAssignment)
		})

		r.Route("/runs", func(r chi.Router) {
			r.Get("/", h.handleListRuns)
			r.Post("/", h.handleCreateRun)
			r.Get("/{runID}", h.handleGetRun)
			r.Put("/{runID}", h.handleUpdateRun)
			r.Post("/{runID}/process", h.handleProcessRun)
			r.Post("/{runID}/mark-paid", h.handleMarkRunPaid)
			r.Post("/{runID}/cancel", h.handleCancelRun)
			r.Post("/{runID}/generate-details", h.handleGenerateDetails)
			r.Post("/{runID}/recalculate", h.handleRecalculate)
			r.Get("/{runID}/details", h.handleListDetails)
			r.Post("/{runID}/details", h.handleCreateDetail)
		})

		r.Route("/details", func(r chi.Router) {
			r.Get("/{detailID}", h.handleGetDetail)
			r.Post("/{detailID}/approve", h.handleApproveDetail)
		})

		r.Route("/slips", func(r chi.Router) {
			r.Get("/", h.handleListSlips)
			r.Post("/", h.handleGenerateSlip)
			r.Get("/{slipID}", h.handleGetSlip)
			r.Post("/{slipID}/approve", h.handleApproveSlip)
			r.Post("/{slipID}/send", h.handleSendSlip)
			r.Post("/{slipID}/mark-paid", h.handleMarkSlipPaid)
			r.Get("/{slipID}/pdf", h.handleSlipPDF)
		})
	})
}

type componentPayload struct {
	Name              string          `json:"name"`
	Type              string          `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	Percentage        decimal.Decimal `json:"percentage"`
	IsPercentageBased bool            `json:"isPercentageBased"`
	IsTaxable         bool            `json:"isTaxable"`
	IsLeaveBased      bool            `json:"isLeaveBased"`
	DisplayOrder      int             `json:"displayOrder"`
}

type structurePayload struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	BasicSalary decimal.Decimal    `json:"basicSalary"`
	IsActive    *bool              `json:"isActive"`
	Components  []componentPayload `json:"components"`
}

type assignmentPayload struct {
	EmployeeID          int64            `json:"employeeId"`
	SalaryStructureID   int64            `json:"salaryStructureId"`
	EffectiveDate       string           `json:"effectiveDate"`
	OverrideBasicSalary *decimal.Decimal `json:"overrideBasicSalary"`
	Remarks             string           `json:"remarks"`
}

type runPayload struct {
	Name      string `json:"name"`
	Frequency string `json:"frequency"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Remarks   string `json:"remarks"`
}

type detailPayload struct {
	EmployeeID  int64  `json:"employeeId"`
	WorkingDays *int   `json:"workingDays"`
	DaysWorked  *int   `json:"daysWorked"`
	Remarks     string `json:"remarks"`
}

type slipPayload struct {
	DetailID int64  `json:"detailId"`
	Period   string `json:"period"`
	Remarks  string `json:"remarks"`
}

type datePayload struct {
	Date string `json:"date"`
}

func (c componentPayload) toDomain() payroll.SalaryComponent {
	return payroll.SalaryComponent{
		Name:              c.Name,
		Type:              c.Type,
		Amount:            c.Amount,
		Percentage:        c.Percentage,
		IsPercentageBased: c.IsPercentageBased,
		IsTaxable:         c.IsTaxable,
		IsLeaveBased:      c.IsLeaveBased,
		DisplayOrder:      c.DisplayOrder,
	}
}

func (h *Handler) handleListStructures(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	claims := requestctx.GetClaims(r.Context())
	page := shared.ParsePagination(r)
	structures, total, err := h.svc.ListStructures(r.Context(), claims.OrganizationID, page.Limit, page.Offset)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"items": structures, "total": total}, requestID)
}

func (h *Handler) handleGetStructure(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "structureID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid structure id", requestID)
		return
	}
	structure, err := h.svc.GetStructure(r.Context(), id)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, structure, requestID)
}

func (h *Handler) handleCreateStructure(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	var payload structurePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", requestID)
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		api.Fail(w, http.StatusBadRequest, "validation_error", "name is required", requestID)
		return
	}
	if payload.BasicSalary.IsNegative() {
		api.Fail(w, http.StatusBadRequest, "validation_error", "basicSalary cannot be negative", requestID)
		return
	}

	claims := requestctx.GetClaims(r.Context())
	structure := payroll.SalaryStructure{
		OrganizationID: claims.OrganizationID,
		Name:           payload.Name,
		Description:    payload.Description,
		BasicSalary:    payload.BasicSalary,
		IsActive:       true,
	}
	if payload.IsActive != nil {
		structure.IsActive = *payload.IsActive
	}
	for _, c := range payload.Components {
		structure.Components = append(structure.Components, c.toDomain())
	}

	id, err := h.svc.CreateStructure(r.Context(), structure)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	created, err := h.svc.GetStructure(r.Context(), id)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Created(w, created, requestID)
}

func (h *Handler) handleUpdateStructure(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "structureID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid structure id", requestID)
		return
	}
	current, err := h.svc.GetStructure(r.Context(), id)
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	var payload structurePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", requestID)
		return
	}
	if payload.Name != "" {
		current.Name = payload.Name
	}
	current.Description = payload.Description
	if !payload.BasicSalary.IsZero() {
		if payload.BasicSalary.IsNegative() {
			api.Fail(w, http.StatusBadRequest, "validation_error", "basicSalary cannot be negative", requestID)
			return
		}
		current.BasicSalary = payload.BasicSalary
	}
	if payload.IsActive != nil {
		current.IsActive = *payload.IsActive
	}

	if err := h.svc.UpdateStructure(r.Context(), *current); err != nil {
		writeError(w, err, requestID)
		return
	}
	updated, err := h.svc.GetStructure(r.Context(), id)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, updated, requestID)
}

func (h *Handler) handleDeleteStructure(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "structureID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid structure id", requestID)
		return
	}
	if err := h.svc.DeleteStructure(r.Context(), id); err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"deleted": true}, requestID)
}

func (h *Handler) handleAddComponent(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	structureID, err := shared.ParseID(chi.URLParam(r, "structureID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid structure id", requestID)
		return
	}
	var payload componentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", requestID)
		return
	}
	id, err := h.svc.AddComponent(r.Context(), structureID, payload.toDomain())
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Created(w, map[string]any{"id": id}, requestID)
}

func (h *Handler) handleUpdateComponent(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "componentID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid component id", requestID)
		return
	}
	var payload componentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", requestID)
		return
	}
	component := payload.toDomain()
	component.ID = id
	if err := h.svc.UpdateComponent(r.Context(), component); err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"updated": true}, requestID)
}

func (h *Handler) handleDeleteComponent(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "componentID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid component id", requestID)
		return
	}
	if err := h.svc.DeleteComponent(r.Context(), id); err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"deleted": true}, requestID)
}

func (h *Handler) handleListAssignments(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	employeeID, err := shared.ParseID(r.URL.Query().Get("employeeId"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "employeeId query parameter is required", requestID)
		return
	}
	assignments, err := h.svc.ListAssignments(r.Context(), employeeID)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, assignments, requestID)
}

func (h *Handler) handleActiveAssignment(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	employeeID, err := shared.ParseID(r.URL.Query().Get("employeeId"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "employeeId query parameter is required", requestID)
		return
	}
	assignment, err := h.svc.ActiveAssignment(r.Context(), employeeID)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, assignment, requestID)
}

func (h *Handler) handleGetAssignment(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "assignmentID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid assignment id", requestID)
		return
	}
	assignment, err := h.svc.GetAssignment(r.Context(), id)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, assignment, requestID)
}

func (h *Handler) handleCreateAssignment(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	var payload assignmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", requestID)
		return
	}
	if payload.EmployeeID == 0 || payload.SalaryStructureID == 0 {
		api.Fail(w, http.StatusBadRequest, "validation_error", "employeeId and salaryStructureId are required", requestID)
		return
	}
	assignment := payroll.SalaryAssignment{
		EmployeeID:          payload.EmployeeID,
		SalaryStructureID:   payload.SalaryStructureID,
		OverrideBasicSalary: payload.OverrideBasicSalary,
		Remarks:             payload.Remarks,
	}
	if payload.EffectiveDate != "" {
		effective, err := shared.ParseDate(payload.EffectiveDate)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
			return
		}
		assignment.EffectiveDate = effective
	}

	id, err := h.svc.CreateAssignment(r.Context(), assignment)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	created, err := h.svc.GetAssignment(r.Context(), id)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Created(w, created, requestID)
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	claims := requestctx.GetClaims(r.Context())
	page := shared.ParsePagination(r)
	runs, total, err := h.svc.ListRuns(r.Context(), claims.OrganizationID, page.Limit, page.Offset)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"items": runs, "total": total}, requestID)
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "runID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid run id", requestID)
		return
	}
	run, err := h.svc.GetRun(r.Context(), id)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, run, requestID)
}

func (h *Handler) decodeRunPayload(r *http.Request, requestID string, w http.ResponseWriter) (*payroll.Run, bool) {
	var payload runPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", requestID)
		return nil, false
	}
	if strings.TrimSpace(payload.Name) == "" || payload.StartDate == "" || payload.EndDate == "" {
		api.Fail(w, http.StatusBadRequest, "validation_error", "name, startDate, and endDate are required", requestID)
		return nil, false
	}
	start, err := shared.ParseDate(payload.StartDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
		return nil, false
	}
	end, err := shared.ParseDate(payload.EndDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
		return nil, false
	}

	claims := requestctx.GetClaims(r.Context())
	return &payroll.Run{
		OrganizationID: claims.OrganizationID,
		Name:           payload.Name,
		Frequency:      payload.Frequency,
		StartDate:      start,
		EndDate:        end,
		Remarks:        payload.Remarks,
	}, true
}

func (h *Handler) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	run, ok := h.decodeRunPayload(r, requestID, w)
	if !ok {
		return
	}
	id, err := h.svc.CreateRun(r.Context(), *run)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	created, err := h.svc.GetRun(r.Context(), id)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Created(w, created, requestID)
}

func (h *Handler) handleUpdateRun(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "runID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid run id", requestID)
		return
	}
	run, ok := h.decodeRunPayload(r, requestID, w)
	if !ok {
		return
	}
	run.ID = id
	if err := h.svc.UpdateRun(r.Context(), *run); err != nil {
		writeError(w, err, requestID)
		return
	}
	updated, err := h.svc.GetRun(r.Context(), id)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, updated, requestID)
}

func (h *Handler) handleProcessRun(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "runID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid run id", requestID)
		return
	}
	run, err := h.svc.Process(r.Context(), id)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	if h.metrics != nil {
		h.metrics.RunProcessed()
	}
	api.Success(w, run, requestID)
}

func (h *Handler) handleMarkRunPaid(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "runID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid run id", requestID)
		return
	}
	paidDate := time.Now().UTC()
	var payload datePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err == nil && payload.Date != "" {
		parsed, err := shared.ParseDate(payload.Date)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
			return
		}
		paidDate = parsed
	}
	run, err := h.svc.MarkPaid(r.Context(), id, paidDate)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, run, requestID)
}

func (h *Handler) handleCancelRun(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "runID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid run id", requestID)
		return
	}
	if err := h.svc.Cancel(r.Context(), id); err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"cancelled": true}, requestID)
}

func (h *Handler) handleGenerateDetails(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "runID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid run id", requestID)
		return
	}
	var payload struct {
		WorkingDays *int `json:"workingDays"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)

	summary, err := h.svc.GenerateForAll(r.Context(), id, payload.WorkingDays)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	if h.metrics != nil {
		h.metrics.DetailsBuilt(summary.Created)
	}
	api.Success(w, summary, requestID)
}

func (h *Handler) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "runID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid run id", requestID)
		return
	}
	if err := h.svc.RecalculateAll(r.Context(), id); err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"recalculated": true}, requestID)
}

func (h *Handler) handleListDetails(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	runID, err := shared.ParseID(chi.URLParam(r, "runID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid run id", requestID)
		return
	}
	details, err := h.svc.ListDetails(r.Context(), runID)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, details, requestID)
}

func (h *Handler) handleCreateDetail(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	runID, err := shared.ParseID(chi.URLParam(r, "runID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid run id", requestID)
		return
	}
	var payload detailPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", requestID)
		return
	}
	if payload.EmployeeID == 0 {
		api.Fail(w, http.StatusBadRequest, "validation_error", "employeeId is required", requestID)
		return
	}

	detail, err := h.svc.BuildDetail(r.Context(), runID, payload.EmployeeID,
		payload.WorkingDays, payload.DaysWorked, payload.Remarks)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	if h.metrics != nil {
		h.metrics.DetailsBuilt(1)
	}
	api.Created(w, detail, requestID)
}

func (h *Handler) handleGetDetail(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "detailID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid detail id", requestID)
		return
	}
	detail, err := h.svc.GetDetail(r.Context(), id)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, detail, requestID)
}

func (h *Handler) handleApproveDetail(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "detailID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid detail id", requestID)
		return
	}
	if err := h.svc.ApproveDetail(r.Context(), id); err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"approved": true}, requestID)
}

func (h *Handler) handleListSlips(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	employeeID, err := shared.ParseID(r.URL.Query().Get("employeeId"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "employeeId query parameter is required", requestID)
		return
	}
	page := shared.ParsePagination(r)
	slips, total, err := h.svc.ListSlips(r.Context(), employeeID, page.Limit, page.Offset)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"items": slips, "total": total}, requestID)
}

func (h *Handler) handleGenerateSlip(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	var payload slipPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", requestID)
		return
	}
	if payload.DetailID == 0 {
		api.Fail(w, http.StatusBadRequest, "validation_error", "detailId is required", requestID)
		return
	}
	slip, err := h.svc.GenerateSlip(r.Context(), payload.DetailID, payload.Period, payload.Remarks)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	if h.metrics != nil {
		h.metrics.SlipGenerated()
	}
	api.Created(w, slip, requestID)
}

func (h *Handler) handleGetSlip(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "slipID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid slip id", requestID)
		return
	}
	slip, err := h.svc.GetSlip(r.Context(), id)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, slip, requestID)
}

func (h *Handler) handleApproveSlip(w http.ResponseWriter, r *http.Request) {
	h.transitionSlip(w, r, h.svc.ApproveSlip)
}

func (h *Handler) handleSendSlip(w http.ResponseWriter, r *http.Request) {
	h.transitionSlip(w, r, h.svc.SendSlip)
}

func (h *Handler) transitionSlip(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id int64) error) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "slipID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid slip id", requestID)
		return
	}
	if err := fn(r.Context(), id); err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"updated": true}, requestID)
}

func (h *Handler) handleMarkSlipPaid(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "slipID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid slip id", requestID)
		return
	}
	creditedDate := time.Now().UTC()
	var payload datePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err == nil && payload.Date != "" {
		parsed, err := shared.ParseDate(payload.Date)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
			return
		}
		creditedDate = parsed
	}
	if err := h.svc.MarkSlipPaid(r.Context(), id, creditedDate); err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"paid": true}, requestID)
}

func (h *Handler) handleSlipPDF(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "slipID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid slip id", requestID)
		return
	}
	pdf, err := h.svc.SlipPDF(r.Context(), id)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=salary-slip-%d.pdf", id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func writeError(w http.ResponseWriter, err error, requestID string) {
	var stateErr *payroll.StateError
	var dupErr *payroll.DuplicateDetailError
	var noSalaryErr *payroll.NoActiveSalaryError

	switch {
	case errors.Is(err, payroll.ErrStructureNotFound),
		errors.Is(err, payroll.ErrComponentNotFound),
		errors.Is(err, payroll.ErrAssignmentNotFound),
		errors.Is(err, payroll.ErrRunNotFound),
		errors.Is(err, payroll.ErrDetailNotFound),
		errors.Is(err, payroll.ErrSlipNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.Is(err, payroll.ErrRunOverlap),
		errors.Is(err, payroll.ErrSlipExists),
		errors.Is(err, payroll.ErrStructureInUse):
		api.Fail(w, http.StatusConflict, "conflict", err.Error(), requestID)
	case errors.As(err, &stateErr), errors.As(err, &dupErr):
		api.Fail(w, http.StatusConflict, "conflict", err.Error(), requestID)
	case errors.Is(err, payroll.ErrInvalidComponent),
		errors.Is(err, payroll.ErrInvalidDayCount),
		errors.Is(err, payroll.ErrInvalidPeriod),
		errors.Is(err, payroll.ErrRunEmpty):
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
	case errors.As(err, &noSalaryErr):
		api.Fail(w, http.StatusUnprocessableEntity, "no_active_salary", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", requestID)
	}
}
