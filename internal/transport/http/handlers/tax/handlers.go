package taxhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"hrms/internal/domain/tax"
	"hrms/internal/requestctx"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	svc *tax.Service
}

func NewHandler(svc *tax.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tax", func(r chi.Router) {
		r.Use(middleware.RequirePayrollManager)

		r.Route("/configurations", func(r chi.Router) {
			r.Get("/", h.handleListConfigurations)
			r.Post("/", h.handleCreateConfiguration)
			r.Get("/active", h.handleActiveConfiguration)
			r.Get("/{configID}", h.handleGetConfiguration)
			r.Put("/{configID}", h.handleUpdateConfiguration)
			r.Delete("/{configID}", h.handleDeleteConfiguration)
			r.Get("/{configID}/slabs", h.handleListSlabs)
			r.Post("/{configID}/slabs", h.handleCreateSlab)
		})
		r.Route("/slabs", func(r chi.Router) {
			r.Put("/{slabID}", h.handleUpdateSlab)
			r.Delete("/{slabID}", h.handleDeleteSlab)
		})
		r.Post("/estimate", h.handleEstimate)
	})
}

type configurationPayload struct {
	Name                 string          `json:"name"`
	FinancialYear        int             `json:"financialYear"`
	Country              string          `json:"country"`
	Region               string          `json:"region"`
	StandardRate         decimal.Decimal `json:"standardRate"`
	MinimumTaxableIncome decimal.Decimal `json:"minimumTaxableIncome"`
	MonthlyExemption     decimal.Decimal `json:"monthlyExemption"`
	UseProgressive       bool            `json:"useProgressive"`
	IsActive             *bool           `json:"isActive"`
}

type slabPayload struct {
	FromAmount   decimal.Decimal `json:"fromAmount"`
	ToAmount     decimal.Decimal `json:"toAmount"`
	Rate         decimal.Decimal `json:"rate"`
	DisplayOrder int             `json:"displayOrder"`
	IsActive     *bool           `json:"isActive"`
}

func (p configurationPayload) apply(cfg *tax.Configuration) {
	cfg.Name = p.Name
	cfg.FinancialYear = p.FinancialYear
	cfg.Country = p.Country
	cfg.Region = p.Region
	cfg.StandardRate = p.StandardRate
	cfg.MinimumTaxableIncome = p.MinimumTaxableIncome
	cfg.MonthlyExemption = p.MonthlyExemption
	cfg.UseProgressive = p.UseProgressive
	if p.IsActive != nil {
		cfg.IsActive = *p.IsActive
	}
}

func (h *Handler) handleListConfigurations(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	claims := requestctx.GetClaims(r.Context())
	page := shared.ParsePagination(r)
	configs, total, err := h.svc.ListConfigurations(r.Context(), claims.OrganizationID, page.Limit, page.Offset)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"items": configs, "total": total}, requestID)
}

func (h *Handler) handleActiveConfiguration(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	claims := requestctx.GetClaims(r.Context())
	cfg, err := h.svc.ActiveConfiguration(r.Context(), claims.OrganizationID)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	if cfg == nil {
		api.Fail(w, http.StatusNotFound, "not_found", "no active tax configuration", requestID)
		return
	}
	api.Success(w, cfg, requestID)
}

func (h *Handler) handleGetConfiguration(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "configID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid configuration id", requestID)
		return
	}
	cfg, err := h.svc.GetConfiguration(r.Context(), id)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, cfg, requestID)
}

func (h *Handler) handleCreateConfiguration(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	var payload configurationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", requestID)
		return
	}
	if strings.TrimSpace(payload.Name) == "" || payload.FinancialYear == 0 {
		api.Fail(w, http.StatusBadRequest, "validation_error", "name and financialYear are required", requestID)
		return
	}

	claims := requestctx.GetClaims(r.Context())
	cfg := tax.Configuration{OrganizationID: claims.OrganizationID, IsActive: true}
	payload.apply(&cfg)

	id, err := h.svc.CreateConfiguration(r.Context(), cfg)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	created, err := h.svc.GetConfiguration(r.Context(), id)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Created(w, created, requestID)
}

func (h *Handler) handleUpdateConfiguration(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "configID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid configuration id", requestID)
		return
	}
	current, err := h.svc.GetConfiguration(r.Context(), id)
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	var payload configurationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", requestID)
		return
	}
	payload.apply(current)
	if err := h.svc.UpdateConfiguration(r.Context(), *current); err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, current, requestID)
}

func (h *Handler) handleDeleteConfiguration(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "configID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid configuration id", requestID)
		return
	}
	if err := h.svc.DeleteConfiguration(r.Context(), id); err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"deleted": true}, requestID)
}

func (h *Handler) handleListSlabs(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	configID, err := shared.ParseID(chi.URLParam(r, "configID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid configuration id", requestID)
		return
	}
	slabs, err := h.svc.ListSlabs(r.Context(), configID)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, slabs, requestID)
}

func (h *Handler) handleCreateSlab(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	configID, err := shared.ParseID(chi.URLParam(r, "configID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid configuration id", requestID)
		return
	}
	var payload slabPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", requestID)
		return
	}
	slab := tax.Slab{
		ConfigurationID: configID,
		FromAmount:      payload.FromAmount,
		ToAmount:        payload.ToAmount,
		Rate:            payload.Rate,
		DisplayOrder:    payload.DisplayOrder,
		IsActive:        true,
	}
	if payload.IsActive != nil {
		slab.IsActive = *payload.IsActive
	}
	id, err := h.svc.CreateSlab(r.Context(), slab)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Created(w, map[string]any{"id": id}, requestID)
}

func (h *Handler) handleUpdateSlab(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "slabID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid slab id", requestID)
		return
	}
	var payload slabPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", requestID)
		return
	}
	slab := tax.Slab{
		ID:           id,
		FromAmount:   payload.FromAmount,
		ToAmount:     payload.ToAmount,
		Rate:         payload.Rate,
		DisplayOrder: payload.DisplayOrder,
		IsActive:     true,
	}
	if payload.IsActive != nil {
		slab.IsActive = *payload.IsActive
	}
	if err := h.svc.UpdateSlab(r.Context(), slab); err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"updated": true}, requestID)
}

func (h *Handler) handleDeleteSlab(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	id, err := shared.ParseID(chi.URLParam(r, "slabID"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid slab id", requestID)
		return
	}
	if err := h.svc.DeleteSlab(r.Context(), id); err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"deleted": true}, requestID)
}

func (h *Handler) handleEstimate(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	var payload struct {
		Income decimal.Decimal `json:"income"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", requestID)
		return
	}
	if payload.Income.IsNegative() {
		api.Fail(w, http.StatusBadRequest, "validation_error", "income cannot be negative", requestID)
		return
	}

	claims := requestctx.GetClaims(r.Context())
	rate, amount, err := h.svc.Estimate(r.Context(), claims.OrganizationID, payload.Income)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{
		"income":         payload.Income,
		"applicableRate": rate,
		"taxAmount":      amount,
	}, requestID)
}

func writeError(w http.ResponseWriter, err error, requestID string) {
	var overlapErr *tax.SlabOverlapError

	switch {
	case errors.Is(err, tax.ErrConfigurationNotFound), errors.Is(err, tax.ErrSlabNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.As(err, &overlapErr):
		api.Fail(w, http.StatusConflict, "conflict", err.Error(), requestID)
	case errors.Is(err, tax.ErrInvalidRange),
		errors.Is(err, tax.ErrInvalidRate),
		errors.Is(err, tax.ErrNegativeAmount):
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", requestID)
	}
}
