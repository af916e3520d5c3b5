package authhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/auth"
	"hrms/internal/requestctx"
	"hrms/internal/transport/http/api"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.handleLogin)
		r.Get("/me", h.handleMe)
	})
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token          string `json:"token"`
	UserID         int64  `json:"userId"`
	OrganizationID int64  `json:"organizationId"`
	Role           string `json:"role"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid JSON body", requestID)
		return
	}
	if strings.TrimSpace(payload.Email) == "" || payload.Password == "" {
		api.Fail(w, http.StatusBadRequest, "validation_error", "email and password are required", requestID)
		return
	}

	token, user, err := h.svc.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			api.Fail(w, http.StatusUnauthorized, "invalid_credentials", err.Error(), requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "internal_error", "login failed", requestID)
		return
	}

	api.Success(w, loginResponse{
		Token:          token,
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		Role:           user.Role,
	}, requestID)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	claims := requestctx.GetClaims(r.Context())
	if claims == nil {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	api.Success(w, map[string]any{
		"userId":         claims.UserID,
		"organizationId": claims.OrganizationID,
		"employeeId":     claims.EmployeeID,
		"role":           claims.Role,
	}, requestID)
}
