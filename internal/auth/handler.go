package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/appboilerplate/taskmanager/internal/i18n"
	"github.com/appboilerplate/taskmanager/internal/platform/httpx"
	"github.com/appboilerplate/taskmanager/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	strings   i18n.Localizer
	common    i18n.Localizer
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, bundle *i18n.Bundle) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		strings:   bundle.Domain("user"),
		common:    bundle.Domain(""),
		validator: validator.New(),
	}
}

// MountPublicRoutes registers routes reachable without a session.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Post("/users/login", h.handleLogin)
}

// MountRoutes registers routes that require RequireAuth upstream.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/users/logout", h.handleLogout)
	r.Post("/users/logout/all", h.handleLogoutAll)
	r.Delete("/users/me", h.handleDeleteAccount)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	User  *Account `json:"user"`
	Token string   `json:"token"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, h.strings.T(r.Context(), "userWrongPassword"), err)
		return
	}
	req.Email = NormalizeEmail(req.Email)
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, h.strings.T(r.Context(), "userWrongPassword"), shared.ErrInvalidCredentials)
		return
	}

	h.logger.Info("logging user", slog.String("email", req.Email))

	acct, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if !shared.IsAuthError(err) {
			h.logger.Error("login", slog.Any("error", err))
			httpx.Error(w, http.StatusInternalServerError, h.common.T(r.Context(), "internalError"), err)
			return
		}
		httpx.Error(w, http.StatusBadRequest, h.strings.T(r.Context(), "userWrongPassword"), err)
		return
	}
	httpx.JSON(w, http.StatusOK, sessionResponse{User: acct, Token: token})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	acct := AccountFromContext(r.Context())
	principal, _ := shared.PrincipalFromContext(r.Context())

	h.logger.Info("logging out user", slog.String("account_id", acct.ID))

	if err := h.service.Revoke(r.Context(), acct, principal.Token); err != nil {
		h.logger.Error("logout", slog.Any("error", err))
		httpx.Error(w, http.StatusBadRequest, h.strings.T(r.Context(), "userLogoutError"), err)
		return
	}
	httpx.Success(w, http.StatusOK, h.strings.T(r.Context(), "userLogoutSuccess"))
}

func (h *Handler) handleLogoutAll(w http.ResponseWriter, r *http.Request) {
	acct := AccountFromContext(r.Context())
	if err := h.service.RevokeAll(r.Context(), acct); err != nil {
		h.logger.Error("logout all", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, h.strings.T(r.Context(), "userLogoutAllError"), err)
		return
	}
	httpx.Success(w, http.StatusOK, h.strings.T(r.Context(), "userLogoutAllSuccess"))
}

func (h *Handler) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	acct := AccountFromContext(r.Context())
	if err := h.service.DeleteAccount(r.Context(), acct); err != nil {
		h.logger.Error("delete account", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, h.strings.T(r.Context(), "userDeleteError"), err)
		return
	}
	h.logger.Info("account deleted", slog.String("account_id", acct.ID))
	httpx.JSON(w, http.StatusOK, acct)
}
