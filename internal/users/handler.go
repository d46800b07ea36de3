package users

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/appboilerplate/taskmanager/internal/auth"
	"github.com/appboilerplate/taskmanager/internal/i18n"
	"github.com/appboilerplate/taskmanager/internal/platform/httpx"
	"github.com/appboilerplate/taskmanager/internal/shared"
)

// multipart framing allowance on top of the file itself
const uploadOverhead = 64 << 10

// Handler manages account profile endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	strings i18n.Localizer
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, bundle *i18n.Bundle) *Handler {
	return &Handler{logger: logger, service: service, strings: bundle.Domain("user")}
}

// MountPublicRoutes registers routes reachable without a session.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Post("/users", h.handleSignup)
	r.Get("/user/{id}/profile", h.handleAvatar)
}

// MountRoutes registers routes that require auth.Middleware upstream.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/users/profile", h.handleProfile)
	r.Patch("/users/me", h.handleUpdate)
	r.Post("/profile/avatar", h.handleUploadAvatar)
	r.Delete("/users/profile/me", h.handleDeleteAvatar)
}

type signupResponse struct {
	User  *auth.Account `json:"user"`
	Token string        `json:"token"`
}

type profileResponse struct {
	User *auth.Account `json:"user"`
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var input SignupInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, h.strings.T(r.Context(), "userCreationError"), err)
		return
	}

	acct, token, err := h.service.Signup(r.Context(), input)
	if err != nil {
		if !errors.Is(err, shared.ErrValidation) {
			h.logger.Error("signup", slog.Any("error", err))
		}
		httpx.Error(w, http.StatusBadRequest, h.strings.T(r.Context(), "userCreationError"), err)
		return
	}
	h.logger.Info("account created", slog.String("account_id", acct.ID))
	httpx.JSON(w, http.StatusCreated, signupResponse{User: acct, Token: token})
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	acct := auth.AccountFromContext(r.Context())
	if acct == nil {
		httpx.Error(w, http.StatusInternalServerError, h.strings.T(r.Context(), "userProfileGetError"), shared.ErrUnauthenticated)
		return
	}
	httpx.JSON(w, http.StatusOK, profileResponse{User: acct})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	acct := auth.AccountFromContext(r.Context())

	var raw map[string]json.RawMessage
	if err := httpx.DecodeJSON(r, &raw); err != nil {
		httpx.Error(w, http.StatusBadRequest, h.strings.T(r.Context(), "userFailedUpdate"), err)
		return
	}
	patch, err := ParsePatch(raw)
	if err != nil {
		msg := "userFailedUpdate"
		if errors.Is(err, shared.ErrForbiddenKeys) {
			msg = "userPatchForbiddenKeys"
		}
		httpx.Error(w, http.StatusBadRequest, h.strings.T(r.Context(), msg), err)
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), acct, patch)
	if err != nil {
		if !errors.Is(err, shared.ErrValidation) {
			h.logger.Error("update profile", slog.Any("error", err))
		}
		httpx.Error(w, http.StatusBadRequest, h.strings.T(r.Context(), "userFailedUpdate"), err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	acct := auth.AccountFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, MaxAvatarBytes+uploadOverhead)
	file, header, err := r.FormFile("avatar")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.avatarRejected(w, r, ErrAvatarTooLarge)
			return
		}
		h.avatarRejected(w, r, ErrAvatarFormat)
		return
	}
	defer file.Close()

	if err := CheckAvatarUpload(header.Filename, header.Size); err != nil {
		h.avatarRejected(w, r, err)
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, MaxAvatarBytes+1))
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, h.strings.T(r.Context(), "userAvatarErrorUpload"), err)
		return
	}

	if err := h.service.SetAvatar(r.Context(), acct, header.Filename, data); err != nil {
		if errors.Is(err, shared.ErrInvalidFileType) {
			h.avatarRejected(w, r, err)
			return
		}
		h.logger.Error("upload avatar", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, h.strings.T(r.Context(), "userAvatarErrorUpload"), err)
		return
	}
	httpx.Success(w, http.StatusOK, h.strings.T(r.Context(), "userAvatarUploaded"))
}

func (h *Handler) avatarRejected(w http.ResponseWriter, r *http.Request, err error) {
	msg := h.strings.T(r.Context(), "userErrorFileUploadFormat", i18n.Vars{"format": "png, jpg or jpeg"})
	if errors.Is(err, ErrAvatarTooLarge) {
		msg = h.strings.T(r.Context(), "userErrorFileUploadSize", i18n.Vars{"size": "1MB"})
	}
	httpx.Error(w, http.StatusBadRequest, msg, err)
}

func (h *Handler) handleDeleteAvatar(w http.ResponseWriter, r *http.Request) {
	acct := auth.AccountFromContext(r.Context())
	if err := h.service.ClearAvatar(r.Context(), acct); err != nil {
		h.logger.Error("delete avatar", slog.Any("error", err))
		httpx.Error(w, http.StatusBadRequest, h.strings.T(r.Context(), "userAvatarUploadDeletedError"), err)
		return
	}
	httpx.Success(w, http.StatusOK, h.strings.T(r.Context(), "userAvatarUploadDeleted"))
}

func (h *Handler) handleAvatar(w http.ResponseWriter, r *http.Request) {
	png, err := h.service.Avatar(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, h.strings.T(r.Context(), "userNotFound"), err)
		return
	case errors.Is(err, shared.ErrNoAvatar):
		httpx.Error(w, http.StatusInternalServerError, h.strings.T(r.Context(), "userAvatarUploadEmpty"), err)
		return
	case err != nil:
		h.logger.Error("get avatar", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, h.strings.T(r.Context(), "userAvatarUploadEmpty"), err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
