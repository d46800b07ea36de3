package tasks

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/appboilerplate/taskmanager/internal/i18n"
	"github.com/appboilerplate/taskmanager/internal/platform/httpx"
	"github.com/appboilerplate/taskmanager/internal/shared"
)

// Handler manages task endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	strings i18n.Localizer
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, bundle *i18n.Bundle) *Handler {
	return &Handler{logger: logger, service: service, strings: bundle.Domain("task")}
}

// MountRoutes registers task routes. The auth middleware must run upstream.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{id}", h.handleGet)
		r.Patch("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
	})
}

func owner(r *http.Request) string {
	principal, _ := shared.PrincipalFromContext(r.Context())
	return principal.AccountID
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var input CreateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, h.strings.T(r.Context(), "taskCreationError"), err)
		return
	}
	task, err := h.service.Create(r.Context(), owner(r), input)
	if err != nil {
		if !errors.Is(err, shared.ErrValidation) {
			h.logger.Error("create task", slog.Any("error", err))
		}
		httpx.Error(w, http.StatusBadRequest, h.strings.T(r.Context(), "taskCreationError"), err)
		return
	}
	httpx.JSON(w, http.StatusCreated, task)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q, err := ParseListQuery(r.URL.Query())
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, h.strings.T(r.Context(), "taskInvalidQuery"), err)
		return
	}
	list, err := h.service.List(r.Context(), owner(r), q)
	if err != nil {
		h.logger.Error("list tasks", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, h.strings.T(r.Context(), "tasksFetchError"), err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	task, err := h.service.Get(r.Context(), owner(r), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err, "tasksFetchError", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, task)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var raw map[string]json.RawMessage
	if err := httpx.DecodeJSON(r, &raw); err != nil {
		httpx.Error(w, http.StatusBadRequest, h.strings.T(r.Context(), "taskFailedUpdate"), err)
		return
	}
	patch, err := ParsePatch(raw)
	if err != nil {
		key := "taskFailedUpdate"
		if errors.Is(err, shared.ErrForbiddenKeys) {
			key = "taskPatchForbiddenKeys"
		}
		httpx.Error(w, http.StatusBadRequest, h.strings.T(r.Context(), key), err)
		return
	}
	task, err := h.service.Update(r.Context(), owner(r), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.fail(w, r, err, "taskFailedUpdate", http.StatusBadRequest)
		return
	}
	httpx.JSON(w, http.StatusOK, task)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	task, err := h.service.Delete(r.Context(), owner(r), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err, "taskDeleteError", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, task)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, key string, fallback int) {
	status := httpx.StatusFor(err, fallback)
	if status == http.StatusNotFound {
		key = "taskNotFound"
	}
	if !errors.Is(err, shared.ErrValidation) && !errors.Is(err, shared.ErrNotFound) {
		h.logger.Error("task request", slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	httpx.Error(w, status, h.strings.T(r.Context(), key), err)
}
