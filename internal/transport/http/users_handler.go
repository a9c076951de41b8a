package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/kavya1280/JK-Insights/internal/auth"
	apierrors "github.com/kavya1280/JK-Insights/internal/errors"
	"github.com/kavya1280/JK-Insights/internal/validation"
)

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CreateUserRequest is the body of POST /api/users
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,role"`
	Status   string `json:"status,omitempty" validate:"omitempty,userstatus"`
}

// UpdateUserRequest is the body of PUT /api/users/{id}. Absent fields are
// left unchanged.
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=1,max=64"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=1"`
	Role     *string `json:"role,omitempty" validate:"omitempty,role"`
	Status   *string `json:"status,omitempty" validate:"omitempty,userstatus"`
}

// UsersHandler serves login and account administration
type UsersHandler struct {
	service      UserService
	validator    *validation.Validator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewUsersHandler creates the handler
func NewUsersHandler(service UserService, v *validation.Validator, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *UsersHandler {
	return &UsersHandler{
		service:      service,
		validator:    v,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "users")),
	}
}

// Routes returns the /api/users routes
func (h *UsersHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

// Login handles POST /api/auth/login
func (h *UsersHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := h.validator.Decode(r, &req, false); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	user, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, user)
}

// List handles GET /api/users
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.List(r.Context()))
}

// Create handles POST /api/users
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := h.validator.Decode(r, &req, false); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	user, err := h.service.Add(r.Context(), auth.NewUser{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
		Status:   req.Status,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "user created",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, user)
}

// Update handles PUT /api/users/{id}
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if err := h.validator.Decode(r, &req, false); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	user, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), auth.UserPatch{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
		Status:   req.Status,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, user)
}

// Delete handles DELETE /api/users/{id}
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "user deleted", slog.String("user_id", user.ID))
	render.JSON(w, r, map[string]string{
		"message": "User " + user.Username + " deleted",
	})
}
