// internal/app/features/users/handler.go
package usersfeature

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	errorsfeature "github.com/dalemusser/strataevents/internal/app/features/errors"
	"github.com/dalemusser/strataevents/internal/app/store/storeutil"
	userstore "github.com/dalemusser/strataevents/internal/app/store/users"
	"github.com/dalemusser/strataevents/internal/app/system/auditlog"
	"github.com/dalemusser/strataevents/internal/app/system/authz"
	"github.com/dalemusser/strataevents/internal/app/system/inputval"
	"github.com/dalemusser/strataevents/internal/app/system/jsonutil"
	"github.com/dalemusser/strataevents/internal/app/system/normalize"
	"github.com/dalemusser/strataevents/internal/app/system/timeouts"
	"github.com/dalemusser/strataevents/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	msgInvalidPage   = "page must be a positive integer"
	msgInvalidLimit  = "limit must be a positive integer"
	msgInvalidJSON   = "Invalid JSON payload"
	msgInvalidUserID = "Invalid user id"
	msgInvalidRole   = "Invalid role"
	msgUserNotFound  = "User not found"
	msgUpdateFailed  = "Error updating user role"
)

// Handler serves the admin user endpoints.
type Handler struct {
	Users  *userstore.Store
	ErrLog *errorsfeature.ErrorLogger
	Audit  *auditlog.Logger
	Log    *zap.Logger
}

// NewHandler creates a new users handler.
func NewHandler(db *mongo.Database, errLog *errorsfeature.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:  userstore.New(db),
		ErrLog: errLog,
		Audit:  audit,
		Log:    logger,
	}
}

type listResponse struct {
	Users      []models.User `json:"users"`
	Total      int64         `json:"total"`
	Page       int64         `json:"page"`
	TotalPages int64         `json:"totalPages"`
}

type roleInput struct {
	Role string `json:"role" validate:"required,role" label:"Role"`
}

// List handles GET /users?search=&page=&limit=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := positiveParam(r, "page", storeutil.DefaultPage)
	if !ok {
		jsonutil.Message(w, http.StatusBadRequest, msgInvalidPage)
		return
	}
	limit, ok := positiveParam(r, "limit", storeutil.DefaultLimit)
	if !ok {
		jsonutil.Message(w, http.StatusBadRequest, msgInvalidLimit)
		return
	}
	if limit > storeutil.MaxLimit {
		limit = storeutil.MaxLimit
	}
	search := normalize.QueryParam(query.Get(r, "search"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	res, err := h.Users.ListPage(ctx, search, page, limit)
	if err != nil {
		h.ErrLog.Log(r, "failed to list users", err)
		jsonutil.ServerError(w)
		return
	}

	jsonutil.OK(w, listResponse{
		Users:      res.Users,
		Total:      res.Total,
		Page:       page,
		TotalPages: storeutil.TotalPages(res.Total, limit),
	})
}

// UpdateRole handles PUT /users/{id}/role.
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.Fail(w, http.StatusBadRequest, msgInvalidUserID, nil)
		return
	}

	var in roleInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.Fail(w, http.StatusBadRequest, msgInvalidJSON, nil)
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		jsonutil.Fail(w, http.StatusBadRequest, msgInvalidRole, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.UpdateRole(ctx, id, in.Role)
	switch {
	case errors.Is(err, userstore.ErrInvalidRole):
		jsonutil.Fail(w, http.StatusBadRequest, msgInvalidRole, nil)
		return
	case errors.Is(err, mongo.ErrNoDocuments):
		jsonutil.Fail(w, http.StatusNotFound, msgUserNotFound, nil)
		return
	case err != nil:
		h.ErrLog.Log(r, "failed to update user role", err)
		jsonutil.Fail(w, http.StatusInternalServerError, msgUpdateFailed, err)
		return
	}

	h.Audit.UserRoleChanged(ctx, r, authz.Actor(r), u.ID, u.Role)
	jsonutil.Success(w, map[string]any{"data": u})
}

// positiveParam reads an optional positive integer query parameter.
// Absent yields def; anything else that is not an integer >= 1 is rejected.
func positiveParam(r *http.Request, name string, def int64) (int64, bool) {
	raw := normalize.QueryParam(query.Get(r, name))
	if raw == "" {
		return def, true
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
