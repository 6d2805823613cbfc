// internal/app/features/login/login.go
package login

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	errorsfeature "github.com/dalemusser/strataevents/internal/app/features/errors"
	"github.com/dalemusser/strataevents/internal/app/store/ratelimit"
	userstore "github.com/dalemusser/strataevents/internal/app/store/users"
	"github.com/dalemusser/strataevents/internal/app/system/auditlog"
	"github.com/dalemusser/strataevents/internal/app/system/auth"
	"github.com/dalemusser/strataevents/internal/app/system/authutil"
	"github.com/dalemusser/strataevents/internal/app/system/inputval"
	"github.com/dalemusser/strataevents/internal/app/system/jsonutil"
	"github.com/dalemusser/strataevents/internal/app/system/normalize"
	"github.com/dalemusser/strataevents/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	msgInvalidJSON        = "Invalid JSON payload"
	msgInvalidCredentials = "Invalid email or password"
	msgNotAuthenticated   = "Not authorized, no token"
)

// Handler provides the token login endpoints.
type Handler struct {
	userStore      *userstore.Store
	rateLimitStore *ratelimit.Store // nil if rate limiting disabled
	tokens         *auth.TokenManager
	errLog         *errorsfeature.ErrorLogger
	auditLogger    *auditlog.Logger
	logger         *zap.Logger

	now func() time.Time
}

// NewHandler creates a new login Handler.
// rateLimitStore can be nil to disable rate limiting.
func NewHandler(
	db *mongo.Database,
	tokens *auth.TokenManager,
	errLog *errorsfeature.ErrorLogger,
	auditLogger *auditlog.Logger,
	rateLimitStore *ratelimit.Store,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		userStore:      userstore.New(db),
		rateLimitStore: rateLimitStore,
		tokens:         tokens,
		errLog:         errLog,
		auditLogger:    auditLogger,
		logger:         logger,
		now:            time.Now,
	}
}

// Routes returns a chi.Router with the auth routes mounted. protect guards
// /me.
func Routes(h *Handler, protect func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/login", h.handleLogin)
	r.With(protect).Get("/me", h.handleMe)

	return r
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email,max=254" label:"Email"`
	Password string `json:"password" validate:"required,max=72" label:"Password"`
}

type loginResponse struct {
	Token     string     `json:"token"`
	ExpiresIn int64      `json:"expiresIn"`
	User      *auth.User `json:"user"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.Message(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	in.Email = normalize.Email(in.Email)
	if res := inputval.Validate(in); res.HasErrors() {
		jsonutil.Message(w, http.StatusBadRequest, res.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	// Check rate limit before processing
	if h.rateLimitStore != nil {
		allowed, _, lockedUntil := h.rateLimitStore.CheckAllowed(ctx, in.Email)
		if !allowed {
			h.auditLogger.LoginLockedOut(ctx, r, in.Email)
			jsonutil.Message(w, http.StatusTooManyRequests, h.lockoutMessage(lockedUntil))
			return
		}
	}

	user, err := h.userStore.GetByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		h.errLog.Log(r, "database error during login lookup", err)
		jsonutil.ServerError(w)
		return
	}

	if user == nil {
		authutil.VerifyCredentials("", in.Password)
		h.auditLogger.LoginFailedUserNotFound(ctx, r, in.Email)
		h.rejectLogin(ctx, w, r, in.Email)
		return
	}

	if !authutil.VerifyCredentials(user.Password, in.Password) {
		h.auditLogger.LoginFailedWrongPassword(ctx, r, user.ID, in.Email)
		h.rejectLogin(ctx, w, r, in.Email)
		return
	}

	// Clear rate limit on successful login
	if h.rateLimitStore != nil {
		if err := h.rateLimitStore.ClearOnSuccess(ctx, in.Email); err != nil {
			h.logger.Warn("failed to clear login attempts", zap.Error(err), zap.String("email", in.Email))
		}
	}

	token, err := h.tokens.Generate(user.ID.Hex(), user.Role)
	if err != nil {
		h.errLog.Log(r, "failed to sign token", err)
		jsonutil.ServerError(w)
		return
	}

	h.auditLogger.LoginSuccess(ctx, r, user.ID, user.Email)

	jsonutil.OK(w, loginResponse{
		Token:     token,
		ExpiresIn: int64(h.tokens.Expiry().Seconds()),
		User: &auth.User{
			ID:    user.ID.Hex(),
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
	})
}

// rejectLogin records the failure and answers 401, or 429 when this failure
// triggered a lockout.
func (h *Handler) rejectLogin(ctx context.Context, w http.ResponseWriter, r *http.Request, email string) {
	if h.rateLimitStore != nil {
		lockedOut, lockedUntil := h.rateLimitStore.RecordFailure(ctx, email)
		if lockedOut {
			h.auditLogger.LoginLockedOut(ctx, r, email)
			jsonutil.Message(w, http.StatusTooManyRequests, h.lockoutMessage(lockedUntil))
			return
		}
	}
	jsonutil.Message(w, http.StatusUnauthorized, msgInvalidCredentials)
}

func (h *Handler) lockoutMessage(lockedUntil *time.Time) string {
	if lockedUntil == nil {
		return "Too many failed login attempts. Please try again later."
	}
	remaining := lockedUntil.Sub(h.now())
	if remaining > time.Minute {
		return fmt.Sprintf("Too many failed login attempts. Please try again in %d minute(s).", int(remaining.Minutes())+1)
	}
	return fmt.Sprintf("Too many failed login attempts. Please try again in %d second(s).", int(remaining.Seconds())+1)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		jsonutil.Message(w, http.StatusUnauthorized, msgNotAuthenticated)
		return
	}
	jsonutil.OK(w, u)
}
