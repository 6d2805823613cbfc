package auth

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - Subject: the user id as carried in the token's "sub" claim

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/strataevents/internal/app/system/jsonutil"
	"github.com/dalemusser/strataevents/internal/app/system/normalize"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| UserFetcher interface                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// UserFetcher fetches fresh user data from the database.
// Implementations should return nil if the user is not found.
type UserFetcher interface {
	// FetchUser retrieves a user by ID. Returns nil if the user no longer
	// exists or any other condition that should reject the token.
	FetchUser(ctx context.Context, userID string) *User
}

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// User represents the authenticated user in the request context.
// It is loaded fresh on each request so that a role change takes effect
// on the holder's very next call, whatever the token says.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserID returns the user's ID as an ObjectID.
// If the ID is invalid, returns a zero ObjectID.
func (u *User) UserID() primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag from the request context.
func CurrentUser(r *http.Request) (*User, bool) {
	u, ok := r.Context().Value(currentUserKey).(*User)
	return u, ok
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	msgNoToken      = "Not authorized, no token"
	msgInvalidToken = "Not authorized, token failed"
	msgNotAdmin     = "Not authorized as an admin"
)

// Protect returns middleware that requires a valid bearer token and loads the
// token's subject into the request context. Every rejection is a 401 with a
// {"message": ...} body.
func Protect(tm *TokenManager, users UserFetcher, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := TokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				logger.Debug("request rejected: missing bearer token",
					zap.String("path", r.URL.Path))
				jsonutil.Message(w, http.StatusUnauthorized, msgNoToken)
				return
			}

			claims, err := tm.Validate(raw)
			if err != nil {
				logger.Warn("request rejected: invalid bearer token",
					zap.Error(err),
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr))
				jsonutil.Message(w, http.StatusUnauthorized, msgInvalidToken)
				return
			}

			u := users.FetchUser(r.Context(), claims.Subject)
			if u == nil {
				logger.Info("request rejected: token subject not found",
					zap.String("user_id", claims.Subject),
					zap.String("path", r.URL.Path))
				jsonutil.Message(w, http.StatusUnauthorized, msgInvalidToken)
				return
			}

			next.ServeHTTP(w, withUser(r, u))
		})
	}
}

// RequireRole returns middleware that ensures there is a user with one of
// the allowed roles. Without a user it answers 401; with the wrong role, 403.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[normalize.Role(role)] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				jsonutil.Message(w, http.StatusUnauthorized, msgNoToken)
				return
			}

			if _, has := set[normalize.Role(u.Role)]; !has {
				jsonutil.Message(w, http.StatusForbidden, msgNotAdmin)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func withUser(r *http.Request, u *User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// WithTestUser injects a User into the request context for testing.
func WithTestUser(r *http.Request, u *User) *http.Request {
	return withUser(r, u)
}

// TokenFromHeader extracts the token from an "Authorization: Bearer <token>"
// header value.
func TokenFromHeader(header string) (string, error) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrMissingToken
	}
	return parts[1], nil
}

// IsWeakSecret reports whether a signing secret is too short or looks like a
// default/placeholder value.
func IsWeakSecret(secret string) bool {
	if len(secret) < MinSecretLength {
		return true
	}
	lower := strings.ToLower(secret)
	patterns := []string{
		"dev-only",
		"change-me",
		"placeholder",
		"default",
		"example",
		"insecure",
		"test-key",
		"secret123",
		"password",
	}
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
