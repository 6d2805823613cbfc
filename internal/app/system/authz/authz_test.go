package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/strataevents/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// withTestUser creates a request with a user in context.
func withTestUser(id, name, role string) *http.Request {
	req := httptest.NewRequest("GET", "/", nil)
	return auth.WithTestUser(req, &auth.User{ID: id, Name: name, Role: role})
}

func TestUserCtx(t *testing.T) {
	validID := primitive.NewObjectID().Hex()

	tests := []struct {
		name     string
		userID   string
		userRole string
		wantRole string
		wantOK   bool
	}{
		{"admin user", validID, "admin", "admin", true},
		{"regular user", validID, "user", "user", true},
		{"uppercase role normalized", validID, "SUPERADMIN", "superadmin", true},
		{"invalid user id", "invalid-id", "admin", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withTestUser(tt.userID, "Someone", tt.userRole)
			role, _, id, ok := UserCtx(req)

			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
			if role != tt.wantRole {
				t.Errorf("role = %q, want %q", role, tt.wantRole)
			}
			if !tt.wantOK && !id.IsZero() {
				t.Errorf("id = %s, want NilObjectID", id.Hex())
			}
		})
	}
}

func TestUserCtx_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, _, _, ok := UserCtx(req); ok {
		t.Error("expected ok=false without a user")
	}
	if Actor(req) != nil {
		t.Error("expected nil actor without a user")
	}
}

func TestActor(t *testing.T) {
	oid := primitive.NewObjectID()
	got := Actor(withTestUser(oid.Hex(), "X", "admin"))
	if got == nil || *got != oid {
		t.Errorf("Actor() = %v, want %s", got, oid.Hex())
	}
}
