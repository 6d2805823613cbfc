// Package authz reads the authenticated caller back out of a request.
package authz

import (
	"net/http"

	"github.com/dalemusser/strataevents/internal/app/system/auth"
	"github.com/dalemusser/strataevents/internal/app/system/normalize"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the caller's lowercased role, name and id. ok is false
// when no user is attached or its id is not an ObjectID, so a true ok always
// comes with a usable id.
func UserCtx(r *http.Request) (role, name string, userID primitive.ObjectID, ok bool) {
	u, found := auth.CurrentUser(r)
	if !found {
		return "", "", primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return "", "", primitive.NilObjectID, false
	}
	return normalize.Role(u.Role), u.Name, id, true
}

// Actor is the audit-record form of the caller: nil when there is none.
func Actor(r *http.Request) *primitive.ObjectID {
	if _, _, id, ok := UserCtx(r); ok {
		return &id
	}
	return nil
}
