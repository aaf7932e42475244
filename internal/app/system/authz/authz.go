// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/casadefe/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and a found flag.
// If no user is present in context or the user ID is malformed, it returns
// "visitor", "", NilObjectID, false.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "admin"
}

// IsModerator reports whether the current request's user is a moderator.
func IsModerator(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "moderator"
}

// CanPublish reports whether the user may publish pastoral words.
func CanPublish(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && (role == "admin" || role == "moderator")
}

// CanManageCasa reports whether the user may read or change a casa owned
// by ownerID. Admins manage every casa; other users only their own.
func CanManageCasa(r *http.Request, ownerID primitive.ObjectID) bool {
	role, _, uid, ok := UserCtx(r)
	if !ok {
		return false
	}
	return role == "admin" || uid == ownerID
}

// SelectedCasaID returns the casa the user is currently working on.
func SelectedCasaID(r *http.Request) (primitive.ObjectID, bool) {
	user, ok := auth.CurrentUser(r)
	if !ok || user.SelectedCasaID == "" {
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(user.SelectedCasaID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}
