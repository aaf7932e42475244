// Package auth keeps the signed-in user in a cookie session and exposes
// it to handlers through the request context.
//
// The session carries the user id and the currently selected casa. Name
// and role are re-read on every request through a UserFetcher so role
// changes take effect immediately.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/casadefe/internal/app/system/respond"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	isAuthKey       = "is_authenticated"
	userIDKey       = "user_id"
	userNameKey     = "user_name"
	userLoginKey    = "user_login"
	userRoleKey     = "user_role"
	selectedCasaKey = "selected_casa"
)

// SessionUser is what handlers see for the signed-in user.
type SessionUser struct {
	ID             string
	Name           string
	Login          string // email or phone digits
	Role           string // admin | moderator | user
	SelectedCasaID string // hex, may be empty
}

// IsAdmin reports whether the user holds the admin role.
func (u *SessionUser) IsAdmin() bool { return u != nil && u.Role == "admin" }

// UserFetcher loads fresh name/login/role for a session's user id.
// It returns (nil, nil) when the user no longer exists.
type UserFetcher interface {
	FetchSessionUser(ctx context.Context, id primitive.ObjectID) (*SessionUser, error)
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// SessionManager owns the cookie store.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	log     *zap.Logger
	fetcher UserFetcher
}

// NewSessionManager builds the cookie store. An empty key is an error in
// secure mode; otherwise a random key is generated and sessions will not
// survive a restart.
func NewSessionManager(key, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if key == "" {
		if secure {
			return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
		}
		logger.Warn("session key is empty; generating an ephemeral key")
		key = string(securecookie.GenerateRandomKey(32))
	} else if len(key) < 32 {
		logger.Warn("session key is short; 32+ chars recommended", zap.Int("length", len(key)))
	}

	store := sessions.NewCookieStore([]byte(key))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(int(maxAge.Seconds()))

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain),
		zap.Duration("max_age", maxAge))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// SetUserFetcher enables per-request refresh of user data.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) { sm.fetcher = f }

// CurrentUser returns the signed-in user, if any.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok && u != nil
}

// WithTestUser injects u directly, bypassing the cookie. For tests.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

// LoadSessionUser puts the session's user into the request context.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := sm.store.Get(r, sm.name)
		if isAuth, _ := sess.Values[isAuthKey].(bool); !isAuth {
			next.ServeHTTP(w, r)
			return
		}

		u := &SessionUser{
			ID:             getString(sess, userIDKey),
			Name:           getString(sess, userNameKey),
			Login:          getString(sess, userLoginKey),
			Role:           getString(sess, userRoleKey),
			SelectedCasaID: getString(sess, selectedCasaKey),
		}

		if sm.fetcher != nil {
			oid, err := primitive.ObjectIDFromHex(u.ID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			fresh, err := sm.fetcher.FetchSessionUser(r.Context(), oid)
			if err != nil {
				sm.log.Warn("session user refresh failed; using cached values",
					zap.String("user_id", u.ID), zap.Error(err))
			} else if fresh == nil {
				// Account removed: treat as signed out.
				next.ServeHTTP(w, r)
				return
			} else {
				u.Name, u.Login, u.Role = fresh.Name, fresh.Login, fresh.Role
			}
		}

		next.ServeHTTP(w, withUser(r, u))
	})
}

// RequireSignedIn stops anonymous requests. Browsers asking for HTML are
// redirected to /login; everything else gets a 401 JSON body.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			unauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	if wantsHTML(r) {
		http.Redirect(w, r, "/login?return="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
		return
	}
	respond.Error(w, http.StatusUnauthorized, "Faça login para continuar.")
}

func wantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}

// RequireRole answers 401 without a user and 403 when the user's role is
// not one of allowed.
func (sm *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				unauthorized(w, r)
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				respond.Error(w, http.StatusForbidden, "Acesso negado.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SignIn starts an authenticated session for u.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u SessionUser) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID
	sess.Values[userNameKey] = u.Name
	sess.Values[userLoginKey] = u.Login
	sess.Values[userRoleKey] = u.Role
	delete(sess.Values, selectedCasaKey)
	return sess.Save(r, w)
}

// SignOut expires the session cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// SetSelectedCasa records the casa the user is working on. An empty id
// clears it.
func (sm *SessionManager) SetSelectedCasa(w http.ResponseWriter, r *http.Request, casaID string) error {
	sess, _ := sm.store.Get(r, sm.name)
	if casaID == "" {
		delete(sess.Values, selectedCasaKey)
	} else {
		sess.Values[selectedCasaKey] = casaID
	}
	if u, ok := CurrentUser(r); ok {
		u.SelectedCasaID = casaID
	}
	return sess.Save(r, w)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
