package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/services"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/session"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/store"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/types"
)

type contextKey string

const contextUserKey contextKey = "user"

const (
	msgNotLoggedIn = "Chưa đăng nhập!"
	msgAdminOnly   = "Chỉ Admin mới có quyền này."
	msgStaffOnly   = "Chỉ Giáo viên hoặc Admin mới có quyền này."
)

// Identity resolves the session cookie to a user on every request. A
// missing cookie, a tampered value or a deleted user leave the request
// anonymous.
func Identity(sessions session.Manager, users *services.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, err := sessions.Resolve(r)
			if err != nil {
				if !errors.Is(err, session.ErrNoSession) {
					log.Printf("resolve session: %v", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetByUsername(r.Context(), username)
			if err != nil {
				if !errors.Is(err, store.ErrNotFound) {
					log.Printf("load session user %q: %v", username, err)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), contextUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func currentUser(ctx context.Context) (types.User, bool) {
	user, ok := ctx.Value(contextUserKey).(types.User)
	return user, ok
}

func gate(allowed func(types.User) bool, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := currentUser(r.Context())
			if !ok || !allowed(user) {
				writeError(w, http.StatusForbidden, message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthenticated rejects anonymous API calls with 403.
func RequireAuthenticated(next http.Handler) http.Handler {
	return gate(func(types.User) bool { return true }, msgNotLoggedIn)(next)
}

// RequireAdmin rejects API calls from anyone but admins with 403.
func RequireAdmin(next http.Handler) http.Handler {
	return gate(types.User.IsAdmin, msgAdminOnly)(next)
}

// RequireStaff rejects API calls from anyone but admins and teachers with 403.
func RequireStaff(next http.Handler) http.Handler {
	return gate(types.User.IsStaff, msgStaffOnly)(next)
}

// redirectUnless sends page requests that fail the check to target.
func redirectUnless(allowed func(types.User) bool, target string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := currentUser(r.Context())
			if !ok || !allowed(user) {
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
