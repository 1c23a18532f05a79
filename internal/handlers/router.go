package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/services"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/session"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/views"
)

// Dependencies are the collaborators the HTTP surface needs.
type Dependencies struct {
	Sessions  session.Manager
	Accounts  *services.AccountService
	Users     *services.UserService
	Rooms     *services.RoomService
	Bookings  *services.BookingService
	Dashboard *services.DashboardService
	Renderer  *views.Renderer
}

// Mount registers every page and API route on r.
func Mount(r chi.Router, deps Dependencies) {
	auth := NewAuthHandler(deps.Accounts, deps.Sessions)

	r.Group(func(r chi.Router) {
		r.Use(Identity(deps.Sessions, deps.Users))

		PageRouter(r, NewPageHandler(deps.Renderer, deps.Dashboard, deps.Rooms, deps.Users))
		r.Get("/logout", auth.Logout)

		r.Route("/api", func(r chi.Router) {
			AuthRouter(r, deps.Accounts, deps.Sessions)
			r.Route("/rooms", func(r chi.Router) {
				RoomRouter(r, deps.Rooms)
			})
			r.Route("/bookings", func(r chi.Router) {
				BookingRouter(r, deps.Bookings)
			})
			r.Route("/users", func(r chi.Router) {
				UserRouter(r, deps.Users)
			})
			r.Route("/profile", func(r chi.Router) {
				ProfileRouter(r, deps.Accounts)
			})
		})
	})
}
