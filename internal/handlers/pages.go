package handlers

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/services"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/views"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/types"
)

// PageHandler renders the HTML pages.
type PageHandler struct {
	renderer  *views.Renderer
	dashboard *services.DashboardService
	rooms     *services.RoomService
	users     *services.UserService
}

func NewPageHandler(renderer *views.Renderer, dashboard *services.DashboardService, rooms *services.RoomService, users *services.UserService) *PageHandler {
	return &PageHandler{renderer: renderer, dashboard: dashboard, rooms: rooms, users: users}
}

// PageRouter registers page routes. Signed-in pages redirect anonymous
// visitors to the login page; user management sends non-admins to the
// dashboard.
func PageRouter(r chi.Router, handler *PageHandler) {
	signedIn := func(types.User) bool { return true }

	r.Get("/", handler.static("login", "Đăng nhập"))
	r.Get("/register", handler.static("register", "Đăng ký"))
	r.Get("/forgot-password", handler.static("forgotpw", "Quên mật khẩu"))
	r.Get("/verify", handler.Verify)

	r.Group(func(r chi.Router) {
		r.Use(redirectUnless(signedIn, "/"))
		r.Get("/dashboard", handler.Dashboard)
		r.Get("/room-management", handler.RoomManagement)
		r.Get("/booking-scheduler", handler.BookingScheduler)
		r.Get("/profile", handler.Profile)
	})
	r.With(redirectUnless(types.User.IsAdmin, "/dashboard")).Get("/user-management", handler.UserManagement)
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	page := views.Page{Title: title, Data: data}
	if user, ok := currentUser(r.Context()); ok {
		page.User = &user
	}
	if err := h.renderer.Render(w, http.StatusOK, name, page); err != nil {
		log.Printf("render %s: %v", name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *PageHandler) static(name, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.render(w, r, name, title, nil)
	}
}

func (h *PageHandler) Verify(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "verify", "Xác thực", r.URL.Query().Get("username"))
}

func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r.Context())
	data, err := h.dashboard.Dashboard(r.Context(), user)
	if err != nil {
		h.fail(w, "dashboard", err)
		return
	}
	h.render(w, r, "index", "Tổng quan", data)
}

func (h *PageHandler) RoomManagement(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.List(r.Context())
	if err != nil {
		h.fail(w, "room management", err)
		return
	}
	h.render(w, r, "room_management", "Quản lý phòng", rooms)
}

func (h *PageHandler) BookingScheduler(w http.ResponseWriter, r *http.Request) {
	data, err := h.dashboard.Scheduler(r.Context())
	if err != nil {
		h.fail(w, "booking scheduler", err)
		return
	}
	h.render(w, r, "booking_scheduler", "Đặt lịch", data)
}

func (h *PageHandler) UserManagement(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.fail(w, "user management", err)
		return
	}
	h.render(w, r, "user_management", "Quản lý người dùng", users)
}

func (h *PageHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r.Context())
	data, err := h.dashboard.Profile(r.Context(), user)
	if err != nil {
		h.fail(w, "profile", err)
		return
	}
	h.render(w, r, "profile", "Hồ sơ", data)
}

func (h *PageHandler) fail(w http.ResponseWriter, page string, err error) {
	log.Printf("load %s: %v", page, err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
