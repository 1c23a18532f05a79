package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/services"
)

// UserHandler serves admin user management.
type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// UserRouter registers user management routes on the given router.
func UserRouter(r chi.Router, users *services.UserService) {
	handler := NewUserHandler(users)

	r.Use(RequireAdmin)
	r.Post("/update", handler.UpdateUser)
	r.Post("/delete", handler.DeleteUser)
}

type UpdateUserRequest struct {
	UserID      flexInt `json:"user_id"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Role        *string `json:"role"`
	NewPassword *string `json:"new_password"`
}

type DeleteUserRequest struct {
	UserID flexInt `json:"user_id"`
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	actor, _ := currentUser(r.Context())

	_, err := h.users.Update(r.Context(), actor, int(req.UserID), services.UserPatch{
		Email:       req.Email,
		Phone:       req.Phone,
		Role:        req.Role,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, "Cập nhật thành công!")
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	var req DeleteUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	actor, _ := currentUser(r.Context())

	if err := h.users.Delete(r.Context(), actor, int(req.UserID)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, "Đã xóa user!")
}
