package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/services"
)

// ProfileHandler serves the signed-in user's own account changes.
type ProfileHandler struct {
	accounts *services.AccountService
}

func NewProfileHandler(accounts *services.AccountService) *ProfileHandler {
	return &ProfileHandler{accounts: accounts}
}

// ProfileRouter registers profile routes on the given router.
func ProfileRouter(r chi.Router, accounts *services.AccountService) {
	handler := NewProfileHandler(accounts)

	r.Use(RequireAuthenticated)
	r.Post("/update", handler.UpdateProfile)
	r.Post("/send-otp", handler.SendOTP)
	r.Post("/change-password", handler.ChangePassword)
}

type UpdateProfileRequest struct {
	Email *string `json:"email"`
	Phone *string `json:"phone"`
	OTP   string  `json:"otp"`
}

type ChangePasswordRequest struct {
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

// UpdateProfile answers require_otp when email or phone changes without a
// code attached.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, _ := currentUser(r.Context())

	_, err := h.accounts.UpdateProfile(r.Context(), user, services.ProfileUpdate{
		Email: req.Email,
		Phone: req.Phone,
		OTP:   req.OTP,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, "Cập nhật thông tin thành công!")
}

func (h *ProfileHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r.Context())
	if err := h.accounts.SendProfileCode(r.Context(), user); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, "Đã gửi mã xác thực về Email của bạn.")
}

func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, _ := currentUser(r.Context())

	if err := h.accounts.ChangePassword(r.Context(), user, req.OTP, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, "Cập nhật mật khẩu thành công!")
}
