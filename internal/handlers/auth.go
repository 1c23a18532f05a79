package handlers

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/services"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/session"
)

// AuthHandler serves registration, login and password recovery.
type AuthHandler struct {
	accounts *services.AccountService
	sessions session.Manager
}

func NewAuthHandler(accounts *services.AccountService, sessions session.Manager) *AuthHandler {
	return &AuthHandler{accounts: accounts, sessions: sessions}
}

// AuthRouter registers the anonymous account endpoints.
func AuthRouter(r chi.Router, accounts *services.AccountService, sessions session.Manager) {
	handler := NewAuthHandler(accounts, sessions)

	r.Post("/register", handler.Register)
	r.Post("/verify-otp", handler.VerifyOTP)
	r.Post("/forgotpw", handler.ForgotPasswordByPhone)
	r.Post("/login", handler.Login)
	r.Post("/forgot/send-otp", handler.ForgotSendOTP)
	r.Post("/forgot/reset", handler.ForgotReset)
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
}

type VerifyOTPRequest struct {
	Username string `json:"username"`
	OTP      string `json:"otp"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Username    string `json:"username"`
	Phone       string `json:"phone"`
	NewPassword string `json:"new_password"`
}

type SendOTPRequest struct {
	Username string `json:"username"`
}

type ResetPasswordRequest struct {
	Username    string `json:"username"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.accounts.Register(r.Context(), services.Registration{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
		FullName: req.FullName,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{Status: statusSuccess, Username: user.Username})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.accounts.VerifyRegistration(r.Context(), req.Username, req.OTP); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, "Xác thực thành công!")
}

func (h *AuthHandler) ForgotPasswordByPhone(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.accounts.ResetPasswordByPhone(r.Context(), req.Username, req.Phone, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, "Đã đặt lại mật khẩu thành công! Hãy đăng nhập.")
}

// Login sets the identity cookie on success.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.sessions.Issue(r.Context(), w, user.Username); err != nil {
		log.Printf("issue session for %q: %v", user.Username, err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{Status: statusSuccess})
}

// Logout clears the identity cookie and returns to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) ForgotSendOTP(w http.ResponseWriter, r *http.Request) {
	var req SendOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	masked, err := h.accounts.SendRecoveryCode(r.Context(), req.Username)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, "Mã xác thực đã gửi tới "+masked)
}

func (h *AuthHandler) ForgotReset(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.accounts.ResetPassword(r.Context(), req.Username, req.OTP, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, "Đổi mật khẩu thành công! Hãy đăng nhập.")
}
