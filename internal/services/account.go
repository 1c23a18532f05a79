package services

import (
	"context"
	"errors"
	"strings"

	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/metrics"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/store"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/types"
)

const (
	msgUserNotFound  = "User không tồn tại"
	msgWrongCode     = "Mã xác thực không đúng!"
	msgEmailTaken    = "Email này đã được sử dụng"
	msgPasswordEmpty = "Mật khẩu mới không được để trống"
)

// Registration is the self-service sign-up payload.
type Registration struct {
	Username string
	Password string
	Email    string
	Phone    string
	Role     string
	FullName string
}

// ProfileUpdate is a self-service contact change. Nil or empty fields are
// left unchanged.
type ProfileUpdate struct {
	Email *string
	Phone *string
	OTP   string
}

// AccountService implements the self-service flows that revolve around the
// emailed verification code.
type AccountService struct {
	users  UserRepository
	otp    *OTPService
	events EventPublisher
}

func NewAccountService(users UserRepository, otp *OTPService, events EventPublisher) *AccountService {
	if events == nil {
		events = nopPublisher{}
	}
	return &AccountService{users: users, otp: otp, events: events}
}

// Register creates a teacher or admin account with a pending code. The row
// is written only after the verification email was accepted.
func (s *AccountService) Register(ctx context.Context, reg Registration) (types.User, error) {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Email = strings.TrimSpace(reg.Email)
	reg.Phone = strings.TrimSpace(reg.Phone)
	reg.FullName = strings.TrimSpace(reg.FullName)

	if reg.Username == "" || reg.Password == "" || reg.Email == "" {
		return types.User{}, validationError("Vui lòng nhập đầy đủ tên đăng nhập, mật khẩu và email")
	}
	if reg.Role == "" {
		reg.Role = types.RoleTeacher
	}
	if !types.ValidRole(reg.Role) {
		return types.User{}, validationError("Vai trò không hợp lệ")
	}
	if reg.FullName == "" {
		reg.FullName = reg.Username
	}

	if _, err := s.users.GetByUsername(ctx, reg.Username); err == nil {
		return types.User{}, validationError("Tên đăng nhập đã tồn tại")
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}
	if _, err := s.users.GetByEmail(ctx, reg.Email); err == nil {
		return types.User{}, validationError(msgEmailTaken)
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}

	code, err := s.otp.Dispatch(ctx, reg.Email, PurposeRegistration)
	if err != nil {
		return types.User{}, externalError("Lỗi gửi email xác thực. Kiểm tra lại email!", err)
	}

	hash, err := HashPassword(reg.Password)
	if err != nil {
		return types.User{}, err
	}

	user, err := s.users.Create(ctx, types.User{
		Username:         reg.Username,
		PasswordHash:     hash,
		Email:            reg.Email,
		Phone:            reg.Phone,
		Role:             reg.Role,
		FullName:         reg.FullName,
		VerificationCode: &code,
	})
	if errors.Is(err, store.ErrConflict) {
		return types.User{}, validationError("Tên đăng nhập hoặc email đã tồn tại")
	}
	if err != nil {
		return types.User{}, err
	}

	publishEvent(ctx, s.events, types.EventUserRegistered, user.ID, user.ID, user.Username)
	return user, nil
}

// VerifyRegistration redeems the code sent at sign-up.
func (s *AccountService) VerifyRegistration(ctx context.Context, username, code string) error {
	user, err := s.lookup(ctx, username, msgUserNotFound)
	if err != nil {
		return err
	}
	ok, err := s.otp.Verify(ctx, user.ID, code, PurposeRegistration)
	if err != nil {
		return err
	}
	if !ok {
		return validationError(msgWrongCode)
	}
	return nil
}

// Login checks credentials. Accounts with a pending code may log in.
func (s *AccountService) Login(ctx context.Context, username, password string) (types.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}
	if err != nil || !CheckPassword(user.PasswordHash, password) {
		metrics.LoginAttempts.WithLabelValues(metrics.Failure).Inc()
		return types.User{}, validationError("Sai tài khoản hoặc mật khẩu")
	}
	metrics.LoginAttempts.WithLabelValues(metrics.Success).Inc()
	return user, nil
}

// ResetPasswordByPhone is the legacy recovery path: username and phone
// together authorize a new password.
func (s *AccountService) ResetPasswordByPhone(ctx context.Context, username, phone, newPassword string) error {
	const mismatch = "Thông tin không chính xác (Sai tên đăng nhập hoặc số điện thoại)!"

	if newPassword == "" {
		return validationError(msgPasswordEmpty)
	}
	user, err := s.lookup(ctx, username, mismatch)
	if err != nil {
		return err
	}
	if strings.TrimSpace(phone) == "" || user.Phone != strings.TrimSpace(phone) {
		return notFoundError(mismatch)
	}
	return s.setPassword(ctx, user, newPassword)
}

// SendRecoveryCode emails a code to the account's registered address and
// returns the address in masked form.
func (s *AccountService) SendRecoveryCode(ctx context.Context, username string) (string, error) {
	user, err := s.lookup(ctx, username, "Tên đăng nhập không tồn tại!")
	if err != nil {
		return "", err
	}
	if err := s.otp.Issue(ctx, user.ID, user.Email, PurposeRecovery); err != nil {
		return "", externalError("Lỗi hệ thống gửi mail. Vui lòng thử lại sau.", err)
	}
	return MaskEmail(user.Email), nil
}

// ResetPassword redeems a recovery code and sets a new password.
func (s *AccountService) ResetPassword(ctx context.Context, username, code, newPassword string) error {
	if newPassword == "" {
		return validationError(msgPasswordEmpty)
	}
	user, err := s.lookup(ctx, username, msgUserNotFound)
	if err != nil {
		return err
	}
	return s.redeemPassword(ctx, user, code, newPassword, PurposeRecovery, msgWrongCode)
}

// SendProfileCode emails a code to the signed-in user's address.
func (s *AccountService) SendProfileCode(ctx context.Context, user types.User) error {
	if err := s.otp.Issue(ctx, user.ID, user.Email, PurposeProfile); err != nil {
		return externalError("Không thể gửi email.", err)
	}
	return nil
}

// ChangePassword redeems a profile code and sets a new password.
func (s *AccountService) ChangePassword(ctx context.Context, user types.User, code, newPassword string) error {
	if newPassword == "" {
		return validationError(msgPasswordEmpty)
	}
	return s.redeemPassword(ctx, user, code, newPassword, PurposeProfile, "Mã xác thực sai!")
}

// UpdateProfile applies a contact change. Changing email or phone needs the
// pending profile code; without one ErrVerificationRequired is returned and
// nothing is written.
func (s *AccountService) UpdateProfile(ctx context.Context, user types.User, update ProfileUpdate) (types.User, error) {
	email := trimmed(update.Email)
	phone := trimmed(update.Phone)

	sensitive := (email != "" && email != user.Email) || (phone != "" && phone != user.Phone)
	if sensitive && update.OTP == "" {
		return types.User{}, ErrVerificationRequired
	}

	if email != "" {
		user.Email = email
	}
	if phone != "" {
		user.Phone = phone
	}

	var updated types.User
	var err error
	if sensitive {
		var ok bool
		updated, ok, err = s.otp.Redeem(ctx, user, update.OTP, PurposeProfile)
		if err == nil && !ok {
			return types.User{}, validationError(msgWrongCode)
		}
	} else {
		updated, err = s.users.Update(ctx, user)
	}
	if errors.Is(err, store.ErrConflict) {
		return types.User{}, conflictError(msgEmailTaken)
	}
	if err != nil {
		return types.User{}, err
	}

	publishEvent(ctx, s.events, types.EventUserUpdated, user.ID, user.ID, user.Username)
	return updated, nil
}

func (s *AccountService) lookup(ctx context.Context, username, missing string) (types.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return types.User{}, notFoundError(missing)
	}
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return types.User{}, notFoundError(missing)
	}
	return user, err
}

// redeemPassword stores the new hash and clears the code in one write.
func (s *AccountService) redeemPassword(ctx context.Context, user types.User, code, password, purpose, wrongCode string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	_, ok, err := s.otp.Redeem(ctx, user, code, purpose)
	if err != nil {
		return err
	}
	if !ok {
		return validationError(wrongCode)
	}
	return nil
}

func (s *AccountService) setPassword(ctx context.Context, user types.User, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	_, err = s.users.Update(ctx, user)
	return err
}

// MaskEmail keeps the first three characters of the address and the
// domain, e.g. "ali****@example.com".
func MaskEmail(email string) string {
	runes := []rune(email)
	prefix := runes
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	domain := ""
	if at := strings.LastIndex(email, "@"); at >= 0 {
		domain = email[at+1:]
	}
	return string(prefix) + "****@" + domain
}

func trimmed(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
