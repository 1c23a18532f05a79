package services

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strconv"
	"strings"

	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/mail"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/metrics"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/store"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/types"
)

const (
	codeMin = 100000
	codeMax = 999999
)

// Purposes label the flow a code was issued for.
const (
	PurposeRegistration = "registration"
	PurposeRecovery     = "recovery"
	PurposeProfile      = "profile"
)

var errNoEmail = errors.New("account has no email address")

// CodeStore persists the single pending code of a user.
type CodeStore interface {
	SetVerificationCode(ctx context.Context, id int, code *string) error
	ConsumeVerificationCode(ctx context.Context, id int, code string) (bool, error)
	UpdateWithCode(ctx context.Context, user types.User, code string) (types.User, error)
}

// OTPService issues and redeems six digit email verification codes.
type OTPService struct {
	codes    CodeStore
	sender   mail.Sender
	generate func() (string, error)
}

func NewOTPService(codes CodeStore, sender mail.Sender) *OTPService {
	return &OTPService{codes: codes, sender: sender, generate: GenerateCode}
}

// GenerateCode returns a uniformly random code in [100000, 999999].
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+codeMin, 10), nil
}

// Dispatch generates a code and emails it to the address. The code is
// returned only when the relay accepted the message; nothing is stored.
func (s *OTPService) Dispatch(ctx context.Context, email, purpose string) (string, error) {
	code, err := s.dispatch(ctx, email)
	if err != nil {
		metrics.OTPSent.WithLabelValues(purpose, metrics.Failure).Inc()
		return "", err
	}
	metrics.OTPSent.WithLabelValues(purpose, metrics.Success).Inc()
	return code, nil
}

func (s *OTPService) dispatch(ctx context.Context, email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", errNoEmail
	}
	code, err := s.generate()
	if err != nil {
		return "", err
	}
	msg, err := mail.VerificationMessage(email, code)
	if err != nil {
		return "", err
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return "", err
	}
	return code, nil
}

// Issue emails a fresh code to the user and stores it as pending. A failed
// send leaves any previous state untouched.
func (s *OTPService) Issue(ctx context.Context, userID int, email, purpose string) error {
	code, err := s.Dispatch(ctx, email, purpose)
	if err != nil {
		return err
	}
	return s.codes.SetVerificationCode(ctx, userID, &code)
}

// Verify redeems the pending code. It reports false, without touching the
// stored code, when there is no pending code or it differs from code.
func (s *OTPService) Verify(ctx context.Context, userID int, code, purpose string) (bool, error) {
	if code == "" {
		metrics.OTPVerified.WithLabelValues(purpose, metrics.Failure).Inc()
		return false, nil
	}
	ok, err := s.codes.ConsumeVerificationCode(ctx, userID, code)
	if err != nil {
		return false, err
	}
	outcome := metrics.Failure
	if ok {
		outcome = metrics.Success
	}
	metrics.OTPVerified.WithLabelValues(purpose, outcome).Inc()
	return ok, nil
}

// Redeem writes user and clears the pending code together, only if the
// pending code equals code. It reports false when the code does not match.
// Any other write error, store.ErrConflict included, leaves the code
// pending.
func (s *OTPService) Redeem(ctx context.Context, user types.User, code, purpose string) (types.User, bool, error) {
	if code == "" {
		metrics.OTPVerified.WithLabelValues(purpose, metrics.Failure).Inc()
		return types.User{}, false, nil
	}
	updated, err := s.codes.UpdateWithCode(ctx, user, code)
	if errors.Is(err, store.ErrCodeMismatch) {
		metrics.OTPVerified.WithLabelValues(purpose, metrics.Failure).Inc()
		return types.User{}, false, nil
	}
	if err != nil {
		return types.User{}, false, err
	}
	metrics.OTPVerified.WithLabelValues(purpose, metrics.Success).Inc()
	return updated, true, nil
}
