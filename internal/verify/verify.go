// Package verify implements the phone verification handshake: short-lived
// numeric codes delivered over SMS, and verified-phone grants consumed by
// registration.
package verify

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var (
	// ErrCodeMismatch indicates the submitted code is wrong or was never issued.
	ErrCodeMismatch = errors.New("verification code mismatch")
	// ErrCodeExpired indicates the code's validity window has passed.
	ErrCodeExpired = errors.New("verification code expired")
)

// Sender delivers a verification code to a phone number.
type Sender interface {
	SendCode(ctx context.Context, phone, code string) error
}

// LogSender writes codes to the log instead of sending SMS. Used in
// development and tests.
type LogSender struct {
	Logger *slog.Logger
}

// SendCode logs the code instead of delivering it.
func (s LogSender) SendCode(_ context.Context, phone, code string) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("verification code issued", "phone", phone, "code", code)
	return nil
}

type entry struct {
	code    string
	expires time.Time
}

// Service issues and checks verification codes, and tracks which phone
// numbers passed verification recently enough to register.
type Service struct {
	sender   Sender
	codeTTL  time.Duration
	grantTTL time.Duration
	now      func() time.Time

	mu     sync.Mutex
	codes  map[string]entry
	grants map[string]time.Time
}

// NewService constructs a verification service. Codes expire after codeTTL;
// a successful verification leaves a grant valid for grantTTL.
func NewService(sender Sender, codeTTL, grantTTL time.Duration) *Service {
	if codeTTL <= 0 {
		codeTTL = 5 * time.Minute
	}
	if grantTTL <= 0 {
		grantTTL = time.Hour
	}
	return &Service{
		sender:   sender,
		codeTTL:  codeTTL,
		grantTTL: grantTTL,
		now:      time.Now,
		codes:    make(map[string]entry),
		grants:   make(map[string]time.Time),
	}
}

// RequestCode generates a six-digit code for the phone number and hands it to
// the sender. A new request replaces any outstanding code for the same number.
func (s *Service) RequestCode(ctx context.Context, phone string) error {
	code, err := randomCode()
	if err != nil {
		return fmt.Errorf("generate verification code: %w", err)
	}

	now := s.now()

	s.mu.Lock()
	s.codes[phone] = entry{code: code, expires: now.Add(s.codeTTL)}
	s.gcLocked(now)
	s.mu.Unlock()

	if err := s.sender.SendCode(ctx, phone, code); err != nil {
		return fmt.Errorf("send verification code: %w", err)
	}
	return nil
}

// Confirm checks a submitted code. On success the code is consumed and a
// verified-phone grant is recorded.
func (s *Service) Confirm(_ context.Context, phone, code string) error {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.codes[phone]
	if !ok || stored.code != code {
		return ErrCodeMismatch
	}
	if now.After(stored.expires) {
		delete(s.codes, phone)
		return ErrCodeExpired
	}

	delete(s.codes, phone)
	s.grants[phone] = now.Add(s.grantTTL)
	return nil
}

// Verified reports whether the phone number holds an unexpired grant.
func (s *Service) Verified(phone string) bool {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	expires, ok := s.grants[phone]
	if !ok {
		return false
	}
	if now.After(expires) {
		delete(s.grants, phone)
		return false
	}
	return true
}

// ConsumeGrant removes the grant after a successful registration.
func (s *Service) ConsumeGrant(phone string) {
	s.mu.Lock()
	delete(s.grants, phone)
	s.mu.Unlock()
}

// WithNowFunc allows tests to override the time source.
func (s *Service) WithNowFunc(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Service) gcLocked(now time.Time) {
	for phone, e := range s.codes {
		if now.After(e.expires) {
			delete(s.codes, phone)
		}
	}
	for phone, expires := range s.grants {
		if now.After(expires) {
			delete(s.grants, phone)
		}
	}
}

func randomCode() (string, error) {
	const digits = 6
	buf := make([]byte, digits)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, digits)
	for i, b := range buf {
		out[i] = '0' + b%10
	}
	return string(out), nil
}
