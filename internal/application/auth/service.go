package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/exchange-admin/internal/application/role"
	"github.com/exchange-admin/internal/domain"
	"github.com/exchange-admin/internal/infrastructure/metrics"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required"`
	TwoFactorCode string `json:"two_factor_code"`
}

type LoginResult struct {
	Token       string
	ExpiresAt   time.Time
	Admin       *domain.Admin
	Permissions []domain.Permission
}

// AdminRepository is the subset of the admin store used by login.
type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	RecordLogin(ctx context.Context, adminID, ip string, at time.Time) error
}

type TokenSigner interface {
	Sign(adminID string, role domain.Role) (string, time.Time, error)
}

type SecondFactorVerifier interface {
	Validate(code, secret string) bool
}

// CodeGuard burns an accepted second-factor code. Claim returns false when the
// code was already used inside its validity window.
type CodeGuard interface {
	Claim(ctx context.Context, adminID, code string) (bool, error)
}

type Service interface {
	Login(ctx context.Context, req LoginRequest, clientIP string) (*LoginResult, error)
}

// ServiceDeps groups the dependencies for the login service. Guard is optional.
type ServiceDeps struct {
	Admins       AdminRepository
	Signer       TokenSigner
	SecondFactor SecondFactorVerifier
	Guard        CodeGuard
	Registry     *role.Registry
	Now          func() time.Time
}

type service struct {
	admins       AdminRepository
	signer       TokenSigner
	secondFactor SecondFactorVerifier
	guard        CodeGuard
	registry     *role.Registry
	now          func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		admins:       deps.Admins,
		signer:       deps.Signer,
		secondFactor: deps.SecondFactor,
		guard:        deps.Guard,
		registry:     deps.Registry,
		now:          now,
	}
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// compareDummy spends the same bcrypt effort as a real comparison when no
// usable account exists.
func compareDummy(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("exchange-admin-placeholder"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

func (s *service) Login(ctx context.Context, req LoginRequest, clientIP string) (*LoginResult, error) {
	res, err := s.login(ctx, req, clientIP)
	switch {
	case err == nil:
		metrics.ObserveLogin("success")
	case errors.Is(err, domain.ErrInvalidCredentials):
		metrics.ObserveLogin("invalid_credentials")
	case errors.Is(err, domain.ErrInvalidSecondFactor):
		metrics.ObserveLogin("invalid_second_factor")
	default:
		metrics.ObserveLogin("error")
	}
	return res, err
}

func (s *service) login(ctx context.Context, req LoginRequest, clientIP string) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	a, err := s.admins.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lookup admin: %w", err)
	}
	if a == nil || !a.Role.IsAdmin() {
		compareDummy(req.Password)
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	code := strings.TrimSpace(req.TwoFactorCode)
	if a.TwoFactorEnabled {
		if code == "" || a.TwoFactorSecret == "" || !s.secondFactor.Validate(code, a.TwoFactorSecret) {
			return nil, domain.ErrInvalidSecondFactor
		}
	}

	token, expiresAt, err := s.signer.Sign(a.AdminID, a.Role)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	// The code is burned only once a token exists to hand back.
	if a.TwoFactorEnabled {
		if err := s.claimCode(ctx, a.AdminID, code); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	if err := s.admins.RecordLogin(ctx, a.AdminID, clientIP, now); err != nil {
		slog.Warn("failed to record admin login", "admin_id", a.AdminID, "err", err)
	} else {
		a.LastLoginAt = &now
		if clientIP != "" {
			ip := clientIP
			a.LastLoginIP = &ip
		}
	}

	return &LoginResult{
		Token:       token,
		ExpiresAt:   expiresAt,
		Admin:       a,
		Permissions: s.registry.PermissionsOf(a.Role).List(),
	}, nil
}

func (s *service) claimCode(ctx context.Context, adminID, code string) error {
	if s.guard == nil {
		return nil
	}
	fresh, err := s.guard.Claim(ctx, adminID, code)
	if err != nil {
		return fmt.Errorf("claim second factor code: %w", err)
	}
	if !fresh {
		return domain.ErrInvalidSecondFactor
	}
	return nil
}
