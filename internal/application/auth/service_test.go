package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/exchange-admin/internal/application/role"
	"github.com/exchange-admin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockAdminStore struct{ mock.Mock }

func (m *mockAdminStore) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	args := m.Called(ctx, email)
	if a, _ := args.Get(0).(*domain.Admin); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAdminStore) RecordLogin(ctx context.Context, adminID, ip string, at time.Time) error {
	return m.Called(ctx, adminID, ip, at).Error(0)
}

type mockSigner struct{ mock.Mock }

func (m *mockSigner) Sign(adminID string, r domain.Role) (string, time.Time, error) {
	args := m.Called(adminID, r)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

type mockSecondFactor struct{ mock.Mock }

func (m *mockSecondFactor) Validate(code, secret string) bool {
	return m.Called(code, secret).Bool(0)
}

type mockGuard struct{ mock.Mock }

func (m *mockGuard) Claim(ctx context.Context, adminID, code string) (bool, error) {
	args := m.Called(ctx, adminID, code)
	return args.Bool(0), args.Error(1)
}

// --- helpers ---

var fixedNow = time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC)

func hashOf(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newService(admins *mockAdminStore, signer *mockSigner, sf *mockSecondFactor, guard CodeGuard) Service {
	return NewService(ServiceDeps{
		Admins:       admins,
		Signer:       signer,
		SecondFactor: sf,
		Guard:        guard,
		Registry:     role.DefaultRegistry(),
		Now:          func() time.Time { return fixedNow },
	})
}

// --- Login ---

func TestLogin_HappyPath_NoSecondFactor(t *testing.T) {
	admins := &mockAdminStore{}
	signer := &mockSigner{}
	a := &domain.Admin{AdminID: "adm-1", Email: "kyc@ex.com", PasswordHash: hashOf(t, "s3cret"), Role: domain.RoleKYCAdmin}
	exp := fixedNow.Add(domain.SessionTTL)

	admins.On("GetByEmail", mock.Anything, "kyc@ex.com").Return(a, nil)
	signer.On("Sign", "adm-1", domain.RoleKYCAdmin).Return("tok", exp, nil)
	admins.On("RecordLogin", mock.Anything, "adm-1", "10.0.0.1", fixedNow).Return(nil)

	res, err := newService(admins, signer, nil, nil).Login(context.Background(), LoginRequest{
		Email:    " KYC@ex.com ",
		Password: "s3cret",
	}, "10.0.0.1")

	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
	assert.Equal(t, exp, res.ExpiresAt)
	assert.Equal(t, []domain.Permission{
		domain.PermViewUsers, domain.PermViewKYC, domain.PermApproveKYC, domain.PermRejectKYC,
	}, res.Permissions)
	require.NotNil(t, res.Admin.LastLoginIP)
	assert.Equal(t, "10.0.0.1", *res.Admin.LastLoginIP)
	admins.AssertExpectations(t)
	signer.AssertExpectations(t)
}

func TestLogin_UnknownEmail_InvalidCredentials(t *testing.T) {
	admins := &mockAdminStore{}
	admins.On("GetByEmail", mock.Anything, "ghost@ex.com").Return(nil, domain.ErrNotFound)

	_, err := newService(admins, &mockSigner{}, nil, nil).Login(context.Background(), LoginRequest{
		Email: "ghost@ex.com", Password: "whatever",
	}, "")

	assert.True(t, errors.Is(err, domain.ErrInvalidCredentials))
	admins.AssertNotCalled(t, "RecordLogin", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_CustomerAccount_InvalidCredentials(t *testing.T) {
	admins := &mockAdminStore{}
	u := &domain.Admin{AdminID: "u-1", Email: "c@ex.com", PasswordHash: hashOf(t, "pw"), Role: domain.RoleUser}
	admins.On("GetByEmail", mock.Anything, "c@ex.com").Return(u, nil)

	_, err := newService(admins, &mockSigner{}, nil, nil).Login(context.Background(), LoginRequest{
		Email: "c@ex.com", Password: "pw",
	}, "")

	assert.True(t, errors.Is(err, domain.ErrInvalidCredentials))
}

func TestLogin_WrongPassword_SkipsSecondFactor(t *testing.T) {
	admins := &mockAdminStore{}
	sf := &mockSecondFactor{}
	a := &domain.Admin{AdminID: "adm-1", Email: "a@ex.com", PasswordHash: hashOf(t, "right"),
		Role: domain.RoleSuperAdmin, TwoFactorEnabled: true, TwoFactorSecret: "SECRET"}
	admins.On("GetByEmail", mock.Anything, "a@ex.com").Return(a, nil)

	_, err := newService(admins, &mockSigner{}, sf, nil).Login(context.Background(), LoginRequest{
		Email: "a@ex.com", Password: "wrong", TwoFactorCode: "123456",
	}, "")

	assert.True(t, errors.Is(err, domain.ErrInvalidCredentials))
	sf.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything)
}

func TestLogin_SecondFactor(t *testing.T) {
	a := func() *domain.Admin {
		return &domain.Admin{AdminID: "adm-2", Email: "b@ex.com", PasswordHash: hashOf(t, "pw"),
			Role: domain.RoleComplianceOfficer, TwoFactorEnabled: true, TwoFactorSecret: "SECRET"}
	}

	t.Run("missing code", func(t *testing.T) {
		admins := &mockAdminStore{}
		admins.On("GetByEmail", mock.Anything, "b@ex.com").Return(a(), nil)
		_, err := newService(admins, &mockSigner{}, &mockSecondFactor{}, nil).Login(context.Background(),
			LoginRequest{Email: "b@ex.com", Password: "pw"}, "")
		assert.True(t, errors.Is(err, domain.ErrInvalidSecondFactor))
	})

	t.Run("invalid code", func(t *testing.T) {
		admins := &mockAdminStore{}
		sf := &mockSecondFactor{}
		admins.On("GetByEmail", mock.Anything, "b@ex.com").Return(a(), nil)
		sf.On("Validate", "000000", "SECRET").Return(false)
		_, err := newService(admins, &mockSigner{}, sf, nil).Login(context.Background(),
			LoginRequest{Email: "b@ex.com", Password: "pw", TwoFactorCode: "000000"}, "")
		assert.True(t, errors.Is(err, domain.ErrInvalidSecondFactor))
	})

	t.Run("replayed code", func(t *testing.T) {
		admins := &mockAdminStore{}
		sf := &mockSecondFactor{}
		guard := &mockGuard{}
		signer := &mockSigner{}
		admins.On("GetByEmail", mock.Anything, "b@ex.com").Return(a(), nil)
		sf.On("Validate", "123456", "SECRET").Return(true)
		guard.On("Claim", mock.Anything, "adm-2", "123456").Return(false, nil)
		signer.On("Sign", "adm-2", domain.RoleComplianceOfficer).Return("tok", fixedNow.Add(domain.SessionTTL), nil)
		_, err := newService(admins, signer, sf, guard).Login(context.Background(),
			LoginRequest{Email: "b@ex.com", Password: "pw", TwoFactorCode: "123456"}, "")
		assert.True(t, errors.Is(err, domain.ErrInvalidSecondFactor))
	})

	t.Run("guard failure", func(t *testing.T) {
		admins := &mockAdminStore{}
		sf := &mockSecondFactor{}
		guard := &mockGuard{}
		signer := &mockSigner{}
		admins.On("GetByEmail", mock.Anything, "b@ex.com").Return(a(), nil)
		sf.On("Validate", "123456", "SECRET").Return(true)
		guard.On("Claim", mock.Anything, "adm-2", "123456").Return(false, errors.New("redis down"))
		signer.On("Sign", "adm-2", domain.RoleComplianceOfficer).Return("tok", fixedNow.Add(domain.SessionTTL), nil)
		_, err := newService(admins, signer, sf, guard).Login(context.Background(),
			LoginRequest{Email: "b@ex.com", Password: "pw", TwoFactorCode: "123456"}, "")
		require.Error(t, err)
		assert.False(t, errors.Is(err, domain.ErrInvalidSecondFactor))
	})

	t.Run("valid code", func(t *testing.T) {
		admins := &mockAdminStore{}
		sf := &mockSecondFactor{}
		guard := &mockGuard{}
		signer := &mockSigner{}
		admins.On("GetByEmail", mock.Anything, "b@ex.com").Return(a(), nil)
		sf.On("Validate", "123456", "SECRET").Return(true)
		guard.On("Claim", mock.Anything, "adm-2", "123456").Return(true, nil)
		signer.On("Sign", "adm-2", domain.RoleComplianceOfficer).Return("tok", fixedNow.Add(domain.SessionTTL), nil)
		admins.On("RecordLogin", mock.Anything, "adm-2", "", fixedNow).Return(nil)

		res, err := newService(admins, signer, sf, guard).Login(context.Background(),
			LoginRequest{Email: "b@ex.com", Password: "pw", TwoFactorCode: "123456"}, "")
		require.NoError(t, err)
		assert.Equal(t, "tok", res.Token)
		assert.Len(t, res.Permissions, 7)
	})

	t.Run("signing failure leaves the code unspent", func(t *testing.T) {
		admins := &mockAdminStore{}
		sf := &mockSecondFactor{}
		guard := &mockGuard{}
		signer := &mockSigner{}
		admins.On("GetByEmail", mock.Anything, "b@ex.com").Return(a(), nil)
		sf.On("Validate", "123456", "SECRET").Return(true)
		signer.On("Sign", "adm-2", domain.RoleComplianceOfficer).Return("", time.Time{}, errors.New("key unavailable"))

		_, err := newService(admins, signer, sf, guard).Login(context.Background(),
			LoginRequest{Email: "b@ex.com", Password: "pw", TwoFactorCode: "123456"}, "")
		require.Error(t, err)
		assert.False(t, errors.Is(err, domain.ErrInvalidSecondFactor))
		guard.AssertNotCalled(t, "Claim", mock.Anything, mock.Anything, mock.Anything)
		admins.AssertNotCalled(t, "RecordLogin", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLogin_RecordLoginFailure_DoesNotFailLogin(t *testing.T) {
	admins := &mockAdminStore{}
	signer := &mockSigner{}
	a := &domain.Admin{AdminID: "adm-3", Email: "c@ex.com", PasswordHash: hashOf(t, "pw"), Role: domain.RoleRiskManager}
	admins.On("GetByEmail", mock.Anything, "c@ex.com").Return(a, nil)
	signer.On("Sign", "adm-3", domain.RoleRiskManager).Return("tok", fixedNow.Add(domain.SessionTTL), nil)
	admins.On("RecordLogin", mock.Anything, "adm-3", "1.2.3.4", fixedNow).Return(errors.New("db down"))

	res, err := newService(admins, signer, nil, nil).Login(context.Background(),
		LoginRequest{Email: "c@ex.com", Password: "pw"}, "1.2.3.4")

	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
	assert.Nil(t, res.Admin.LastLoginAt)
}

func TestLogin_StoreError_IsNotCredentialError(t *testing.T) {
	admins := &mockAdminStore{}
	admins.On("GetByEmail", mock.Anything, "d@ex.com").Return(nil, errors.New("connection refused"))

	_, err := newService(admins, &mockSigner{}, nil, nil).Login(context.Background(),
		LoginRequest{Email: "d@ex.com", Password: "pw"}, "")

	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrInvalidCredentials))
}
