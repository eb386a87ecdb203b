package role

import (
	"context"
	"errors"
	"testing"

	"github.com/exchange-admin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_List(t *testing.T) {
	views, err := NewService(DefaultRegistry()).List(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 10)
	for _, v := range views {
		assert.NotEmpty(t, v.Permissions, string(v.Role))
	}
}

func TestService_Get(t *testing.T) {
	svc := NewService(DefaultRegistry())

	v, err := svc.Get(context.Background(), "kyc_admin")
	require.NoError(t, err)
	assert.Contains(t, v.Permissions, domain.PermApproveKYC)

	_, err = svc.Get(context.Background(), "user")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
