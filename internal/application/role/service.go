package role

import (
	"context"
	"fmt"

	"github.com/exchange-admin/internal/domain"
)

// View is a role together with its resolved permissions.
type View struct {
	Role        domain.Role         `json:"role"`
	Permissions []domain.Permission `json:"permissions"`
}

type Service interface {
	List(ctx context.Context) ([]View, error)
	Get(ctx context.Context, name string) (*View, error)
}

type service struct {
	registry *Registry
}

func NewService(registry *Registry) Service {
	return &service{registry: registry}
}

func (s *service) List(_ context.Context) ([]View, error) {
	roles := s.registry.Roles()
	views := make([]View, 0, len(roles))
	for _, r := range roles {
		views = append(views, View{Role: r, Permissions: s.registry.PermissionsOf(r).List()})
	}
	return views, nil
}

func (s *service) Get(_ context.Context, name string) (*View, error) {
	r, ok := domain.ParseRole(name)
	if !ok || !r.IsAdmin() {
		return nil, fmt.Errorf("role %q: %w", name, domain.ErrNotFound)
	}
	return &View{Role: r, Permissions: s.registry.PermissionsOf(r).List()}, nil
}
