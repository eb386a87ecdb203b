package http

import (
	"github.com/exchange-admin/internal/application/auth"
	"github.com/exchange-admin/internal/application/kyc"
	"github.com/exchange-admin/internal/application/notification"
	"github.com/exchange-admin/internal/application/role"
	"github.com/exchange-admin/internal/transport/http/handler"
	"github.com/exchange-admin/internal/transport/http/middleware"
)

// Deps holds the services and gate collaborators the router wires together.
type Deps struct {
	Auth          auth.Service
	Roles         role.Service
	KYC           kyc.Service
	Notifications notification.Service

	Registry *role.Registry
	Tokens   middleware.TokenVerifier
	Admins   middleware.AdminLookup

	DB handler.Pinger // optional, backs /health-check/ready
}
