package http

import (
	"github.com/guild-verify-api/internal/application/audit"
	"github.com/guild-verify-api/internal/application/suppression"
	"github.com/guild-verify-api/internal/application/tenantcfg"
	"github.com/guild-verify-api/internal/application/verification"
	jwtinfra "github.com/guild-verify-api/internal/infrastructure/jwt"
)

// Deps holds the application services the router exposes. JWTProvider may be
// nil, in which case admin routes reject every request.
type Deps struct {
	Verification verification.Service
	TenantConfig tenantcfg.Service
	Audit        audit.Service
	Suppression  suppression.Service
	JWTProvider  *jwtinfra.Provider
}
