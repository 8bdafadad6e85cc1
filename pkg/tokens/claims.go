package tokens

import (
	"github.com/golang-jwt/jwt/v5"
)

// Roles carried in access tokens. TenantAdmin manages one panchayat,
// PlatformAdmin provisions tenants.
const (
	RoleTenantAdmin   = "tenant_admin"
	RolePlatformAdmin = "platform_admin"
	RoleUser          = "user"
)

type AccessClaims struct {
	Role     string `json:"role"`
	TenantID uint   `json:"tenant_id,omitempty"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	jwt.RegisteredClaims
}
