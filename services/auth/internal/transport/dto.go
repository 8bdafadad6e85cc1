package transport

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TenantID uint   `json:"tenant_id"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Role     string `json:"role"`
	TenantID uint   `json:"tenant_id"`
}
