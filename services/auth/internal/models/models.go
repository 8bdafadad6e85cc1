package models

import "time"

// User is a panchayat staff account. TenantID is 0 for platform admins,
// who are not bound to a single panchayat.
type User struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"not null"             json:"-"`
	Role         string `gorm:"not null"             json:"role"`
	TenantID     uint   `gorm:"index"                json:"tenant_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RefreshToken stores a sha256 of the issued refresh token. Rotation marks
// the old row revoked inside the same transaction that creates the new one.
type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"           json:"id"`
	TokenHash string `gorm:"uniqueIndex;not null" json:"-"`
	UserID    string `gorm:"index;not null"       json:"user_id"`
	JTI       string `gorm:"uniqueIndex;not null" json:"jti"`
	ExpiresAt int64  `gorm:"not null"             json:"expires_at"`
	Revoked   bool   `gorm:"default:false"        json:"revoked"`
}
