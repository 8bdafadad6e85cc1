package models

import "time"

// Tenant is a panchayat, the unit of data isolation. Tenants are never
// hard-deleted, only deactivated.
type Tenant struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null"                 json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null"     json:"slug"`
	OfficeEmail string    `gorm:"not null"                 json:"office_email"`
	IsActive    bool      `gorm:"not null;default:true"    json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Visibility string

const (
	VisibilityPrivate Visibility = "PRIVATE"
	VisibilityPublic  Visibility = "PUBLIC"
)

// Document references a file held by the remote storage provider.
// DriveFileID alone never grants access: every read goes through the
// facade's ownership/visibility checks.
type Document struct {
	ID            uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantID      uint       `gorm:"index;not null"           json:"tenant_id"`
	UploadedBy    string     `gorm:"index;not null"           json:"uploaded_by"`
	Title         string     `gorm:"not null"                 json:"title"`
	Description   string     `json:"description"`
	Category      string     `gorm:"index"                    json:"category"`
	MimeType      string     `gorm:"not null"                 json:"mime_type"`
	SizeBytes     int64      `gorm:"not null"                 json:"size_bytes"`
	DriveFileID   string     `gorm:"not null"                 json:"-"`
	Visibility    Visibility `gorm:"not null;default:'PRIVATE'" json:"visibility"`
	IsAvailable   bool       `gorm:"not null;default:true"    json:"is_available"`
	ShowOnWebsite bool       `gorm:"not null;default:false"   json:"show_on_website"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// GoogleDriveToken holds one encrypted OAuth credential set per tenant.
// The unique index on TenantID plus upsert-by-tenant keeps it at most
// one row per tenant.
type GoogleDriveToken struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantID     uint      `gorm:"uniqueIndex;not null"     json:"tenant_id"`
	AccessToken  string    `gorm:"type:text;not null"       json:"-"`
	RefreshToken string    `gorm:"type:text"                json:"-"`
	TokenType    string    `json:"-"`
	Scope        string    `json:"-"`
	ExpiresAt    time.Time `gorm:"not null"                 json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserConsent records a user's approval for document uploads.
// Active iff Given and RevokedAt is null; at most one active row per
// user, enforced by revoking the prior active row before inserting.
type UserConsent struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string     `gorm:"index;not null"           json:"user_id"`
	Given     bool       `gorm:"not null"                 json:"given"`
	GivenAt   time.Time  `gorm:"not null"                 json:"given_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

func (c *UserConsent) Active() bool {
	return c.Given && c.RevokedAt == nil
}
