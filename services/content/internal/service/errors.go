package service

import "errors"

var (
	ErrValidation = errors.New("invalid input")

	// ErrNoConsent: the uploading user has no active consent on record.
	ErrNoConsent = errors.New("document upload requires an active consent")

	// ErrNoPermission: acting user is not the document's uploader.
	// Strict equality, no admin override.
	ErrNoPermission = errors.New("no permission for this document")

	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds the maximum allowed size")

	ErrTenantInactive = errors.New("tenant is deactivated")
)
