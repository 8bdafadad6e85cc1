package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/gramseva/panchayat-backend/pkg/logging"
	"github.com/gramseva/panchayat-backend/services/content/internal/events"
	"github.com/gramseva/panchayat-backend/services/content/internal/models"
	"github.com/gramseva/panchayat-backend/services/content/internal/repo"
)

// MaxUploadBytes is the fixed ceiling on document uploads (10 MB).
const MaxUploadBytes int64 = 10 << 20

// allowedMimeTypes is the upload whitelist, checked before any remote
// call is made.
var allowedMimeTypes = map[string]struct{}{
	"application/pdf":    {},
	"image/jpeg":         {},
	"image/png":          {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
}

// DriveClient is the slice of the drive adapter the facade uses.
type DriveClient interface {
	Upload(ctx context.Context, tenantID uint, name, mimeType string, content []byte) (string, error)
	GrantLinkShare(ctx context.Context, tenantID uint, fileID string) error
	ViewLink(ctx context.Context, tenantID uint, fileID string) (string, error)
	Delete(ctx context.Context, tenantID uint, fileID string) error
}

// Publisher emits document lifecycle events (best effort).
type Publisher interface {
	PublishDocument(ctx context.Context, eventType string, doc *models.Document)
}

// DocumentService enforces consent, validation, ownership and
// visibility before anything touches the remote storage provider.
type DocumentService struct {
	Repo   *repo.GormRepo
	Drive  DriveClient
	Events Publisher
}

type UploadParams struct {
	Title       string
	Description string
	Category    string
	Visibility  models.Visibility
	FileName    string
	MimeType    string
	Content     []byte
}

// UploadOutcome distinguishes a clean upload from a degraded one where
// the document exists but a secondary effect (link-share grant, view
// link) failed. Callers can inspect Warnings instead of digging
// through logs.
type UploadOutcome struct {
	Document *models.Document
	ViewLink string
	Warnings []string
}

// ViewOutcome carries a document read whose view link may be degraded.
type ViewOutcome struct {
	Document *models.Document
	ViewLink string
	Degraded bool
	Warning  string
}

func (s *DocumentService) Upload(ctx context.Context, tenantID uint, userID string, p UploadParams) (*UploadOutcome, error) {
	l := logging.FromContext(ctx).With("svc", "document.upload", "tenant_id", tenantID, "user_id", userID)

	tenant, err := s.Repo.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !tenant.IsActive {
		return nil, ErrTenantInactive
	}

	// Consent precondition comes before anything else.
	if _, err := s.Repo.ActiveConsent(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("upload_rejected", "status", 400, "reason", "no active consent")
			return nil, ErrNoConsent
		}
		return nil, err
	}

	// Fail fast on bad input; no partial remote upload.
	if strings.TrimSpace(p.Title) == "" || len(p.Content) == 0 {
		return nil, ErrValidation
	}
	if _, ok := allowedMimeTypes[p.MimeType]; !ok {
		l.Warn("upload_rejected", "status", 400, "reason", "unsupported mime type", "mime_type", p.MimeType)
		return nil, ErrUnsupportedFileType
	}
	if int64(len(p.Content)) > MaxUploadBytes {
		l.Warn("upload_rejected", "status", 400, "reason", "file too large", "size", len(p.Content))
		return nil, ErrFileTooLarge
	}
	visibility := p.Visibility
	if visibility == "" {
		visibility = models.VisibilityPrivate
	}
	if visibility != models.VisibilityPrivate && visibility != models.VisibilityPublic {
		return nil, ErrValidation
	}

	fileID, err := s.Drive.Upload(ctx, tenantID, p.FileName, p.MimeType, p.Content)
	if err != nil {
		l.Error("drive_upload_failed", "error", err)
		return nil, err
	}

	doc := &models.Document{
		TenantID:    tenantID,
		UploadedBy:  userID,
		Title:       strings.TrimSpace(p.Title),
		Description: p.Description,
		Category:    p.Category,
		MimeType:    p.MimeType,
		SizeBytes:   int64(len(p.Content)),
		DriveFileID: fileID,
		Visibility:  visibility,
		IsAvailable: true,
	}
	// The row is persisted even when the grant or view link below
	// fails; the upload itself already succeeded.
	doc, err = s.Repo.CreateDocument(ctx, doc)
	if err != nil {
		l.Error("persist_document_failed", "error", err, "drive_file_id", fileID)
		return nil, err
	}

	outcome := &UploadOutcome{Document: doc}
	if err := s.Drive.GrantLinkShare(ctx, tenantID, fileID); err != nil {
		l.Warn("link_share_grant_failed", "error", err, "drive_file_id", fileID)
		outcome.Warnings = append(outcome.Warnings, "file uploaded but link sharing could not be enabled yet")
	}
	if link, err := s.Drive.ViewLink(ctx, tenantID, fileID); err != nil {
		l.Warn("view_link_failed", "error", err, "drive_file_id", fileID)
		outcome.Warnings = append(outcome.Warnings, "view link is temporarily unavailable")
	} else {
		outcome.ViewLink = link
	}

	if s.Events != nil {
		s.Events.PublishDocument(ctx, events.TypeDocumentCreated, doc)
	}

	l.Info("document_uploaded", "document_id", doc.ID, "drive_file_id", fileID)
	return outcome, nil
}

// owned loads a document scoped to the tenant and enforces the strict
// uploader-equality ownership rule.
func (s *DocumentService) owned(ctx context.Context, tenantID uint, userID string, id uint) (*models.Document, error) {
	doc, err := s.Repo.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	if doc.UploadedBy != userID {
		return nil, ErrNoPermission
	}
	return doc, nil
}

func (s *DocumentService) Get(ctx context.Context, tenantID uint, userID string, id uint) (*models.Document, error) {
	return s.owned(ctx, tenantID, userID, id)
}

// GetView returns the document with a view link. A link failure
// degrades the response instead of failing it.
func (s *DocumentService) GetView(ctx context.Context, tenantID uint, userID string, id uint) (*ViewOutcome, error) {
	doc, err := s.owned(ctx, tenantID, userID, id)
	if err != nil {
		return nil, err
	}

	out := &ViewOutcome{Document: doc}
	link, err := s.Drive.ViewLink(ctx, tenantID, doc.DriveFileID)
	if err != nil {
		logging.FromContext(ctx).Warn("view_link_failed", "svc", "document.get_view", "document_id", id, "error", err)
		out.Degraded = true
		out.Warning = "view link is temporarily unavailable"
		return out, nil
	}
	out.ViewLink = link
	return out, nil
}

// List returns the tenant's documents visible to this user: everything
// the user uploaded plus the tenant's PUBLIC documents.
func (s *DocumentService) List(ctx context.Context, tenantID uint, userID string, offset, limit int) (int64, []models.Document, error) {
	return s.Repo.ListDocuments(ctx, tenantID, userID, offset, limit)
}

// ListPublic is the public website listing: no caller identity, only
// PUBLIC show-on-website documents. Bypasses the ownership check by
// design.
func (s *DocumentService) ListPublic(ctx context.Context, tenantID uint, offset, limit int) (int64, []models.Document, error) {
	return s.Repo.ListPublicDocuments(ctx, tenantID, offset, limit)
}

type UpdateParams struct {
	Title       *string
	Description *string
	Category    *string
}

func (s *DocumentService) Update(ctx context.Context, tenantID uint, userID string, id uint, p UpdateParams) (*models.Document, error) {
	doc, err := s.owned(ctx, tenantID, userID, id)
	if err != nil {
		return nil, err
	}

	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return nil, ErrValidation
		}
		doc.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		doc.Description = *p.Description
	}
	if p.Category != nil {
		doc.Category = *p.Category
	}

	doc, err = s.Repo.SaveDocument(ctx, doc)
	if err != nil {
		return nil, err
	}
	if s.Events != nil {
		s.Events.PublishDocument(ctx, events.TypeDocumentUpdated, doc)
	}
	return doc, nil
}

func (s *DocumentService) SetVisibility(ctx context.Context, tenantID uint, userID string, id uint, v models.Visibility) (*models.Document, error) {
	if v != models.VisibilityPrivate && v != models.VisibilityPublic {
		return nil, ErrValidation
	}
	doc, err := s.owned(ctx, tenantID, userID, id)
	if err != nil {
		return nil, err
	}

	doc.Visibility = v
	if v == models.VisibilityPrivate {
		// A private document can never stay on the public website.
		doc.ShowOnWebsite = false
	}
	doc, err = s.Repo.SaveDocument(ctx, doc)
	if err != nil {
		return nil, err
	}
	if s.Events != nil {
		s.Events.PublishDocument(ctx, events.TypeDocumentUpdated, doc)
	}
	return doc, nil
}

func (s *DocumentService) SetShowOnWebsite(ctx context.Context, tenantID uint, userID string, id uint, show bool) (*models.Document, error) {
	doc, err := s.owned(ctx, tenantID, userID, id)
	if err != nil {
		return nil, err
	}
	if show && doc.Visibility != models.VisibilityPublic {
		return nil, ErrValidation
	}

	doc.ShowOnWebsite = show
	doc, err = s.Repo.SaveDocument(ctx, doc)
	if err != nil {
		return nil, err
	}
	if s.Events != nil {
		s.Events.PublishDocument(ctx, events.TypeDocumentUpdated, doc)
	}
	return doc, nil
}

// Delete removes the remote file best-effort, then always removes the
// local row. Remote and local state may diverge here; that trade-off
// is accepted and logged, never hidden.
func (s *DocumentService) Delete(ctx context.Context, tenantID uint, userID string, id uint) error {
	l := logging.FromContext(ctx).With("svc", "document.delete", "tenant_id", tenantID, "document_id", id)

	doc, err := s.owned(ctx, tenantID, userID, id)
	if err != nil {
		return err
	}

	if err := s.Drive.Delete(ctx, tenantID, doc.DriveFileID); err != nil {
		l.Warn("remote_delete_failed, deleting local row anyway", "drive_file_id", doc.DriveFileID, "error", err)
	}

	if err := s.Repo.DeleteDocument(ctx, id); err != nil {
		return err
	}
	if s.Events != nil {
		s.Events.PublishDocument(ctx, events.TypeDocumentDeleted, doc)
	}
	l.Info("document_deleted")
	return nil
}
