package transport

import (
	"time"

	"github.com/gramseva/panchayat-backend/services/content/internal/models"
	"github.com/gramseva/panchayat-backend/services/content/internal/service"
)

type AuthorizeResponse struct {
	AuthorizationURL string `json:"authorization_url"`
}

type ConnectionStatusResponse struct {
	IsConnected bool `json:"is_connected"`
}

type ConsentStatusResponse struct {
	Active bool `json:"active"`
}

type CreateTenantRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	OfficeEmail string `json:"office_email"`
}

type UpdateDocumentRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

type VisibilityRequest struct {
	Visibility string `json:"visibility"`
}

type ShowOnWebsiteRequest struct {
	ShowOnWebsite bool `json:"show_on_website"`
}

type DocumentResponse struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	MimeType      string    `json:"mime_type"`
	SizeBytes     int64     `json:"size_bytes"`
	Visibility    string    `json:"visibility"`
	IsAvailable   bool      `json:"is_available"`
	ShowOnWebsite bool      `json:"show_on_website"`
	ViewLink      *string   `json:"view_link"`
	Warnings      []string  `json:"warnings,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewDocumentResponse(doc *models.Document, viewLink string, warnings []string) DocumentResponse {
	resp := DocumentResponse{
		ID:            doc.ID,
		Title:         doc.Title,
		Description:   doc.Description,
		Category:      doc.Category,
		MimeType:      doc.MimeType,
		SizeBytes:     doc.SizeBytes,
		Visibility:    string(doc.Visibility),
		IsAvailable:   doc.IsAvailable,
		ShowOnWebsite: doc.ShowOnWebsite,
		Warnings:      warnings,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
	if viewLink != "" {
		resp.ViewLink = &viewLink
	}
	return resp
}

func NewUploadResponse(out *service.UploadOutcome) DocumentResponse {
	return NewDocumentResponse(out.Document, out.ViewLink, out.Warnings)
}

func NewViewResponse(out *service.ViewOutcome) DocumentResponse {
	var warnings []string
	if out.Degraded {
		warnings = []string{out.Warning}
	}
	return NewDocumentResponse(out.Document, out.ViewLink, warnings)
}

func NewDocumentList(items []models.Document) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(items))
	for i := range items {
		out = append(out, NewDocumentResponse(&items[i], "", nil))
	}
	return out
}
