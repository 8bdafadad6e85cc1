package httpserver

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	authmw "github.com/gramseva/panchayat-backend/pkg/middleware/auth"
	"github.com/gramseva/panchayat-backend/pkg/logging"
	"github.com/gramseva/panchayat-backend/services/content/internal/models"
	"github.com/gramseva/panchayat-backend/services/content/internal/service"
	"github.com/gramseva/panchayat-backend/services/content/internal/transport"
)

const defaultPageSize = 20

type DocumentHTTP struct {
	Svc *service.DocumentService
}

func docID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}
	return uint(id), nil
}

func pagination(c echo.Context) (offset, limit int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(c.QueryParam("size"))
	if size < 1 || size > 100 {
		size = defaultPageSize
	}
	return (page - 1) * size, size
}

func (h *DocumentHTTP) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "document.upload")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		l.Warn("upload_failed", "status", 400, "reason", "missing file part", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "multipart field 'file' is required")
	}
	// Reject oversized bodies before buffering the whole file.
	if fileHeader.Size > service.MaxUploadBytes {
		l.Warn("upload_failed", "status", 400, "reason", "file too large", "size", fileHeader.Size)
		return httpError(service.ErrFileTooLarge)
	}

	src, err := fileHeader.Open()
	if err != nil {
		l.Error("upload_failed", "status", 500, "reason", "cannot open multipart file", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read upload")
	}
	defer src.Close()

	content, err := io.ReadAll(io.LimitReader(src, service.MaxUploadBytes+1))
	if err != nil {
		l.Error("upload_failed", "status", 500, "reason", "cannot read multipart file", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read upload")
	}

	out, err := h.Svc.Upload(ctx, authmw.TenantID(c), authmw.UserID(c), service.UploadParams{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		Visibility:  models.Visibility(c.FormValue("visibility")),
		FileName:    fileHeader.Filename,
		MimeType:    fileHeader.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		return httpError(err)
	}

	l.Info("upload_success", "document_id", out.Document.ID)
	return c.JSON(http.StatusCreated, transport.NewUploadResponse(out))
}

func (h *DocumentHTTP) Get(c echo.Context) error {
	id, err := docID(c)
	if err != nil {
		return err
	}

	doc, err := h.Svc.Get(c.Request().Context(), authmw.TenantID(c), authmw.UserID(c), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, transport.NewDocumentResponse(doc, "", nil))
}

func (h *DocumentHTTP) GetView(c echo.Context) error {
	id, err := docID(c)
	if err != nil {
		return err
	}

	out, err := h.Svc.GetView(c.Request().Context(), authmw.TenantID(c), authmw.UserID(c), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, transport.NewViewResponse(out))
}

func (h *DocumentHTTP) List(c echo.Context) error {
	offset, limit := pagination(c)

	total, items, err := h.Svc.List(c.Request().Context(), authmw.TenantID(c), authmw.UserID(c), offset, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data": transport.NewDocumentList(items),
		"meta": map[string]any{"total": total},
	})
}

// ListPublic serves the website listing without authentication.
func (h *DocumentHTTP) ListPublic(c echo.Context) error {
	tenantID, err := strconv.ParseUint(c.QueryParam("tenant_id"), 10, 32)
	if err != nil || tenantID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "tenant_id query parameter is required")
	}
	offset, limit := pagination(c)

	total, items, err := h.Svc.ListPublic(c.Request().Context(), uint(tenantID), offset, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data": transport.NewDocumentList(items),
		"meta": map[string]any{"total": total},
	})
}

func (h *DocumentHTTP) Update(c echo.Context) error {
	id, err := docID(c)
	if err != nil {
		return err
	}

	var req transport.UpdateDocumentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	doc, err := h.Svc.Update(c.Request().Context(), authmw.TenantID(c), authmw.UserID(c), id, service.UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, transport.NewDocumentResponse(doc, "", nil))
}

func (h *DocumentHTTP) SetVisibility(c echo.Context) error {
	id, err := docID(c)
	if err != nil {
		return err
	}

	var req transport.VisibilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	doc, err := h.Svc.SetVisibility(c.Request().Context(), authmw.TenantID(c), authmw.UserID(c), id, models.Visibility(req.Visibility))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, transport.NewDocumentResponse(doc, "", nil))
}

func (h *DocumentHTTP) SetShowOnWebsite(c echo.Context) error {
	id, err := docID(c)
	if err != nil {
		return err
	}

	var req transport.ShowOnWebsiteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	doc, err := h.Svc.SetShowOnWebsite(c.Request().Context(), authmw.TenantID(c), authmw.UserID(c), id, req.ShowOnWebsite)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, transport.NewDocumentResponse(doc, "", nil))
}

func (h *DocumentHTTP) Delete(c echo.Context) error {
	id, err := docID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(c.Request().Context(), authmw.TenantID(c), authmw.UserID(c), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
