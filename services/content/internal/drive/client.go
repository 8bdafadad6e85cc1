// Package drive wraps the Google Drive v3 REST API behind the small
// surface the document facade needs: upload into a well-known folder,
// link-share grants, view links and deletion. Every call is a single
// attempt; transient failures propagate to the caller.
package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"

	"github.com/gramseva/panchayat-backend/pkg/logging"
	"github.com/gramseva/panchayat-backend/pkg/metrics"
)

const (
	defaultBaseURL   = "https://www.googleapis.com/drive/v3"
	defaultUploadURL = "https://www.googleapis.com/upload/drive/v3"

	folderMimeType = "application/vnd.google-apps.folder"
)

// TokenSource yields a valid access token for a tenant. Implemented by
// the googleauth manager; defined here so the adapter stays decoupled
// from credential storage.
type TokenSource interface {
	AccessToken(ctx context.Context, tenantID uint) (string, error)
}

type Client struct {
	baseURL    string
	uploadURL  string
	httpClient *http.Client
	tokens     TokenSource

	// folderName is the fixed well-known folder documents live in.
	folderName string
}

type Options struct {
	// BaseURL/UploadURL default to the public Drive v3 endpoints; tests
	// point them at an httptest server.
	BaseURL    string
	UploadURL  string
	HTTPClient *http.Client
	FolderName string
}

func NewClient(tokens TokenSource, o Options) *Client {
	baseURL := o.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	uploadURL := o.UploadURL
	if uploadURL == "" {
		uploadURL = defaultUploadURL
	}
	httpClient := o.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	folderName := o.FolderName
	if folderName == "" {
		folderName = "Panchayat Documents"
	}
	return &Client{
		baseURL:    baseURL,
		uploadURL:  uploadURL,
		httpClient: httpClient,
		tokens:     tokens,
		folderName: folderName,
	}
}

type fileResource struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MimeType    string `json:"mimeType"`
	WebViewLink string `json:"webViewLink"`
}

type fileList struct {
	Files []fileResource `json:"files"`
}

// EnsureFolder finds the well-known folder, creating it when absent.
// Search-then-create keeps the call idempotent across tenants' repeat
// uploads.
func (c *Client) EnsureFolder(ctx context.Context, tenantID uint) (string, error) {
	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", c.folderName, folderMimeType)
	path := "/files?q=" + url.QueryEscape(q) + "&fields=" + url.QueryEscape("files(id,name)")

	resp, err := c.do(ctx, tenantID, http.MethodGet, c.baseURL+path, "", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var list fileList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return "", fmt.Errorf("drive: decoding folder search: %w", err)
	}
	if len(list.Files) > 0 {
		return list.Files[0].ID, nil
	}

	meta, _ := json.Marshal(map[string]string{
		"name":     c.folderName,
		"mimeType": folderMimeType,
	})
	resp, err = c.do(ctx, tenantID, http.MethodPost, c.baseURL+"/files", "application/json", bytes.NewReader(meta))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var folder fileResource
	if err := json.NewDecoder(resp.Body).Decode(&folder); err != nil {
		return "", fmt.Errorf("drive: decoding folder create: %w", err)
	}
	return folder.ID, nil
}

// Upload sends file bytes into the well-known folder via a
// multipart/related upload and returns the remote file id. Link
// sharing is a separate call; a grant failure must not undo an upload.
func (c *Client) Upload(ctx context.Context, tenantID uint, name, mimeType string, content []byte) (string, error) {
	folderID, err := c.EnsureFolder(ctx, tenantID)
	if err != nil {
		metrics.DriveOperationsTotal.WithLabelValues("upload", "error").Inc()
		return "", err
	}

	meta, _ := json.Marshal(map[string]any{
		"name":    name,
		"parents": []string{folderID},
	})

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	part, err := w.CreatePart(metaHeader)
	if err != nil {
		return "", fmt.Errorf("drive: building upload: %w", err)
	}
	if _, err := part.Write(meta); err != nil {
		return "", fmt.Errorf("drive: building upload: %w", err)
	}

	mediaHeader := textproto.MIMEHeader{}
	mediaHeader.Set("Content-Type", mimeType)
	part, err = w.CreatePart(mediaHeader)
	if err != nil {
		return "", fmt.Errorf("drive: building upload: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return "", fmt.Errorf("drive: building upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("drive: building upload: %w", err)
	}

	contentType := "multipart/related; boundary=" + w.Boundary()
	resp, err := c.do(ctx, tenantID, http.MethodPost, c.uploadURL+"/files?uploadType=multipart", contentType, &body)
	if err != nil {
		metrics.DriveOperationsTotal.WithLabelValues("upload", "error").Inc()
		return "", err
	}
	defer resp.Body.Close()

	var file fileResource
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return "", fmt.Errorf("drive: decoding upload response: %w", err)
	}

	metrics.DriveOperationsTotal.WithLabelValues("upload", "ok").Inc()
	return file.ID, nil
}

// GrantLinkShare makes the file readable by anyone holding the link,
// without making it discoverable. An already-existing grant counts as
// success.
func (c *Client) GrantLinkShare(ctx context.Context, tenantID uint, fileID string) error {
	body, _ := json.Marshal(map[string]any{
		"role":               "reader",
		"type":               "anyone",
		"allowFileDiscovery": false,
	})

	resp, err := c.do(ctx, tenantID, http.MethodPost, c.baseURL+"/files/"+url.PathEscape(fileID)+"/permissions", "application/json", bytes.NewReader(body))
	if err != nil {
		if permissionExists(err) {
			metrics.DriveOperationsTotal.WithLabelValues("grant_link_share", "ok").Inc()
			return nil
		}
		metrics.DriveOperationsTotal.WithLabelValues("grant_link_share", "error").Inc()
		return err
	}
	resp.Body.Close()

	metrics.DriveOperationsTotal.WithLabelValues("grant_link_share", "ok").Inc()
	return nil
}

// ViewLink re-asserts the link-share grant (self-healing for grants
// that failed at upload time or were revoked out of band), then
// returns the provider's view URL, falling back to the canonical form
// when the provider omits one.
func (c *Client) ViewLink(ctx context.Context, tenantID uint, fileID string) (string, error) {
	if err := c.GrantLinkShare(ctx, tenantID, fileID); err != nil {
		logging.FromContext(ctx).Warn("re-asserting link share failed", "file_id", fileID, "error", err)
	}

	path := "/files/" + url.PathEscape(fileID) + "?fields=" + url.QueryEscape("id,webViewLink")
	resp, err := c.do(ctx, tenantID, http.MethodGet, c.baseURL+path, "", nil)
	if err != nil {
		metrics.DriveOperationsTotal.WithLabelValues("view_link", "error").Inc()
		return "", err
	}
	defer resp.Body.Close()

	var file fileResource
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return "", fmt.Errorf("drive: decoding metadata: %w", err)
	}

	metrics.DriveOperationsTotal.WithLabelValues("view_link", "ok").Inc()
	if file.WebViewLink != "" {
		return file.WebViewLink, nil
	}
	return "https://drive.google.com/file/d/" + fileID + "/view", nil
}

// Delete hard-deletes the remote file. The caller owns removal of the
// local document row.
func (c *Client) Delete(ctx context.Context, tenantID uint, fileID string) error {
	resp, err := c.do(ctx, tenantID, http.MethodDelete, c.baseURL+"/files/"+url.PathEscape(fileID), "", nil)
	if err != nil {
		metrics.DriveOperationsTotal.WithLabelValues("delete", "error").Inc()
		return err
	}
	resp.Body.Close()

	metrics.DriveOperationsTotal.WithLabelValues("delete", "ok").Inc()
	return nil
}

// do executes one authenticated request. No retries: a failure
// propagates immediately (classified), matching the synchronous
// request-per-call model.
func (c *Client) do(ctx context.Context, tenantID uint, method, fullURL, contentType string, body io.Reader) (*http.Response, error) {
	token, err := c.tokens.AccessToken(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("drive: building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("drive: %s %s: %w", method, fullURL, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	resp.Body.Close()
	return nil, classify(resp.StatusCode, errBody)
}
