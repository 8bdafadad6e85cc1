package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) AccessToken(_ context.Context, _ uint) (string, error) {
	return s.token, s.err
}

// fakeDrive is a minimal in-memory Drive v3 endpoint.
type fakeDrive struct {
	mu          *httptest.Server
	folders     map[string]string // name -> id
	files       map[string]fakeFile
	nextID      int
	permissions map[string]int // fileID -> grant count

	grantStatus int    // non-zero forces permission responses
	grantBody   string // body for forced grant responses
	omitView    bool
}

type fakeFile struct {
	name        string
	mimeType    string
	content     []byte
	webViewLink string
}

func newFakeDrive(t *testing.T) (*fakeDrive, *Client) {
	t.Helper()
	fd := &fakeDrive{
		folders:     map[string]string{},
		files:       map[string]fakeFile{},
		permissions: map[string]int{},
		nextID:      1,
	}
	srv := httptest.NewServer(http.HandlerFunc(fd.handle))
	t.Cleanup(srv.Close)
	fd.mu = srv

	client := NewClient(staticTokens{token: "test-token"}, Options{
		BaseURL:    srv.URL,
		UploadURL:  srv.URL + "/upload",
		FolderName: "Panchayat Documents",
	})
	return fd, client
}

func (f *fakeDrive) handle(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer test-token" {
		writeAPIError(w, 401, "authError", "Invalid Credentials")
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/files":
		q := r.URL.Query().Get("q")
		var files []map[string]string
		if strings.Contains(q, "Panchayat Documents") {
			if id, ok := f.folders["Panchayat Documents"]; ok {
				files = append(files, map[string]string{"id": id, "name": "Panchayat Documents"})
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"files": files})

	case r.Method == http.MethodPost && r.URL.Path == "/files":
		var meta map[string]string
		_ = json.NewDecoder(r.Body).Decode(&meta)
		id := f.newID("folder")
		f.folders[meta["name"]] = id
		_ = json.NewEncoder(w).Encode(map[string]string{"id": id, "name": meta["name"]})

	case r.Method == http.MethodPost && r.URL.Path == "/upload/files":
		id := f.newID("file")
		f.files[id] = fakeFile{webViewLink: "https://drive.example/" + id + "/view"}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": id})

	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/permissions"):
		if f.grantStatus != 0 {
			w.WriteHeader(f.grantStatus)
			_, _ = w.Write([]byte(f.grantBody))
			return
		}
		fileID := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/files/"), "/permissions")
		f.permissions[fileID]++
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "perm-" + fileID})

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/files/"):
		fileID := strings.TrimPrefix(r.URL.Path, "/files/")
		file, ok := f.files[fileID]
		if !ok {
			writeAPIError(w, 404, "notFound", "File not found")
			return
		}
		out := map[string]string{"id": fileID}
		if !f.omitView {
			out["webViewLink"] = file.webViewLink
		}
		_ = json.NewEncoder(w).Encode(out)

	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/files/"):
		fileID := strings.TrimPrefix(r.URL.Path, "/files/")
		if _, ok := f.files[fileID]; !ok {
			writeAPIError(w, 404, "notFound", "File not found")
			return
		}
		delete(f.files, fileID)
		w.WriteHeader(http.StatusNoContent)

	default:
		writeAPIError(w, 400, "badRequest", "unexpected request "+r.Method+" "+r.URL.Path)
	}
}

func (f *fakeDrive) newID(prefix string) string {
	id := fmt.Sprintf("%s-%d", prefix, f.nextID)
	f.nextID++
	return id
}

func writeAPIError(w http.ResponseWriter, code int, reason, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
			"errors":  []map[string]string{{"reason": reason, "message": message}},
		},
	})
}

func TestEnsureFolder_SearchOrCreateIdempotent(t *testing.T) {
	t.Parallel()

	fd, client := newFakeDrive(t)
	ctx := context.Background()

	id1, err := client.EnsureFolder(ctx, 1)
	require.NoError(t, err)
	require.NotEmpty(t, id1)

	id2, err := client.EnsureFolder(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
	assert.Len(t, fd.folders, 1)
}

func TestUpload_ReturnsFileID(t *testing.T) {
	t.Parallel()

	fd, client := newFakeDrive(t)

	fileID, err := client.Upload(context.Background(), 1, "budget.pdf", "application/pdf", []byte("%PDF-1.7 data"))
	require.NoError(t, err)
	assert.NotEmpty(t, fileID)
	assert.Contains(t, fd.files, fileID)
}

func TestGrantLinkShare_DuplicateGrantIsSuccess(t *testing.T) {
	t.Parallel()

	fd, client := newFakeDrive(t)
	fd.grantStatus = 400
	fd.grantBody = `{"error":{"code":400,"message":"The permission already exists.","errors":[{"reason":"duplicate","message":"The permission already exists."}]}}`

	err := client.GrantLinkShare(context.Background(), 1, "file-1")
	assert.NoError(t, err)
}

func TestGrantLinkShare_OtherErrorPropagates(t *testing.T) {
	t.Parallel()

	fd, client := newFakeDrive(t)
	fd.grantStatus = 403
	fd.grantBody = `{"error":{"code":403,"message":"The user does not have sufficient permissions.","errors":[{"reason":"insufficientFilePermissions","message":"The user does not have sufficient permissions."}]}}`

	err := client.GrantLinkShare(context.Background(), 1, "file-1")
	assert.ErrorIs(t, err, ErrPermission)
}

func TestViewLink_FallsBackToCanonicalURL(t *testing.T) {
	t.Parallel()

	fd, client := newFakeDrive(t)
	ctx := context.Background()

	fileID, err := client.Upload(ctx, 1, "a.pdf", "application/pdf", []byte("x"))
	require.NoError(t, err)

	link, err := client.ViewLink(ctx, 1, fileID)
	require.NoError(t, err)
	assert.Equal(t, "https://drive.example/"+fileID+"/view", link)

	fd.omitView = true
	link, err = client.ViewLink(ctx, 1, fileID)
	require.NoError(t, err)
	assert.Equal(t, "https://drive.google.com/file/d/"+fileID+"/view", link)
}

func TestViewLink_SelfHealsEvenWhenGrantFails(t *testing.T) {
	t.Parallel()

	fd, client := newFakeDrive(t)
	ctx := context.Background()

	fileID, err := client.Upload(ctx, 1, "a.pdf", "application/pdf", []byte("x"))
	require.NoError(t, err)

	fd.grantStatus = 500
	fd.grantBody = `{"error":{"code":500,"message":"backend error"}}`

	link, err := client.ViewLink(ctx, 1, fileID)
	require.NoError(t, err, "view link must degrade gracefully when the grant fails")
	assert.NotEmpty(t, link)
}

func TestDelete_RemovesRemoteFile(t *testing.T) {
	t.Parallel()

	fd, client := newFakeDrive(t)
	ctx := context.Background()

	fileID, err := client.Upload(ctx, 1, "a.pdf", "application/pdf", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, client.Delete(ctx, 1, fileID))
	assert.NotContains(t, fd.files, fileID)

	err = client.Delete(ctx, 1, fileID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClassify_APIDisabledIsActionable(t *testing.T) {
	t.Parallel()

	body := []byte(`{"error":{"code":403,"message":"Google Drive API has not been used in project 12345 before or it is disabled.","errors":[{"reason":"accessNotConfigured","message":"Access Not Configured."}],"status":"PERMISSION_DENIED"}}`)

	err := classify(403, body)
	assert.ErrorIs(t, err, ErrAPIDisabled)
	assert.Contains(t, ErrAPIDisabled.Error(), "google cloud console")
}

func TestClassify_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "401", status: 401, body: `{"error":{"code":401,"message":"Invalid Credentials"}}`, want: ErrUnauthorized},
		{name: "404", status: 404, body: `{"error":{"code":404,"message":"File not found"}}`, want: ErrNotFound},
		{name: "403 plain", status: 403, body: `{"error":{"code":403,"message":"Forbidden"}}`, want: ErrPermission},
		{name: "500", status: 500, body: `{"error":{"code":500,"message":"Backend Error"}}`, want: ErrRemote},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := classify(tt.status, []byte(tt.body))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDo_TokenSourceErrorStopsRequest(t *testing.T) {
	t.Parallel()

	client := NewClient(staticTokens{err: fmt.Errorf("no credential")}, Options{
		BaseURL: "http://drive.invalid",
	})

	_, err := client.EnsureFolder(context.Background(), 1)
	assert.ErrorContains(t, err, "no credential")
}
