package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gramseva/panchayat-backend/services/content/internal/models"
	"github.com/gramseva/panchayat-backend/services/content/internal/repo"
)

type fakeDrive struct {
	uploads   int
	deletes   int
	grantErr  error
	linkErr   error
	deleteErr error
}

func (f *fakeDrive) Upload(_ context.Context, _ uint, name, _ string, _ []byte) (string, error) {
	f.uploads++
	return fmt.Sprintf("drive-%s-%d", name, f.uploads), nil
}

func (f *fakeDrive) GrantLinkShare(_ context.Context, _ uint, _ string) error {
	return f.grantErr
}

func (f *fakeDrive) ViewLink(_ context.Context, _ uint, fileID string) (string, error) {
	if f.linkErr != nil {
		return "", f.linkErr
	}
	return "https://drive.example/" + fileID + "/view", nil
}

func (f *fakeDrive) Delete(_ context.Context, _ uint, _ string) error {
	f.deletes++
	return f.deleteErr
}

type fakePublisher struct {
	events []string
}

func (f *fakePublisher) PublishDocument(_ context.Context, eventType string, _ *models.Document) {
	f.events = append(f.events, eventType)
}

func newTestFixture(t *testing.T) (*DocumentService, *ConsentService, *fakeDrive, *fakePublisher, *repo.GormRepo) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Tenant{}, &models.Document{}, &models.GoogleDriveToken{}, &models.UserConsent{},
	))

	r := &repo.GormRepo{DB: db}
	require.NoError(t, db.Create(&models.Tenant{Name: "Rampur", Slug: "rampur", OfficeEmail: "office@rampur.gov.in", IsActive: true}).Error)

	fd := &fakeDrive{}
	fp := &fakePublisher{}
	docs := &DocumentService{Repo: r, Drive: fd, Events: fp}
	consent := &ConsentService{Repo: r}
	return docs, consent, fd, fp, r
}

func giveConsent(t *testing.T, consent *ConsentService, userID string) {
	t.Helper()
	_, err := consent.Give(context.Background(), userID)
	require.NoError(t, err)
}

func pdfUpload(title string) UploadParams {
	return UploadParams{
		Title:      title,
		Category:   "budget",
		Visibility: models.VisibilityPrivate,
		FileName:   title + ".pdf",
		MimeType:   "application/pdf",
		Content:    []byte("%PDF-1.7 content"),
	}
}

func TestUpload_NoConsent_NoRowNoRemoteCall(t *testing.T) {
	t.Parallel()

	docs, _, fd, _, r := newTestFixture(t)

	_, err := docs.Upload(context.Background(), 1, "user-a", pdfUpload("budget"))
	assert.ErrorIs(t, err, ErrNoConsent)
	assert.Zero(t, fd.uploads, "remote upload must not run without consent")

	var n int64
	require.NoError(t, r.DB.Model(&models.Document{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestUpload_UnsupportedMimeType_RejectedBeforeRemoteCall(t *testing.T) {
	t.Parallel()

	docs, consent, fd, _, _ := newTestFixture(t)
	giveConsent(t, consent, "user-a")

	p := pdfUpload("script")
	p.MimeType = "application/x-sh"

	_, err := docs.Upload(context.Background(), 1, "user-a", p)
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
	assert.Zero(t, fd.uploads)
}

func TestUpload_FileTooLarge(t *testing.T) {
	t.Parallel()

	docs, consent, fd, _, _ := newTestFixture(t)
	giveConsent(t, consent, "user-a")

	p := pdfUpload("huge")
	p.Content = make([]byte, MaxUploadBytes+1)

	_, err := docs.Upload(context.Background(), 1, "user-a", p)
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Zero(t, fd.uploads)
}

func TestUpload_Success_ViewLinkAndEvent(t *testing.T) {
	t.Parallel()

	docs, consent, _, fp, _ := newTestFixture(t)
	giveConsent(t, consent, "user-a")

	out, err := docs.Upload(context.Background(), 1, "user-a", pdfUpload("budget"))
	require.NoError(t, err)
	require.NotNil(t, out.Document)
	assert.True(t, out.Document.IsAvailable)
	assert.NotEmpty(t, out.ViewLink)
	assert.Empty(t, out.Warnings)
	assert.Equal(t, []string{"document.created"}, fp.events)
}

func TestUpload_GrantAndLinkFailures_DegradeNotFail(t *testing.T) {
	t.Parallel()

	docs, consent, fd, _, r := newTestFixture(t)
	giveConsent(t, consent, "user-a")
	fd.grantErr = errors.New("permission backend down")
	fd.linkErr = errors.New("metadata backend down")

	out, err := docs.Upload(context.Background(), 1, "user-a", pdfUpload("budget"))
	require.NoError(t, err, "upload persists even when secondary effects fail")
	assert.Empty(t, out.ViewLink)
	assert.Len(t, out.Warnings, 2)

	var n int64
	require.NoError(t, r.DB.Model(&models.Document{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestUpload_InactiveTenantRejected(t *testing.T) {
	t.Parallel()

	docs, consent, _, _, r := newTestFixture(t)
	giveConsent(t, consent, "user-a")
	require.NoError(t, r.DeactivateTenant(context.Background(), 1))

	_, err := docs.Upload(context.Background(), 1, "user-a", pdfUpload("budget"))
	assert.ErrorIs(t, err, ErrTenantInactive)
}

func TestGet_PrivateDocumentInvisibleToOthers(t *testing.T) {
	t.Parallel()

	docs, consent, _, _, _ := newTestFixture(t)
	giveConsent(t, consent, "user-a")

	out, err := docs.Upload(context.Background(), 1, "user-a", pdfUpload("secret"))
	require.NoError(t, err)

	_, err = docs.Get(context.Background(), 1, "user-b", out.Document.ID)
	assert.ErrorIs(t, err, ErrNoPermission)

	got, err := docs.Get(context.Background(), 1, "user-a", out.Document.ID)
	require.NoError(t, err)
	assert.Equal(t, out.Document.ID, got.ID)
}

func TestOwnership_NoAdminOverride(t *testing.T) {
	t.Parallel()

	docs, consent, _, _, _ := newTestFixture(t)
	giveConsent(t, consent, "user-a")

	out, err := docs.Upload(context.Background(), 1, "user-a", pdfUpload("doc"))
	require.NoError(t, err)

	// Even another user of the same tenant gets no permission; the
	// check is strict uploader equality.
	_, err = docs.Update(context.Background(), 1, "admin-user", out.Document.ID, UpdateParams{})
	assert.ErrorIs(t, err, ErrNoPermission)

	err = docs.Delete(context.Background(), 1, "admin-user", out.Document.ID)
	assert.ErrorIs(t, err, ErrNoPermission)
}

func TestGet_CrossTenantLooksLikeNotFound(t *testing.T) {
	t.Parallel()

	docs, consent, _, _, r := newTestFixture(t)
	require.NoError(t, r.DB.Create(&models.Tenant{Name: "Sitapur", Slug: "sitapur", OfficeEmail: "office@sitapur.gov.in", IsActive: true}).Error)
	giveConsent(t, consent, "user-a")

	out, err := docs.Upload(context.Background(), 1, "user-a", pdfUpload("doc"))
	require.NoError(t, err)

	_, err = docs.Get(context.Background(), 2, "user-a", out.Document.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestList_OtherUsersPrivateDocsExcludedFromTotalAndPages(t *testing.T) {
	t.Parallel()

	docs, consent, _, _, _ := newTestFixture(t)
	giveConsent(t, consent, "user-a")
	giveConsent(t, consent, "user-b")
	ctx := context.Background()

	mine, err := docs.Upload(ctx, 1, "user-a", pdfUpload("my-report"))
	require.NoError(t, err)

	// user-b holds more private documents than the page size, uploaded
	// after user-a's, so they'd fill the first page if they leaked in.
	for i := 0; i < 5; i++ {
		_, err := docs.Upload(ctx, 1, "user-b", pdfUpload(fmt.Sprintf("b-private-%d", i)))
		require.NoError(t, err)
	}

	shared := pdfUpload("b-shared")
	shared.Visibility = models.VisibilityPublic
	public, err := docs.Upload(ctx, 1, "user-b", shared)
	require.NoError(t, err)

	total, items, err := docs.List(ctx, 1, "user-a", 0, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total, "total must only count documents user-a may see")
	require.Len(t, items, 2)

	ids := []uint{items[0].ID, items[1].ID}
	assert.Contains(t, ids, mine.Document.ID)
	assert.Contains(t, ids, public.Document.ID)
}

func TestListPublic_OnlyPublicShowOnWebsite(t *testing.T) {
	t.Parallel()

	docs, consent, _, _, _ := newTestFixture(t)
	giveConsent(t, consent, "user-a")
	ctx := context.Background()

	private, err := docs.Upload(ctx, 1, "user-a", pdfUpload("private-doc"))
	require.NoError(t, err)

	pub := pdfUpload("public-doc")
	pub.Visibility = models.VisibilityPublic
	public, err := docs.Upload(ctx, 1, "user-a", pub)
	require.NoError(t, err)

	_, err = docs.SetShowOnWebsite(ctx, 1, "user-a", public.Document.ID, true)
	require.NoError(t, err)

	total, items, err := docs.ListPublic(ctx, 1, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, public.Document.ID, items[0].ID)
	assert.NotEqual(t, private.Document.ID, items[0].ID)
}

func TestSetShowOnWebsite_RequiresPublicVisibility(t *testing.T) {
	t.Parallel()

	docs, consent, _, _, _ := newTestFixture(t)
	giveConsent(t, consent, "user-a")

	out, err := docs.Upload(context.Background(), 1, "user-a", pdfUpload("doc"))
	require.NoError(t, err)

	_, err = docs.SetShowOnWebsite(context.Background(), 1, "user-a", out.Document.ID, true)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSetVisibility_PrivateClearsShowOnWebsite(t *testing.T) {
	t.Parallel()

	docs, consent, _, _, _ := newTestFixture(t)
	giveConsent(t, consent, "user-a")
	ctx := context.Background()

	p := pdfUpload("doc")
	p.Visibility = models.VisibilityPublic
	out, err := docs.Upload(ctx, 1, "user-a", p)
	require.NoError(t, err)

	_, err = docs.SetShowOnWebsite(ctx, 1, "user-a", out.Document.ID, true)
	require.NoError(t, err)

	doc, err := docs.SetVisibility(ctx, 1, "user-a", out.Document.ID, models.VisibilityPrivate)
	require.NoError(t, err)
	assert.False(t, doc.ShowOnWebsite)
	assert.Equal(t, models.VisibilityPrivate, doc.Visibility)
}

func TestDelete_RemoteFailureStillDeletesLocalRow(t *testing.T) {
	t.Parallel()

	docs, consent, fd, fp, r := newTestFixture(t)
	giveConsent(t, consent, "user-a")
	ctx := context.Background()

	out, err := docs.Upload(ctx, 1, "user-a", pdfUpload("doc"))
	require.NoError(t, err)

	fd.deleteErr = errors.New("drive unreachable")
	require.NoError(t, docs.Delete(ctx, 1, "user-a", out.Document.ID))

	var n int64
	require.NoError(t, r.DB.Model(&models.Document{}).Count(&n).Error)
	assert.Zero(t, n)
	assert.Contains(t, fp.events, "document.deleted")
}

func TestGetView_DegradesWhenLinkFails(t *testing.T) {
	t.Parallel()

	docs, consent, fd, _, _ := newTestFixture(t)
	giveConsent(t, consent, "user-a")
	ctx := context.Background()

	out, err := docs.Upload(ctx, 1, "user-a", pdfUpload("doc"))
	require.NoError(t, err)

	fd.linkErr = errors.New("drive unauthorized")
	view, err := docs.GetView(ctx, 1, "user-a", out.Document.ID)
	require.NoError(t, err, "document row is still returned when the link fails")
	assert.True(t, view.Degraded)
	assert.Empty(t, view.ViewLink)
	assert.Equal(t, out.Document.ID, view.Document.ID)
}

func TestConsent_ReGrantKeepsOneActiveRow(t *testing.T) {
	t.Parallel()

	_, consent, _, _, r := newTestFixture(t)
	ctx := context.Background()

	_, err := consent.Give(ctx, "user-a")
	require.NoError(t, err)
	_, err = consent.Give(ctx, "user-a")
	require.NoError(t, err)

	var active int64
	require.NoError(t, r.DB.Model(&models.UserConsent{}).
		Where("user_id = ? AND given = ? AND revoked_at IS NULL", "user-a", true).
		Count(&active).Error)
	assert.EqualValues(t, 1, active)

	require.NoError(t, consent.Revoke(ctx, "user-a"))
	has, err := consent.HasActive(ctx, "user-a")
	require.NoError(t, err)
	assert.False(t, has)
}
