// Package googleauth manages the per-tenant Google OAuth credential
// lifecycle: authorization URL, code exchange, lazy refresh and revoke.
package googleauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/gramseva/panchayat-backend/pkg/logging"
	"github.com/gramseva/panchayat-backend/pkg/metrics"
	"github.com/gramseva/panchayat-backend/services/content/internal/models"
	"github.com/gramseva/panchayat-backend/services/content/internal/tokencipher"
)

const (
	// refreshSkew keeps a credential from expiring between the check
	// and the remote call that uses it.
	refreshSkew = 5 * time.Minute

	// defaultLifetime applies when the provider omits expires_in.
	defaultLifetime = time.Hour

	defaultRevokeURL = "https://oauth2.googleapis.com/revoke"
)

var (
	// ErrNotConnected: the tenant never completed the consent flow (or
	// revoked it); there is no credential row.
	ErrNotConnected = errors.New("googleauth: tenant has no google credential")

	// ErrUnauthorized: the stored credential is expired and cannot be
	// refreshed; the tenant must re-connect.
	ErrUnauthorized = errors.New("googleauth: credential expired and not refreshable")

	ErrBadState = errors.New("googleauth: malformed state parameter")
)

// Store is the slice of the repository the manager needs.
type Store interface {
	UpsertToken(ctx context.Context, tok *models.GoogleDriveToken) error
	GetToken(ctx context.Context, tenantID uint) (*models.GoogleDriveToken, error)
	DeleteToken(ctx context.Context, tenantID uint) error
}

// Credential is a decrypted, usable access token.
type Credential struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

type Options struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string

	// Endpoint and RevokeURL default to Google's; tests point them at
	// an httptest server.
	Endpoint  oauth2.Endpoint
	RevokeURL string

	HTTPClient *http.Client
}

type Manager struct {
	oauth     *oauth2.Config
	store     Store
	cipher    *tokencipher.Cipher
	revokeURL string
	client    *http.Client

	// refresh collapses concurrent refreshes for one tenant into a
	// single token-endpoint exchange.
	refresh singleflight.Group

	now func() time.Time
}

func New(store Store, cipher *tokencipher.Cipher, o Options) *Manager {
	endpoint := o.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}
	revokeURL := o.RevokeURL
	if revokeURL == "" {
		revokeURL = defaultRevokeURL
	}
	client := o.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return &Manager{
		oauth: &oauth2.Config{
			ClientID:     o.ClientID,
			ClientSecret: o.ClientSecret,
			RedirectURL:  o.RedirectURL,
			Scopes:       o.Scopes,
			Endpoint:     endpoint,
		},
		store:     store,
		cipher:    cipher,
		revokeURL: revokeURL,
		client:    client,
		now:       time.Now,
	}
}

// AuthorizeURL returns the provider consent URL. The state carries the
// tenant id so the callback can route the code back to the right row.
func (m *Manager) AuthorizeURL(tenantID uint) string {
	state := fmt.Sprintf("%d:%s", tenantID, uuid.NewString())
	return m.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// ParseState recovers the tenant id from a callback state value.
func ParseState(state string) (uint, error) {
	idStr, _, ok := strings.Cut(state, ":")
	if !ok {
		return 0, ErrBadState
	}
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		return 0, ErrBadState
	}
	return uint(id), nil
}

// HandleCallback exchanges the authorization code and persists the
// tenant's single credential row.
func (m *Manager) HandleCallback(ctx context.Context, code, state string) (uint, error) {
	tenantID, err := ParseState(state)
	if err != nil {
		return 0, err
	}

	tok, err := m.oauth.Exchange(m.withHTTPClient(ctx), code)
	if err != nil {
		return 0, fmt.Errorf("googleauth: code exchange: %w", err)
	}

	expiresAt := tok.Expiry.UTC()
	if tok.Expiry.IsZero() {
		expiresAt = m.now().Add(defaultLifetime).UTC()
	}

	encAccess, err := m.cipher.Encrypt(tok.AccessToken)
	if err != nil {
		return 0, err
	}
	row := &models.GoogleDriveToken{
		TenantID:    tenantID,
		AccessToken: encAccess,
		TokenType:   tok.TokenType,
		Scope:       strings.Join(m.oauth.Scopes, " "),
		ExpiresAt:   expiresAt,
	}
	if tok.RefreshToken != "" {
		encRefresh, err := m.cipher.Encrypt(tok.RefreshToken)
		if err != nil {
			return 0, err
		}
		row.RefreshToken = encRefresh
	}

	if err := m.store.UpsertToken(ctx, row); err != nil {
		return 0, fmt.Errorf("googleauth: persist credential: %w", err)
	}
	return tenantID, nil
}

// IsConnected reports whether the tenant holds a credential row.
func (m *Manager) IsConnected(ctx context.Context, tenantID uint) (bool, error) {
	if _, err := m.store.GetToken(ctx, tenantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Credential returns a valid decrypted credential for the tenant,
// refreshing it first when it is inside the expiry skew. Concurrent
// callers for the same tenant share one refresh.
func (m *Manager) Credential(ctx context.Context, tenantID uint) (*Credential, error) {
	v, err, _ := m.refresh.Do(strconv.FormatUint(uint64(tenantID), 10), func() (any, error) {
		// The closure's result is shared with every concurrent waiter,
		// so the first caller disconnecting must not cancel it for the
		// rest. The HTTP client's own timeout still bounds the exchange.
		return m.credentialLocked(context.WithoutCancel(ctx), tenantID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Credential), nil
}

func (m *Manager) credentialLocked(ctx context.Context, tenantID uint) (*Credential, error) {
	row, err := m.store.GetToken(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotConnected
		}
		return nil, err
	}

	if !m.needsRefresh(row.ExpiresAt) {
		access, err := m.cipher.Decrypt(row.AccessToken)
		if err != nil {
			return nil, err
		}
		return &Credential{AccessToken: access, TokenType: row.TokenType, ExpiresAt: row.ExpiresAt}, nil
	}

	if row.RefreshToken == "" {
		return nil, ErrUnauthorized
	}
	refreshToken, err := m.cipher.Decrypt(row.RefreshToken)
	if err != nil {
		return nil, err
	}

	cred, err := m.exchangeRefreshToken(ctx, tenantID, row, refreshToken)
	if err != nil {
		metrics.OAuthRefreshTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.OAuthRefreshTotal.WithLabelValues("ok").Inc()
	return cred, nil
}

// AccessToken satisfies the drive adapter's TokenSource.
func (m *Manager) AccessToken(ctx context.Context, tenantID uint) (string, error) {
	cred, err := m.Credential(ctx, tenantID)
	if err != nil {
		return "", err
	}
	return cred.AccessToken, nil
}

// needsRefresh is true strictly after expiry minus the skew.
func (m *Manager) needsRefresh(expiresAt time.Time) bool {
	return m.now().After(expiresAt.Add(-refreshSkew))
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	ExpiresIn    int64  `json:"expires_in"`
	Error        string `json:"error"`
}

// exchangeRefreshToken performs the refresh_token grant directly so the
// rotated tokens can be re-encrypted and persisted in the same step.
func (m *Manager) exchangeRefreshToken(ctx context.Context, tenantID uint, row *models.GoogleDriveToken, refreshToken string) (*Credential, error) {
	l := logging.FromContext(ctx).With("svc", "googleauth.refresh", "tenant_id", tenantID)

	form := url.Values{
		"client_id":     {m.oauth.ClientID},
		"client_secret": {m.oauth.ClientSecret},
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.oauth.Endpoint.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("googleauth: refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("googleauth: refresh call: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("googleauth: refresh response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		l.Warn("refresh rejected", "status", resp.StatusCode, "provider_error", tr.Error)
		if tr.Error == "invalid_grant" || resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("googleauth: refresh failed with status %d", resp.StatusCode)
	}

	expiresAt := m.now().Add(defaultLifetime).UTC()
	if tr.ExpiresIn > 0 {
		expiresAt = m.now().Add(time.Duration(tr.ExpiresIn) * time.Second).UTC()
	}

	encAccess, err := m.cipher.Encrypt(tr.AccessToken)
	if err != nil {
		return nil, err
	}
	row.AccessToken = encAccess
	row.ExpiresAt = expiresAt
	if tr.TokenType != "" {
		row.TokenType = tr.TokenType
	}
	// Google rotates refresh tokens only sometimes; keep the old one
	// unless a new one arrives.
	if tr.RefreshToken != "" {
		encRefresh, err := m.cipher.Encrypt(tr.RefreshToken)
		if err != nil {
			return nil, err
		}
		row.RefreshToken = encRefresh
	}

	if err := m.store.UpsertToken(ctx, row); err != nil {
		return nil, fmt.Errorf("googleauth: persist refreshed credential: %w", err)
	}

	l.Info("credential refreshed", "expires_at", expiresAt)
	return &Credential{AccessToken: tr.AccessToken, TokenType: row.TokenType, ExpiresAt: expiresAt}, nil
}

// Revoke tells the provider to drop the grant (best effort) and then
// unconditionally deletes the local credential row.
func (m *Manager) Revoke(ctx context.Context, tenantID uint) error {
	l := logging.FromContext(ctx).With("svc", "googleauth.revoke", "tenant_id", tenantID)

	row, err := m.store.GetToken(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotConnected
		}
		return err
	}

	if token, err := m.cipher.Decrypt(row.AccessToken); err == nil {
		if err := m.revokeRemote(ctx, token); err != nil {
			l.Warn("remote revocation failed, deleting local credential anyway", "error", err)
		}
	} else {
		l.Warn("cannot decrypt stored token for remote revocation", "error", err)
	}

	if err := m.store.DeleteToken(ctx, tenantID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("googleauth: delete credential: %w", err)
	}
	return nil
}

func (m *Manager) revokeRemote(ctx context.Context, token string) error {
	form := url.Values{"token": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("revocation endpoint returned %d", resp.StatusCode)
	}
	return nil
}

func (m *Manager) withHTTPClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, m.client)
}
