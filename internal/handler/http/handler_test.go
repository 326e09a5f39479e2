package http

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/adapter"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/config"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/credential"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/store"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/utils"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

var testApp = config.App{TokenSignKey: "sign-key", TokenIssuer: "securecore", HashKey: "hash-key"}

func newTestHandler(t *testing.T, server config.Server) (*httptest.Server, *credential.Service) {
	t.Helper()
	mem := store.NewMemory()
	svc := credential.NewService(config.Credential{
		RelyingPartyID:  "portfolio.example",
		Origin:          "https://portfolio.example",
		ChallengeTTL:    5 * time.Minute,
		CeremonyTimeout: time.Second,
	}, mem, mem, logger.Nop())

	h := NewHandler(svc, server, testApp, models.NewAppBuildInfo("1.4.0", "2026-03-01", "abc123"), logger.Nop())
	srv := httptest.NewServer(h.Init())
	t.Cleanup(srv.Close)
	return srv, svc
}

func accessToken(t *testing.T, userID string) string {
	t.Helper()
	tok, err := utils.GenerateAccessToken(testApp.TokenIssuer, userID, "s-"+userID, time.Now(), 15*time.Minute, testApp.TokenSignKey)
	require.NoError(t, err)
	return tok.Token
}

func remoteClient(t *testing.T, srv *httptest.Server, token string) (*credential.Client, *adapter.HTTPVerifier) {
	t.Helper()
	v, err := adapter.NewHTTPVerifier(config.Adapter{HTTPAddress: srv.URL, RequestTimeout: 2 * time.Second}, logger.Nop(),
		adapter.WithTokenSource(func() string { return token }))
	require.NoError(t, err)
	return credential.NewClient(v, credential.NewSoftwareAuthenticator(models.PlatformAuthenticator), time.Second, logger.Nop()), v
}

func decodeError(t *testing.T, resp *http.Response) models.ErrorResponse {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// ── ceremonies over HTTP ────────────────────────────────────────────────────

func TestHandler_RegisterAndAuthenticateOverHTTP(t *testing.T) {
	ctx := context.Background()
	srv, _ := newTestHandler(t, config.Server{})
	c, v := remoteClient(t, srv, accessToken(t, "u1"))

	cred, err := c.RegisterCredential(ctx, "u1", "Laptop", "u1@example.com", models.PlatformAuthenticator)
	require.NoError(t, err)
	assert.Equal(t, "u1", cred.UserID)

	result, err := c.Authenticate(ctx, "u1@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", result.UserID)
	assert.Equal(t, cred.CredentialID, result.CredentialID)

	creds, err := v.ListCredentials(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, creds, 1)

	require.NoError(t, v.DeleteCredential(ctx, "u1", cred.CredentialID))
	_, err = c.Authenticate(ctx, "u1@example.com")
	assert.ErrorIs(t, err, credential.ErrCredentialNotFound)
}

func TestHandler_ReplayedAssertionIsRejected(t *testing.T) {
	ctx := context.Background()
	srv, svc := newTestHandler(t, config.Server{})
	a := credential.NewSoftwareAuthenticator(models.PlatformAuthenticator)

	_, err := credential.NewClient(svc, a, time.Second, logger.Nop()).
		RegisterCredential(ctx, "u1", "Laptop", "u1@example.com", models.PlatformAuthenticator)
	require.NoError(t, err)

	_, v := remoteClient(t, srv, "")
	opts, err := v.BeginAuthentication(ctx, "u1@example.com")
	require.NoError(t, err)
	assertion, err := a.Get(ctx, opts)
	require.NoError(t, err)

	_, err = v.FinishAuthentication(ctx, assertion)
	require.NoError(t, err)

	_, err = v.FinishAuthentication(ctx, assertion)
	assert.ErrorIs(t, err, credential.ErrChallengeExpiredOrConsumed)
}

func TestHandler_CloneDetectedOverHTTP(t *testing.T) {
	ctx := context.Background()
	srv, svc := newTestHandler(t, config.Server{})
	a := credential.NewSoftwareAuthenticator(models.PlatformAuthenticator)

	_, err := credential.NewClient(svc, a, time.Second, logger.Nop()).
		RegisterCredential(ctx, "u1", "Laptop", "u1@example.com", models.PlatformAuthenticator)
	require.NoError(t, err)
	clone := a.Clone()

	_, v := remoteClient(t, srv, "")
	remote := credential.NewClient(v, a, time.Second, logger.Nop())
	_, err = remote.Authenticate(ctx, "u1@example.com")
	require.NoError(t, err)

	_, err = credential.NewClient(v, clone, time.Second, logger.Nop()).Authenticate(ctx, "u1@example.com")
	assert.ErrorIs(t, err, credential.ErrPossibleCloneDetected)
}

// ── authorization ───────────────────────────────────────────────────────────

func TestHandler_RegistrationRequiresToken(t *testing.T) {
	srv, _ := newTestHandler(t, config.Server{})
	body := `{"user_id":"u1","subject":"u1@example.com","kind":"platform"}`

	tests := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"missing", "", http.StatusUnauthorized, models.CodeUnauthorized},
		{"malformed", "Token abc", http.StatusUnauthorized, models.CodeUnauthorized},
		{"bad signature", "Bearer eyJhbGciOiJIUzI1NiJ9.e30.c2ln", http.StatusUnauthorized, models.CodeUnauthorized},
		{"other user", "Bearer " + accessToken(t, "u2"), http.StatusForbidden, models.CodeForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/credentials/register/begin", strings.NewReader(body))
			require.NoError(t, err)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, decodeError(t, resp).Code)
		})
	}
}

func TestHandler_FinishRegistrationForAnotherUser(t *testing.T) {
	ctx := context.Background()
	srv, _ := newTestHandler(t, config.Server{})
	a := credential.NewSoftwareAuthenticator(models.PlatformAuthenticator)

	_, alice := remoteClient(t, srv, accessToken(t, "alice"))
	opts, err := alice.BeginRegistration(ctx, models.RegistrationRequest{
		UserID: "alice", Subject: "alice@example.com", Kind: models.PlatformAuthenticator,
	})
	require.NoError(t, err)
	resp, err := a.Create(ctx, opts)
	require.NoError(t, err)

	_, mallory := remoteClient(t, srv, accessToken(t, "mallory"))
	_, err = mallory.FinishRegistration(ctx, resp)
	assert.ErrorIs(t, err, credential.ErrVerificationFailed)
}

func TestHandler_ListOtherUsersCredentials(t *testing.T) {
	srv, _ := newTestHandler(t, config.Server{})
	_, v := remoteClient(t, srv, accessToken(t, "u2"))

	_, err := v.ListCredentials(context.Background(), "u1")
	assert.ErrorIs(t, err, adapter.ErrForbidden)
}

func TestHandler_AuthenticationIsOpen(t *testing.T) {
	srv, _ := newTestHandler(t, config.Server{})

	resp, err := http.Post(srv.URL+"/api/credentials/authenticate/begin", "application/json",
		strings.NewReader(`{"subject":"nobody@example.com"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, models.CodeCredentialNotFound, decodeError(t, resp).Code)
}

// ── request validation ──────────────────────────────────────────────────────

func TestHandler_InvalidRequests(t *testing.T) {
	srv, _ := newTestHandler(t, config.Server{})

	tests := []struct {
		name string
		path string
		body string
	}{
		{"broken json", "/api/credentials/authenticate/begin", `{"subject":`},
		{"empty subject", "/api/credentials/authenticate/begin", `{"subject":""}`},
		{"empty assertion", "/api/credentials/authenticate/finish", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+tt.path, "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, models.CodeInvalidRequest, decodeError(t, resp).Code)
		})
	}
}

func TestStatusFromError(t *testing.T) {
	assert.Equal(t, http.StatusGone, statusFromError(credential.ErrChallengeExpiredOrConsumed).status)
	assert.Equal(t, http.StatusForbidden, statusFromError(credential.ErrPossibleCloneDetected).status)
	assert.Equal(t, http.StatusConflict, statusFromError(credential.ErrAlreadyRegistered).status)
	assert.Equal(t, http.StatusInternalServerError, statusFromError(io.ErrUnexpectedEOF).status)
	assert.Equal(t, models.CodeInternal, statusFromError(io.ErrUnexpectedEOF).code)
}

// ── middleware ──────────────────────────────────────────────────────────────

func TestHandler_RateLimit(t *testing.T) {
	srv, _ := newTestHandler(t, config.Server{CeremonyRate: 0.001, CeremonyBurst: 2, TrustedProxies: []string{"127.0.0.1", "::1"}})

	post := func(ip string) *http.Response {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/credentials/authenticate/begin",
			strings.NewReader(`{"subject":"u1@example.com"}`))
		require.NoError(t, err)
		req.Header.Set("X-Forwarded-For", ip)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return resp
	}

	for range 2 {
		resp := post("203.0.113.7")
		resp.Body.Close()
		assert.NotEqual(t, http.StatusTooManyRequests, resp.StatusCode)
	}

	resp := post("203.0.113.7")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
	assert.Equal(t, models.CodeRateLimited, decodeError(t, resp).Code)

	other := post("198.51.100.1")
	other.Body.Close()
	assert.NotEqual(t, http.StatusTooManyRequests, other.StatusCode)
}

func TestClientIP(t *testing.T) {
	proxies, invalid := parseTrustedProxies([]string{"10.0.0.0/8", "192.0.2.254", "not-an-ip"})
	require.Equal(t, []string{"not-an-ip"}, invalid)

	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{name: "peer only", remoteAddr: "198.51.100.9:5555", want: "198.51.100.9"},
		{name: "untrusted peer ignores xff", remoteAddr: "198.51.100.9:5555", xff: "203.0.113.7", want: "198.51.100.9"},
		{name: "untrusted peer ignores x-real-ip", remoteAddr: "198.51.100.9:5555", xri: "203.0.113.7", want: "198.51.100.9"},
		{name: "trusted peer uses xff", remoteAddr: "10.1.2.3:443", xff: "203.0.113.7", want: "203.0.113.7"},
		{name: "trusted hops are skipped", remoteAddr: "10.1.2.3:443", xff: "203.0.113.7, 192.0.2.254, 10.9.9.9", want: "203.0.113.7"},
		{name: "spoofed leftmost hop is not trusted", remoteAddr: "10.1.2.3:443", xff: "1.1.1.1, 203.0.113.7", want: "203.0.113.7"},
		{name: "trusted peer uses x-real-ip", remoteAddr: "192.0.2.254:80", xri: "203.0.113.8", want: "203.0.113.8"},
		{name: "trusted peer without headers", remoteAddr: "192.0.2.254:80", want: "192.0.2.254"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			assert.Equal(t, tt.want, proxies.clientIP(r))
		})
	}
}

func TestHandler_RateLimit_IgnoresForwardedForWithoutTrustedProxy(t *testing.T) {
	srv, _ := newTestHandler(t, config.Server{CeremonyRate: 0.001, CeremonyBurst: 1})

	post := func(ip string) *http.Response {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/credentials/authenticate/begin",
			strings.NewReader(`{"subject":"u1@example.com"}`))
		require.NoError(t, err)
		req.Header.Set("X-Forwarded-For", ip)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return resp
	}

	first := post("203.0.113.7")
	first.Body.Close()
	assert.NotEqual(t, http.StatusTooManyRequests, first.StatusCode)

	// A fresh header value does not buy a fresh bucket.
	rotated := post("198.51.100.1")
	defer rotated.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, rotated.StatusCode)
}

func TestHandler_TraceID(t *testing.T) {
	srv, _ := newTestHandler(t, config.Server{})

	resp, err := http.Get(srv.URL + "/api/version")
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get(traceIDHeader))

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/version", nil)
	require.NoError(t, err)
	req.Header.Set(traceIDHeader, "trace-42")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "trace-42", resp.Header.Get(traceIDHeader))
}

func TestAcceptTraceID(t *testing.T) {
	assert.True(t, acceptTraceID("0f8fad5b-d9cb-469f-a165-70867728950e"))
	assert.False(t, acceptTraceID(""))
	assert.False(t, acceptTraceID("two words"))
	assert.False(t, acceptTraceID(strings.Repeat("a", maxTraceIDLength+1)))
}

func TestHandler_Version(t *testing.T) {
	srv, _ := newTestHandler(t, config.Server{})
	_, v := remoteClient(t, srv, "")

	info, err := v.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.4.0", info.Version)
	assert.Equal(t, "abc123", info.Commit)
}

func TestHandler_GZip(t *testing.T) {
	srv, _ := newTestHandler(t, config.Server{})

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write([]byte(`{"subject":"nobody@example.com"}`))
	require.NoError(t, zw.Close())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/credentials/authenticate/begin", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Encoding", "gzip")
	req.Header.Set("Accept-Encoding", "gzip")

	// a transport that does not decompress transparently
	resp, err := (&http.Transport{DisableCompression: true}).RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))

	zr, err := gzip.NewReader(resp.Body)
	require.NoError(t, err)
	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(zr).Decode(&body))
	assert.Equal(t, models.CodeCredentialNotFound, body.Code)
}
