package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/config"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/utils"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

// HTTPVerifier is a credential verifier reached over HTTP.
type HTTPVerifier struct {
	client *utils.HTTPClient
	tokens TokenSource
	logger *logger.Logger
}

// Option configures an [HTTPVerifier].
type Option func(*HTTPVerifier)

// WithTokenSource sets where bearer tokens for authenticated endpoints come
// from, usually the session manager's current access token.
func WithTokenSource(src TokenSource) Option {
	return func(h *HTTPVerifier) {
		h.tokens = src
	}
}

// NewHTTPVerifier normalises cfg.HTTPAddress into a base URL and configures
// the client with cfg.RequestTimeout.
func NewHTTPVerifier(cfg config.Adapter, log *logger.Logger, opts ...Option) (*HTTPVerifier, error) {
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	h := &HTTPVerifier{
		client: utils.NewHTTPClient(baseURL, cfg.RequestTimeout),
		tokens: func() string { return "" },
		logger: log,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrNoAddress
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *HTTPVerifier) request(ctx context.Context, authenticated bool) (*resty.Request, error) {
	req := h.client.R().SetContext(ctx)
	if authenticated {
		token := h.tokens()
		if token == "" {
			return nil, ErrUnauthorized
		}
		req.SetAuthToken(token)
	}
	return req, nil
}

func (h *HTTPVerifier) do(ctx context.Context, method, path string, authenticated bool, body, result any) error {
	req, err := h.request(ctx, authenticated)
	if err != nil {
		return err
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if result != nil {
		req.SetResult(result).ForceContentType("application/json")
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		h.logger.Debug().Err(err).Str("method", method).Str("path", path).Msg("verifier request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	return mapHTTPError(resp)
}

// BeginRegistration calls POST /api/credentials/register/begin.
func (h *HTTPVerifier) BeginRegistration(ctx context.Context, req models.RegistrationRequest) (models.CeremonyOptions, error) {
	var opts models.CeremonyOptions
	if err := h.do(ctx, http.MethodPost, "/api/credentials/register/begin", true, req, &opts); err != nil {
		return models.CeremonyOptions{}, err
	}
	return opts, nil
}

// FinishRegistration calls POST /api/credentials/register/finish.
func (h *HTTPVerifier) FinishRegistration(ctx context.Context, resp models.AttestationResponse) (models.Credential, error) {
	var cred models.Credential
	if err := h.do(ctx, http.MethodPost, "/api/credentials/register/finish", true, resp, &cred); err != nil {
		return models.Credential{}, err
	}
	return cred, nil
}

// BeginAuthentication calls POST /api/credentials/authenticate/begin.
func (h *HTTPVerifier) BeginAuthentication(ctx context.Context, subject string) (models.CeremonyOptions, error) {
	var opts models.CeremonyOptions
	body := models.AuthenticationBeginRequest{Subject: subject}
	if err := h.do(ctx, http.MethodPost, "/api/credentials/authenticate/begin", false, body, &opts); err != nil {
		return models.CeremonyOptions{}, err
	}
	return opts, nil
}

// FinishAuthentication calls POST /api/credentials/authenticate/finish.
func (h *HTTPVerifier) FinishAuthentication(ctx context.Context, resp models.AssertionResponse) (models.AuthenticationResult, error) {
	var result models.AuthenticationResult
	if err := h.do(ctx, http.MethodPost, "/api/credentials/authenticate/finish", false, resp, &result); err != nil {
		return models.AuthenticationResult{}, err
	}
	return result, nil
}

// ListCredentials calls GET /api/credentials.
func (h *HTTPVerifier) ListCredentials(ctx context.Context, userID string) ([]models.Credential, error) {
	req, err := h.request(ctx, true)
	if err != nil {
		return nil, err
	}

	var creds []models.Credential
	resp, err := req.
		SetQueryParam("user_id", userID).
		SetResult(&creds).
		ForceContentType("application/json").
		Get("/api/credentials")
	if err != nil {
		return nil, fmt.Errorf("list credentials request: %w", err)
	}
	if err := mapHTTPError(resp); err != nil {
		return nil, err
	}
	return creds, nil
}

// DeleteCredential calls DELETE /api/credentials/{credentialID}.
func (h *HTTPVerifier) DeleteCredential(ctx context.Context, userID, credentialID string) error {
	req, err := h.request(ctx, true)
	if err != nil {
		return err
	}

	resp, err := req.
		SetPathParam("credentialID", credentialID).
		SetQueryParam("user_id", userID).
		Delete("/api/credentials/{credentialID}")
	if err != nil {
		return fmt.Errorf("delete credential request: %w", err)
	}
	return mapHTTPError(resp)
}

// Version calls GET /api/version.
func (h *HTTPVerifier) Version(ctx context.Context) (models.VersionInfo, error) {
	var info models.VersionInfo
	if err := h.do(ctx, http.MethodGet, "/api/version", false, nil, &info); err != nil {
		return models.VersionInfo{}, err
	}
	return info, nil
}
