package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/svthalia/concrexit-sub001/internal/config"
	"github.com/svthalia/concrexit-sub001/internal/logger"
	"github.com/svthalia/concrexit-sub001/internal/utils"
	"github.com/svthalia/concrexit-sub001/models"
)

type httpRemoteClient struct {
	client *utils.HTTPClient

	apiBase  string
	webBase  string
	tenantID string

	logger *logger.Logger
}

// NewHTTPRemoteClient constructs the resty-backed implementation of
// [RemoteClient]. It normalises cfg.APIBase and cfg.WebBase, sets the bearer
// token and the request timeout on the underlying client.
//
// Returns an error if the API base is empty or not an absolute URL, or if the
// tenant id is empty.
func NewHTTPRemoteClient(cfg config.Remote, logger *logger.Logger) (RemoteClient, error) {
	apiBase, err := normalizeBaseURL(cfg.APIBase)
	if err != nil {
		return nil, fmt.Errorf("invalid remote api base: %w", err)
	}
	webBase := apiBase
	if cfg.WebBase != "" {
		if webBase, err = normalizeBaseURL(cfg.WebBase); err != nil {
			return nil, fmt.Errorf("invalid remote web base: %w", err)
		}
	}
	if strings.TrimSpace(cfg.TenantID) == "" {
		return nil, fmt.Errorf("empty tenant id")
	}

	client := utils.NewHTTPClient().
		WithBearerToken(cfg.Token).
		WithTimeout(cfg.RequestTimeout)
	client.SetHeader("Accept", "application/json")

	return &httpRemoteClient{
		client:   client,
		apiBase:  apiBase,
		webBase:  webBase,
		tenantID: strings.TrimSpace(cfg.TenantID),
		logger:   logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
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

// Get implements [RemoteClient].
func (c *httpRemoteClient) Get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, params, nil)
}

// Post implements [RemoteClient].
func (c *httpRemoteClient) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

// Patch implements [RemoteClient].
func (c *httpRemoteClient) Patch(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPatch, path, nil, body)
}

// Delete implements [RemoteClient]. The response body is discarded.
func (c *httpRemoteClient) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// PublicURL implements [RemoteClient].
func (c *httpRemoteClient) PublicURL(path string, id models.RemoteID) string {
	return fmt.Sprintf("%s/%s/%s/%s", c.webBase, c.tenantID, strings.Trim(path, "/"), id)
}

func (c *httpRemoteClient) endpoint(path string) (string, error) {
	if strings.HasPrefix(path, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return fmt.Sprintf("%s/%s/%s.json", c.apiBase, c.tenantID, path), nil
}

func (c *httpRemoteClient) do(ctx context.Context, method, path string, params url.Values, body any) (json.RawMessage, error) {
	endpoint, err := c.endpoint(path)
	if err != nil {
		return nil, err
	}

	req := c.client.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParamsFromValues(params)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, endpoint)
	if err != nil {
		return nil, fmt.Errorf("%s %s request: %w", method, path, err)
	}

	c.logger.Debug().
		Str("func", "httpRemoteClient.do").
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode()).
		Dur("duration", resp.Time()).
		Msg("remote request finished")

	return parseResponse(resp)
}

func parseResponse(resp *resty.Response) (json.RawMessage, error) {
	switch resp.StatusCode() {
	case http.StatusOK, http.StatusCreated:
		body := bytes.TrimSpace(resp.Body())
		if isEmptyBody(body) {
			return nil, nil
		}
		if !json.Valid(body) {
			return nil, fmt.Errorf("%w: %d bytes", ErrMalformedResponse, len(body))
		}
		return json.RawMessage(body), nil
	case http.StatusNoContent:
		return nil, nil
	default:
		return nil, mapHTTPError(resp)
	}
}

// isEmptyBody also matches the bare "200" some endpoints answer with.
func isEmptyBody(body []byte) bool {
	switch string(body) {
	case "", "200", `"200"`, "null":
		return true
	}
	return false
}
