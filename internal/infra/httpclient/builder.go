package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/sihhealth/healthbot/internal/domain"
)

// HeaderRequestID is set on every outbound request.
const HeaderRequestID = "X-Request-ID"

// BuildRequest builds an HTTP request for a portal call. headers are applied
// after req.Headers and win on conflict.
func BuildRequest(ctx context.Context, baseURL string, req domain.Request, headers domain.Headers) (*http.Request, error) {
	target, err := JoinURL(baseURL, req.Path)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidConfig,
			Err:  err,
		}
	}

	method := string(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	bodyReader := bytes.NewReader(nil)
	contentType := ""
	if req.JSON != nil {
		payload, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, &domain.OpError{
				Op:   "httpclient.build",
				Kind: domain.KindInvalidConfig,
				Err:  err,
			}
		}
		bodyReader = bytes.NewReader(payload)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidConfig,
			Err:  err,
		}
	}

	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}
	if httpReq.Header.Get(HeaderRequestID) == "" {
		httpReq.Header.Set(HeaderRequestID, uuid.NewString())
	}

	return httpReq, nil
}

// JoinURL appends path to base, keeping the base path prefix
// ("http://h/api" + "/token/" -> "http://h/api/token/").
func JoinURL(base, path string) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return "", domain.ErrInvalidConfig
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", &url.Error{Op: "parse", URL: base, Err: domain.ErrInvalidConfig}
	}
	if path == "" {
		return u.String(), nil
	}

	rel, err := url.Parse(path)
	if err != nil {
		return "", err
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimPrefix(rel.Path, "/")
	if rel.RawQuery != "" {
		u.RawQuery = rel.RawQuery
	}
	return u.String(), nil
}
