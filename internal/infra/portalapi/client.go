// Package portalapi is a typed client for the health portal's REST API.
package portalapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sihhealth/healthbot/internal/domain"
	"github.com/sihhealth/healthbot/internal/infra/httpclient"
	"github.com/sihhealth/healthbot/internal/ports"
)

// Endpoint paths, relative to the configured base URL.
const (
	PathToken    = "/token/"
	PathRefresh  = "/token/refresh/"
	PathRegister = "/register/"
	PathProfile  = "/profile/"
	PathChat     = "/chat/"
	PathHealth   = "/health/"
	PathInfo     = "/"
)

type Client struct {
	baseURL string
	exec    *httpclient.Executor
	log     *slog.Logger
}

type Option func(*Client)

func WithExecutor(exec *httpclient.Executor) Option {
	return func(c *Client) { c.exec = exec }
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSpace(baseURL),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.exec == nil {
		c.exec = httpclient.NewExecutor()
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	return c
}

var (
	_ ports.AuthAPI = (*Client)(nil)
	_ ports.Doer    = (*Client)(nil)
)

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string { return c.baseURL }

// Do builds and executes req. Non-2xx statuses are returned as data.
func (c *Client) Do(ctx context.Context, req domain.Request, headers domain.Headers) (domain.Response, error) {
	httpReq, err := httpclient.BuildRequest(ctx, c.baseURL, req, headers)
	if err != nil {
		return domain.Response{}, err
	}
	return c.exec.Do(ctx, httpReq)
}

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// ObtainToken exchanges credentials for an access/refresh pair.
func (c *Client) ObtainToken(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	resp, err := c.Do(ctx, domain.Request{
		Name:   "token",
		Method: domain.MethodPost,
		Path:   PathToken,
		JSON:   creds,
	}, nil)
	if err != nil {
		return domain.Session{}, err
	}
	return c.decodePair(resp, "portalapi.token", "Login failed")
}

// Register creates an account and returns its first token pair.
func (c *Client) Register(ctx context.Context, reg domain.Registration) (domain.Session, error) {
	resp, err := c.Do(ctx, domain.Request{
		Name:   "register",
		Method: domain.MethodPost,
		Path:   PathRegister,
		JSON:   reg,
	}, nil)
	if err != nil {
		return domain.Session{}, err
	}
	return c.decodePair(resp, "portalapi.register", "Registration failed")
}

// RefreshToken trades a refresh token for a new access token. The returned
// Session carries a RefreshToken only when the server rotated it.
func (c *Client) RefreshToken(ctx context.Context, refresh string) (domain.Session, error) {
	resp, err := c.Do(ctx, domain.Request{
		Name:   "refresh",
		Method: domain.MethodPost,
		Path:   PathRefresh,
		JSON:   map[string]string{"refresh": refresh},
	}, nil)
	if err != nil {
		return domain.Session{}, err
	}
	if !resp.OK() {
		return domain.Session{}, authFailure(resp, "Session expired")
	}

	var pair tokenPair
	if err := json.Unmarshal(resp.Body, &pair); err != nil || pair.Access == "" {
		return domain.Session{}, &domain.AuthError{
			Status:  resp.StatusCode,
			Message: "refresh response carried no access token",
			Err:     err,
		}
	}
	return domain.Session{AccessToken: pair.Access, RefreshToken: pair.Refresh}, nil
}

func (c *Client) decodePair(resp domain.Response, op, fallback string) (domain.Session, error) {
	if !resp.OK() {
		c.log.Info(op+".rejected", "status", resp.StatusCode)
		return domain.Session{}, authFailure(resp, fallback)
	}

	var pair tokenPair
	if err := json.Unmarshal(resp.Body, &pair); err != nil {
		return domain.Session{}, &domain.AuthError{Status: resp.StatusCode, Message: fallback, Err: err}
	}
	s := domain.Session{AccessToken: pair.Access, RefreshToken: pair.Refresh}
	if !s.Valid() {
		return domain.Session{}, &domain.AuthError{
			Status:  resp.StatusCode,
			Message: "server response did not include both tokens",
		}
	}
	return s, nil
}

// Health probes the service health endpoint.
func (c *Client) Health(ctx context.Context) (domain.ServiceInfo, error) {
	return c.serviceInfo(ctx, "health", PathHealth)
}

// Info reads the API root descriptor.
func (c *Client) Info(ctx context.Context) (domain.ServiceInfo, error) {
	return c.serviceInfo(ctx, "info", PathInfo)
}

func (c *Client) serviceInfo(ctx context.Context, name, path string) (domain.ServiceInfo, error) {
	resp, err := c.Do(ctx, domain.Request{Name: name, Method: domain.MethodGet, Path: path}, nil)
	if err != nil {
		return domain.ServiceInfo{}, err
	}
	if !resp.OK() {
		return domain.ServiceInfo{}, &domain.OpError{
			Op:   "portalapi." + name,
			Kind: domain.KindExecution,
			Err:  statusError(resp),
		}
	}
	var info domain.ServiceInfo
	if err := json.Unmarshal(resp.Body, &info); err != nil {
		return domain.ServiceInfo{}, &domain.OpError{Op: "portalapi." + name, Kind: domain.KindExecution, Err: err}
	}
	return info, nil
}

// ProfileRequest is the protected profile call; run it through the session manager.
func ProfileRequest() domain.Request {
	return domain.Request{Name: "profile", Method: domain.MethodGet, Path: PathProfile}
}

// ChatRequest builds the chat call for message in lang.
func ChatRequest(message string, lang domain.Language) domain.Request {
	return domain.Request{
		Name:   "chat",
		Method: domain.MethodPost,
		Path:   PathChat,
		JSON: map[string]string{
			"message":  message,
			"language": string(lang),
		},
	}
}

// DecodeProfile maps a profile response. 401 is an *domain.AuthError.
func DecodeProfile(resp domain.Response) (domain.Profile, error) {
	if resp.Unauthorized() {
		return domain.Profile{}, authFailure(resp, "Unauthorized")
	}
	if !resp.OK() {
		return domain.Profile{}, &domain.OpError{Op: "portalapi.profile", Kind: domain.KindExecution, Err: statusError(resp)}
	}

	var p domain.Profile
	if err := json.Unmarshal(resp.Body, &p); err != nil {
		return domain.Profile{}, &domain.OpError{Op: "portalapi.profile", Kind: domain.KindExecution, Err: err}
	}
	var raw map[string]any
	if err := json.Unmarshal(resp.Body, &raw); err == nil {
		delete(raw, "username")
		delete(raw, "email")
		delete(raw, "message")
		if len(raw) > 0 {
			p.Extra = raw
		}
	}
	return p, nil
}

// DecodeChat maps a chat response.
func DecodeChat(resp domain.Response) (domain.ChatReply, error) {
	if resp.Unauthorized() {
		return domain.ChatReply{}, authFailure(resp, "Unauthorized")
	}
	if !resp.OK() {
		return domain.ChatReply{}, &domain.OpError{Op: "portalapi.chat", Kind: domain.KindExecution, Err: statusError(resp)}
	}
	bot, ok := StringField(resp.Body, "$.bot")
	if !ok {
		return domain.ChatReply{}, &domain.OpError{
			Op:   "portalapi.chat",
			Kind: domain.KindExecution,
			Err:  fmt.Errorf("response has no bot reply"),
		}
	}
	user, _ := StringField(resp.Body, "$.user")
	return domain.ChatReply{Bot: bot, User: user}, nil
}

func authFailure(resp domain.Response, fallback string) *domain.AuthError {
	msg := ErrorMessage(resp.Body)
	if msg == "" {
		msg = fallback
	}
	return &domain.AuthError{Status: resp.StatusCode, Message: msg}
}

func statusError(resp domain.Response) error {
	msg := ErrorMessage(resp.Body)
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return fmt.Errorf("status %d: %s", resp.StatusCode, msg)
}
