package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sihhealth/healthbot/internal/domain"
	"github.com/sihhealth/healthbot/internal/ports"
)

const (
	headerAuthorization = "Authorization"
	bearerPrefix        = "Bearer "
	refreshKey          = "refresh"

	defaultExpirySkew = 10 * time.Second

	msgSessionExpired = "Session expired, please log in again"
)

func errSessionChanged() error {
	return &domain.AuthError{Message: "session changed during refresh", Err: domain.ErrNoSession}
}

// Manager gates protected portal calls behind the current session.
// It is safe for concurrent use.
type Manager struct {
	api   ports.AuthAPI
	doer  ports.Doer
	store ports.TokenStore

	log        *slog.Logger
	now        func() time.Time
	expirySkew time.Duration
	proactive  bool

	mu      sync.RWMutex
	session domain.Session

	refreshes singleflight.Group
}

type Option func(*Manager)

func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithProactiveRefresh refreshes before sending when the access token's exp
// claim is within skew of now. It counts as the call's one refresh.
func WithProactiveRefresh(enabled bool, skew time.Duration) Option {
	return func(m *Manager) {
		m.proactive = enabled
		m.expirySkew = skew
	}
}

func New(api ports.AuthAPI, doer ports.Doer, store ports.TokenStore, opts ...Option) *Manager {
	m := &Manager{
		api:        api,
		doer:       doer,
		store:      store,
		now:        time.Now,
		expirySkew: defaultExpirySkew,
		proactive:  true,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return m
}

var _ ports.SessionManager = (*Manager)(nil)

// Restore loads the persisted session. A half-written pair is discarded.
func (m *Manager) Restore() error {
	if m.store == nil {
		return nil
	}
	s, err := m.store.Load()
	if err != nil {
		m.log.Warn("session.restore.failed", "err", err)
		return err
	}

	if !s.Valid() {
		if s.AccessToken != "" || s.RefreshToken != "" {
			m.log.Warn("session.restore.partial", "has_access", s.AccessToken != "", "has_refresh", s.RefreshToken != "")
			_ = m.store.Clear()
		}
		m.set(domain.Session{})
		return nil
	}

	m.set(s)
	m.log.Info("session.restored")
	return nil
}

// State reports whether a session is held.
func (m *Manager) State() domain.SessionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session.AccessToken == "" {
		return domain.StateAnonymous
	}
	return domain.StateAuthenticated
}

// Claims decodes the current access token. ok is false when anonymous or
// when the token is opaque.
func (m *Manager) Claims() (domain.TokenClaims, bool) {
	m.mu.RLock()
	access := m.session.AccessToken
	m.mu.RUnlock()

	c, err := ParseClaims(access)
	if err != nil {
		return domain.TokenClaims{}, false
	}
	return c, true
}

// AttachAuthHeader returns the bearer header for the current access token,
// or an empty map when anonymous.
func (m *Manager) AttachAuthHeader() map[string]string {
	m.mu.RLock()
	access := m.session.AccessToken
	m.mu.RUnlock()
	return authHeader(access)
}

func authHeader(access string) map[string]string {
	if access == "" {
		return map[string]string{}
	}
	return map[string]string{headerAuthorization: bearerPrefix + access}
}

// Login exchanges credentials for a session. On any failure the current
// session is left untouched.
func (m *Manager) Login(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	s, err := m.api.ObtainToken(ctx, creds)
	if err != nil {
		m.log.Info("session.login.failed", "username", creds.Username, "err", err)
		return domain.Session{}, err
	}
	if err := m.establish(s); err != nil {
		return domain.Session{}, err
	}
	m.log.Info("session.login.ok", "username", creds.Username)
	return s, nil
}

// Register creates an account and starts a session for it.
func (m *Manager) Register(ctx context.Context, reg domain.Registration) (domain.Session, error) {
	s, err := m.api.Register(ctx, reg)
	if err != nil {
		m.log.Info("session.register.failed", "username", reg.Username, "err", err)
		return domain.Session{}, err
	}
	if err := m.establish(s); err != nil {
		return domain.Session{}, err
	}
	m.log.Info("session.register.ok", "username", reg.Username)
	return s, nil
}

// establish persists then installs s, so a failed write never leaves a
// session in memory that the next process would not see.
func (m *Manager) establish(s domain.Session) error {
	if !s.Valid() {
		return &domain.AuthError{Message: "server response did not include both tokens"}
	}
	if m.store != nil {
		if err := m.store.Save(s); err != nil {
			m.log.Error("session.persist.failed", "err", err)
			return err
		}
	}
	m.set(s)
	return nil
}

// Logout clears both tokens. Calling it while anonymous is a no-op apart from
// clearing the store again. Memory is cleared first, so the process is logged
// out even when the store cannot be cleared; that error is returned and the
// next Restore will still see the old tokens until a later Logout succeeds.
func (m *Manager) Logout() error {
	m.set(domain.Session{})
	if m.store == nil {
		return nil
	}
	if err := m.store.Clear(); err != nil {
		m.log.Warn("session.logout.clear_failed", "err", err)
		return err
	}
	m.log.Info("session.logout")
	return nil
}

// Do sends req with the current bearer header. A 401 triggers one refresh
// and one retry. Any refresh failure, rejected or unreachable, logs the
// session out and returns *domain.AuthError. Transport failures of req itself
// are returned as-is and never touch the session. Any other status, including
// a 401 on the retry, is returned as data.
func (m *Manager) Do(ctx context.Context, req domain.Request) (domain.Response, error) {
	access := m.accessToken()
	refreshed := false

	if m.proactive && access != "" && m.expiresSoon(access) {
		next, err := m.refresh(ctx, access)
		if err != nil {
			return domain.Response{}, err
		}
		m.log.Debug("session.refresh.proactive", "request", req.Name)
		access = next
		refreshed = true
	}

	resp, err := m.doer.Do(ctx, req, authHeader(access))
	if err != nil {
		return resp, err
	}
	if !resp.Unauthorized() || refreshed {
		return resp, nil
	}

	m.log.Info("session.unauthorized", "request", req.Name, "had_token", access != "")

	next, err := m.refresh(ctx, access)
	if err != nil {
		return domain.Response{}, err
	}
	return m.doer.Do(ctx, req, authHeader(next))
}

// Refresh forces an access-token refresh.
func (m *Manager) Refresh(ctx context.Context) error {
	_, err := m.refresh(ctx, m.accessToken())
	return err
}

// refresh returns a usable access token replacing stale. If another caller
// already replaced stale, its token is returned without a new round trip.
// The round trip is detached from ctx cancellation because its result is
// shared by every coalesced caller; the executor timeout still bounds it.
func (m *Manager) refresh(ctx context.Context, stale string) (string, error) {
	v, err, shared := m.refreshes.Do(refreshKey, func() (any, error) {
		m.mu.RLock()
		cur := m.session
		m.mu.RUnlock()

		if cur.AccessToken != "" && cur.AccessToken != stale {
			return cur.AccessToken, nil
		}
		if cur.RefreshToken == "" {
			m.clearIf(cur.RefreshToken, "no_refresh_token")
			return nil, &domain.AuthError{Status: 401, Message: msgSessionExpired, Err: domain.ErrNoSession}
		}

		next, err := m.api.RefreshToken(context.WithoutCancel(ctx), cur.RefreshToken)
		if err != nil {
			reason := "refresh_rejected"
			if domain.IsKind(err, domain.KindTransport) {
				reason = "refresh_unreachable"
			}
			if !m.clearIf(cur.RefreshToken, reason) {
				return nil, errSessionChanged()
			}
			var ae *domain.AuthError
			if errors.As(err, &ae) {
				return nil, ae
			}
			return nil, &domain.AuthError{Message: msgSessionExpired, Err: err}
		}

		m.mu.Lock()
		if m.session.RefreshToken != cur.RefreshToken {
			// Logged out or replaced by a new login while the call was in flight.
			m.mu.Unlock()
			return nil, errSessionChanged()
		}
		m.session.AccessToken = next.AccessToken
		if next.RefreshToken != "" {
			m.session.RefreshToken = next.RefreshToken
		}
		updated := m.session
		m.mu.Unlock()

		if m.store != nil {
			if err := m.store.Save(updated); err != nil {
				m.log.Warn("session.persist.failed", "err", err)
			}
		}
		m.log.Info("session.refresh.ok", "rotated", next.RefreshToken != "")
		return next.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	if shared {
		m.log.Debug("session.refresh.shared")
	}
	return v.(string), nil
}

func (m *Manager) expiresSoon(access string) bool {
	c, err := ParseClaims(access)
	if err != nil {
		return false
	}
	return c.Expired(m.now().Add(m.expirySkew))
}

func (m *Manager) accessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.AccessToken
}

func (m *Manager) set(s domain.Session) {
	m.mu.Lock()
	m.session = s
	m.mu.Unlock()
}

// clearIf logs out only while the session still holds refresh, so a login
// that lands during a failing refresh survives it.
func (m *Manager) clearIf(refresh, reason string) bool {
	m.mu.Lock()
	if m.session.RefreshToken != refresh {
		m.mu.Unlock()
		m.log.Info("session.clear.skipped", "reason", reason)
		return false
	}
	m.session = domain.Session{}
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.Clear(); err != nil {
			m.log.Warn("session.clear.failed", "reason", reason, "err", err)
		}
	}
	m.log.Info("session.cleared", "reason", reason)
	return true
}
