package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	jwt "github.com/dgrijalva/jwt-go"

	"github.com/sihhealth/healthbot/internal/domain"
	"github.com/sihhealth/healthbot/internal/infra/portalapi"
	"github.com/sihhealth/healthbot/internal/infra/tokenstore"
	"github.com/sihhealth/healthbot/internal/portaltest"
)

type harness struct {
	srv   *portaltest.Server
	api   *portalapi.Client
	store *tokenstore.MemoryStore
	mgr   *Manager
}

func newHarness(t *testing.T, initial domain.Session) *harness {
	t.Helper()

	srv := portaltest.New()
	t.Cleanup(srv.Close)
	srv.AddUser("a", "good", "a@example.com")

	api := portalapi.New(srv.URL())
	store := tokenstore.NewMemoryStore(initial)
	mgr := New(api, api, store)
	if err := mgr.Restore(); err != nil {
		t.Fatalf("Restore error: %v", err)
	}
	return &harness{srv: srv, api: api, store: store, mgr: mgr}
}

func TestAttachAuthHeader_AnonymousIsEmpty(t *testing.T) {
	h := newHarness(t, domain.Session{})

	got := h.mgr.AttachAuthHeader()
	if got == nil {
		t.Fatalf("expected non-nil map")
	}
	if len(got) != 0 {
		t.Fatalf("expected empty header map, got %v", got)
	}
	if h.mgr.State() != domain.StateAnonymous {
		t.Fatalf("expected anonymous, got %s", h.mgr.State())
	}
}

func TestAttachAuthHeader_AuthenticatedHasOneBearer(t *testing.T) {
	h := newHarness(t, domain.Session{})
	s, err := h.mgr.Login(context.Background(), domain.Credentials{Username: "a", Password: "good"})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	got := h.mgr.AttachAuthHeader()
	if len(got) != 1 {
		t.Fatalf("expected exactly one header, got %v", got)
	}
	if got["Authorization"] != "Bearer "+s.AccessToken {
		t.Fatalf("expected bearer for current token, got %q", got["Authorization"])
	}
}

func TestLogin_SuccessStoresBothTokens(t *testing.T) {
	h := newHarness(t, domain.Session{})

	s, err := h.mgr.Login(context.Background(), domain.Credentials{Username: "a", Password: "good"})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if !s.Valid() {
		t.Fatalf("expected both tokens, got %+v", s)
	}

	stored, saves, _ := h.store.Snapshot()
	if stored != s {
		t.Fatalf("expected stored session %+v, got %+v", s, stored)
	}
	if saves != 1 {
		t.Fatalf("expected one save, got %d", saves)
	}
	if h.mgr.State() != domain.StateAuthenticated {
		t.Fatalf("expected authenticated")
	}
}

func TestLogin_InvalidCredentialsReturnsServerMessage(t *testing.T) {
	h := newHarness(t, domain.Session{})

	_, err := h.mgr.Login(context.Background(), domain.Credentials{Username: "a", Password: "bad"})
	if err == nil {
		t.Fatalf("expected error")
	}

	var ae *domain.AuthError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *AuthError, got %T: %v", err, err)
	}
	if ae.Message != "Invalid credentials" {
		t.Fatalf("expected server message, got %q", ae.Message)
	}
	if ae.Status != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", ae.Status)
	}

	stored, saves, _ := h.store.Snapshot()
	if saves != 0 || stored.AccessToken != "" || stored.RefreshToken != "" {
		t.Fatalf("expected nothing stored, got %+v (saves=%d)", stored, saves)
	}
	if len(h.mgr.AttachAuthHeader()) != 0 {
		t.Fatalf("expected no header after failed login")
	}
}

func TestLogin_FailureKeepsPreviousSession(t *testing.T) {
	h := newHarness(t, domain.Session{})
	first, err := h.mgr.Login(context.Background(), domain.Credentials{Username: "a", Password: "good"})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	if _, err := h.mgr.Login(context.Background(), domain.Credentials{Username: "a", Password: "bad"}); err == nil {
		t.Fatalf("expected error")
	}

	if h.mgr.AttachAuthHeader()["Authorization"] != "Bearer "+first.AccessToken {
		t.Fatalf("expected previous session to survive a failed login")
	}
}

type stubAuth struct {
	mu       sync.Mutex
	obtain   domain.Session
	obtainE  error
	refresh  domain.Session
	refreshE error
	calls    int
}

func (s *stubAuth) ObtainToken(context.Context, domain.Credentials) (domain.Session, error) {
	return s.obtain, s.obtainE
}

func (s *stubAuth) Register(context.Context, domain.Registration) (domain.Session, error) {
	return s.obtain, s.obtainE
}

func (s *stubAuth) RefreshToken(context.Context, string) (domain.Session, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.refresh, s.refreshE
}

type stubDoer struct {
	mu      sync.Mutex
	status  []int
	headers []map[string]string
	err     error
}

func (d *stubDoer) Do(_ context.Context, _ domain.Request, headers domain.Headers) (domain.Response, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cp := map[string]string{}
	for k, v := range headers {
		cp[k] = v
	}
	d.headers = append(d.headers, cp)
	if d.err != nil {
		return domain.Response{}, d.err
	}
	i := len(d.headers) - 1
	if i >= len(d.status) {
		i = len(d.status) - 1
	}
	return domain.Response{StatusCode: d.status[i]}, nil
}

func TestLogin_PartialPairIsRejected(t *testing.T) {
	api := &stubAuth{obtain: domain.Session{AccessToken: "only-access"}}
	store := tokenstore.NewMemoryStore(domain.Session{})
	mgr := New(api, &stubDoer{status: []int{200}}, store)

	_, err := mgr.Login(context.Background(), domain.Credentials{Username: "a", Password: "b"})
	if !domain.IsKind(err, domain.KindAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if mgr.State() != domain.StateAnonymous {
		t.Fatalf("expected anonymous after partial pair")
	}
	if _, saves, _ := store.Snapshot(); saves != 0 {
		t.Fatalf("expected no save, got %d", saves)
	}
}

type failingStore struct{ tokenstore.MemoryStore }

func (f *failingStore) Save(domain.Session) error { return errors.New("disk full") }

func TestLogin_PersistFailureLeavesAnonymous(t *testing.T) {
	api := &stubAuth{obtain: domain.Session{AccessToken: "a", RefreshToken: "r"}}
	mgr := New(api, &stubDoer{status: []int{200}}, &failingStore{})

	if _, err := mgr.Login(context.Background(), domain.Credentials{Username: "a"}); err == nil {
		t.Fatalf("expected persist error")
	}
	if len(mgr.AttachAuthHeader()) != 0 {
		t.Fatalf("expected no in-memory session when persist fails")
	}
}

func TestRegister_StartsSession(t *testing.T) {
	h := newHarness(t, domain.Session{})

	s, err := h.mgr.Register(context.Background(), domain.Registration{Username: "new", Email: "n@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if !s.Valid() || h.mgr.State() != domain.StateAuthenticated {
		t.Fatalf("expected session after register")
	}

	_, err = h.mgr.Register(context.Background(), domain.Registration{Username: "new", Email: "n@example.com", Password: "secret1"})
	var ae *domain.AuthError
	if !errors.As(err, &ae) {
		t.Fatalf("expected auth error for duplicate, got %v", err)
	}
	if !strings.Contains(ae.Message, "already exists") {
		t.Fatalf("expected field message, got %q", ae.Message)
	}
}

func TestDo_RefreshesOnceAndRetriesOnce(t *testing.T) {
	h := newHarness(t, domain.Session{})
	h.srv.AddUser("b", "pw", "b@example.com")
	initial := h.srv.Issue("b")
	h.store = tokenstore.NewMemoryStore(initial)
	h.mgr = New(h.api, h.api, h.store)
	if err := h.mgr.Restore(); err != nil {
		t.Fatalf("Restore error: %v", err)
	}

	h.srv.ExpireAccess(initial.AccessToken)

	resp, err := h.mgr.Do(context.Background(), portalapi.ProfileRequest())
	if err != nil {
		t.Fatalf("Do error: %v", err)
	}
	profile, err := portalapi.DecodeProfile(resp)
	if err != nil {
		t.Fatalf("DecodeProfile error: %v", err)
	}
	if profile.Username != "b" || profile.Email != "b@example.com" {
		t.Fatalf("unexpected profile %+v", profile)
	}

	if got := h.srv.Calls("/token/refresh/"); got != 1 {
		t.Fatalf("expected exactly one refresh, got %d", got)
	}
	auths := h.srv.AuthHeaders("/profile/")
	if len(auths) != 2 {
		t.Fatalf("expected original call plus one retry, got %d", len(auths))
	}
	if auths[0] != "Bearer "+initial.AccessToken {
		t.Fatalf("expected first call with old token")
	}
	current := h.mgr.AttachAuthHeader()["Authorization"]
	if auths[1] != current || auths[1] == auths[0] {
		t.Fatalf("expected retry with the new token, got %q (current %q)", auths[1], current)
	}

	stored, _, _ := h.store.Snapshot()
	if stored.RefreshToken != initial.RefreshToken {
		t.Fatalf("expected refresh token kept when not rotated")
	}
	if "Bearer "+stored.AccessToken != current {
		t.Fatalf("expected new access token persisted")
	}
}

func TestDo_SecondUnauthorizedIsNotRetried(t *testing.T) {
	h := newHarness(t, domain.Session{})
	if _, err := h.mgr.Login(context.Background(), domain.Credentials{Username: "a", Password: "good"}); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	h.srv.Configure(func(b *portaltest.Behavior) { b.ProfileAlwaysUnauthorized = true })

	resp, err := h.mgr.Do(context.Background(), portalapi.ProfileRequest())
	if err != nil {
		t.Fatalf("Do error: %v", err)
	}
	if !resp.Unauthorized() {
		t.Fatalf("expected the retry's 401 to be returned, got %d", resp.StatusCode)
	}
	if got := h.srv.Calls("/token/refresh/"); got != 1 {
		t.Fatalf("expected exactly one refresh, got %d", got)
	}
	if got := h.srv.Calls("/profile/"); got != 2 {
		t.Fatalf("expected exactly two profile calls, got %d", got)
	}
}

func TestDo_RefreshRejectedLogsOut(t *testing.T) {
	h := newHarness(t, domain.Session{})
	s, err := h.mgr.Login(context.Background(), domain.Credentials{Username: "a", Password: "good"})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	h.srv.ExpireAccess(s.AccessToken)
	h.srv.RevokeRefresh(s.RefreshToken)

	_, err = h.mgr.Do(context.Background(), portalapi.ProfileRequest())
	var ae *domain.AuthError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *AuthError, got %v", err)
	}
	if ae.Message != "Token is invalid or expired" {
		t.Fatalf("expected server message, got %q", ae.Message)
	}

	if len(h.mgr.AttachAuthHeader()) != 0 {
		t.Fatalf("expected session cleared after failed refresh")
	}
	if h.mgr.State() != domain.StateAnonymous {
		t.Fatalf("expected anonymous")
	}
	stored, _, clears := h.store.Snapshot()
	if stored.Valid() || clears == 0 {
		t.Fatalf("expected store cleared, got %+v clears=%d", stored, clears)
	}
	if got := h.srv.Calls("/profile/"); got != 1 {
		t.Fatalf("expected no retry after failed refresh, got %d profile calls", got)
	}

	// A new login restores the header.
	if _, err := h.mgr.Login(context.Background(), domain.Credentials{Username: "a", Password: "good"}); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if len(h.mgr.AttachAuthHeader()) != 1 {
		t.Fatalf("expected header after new login")
	}
}

func TestDo_UnauthorizedWithoutRefreshTokenIsAuthError(t *testing.T) {
	h := newHarness(t, domain.Session{})

	_, err := h.mgr.Do(context.Background(), portalapi.ProfileRequest())
	if !domain.IsKind(err, domain.KindAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if got := h.srv.Calls("/token/refresh/"); got != 0 {
		t.Fatalf("expected no refresh attempt, got %d", got)
	}
	if auths := h.srv.AuthHeaders("/profile/"); len(auths) != 1 || auths[0] != "" {
		t.Fatalf("expected one unauthenticated call, got %v", auths)
	}
}

func TestDo_RotatedRefreshTokenIsStored(t *testing.T) {
	h := newHarness(t, domain.Session{})
	s, err := h.mgr.Login(context.Background(), domain.Credentials{Username: "a", Password: "good"})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	h.srv.Configure(func(b *portaltest.Behavior) { b.RotateRefresh = true })
	h.srv.ExpireAccess(s.AccessToken)

	if _, err := h.mgr.Do(context.Background(), portalapi.ProfileRequest()); err != nil {
		t.Fatalf("Do error: %v", err)
	}
	stored, _, _ := h.store.Snapshot()
	if stored.RefreshToken == s.RefreshToken || stored.RefreshToken == "" {
		t.Fatalf("expected rotated refresh token to be stored, got %q", stored.RefreshToken)
	}
}

func TestDo_ConcurrentUnauthorizedShareOneRefresh(t *testing.T) {
	h := newHarness(t, domain.Session{})
	s, err := h.mgr.Login(context.Background(), domain.Credentials{Username: "a", Password: "good"})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	h.srv.Configure(func(b *portaltest.Behavior) { b.RefreshDelay = 50 * time.Millisecond })
	h.srv.ExpireAccess(s.AccessToken)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := h.mgr.Do(context.Background(), portalapi.ProfileRequest())
			if err != nil {
				errs <- err
				return
			}
			if _, err := portalapi.DecodeProfile(resp); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := h.srv.Calls("/token/refresh/"); got != 1 {
		t.Fatalf("expected concurrent 401s to share one refresh, got %d", got)
	}
}

func TestDo_TransportFailureDuringRefreshLogsOut(t *testing.T) {
	cause := &domain.TransportError{Op: "httpclient.do", Err: context.DeadlineExceeded}
	api := &stubAuth{refreshE: cause}
	store := tokenstore.NewMemoryStore(domain.Session{AccessToken: "old", RefreshToken: "r"})
	doer := &stubDoer{status: []int{http.StatusUnauthorized}}
	mgr := New(api, doer, store)
	if err := mgr.Restore(); err != nil {
		t.Fatalf("Restore error: %v", err)
	}

	_, err := mgr.Do(context.Background(), domain.Request{Name: "profile", Path: "/profile/"})
	var ae *domain.AuthError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *AuthError, got %v", err)
	}
	if !domain.IsKind(err, domain.KindAuth) {
		t.Fatalf("expected auth kind, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected the transport cause to be kept, got %v", err)
	}
	if mgr.State() != domain.StateAnonymous {
		t.Fatalf("expected logout after failed refresh")
	}
	if got := mgr.AttachAuthHeader(); len(got) != 0 {
		t.Fatalf("expected no bearer after logout, got %v", got)
	}
	if stored, _ := store.Load(); stored.AccessToken != "" || stored.RefreshToken != "" {
		t.Fatalf("expected store cleared, got %+v", stored)
	}
	if len(doer.headers) != 1 {
		t.Fatalf("expected no retry, got %d calls", len(doer.headers))
	}
}

func TestDo_RejectedRefreshDoesNotClearNewerLogin(t *testing.T) {
	h := newHarness(t, domain.Session{})
	s, err := h.mgr.Login(context.Background(), domain.Credentials{Username: "a", Password: "good"})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	h.srv.ExpireAccess(s.AccessToken)
	h.srv.Configure(func(b *portaltest.Behavior) {
		b.RefreshStatus = http.StatusUnauthorized
		b.RefreshDelay = 300 * time.Millisecond
	})

	done := make(chan error, 1)
	go func() {
		_, err := h.mgr.Do(context.Background(), portalapi.ProfileRequest())
		done <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for h.srv.Calls("/token/refresh/") == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("refresh never started")
		}
		time.Sleep(5 * time.Millisecond)
	}

	fresh, err := h.mgr.Login(context.Background(), domain.Credentials{Username: "a", Password: "good"})
	if err != nil {
		t.Fatalf("second Login error: %v", err)
	}

	if err := <-done; !domain.IsKind(err, domain.KindAuth) {
		t.Fatalf("expected auth error for the stale call, got %v", err)
	}
	if h.mgr.State() != domain.StateAuthenticated {
		t.Fatalf("expected the newer login to survive")
	}
	if got := h.mgr.AttachAuthHeader()["Authorization"]; got != "Bearer "+fresh.AccessToken {
		t.Fatalf("expected bearer of the newer login, got %q", got)
	}
	stored, _, _ := h.store.Snapshot()
	if stored != fresh {
		t.Fatalf("expected newer login persisted, got %+v", stored)
	}
}

type ctxAuth struct {
	stubAuth
	sawErr error
}

func (c *ctxAuth) RefreshToken(ctx context.Context, refresh string) (domain.Session, error) {
	c.mu.Lock()
	c.sawErr = ctx.Err()
	c.mu.Unlock()
	return c.stubAuth.RefreshToken(ctx, refresh)
}

func TestDo_RefreshIgnoresCallerCancellation(t *testing.T) {
	api := &ctxAuth{stubAuth: stubAuth{refresh: domain.Session{AccessToken: "new"}}}
	store := tokenstore.NewMemoryStore(domain.Session{AccessToken: "old", RefreshToken: "r"})
	doer := &stubDoer{status: []int{http.StatusUnauthorized, http.StatusOK}}
	mgr := New(api, doer, store)
	_ = mgr.Restore()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := mgr.Do(ctx, domain.Request{Name: "profile", Path: "/profile/"})
	if err != nil {
		t.Fatalf("Do error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected retried 200, got %d", resp.StatusCode)
	}
	if api.sawErr != nil {
		t.Fatalf("expected refresh context without cancellation, got %v", api.sawErr)
	}
	if mgr.State() != domain.StateAuthenticated {
		t.Fatalf("expected session kept")
	}
}

func TestDo_TransportFailureIsReturnedUntouched(t *testing.T) {
	api := &stubAuth{}
	store := tokenstore.NewMemoryStore(domain.Session{AccessToken: "a", RefreshToken: "r"})
	doer := &stubDoer{err: &domain.TransportError{Op: "httpclient.do", Err: errors.New("connection refused")}}
	mgr := New(api, doer, store)
	_ = mgr.Restore()

	_, err := mgr.Do(context.Background(), domain.Request{Path: "/chat/"})
	if !domain.IsKind(err, domain.KindTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if api.calls != 0 {
		t.Fatalf("expected no refresh on transport error")
	}
	if mgr.State() != domain.StateAuthenticated {
		t.Fatalf("expected session kept")
	}
}

func TestDo_ProactiveRefreshCountsAsTheOneRefresh(t *testing.T) {
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	api := &stubAuth{refresh: domain.Session{AccessToken: "fresh"}}
	store := tokenstore.NewMemoryStore(domain.Session{AccessToken: expired, RefreshToken: "r"})
	doer := &stubDoer{status: []int{http.StatusUnauthorized}}
	mgr := New(api, doer, store)
	_ = mgr.Restore()

	resp, err := mgr.Do(context.Background(), domain.Request{Path: "/profile/"})
	if err != nil {
		t.Fatalf("Do error: %v", err)
	}
	if !resp.Unauthorized() {
		t.Fatalf("expected 401 returned as data, got %d", resp.StatusCode)
	}
	if api.calls != 1 {
		t.Fatalf("expected exactly one refresh, got %d", api.calls)
	}
	if len(doer.headers) != 1 || doer.headers[0]["Authorization"] != "Bearer fresh" {
		t.Fatalf("expected a single call with the fresh token, got %v", doer.headers)
	}
}

func TestDo_ProactiveRefreshCanBeDisabled(t *testing.T) {
	expired, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte("k"))

	api := &stubAuth{refresh: domain.Session{AccessToken: "fresh"}}
	store := tokenstore.NewMemoryStore(domain.Session{AccessToken: expired, RefreshToken: "r"})
	doer := &stubDoer{status: []int{http.StatusOK}}
	mgr := New(api, doer, store, WithProactiveRefresh(false, 0))
	_ = mgr.Restore()

	if _, err := mgr.Do(context.Background(), domain.Request{Path: "/profile/"}); err != nil {
		t.Fatalf("Do error: %v", err)
	}
	if api.calls != 0 {
		t.Fatalf("expected no refresh, got %d", api.calls)
	}
}

func TestLogout_IsIdempotent(t *testing.T) {
	h := newHarness(t, domain.Session{})

	if err := h.mgr.Logout(); err != nil {
		t.Fatalf("Logout on anonymous: %v", err)
	}
	if len(h.mgr.AttachAuthHeader()) != 0 {
		t.Fatalf("expected empty header")
	}

	if _, err := h.mgr.Login(context.Background(), domain.Credentials{Username: "a", Password: "good"}); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := h.mgr.Logout(); err != nil {
			t.Fatalf("Logout #%d: %v", i+1, err)
		}
		if len(h.mgr.AttachAuthHeader()) != 0 {
			t.Fatalf("expected empty header after logout #%d", i+1)
		}
	}
	if stored, _, _ := h.store.Snapshot(); stored.AccessToken != "" || stored.RefreshToken != "" {
		t.Fatalf("expected store cleared, got %+v", stored)
	}
}

type clearFailStore struct{ *tokenstore.MemoryStore }

func (c *clearFailStore) Clear() error { return errors.New("read-only filesystem") }

func TestLogout_StoreFailureStillLogsOutInMemory(t *testing.T) {
	store := &clearFailStore{MemoryStore: tokenstore.NewMemoryStore(domain.Session{AccessToken: "a", RefreshToken: "r"})}
	mgr := New(&stubAuth{}, &stubDoer{status: []int{http.StatusOK}}, store)
	if err := mgr.Restore(); err != nil {
		t.Fatalf("Restore error: %v", err)
	}

	if err := mgr.Logout(); err == nil {
		t.Fatalf("expected store error to be returned")
	}
	if mgr.State() != domain.StateAnonymous {
		t.Fatalf("expected anonymous in memory")
	}

	next := New(&stubAuth{}, &stubDoer{status: []int{http.StatusOK}}, store)
	if err := next.Restore(); err != nil {
		t.Fatalf("Restore error: %v", err)
	}
	if next.State() != domain.StateAuthenticated {
		t.Fatalf("expected the uncleared tokens to be restored by the next process")
	}
}

func TestRestore(t *testing.T) {
	t.Run("valid pair", func(t *testing.T) {
		store := tokenstore.NewMemoryStore(domain.Session{AccessToken: "a", RefreshToken: "r"})
		mgr := New(&stubAuth{}, &stubDoer{status: []int{200}}, store)
		if err := mgr.Restore(); err != nil {
			t.Fatalf("Restore error: %v", err)
		}
		if mgr.State() != domain.StateAuthenticated {
			t.Fatalf("expected authenticated")
		}
	})

	t.Run("partial pair is discarded", func(t *testing.T) {
		store := tokenstore.NewMemoryStore(domain.Session{AccessToken: "a"})
		mgr := New(&stubAuth{}, &stubDoer{status: []int{200}}, store)
		if err := mgr.Restore(); err != nil {
			t.Fatalf("Restore error: %v", err)
		}
		if mgr.State() != domain.StateAnonymous {
			t.Fatalf("expected anonymous for partial pair")
		}
		if _, _, clears := store.Snapshot(); clears != 1 {
			t.Fatalf("expected partial pair cleared from store, clears=%d", clears)
		}
	})
}

func TestClaims(t *testing.T) {
	h := newHarness(t, domain.Session{})
	if _, ok := h.mgr.Claims(); ok {
		t.Fatalf("expected no claims when anonymous")
	}

	if _, err := h.mgr.Login(context.Background(), domain.Credentials{Username: "a", Password: "good"}); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	c, ok := h.mgr.Claims()
	if !ok {
		t.Fatalf("expected claims for JWT access token")
	}
	if c.Username != "a" {
		t.Fatalf("expected username a, got %q", c.Username)
	}
	if c.Expired(time.Now()) {
		t.Fatalf("expected fresh token")
	}
}
