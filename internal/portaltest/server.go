// Package portaltest runs an in-process fake of the health portal API for tests.
package portaltest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/gorilla/mux"

	"github.com/sihhealth/healthbot/internal/domain"
)

var signingKey = []byte("portaltest")

type user struct {
	id       int
	password string
	email    string
}

// Behavior switches on failure modes. The zero value mirrors the real routes.
type Behavior struct {
	// RefreshStatus, when non-zero, is returned by /token/refresh/ instead of a new token.
	RefreshStatus int
	// RefreshDelay is slept before answering /token/refresh/.
	RefreshDelay time.Duration
	// RotateRefresh makes /token/refresh/ return a new refresh token too.
	RotateRefresh bool
	// ProfileAlwaysUnauthorized rejects every /profile/ call.
	ProfileAlwaysUnauthorized bool
	// ChatStatus, when non-zero, is returned by /chat/.
	ChatStatus int
}

// Server is a fake portal.
type Server struct {
	srv *httptest.Server

	mu       sync.Mutex
	users    map[string]user
	access   map[string]string // token -> username
	refresh  map[string]string
	calls    map[string]int
	auth     map[string][]string
	seq      int
	behavior Behavior
}

func New() *Server {
	s := &Server{
		users:   map[string]user{},
		access:  map[string]string{},
		refresh: map[string]string{},
		calls:   map[string]int{},
		auth:    map[string][]string{},
	}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/", s.count(s.handleInfo)).Methods(http.MethodGet)
	api.HandleFunc("/health/", s.count(s.handleHealth)).Methods(http.MethodGet)
	api.HandleFunc("/token/", s.count(s.handleToken)).Methods(http.MethodPost)
	api.HandleFunc("/token/refresh/", s.count(s.handleRefresh)).Methods(http.MethodPost)
	api.HandleFunc("/register/", s.count(s.handleRegister)).Methods(http.MethodPost)
	api.HandleFunc("/profile/", s.count(s.handleProfile)).Methods(http.MethodGet)
	api.HandleFunc("/chat/", s.count(s.handleChat)).Methods(http.MethodPost)

	s.srv = httptest.NewServer(r)
	return s
}

// URL is the API base URL ("http://127.0.0.1:port/api").
func (s *Server) URL() string { return s.srv.URL + "/api" }

func (s *Server) Close() { s.srv.Close() }

// Configure mutates the server's behavior under its lock.
func (s *Server) Configure(fn func(b *Behavior)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.behavior)
}

func (s *Server) current() Behavior {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.behavior
}

// AddUser registers an account directly.
func (s *Server) AddUser(username, password, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.users[username] = user{id: s.seq, password: password, email: email}
}

// Issue mints a valid token pair for username without going through /token/.
func (s *Server) Issue(username string) domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked(username)
}

// ExpireAccess makes an access token fail with 401 from now on.
func (s *Server) ExpireAccess(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.access, token)
}

// RevokeRefresh makes a refresh token unusable.
func (s *Server) RevokeRefresh(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.refresh, token)
}

// Calls returns how many requests hit path (e.g. "/token/refresh/").
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// AuthHeaders returns the Authorization header seen on each call to path, in order.
func (s *Server) AuthHeaders(path string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.auth[path]))
	copy(out, s.auth[path])
	return out
}

func (s *Server) count(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api")
		s.mu.Lock()
		s.calls[path]++
		s.auth[path] = append(s.auth[path], r.Header.Get("Authorization"))
		s.mu.Unlock()
		h(w, r)
	}
}

func (s *Server) issueLocked(username string) domain.Session {
	s.seq++
	u := s.users[username]
	now := time.Now()

	access := s.sign(jwt.MapClaims{
		"token_type": "access",
		"user_id":    u.id,
		"username":   username,
		"exp":        now.Add(5 * time.Minute).Unix(),
		"jti":        fmt.Sprintf("a%d", s.seq),
	})
	refresh := s.sign(jwt.MapClaims{
		"token_type": "refresh",
		"user_id":    u.id,
		"exp":        now.Add(24 * time.Hour).Unix(),
		"jti":        fmt.Sprintf("r%d", s.seq),
	})
	s.access[access] = username
	s.refresh[refresh] = username
	return domain.Session{AccessToken: access, RefreshToken: refresh}
}

func (s *Server) sign(claims jwt.MapClaims) string {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		panic(err)
	}
	return tok
}

// bearerUser resolves the Authorization header. present reports whether a
// bearer header was sent at all.
func (s *Server) bearerUser(r *http.Request) (username string, present bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	tok := strings.TrimPrefix(h, "Bearer ")
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access[tok], true
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "sih-health-bot", "version": "0.1.0"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var in domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[in.Username]
	if !ok || u.password != in.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid credentials"})
		return
	}
	pair := s.issueLocked(in.Username)
	writeJSON(w, http.StatusOK, map[string]string{"access": pair.AccessToken, "refresh": pair.RefreshToken})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	b := s.current()
	if b.RefreshDelay > 0 {
		time.Sleep(b.RefreshDelay)
	}
	if b.RefreshStatus != 0 {
		writeJSON(w, b.RefreshStatus, map[string]string{"detail": "Token is invalid or expired", "code": "token_not_valid"})
		return
	}

	var in struct {
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	username, ok := s.refresh[in.Refresh]
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired", "code": "token_not_valid"})
		return
	}
	pair := s.issueLocked(username)
	out := map[string]string{"access": pair.AccessToken}
	if b.RotateRefresh {
		delete(s.refresh, in.Refresh)
		out["refresh"] = pair.RefreshToken
	} else {
		delete(s.refresh, pair.RefreshToken)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in domain.Registration
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed body"})
		return
	}
	if in.Username == "" || in.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Username and password required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[in.Username]; exists {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"username": {"A user with that username already exists."}})
		return
	}
	s.seq++
	s.users[in.Username] = user{id: s.seq, password: in.Password, email: in.Email}
	pair := s.issueLocked(in.Username)
	writeJSON(w, http.StatusCreated, map[string]string{"access": pair.AccessToken, "refresh": pair.RefreshToken})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	username, _ := s.bearerUser(r)
	if username == "" || s.current().ProfileAlwaysUnauthorized {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type", "code": "token_not_valid"})
		return
	}

	s.mu.Lock()
	u := s.users[username]
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"username": username,
		"email":    u.email,
		"message":  "Welcome " + username,
		"id":       u.id,
	})
}

var healthData = map[string]struct {
	symptoms   []string
	prevention []string
	treatment  string
}{
	"malaria": {
		symptoms:   []string{"fever", "chills", "headache"},
		prevention: []string{"mosquito nets", "repellent"},
		treatment:  "Consult a doctor for antimalarial drugs",
	},
	"dengue": {
		symptoms:   []string{"high fever", "joint pain", "rash"},
		prevention: []string{"remove standing water", "repellent"},
		treatment:  "Hydration and rest; seek care if bleeding",
	},
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if username, present := s.bearerUser(r); present && username == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
		return
	}
	if status := s.current().ChatStatus; status != 0 {
		writeJSON(w, status, map[string]string{"detail": "chat unavailable"})
		return
	}

	var in struct {
		Message  string `json:"message"`
		Language string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed body"})
		return
	}

	msg := strings.ToLower(in.Message)
	reply := "Sorry, I don't have information about that."
	for disease, info := range healthData {
		if strings.Contains(msg, disease) {
			reply = fmt.Sprintf("%s info:\nSymptoms: %s\nPrevention: %s\nTreatment: %s",
				strings.ToUpper(disease[:1])+disease[1:],
				strings.Join(info.symptoms, ", "),
				strings.Join(info.prevention, ", "),
				info.treatment,
			)
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"user": msg, "bot": reply})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
