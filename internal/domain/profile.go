package domain

// Profile is the authenticated user's record. Extra holds fields the portal
// returns that healthbot does not model.
type Profile struct {
	Username string         `json:"username"`
	Email    string         `json:"email"`
	Message  string         `json:"message,omitempty"`
	Extra    map[string]any `json:"-"`
}

// ServiceInfo is the portal's root/health response.
type ServiceInfo struct {
	Status  string `json:"status"`
	Service string `json:"service,omitempty"`
	Version string `json:"version,omitempty"`
}
