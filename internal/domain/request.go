package domain

// HTTPMethod represents an HTTP method (e.g., GET, POST).
type HTTPMethod string

const (
	MethodGet    HTTPMethod = "GET"
	MethodPost   HTTPMethod = "POST"
	MethodPut    HTTPMethod = "PUT"
	MethodPatch  HTTPMethod = "PATCH"
	MethodDelete HTTPMethod = "DELETE"
)

// Headers is a map representation of HTTP headers.
type Headers map[string]string

// Request describes one call against the portal API. Path is joined to the
// configured base URL.
type Request struct {
	Name    string
	Method  HTTPMethod
	Path    string
	Headers Headers
	// JSON is marshalled as the request body when non-nil.
	JSON any
}

// Response is a transport-agnostic view of a completed call.
type Response struct {
	StatusCode int
	Headers    map[string][]string
	Body       []byte
	LatencyMS  int64
}

// OK reports a 2xx status.
func (r Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Unauthorized reports a 401 status.
func (r Response) Unauthorized() bool {
	return r.StatusCode == 401
}
