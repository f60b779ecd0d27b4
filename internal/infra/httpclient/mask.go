package httpclient

import (
	"net/http"
	"strings"
)

const maskValue = "********"

// MaskHeaders returns a flat copy of h with credential-bearing values masked.
func MaskHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vals := range h {
		if IsSensitiveHeaderKey(k) {
			out[k] = maskValue
			continue
		}
		out[k] = strings.Join(vals, ", ")
	}
	return out
}

func IsSensitiveHeaderKey(k string) bool {
	kk := strings.ToLower(strings.TrimSpace(k))
	switch kk {
	case "authorization", "proxy-authorization", "cookie", "set-cookie", "x-api-key", "x-auth-token":
		return true
	}

	return strings.Contains(kk, "token") ||
		strings.Contains(kk, "secret") ||
		strings.Contains(kk, "password") ||
		strings.Contains(kk, "api-key") ||
		strings.Contains(kk, "apikey")
}
