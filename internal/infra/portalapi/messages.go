package portalapi

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// messagePaths are tried in order when pulling a human message out of an
// error body. The portal has used all three over time.
var messagePaths = []string{"$.detail", "$.message", "$.error"}

// ErrorMessage extracts the server-provided message from a JSON error body.
// Field error maps ({"email": ["Enter a valid email address."]}) yield the
// first field in key order. Returns "" when nothing usable is found.
func ErrorMessage(body []byte) string {
	doc, err := parseJSON(body)
	if err != nil {
		return ""
	}

	for _, expr := range messagePaths {
		val, getErr := jsonpath.Get(expr, doc)
		if getErr != nil {
			continue
		}
		if s := flatten(val); s != "" {
			return s
		}
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return flatten(doc)
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if s := flatten(obj[k]); s != "" {
			return k + ": " + s
		}
	}
	return ""
}

// StringField reads a top-level string with a JSONPath expression.
func StringField(body []byte, expr string) (string, bool) {
	doc, err := parseJSON(body)
	if err != nil {
		return "", false
	}
	val, err := jsonpath.Get(expr, doc)
	if err != nil {
		return "", false
	}
	s, ok := val.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

func parseJSON(body []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func flatten(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []any:
		for _, it := range t {
			if s := flatten(it); s != "" {
				return s
			}
		}
		return ""
	case map[string]any:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
