package httputil

import "net/url"

// secretParams are query parameters that must never reach the logs
var secretParams = []string{"apikey", "api_key", "token"}

// redact renders u with credential query parameters masked
func redact(u *url.URL) string {
	if u == nil {
		return ""
	}
	q := u.Query()
	changed := false
	for _, key := range secretParams {
		if q.Has(key) {
			q.Set(key, "***")
			changed = true
		}
	}
	if !changed {
		return u.String()
	}
	cp := *u
	cp.RawQuery = q.Encode()
	return cp.String()
}
