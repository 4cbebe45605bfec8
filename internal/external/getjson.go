// Package external holds the HTTP response contract shared by every
// fundamentals provider adapter.
package external

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/wonny/growthscore/internal/contracts"
)

// maxBodyBytes bounds a single provider response (SEC companyfacts can be tens of MB)
const maxBodyBytes = 256 << 20

// Getter performs a GET request. *httputil.Client implements it.
type Getter interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// ErrorProbe inspects a raw body for a provider-embedded error message
type ErrorProbe func(body []byte) (string, bool)

// GetJSON fetches url and decodes the JSON body into out.
// ⭐ SSOT: Provider 응답 분류 (network/parse/quota/unauthorized/http-N)는 여기서만
//
// Context cancellation is returned unchanged so callers can stop instead of
// falling back to the next provider.
func GetJSON(ctx context.Context, c Getter, provider, url string, out interface{}, probes ...ErrorProbe) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return contracts.Recoverable(provider, contracts.ReasonNetwork, "request failed: %v", err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(provider, resp.StatusCode); err != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		return err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return contracts.Recoverable(provider, contracts.ReasonNetwork, "failed to read response body: %v", err)
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return contracts.Recoverable(provider, contracts.ReasonParse, "empty response body")
	}

	for _, probe := range probes {
		if msg, ok := probe(body); ok {
			return contracts.Recoverable(provider, contracts.ReasonQuota, "provider error: %s", msg)
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return contracts.Recoverable(provider, contracts.ReasonInvalidFormat, "unexpected payload shape: %v", err)
		}
		return contracts.Recoverable(provider, contracts.ReasonParse, "invalid JSON: %v", err)
	}
	return nil
}

func classifyStatus(provider string, status int) error {
	switch {
	case status == http.StatusTooManyRequests:
		return contracts.Recoverable(provider, contracts.ReasonQuota, "rate limited (HTTP 429)")
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return contracts.Recoverable(provider, contracts.ReasonUnauthorized, "access denied (HTTP %d)", status)
	case status >= 400:
		return contracts.HTTPStatus(provider, status)
	}
	return nil
}

// ErrorFields returns a probe that reports the first non-empty string found
// under one of fields in a top-level JSON object
func ErrorFields(fields ...string) ErrorProbe {
	return func(body []byte) (string, bool) {
		if len(body) == 0 || body[0] != '{' {
			return "", false
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(body, &obj); err != nil {
			return "", false
		}
		for _, f := range fields {
			raw, ok := obj[f]
			if !ok {
				continue
			}
			var msg string
			if err := json.Unmarshal(raw, &msg); err != nil {
				msg = string(raw)
			}
			if msg = strings.TrimSpace(msg); msg != "" {
				return fmt.Sprintf("%s: %s", f, msg), true
			}
		}
		return "", false
	}
}
