package contracts

import (
	"errors"
	"fmt"
)

// Reason classifies a provider failure
type Reason string

const (
	ReasonNetwork          Reason = "network"
	ReasonParse            Reason = "parse"
	ReasonQuota            Reason = "quota"
	ReasonUnauthorized     Reason = "unauthorized"
	ReasonHTTP             Reason = "http" // rendered as http-{status}
	ReasonMissingKey       Reason = "missing-key"
	ReasonMissingUserAgent Reason = "missing-user-agent"
	ReasonInvalidFormat    Reason = "invalid-format"
	ReasonInsufficientData Reason = "insufficient-data"
	ReasonMissingMarketCap Reason = "missing-market-cap"
	ReasonMissingRevenue   Reason = "missing-revenue"
	ReasonExhausted        Reason = "exhausted"
)

// ProviderError is a tagged provider failure
// ⭐ SSOT: Recoverable=true → 다음 Provider 시도, false → 즉시 중단
type ProviderError struct {
	Provider    string
	Reason      Reason
	Status      int // HTTP status for ReasonHTTP
	Message     string
	Recoverable bool
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Provider, e.Message, e.Kind())
}

// Kind returns the rendered reason, e.g. "quota" or "http-404"
func (e *ProviderError) Kind() string {
	if e.Reason == ReasonHTTP {
		return fmt.Sprintf("http-%d", e.Status)
	}
	return string(e.Reason)
}

// Recoverable creates an error that lets the orchestrator try the next provider
func Recoverable(provider string, reason Reason, format string, args ...interface{}) *ProviderError {
	return &ProviderError{
		Provider:    provider,
		Reason:      reason,
		Message:     fmt.Sprintf(format, args...),
		Recoverable: true,
	}
}

// Fatal creates an error that aborts the whole fetch
func Fatal(provider string, reason Reason, format string, args ...interface{}) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Reason:   reason,
		Message:  fmt.Sprintf(format, args...),
	}
}

// HTTPStatus creates a recoverable error for an unexpected HTTP status
func HTTPStatus(provider string, status int) *ProviderError {
	return &ProviderError{
		Provider:    provider,
		Reason:      ReasonHTTP,
		Status:      status,
		Message:     fmt.Sprintf("unexpected HTTP status %d", status),
		Recoverable: true,
	}
}

// IsRecoverable reports whether err is a recoverable ProviderError
func IsRecoverable(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Recoverable
}

// ReasonOf returns the reason of a ProviderError, or "" for other errors
func ReasonOf(err error) Reason {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Reason
	}
	return ""
}
