// Package fetcher tries fundamentals providers in priority order until one
// answers.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/growthscore/internal/contracts"
	"github.com/wonny/growthscore/pkg/logger"
)

const chainName = "chain"

// Attempt records one provider's outcome
type Attempt struct {
	Provider string
	Duration time.Duration
	Err      error
}

// Chain is the fallback orchestrator
// ⭐ SSOT: Provider 우선순위/폴백 정책은 여기서만
type Chain struct {
	providers []contracts.FundamentalsProvider
	logger    *logger.Logger
}

// NewChain creates a chain that tries providers in the given order
func NewChain(log *logger.Logger, providers ...contracts.FundamentalsProvider) *Chain {
	return &Chain{providers: providers, logger: log}
}

// Providers returns the provider names in priority order
func (c *Chain) Providers() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return names
}

// FetchFundamentals returns the first successful provider's answer.
// Providers run strictly one after another. A non-recoverable error or
// context cancellation stops the chain; when every provider fails
// recoverably the result is a fatal "exhausted" error listing each message.
func (c *Chain) FetchFundamentals(ctx context.Context, ticker string) (*contracts.Fundamentals, error) {
	f, _, err := c.FetchWithAttempts(ctx, ticker)
	return f, err
}

// FetchWithAttempts is FetchFundamentals plus the per-provider trail
func (c *Chain) FetchWithAttempts(ctx context.Context, ticker string) (*contracts.Fundamentals, []Attempt, error) {
	attempts := make([]Attempt, 0, len(c.providers))
	messages := make([]string, 0, len(c.providers))

	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			return nil, attempts, err
		}

		start := time.Now()
		f, err := p.Fetch(ctx, ticker)
		if err == nil && f == nil {
			err = contracts.Recoverable(p.Name(), contracts.ReasonInvalidFormat, "provider returned no data")
		}
		attempt := Attempt{Provider: p.Name(), Duration: time.Since(start), Err: err}
		attempts = append(attempts, attempt)

		log := c.logger.WithFields(map[string]interface{}{
			"ticker":   ticker,
			"provider": p.Name(),
			"duration": attempt.Duration.String(),
		})

		if err == nil {
			log.WithField("quarters", len(f.Quarters)).Info("Fundamentals fetched")
			return f, attempts, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, attempts, ctxErr
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, attempts, err
		}

		var pe *contracts.ProviderError
		if !errors.As(err, &pe) {
			// unclassified failures are treated as transport trouble
			pe = contracts.Recoverable(p.Name(), contracts.ReasonNetwork, "%v", err)
			err = pe
			attempts[len(attempts)-1].Err = err
		}
		if !pe.Recoverable {
			log.WithError(err).Error("Provider failed fatally")
			return nil, attempts, err
		}

		log.WithError(err).WithField("reason", pe.Kind()).Warn("Provider failed, trying next")
		messages = append(messages, err.Error())
	}

	err := contracts.Fatal(chainName, contracts.ReasonExhausted, "all providers failed for %s: %s",
		ticker, strings.Join(messages, "; "))
	if len(c.providers) == 0 {
		err = contracts.Fatal(chainName, contracts.ReasonExhausted, "no providers configured")
	}
	c.logger.WithError(err).WithField("ticker", ticker).Error("Fundamentals unavailable")
	return nil, attempts, err
}

// Summary renders attempts for the CLI
func Summary(attempts []Attempt) string {
	parts := make([]string, 0, len(attempts))
	for _, a := range attempts {
		status := "ok"
		if a.Err != nil {
			status = "failed"
			var pe *contracts.ProviderError
			if errors.As(a.Err, &pe) {
				status = pe.Kind()
			}
		}
		parts = append(parts, fmt.Sprintf("%s=%s", a.Provider, status))
	}
	return strings.Join(parts, " ")
}
