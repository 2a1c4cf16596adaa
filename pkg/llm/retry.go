package llm

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"strings"
	"time"
)

// Error classes reported to callers that need to distinguish transient
// transport failures from everything else.
const (
	ErrorClassNetwork = "network"
	ErrorClassOther   = "other"
)

const (
	maxAttempts     = 3
	backoffMinDelay = 1 * time.Second
	backoffMaxDelay = 5 * time.Second
)

var timeoutIndicators = []string{
	"timeout", "timed out", "deadline exceeded",
}

var connectionIndicators = []string{
	"connection refused", "connection reset", "connection aborted",
	"no such host", "network is unreachable", "broken pipe", "eof",
	"tls handshake", "dial tcp",
}

// IsNetworkError reports whether err looks like a transport failure rather
// than a model or application error.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, indicator := range append(timeoutIndicators, connectionIndicators...) {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}

// ClassifyError maps err to ErrorClassNetwork or ErrorClassOther.
func ClassifyError(err error) string {
	if IsNetworkError(err) {
		return ErrorClassNetwork
	}
	return ErrorClassOther
}

// describeFailure gives the user-facing failure label the original pipeline
// reported for each class of transport error.
func describeFailure(err error) string {
	msg := strings.ToLower(err.Error())
	if errors.Is(err, context.DeadlineExceeded) {
		return "Network timeout error"
	}
	for _, indicator := range timeoutIndicators {
		if strings.Contains(msg, indicator) {
			return "Network timeout error"
		}
	}
	for _, indicator := range connectionIndicators {
		if strings.Contains(msg, indicator) {
			return "Network connection error"
		}
	}
	return err.Error()
}

// GenerateWithRetry calls Generate up to three times with a uniform 1-5s
// backoff between attempts. The parent context cancels the backoff wait.
func GenerateWithRetry(ctx context.Context, provider LLMProvider, prompt string, options ...Option) (string, error) {
	return withRetry(ctx, func() (string, error) {
		return provider.Generate(ctx, prompt, options...)
	})
}

// ChatWithRetry behaves like GenerateWithRetry for chat histories.
func ChatWithRetry(ctx context.Context, provider LLMProvider, history []Message, options ...Option) (string, error) {
	return withRetry(ctx, func() (string, error) {
		return provider.Chat(ctx, history, options...)
	})
}

func withRetry(ctx context.Context, call func() (string, error)) (string, error) {
	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := call()
		attempts = attempt
		if err == nil {
			return result, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		if attempt < maxAttempts {
			if err := sleepBackoff(ctx); err != nil {
				break
			}
		}
	}
	return "", fmt.Errorf("%s (after %d attempts): %w", describeFailure(lastErr), attempts, lastErr)
}

func sleepBackoff(ctx context.Context) error {
	delay := backoffMinDelay + time.Duration(rand.Int63n(int64(backoffMaxDelay-backoffMinDelay)))
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
