package llm

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
)

type providerFunc func(ctx context.Context) (string, error)

func (f providerFunc) Generate(ctx context.Context, _ string, _ ...Option) (string, error) {
	return f(ctx)
}

func (f providerFunc) Chat(ctx context.Context, _ []Message, _ ...Option) (string, error) {
	return f(ctx)
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ErrorClassOther},
		{"deadline exceeded", context.DeadlineExceeded, ErrorClassNetwork},
		{"net error", &net.DNSError{Err: "no such host", Name: "example.com"}, ErrorClassNetwork},
		{"connection refused", errors.New("dial tcp 127.0.0.1:11434: connect: connection refused"), ErrorClassNetwork},
		{"timeout text", errors.New("request timed out after 180s"), ErrorClassNetwork},
		{"eof", errors.New("unexpected EOF"), ErrorClassNetwork},
		{"model error", errors.New("model returned empty response"), ErrorClassOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestDescribeFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"deadline exceeded", context.DeadlineExceeded, "Network timeout error"},
		{"timeout text", errors.New("Post \"http://localhost:11434\": request timed out"), "Network timeout error"},
		{"connection aborted", errors.New("read tcp: connection aborted"), "Network connection error"},
		{"other", errors.New("invalid model name"), "invalid model name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeFailure(tt.err); got != tt.want {
				t.Errorf("describeFailure(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestGenerateWithRetryRecoversFromTransientFailure(t *testing.T) {
	calls := 0
	provider := providerFunc(func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("connection reset by peer")
		}
		return "recovered", nil
	})

	got, err := GenerateWithRetry(context.Background(), provider, "prompt")
	if err != nil {
		t.Fatalf("GenerateWithRetry() error = %v", err)
	}
	if got != "recovered" {
		t.Errorf("GenerateWithRetry() = %q, want %q", got, "recovered")
	}
	if calls != 2 {
		t.Errorf("provider called %d times, want 2", calls)
	}
}

func TestGenerateWithRetryStopsWhenContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	provider := providerFunc(func(context.Context) (string, error) {
		calls++
		cancel()
		return "", errors.New("connection reset by peer")
	})

	_, err := GenerateWithRetry(ctx, provider, "prompt")
	if err == nil {
		t.Fatal("GenerateWithRetry() expected error after cancellation")
	}
	if calls != 1 {
		t.Errorf("provider called %d times, want 1", calls)
	}
	if !strings.Contains(err.Error(), "Network connection error") {
		t.Errorf("error %q missing connection failure label", err)
	}
	if !strings.Contains(err.Error(), "after 1 attempts") {
		t.Errorf("error %q missing attempt count", err)
	}
}

func TestChatWithRetryPassesThroughSuccess(t *testing.T) {
	provider := providerFunc(func(context.Context) (string, error) {
		return "hello", nil
	})

	got, err := ChatWithRetry(context.Background(), provider, []Message{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatalf("ChatWithRetry() error = %v", err)
	}
	if got != "hello" {
		t.Errorf("ChatWithRetry() = %q, want %q", got, "hello")
	}
}
