package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/studyplan/internal/store"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestRetry(t *testing.T) {
	down := &ErrProviderUnavailable{Err: errors.New("down")}
	ok := MockResponse{Content: json.RawMessage(`{"ok":true}`)}

	tests := []struct {
		name      string
		responses []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first attempt", []MockResponse{ok}, false, 1},
		{"transient then success", []MockResponse{{Err: down}, ok}, false, 2},
		{"all attempts fail", []MockResponse{{Err: down}, {Err: down}, {Err: down}, ok}, true, 3},
		{"rate limit retried", []MockResponse{{Err: &ErrRateLimit{RetryAfter: time.Millisecond}}, ok}, false, 2},
		{"max tokens not retried", []MockResponse{{Err: &ErrMaxTokensExceeded{}}, ok}, true, 1},
		{"invalid retried once", []MockResponse{
			{Err: &ErrInvalidResponse{Err: errors.New("bad")}},
			{Err: &ErrInvalidResponse{Err: errors.New("bad")}},
			ok,
		}, true, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			_, err := WithRetry(mock, retryConfig()).Generate(context.Background(), Request{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Generate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if mock.CallCount() != tt.wantCalls {
				t.Errorf("calls = %d, want %d", mock.CallCount(), tt.wantCalls)
			}
		})
	}
}

func TestRetry_ContextCanceled(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: context.Canceled}, MockResponse{Content: json.RawMessage(`{}`)})
	_, err := WithRetry(mock, retryConfig()).Generate(context.Background(), Request{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", mock.CallCount())
	}
}

func TestBackoffBounds(t *testing.T) {
	r := &retryProvider{config: RetryConfig{InitialWait: 100 * time.Millisecond, MaxWait: 300 * time.Millisecond, Multiplier: 2}}
	for attempt := 0; attempt < 5; attempt++ {
		got := r.backoff(attempt, errors.New("x"))
		if got < 0 || got > 360*time.Millisecond {
			t.Errorf("backoff(%d) = %v, out of bounds", attempt, got)
		}
	}
	if got := r.backoff(0, &ErrRateLimit{RetryAfter: 7 * time.Second}); got != 7*time.Second {
		t.Errorf("backoff with RetryAfter = %v, want 7s", got)
	}
}

// recordingEvents captures LLM events; other EventRepo methods are unused.
type recordingEvents struct {
	store.EventRepo
	got []store.LLMRequestEventData
}

func (r *recordingEvents) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.got = append(r.got, data)
	return nil
}

func TestWithLogging(t *testing.T) {
	events := &recordingEvents{}
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 12, OutputTokens: 3}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
	)
	p := WithLogging(mock, ProviderMock, events, nil)
	ctx := WithPurpose(context.Background(), "coach")

	req := Request{System: "be brief", Messages: []Message{{Role: RoleUser, Content: "help"}}}
	if _, err := p.Generate(ctx, req); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := p.Generate(ctx, req); err == nil {
		t.Fatal("expected second call to fail")
	}

	if len(events.got) != 2 {
		t.Fatalf("recorded %d events, want 2", len(events.got))
	}
	first := events.got[0]
	if first.Purpose != "coach" || first.Provider != ProviderMock || !first.Success || first.InputTokens != 12 {
		t.Errorf("first event = %+v", first)
	}
	if !strings.Contains(first.RequestBody, "[system]\nbe brief") {
		t.Errorf("request body = %q, want system prompt", first.RequestBody)
	}
	if events.got[1].Success || events.got[1].ErrorMessage == "" {
		t.Errorf("second event = %+v, want failure with message", events.got[1])
	}
}

func TestPurposeFrom(t *testing.T) {
	if got := PurposeFrom(context.Background()); got != "unknown" {
		t.Errorf("PurposeFrom(empty) = %q, want unknown", got)
	}
}

func TestMockProvider_Queue(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("err = %T, want *ErrProviderUnavailable", err)
	}

	mock.AddResponse(MockResponse{Content: json.RawMessage(`{"subject":"Maths","minutes":30}`)})
	resp, err := mock.Generate(context.Background(), Request{Schema: tipSchema()})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Model != "mock" || resp.StopReason != "end" {
		t.Errorf("resp = %+v", resp)
	}
	if mock.CallCount() != 2 {
		t.Errorf("CallCount = %d, want 2", mock.CallCount())
	}
}
