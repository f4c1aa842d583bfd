package util

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry_Success(t *testing.T) {
	callCount := 0
	result, err := Retry(context.Background(), RetryConfig{}, func() (string, error) {
		callCount++
		return "success", nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result != "success" {
		t.Errorf("expected 'success', got %q", result)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
}

func TestRetry_PollUntilFound(t *testing.T) {
	callCount := 0
	var retried []int
	cfg := PollConfig(5, time.Millisecond)
	cfg.OnRetry = func(attempt int, _ error) { retried = append(retried, attempt) }

	pid, err := Retry(context.Background(), cfg, func() (int, error) {
		callCount++
		if callCount < 4 {
			return 0, errors.New("not found yet")
		}
		return 4242, nil
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if pid != 4242 {
		t.Errorf("expected 4242, got %d", pid)
	}
	if callCount != 4 {
		t.Errorf("expected 4 calls, got %d", callCount)
	}
	if len(retried) != 3 {
		t.Errorf("expected OnRetry for 3 attempts, got %v", retried)
	}
}

func TestRetry_MaxAttemptsExceeded(t *testing.T) {
	callCount := 0
	lastErr := errors.New("still missing")

	_, err := Retry(context.Background(), PollConfig(5, time.Millisecond), func() (string, error) {
		callCount++
		return "", lastErr
	})

	if !errors.Is(err, lastErr) {
		t.Errorf("expected last error, got %v", err)
	}
	if callCount != 5 {
		t.Errorf("expected 5 calls, got %d", callCount)
	}
}

func TestRetry_WaitsDelayBetweenAttempts(t *testing.T) {
	cfg := PollConfig(4, 30*time.Millisecond)
	start := time.Now()
	_, _ = Retry(context.Background(), cfg, func() (int, error) {
		return 0, errors.New("nope")
	})
	elapsed := time.Since(start)

	// Three sleeps of 30ms.
	if elapsed < 90*time.Millisecond {
		t.Errorf("retried too quickly: %v", elapsed)
	}
	if elapsed >= 200*time.Millisecond {
		t.Errorf("retried too slowly: %v", elapsed)
	}
}

func TestRetry_NonRetryableError(t *testing.T) {
	callCount := 0
	cfg := PollConfig(5, time.Millisecond)
	cfg.IsRetryable = func(err error) bool { return err.Error() != "file not found" }

	_, err := Retry(context.Background(), cfg, func() (string, error) {
		callCount++
		return "", errors.New("file not found")
	})

	if err == nil {
		t.Error("expected error for non-retryable error")
	}
	if callCount != 1 {
		t.Errorf("expected 1 call (no retry), got %d", callCount)
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	callCount := 0
	_, err := Retry(ctx, RetryConfig{}, func() (string, error) {
		callCount++
		return "success", nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if callCount != 0 {
		t.Errorf("expected 0 calls (cancelled before first attempt), got %d", callCount)
	}
}

func TestRetry_PermanentError(t *testing.T) {
	callCount := 0
	permanentErr := MarkPermanent(errors.New("script dir is not a directory"))

	_, err := Retry(context.Background(), PollConfig(5, time.Millisecond), func() (string, error) {
		callCount++
		return "", permanentErr
	})

	if err == nil {
		t.Error("expected error for permanent error")
	}
	if callCount != 1 {
		t.Errorf("expected 1 call (no retry for permanent), got %d", callCount)
	}
}

func TestMarkPermanent(t *testing.T) {
	original := errors.New("original error")
	permanent := MarkPermanent(original)

	if !IsPermanent(permanent) {
		t.Error("expected IsPermanent to return true")
	}

	if !errors.Is(permanent, original) {
		t.Error("expected permanent error to wrap original")
	}

	if permanent.Error() != "original error" {
		t.Errorf("expected error message to be preserved, got %q", permanent.Error())
	}

	// Test nil input
	if MarkPermanent(nil) != nil {
		t.Error("expected MarkPermanent(nil) to return nil")
	}
}
