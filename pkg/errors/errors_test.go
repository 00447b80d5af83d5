package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestUpstreamMatchesSentinelAndCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Upstream(cause, "facebook page posts")

	if !IsUpstreamFetch(err) {
		t.Error("expected error to match ErrUpstreamFetch")
	}
	if !errors.Is(err, cause) {
		t.Error("expected error to keep the cause in its chain")
	}
	if got := GetCode(err); got != CodeUpstreamFetch {
		t.Errorf("GetCode() = %q; want %q", got, CodeUpstreamFetch)
	}
	if got := GetMessage(err); got != "facebook page posts" {
		t.Errorf("GetMessage() = %q", got)
	}
	if Upstream(nil, "x") != nil {
		t.Error("Upstream(nil) should be nil")
	}
}

func TestInvalid(t *testing.T) {
	err := Invalid("images must be a permutation")
	if !IsInvalidInput(err) {
		t.Error("expected ErrInvalidInput")
	}
	if err.Error() != "images must be a permutation: invalid input" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "x") != nil || WrapWithCode(nil, "C", "x") != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestNotFoundAndUnavailable(t *testing.T) {
	notFound := NotFound("vehicle not found")
	if !IsNotFound(notFound) || GetCode(notFound) != CodeNotFound {
		t.Errorf("unexpected not found error: %v", notFound)
	}
	if GetMessage(notFound) != "vehicle not found" {
		t.Errorf("GetMessage() = %q", GetMessage(notFound))
	}

	unavailable := Unavailable(CodeNotInitialized, "store not initialized")
	wrapped := fmt.Errorf("get vehicle: %w", unavailable)
	if !IsServiceUnavailable(wrapped) || IsNotFound(wrapped) {
		t.Errorf("unexpected classification for %v", wrapped)
	}
	if GetCode(wrapped) != CodeNotInitialized {
		t.Errorf("GetCode() = %q", GetCode(wrapped))
	}
}
