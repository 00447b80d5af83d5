package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/orgball2608/vehicle-listing-feed/pkg/logger"
)

func fastConfig() Config {
	return Config{
		MaxRetries:      3,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		Multiplier:      1.5,
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), logger.NewNop(), "flaky", func() error {
		calls++
		if calls < 3 {
			return errors.New("temporary")
		}
		return nil
	}, fastConfig())

	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d; want 3", calls)
	}
}

func TestDoStopsOnPermanent(t *testing.T) {
	cause := errors.New("unauthorized")
	calls := 0
	err := Do(context.Background(), logger.NewNop(), "auth", func() error {
		calls++
		return Permanent(cause)
	}, fastConfig())

	if !errors.Is(err, cause) {
		t.Fatalf("Do() error = %v; want %v", err, cause)
	}
	if calls != 1 {
		t.Errorf("calls = %d; want 1", calls)
	}
}

func TestDoGivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), logger.NewNop(), "down", func() error {
		calls++
		return errors.New("503")
	}, fastConfig())

	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 4 {
		t.Errorf("calls = %d; want 4 (1 + 3 retries)", calls)
	}
}
