package telegram

import (
	"context"

	"github.com/orgball2608/vehicle-listing-feed/internal/domain"
)

// Client delivers staff notifications.
//
//go:generate go run go.uber.org/mock/mockgen -source=telegram.go -destination=mocks/mock.go
type Client interface {
	// NotifyStaff sends a plain text message to the staff chat.
	NotifyStaff(ctx context.Context, text string) error

	// SendListing announces a newly found listing to the staff chat.
	SendListing(ctx context.Context, listing domain.ExtractedListing) error
}
