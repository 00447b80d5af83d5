package telegramimpl

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/vehicle-listing-feed/internal/domain"
	"github.com/orgball2608/vehicle-listing-feed/pkg/formatter"
)

const (
	maxMessageLength     = 4096
	maxDescriptionLength = 700
)

// NotifyStaff sends text as is, without any parse mode.
func (tg *TelegramImpl) NotifyStaff(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(tg.StaffChat, formatter.Truncate(text, maxMessageLength))
	msg.DisableWebPagePreview = true
	if _, err := tg.TgBot.Send(msg); err != nil {
		tg.Logger.Error("Error sending staff message", "chatID", tg.StaffChat, "error", err)
		return fmt.Errorf("failed to send staff message: %w", err)
	}
	return nil
}

// SendListing sends the first image with the listing as caption. When the
// image is rejected the listing goes out as a text message instead.
func (tg *TelegramImpl) SendListing(ctx context.Context, listing domain.ExtractedListing) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	text := listingMessage(listing)

	if len(listing.Images) > 0 {
		photo := tgbotapi.NewPhoto(tg.StaffChat, tgbotapi.FileURL(listing.Images[0]))
		photo.Caption = text
		photo.ParseMode = tgbotapi.ModeMarkdownV2
		_, err := tg.TgBot.Send(photo)
		if err == nil {
			tg.Logger.Info("Listing sent", "id", listing.ID, "chatID", tg.StaffChat)
			return nil
		}
		tg.Logger.Warn("Error sending listing photo, falling back to text", "id", listing.ID, "error", err)
	}

	msg := tgbotapi.NewMessage(tg.StaffChat, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if _, err := tg.TgBot.Send(msg); err != nil {
		tg.Logger.Error("Error sending listing", "id", listing.ID, "chatID", tg.StaffChat, "error", err)
		return fmt.Errorf("failed to send listing %s: %w", listing.ID, err)
	}

	tg.Logger.Info("Listing sent", "id", listing.ID, "chatID", tg.StaffChat)
	return nil
}

func listingMessage(l domain.ExtractedListing) string {
	var sb strings.Builder

	source := l.Source
	if source == "" {
		source = "social"
	}
	fmt.Fprintf(&sb, "*New %s listing*\n", formatter.EscapeMarkdownV2(source))
	fmt.Fprintf(&sb, "*Price:* %s\n\n", formatter.EscapeMarkdownV2(l.Price))
	sb.WriteString(formatter.EscapeMarkdownV2(formatter.Truncate(l.Description, maxDescriptionLength)))
	if l.Permalink != "" {
		fmt.Fprintf(&sb, "\n\n[View post](%s)", escapeLinkURL(l.Permalink))
	}
	return sb.String()
}

// escapeLinkURL escapes the characters MarkdownV2 reserves inside (...) of
// an inline link.
func escapeLinkURL(u string) string {
	return strings.NewReplacer(`\`, `\\`, `)`, `\)`).Replace(u)
}
