package telegramimpl

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/orgball2608/vehicle-listing-feed/internal/domain"
	"github.com/orgball2608/vehicle-listing-feed/pkg/config"
	"github.com/orgball2608/vehicle-listing-feed/pkg/logger"
)

type botServer struct {
	mu        sync.Mutex
	calls     []string
	forms     map[string]map[string]string
	failPhoto bool
}

func (b *botServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

	b.mu.Lock()
	b.calls = append(b.calls, method)
	form := map[string]string{}
	for k := range r.PostForm {
		form[k] = r.PostForm.Get(k)
	}
	b.forms[method] = form
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case method == "getMe":
		fmt.Fprint(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"dealer","username":"dealer_bot"}}`)
	case method == "sendPhoto" && b.failPhoto:
		fmt.Fprint(w, `{"ok":false,"error_code":400,"description":"Bad Request: wrong file identifier/HTTP URL specified"}`)
	default:
		fmt.Fprint(w, `{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"group"}}}`)
	}
}

func newTestClient(t *testing.T, failPhoto bool) (*TelegramImpl, *botServer) {
	t.Helper()

	bs := &botServer{forms: map[string]map[string]string{}, failPhoto: failPhoto}
	srv := httptest.NewServer(bs)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.Telegram.StaffChat = 42
	cfg.Telegram.APIEndpoint = srv.URL + "/bot%s/%s"

	client, err := New(Opts{Config: cfg, Logger: logger.NewNop()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	impl, ok := client.(*TelegramImpl)
	if !ok {
		t.Fatalf("expected *TelegramImpl, got %T", client)
	}
	return impl, bs
}

func testListing() domain.ExtractedListing {
	return domain.ExtractedListing{
		ID:          "1_10",
		Source:      domain.SourceFacebook,
		Images:      []string{"https://cdn/a.jpg", "https://cdn/b.jpg"},
		Description: "BMW 320d (2018), full history.",
		Price:       "22.500€",
		CreatedTime: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Permalink:   "https://www.facebook.com/1_10",
	}
}

func TestNewWithoutTokenIsNoop(t *testing.T) {
	client, err := New(Opts{Config: &config.Config{}, Logger: logger.NewNop()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := client.(*Noop); !ok {
		t.Fatalf("expected *Noop, got %T", client)
	}
	if err := client.NotifyStaff(context.Background(), "hi"); err != nil {
		t.Errorf("NotifyStaff: %v", err)
	}
	if err := client.SendListing(context.Background(), testListing()); err != nil {
		t.Errorf("SendListing: %v", err)
	}
}

func TestNotifyStaff(t *testing.T) {
	client, bs := newTestClient(t, false)

	if err := client.NotifyStaff(context.Background(), "facebook fetch failed: 502"); err != nil {
		t.Fatalf("NotifyStaff: %v", err)
	}

	form := bs.forms["sendMessage"]
	if form["chat_id"] != "42" || form["text"] != "facebook fetch failed: 502" {
		t.Errorf("unexpected form: %v", form)
	}
	if form["parse_mode"] != "" {
		t.Errorf("staff text must be sent without parse mode, got %q", form["parse_mode"])
	}
}

func TestSendListingAsPhoto(t *testing.T) {
	client, bs := newTestClient(t, false)

	if err := client.SendListing(context.Background(), testListing()); err != nil {
		t.Fatalf("SendListing: %v", err)
	}

	form := bs.forms["sendPhoto"]
	if form["photo"] != "https://cdn/a.jpg" {
		t.Errorf("photo = %q", form["photo"])
	}
	if form["parse_mode"] != "MarkdownV2" {
		t.Errorf("parse_mode = %q", form["parse_mode"])
	}
	if !strings.Contains(form["caption"], `BMW 320d \(2018\), full history\.`) {
		t.Errorf("caption not escaped: %q", form["caption"])
	}
	if !strings.Contains(form["caption"], "[View post](https://www.facebook.com/1_10)") {
		t.Errorf("caption missing link: %q", form["caption"])
	}
	if _, ok := bs.forms["sendMessage"]; ok {
		t.Error("unexpected text fallback")
	}
}

func TestSendListingFallsBackToText(t *testing.T) {
	client, bs := newTestClient(t, true)

	if err := client.SendListing(context.Background(), testListing()); err != nil {
		t.Fatalf("SendListing: %v", err)
	}

	got := strings.Join(bs.calls, ",")
	if got != "getMe,sendPhoto,sendMessage" {
		t.Errorf("calls = %s", got)
	}
	if !strings.Contains(bs.forms["sendMessage"]["text"], `*Price:* 22\.500€`) {
		t.Errorf("text = %q", bs.forms["sendMessage"]["text"])
	}
}

func TestSendListingHonoursCanceledContext(t *testing.T) {
	client, bs := newTestClient(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := client.SendListing(ctx, testListing()); err == nil {
		t.Fatal("expected error")
	}
	if len(bs.calls) != 1 {
		t.Errorf("expected only getMe, got %v", bs.calls)
	}
}

func TestListingMessageWithoutImagesOrLink(t *testing.T) {
	msg := listingMessage(domain.ExtractedListing{Price: "Price on request", Description: "Car details not available"})
	want := "*New social listing*\n*Price:* Price on request\n\nCar details not available"
	if msg != want {
		t.Errorf("listingMessage = %q; want %q", msg, want)
	}
}
